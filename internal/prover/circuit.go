package prover

import (
	"github.com/consensys/gnark/frontend"

	"rescuecipher/internal/params"
	"rescuecipher/internal/rescue"
)

// EncryptionCircuit asserts Encrypt(Key, Plaintext) == Ciphertext and that
// KeyCommitment commits to Key.
type EncryptionCircuit struct {
	// Public
	Params        rescue.Variables
	Plaintext     []frontend.Variable `gnark:",public"`
	Ciphertext    []frontend.Variable `gnark:",public"`
	KeyCommitment frontend.Variable   `gnark:",public"`

	// Private
	Key []frontend.Variable

	Shape params.Shape `gnark:"-"`
}

// NewEncryptionCircuit allocates a circuit of the given shape for compilation.
func NewEncryptionCircuit(shape params.Shape) *EncryptionCircuit {
	return &EncryptionCircuit{
		Params:     rescue.NewVariables(shape),
		Plaintext:  make([]frontend.Variable, shape.Width),
		Ciphertext: make([]frontend.Variable, shape.Width),
		Key:        make([]frontend.Variable, shape.Width),
		Shape:      shape,
	}
}

func (c *EncryptionCircuit) Define(api frontend.API) error {
	if err := assertKeyCommitment(api, c.Key, c.KeyCommitment); err != nil {
		return err
	}
	r, err := rescue.Materialize(api, c.Shape, c.Params)
	if err != nil {
		return err
	}
	ct, err := r.Encrypt(api, c.Key, c.Plaintext)
	if err != nil {
		return err
	}
	assertVectorsEqual(api, ct, c.Ciphertext)
	return nil
}

// DecryptionCircuit asserts Decrypt(Key, Ciphertext) == Plaintext and that
// KeyCommitment commits to Key.
type DecryptionCircuit struct {
	// Public
	Params        rescue.Variables
	Ciphertext    []frontend.Variable `gnark:",public"`
	Plaintext     []frontend.Variable `gnark:",public"`
	KeyCommitment frontend.Variable   `gnark:",public"`

	// Private
	Key []frontend.Variable

	Shape params.Shape `gnark:"-"`
}

// NewDecryptionCircuit allocates a circuit of the given shape for compilation.
func NewDecryptionCircuit(shape params.Shape) *DecryptionCircuit {
	return &DecryptionCircuit{
		Params:     rescue.NewVariables(shape),
		Ciphertext: make([]frontend.Variable, shape.Width),
		Plaintext:  make([]frontend.Variable, shape.Width),
		Key:        make([]frontend.Variable, shape.Width),
		Shape:      shape,
	}
}

func (c *DecryptionCircuit) Define(api frontend.API) error {
	if err := assertKeyCommitment(api, c.Key, c.KeyCommitment); err != nil {
		return err
	}
	r, err := rescue.Materialize(api, c.Shape, c.Params)
	if err != nil {
		return err
	}
	pt, err := r.Decrypt(api, c.Key, c.Ciphertext)
	if err != nil {
		return err
	}
	assertVectorsEqual(api, pt, c.Plaintext)
	return nil
}

// RoundTripCircuit encrypts a private plaintext under a private key, decrypts
// the result and asserts the plaintext comes back.
type RoundTripCircuit struct {
	Params    rescue.Variables
	Key       []frontend.Variable
	Plaintext []frontend.Variable

	Shape params.Shape `gnark:"-"`
}

// NewRoundTripCircuit allocates a circuit of the given shape for compilation.
func NewRoundTripCircuit(shape params.Shape) *RoundTripCircuit {
	return &RoundTripCircuit{
		Params:    rescue.NewVariables(shape),
		Key:       make([]frontend.Variable, shape.Width),
		Plaintext: make([]frontend.Variable, shape.Width),
		Shape:     shape,
	}
}

func (c *RoundTripCircuit) Define(api frontend.API) error {
	r, err := rescue.Materialize(api, c.Shape, c.Params)
	if err != nil {
		return err
	}
	ct, err := r.Encrypt(api, c.Key, c.Plaintext)
	if err != nil {
		return err
	}
	pt, err := r.Decrypt(api, c.Key, ct)
	if err != nil {
		return err
	}
	assertVectorsEqual(api, pt, c.Plaintext)
	return nil
}

func assertVectorsEqual(api frontend.API, got, want []frontend.Variable) {
	for i := range got {
		api.AssertIsEqual(got[i], want[i])
	}
}

package native

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"rescuecipher/internal/params"
)

// Ready holds the parameters resolved into the MDS matrix and its inverse.
// It is read-only once built and safe to share between goroutines.
type Ready struct {
	Shape          params.Shape
	Matrix         Matrix
	Inverse        Matrix
	RoundConstants [][]fr.Element
	Exponent       params.SBoxExponent
}

// Materialize builds the MDS matrix and its inverse from the parameters.
func Materialize(p *params.Parameters) (*Ready, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	m, err := BuildMDS(p.Vectors)
	if err != nil {
		return nil, err
	}
	inv, err := Invert(m)
	if err != nil {
		return nil, err
	}
	return &Ready{
		Shape:          p.Shape,
		Matrix:         m,
		Inverse:        inv,
		RoundConstants: p.RoundConstants,
		Exponent:       p.Exponent,
	}, nil
}

// DeriveSubkeys runs the unkeyed round function over the master key and returns
// one subkey per round.
func (r *Ready) DeriveSubkeys(key []fr.Element) ([][]fr.Element, error) {
	if err := r.Shape.CheckVector("key", len(key)); err != nil {
		return nil, err
	}
	subkeys := make([][]fr.Element, r.Shape.Rounds)
	subkeys[0] = AddVectors(key, r.RoundConstants[0])
	for i := 1; i < r.Shape.Rounds; i++ {
		next, err := r.Matrix.MulVector(subkeys[i-1])
		if err != nil {
			return nil, err
		}
		applySBox(params.ForwardRound(i), r.Exponent, next)
		subkeys[i] = AddVectors(next, r.RoundConstants[i])
	}
	return subkeys, nil
}

// Encrypt returns the ciphertext of plaintext under key.
func (r *Ready) Encrypt(key, plaintext []fr.Element) ([]fr.Element, error) {
	if err := r.Shape.CheckVector("plaintext", len(plaintext)); err != nil {
		return nil, err
	}
	subkeys, err := r.DeriveSubkeys(key)
	if err != nil {
		return nil, err
	}
	state := AddVectors(plaintext, subkeys[0])
	for i := 1; i < r.Shape.Rounds; i++ {
		if state, err = r.Matrix.MulVector(state); err != nil {
			return nil, err
		}
		applySBox(params.ForwardRound(i), r.Exponent, state)
		state = AddVectors(state, subkeys[i])
	}
	return state, nil
}

// Decrypt undoes Encrypt, peeling rounds from the last one down.
func (r *Ready) Decrypt(key, ciphertext []fr.Element) ([]fr.Element, error) {
	if err := r.Shape.CheckVector("ciphertext", len(ciphertext)); err != nil {
		return nil, err
	}
	subkeys, err := r.DeriveSubkeys(key)
	if err != nil {
		return nil, err
	}
	rounds := r.Shape.Rounds
	state := SubVectors(ciphertext, subkeys[rounds-1])
	for i := 1; i < rounds; i++ {
		applySBox(!params.ForwardRound(rounds-i), r.Exponent, state)
		if state, err = r.Inverse.MulVector(state); err != nil {
			return nil, fmt.Errorf("round %d: %w", rounds-i, err)
		}
		state = SubVectors(state, subkeys[rounds-1-i])
	}
	return state, nil
}

package prover

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/consensys/gnark/logger"
	"golang.org/x/sync/errgroup"

	"rescuecipher/internal/native"
	"rescuecipher/internal/params"
	"rescuecipher/internal/rescue"
)

// Proof is a Groth16 proof together with the public values it was made for.
type Proof struct {
	Plaintext     []fr.Element
	Ciphertext    []fr.Element
	KeyCommitment fr.Element
	Groth16       []byte
}

// Compile compiles a circuit to R1CS over the BN254 scalar field.
func Compile(circuit frontend.Circuit) (constraint.ConstraintSystem, error) {
	start := time.Now()
	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, circuit)
	if err != nil {
		return nil, fmt.Errorf("circuit compilation failed: %w", err)
	}
	log := logger.Logger()
	log.Debug().
		Int("constraints", ccs.GetNbConstraints()).
		Dur("took", time.Since(start)).
		Msg("circuit compiled")
	return ccs, nil
}

// ProveEncryption encrypts plaintext under key and proves the encryption
// against a ccs compiled from NewEncryptionCircuit.
func ProveEncryption(ccs constraint.ConstraintSystem, pk groth16.ProvingKey, p *params.Parameters, key, plaintext []fr.Element) (*Proof, error) {
	r, err := native.Materialize(p)
	if err != nil {
		return nil, err
	}
	ct, err := r.Encrypt(key, plaintext)
	if err != nil {
		return nil, err
	}
	proof := &Proof{Plaintext: plaintext, Ciphertext: ct, KeyCommitment: KeyCommitment(key)}
	assignment := proof.encryptionAssignment(p)
	assignment.Key = rescue.Vector(params.BigInts(key))
	if proof.Groth16, err = prove(ccs, pk, assignment); err != nil {
		return nil, err
	}
	return proof, nil
}

// VerifyEncryption checks an encryption proof against the public parameters.
func VerifyEncryption(vk groth16.VerifyingKey, p *params.Parameters, proof *Proof) error {
	return verify(vk, proof.encryptionAssignment(p), proof.Groth16)
}

// ProveDecryption decrypts ciphertext under key and proves the decryption
// against a ccs compiled from NewDecryptionCircuit.
func ProveDecryption(ccs constraint.ConstraintSystem, pk groth16.ProvingKey, p *params.Parameters, key, ciphertext []fr.Element) (*Proof, error) {
	r, err := native.Materialize(p)
	if err != nil {
		return nil, err
	}
	pt, err := r.Decrypt(key, ciphertext)
	if err != nil {
		return nil, err
	}
	proof := &Proof{Plaintext: pt, Ciphertext: ciphertext, KeyCommitment: KeyCommitment(key)}
	assignment := proof.decryptionAssignment(p)
	assignment.Key = rescue.Vector(params.BigInts(key))
	if proof.Groth16, err = prove(ccs, pk, assignment); err != nil {
		return nil, err
	}
	return proof, nil
}

// VerifyDecryption checks a decryption proof against the public parameters.
func VerifyDecryption(vk groth16.VerifyingKey, p *params.Parameters, proof *Proof) error {
	return verify(vk, proof.decryptionAssignment(p), proof.Groth16)
}

// Job is one encryption to prove in a batch.
type Job struct {
	Key       []fr.Element
	Plaintext []fr.Element
}

// ProveBatch proves the jobs concurrently, running at most limit provers at a
// time (no limit when limit <= 0). Proofs are returned in job order. The first
// failure cancels the jobs that have not started yet.
func ProveBatch(ctx context.Context, ccs constraint.ConstraintSystem, pk groth16.ProvingKey, p *params.Parameters, jobs []Job, limit int) ([]*Proof, error) {
	proofs := make([]*Proof, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			proof, err := ProveEncryption(ccs, pk, p, jobs[i].Key, jobs[i].Plaintext)
			if err != nil {
				return fmt.Errorf("job %d: %w", i, err)
			}
			proofs[i] = proof
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return proofs, nil
}

func (proof *Proof) encryptionAssignment(p *params.Parameters) *EncryptionCircuit {
	return &EncryptionCircuit{
		Params:        rescue.Assign(p),
		Plaintext:     rescue.Vector(params.BigInts(proof.Plaintext)),
		Ciphertext:    rescue.Vector(params.BigInts(proof.Ciphertext)),
		KeyCommitment: proof.KeyCommitment.String(),
	}
}

func (proof *Proof) decryptionAssignment(p *params.Parameters) *DecryptionCircuit {
	return &DecryptionCircuit{
		Params:        rescue.Assign(p),
		Ciphertext:    rescue.Vector(params.BigInts(proof.Ciphertext)),
		Plaintext:     rescue.Vector(params.BigInts(proof.Plaintext)),
		KeyCommitment: proof.KeyCommitment.String(),
	}
}

func prove(ccs constraint.ConstraintSystem, pk groth16.ProvingKey, assignment frontend.Circuit) ([]byte, error) {
	start := time.Now()
	w, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("witness creation failed: %w", err)
	}
	if err := ccs.IsSolved(w); err != nil {
		return nil, fmt.Errorf("%w: %w", params.ErrUnsatisfied, err)
	}
	proof, err := groth16.Prove(ccs, pk, w)
	if err != nil {
		return nil, fmt.Errorf("proof generation failed: %w", err)
	}
	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("proof marshaling failed: %w", err)
	}
	log := logger.Logger()
	log.Debug().Dur("took", time.Since(start)).Msg("proof generated")
	return buf.Bytes(), nil
}

func verify(vk groth16.VerifyingKey, assignment frontend.Circuit, raw []byte) error {
	w, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return fmt.Errorf("public witness creation failed: %w", err)
	}
	proof := groth16.NewProof(ecc.BN254)
	if _, err := proof.ReadFrom(bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("proof unmarshaling failed: %w", err)
	}
	if err := groth16.Verify(proof, vk, w); err != nil {
		return fmt.Errorf("proof verification failed: %w", err)
	}
	return nil
}

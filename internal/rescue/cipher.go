package rescue

import (
	"fmt"

	"github.com/consensys/gnark/frontend"

	"rescuecipher/internal/params"
)

// DeriveSubkeys derives one subkey per round from the master key. The schedule is
// an unkeyed run of the round function: subkey 0 is key + rc[0], and subkey i
// is S_i(M * subkey[i-1]) + rc[i].
func (r *Ready) DeriveSubkeys(api frontend.API, key []frontend.Variable) ([][]frontend.Variable, error) {
	if err := r.Shape.CheckVector("key", len(key)); err != nil {
		return nil, err
	}
	subkeys := make([][]frontend.Variable, r.Shape.Rounds)
	subkeys[0] = AddVectors(api, key, r.RoundConstants[0])
	for i := 1; i < r.Shape.Rounds; i++ {
		next, err := r.Matrix.MulVector(api, subkeys[i-1])
		if err != nil {
			return nil, err
		}
		if err := applySBox(api, params.ForwardRound(i), next); err != nil {
			return nil, fmt.Errorf("subkey %d: %w", i, err)
		}
		subkeys[i] = AddVectors(api, next, r.RoundConstants[i])
	}
	return subkeys, nil
}

// Encrypt returns the ciphertext of plaintext under key.
func (r *Ready) Encrypt(api frontend.API, key, plaintext []frontend.Variable) ([]frontend.Variable, error) {
	if err := r.Shape.CheckVector("plaintext", len(plaintext)); err != nil {
		return nil, err
	}
	subkeys, err := r.DeriveSubkeys(api, key)
	if err != nil {
		return nil, err
	}

	state := AddVectors(api, plaintext, subkeys[0])
	for i := 1; i < r.Shape.Rounds; i++ {
		if state, err = r.Matrix.MulVector(api, state); err != nil {
			return nil, err
		}
		if err := applySBox(api, params.ForwardRound(i), state); err != nil {
			return nil, fmt.Errorf("round %d: %w", i, err)
		}
		state = AddVectors(api, state, subkeys[i])
	}
	return state, nil
}

// Decrypt undoes Encrypt. Step i peels encryption round R-i: it applies the
// opposite S-box of that round, multiplies by the inverse matrix and removes the
// previous subkey.
func (r *Ready) Decrypt(api frontend.API, key, ciphertext []frontend.Variable) ([]frontend.Variable, error) {
	if err := r.Shape.CheckVector("ciphertext", len(ciphertext)); err != nil {
		return nil, err
	}
	subkeys, err := r.DeriveSubkeys(api, key)
	if err != nil {
		return nil, err
	}

	rounds := r.Shape.Rounds
	state := SubVectors(api, ciphertext, subkeys[rounds-1])
	for i := 1; i < rounds; i++ {
		if err := applySBox(api, !params.ForwardRound(rounds-i), state); err != nil {
			return nil, fmt.Errorf("round %d: %w", rounds-i, err)
		}
		if state, err = r.Inverse.MulVector(api, state); err != nil {
			return nil, err
		}
		state = SubVectors(api, state, subkeys[rounds-1-i])
	}
	return state, nil
}

package prover

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	mimcNative "github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/mimc"
)

// KeyCommitment returns the MiMC hash of the key, one field element per block.
func KeyCommitment(key []fr.Element) fr.Element {
	h := mimcNative.NewMiMC()
	for i := range key {
		b := key[i].Bytes()
		h.Write(b[:])
	}
	var c fr.Element
	c.SetBytes(h.Sum(nil))
	return c
}

func assertKeyCommitment(api frontend.API, key []frontend.Variable, commitment frontend.Variable) error {
	h, err := mimc.NewMiMC(api)
	if err != nil {
		return fmt.Errorf("mimc: %w", err)
	}
	h.Write(key...)
	api.AssertIsEqual(h.Sum(), commitment)
	return nil
}

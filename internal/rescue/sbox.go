package rescue

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark/constraint/solver"
	"github.com/consensys/gnark/frontend"

	"rescuecipher/internal/params"
)

func init() {
	solver.RegisterHint(GetHints()...)
}

// GetHints returns the hints the gadgets of this package use.
func GetHints() []solver.Hint {
	return []solver.Hint{quinticRootHint}
}

// quinticRootHint computes v^e with e = 1/5 mod (p-1), the unique fifth root of v.
func quinticRootHint(field *big.Int, inputs []*big.Int, outputs []*big.Int) error {
	if len(inputs) != 1 || len(outputs) != 1 {
		return fmt.Errorf("quintic root: expected 1 input and 1 output, got %d and %d", len(inputs), len(outputs))
	}
	exp, err := params.InverseExponent(field)
	if err != nil {
		return err
	}
	outputs[0].Set(exp.PowMod(inputs[0], field))
	return nil
}

// SBox returns v^5 with four chained multiplications.
func SBox(api frontend.API, v frontend.Variable) frontend.Variable {
	r := api.Mul(v, v)
	r = api.Mul(r, v)
	r = api.Mul(r, v)
	return api.Mul(r, v)
}

// InverseSBox returns the fifth root w of v. The root is computed out of circuit
// and the circuit only checks w^5 == v. A wrong root leaves the circuit
// unsatisfiable.
func InverseSBox(api frontend.API, v frontend.Variable) (frontend.Variable, error) {
	res, err := api.Compiler().NewHint(quinticRootHint, 1, v)
	if err != nil {
		return nil, fmt.Errorf("quintic root hint: %w", err)
	}
	w := res[0]
	api.AssertIsEqual(SBox(api, w), v)
	return w, nil
}

// applySBox replaces every state entry by its forward or inverse S-box image.
func applySBox(api frontend.API, forward bool, state []frontend.Variable) error {
	for i := range state {
		if forward {
			state[i] = SBox(api, state[i])
			continue
		}
		w, err := InverseSBox(api, state[i])
		if err != nil {
			return err
		}
		state[i] = w
	}
	return nil
}

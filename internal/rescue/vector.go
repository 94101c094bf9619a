package rescue

import (
	"math/big"

	"github.com/consensys/gnark/frontend"
)

// DotProduct returns sum x_i * y_i. The vectors must have equal length.
func DotProduct(api frontend.API, x, y []frontend.Variable) frontend.Variable {
	var res frontend.Variable = 0
	for i := range x {
		res = api.Add(res, api.Mul(x[i], y[i]))
	}
	return res
}

// AddVectors returns x + y elementwise.
func AddVectors(api frontend.API, x, y []frontend.Variable) []frontend.Variable {
	res := make([]frontend.Variable, len(x))
	for i := range x {
		res[i] = api.Add(x[i], y[i])
	}
	return res
}

// SubVectors returns x - y elementwise.
func SubVectors(api frontend.API, x, y []frontend.Variable) []frontend.Variable {
	res := make([]frontend.Variable, len(x))
	for i := range x {
		res[i] = api.Sub(x[i], y[i])
	}
	return res
}

// Equals returns 1 if a == b and 0 otherwise.
func Equals(api frontend.API, a, b frontend.Variable) frontend.Variable {
	return api.IsZero(api.Sub(a, b))
}

// constantValue returns the value of v reduced into the field when the backend
// knows it at circuit-definition time.
func constantValue(api frontend.API, v frontend.Variable) (*big.Int, bool) {
	c, ok := api.Compiler().ConstantValue(v)
	if !ok || c == nil {
		return nil, false
	}
	return new(big.Int).Mod(c, api.Compiler().Field()), true
}

// sameConstant reports whether a and b are both known and equal.
func sameConstant(api frontend.API, a, b frontend.Variable) bool {
	ca, ok := constantValue(api, a)
	if !ok {
		return false
	}
	cb, ok := constantValue(api, b)
	return ok && ca.Cmp(cb) == 0
}

// knownValue reports whether v is known to equal want.
func knownValue(api frontend.API, v frontend.Variable, want int64) bool {
	c, ok := constantValue(api, v)
	return ok && c.Cmp(big.NewInt(want)) == 0
}

package params

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/holiman/uint256"
)

// Alpha is the public forward S-box exponent.
const Alpha = 5

// SBoxExponent holds the forward exponent and its inverse modulo p-1, so that
// (x^Alpha)^Inverse = (x^Inverse)^Alpha = x for every x in the field.
// Inverse is a fixed 4x64-bit little-endian limb array.
type SBoxExponent struct {
	Alpha   uint64
	Inverse uint256.Int
}

var (
	exponentMu    sync.Mutex
	exponentCache = make(map[string]SBoxExponent)
)

// InverseExponent returns the S-box exponent pair for the prime field of the given modulus.
// The result is computed once per modulus and cached.
func InverseExponent(modulus *big.Int) (SBoxExponent, error) {
	key := modulus.String()

	exponentMu.Lock()
	defer exponentMu.Unlock()
	if e, ok := exponentCache[key]; ok {
		return e, nil
	}
	e, err := computeInverseExponent(Alpha, modulus)
	if err != nil {
		return SBoxExponent{}, err
	}
	exponentCache[key] = e
	return e, nil
}

// computeInverseExponent solves alpha*e = 1 mod (p-1) with the extended Euclidean algorithm.
func computeInverseExponent(alpha uint64, modulus *big.Int) (SBoxExponent, error) {
	order := new(big.Int).Sub(modulus, big.NewInt(1))
	a := new(big.Int).SetUint64(alpha)

	// g = a*x + order*y
	x, y := new(big.Int), new(big.Int)
	g := new(big.Int).GCD(x, y, a, order)
	if g.Cmp(big.NewInt(1)) != 0 {
		return SBoxExponent{}, fmt.Errorf("%w: gcd(%d, p-1) = %s", ErrExponentNotInvertible, alpha, g)
	}
	x.Mod(x, order)

	inv, overflow := uint256.FromBig(x)
	if overflow {
		return SBoxExponent{}, fmt.Errorf("%w: %d bits", ErrExponentTooWide, x.BitLen())
	}
	return SBoxExponent{Alpha: alpha, Inverse: *inv}, nil
}

// Limbs returns the inverse exponent as little-endian 64-bit limbs.
func (e SBoxExponent) Limbs() [4]uint64 {
	return [4]uint64(e.Inverse)
}

// PowMod returns v^Inverse mod modulus by left-to-right square-and-multiply
// over the limb array, most significant limb first.
func (e SBoxExponent) PowMod(v, modulus *big.Int) *big.Int {
	base := new(big.Int).Mod(v, modulus)
	res := big.NewInt(1)
	limbs := e.Limbs()
	for i := len(limbs) - 1; i >= 0; i-- {
		for bit := 63; bit >= 0; bit-- {
			res.Mul(res, res).Mod(res, modulus)
			if (limbs[i]>>uint(bit))&1 == 1 {
				res.Mul(res, base).Mod(res, modulus)
			}
		}
	}
	return res
}

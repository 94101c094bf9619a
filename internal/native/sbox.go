package native

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"rescuecipher/internal/params"
)

// SBox returns v^5.
func SBox(v fr.Element) fr.Element {
	var r fr.Element
	r.Mul(&v, &v)
	r.Mul(&r, &v)
	r.Mul(&r, &v)
	r.Mul(&r, &v)
	return r
}

// InverseSBox returns v^e where e = 1/5 mod (p-1), by left-to-right
// square-and-multiply over the exponent limbs.
func InverseSBox(e params.SBoxExponent, v fr.Element) fr.Element {
	var res fr.Element
	res.SetOne()
	limbs := e.Limbs()
	for i := len(limbs) - 1; i >= 0; i-- {
		for bit := 63; bit >= 0; bit-- {
			res.Square(&res)
			if (limbs[i]>>uint(bit))&1 == 1 {
				res.Mul(&res, &v)
			}
		}
	}
	return res
}

func applySBox(forward bool, e params.SBoxExponent, state []fr.Element) {
	for i := range state {
		if forward {
			state[i] = SBox(state[i])
		} else {
			state[i] = InverseSBox(e, state[i])
		}
	}
}

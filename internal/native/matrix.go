package native

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"rescuecipher/internal/params"
)

// Matrix is a square matrix of field elements, indexed [row][column].
type Matrix [][]fr.Element

func newMatrix(n int) Matrix {
	m := make(Matrix, n)
	for i := range m {
		m[i] = make([]fr.Element, n)
	}
	return m
}

// Identity returns the n x n identity matrix.
func Identity(n int) Matrix {
	m := newMatrix(n)
	for i := range m {
		m[i][i].SetOne()
	}
	return m
}

// Size returns the number of rows.
func (m Matrix) Size() int {
	return len(m)
}

// Equal reports whether both matrices have the same size and entries.
func (m Matrix) Equal(o Matrix) bool {
	if len(m) != len(o) {
		return false
	}
	for i := range m {
		if len(m[i]) != len(o[i]) {
			return false
		}
		for j := range m[i] {
			if !m[i][j].Equal(&o[i][j]) {
				return false
			}
		}
	}
	return true
}

// BuildMDS builds the Cauchy matrix with entry (i,j) = 1/(x_i - y_j).
func BuildMDS(v params.CauchyVectors) (Matrix, error) {
	if len(v.X) != len(v.Y) {
		return nil, fmt.Errorf("%w: x has %d entries, y has %d", params.ErrShapeMismatch, len(v.X), len(v.Y))
	}
	if !v.Valid() {
		return nil, params.ErrVectorCollision
	}
	m := newMatrix(len(v.X))
	for i := range v.X {
		for j := range v.Y {
			var d fr.Element
			d.Sub(&v.X[i], &v.Y[j])
			m[i][j].Inverse(&d)
		}
	}
	return m, nil
}

// Determinant expands a 3x3 determinant. Other sizes return ErrUnsupportedSize.
func Determinant(m Matrix) (fr.Element, error) {
	var det fr.Element
	if m.Size() != 3 {
		return det, fmt.Errorf("%w: %dx%d", params.ErrUnsupportedSize, m.Size(), m.Size())
	}
	s123 := triple(&m[0][0], &m[1][1], &m[2][2])
	s132 := triple(&m[0][0], &m[1][2], &m[2][1])
	s213 := triple(&m[0][1], &m[1][0], &m[2][2])
	s231 := triple(&m[0][1], &m[1][2], &m[2][0])
	s312 := triple(&m[0][2], &m[1][0], &m[2][1])
	s321 := triple(&m[0][2], &m[1][1], &m[2][0])

	det.Add(&s123, &s231).
		Add(&det, &s312).
		Sub(&det, &s132).
		Sub(&det, &s321).
		Sub(&det, &s213)
	return det, nil
}

func triple(a, b, c *fr.Element) fr.Element {
	var r fr.Element
	r.Mul(a, b).Mul(&r, c)
	return r
}

// Invert returns the inverse of a 3x3 matrix as adjugate over determinant.
func Invert(m Matrix) (Matrix, error) {
	det, err := Determinant(m)
	if err != nil {
		return nil, err
	}
	if det.IsZero() {
		return nil, params.ErrSingularMatrix
	}
	var detInv fr.Element
	detInv.Inverse(&det)

	inv := newMatrix(3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var a, b fr.Element
			a.Mul(&m[(i+1)%3][(j+1)%3], &m[(i+2)%3][(j+2)%3])
			b.Mul(&m[(i+1)%3][(j+2)%3], &m[(i+2)%3][(j+1)%3])
			inv[j][i].Sub(&a, &b).Mul(&inv[j][i], &detInv)
		}
	}
	return inv, nil
}

// Mul returns the matrix product m * o.
func (m Matrix) Mul(o Matrix) (Matrix, error) {
	if m.Size() != o.Size() {
		return nil, fmt.Errorf("%w: %dx%d times %dx%d", params.ErrShapeMismatch, m.Size(), m.Size(), o.Size(), o.Size())
	}
	n := m.Size()
	out := newMatrix(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				var t fr.Element
				t.Mul(&m[i][k], &o[k][j])
				out[i][j].Add(&out[i][j], &t)
			}
		}
	}
	return out, nil
}

// MulVector returns m * v using one dot product per row.
func (m Matrix) MulVector(v []fr.Element) ([]fr.Element, error) {
	if len(v) != m.Size() {
		return nil, fmt.Errorf("%w: vector of %d entries against a %dx%d matrix", params.ErrShapeMismatch, len(v), m.Size(), m.Size())
	}
	out := make([]fr.Element, len(v))
	for j := range m {
		out[j] = DotProduct(m[j], v)
	}
	return out, nil
}

// DotProduct returns sum x_i * y_i. The vectors must have equal length.
func DotProduct(x, y []fr.Element) fr.Element {
	var res fr.Element
	for i := range x {
		var z fr.Element
		z.Mul(&x[i], &y[i])
		res.Add(&res, &z)
	}
	return res
}

// AddVectors returns x + y elementwise.
func AddVectors(x, y []fr.Element) []fr.Element {
	res := make([]fr.Element, len(x))
	for i := range x {
		res[i].Add(&x[i], &y[i])
	}
	return res
}

// SubVectors returns x - y elementwise.
func SubVectors(x, y []fr.Element) []fr.Element {
	res := make([]fr.Element, len(x))
	for i := range x {
		res[i].Sub(&x[i], &y[i])
	}
	return res
}

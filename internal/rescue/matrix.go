package rescue

import (
	"fmt"

	"github.com/consensys/gnark/frontend"

	"rescuecipher/internal/params"
)

// Matrix is a square matrix of circuit values, indexed [row][column].
type Matrix [][]frontend.Variable

func newMatrix(n int) Matrix {
	m := make(Matrix, n)
	for i := range m {
		m[i] = make([]frontend.Variable, n)
	}
	return m
}

// Size returns the number of rows.
func (m Matrix) Size() int {
	return len(m)
}

// MulVector returns m * v using one dot product per row.
func (m Matrix) MulVector(api frontend.API, v []frontend.Variable) ([]frontend.Variable, error) {
	if len(v) != m.Size() {
		return nil, fmt.Errorf("%w: vector of %d entries against a %dx%d matrix", params.ErrShapeMismatch, len(v), m.Size(), m.Size())
	}
	out := make([]frontend.Variable, len(v))
	for j := range m {
		out[j] = DotProduct(api, m[j], v)
	}
	return out, nil
}

// BuildMDS builds the Cauchy matrix with entry (i,j) = 1/(x_i - y_j).
//
// The distinctness of x and y is re-checked over the circuit values: entries of x
// must be pairwise distinct, entries of y likewise, and no x_i may equal a y_j.
// A collision the backend can see returns ErrVectorCollision; otherwise the
// checks become constraints, so the proof itself carries the invariant.
func BuildMDS(api frontend.API, x, y []frontend.Variable) (Matrix, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: x has %d entries, y has %d", params.ErrShapeMismatch, len(x), len(y))
	}
	for i := range x {
		for j := i + 1; j < len(x); j++ {
			if err := assertDistinct(api, x[i], x[j], fmt.Sprintf("x[%d] = x[%d]", i, j)); err != nil {
				return nil, err
			}
		}
	}
	for i := range y {
		for j := i + 1; j < len(y); j++ {
			if err := assertDistinct(api, y[i], y[j], fmt.Sprintf("y[%d] = y[%d]", i, j)); err != nil {
				return nil, err
			}
		}
	}
	for i := range x {
		for j := range y {
			// x_i != y_j is enforced by the inversion below.
			if sameConstant(api, x[i], y[j]) {
				return nil, fmt.Errorf("%w: x[%d] = y[%d]", params.ErrVectorCollision, i, j)
			}
		}
	}

	m := newMatrix(len(x))
	for i := range x {
		for j := range y {
			m[i][j] = api.Inverse(api.Sub(x[i], y[j]))
		}
	}
	return m, nil
}

func assertDistinct(api frontend.API, a, b frontend.Variable, what string) error {
	eq := Equals(api, a, b)
	if knownValue(api, eq, 1) {
		return fmt.Errorf("%w: %s", params.ErrVectorCollision, what)
	}
	api.AssertIsEqual(eq, 0)
	return nil
}

// Determinant expands a 3x3 determinant. Other sizes return ErrUnsupportedSize.
func Determinant(api frontend.API, m Matrix) (frontend.Variable, error) {
	if m.Size() != 3 {
		return nil, fmt.Errorf("%w: %dx%d", params.ErrUnsupportedSize, m.Size(), m.Size())
	}
	s123 := api.Mul(m[0][0], m[1][1], m[2][2])
	s132 := api.Mul(m[0][0], m[1][2], m[2][1])
	s213 := api.Mul(m[0][1], m[1][0], m[2][2])
	s231 := api.Mul(m[0][1], m[1][2], m[2][0])
	s312 := api.Mul(m[0][2], m[1][0], m[2][1])
	s321 := api.Mul(m[0][2], m[1][1], m[2][0])

	det := api.Add(s123, s231, s312)
	return api.Sub(det, s132, s321, s213), nil
}

// Invert returns the inverse of a 3x3 matrix as adjugate over determinant.
// Other sizes return ErrUnsupportedSize. A determinant the backend knows to be
// zero returns ErrSingularMatrix; otherwise the determinant is constrained nonzero.
func Invert(api frontend.API, m Matrix) (Matrix, error) {
	det, err := Determinant(api, m)
	if err != nil {
		return nil, err
	}
	isZero := api.IsZero(det)
	if knownValue(api, isZero, 1) {
		return nil, params.ErrSingularMatrix
	}
	api.AssertIsEqual(isZero, 0)

	inv := newMatrix(3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			a := api.Mul(m[(i+1)%3][(j+1)%3], m[(i+2)%3][(j+2)%3])
			b := api.Mul(m[(i+1)%3][(j+2)%3], m[(i+2)%3][(j+1)%3])
			inv[j][i] = api.Div(api.Sub(a, b), det)
		}
	}
	return inv, nil
}

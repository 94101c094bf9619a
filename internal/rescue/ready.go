package rescue

import (
	"fmt"

	"github.com/consensys/gnark/frontend"

	"rescuecipher/internal/params"
)

// Variables are the circuit-resident cipher parameters. Used as a circuit field
// they are public witness inputs; built with Assign they carry the cleartext values.
type Variables struct {
	X              []frontend.Variable   `gnark:",public"`
	Y              []frontend.Variable   `gnark:",public"`
	RoundConstants [][]frontend.Variable `gnark:",public"`
}

// NewVariables allocates empty parameter slices of the given shape, as gnark
// needs sized slices to parse a circuit.
func NewVariables(shape params.Shape) Variables {
	rc := make([][]frontend.Variable, shape.Rounds)
	for i := range rc {
		rc[i] = make([]frontend.Variable, shape.Width)
	}
	return Variables{
		X:              make([]frontend.Variable, shape.Width),
		Y:              make([]frontend.Variable, shape.Width),
		RoundConstants: rc,
	}
}

// Assign binds cleartext parameters to circuit values.
func Assign(p *params.Parameters) Variables {
	rc := make([][]frontend.Variable, len(p.RoundConstants))
	for i := range p.RoundConstants {
		rc[i] = Vector(params.BigInts(p.RoundConstants[i]))
	}
	return Variables{
		X:              Vector(params.BigInts(p.Vectors.X)),
		Y:              Vector(params.BigInts(p.Vectors.Y)),
		RoundConstants: rc,
	}
}

// Vector converts values of any type gnark accepts into a vector of circuit values.
func Vector[T any](values []T) []frontend.Variable {
	out := make([]frontend.Variable, len(values))
	for i := range values {
		out[i] = values[i]
	}
	return out
}

// Ready is the parameter bundle encryption and decryption run against: the MDS
// matrix, its inverse and the round constants. It is never mutated after
// Materialize returns.
type Ready struct {
	Shape          params.Shape
	Matrix         Matrix
	Inverse        Matrix
	RoundConstants [][]frontend.Variable
}

// Materialize builds the MDS matrix and its inverse from the circuit parameters.
// It propagates ErrUnsupportedSize for widths other than 3 and ErrSingularMatrix
// when the vectors must be resampled.
func Materialize(api frontend.API, shape params.Shape, v Variables) (*Ready, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if err := shape.CheckVector("x", len(v.X)); err != nil {
		return nil, err
	}
	if err := shape.CheckVector("y", len(v.Y)); err != nil {
		return nil, err
	}
	if err := params.CheckTable(shape, "round constants", v.RoundConstants); err != nil {
		return nil, err
	}
	m, err := BuildMDS(api, v.X, v.Y)
	if err != nil {
		return nil, fmt.Errorf("mds matrix: %w", err)
	}
	inv, err := Invert(api, m)
	if err != nil {
		return nil, fmt.Errorf("inverse mds matrix: %w", err)
	}
	return &Ready{
		Shape:          shape,
		Matrix:         m,
		Inverse:        inv,
		RoundConstants: v.RoundConstants,
	}, nil
}

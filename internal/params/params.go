package params

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"os"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Parameters is the cleartext parameter set of one cipher instantiation.
// It is created once and never mutated; encryption and decryption share it.
type Parameters struct {
	Shape          Shape
	Vectors        CauchyVectors
	RoundConstants [][]fr.Element
	Exponent       SBoxExponent
}

// Generate draws a fresh parameter set of the given shape from rng.
func Generate(rng io.Reader, shape Shape, opts ...SamplerOption) (*Parameters, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	exp, err := InverseExponent(fr.Modulus())
	if err != nil {
		return nil, err
	}
	vectors, _, err := SampleCauchyVectors(rng, shape.Width, opts...)
	if err != nil {
		return nil, err
	}
	rc, err := GenerateRoundConstants(rng, shape)
	if err != nil {
		return nil, err
	}
	return &Parameters{
		Shape:          shape,
		Vectors:        vectors,
		RoundConstants: rc,
		Exponent:       exp,
	}, nil
}

// Validate re-checks every invariant of the parameter set.
func (p *Parameters) Validate() error {
	if err := p.Shape.Validate(); err != nil {
		return err
	}
	if err := p.Shape.CheckVector("x", len(p.Vectors.X)); err != nil {
		return err
	}
	if err := p.Shape.CheckVector("y", len(p.Vectors.Y)); err != nil {
		return err
	}
	if !p.Vectors.Valid() {
		return ErrVectorCollision
	}
	if err := CheckTable(p.Shape, "round constants", p.RoundConstants); err != nil {
		return err
	}
	for i, row := range p.RoundConstants {
		for j := range row {
			if row[j].IsZero() {
				return fmt.Errorf("%w at round %d, position %d", ErrZeroRoundConstant, i, j)
			}
		}
	}
	if p.Exponent.Alpha != Alpha || p.Exponent.Inverse.IsZero() {
		return fmt.Errorf("%w: exponent pair not derived", ErrExponentNotInvertible)
	}
	return nil
}

// BigInts converts field elements to regular (non-Montgomery) integers,
// the form gnark expects for witness assignment.
func BigInts(v []fr.Element) []*big.Int {
	out := make([]*big.Int, len(v))
	for i := range v {
		out[i] = v[i].BigInt(new(big.Int))
	}
	return out
}

// FromUint64s builds a vector of field elements from small integers.
func FromUint64s(v ...uint64) []fr.Element {
	out := make([]fr.Element, len(v))
	for i := range v {
		out[i].SetUint64(v[i])
	}
	return out
}

type parametersJSON struct {
	Width          int        `json:"width"`
	Rounds         int        `json:"rounds"`
	X              []string   `json:"x"`
	Y              []string   `json:"y"`
	RoundConstants [][]string `json:"round_constants"`
}

// MarshalJSON encodes the parameters with field elements as decimal strings.
// The exponent pair is not stored: it is derived from the field on load.
func (p *Parameters) MarshalJSON() ([]byte, error) {
	out := parametersJSON{
		Width:          p.Shape.Width,
		Rounds:         p.Shape.Rounds,
		X:              toStrings(p.Vectors.X),
		Y:              toStrings(p.Vectors.Y),
		RoundConstants: make([][]string, len(p.RoundConstants)),
	}
	for i := range p.RoundConstants {
		out.RoundConstants[i] = toStrings(p.RoundConstants[i])
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes and validates parameters written by MarshalJSON.
func (p *Parameters) UnmarshalJSON(data []byte) error {
	var in parametersJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	x, err := fromStrings(in.X)
	if err != nil {
		return fmt.Errorf("invalid x vector: %w", err)
	}
	y, err := fromStrings(in.Y)
	if err != nil {
		return fmt.Errorf("invalid y vector: %w", err)
	}
	rc := make([][]fr.Element, len(in.RoundConstants))
	for i := range in.RoundConstants {
		if rc[i], err = fromStrings(in.RoundConstants[i]); err != nil {
			return fmt.Errorf("invalid round constants at round %d: %w", i, err)
		}
	}
	exp, err := InverseExponent(fr.Modulus())
	if err != nil {
		return err
	}
	decoded := Parameters{
		Shape:          Shape{Width: in.Width, Rounds: in.Rounds},
		Vectors:        CauchyVectors{X: x, Y: y},
		RoundConstants: rc,
		Exponent:       exp,
	}
	if err := decoded.Validate(); err != nil {
		return err
	}
	*p = decoded
	return nil
}

// SaveToFile writes the parameters to a JSON file, overwriting it if it exists.
func (p *Parameters) SaveToFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

// LoadFromFile reads and validates parameters written by SaveToFile.
func LoadFromFile(path string) (*Parameters, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var p Parameters
	if err := json.NewDecoder(f).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

func toStrings(v []fr.Element) []string {
	out := make([]string, len(v))
	for i := range v {
		out[i] = v[i].String()
	}
	return out
}

func fromStrings(s []string) ([]fr.Element, error) {
	out := make([]fr.Element, len(s))
	for i := range s {
		b, ok := new(big.Int).SetString(s[i], 10)
		if !ok {
			return nil, fmt.Errorf("entry %d is not a decimal integer: %q", i, s[i])
		}
		if b.Sign() < 0 || b.Cmp(fr.Modulus()) >= 0 {
			return nil, fmt.Errorf("entry %d is out of the field range", i)
		}
		out[i].SetBigInt(b)
	}
	return out, nil
}

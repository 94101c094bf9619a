package params

import "fmt"

const (
	// DefaultWidth is the state width N used by the reference instantiation.
	DefaultWidth = 3
	// DefaultRounds is the round count R used by the reference instantiation.
	DefaultRounds = 7
)

// Shape fixes the state width N and the round count R of one cipher instantiation.
// Every vector handed to the cipher must have exactly Width entries and every
// round-indexed table exactly Rounds rows.
type Shape struct {
	Width  int `json:"width"`
	Rounds int `json:"rounds"`
}

// DefaultShape returns the N=3, R=7 instantiation.
func DefaultShape() Shape {
	return Shape{Width: DefaultWidth, Rounds: DefaultRounds}
}

// Validate checks that the shape describes a usable cipher.
func (s Shape) Validate() error {
	if s.Width < 2 {
		return fmt.Errorf("%w: width must be at least 2, got %d", ErrShapeMismatch, s.Width)
	}
	if s.Rounds < 2 {
		return fmt.Errorf("%w: rounds must be at least 2, got %d", ErrShapeMismatch, s.Rounds)
	}
	return nil
}

// CheckVector returns ErrShapeMismatch unless n equals the state width.
func (s Shape) CheckVector(name string, n int) error {
	if n != s.Width {
		return fmt.Errorf("%w: %s has %d entries, want %d", ErrShapeMismatch, name, n, s.Width)
	}
	return nil
}

// CheckTable returns ErrShapeMismatch unless rows has Rounds rows of Width entries.
func CheckTable[T any](s Shape, name string, rows [][]T) error {
	if len(rows) != s.Rounds {
		return fmt.Errorf("%w: %s has %d rows, want %d", ErrShapeMismatch, name, len(rows), s.Rounds)
	}
	for i, row := range rows {
		if err := s.CheckVector(fmt.Sprintf("%s[%d]", name, i), len(row)); err != nil {
			return err
		}
	}
	return nil
}

func (s Shape) String() string {
	return fmt.Sprintf("N=%d R=%d", s.Width, s.Rounds)
}

// ForwardRound reports whether round i applies the forward S-box. Odd rounds use
// x^5 and even rounds its inverse; round 0 is the key whitening and has no S-box.
func ForwardRound(i int) bool {
	return i%2 == 1
}

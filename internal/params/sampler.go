package params

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/logger"
)

// CauchyVectors is the pair of vectors the MDS matrix is built from.
// Entries of X are pairwise distinct, entries of Y are pairwise distinct,
// and no entry of X equals an entry of Y.
type CauchyVectors struct {
	X []fr.Element
	Y []fr.Element
}

// Valid reports whether the vectors satisfy the Cauchy invariant.
func (v CauchyVectors) Valid() bool {
	return len(v.X) == len(v.Y) && distinct(v.X) && distinct(v.Y) && disjoint(v.X, v.Y)
}

func distinct(v []fr.Element) bool {
	for i := range v {
		for j := i + 1; j < len(v); j++ {
			if v[i].Equal(&v[j]) {
				return false
			}
		}
	}
	return true
}

func disjoint(x, y []fr.Element) bool {
	for i := range x {
		for j := range y {
			if x[i].Equal(&y[j]) {
				return false
			}
		}
	}
	return true
}

type samplerConfig struct {
	maxAttempts int
	onSampled   func(attempts int)
}

// SamplerOption configures SampleCauchyVectors and Generate.
type SamplerOption func(*samplerConfig)

// WithMaxAttempts caps the number of draws. Zero or a negative value means no cap.
func WithMaxAttempts(n int) SamplerOption {
	return func(c *samplerConfig) {
		c.maxAttempts = n
	}
}

// WithSampledHook registers fn to receive the number of draws a successful
// sampling took.
func WithSampledHook(fn func(attempts int)) SamplerOption {
	return func(c *samplerConfig) {
		c.onSampled = fn
	}
}

// SampleCauchyVectors draws two vectors of n field elements from rng until they
// satisfy the Cauchy invariant, resampling both vectors on any collision.
// It returns the vectors and the number of draws it took.
func SampleCauchyVectors(rng io.Reader, n int, opts ...SamplerOption) (CauchyVectors, int, error) {
	var cfg samplerConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	log := logger.Logger().With().Str("component", "sampler").Int("width", n).Logger()

	for attempt := 1; cfg.maxAttempts <= 0 || attempt <= cfg.maxAttempts; attempt++ {
		x, err := randomVector(rng, n)
		if err != nil {
			return CauchyVectors{}, attempt, err
		}
		y, err := randomVector(rng, n)
		if err != nil {
			return CauchyVectors{}, attempt, err
		}
		v := CauchyVectors{X: x, Y: y}
		if v.Valid() {
			if cfg.onSampled != nil {
				cfg.onSampled(attempt)
			}
			return v, attempt, nil
		}
		log.Debug().Int("attempt", attempt).Msg("cauchy vectors collide, resampling")
	}
	return CauchyVectors{}, cfg.maxAttempts, fmt.Errorf("%w after %d attempts", ErrSamplingExhausted, cfg.maxAttempts)
}

// GenerateRoundConstants draws the Rounds x Width table of nonzero round constants.
func GenerateRoundConstants(rng io.Reader, shape Shape) ([][]fr.Element, error) {
	rc := make([][]fr.Element, shape.Rounds)
	for i := range rc {
		rc[i] = make([]fr.Element, shape.Width)
		for j := range rc[i] {
			for {
				e, err := randomElement(rng)
				if err != nil {
					return nil, err
				}
				if e.IsZero() {
					continue
				}
				rc[i][j] = e
				break
			}
		}
	}
	return rc, nil
}

func randomVector(rng io.Reader, n int) ([]fr.Element, error) {
	v := make([]fr.Element, n)
	for i := range v {
		e, err := randomElement(rng)
		if err != nil {
			return nil, err
		}
		v[i] = e
	}
	return v, nil
}

// randomElement draws a uniform element of the scalar field.
func randomElement(rng io.Reader) (fr.Element, error) {
	var e fr.Element
	b, err := rand.Int(rng, fr.Modulus())
	if err != nil {
		return e, fmt.Errorf("failed to draw field element: %w", err)
	}
	e.SetBigInt(b)
	return e, nil
}

package params

import "errors"

var (
	// ErrSamplingExhausted is returned when the sampler hits its attempt cap
	// without drawing vectors that satisfy the Cauchy invariant.
	ErrSamplingExhausted = errors.New("could not sample cauchy vectors")

	// ErrUnsupportedSize is returned by determinant and inversion for widths other than 3.
	ErrUnsupportedSize = errors.New("unsupported matrix size")

	// ErrSingularMatrix is returned when the MDS matrix has a zero determinant.
	// Callers must resample the Cauchy vectors.
	ErrSingularMatrix = errors.New("matrix has no inverse")

	// ErrVectorCollision is returned when two Cauchy vector entries that must
	// differ compare equal.
	ErrVectorCollision = errors.New("cauchy vectors are not distinct")

	// ErrShapeMismatch is returned when a vector or table does not match the cipher shape.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrZeroRoundConstant is returned when a stored round constant is zero.
	ErrZeroRoundConstant = errors.New("round constant is zero")

	// ErrExponentNotInvertible is returned when alpha shares a factor with p-1,
	// in which case x -> x^alpha is not a permutation of the field.
	ErrExponentNotInvertible = errors.New("s-box exponent is not invertible modulo p-1")

	// ErrUnsatisfied is returned when a witness violates the circuit's constraints,
	// for instance a wrong fifth root or a ciphertext that does not match. It is
	// terminal for that witness and must not be retried.
	ErrUnsatisfied = errors.New("constraint system not satisfied")

	// ErrExponentTooWide is returned when the inverse exponent does not fit the 4x64-bit limb array.
	ErrExponentTooWide = errors.New("inverse exponent wider than 256 bits")
)

// Package params generates and holds the cleartext parameters of the Rescue-style
// block cipher: the two Cauchy vectors the MDS matrix is built from, the per-round
// constants, and the quintic S-box exponent pair.
//
// Overview:
//   - SampleCauchyVectors draws two internally distinct, mutually disjoint vectors
//   - GenerateRoundConstants draws the nonzero R x N round constant table
//   - InverseExponent derives 1/5 mod (p-1) with extended Euclid, cached per field
//   - Generate bundles all of the above into an immutable *Parameters
//
// All values live in the BN254 scalar field. Parameters are consumed by the
// circuit gadgets in package rescue and by the cleartext reference in package native.
//
// Randomness comes from any io.Reader: crypto/rand for fresh parameters, or
// NewSeededReader for parameters that anyone can regenerate from a public seed.
package params

// Package native is the out-of-circuit reference implementation of the cipher over
// the BN254 scalar field. It mirrors package rescue operation for operation and is
// used to compute witnesses (expected ciphertexts, plaintexts) and to cross-check
// the circuits.
package native

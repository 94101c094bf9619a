// Package rescue expresses a Rescue-style block cipher as gnark circuit gadgets.
//
// Overview:
//   - BuildMDS turns two Cauchy vectors into an MDS matrix, re-checking in circuit
//     that the vectors are distinct
//   - Invert computes the explicit inverse of a 3x3 matrix (adjugate over determinant)
//   - SBox raises to the fifth power; InverseSBox takes the fifth root out of circuit
//     with a hint and proves it with four multiplications and one equality
//   - Materialize resolves circuit-resident parameters into a Ready bundle
//   - Ready.DeriveSubkeys, Ready.Encrypt and Ready.Decrypt run the rounds
//
// Every gadget takes the frontend.API it emits constraints into; the package keeps
// no backend state of its own. A Ready value is read-only once built.
//
// When the backend can see concrete values (the test engine, or parameters passed
// as constants) the gadgets also branch on them in cleartext and report collisions
// or singular matrices as errors instead of building an unsatisfiable circuit.
package rescue

// Package prover turns the cipher gadgets into Groth16 statements over BN254.
//
// Overview:
//   - EncryptionCircuit proves that a committed key maps a public plaintext to a
//     public ciphertext under public cipher parameters
//   - DecryptionCircuit proves the converse direction with the same public inputs
//   - RoundTripCircuit checks decrypt(encrypt(p)) == p for a private key and plaintext
//   - Compile, SetupOrLoadKeys and the key file helpers handle the circuit lifecycle
//   - ProveEncryption, ProveDecryption, their Verify counterparts and ProveBatch
//     produce and check proofs
//
// The key never appears in a public witness; verifiers bind to it through a MiMC
// commitment (KeyCommitment).
package prover

// Package crypto exposes the minimal primitives used by zomesigner.
//
// Contents
//
//   - Ed25519 public keys from seeds and signature verification
//     (Ed25519PublicFromSeed, VerifyEd25519)
//   - X25519 box keys derived from seeds (X25519FromSeed)
//   - Protected-memory helpers for passphrases and seeds (NewSecret,
//     NewSecretFromString, RandomSeed)
//   - Short public-key fingerprints for display/logging (Fingerprint)
//
// # Notes
//
// Seeds only ever arrive here inside memguard buffers. Callers own those
// buffers and must Destroy them; functions in this package never retain them.
package crypto

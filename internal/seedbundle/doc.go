// Package seedbundle locks and unlocks seed bundles.
//
// A bundle is the URL-safe, unpadded base64 encoding of a msgpack array
//
//	["hcsb0", [cipher, ...], app_data]
//
// where the only supported cipher is the passphrase one:
//
//	["pw", salt, mem_limit_kib, ops_limit, nonce, ciphertext]
//
// The cipher key is argon2id over the BLAKE2b-256 hash of the passphrase and
// the seed is sealed with XChaCha20-Poly1305. This pw construction is our
// own; it shares the envelope layout of upstream hcsb0 bundles but not their
// secretstream framing, so only bundles written by Lock unlock here.
// Unlocked seeds are only ever written into memguard buffers.
package seedbundle

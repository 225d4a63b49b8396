package crypto

import (
	"crypto/ed25519"
	"fmt"

	"zomesigner/internal/domain"
	"zomesigner/internal/util/memzero"
)

// Ed25519PublicFromSeed derives the Ed25519 public key for a 32-byte seed.
func Ed25519PublicFromSeed(seed []byte) (pub domain.Ed25519Public, err error) {
	if len(seed) != ed25519.SeedSize {
		return pub, fmt.Errorf("ed25519 seed: want %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	defer memzero.Zero(priv)
	copy(pub[:], priv[ed25519.SeedSize:])
	return pub, nil
}

// SignEd25519WithSeed signs msg with the key derived from seed.
func SignEd25519WithSeed(seed, msg []byte) (sig domain.Signature, err error) {
	if len(seed) != ed25519.SeedSize {
		return sig, fmt.Errorf("ed25519 seed: want %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	defer memzero.Zero(priv)
	copy(sig[:], ed25519.Sign(priv, msg))
	return sig, nil
}

// VerifyEd25519 verifies sig over msg with pub.
func VerifyEd25519(pub domain.Ed25519Public, msg, sig []byte) bool {
	if len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pub[:]), msg, sig)
}

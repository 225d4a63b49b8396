package crypto

import (
	"crypto/sha512"
	"fmt"

	"golang.org/x/crypto/curve25519"

	"zomesigner/internal/domain"
	"zomesigner/internal/util/memzero"
)

// X25519FromSeed derives the box keypair for a 32-byte seed the same way
// libsodium's crypto_box_seed_keypair does: the first half of SHA-512(seed),
// clamped per RFC 7748.
func X25519FromSeed(seed []byte) (priv [32]byte, pub domain.X25519Public, err error) {
	if len(seed) != 32 {
		return priv, pub, fmt.Errorf("x25519 seed: want 32 bytes, got %d", len(seed))
	}
	digest := sha512.Sum512(seed)
	copy(priv[:], digest[:32])
	memzero.Zero(digest[:])
	clamp(&priv)

	pb, err := curve25519.X25519(priv[:], curve25519.Basepoint)
	if err != nil {
		memzero.Zero(priv[:])
		return priv, pub, err
	}
	copy(pub[:], pb)
	return priv, pub, nil
}

func clamp(k *[32]byte) {
	kb := k[:]
	kb[0] &= 248
	kb[31] &= 127
	kb[31] |= 64
}

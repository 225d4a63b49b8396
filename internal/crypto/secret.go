package crypto

import (
	"crypto/rand"

	"github.com/awnumar/memguard"
)

// SeedSize is the size of a raw seed.
const SeedSize = 32

// NewSecret moves b into a locked buffer. b is wiped.
func NewSecret(b []byte) *memguard.LockedBuffer {
	return memguard.NewBufferFromBytes(b)
}

// NewSecretFromString copies s into a locked buffer. The string itself
// cannot be wiped; callers should drop it as soon as possible.
func NewSecretFromString(s string) *memguard.LockedBuffer {
	return memguard.NewBufferFromBytes([]byte(s))
}

// RandomSeed returns a fresh seed in a locked buffer.
func RandomSeed() (*memguard.LockedBuffer, error) {
	buf := memguard.NewBuffer(SeedSize)
	if _, err := rand.Read(buf.Bytes()); err != nil {
		buf.Destroy()
		return nil, err
	}
	return buf, nil
}

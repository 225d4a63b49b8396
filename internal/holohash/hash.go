// Package holohash implements the 39-byte hash identifiers used to address
// DNAs and agents: a 3-byte type prefix, a 32-byte core and a 4-byte
// location suffix derived from the core.
package holohash

import (
	"bytes"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

const (
	// PrefixSize is the size of the type prefix.
	PrefixSize = 3
	// CoreSize is the size of the hash core (the raw key or digest).
	CoreSize = 32
	// LocSize is the size of the location suffix.
	LocSize = 4
	// Size is the full size of a hash identifier.
	Size = PrefixSize + CoreSize + LocSize
)

// Kind distinguishes hash identifier types by their prefix.
type Kind int

const (
	// KindAgent marks an agent public key.
	KindAgent Kind = iota
	// KindDna marks a DNA hash.
	KindDna
)

var prefixes = map[Kind][PrefixSize]byte{
	KindAgent: {0x84, 0x20, 0x24},
	KindDna:   {0x84, 0x2d, 0x24},
}

func (k Kind) String() string {
	switch k {
	case KindAgent:
		return "AgentPubKey"
	case KindDna:
		return "DnaHash"
	}
	return "Unknown"
}

// Location folds blake2b-128(core) into 4 bytes by XOR.
func Location(core []byte) [LocSize]byte {
	var out [LocSize]byte
	h, err := blake2b.New(16, nil)
	if err != nil {
		// only reachable with an invalid size or key
		panic(err)
	}
	h.Write(core)
	sum := h.Sum(nil)
	copy(out[:], sum[:LocSize])
	for i := LocSize; i < len(sum); i += LocSize {
		out[0] ^= sum[i]
		out[1] ^= sum[i+1]
		out[2] ^= sum[i+2]
		out[3] ^= sum[i+3]
	}
	return out
}

func fromRaw32(kind Kind, core [CoreSize]byte) (out [Size]byte) {
	prefix := prefixes[kind]
	loc := Location(core[:])
	copy(out[:PrefixSize], prefix[:])
	copy(out[PrefixSize:PrefixSize+CoreSize], core[:])
	copy(out[PrefixSize+CoreSize:], loc[:])
	return out
}

func fromRaw39(kind Kind, b []byte) (out [Size]byte, err error) {
	if len(b) != Size {
		return out, fmt.Errorf("%s: want %d bytes, got %d", kind, Size, len(b))
	}
	prefix := prefixes[kind]
	if !bytes.Equal(b[:PrefixSize], prefix[:]) {
		return out, fmt.Errorf("%s: unexpected prefix %x", kind, b[:PrefixSize])
	}
	loc := Location(b[PrefixSize : PrefixSize+CoreSize])
	if !bytes.Equal(b[PrefixSize+CoreSize:], loc[:]) {
		return out, fmt.Errorf("%s: location suffix does not match core", kind)
	}
	copy(out[:], b)
	return out, nil
}

// AgentPubKey is an agent's Ed25519 public key in hash identifier form.
type AgentPubKey [Size]byte

// AgentPubKeyFromRaw32 wraps a raw Ed25519 public key.
func AgentPubKeyFromRaw32(core [CoreSize]byte) AgentPubKey {
	return AgentPubKey(fromRaw32(KindAgent, core))
}

// AgentPubKeyFromRaw39 validates and copies a 39-byte agent key.
func AgentPubKeyFromRaw39(b []byte) (AgentPubKey, error) {
	h, err := fromRaw39(KindAgent, b)
	return AgentPubKey(h), err
}

// Raw32 returns the raw Ed25519 public key.
func (k AgentPubKey) Raw32() (core [CoreSize]byte) {
	copy(core[:], k[PrefixSize:PrefixSize+CoreSize])
	return core
}

// Bytes returns a copy of the 39 bytes.
func (k AgentPubKey) Bytes() []byte { return append([]byte(nil), k[:]...) }

// DnaHash identifies a DNA.
type DnaHash [Size]byte

// DnaHashFromRaw32 wraps a raw 32-byte DNA digest.
func DnaHashFromRaw32(core [CoreSize]byte) DnaHash {
	return DnaHash(fromRaw32(KindDna, core))
}

// DnaHashFromRaw39 validates and copies a 39-byte DNA hash.
func DnaHashFromRaw39(b []byte) (DnaHash, error) {
	h, err := fromRaw39(KindDna, b)
	return DnaHash(h), err
}

// Bytes returns a copy of the 39 bytes.
func (h DnaHash) Bytes() []byte { return append([]byte(nil), h[:]...) }

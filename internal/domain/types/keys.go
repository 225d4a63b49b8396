package types

import "fmt"

const (
	// Ed25519PublicSize is the raw size of an Ed25519 public key.
	Ed25519PublicSize = 32
	// X25519PublicSize is the raw size of an X25519 public key.
	X25519PublicSize = 32
	// SignatureSize is the size of an Ed25519 signature.
	SignatureSize = 64
	// BoxNonceSize is the nonce size of the authenticated box primitive.
	BoxNonceSize = 24
	// CallNonceSize is the size of the replay-protection nonce on a call.
	CallNonceSize = 32
	// CapSecretSize is the size of a capability secret.
	CapSecretSize = 64
)

// Ed25519Public is an Ed25519 signing public key.
type Ed25519Public [Ed25519PublicSize]byte

// Slice returns the key as a []byte.
func (p Ed25519Public) Slice() []byte { return p[:] }

// X25519Public is a Curve25519 public key used for authenticated boxes.
type X25519Public [X25519PublicSize]byte

// Slice returns the key as a []byte.
func (p X25519Public) Slice() []byte { return p[:] }

// Signature is a detached Ed25519 signature.
type Signature [SignatureSize]byte

// Slice returns the signature as a []byte.
func (s Signature) Slice() []byte { return s[:] }

// BoxNonce is the nonce returned alongside an authenticated box ciphertext.
type BoxNonce [BoxNonceSize]byte

// Slice returns the nonce as a []byte.
func (n BoxNonce) Slice() []byte { return n[:] }

// Nonce256 is the replay-protection nonce carried by a call.
type Nonce256 [CallNonceSize]byte

// CapSecret authorizes a call against a capability grant.
type CapSecret [CapSecretSize]byte

// Ed25519PublicFromBytes copies b into an Ed25519Public.
func Ed25519PublicFromBytes(b []byte) (Ed25519Public, error) {
	var out Ed25519Public
	if len(b) != Ed25519PublicSize {
		return out, fmt.Errorf("ed25519 public: want %d bytes, got %d", Ed25519PublicSize, len(b))
	}
	copy(out[:], b)
	return out, nil
}

// X25519PublicFromBytes copies b into an X25519Public.
func X25519PublicFromBytes(b []byte) (X25519Public, error) {
	var out X25519Public
	if len(b) != X25519PublicSize {
		return out, fmt.Errorf("x25519 public: want %d bytes, got %d", X25519PublicSize, len(b))
	}
	copy(out[:], b)
	return out, nil
}

// SignatureFromBytes copies b into a Signature.
func SignatureFromBytes(b []byte) (Signature, error) {
	var out Signature
	if len(b) != SignatureSize {
		return out, fmt.Errorf("signature: want %d bytes, got %d", SignatureSize, len(b))
	}
	copy(out[:], b)
	return out, nil
}

// BoxNonceFromBytes copies b into a BoxNonce.
func BoxNonceFromBytes(b []byte) (BoxNonce, error) {
	var out BoxNonce
	if len(b) != BoxNonceSize {
		return out, fmt.Errorf("box nonce: want %d bytes, got %d", BoxNonceSize, len(b))
	}
	copy(out[:], b)
	return out, nil
}

// Package errortypes holds the error kinds surfaced to callers of the signer
// and importer. Each kind wraps its cause; match them with errors.As.
package errortypes

import "fmt"

// ConnectionError covers bad keystore addresses, rejected passphrases and
// transport failures while connecting.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string { return message(e.Err, "keystore connection failed") }
func (e *ConnectionError) Unwrap() error { return e.Err }

// NotConnectedError is returned for operations on a session that is not in
// the connected state.
type NotConnectedError struct {
	State string
}

func (e *NotConnectedError) Error() string {
	return fmt.Sprintf("keystore: session is %s", e.State)
}

// MalformedCallError reports an unsigned call whose fields fail shape
// validation. No keystore request is issued.
type MalformedCallError struct {
	Err error
}

func (e *MalformedCallError) Error() string { return message(e.Err, "malformed zome call") }
func (e *MalformedCallError) Unwrap() error { return e.Err }

// MalformedKeyError reports a public key identity that fails validation.
type MalformedKeyError struct {
	Err error
}

func (e *MalformedKeyError) Error() string { return message(e.Err, "malformed public key") }
func (e *MalformedKeyError) Unwrap() error { return e.Err }

// UnsupportedCipherError reports a seed bundle locked with a cipher other
// than the passphrase one.
type UnsupportedCipherError struct {
	Kind string
}

func (e *UnsupportedCipherError) Error() string {
	return fmt.Sprintf("seedbundle: unsupported cipher %q", e.Kind)
}

// UnlockError reports a seed bundle that could not be decoded or unlocked.
type UnlockError struct {
	Err error
}

func (e *UnlockError) Error() string { return message(e.Err, "seed bundle unlock failed") }
func (e *UnlockError) Unwrap() error { return e.Err }

// KeystoreConsistencyError reports a reserved tag holding an entry of the
// wrong shape.
type KeystoreConsistencyError struct {
	Err error
}

func (e *KeystoreConsistencyError) Error() string { return message(e.Err, "keystore entry inconsistent") }
func (e *KeystoreConsistencyError) Unwrap() error { return e.Err }

// SigningError wraps a keystore failure during sign_by_pub_key.
type SigningError struct {
	Err error
}

func (e *SigningError) Error() string { return message(e.Err, "signing failed") }
func (e *SigningError) Unwrap() error { return e.Err }

// EncryptionError wraps a keystore failure during crypto_box.
type EncryptionError struct {
	Err error
}

func (e *EncryptionError) Error() string { return message(e.Err, "encryption failed") }
func (e *EncryptionError) Unwrap() error { return e.Err }

// ImportError wraps a keystore failure during entry lookup, seed creation
// or import_seed.
type ImportError struct {
	Err error
}

func (e *ImportError) Error() string { return message(e.Err, "seed import failed") }
func (e *ImportError) Unwrap() error { return e.Err }

// message is err's text, or fallback for a kind built without a cause.
func message(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	return err.Error()
}

// Package memzero wipes secrets that live in ordinary heap memory, such as
// derived keys and passphrase digests. Long-lived secrets belong in memguard
// buffers instead.
package memzero

import (
	"crypto/subtle"
	"runtime"
)

// Zero overwrites b with zeros in a constant-time friendly way.
func Zero(b []byte) {
	if len(b) == 0 {
		return
	}
	zero := make([]byte, len(b))
	subtle.ConstantTimeCopy(1, b, zero)
	runtime.KeepAlive(b)
}

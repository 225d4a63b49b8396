package seedbundle

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

const minPassphraseLength = 12

// ErrWeakPassphrase is returned when a passphrase fails the strength policy.
var ErrWeakPassphrase = fmt.Errorf(
	"passphrase is too weak (must be at least %d characters and include upper, lower, "+
		"number, and symbol)",
	minPassphraseLength,
)

// CheckPassphrase enforces the strength policy for new bundles.
func CheckPassphrase(passphrase []byte) error {
	if utf8.RuneCount(passphrase) < minPassphraseLength {
		return ErrWeakPassphrase
	}
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for len(passphrase) > 0 {
		r, size := utf8.DecodeRune(passphrase)
		passphrase = passphrase[size:]
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSymbol = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit || !hasSymbol {
		return ErrWeakPassphrase
	}
	return nil
}

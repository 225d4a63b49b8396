package crypto

import "encoding/base64"

// B64URL returns URL-safe base64 without padding.
func B64URL(b []byte) string { return base64.RawURLEncoding.EncodeToString(b) }

// DecodeB64URL reverses B64URL. Surrounding whitespace is not accepted.
func DecodeB64URL(s string) ([]byte, error) { return base64.RawURLEncoding.DecodeString(s) }

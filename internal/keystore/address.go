package keystore

import (
	"net/url"

	"github.com/pkg/errors"
)

// Address schemes understood by the keystore dialers.
const (
	SchemeUnix = "unix"
	SchemeTCP  = "tcp"
)

// ParseAddress parses a keystore URL such as unix:///run/keystore.sock or
// tcp://127.0.0.1:8765.
func ParseAddress(address string) (*url.URL, error) {
	if address == "" {
		return nil, errors.New("keystore: empty address")
	}
	u, err := url.Parse(address)
	if err != nil {
		return nil, errors.Wrap(err, "keystore: address")
	}
	switch u.Scheme {
	case SchemeUnix:
		if u.Path == "" {
			return nil, errors.Errorf("keystore: %q has no socket path", address)
		}
	case SchemeTCP:
		if u.Host == "" {
			return nil, errors.Errorf("keystore: %q has no host", address)
		}
	default:
		return nil, errors.Errorf("keystore: unsupported scheme %q", u.Scheme)
	}
	return u, nil
}

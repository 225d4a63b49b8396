package holohash

import (
	"fmt"

	"github.com/multiformats/go-multibase"
)

func encodeB64(b []byte) string {
	s, err := multibase.Encode(multibase.Base64url, b)
	if err != nil {
		// Base64url is always a registered encoding
		panic(err)
	}
	return s
}

func decodeB64(s string) ([]byte, error) {
	enc, b, err := multibase.Decode(s)
	if err != nil {
		return nil, err
	}
	if enc != multibase.Base64url {
		return nil, fmt.Errorf("want base64url multibase, got %q", string(rune(enc)))
	}
	return b, nil
}

// String returns the "u"-prefixed base64url form, e.g. "uhCAk...".
func (k AgentPubKey) String() string { return encodeB64(k[:]) }

// String returns the "u"-prefixed base64url form, e.g. "uhC0k...".
func (h DnaHash) String() string { return encodeB64(h[:]) }

// ParseAgentPubKey parses the string form of an agent key.
func ParseAgentPubKey(s string) (AgentPubKey, error) {
	b, err := decodeB64(s)
	if err != nil {
		return AgentPubKey{}, fmt.Errorf("AgentPubKey: %v", err)
	}
	return AgentPubKeyFromRaw39(b)
}

// ParseDnaHash parses the string form of a DNA hash.
func ParseDnaHash(s string) (DnaHash, error) {
	b, err := decodeB64(s)
	if err != nil {
		return DnaHash{}, fmt.Errorf("DnaHash: %v", err)
	}
	return DnaHashFromRaw39(b)
}

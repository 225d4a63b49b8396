package canonical

import (
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"

	"zomesigner/internal/domain"
	"zomesigner/internal/util/msgpack"
)

// wireCall fixes the key order of the encoded map. Field order matters.
type wireCall struct {
	Provenance []byte      `codec:"provenance"`
	CellID     [][]byte    `codec:"cell_id"`
	ZomeName   string      `codec:"zome_name"`
	FnName     string      `codec:"fn_name"`
	CapSecret  interface{} `codec:"cap_secret"` // nil or []byte
	Payload    []byte      `codec:"payload"`
	Nonce      []byte      `codec:"nonce"`
	ExpiresAt  int64       `codec:"expires_at"`
}

func (c *Call) wire() *wireCall {
	w := &wireCall{
		Provenance: c.Provenance[:],
		CellID:     [][]byte{c.Dna[:], c.Agent[:]},
		ZomeName:   c.ZomeName,
		FnName:     c.FnName,
		Payload:    c.Payload,
		Nonce:      c.Nonce[:],
		ExpiresAt:  c.ExpiresAt,
	}
	if w.Payload == nil {
		w.Payload = []byte{}
	}
	if c.CapSecret != nil {
		w.CapSecret = c.CapSecret[:]
	}
	return w
}

// Encode returns the msgpack encoding of the call.
func (c *Call) Encode() ([]byte, error) {
	enc, err := msgpack.Encode(c.wire())
	if err != nil {
		return nil, errors.Wrap(err, "encode call")
	}
	return enc, nil
}

// DataToSign returns the 32 bytes the provenance key signs.
func (c *Call) DataToSign() ([]byte, error) {
	enc, err := c.Encode()
	if err != nil {
		return nil, err
	}
	sum := blake2b.Sum256(enc)
	return sum[:], nil
}

// DataToSign parses u and returns its signable bytes.
func DataToSign(u domain.UnsignedCall) ([]byte, error) {
	c, err := Parse(u)
	if err != nil {
		return nil, err
	}
	return c.DataToSign()
}

package canonical

import (
	"github.com/pkg/errors"

	"zomesigner/internal/domain"
	"zomesigner/internal/errortypes"
	"zomesigner/internal/holohash"
)

// Call is a validated unsigned zome call.
type Call struct {
	Dna        holohash.DnaHash
	Agent      holohash.AgentPubKey
	ZomeName   string
	FnName     string
	Payload    []byte
	CapSecret  *domain.CapSecret
	Provenance holohash.AgentPubKey
	Nonce      domain.Nonce256
	ExpiresAt  int64
}

// Parse validates the shape of u. Target, nonce and capability secret
// problems yield *errortypes.MalformedCallError; a bad provenance yields
// *errortypes.MalformedKeyError.
func Parse(u domain.UnsignedCall) (*Call, error) {
	c := &Call{
		ZomeName:  u.ZomeName,
		FnName:    u.FnName,
		Payload:   u.Payload,
		ExpiresAt: u.ExpiresAt,
	}

	if len(u.CellID) != 2 {
		return nil, &errortypes.MalformedCallError{
			Err: errors.Errorf("cell id: want 2 hashes, got %d", len(u.CellID)),
		}
	}
	dna, err := holohash.DnaHashFromRaw39(u.CellID[0])
	if err != nil {
		return nil, &errortypes.MalformedCallError{Err: errors.Wrap(err, "cell id")}
	}
	agent, err := holohash.AgentPubKeyFromRaw39(u.CellID[1])
	if err != nil {
		return nil, &errortypes.MalformedCallError{Err: errors.Wrap(err, "cell id")}
	}
	c.Dna, c.Agent = dna, agent

	if len(u.Nonce) != len(c.Nonce) {
		return nil, &errortypes.MalformedCallError{
			Err: errors.Errorf("nonce: want %d bytes, got %d", len(c.Nonce), len(u.Nonce)),
		}
	}
	copy(c.Nonce[:], u.Nonce)

	if u.CapSecret != nil {
		var secret domain.CapSecret
		if len(u.CapSecret) != len(secret) {
			return nil, &errortypes.MalformedCallError{
				Err: errors.Errorf("cap secret: want %d bytes, got %d", len(secret), len(u.CapSecret)),
			}
		}
		copy(secret[:], u.CapSecret)
		c.CapSecret = &secret
	}

	prov, err := holohash.AgentPubKeyFromRaw39(u.Provenance)
	if err != nil {
		return nil, &errortypes.MalformedKeyError{Err: errors.Wrap(err, "provenance")}
	}
	c.Provenance = prov

	return c, nil
}

// SigningKey returns the raw Ed25519 key embedded in the provenance.
func (c *Call) SigningKey() domain.Ed25519Public {
	return domain.Ed25519Public(c.Provenance.Raw32())
}

package memkeystore

import (
	"context"
	"crypto/subtle"
	"net/url"
	"sync/atomic"

	"github.com/awnumar/memguard"
	"github.com/pkg/errors"

	"zomesigner/internal/domain"
)

// ErrAuthFailed is returned by Dial for a wrong passphrase.
var ErrAuthFailed = errors.New("memkeystore: passphrase rejected")

// Client is one connection to a Store. Once closed, every call fails with
// domain.ErrChannelClosed.
type Client struct {
	store  *Store
	closed atomic.Bool
}

// NewClient returns an open client on s.
func NewClient(s *Store) *Client { return &Client{store: s} }

// Close marks the connection closed.
func (c *Client) Close() error {
	c.closed.Store(true)
	return nil
}

func (c *Client) check() error {
	if c.closed.Load() {
		return domain.ErrChannelClosed
	}
	return nil
}

// GetEntry forwards to the store.
func (c *Client) GetEntry(ctx context.Context, tag domain.Tag) (domain.EntryInfo, error) {
	if err := c.check(); err != nil {
		return domain.EntryInfo{}, err
	}
	return c.store.GetEntry(ctx, tag)
}

// NewSeed forwards to the store.
func (c *Client) NewSeed(ctx context.Context, tag domain.Tag, exportable bool) (domain.EntryInfo, error) {
	if err := c.check(); err != nil {
		return domain.EntryInfo{}, err
	}
	return c.store.NewSeed(ctx, tag, exportable)
}

// SignByPubKey forwards to the store.
func (c *Client) SignByPubKey(ctx context.Context, pub domain.Ed25519Public, data []byte) (domain.Signature, error) {
	if err := c.check(); err != nil {
		return domain.Signature{}, err
	}
	return c.store.SignByPubKey(ctx, pub, data)
}

// CryptoBox forwards to the store.
func (c *Client) CryptoBox(
	ctx context.Context,
	sender, recipient domain.X25519Public,
	data []byte,
) (domain.BoxNonce, []byte, error) {
	if err := c.check(); err != nil {
		return domain.BoxNonce{}, nil, err
	}
	return c.store.CryptoBox(ctx, sender, recipient, data)
}

// ImportSeed forwards to the store.
func (c *Client) ImportSeed(
	ctx context.Context,
	sender, recipient domain.X25519Public,
	nonce domain.BoxNonce,
	cipher []byte,
	tag domain.Tag,
	exportable bool,
) (domain.EntryInfo, error) {
	if err := c.check(); err != nil {
		return domain.EntryInfo{}, err
	}
	return c.store.ImportSeed(ctx, sender, recipient, nonce, cipher, tag, exportable)
}

// Dialer connects to Store after checking the passphrase. The address is
// ignored.
type Dialer struct {
	Store      *Store
	Passphrase []byte

	last atomic.Pointer[Client]
}

// Dial returns a new client if passphrase matches.
func (d *Dialer) Dial(ctx context.Context, _ *url.URL, passphrase *memguard.LockedBuffer) (domain.KeystoreClient, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if subtle.ConstantTimeCompare(passphrase.Bytes(), d.Passphrase) != 1 {
		return nil, ErrAuthFailed
	}
	c := NewClient(d.Store)
	d.last.Store(c)
	return c, nil
}

// LastClient returns the client from the most recent successful Dial.
func (d *Dialer) LastClient() *Client { return d.last.Load() }

package ipc

import (
	"context"
	"io"
	"net"
	"net/url"
	"time"

	"github.com/awnumar/memguard"
	"github.com/pkg/errors"
	"github.com/sourcegraph/jsonrpc2"

	"zomesigner/internal/domain"
	"zomesigner/internal/keystore"
)

// ErrAuthFailed is returned when the keystore rejects the passphrase.
var ErrAuthFailed = errors.New("ipc: keystore rejected the passphrase")

// Client speaks the keystore protocol over one connection.
type Client struct {
	conn *jsonrpc2.Conn
}

var _ domain.KeystoreClient = (*Client)(nil)

// NewClient wraps rwc. The client owns rwc and closes it on Close.
func NewClient(rwc io.ReadWriteCloser) *Client {
	stream := jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{})
	return &Client{conn: jsonrpc2.NewConn(context.Background(), stream, rejectRequests)}
}

// The keystore never calls back into the client.
var rejectRequests = jsonrpc2.HandlerWithError(func(context.Context, *jsonrpc2.Conn, *jsonrpc2.Request) (interface{}, error) {
	return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeMethodNotFound, Message: "client accepts no requests"}
})

// Close closes the connection. Pending and later calls fail with
// domain.ErrChannelClosed.
func (c *Client) Close() error {
	err := c.conn.Close()
	if err == jsonrpc2.ErrClosed {
		return nil
	}
	return err
}

// DisconnectNotify is closed once the connection is gone.
func (c *Client) DisconnectNotify() <-chan struct{} { return c.conn.DisconnectNotify() }

func (c *Client) call(ctx context.Context, method string, params, result interface{}) error {
	return mapError(c.conn.Call(ctx, method, params, result))
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if err == jsonrpc2.ErrClosed || errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) || errors.Is(err, net.ErrClosed) {
		return errors.WithMessage(domain.ErrChannelClosed, err.Error())
	}
	var rpcErr *jsonrpc2.Error
	if !errors.As(err, &rpcErr) {
		return err
	}
	switch rpcErr.Code {
	case CodeEntryNotFound:
		return domain.ErrEntryNotFound
	case CodeAuthFailed:
		return ErrAuthFailed
	}
	return errors.Errorf("keystore: %s (code %d)", rpcErr.Message, rpcErr.Code)
}

// Connect authenticates the connection.
func (c *Client) Connect(ctx context.Context, passphrase *memguard.LockedBuffer) error {
	var ok bool
	return c.call(ctx, keystore.MethodConnect, &connectParams{Passphrase: passphrase.Bytes()}, &ok)
}

// GetEntry implements domain.Keystore.
func (c *Client) GetEntry(ctx context.Context, tag domain.Tag) (domain.EntryInfo, error) {
	var res entryInfo
	if err := c.call(ctx, keystore.MethodGetEntry, &tagParams{Tag: string(tag)}, &res); err != nil {
		return domain.EntryInfo{}, err
	}
	return res.domain()
}

// NewSeed implements domain.Keystore.
func (c *Client) NewSeed(ctx context.Context, tag domain.Tag, exportable bool) (domain.EntryInfo, error) {
	var res entryInfo
	params := &newSeedParams{Tag: string(tag), Exportable: exportable}
	if err := c.call(ctx, keystore.MethodNewSeed, params, &res); err != nil {
		return domain.EntryInfo{}, err
	}
	return res.domain()
}

// SignByPubKey implements domain.Keystore.
func (c *Client) SignByPubKey(ctx context.Context, pub domain.Ed25519Public, data []byte) (domain.Signature, error) {
	var res signResult
	if err := c.call(ctx, keystore.MethodSignByPubKey, &signParams{PubKey: pub.Slice(), Data: data}, &res); err != nil {
		return domain.Signature{}, err
	}
	return domain.SignatureFromBytes(res.Signature)
}

// CryptoBox implements domain.Keystore.
func (c *Client) CryptoBox(
	ctx context.Context,
	sender, recipient domain.X25519Public,
	data []byte,
) (domain.BoxNonce, []byte, error) {
	var res cryptoBoxResult
	params := &cryptoBoxParams{
		SenderPubKey:    sender.Slice(),
		RecipientPubKey: recipient.Slice(),
		Data:            data,
	}
	if err := c.call(ctx, keystore.MethodCryptoBox, params, &res); err != nil {
		return domain.BoxNonce{}, nil, err
	}
	nonce, err := domain.BoxNonceFromBytes(res.Nonce)
	if err != nil {
		return domain.BoxNonce{}, nil, err
	}
	return nonce, res.Cipher, nil
}

// ImportSeed implements domain.Keystore.
func (c *Client) ImportSeed(
	ctx context.Context,
	sender, recipient domain.X25519Public,
	nonce domain.BoxNonce,
	cipher []byte,
	tag domain.Tag,
	exportable bool,
) (domain.EntryInfo, error) {
	var res entryInfo
	params := &importSeedParams{
		SenderPubKey:    sender.Slice(),
		RecipientPubKey: recipient.Slice(),
		Nonce:           nonce.Slice(),
		Cipher:          cipher,
		Tag:             string(tag),
		Exportable:      exportable,
	}
	if err := c.call(ctx, keystore.MethodImportSeed, params, &res); err != nil {
		return domain.EntryInfo{}, err
	}
	return res.domain()
}

// Dialer opens unix:// and tcp:// keystore addresses.
type Dialer struct {
	// Timeout bounds the socket dial. Zero means no limit beyond ctx.
	Timeout time.Duration
}

// Dial connects and authenticates. The passphrase buffer is only read.
func (d *Dialer) Dial(ctx context.Context, addr *url.URL, passphrase *memguard.LockedBuffer) (domain.KeystoreClient, error) {
	network, address := addr.Scheme, addr.Host
	if addr.Scheme == keystore.SchemeUnix {
		address = addr.Path
	}
	nd := net.Dialer{Timeout: d.Timeout}
	nc, err := nd.DialContext(ctx, network, address)
	if err != nil {
		return nil, errors.Wrap(err, "ipc: dial")
	}
	c := NewClient(nc)
	if err := c.Connect(ctx, passphrase); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

package keystore

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/awnumar/memguard"
	"github.com/pkg/errors"

	"zomesigner/internal/domain"
	"zomesigner/internal/errortypes"
	"zomesigner/internal/metrics"
	"zomesigner/internal/util/log"
)

// Dialer opens an authenticated channel to a keystore process. It must not
// retain passphrase.
type Dialer interface {
	Dial(ctx context.Context, addr *url.URL, passphrase *memguard.LockedBuffer) (domain.KeystoreClient, error)
}

// Session is a shared handle on one keystore channel. It is safe for
// concurrent use; primitives on a connected session run in parallel.
type Session struct {
	dialer Dialer

	mu     sync.RWMutex
	state  State
	client domain.KeystoreClient
	addr   string
	cause  error
}

// NewSession returns a disconnected session.
func NewSession(d Dialer) *Session {
	return &Session{dialer: d}
}

// Connect returns a connected session or a *errortypes.ConnectionError.
// The passphrase buffer is destroyed.
func Connect(ctx context.Context, d Dialer, address string, passphrase *memguard.LockedBuffer) (*Session, error) {
	s := NewSession(d)
	if err := s.Connect(ctx, address, passphrase); err != nil {
		return nil, err
	}
	return s, nil
}

// Connect dials address. It is allowed from Disconnected and Failed. The
// passphrase buffer is destroyed on every path.
func (s *Session) Connect(ctx context.Context, address string, passphrase *memguard.LockedBuffer) error {
	defer passphrase.Destroy()

	s.mu.Lock()
	if s.state == StateConnecting || s.state == StateConnected {
		state := s.state
		s.mu.Unlock()
		return &errortypes.ConnectionError{Err: errors.Errorf("keystore: session is already %s", state)}
	}
	s.state = StateConnecting
	s.addr = address
	s.cause = nil
	s.mu.Unlock()

	start := time.Now()
	client, err := s.dial(ctx, address, passphrase)
	metrics.ObserveKeystoreRequest(MethodConnect, time.Since(start), err)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil && s.state != StateConnecting {
		// Disconnect ran while dialing.
		client.Close()
		err = errors.New("keystore: disconnected while connecting")
	}
	if err != nil {
		if s.state == StateConnecting {
			s.state = StateFailed
			s.cause = err
		}
		log.WithError(err).WithField("address", address).Warn("keystore: connect failed")
		return &errortypes.ConnectionError{Err: err}
	}
	s.state = StateConnected
	s.client = client
	log.WithField("address", address).Info("keystore: connected")
	return nil
}

func (s *Session) dial(ctx context.Context, address string, passphrase *memguard.LockedBuffer) (domain.KeystoreClient, error) {
	u, err := ParseAddress(address)
	if err != nil {
		return nil, err
	}
	client, err := s.dialer.Dial(ctx, u, passphrase)
	if err != nil {
		return nil, errors.Wrapf(err, "keystore: connect %s", address)
	}
	return client, nil
}

// Disconnect closes the channel and returns the session to Disconnected.
func (s *Session) Disconnect() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	client := s.client
	s.client = nil
	s.state = StateDisconnected
	s.cause = nil
	if client == nil {
		return nil
	}
	log.WithField("address", s.addr).Info("keystore: disconnected")
	return client.Close()
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Err returns the reason for the Failed state, or nil.
func (s *Session) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cause
}

func (s *Session) acquire() (domain.KeystoreClient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateConnected {
		return nil, &errortypes.NotConnectedError{State: s.state.String()}
	}
	return s.client, nil
}

// release records the outcome of a primitive and fails the session if its
// channel is gone.
func (s *Session) release(client domain.KeystoreClient, method string, start time.Time, err error) error {
	metrics.ObserveKeystoreRequest(method, time.Since(start), err)
	if err == nil || !errors.Is(err, domain.ErrChannelClosed) {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == client && s.state == StateConnected {
		s.state = StateFailed
		s.cause = err
		s.client = nil
		client.Close()
		log.WithError(err).WithField("address", s.addr).Warn("keystore: channel lost")
	}
	return err
}

// GetEntry looks up tag. A missing entry yields domain.ErrEntryNotFound.
func (s *Session) GetEntry(ctx context.Context, tag domain.Tag) (domain.EntryInfo, error) {
	client, err := s.acquire()
	if err != nil {
		return domain.EntryInfo{}, err
	}
	start := time.Now()
	info, err := client.GetEntry(ctx, tag)
	return info, s.release(client, MethodGetEntry, start, err)
}

// NewSeed creates a seed under tag.
func (s *Session) NewSeed(ctx context.Context, tag domain.Tag, exportable bool) (domain.EntryInfo, error) {
	client, err := s.acquire()
	if err != nil {
		return domain.EntryInfo{}, err
	}
	start := time.Now()
	info, err := client.NewSeed(ctx, tag, exportable)
	return info, s.release(client, MethodNewSeed, start, err)
}

// SignByPubKey signs data with the keystore seed whose Ed25519 key is pub.
func (s *Session) SignByPubKey(ctx context.Context, pub domain.Ed25519Public, data []byte) (domain.Signature, error) {
	client, err := s.acquire()
	if err != nil {
		return domain.Signature{}, err
	}
	start := time.Now()
	sig, err := client.SignByPubKey(ctx, pub, data)
	return sig, s.release(client, MethodSignByPubKey, start, err)
}

// CryptoBox encrypts data from sender to recipient inside the keystore.
func (s *Session) CryptoBox(
	ctx context.Context,
	sender, recipient domain.X25519Public,
	data []byte,
) (domain.BoxNonce, []byte, error) {
	client, err := s.acquire()
	if err != nil {
		return domain.BoxNonce{}, nil, err
	}
	start := time.Now()
	nonce, cipher, err := client.CryptoBox(ctx, sender, recipient, data)
	return nonce, cipher, s.release(client, MethodCryptoBox, start, err)
}

// ImportSeed hands a boxed seed to the keystore to store under tag.
func (s *Session) ImportSeed(
	ctx context.Context,
	sender, recipient domain.X25519Public,
	nonce domain.BoxNonce,
	cipher []byte,
	tag domain.Tag,
	exportable bool,
) (domain.EntryInfo, error) {
	client, err := s.acquire()
	if err != nil {
		return domain.EntryInfo{}, err
	}
	start := time.Now()
	info, err := client.ImportSeed(ctx, sender, recipient, nonce, cipher, tag, exportable)
	return info, s.release(client, MethodImportSeed, start, err)
}

var _ domain.Keystore = (*Session)(nil)

// Package memkeystore is an in-memory keystore. It backs the development
// keystore process and stands in for the real one in tests.
//
// Seeds live in memguard buffers. Every primitive is counted, and faults can
// be injected per method.
package memkeystore

import (
	"context"
	"crypto/rand"
	"io"
	"sync"
	"sync/atomic"

	"github.com/awnumar/memguard"
	"github.com/pkg/errors"
	"golang.org/x/crypto/nacl/box"

	"zomesigner/internal/crypto"
	"zomesigner/internal/domain"
	"zomesigner/internal/keystore"
	"zomesigner/internal/util/memzero"
)

type seedEntry struct {
	seed *memguard.LockedBuffer
	info domain.EntryInfo
}

// Store holds entries by tag and indexes seeds by public key.
type Store struct {
	rand io.Reader

	mu      sync.RWMutex
	entries map[domain.Tag]*seedEntry
	byEd    map[domain.Ed25519Public]*seedEntry
	byX     map[domain.X25519Public]*seedEntry
	faults  map[string]error
	counts  map[string]int64

	calls atomic.Int64
}

// Option configures a Store.
type Option func(*Store)

// WithRand sets the source of seeds and box nonces.
func WithRand(r io.Reader) Option {
	return func(s *Store) { s.rand = r }
}

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		rand:    rand.Reader,
		entries: make(map[domain.Tag]*seedEntry),
		byEd:    make(map[domain.Ed25519Public]*seedEntry),
		byX:     make(map[domain.X25519Public]*seedEntry),
		faults:  make(map[string]error),
		counts:  make(map[string]int64),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Calls returns the number of primitive operations attempted so far.
func (s *Store) Calls() int64 { return s.calls.Load() }

// CallsTo returns the number of attempted calls to method.
func (s *Store) CallsTo(method string) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counts[method]
}

// SetFault makes every call to method fail with err until cleared with a
// nil err.
func (s *Store) SetFault(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.faults, method)
		return
	}
	s.faults[method] = err
}

// PutTLSCert stores a non-seed entry under tag.
func (s *Store) PutTLSCert(tag domain.Tag) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[tag]; ok {
		return errors.Errorf("memkeystore: tag %q already exists", tag)
	}
	s.entries[tag] = &seedEntry{info: domain.EntryInfo{Kind: domain.EntryWkaTLSCert, Tag: tag}}
	return nil
}

// Destroy wipes every stored seed.
func (s *Store) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.seed != nil {
			e.seed.Destroy()
		}
	}
	s.entries = make(map[domain.Tag]*seedEntry)
	s.byEd = make(map[domain.Ed25519Public]*seedEntry)
	s.byX = make(map[domain.X25519Public]*seedEntry)
}

func (s *Store) begin(ctx context.Context, method string) error {
	s.calls.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[method]++
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.faults[method]
}

// GetEntry returns the entry under tag or domain.ErrEntryNotFound.
func (s *Store) GetEntry(ctx context.Context, tag domain.Tag) (domain.EntryInfo, error) {
	if err := s.begin(ctx, keystore.MethodGetEntry); err != nil {
		return domain.EntryInfo{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[tag]
	if !ok {
		return domain.EntryInfo{}, domain.ErrEntryNotFound
	}
	return e.info, nil
}

// NewSeed generates a seed under tag.
func (s *Store) NewSeed(ctx context.Context, tag domain.Tag, exportable bool) (domain.EntryInfo, error) {
	if err := s.begin(ctx, keystore.MethodNewSeed); err != nil {
		return domain.EntryInfo{}, err
	}
	seed := memguard.NewBuffer(crypto.SeedSize)
	if _, err := io.ReadFull(s.rand, seed.Bytes()); err != nil {
		seed.Destroy()
		return domain.EntryInfo{}, errors.Wrap(err, "memkeystore: seed")
	}
	return s.insert(tag, seed, exportable)
}

// insert takes ownership of seed.
func (s *Store) insert(tag domain.Tag, seed *memguard.LockedBuffer, exportable bool) (domain.EntryInfo, error) {
	edPub, err := crypto.Ed25519PublicFromSeed(seed.Bytes())
	if err != nil {
		seed.Destroy()
		return domain.EntryInfo{}, err
	}
	xPriv, xPub, err := crypto.X25519FromSeed(seed.Bytes())
	memzero.Zero(xPriv[:])
	if err != nil {
		seed.Destroy()
		return domain.EntryInfo{}, err
	}
	seed.Freeze()

	e := &seedEntry{
		seed: seed,
		info: domain.EntryInfo{
			Kind: domain.EntrySeed,
			Tag:  tag,
			Seed: &domain.SeedInfo{
				Ed25519PubKey: edPub,
				X25519PubKey:  xPub,
				Exportable:    exportable,
			},
		},
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[tag]; ok {
		seed.Destroy()
		return domain.EntryInfo{}, errors.Errorf("memkeystore: tag %q already exists", tag)
	}
	s.entries[tag] = e
	s.byEd[edPub] = e
	s.byX[xPub] = e
	return e.info, nil
}

// SignByPubKey signs data with the seed whose Ed25519 key is pub.
func (s *Store) SignByPubKey(ctx context.Context, pub domain.Ed25519Public, data []byte) (domain.Signature, error) {
	if err := s.begin(ctx, keystore.MethodSignByPubKey); err != nil {
		return domain.Signature{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.byEd[pub]
	if !ok {
		return domain.Signature{}, errors.Errorf("memkeystore: no seed for signing key %s", crypto.Fingerprint(pub[:]))
	}
	return crypto.SignEd25519WithSeed(e.seed.Bytes(), data)
}

// CryptoBox encrypts data from the held sender key to recipient.
func (s *Store) CryptoBox(
	ctx context.Context,
	sender, recipient domain.X25519Public,
	data []byte,
) (domain.BoxNonce, []byte, error) {
	var nonce domain.BoxNonce
	if err := s.begin(ctx, keystore.MethodCryptoBox); err != nil {
		return nonce, nil, err
	}
	priv, err := s.boxKey(sender)
	if err != nil {
		return nonce, nil, err
	}
	defer memzero.Zero(priv[:])
	if _, err := io.ReadFull(s.rand, nonce[:]); err != nil {
		return nonce, nil, errors.Wrap(err, "memkeystore: nonce")
	}
	peer := [32]byte(recipient)
	n := [24]byte(nonce)
	return nonce, box.Seal(nil, data, &n, &peer, &priv), nil
}

// ImportSeed opens cipher with the held recipient key and stores the seed
// under tag.
func (s *Store) ImportSeed(
	ctx context.Context,
	sender, recipient domain.X25519Public,
	nonce domain.BoxNonce,
	cipher []byte,
	tag domain.Tag,
	exportable bool,
) (domain.EntryInfo, error) {
	if err := s.begin(ctx, keystore.MethodImportSeed); err != nil {
		return domain.EntryInfo{}, err
	}
	if len(cipher) != crypto.SeedSize+box.Overhead {
		return domain.EntryInfo{}, errors.Errorf("memkeystore: sealed seed is %d bytes", len(cipher))
	}
	priv, err := s.boxKey(recipient)
	if err != nil {
		return domain.EntryInfo{}, err
	}
	defer memzero.Zero(priv[:])

	seed := memguard.NewBuffer(crypto.SeedSize)
	peer := [32]byte(sender)
	n := [24]byte(nonce)
	if _, ok := box.Open(seed.Bytes()[:0], cipher, &n, &peer, &priv); !ok {
		seed.Destroy()
		return domain.EntryInfo{}, errors.New("memkeystore: sealed seed failed authentication")
	}
	return s.insert(tag, seed, exportable)
}

func (s *Store) boxKey(pub domain.X25519Public) ([32]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.byX[pub]
	if !ok {
		return [32]byte{}, errors.Errorf("memkeystore: no seed for box key %s", crypto.Fingerprint(pub[:]))
	}
	priv, _, err := crypto.X25519FromSeed(e.seed.Bytes())
	return priv, err
}

package importer

import (
	"context"

	"github.com/awnumar/memguard"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"zomesigner/internal/crypto"
	"zomesigner/internal/domain"
	"zomesigner/internal/errortypes"
	"zomesigner/internal/holohash"
	"zomesigner/internal/metrics"
	"zomesigner/internal/seedbundle"
	"zomesigner/internal/util/log"
)

// Reserved tags of the bootstrap keypairs.
const (
	EncryptionKeyTag domain.Tag = "import-encryption-key"
	DecryptionKeyTag domain.Tag = "import-decryption-key"
)

// Service imports locked seed bundles through a keystore.
type Service struct {
	keystore domain.Keystore
	flights  singleflight.Group
}

var _ domain.SeedImporter = (*Service)(nil)

// New returns an importer backed by ks, usually a *keystore.Session.
func New(ks domain.Keystore) *Service { return &Service{keystore: ks} }

// ImportLockedSeedBundle unlocks bundle and stores its seed under tag as a
// non-exportable entry. The passphrase buffer is destroyed.
//
// Steps:
//  1. Unlock the bundle into protected memory.
//  2. Ensure both bootstrap keypairs exist.
//  3. Have the keystore box the seed from the encryption key to the
//     decryption key, then wipe the seed.
//  4. Have the keystore import the boxed seed under tag.
//  5. Return the agent identity of the imported seed.
//
// Any failure aborts the import; the caller retries from the start.
func (s *Service) ImportLockedSeedBundle(
	ctx context.Context,
	bundle string,
	passphrase *memguard.LockedBuffer,
	tag domain.Tag,
) (id domain.ImportedKeyIdentity, err error) {
	defer func() { metrics.ObserveImport(err) }()

	seed, err := seedbundle.Unlock(bundle, passphrase)
	if err != nil {
		return "", err
	}
	defer seed.Destroy()

	enc, err := s.EnsureKeyPair(ctx, EncryptionKeyTag)
	if err != nil {
		return "", err
	}
	dec, err := s.EnsureKeyPair(ctx, DecryptionKeyTag)
	if err != nil {
		return "", err
	}

	nonce, cipher, err := s.keystore.CryptoBox(ctx, enc.Info.X25519PubKey, dec.Info.X25519PubKey, seed.Bytes())
	seed.Destroy()
	if err != nil {
		return "", &errortypes.EncryptionError{Err: errors.Wrap(err, "importer: crypto_box")}
	}

	entry, err := s.keystore.ImportSeed(
		ctx,
		enc.Info.X25519PubKey,
		dec.Info.X25519PubKey,
		nonce,
		cipher,
		tag,
		false,
	)
	if err != nil {
		return "", &errortypes.ImportError{Err: errors.Wrapf(err, "importer: import_seed %q", tag)}
	}
	if entry.Seed == nil {
		return "", &errortypes.KeystoreConsistencyError{
			Err: errors.Errorf("importer: import under %q returned a %s entry", tag, entry.Kind),
		}
	}

	agent := holohash.AgentPubKeyFromRaw32(entry.Seed.Ed25519PubKey)
	log.WithFields(log.Fields{
		"tag": tag,
		"key": crypto.Fingerprint(entry.Seed.Ed25519PubKey[:]),
	}).Info("importer: seed imported")
	return domain.ImportedKeyIdentity(agent.String()), nil
}

// EnsureKeyPair returns the seed under tag, creating a non-exportable one if
// the tag is empty. Concurrent calls for the same tag share one
// lookup-or-create; a caller whose ctx ends stops waiting without
// cancelling it for the others.
func (s *Service) EnsureKeyPair(ctx context.Context, tag domain.Tag) (domain.KeyPairHandle, error) {
	ch := s.flights.DoChan(string(tag), func() (interface{}, error) {
		return s.ensure(context.WithoutCancel(ctx), tag)
	})
	select {
	case <-ctx.Done():
		return domain.KeyPairHandle{}, &errortypes.ImportError{Err: errors.Wrapf(ctx.Err(), "importer: ensure %q", tag)}
	case res := <-ch:
		if res.Err != nil {
			return domain.KeyPairHandle{}, res.Err
		}
		return res.Val.(domain.KeyPairHandle), nil
	}
}

func (s *Service) ensure(ctx context.Context, tag domain.Tag) (domain.KeyPairHandle, error) {
	info, err := s.keystore.GetEntry(ctx, tag)
	if errors.Is(err, domain.ErrEntryNotFound) {
		log.WithField("tag", tag).Info("importer: creating bootstrap keypair")
		info, err = s.keystore.NewSeed(ctx, tag, false)
	}
	if err != nil {
		return domain.KeyPairHandle{}, &errortypes.ImportError{Err: errors.Wrapf(err, "importer: ensure %q", tag)}
	}
	if info.Kind != domain.EntrySeed || info.Seed == nil {
		return domain.KeyPairHandle{}, &errortypes.KeystoreConsistencyError{
			Err: errors.Errorf("importer: reserved tag %q holds a %s entry", tag, info.Kind),
		}
	}
	return domain.KeyPairHandle{Tag: tag, Info: *info.Seed}, nil
}

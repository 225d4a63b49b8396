package seedbundle

import (
	"crypto/rand"

	"github.com/awnumar/memguard"
	"github.com/pkg/errors"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/chacha20poly1305"

	"zomesigner/internal/crypto"
	"zomesigner/internal/errortypes"
	"zomesigner/internal/util/memzero"
	"zomesigner/internal/util/msgpack"
)

const (
	// Kind tags the bundle envelope. It is also the cipher associated data.
	Kind = "hcsb0"
	// CipherPassphrase is the passphrase cipher tag.
	CipherPassphrase = "pw"
	// CipherSecurityQuestions is the security-questions cipher tag. It is
	// recognized but not supported.
	CipherSecurityQuestions = "qa"

	saltSize = 16

	minMemLimitKiB = 8
	maxMemLimitKiB = 1 << 20
	maxOpsLimit    = 16
)

var errWrongPassphrase = errors.New("seedbundle: wrong passphrase or corrupted bundle")

// Options tune the argon2id cost of a new bundle.
type Options struct {
	MemLimitKiB uint32
	OpsLimit    uint32
	AppData     []byte
}

// DefaultOptions returns the moderate argon2id cost used by the CLI.
func DefaultOptions() Options {
	return Options{MemLimitKiB: 256 * 1024, OpsLimit: 3}
}

// Validate checks the KDF limits against the accepted bounds.
func (o Options) Validate() error {
	if o.MemLimitKiB < minMemLimitKiB || o.MemLimitKiB > maxMemLimitKiB {
		return errors.Errorf("seedbundle: mem limit %d KiB out of range", o.MemLimitKiB)
	}
	if o.OpsLimit < 1 || o.OpsLimit > maxOpsLimit {
		return errors.Errorf("seedbundle: ops limit %d out of range", o.OpsLimit)
	}
	return nil
}

// pwCipher is the decoded passphrase cipher entry.
type pwCipher struct {
	Salt        []byte
	MemLimitKiB uint32
	OpsLimit    uint32
	Nonce       []byte
	Cipher      []byte
}

func (c *pwCipher) fields() []interface{} {
	return []interface{}{
		CipherPassphrase,
		c.Salt,
		uint64(c.MemLimitKiB),
		uint64(c.OpsLimit),
		c.Nonce,
		c.Cipher,
	}
}

func deriveKey(passphrase, salt []byte, ops, memKiB uint32) []byte {
	pwHash := blake2b.Sum256(passphrase)
	defer memzero.Zero(pwHash[:])
	return argon2.IDKey(pwHash[:], salt, ops, memKiB, 1, chacha20poly1305.KeySize)
}

// Lock seals seed under passphrase and returns the bundle string. The
// passphrase buffer is destroyed; the seed buffer is left to the caller.
func Lock(seed, passphrase *memguard.LockedBuffer, opts Options) (string, error) {
	defer passphrase.Destroy()

	if err := CheckPassphrase(passphrase.Bytes()); err != nil {
		return "", err
	}
	if err := opts.Validate(); err != nil {
		return "", err
	}
	if seed.Size() != crypto.SeedSize {
		return "", errors.Errorf("seedbundle: want %d byte seed, got %d", crypto.SeedSize, seed.Size())
	}

	c := &pwCipher{
		Salt:        make([]byte, saltSize),
		MemLimitKiB: opts.MemLimitKiB,
		OpsLimit:    opts.OpsLimit,
		Nonce:       make([]byte, chacha20poly1305.NonceSizeX),
	}
	if _, err := rand.Read(c.Salt); err != nil {
		return "", errors.Wrap(err, "seedbundle: salt")
	}
	if _, err := rand.Read(c.Nonce); err != nil {
		return "", errors.Wrap(err, "seedbundle: nonce")
	}

	key := deriveKey(passphrase.Bytes(), c.Salt, c.OpsLimit, c.MemLimitKiB)
	defer memzero.Zero(key)
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return "", errors.Wrap(err, "seedbundle: cipher")
	}
	c.Cipher = aead.Seal(nil, c.Nonce, seed.Bytes(), []byte(Kind))

	return encode(opts.AppData, c.fields())
}

func encode(appData []byte, ciphers ...[]interface{}) (string, error) {
	if appData == nil {
		appData = []byte{}
	}
	list := make([]interface{}, 0, len(ciphers))
	for _, c := range ciphers {
		list = append(list, c)
	}
	raw, err := msgpack.Encode([]interface{}{Kind, list, appData})
	if err != nil {
		return "", errors.Wrap(err, "seedbundle: encode")
	}
	return crypto.B64URL(raw), nil
}

// Unlock opens a bundle with passphrase and returns the seed in a frozen
// locked buffer. The passphrase buffer is destroyed on every path.
//
// Malformed bundles and wrong passphrases yield *errortypes.UnlockError;
// bundles whose first cipher is not the passphrase one yield
// *errortypes.UnsupportedCipherError.
func Unlock(bundle string, passphrase *memguard.LockedBuffer) (*memguard.LockedBuffer, error) {
	defer passphrase.Destroy()

	c, err := decode(bundle)
	if err != nil {
		return nil, err
	}

	key := deriveKey(passphrase.Bytes(), c.Salt, c.OpsLimit, c.MemLimitKiB)
	defer memzero.Zero(key)
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, &errortypes.UnlockError{Err: errors.Wrap(err, "seedbundle: cipher")}
	}
	if len(c.Cipher) != crypto.SeedSize+aead.Overhead() {
		return nil, &errortypes.UnlockError{
			Err: errors.Errorf("seedbundle: ciphertext is %d bytes", len(c.Cipher)),
		}
	}

	seed := memguard.NewBuffer(crypto.SeedSize)
	if _, err := aead.Open(seed.Bytes()[:0], c.Nonce, c.Cipher, []byte(Kind)); err != nil {
		seed.Destroy()
		return nil, &errortypes.UnlockError{Err: errWrongPassphrase}
	}
	seed.Freeze()
	return seed, nil
}

func decode(bundle string) (*pwCipher, error) {
	raw, err := crypto.DecodeB64URL(bundle)
	if err != nil {
		return nil, &errortypes.UnlockError{Err: errors.Wrap(err, "seedbundle: base64")}
	}
	var top []interface{}
	if err := msgpack.Decode(raw, &top); err != nil {
		return nil, &errortypes.UnlockError{Err: errors.Wrap(err, "seedbundle: msgpack")}
	}
	if len(top) != 3 {
		return nil, malformed("envelope has %d fields", len(top))
	}
	if kind, ok := asString(top[0]); !ok || kind != Kind {
		return nil, malformed("not a %s envelope", Kind)
	}
	ciphers, ok := top[1].([]interface{})
	if !ok || len(ciphers) == 0 {
		return nil, malformed("no ciphers")
	}
	first, ok := ciphers[0].([]interface{})
	if !ok || len(first) == 0 {
		return nil, malformed("cipher is not a list")
	}
	kind, ok := asString(first[0])
	if !ok {
		return nil, malformed("cipher has no kind")
	}
	if kind != CipherPassphrase {
		return nil, &errortypes.UnsupportedCipherError{Kind: kind}
	}
	return decodePw(first)
}

func decodePw(f []interface{}) (*pwCipher, error) {
	if len(f) != 6 {
		return nil, malformed("pw cipher has %d fields", len(f))
	}
	c := &pwCipher{}
	var ok bool
	if c.Salt, ok = asBytes(f[1]); !ok || len(c.Salt) != saltSize {
		return nil, malformed("bad salt")
	}
	mem, ok := asUint(f[2])
	if !ok || mem < minMemLimitKiB || mem > maxMemLimitKiB {
		return nil, malformed("mem limit out of range")
	}
	ops, ok := asUint(f[3])
	if !ok || ops < 1 || ops > maxOpsLimit {
		return nil, malformed("ops limit out of range")
	}
	c.MemLimitKiB, c.OpsLimit = uint32(mem), uint32(ops)
	if c.Nonce, ok = asBytes(f[4]); !ok || len(c.Nonce) != chacha20poly1305.NonceSizeX {
		return nil, malformed("bad nonce")
	}
	if c.Cipher, ok = asBytes(f[5]); !ok {
		return nil, malformed("bad ciphertext")
	}
	return c, nil
}

func malformed(format string, args ...interface{}) error {
	return &errortypes.UnlockError{Err: errors.Errorf("seedbundle: "+format, args...)}
}

func asString(v interface{}) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case []byte:
		return string(s), true
	}
	return "", false
}

func asBytes(v interface{}) ([]byte, bool) {
	b, ok := v.([]byte)
	return b, ok
}

func asUint(v interface{}) (uint64, bool) {
	switch n := v.(type) {
	case uint64:
		return n, true
	case int64:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	}
	return 0, false
}

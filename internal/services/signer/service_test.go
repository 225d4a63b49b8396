package signer_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/pkg/errors"

	"zomesigner/internal/canonical"
	"zomesigner/internal/crypto"
	"zomesigner/internal/domain"
	"zomesigner/internal/errortypes"
	"zomesigner/internal/holohash"
	"zomesigner/internal/keystore"
	"zomesigner/internal/keystore/memkeystore"
	"zomesigner/internal/services/signer"
)

func newCall(agent domain.Ed25519Public) domain.UnsignedCall {
	var dna [32]byte
	dna[0] = 0xd0
	key := holohash.AgentPubKeyFromRaw32(agent).Bytes()
	return domain.UnsignedCall{
		CellID:     [][]byte{holohash.DnaHashFromRaw32(dna).Bytes(), key},
		ZomeName:   "posts",
		FnName:     "create_post",
		Payload:    []byte("hello"),
		Provenance: key,
		Nonce:      bytes.Repeat([]byte{5}, 32),
		ExpiresAt:  1_700_000_300_000_000,
	}
}

func setup(t *testing.T) (*memkeystore.Store, domain.UnsignedCall) {
	t.Helper()
	store := memkeystore.New()
	t.Cleanup(store.Destroy)
	e, err := store.NewSeed(context.Background(), "agent", false)
	if err != nil {
		t.Fatalf("NewSeed: %v", err)
	}
	return store, newCall(e.Seed.Ed25519PubKey)
}

func TestSignAndVerify(t *testing.T) {
	store, call := setup(t)
	svc := signer.New(store)

	signed, err := svc.SignZomeCall(context.Background(), call)
	if err != nil {
		t.Fatalf("SignZomeCall: %v", err)
	}
	if len(signed.Signature) != 64 {
		t.Fatalf("want 64 byte signature, got %d", len(signed.Signature))
	}
	if !bytes.Equal(signed.Provenance, call.Provenance) || signed.ZomeName != call.ZomeName ||
		signed.ExpiresAt != call.ExpiresAt || !bytes.Equal(signed.Payload, call.Payload) {
		t.Fatal("signed call does not carry the original fields")
	}
	if err := signer.Verify(signed); err != nil {
		t.Fatalf("Verify: %v", err)
	}

	data, err := canonical.DataToSign(call)
	if err != nil {
		t.Fatalf("DataToSign: %v", err)
	}
	key := holohash.AgentPubKey{}
	copy(key[:], call.Provenance)
	pub := domain.Ed25519Public(key.Raw32())
	if !crypto.VerifyEd25519(pub, data, signed.Signature) {
		t.Fatal("signature does not verify over the canonical bytes")
	}

	for i := 0; i < len(data)*8; i += 13 {
		flipped := append([]byte(nil), data...)
		flipped[i/8] ^= 1 << (i % 8)
		if crypto.VerifyEd25519(pub, flipped, signed.Signature) {
			t.Fatalf("signature verified over canonical bytes with bit %d flipped", i)
		}
	}
	for i := 0; i < len(signed.Signature)*8; i += 7 {
		tampered := signed
		tampered.Signature = append([]byte(nil), signed.Signature...)
		tampered.Signature[i/8] ^= 1 << (i % 8)
		if err := signer.Verify(tampered); !errors.Is(err, signer.ErrBadSignature) {
			t.Fatalf("signature with bit %d flipped: want ErrBadSignature, got %v", i, err)
		}
	}

	tampered := signed
	tampered.FnName = "delete_post"
	if err := signer.Verify(tampered); !errors.Is(err, signer.ErrBadSignature) {
		t.Fatalf("altered call: want ErrBadSignature, got %v", err)
	}
}

func TestMalformedCallsNeverReachKeystore(t *testing.T) {
	store, call := setup(t)
	svc := signer.New(store)
	before := store.Calls()

	short := call
	short.CellID = call.CellID[:1]
	_, err := svc.SignZomeCall(context.Background(), short)
	var callErr *errortypes.MalformedCallError
	if !errors.As(err, &callErr) {
		t.Fatalf("single-hash target: want MalformedCallError, got %v", err)
	}

	badProv := call
	badProv.Provenance = append([]byte(nil), call.Provenance...)
	badProv.Provenance[38] ^= 0x55
	_, err = svc.SignZomeCall(context.Background(), badProv)
	var keyErr *errortypes.MalformedKeyError
	if !errors.As(err, &keyErr) {
		t.Fatalf("bad provenance: want MalformedKeyError, got %v", err)
	}

	if store.Calls() != before {
		t.Fatalf("keystore called %d times for malformed calls", store.Calls()-before)
	}
}

func TestUnknownKeyIsSigningError(t *testing.T) {
	store := memkeystore.New()
	defer store.Destroy()
	svc := signer.New(store)

	_, err := svc.SignZomeCall(context.Background(), newCall(domain.Ed25519Public{1, 2, 3}))
	var signErr *errortypes.SigningError
	if !errors.As(err, &signErr) {
		t.Fatalf("want SigningError, got %v", err)
	}
	if store.Calls() != 1 {
		t.Fatalf("want exactly one keystore call, got %d", store.Calls())
	}
}

func TestDisconnectedSessionIsSigningError(t *testing.T) {
	store, call := setup(t)
	session := keystore.NewSession(&memkeystore.Dialer{Store: store})
	svc := signer.New(session)

	_, err := svc.SignZomeCall(context.Background(), call)
	var signErr *errortypes.SigningError
	var notConnected *errortypes.NotConnectedError
	if !errors.As(err, &signErr) || !errors.As(err, &notConnected) {
		t.Fatalf("want SigningError wrapping NotConnectedError, got %v", err)
	}
}

func TestSignThroughSession(t *testing.T) {
	store, call := setup(t)
	d := &memkeystore.Dialer{Store: store, Passphrase: []byte("pw")}
	session, err := keystore.Connect(context.Background(), d, "unix:///tmp/ks", crypto.NewSecretFromString("pw"))
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer session.Disconnect()

	signed, err := signer.New(session).SignZomeCall(context.Background(), call)
	if err != nil {
		t.Fatalf("SignZomeCall: %v", err)
	}
	if err := signer.Verify(signed); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

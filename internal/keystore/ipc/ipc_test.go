package ipc_test

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/fortytw2/leaktest"
	"github.com/pkg/errors"

	"zomesigner/internal/crypto"
	"zomesigner/internal/domain"
	"zomesigner/internal/keystore"
	"zomesigner/internal/keystore/ipc"
	"zomesigner/internal/keystore/memkeystore"
)

const testPass = "keystore-pass"

type fixture struct {
	client *ipc.Client
	server net.Conn
	store  *memkeystore.Store
	done   <-chan struct{}
}

func (f *fixture) close() {
	f.client.Close()
	<-f.done
	f.store.Destroy()
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memkeystore.New()
	srv := ipc.NewServer(store, crypto.NewSecretFromString(testPass))
	clientConn, serverConn := net.Pipe()
	return &fixture{
		client: ipc.NewClient(clientConn),
		server: serverConn,
		store:  store,
		done:   srv.ServeConn(context.Background(), serverConn),
	}
}

func connect(t *testing.T, c *ipc.Client, pass string) error {
	t.Helper()
	p := crypto.NewSecretFromString(pass)
	defer p.Destroy()
	return c.Connect(context.Background(), p)
}

func TestPrimitivesOverPipe(t *testing.T) {
	defer leaktest.Check(t)()
	f := newFixture(t)
	defer f.close()
	ctx := context.Background()

	if err := connect(t, f.client, testPass); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	enc, err := f.client.NewSeed(ctx, "enc", false)
	if err != nil {
		t.Fatalf("NewSeed: %v", err)
	}
	got, err := f.client.GetEntry(ctx, "enc")
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if got.Kind != domain.EntrySeed || got.Seed.Ed25519PubKey != enc.Seed.Ed25519PubKey {
		t.Fatalf("unexpected entry %+v", got)
	}
	if _, err := f.client.GetEntry(ctx, "missing"); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Fatalf("want ErrEntryNotFound, got %v", err)
	}

	sig, err := f.client.SignByPubKey(ctx, enc.Seed.Ed25519PubKey, []byte("msg"))
	if err != nil {
		t.Fatalf("SignByPubKey: %v", err)
	}
	if !crypto.VerifyEd25519(enc.Seed.Ed25519PubKey, []byte("msg"), sig[:]) {
		t.Fatal("signature did not verify")
	}

	dec, err := f.client.NewSeed(ctx, "dec", false)
	if err != nil {
		t.Fatalf("NewSeed: %v", err)
	}
	seed := make([]byte, crypto.SeedSize)
	seed[0] = 42
	nonce, sealed, err := f.client.CryptoBox(ctx, enc.Seed.X25519PubKey, dec.Seed.X25519PubKey, seed)
	if err != nil {
		t.Fatalf("CryptoBox: %v", err)
	}
	imported, err := f.client.ImportSeed(ctx, enc.Seed.X25519PubKey, dec.Seed.X25519PubKey, nonce, sealed, "agent", false)
	if err != nil {
		t.Fatalf("ImportSeed: %v", err)
	}
	want, err := crypto.Ed25519PublicFromSeed(seed)
	if err != nil {
		t.Fatalf("Ed25519PublicFromSeed: %v", err)
	}
	if imported.Seed.Ed25519PubKey != want {
		t.Fatal("imported seed has the wrong public key")
	}

	if _, err := f.client.SignByPubKey(ctx, domain.Ed25519Public{9}, []byte("msg")); err == nil {
		t.Fatal("signed with an unknown key")
	}
}

func TestNonSeedEntry(t *testing.T) {
	defer leaktest.Check(t)()
	f := newFixture(t)
	defer f.close()

	if err := f.store.PutTLSCert("cert"); err != nil {
		t.Fatalf("PutTLSCert: %v", err)
	}
	if err := connect(t, f.client, testPass); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	e, err := f.client.GetEntry(context.Background(), "cert")
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if e.Kind != domain.EntryWkaTLSCert || e.Seed != nil {
		t.Fatalf("unexpected entry %+v", e)
	}
}

func TestAuthentication(t *testing.T) {
	defer leaktest.Check(t)()
	f := newFixture(t)
	defer f.close()
	ctx := context.Background()

	if _, err := f.client.GetEntry(ctx, "a"); err == nil || errors.Is(err, domain.ErrEntryNotFound) {
		t.Fatalf("unauthenticated call not refused: %v", err)
	}
	if err := connect(t, f.client, "wrong"); !errors.Is(err, ipc.ErrAuthFailed) {
		t.Fatalf("want ErrAuthFailed, got %v", err)
	}
	if _, err := f.client.NewSeed(ctx, "a", false); err == nil {
		t.Fatal("call after failed connect not refused")
	}
	if f.store.Calls() != 0 {
		t.Fatalf("backend reached %d times before authentication", f.store.Calls())
	}
	if err := connect(t, f.client, testPass); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if _, err := f.client.NewSeed(ctx, "a", false); err != nil {
		t.Fatalf("NewSeed: %v", err)
	}
}

func TestChannelClosed(t *testing.T) {
	defer leaktest.Check(t)()
	f := newFixture(t)
	defer f.close()

	if err := connect(t, f.client, testPass); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	f.server.Close()
	select {
	case <-f.client.DisconnectNotify():
	case <-time.After(5 * time.Second):
		t.Fatal("client did not notice the closed connection")
	}
	if _, err := f.client.GetEntry(context.Background(), "a"); !errors.Is(err, domain.ErrChannelClosed) {
		t.Fatalf("want ErrChannelClosed, got %v", err)
	}
}

func TestSessionOverUnixSocket(t *testing.T) {
	defer leaktest.Check(t)()
	sock := filepath.Join(t.TempDir(), "ks.sock")
	l, err := net.Listen("unix", sock)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}

	store := memkeystore.New()
	defer store.Destroy()
	srv := ipc.NewServer(store, crypto.NewSecretFromString(testPass))
	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)
	go func() { served <- srv.Serve(ctx, l) }()

	s, err := keystore.Connect(ctx, &ipc.Dialer{}, "unix://"+sock, crypto.NewSecretFromString(testPass))
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	e, err := s.NewSeed(ctx, "agent", false)
	if err != nil {
		t.Fatalf("NewSeed: %v", err)
	}
	if _, err := s.SignByPubKey(ctx, e.Seed.Ed25519PubKey, []byte("msg")); err != nil {
		t.Fatalf("SignByPubKey: %v", err)
	}

	if _, err := keystore.Connect(ctx, &ipc.Dialer{}, "unix://"+sock, crypto.NewSecretFromString("wrong")); !errors.Is(err, ipc.ErrAuthFailed) {
		t.Fatalf("want ErrAuthFailed, got %v", err)
	}

	if err := s.Disconnect(); err != nil {
		t.Fatalf("Disconnect: %v", err)
	}
	cancel()
	if err := <-served; err != nil {
		t.Fatalf("Serve: %v", err)
	}
}

package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"zomesigner/internal/crypto"
	"zomesigner/internal/keystore"
	"zomesigner/internal/keystore/ipc"
	"zomesigner/internal/metrics"
)

func TestListenRejectsBadAddress(t *testing.T) {
	if _, err := listen("http://localhost"); err == nil {
		t.Fatal("http address accepted")
	}
}

func TestServeUnixSocket(t *testing.T) {
	url := "unix://" + filepath.Join(t.TempDir(), "ks.sock")

	l, err := listen(url)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	l.Close()
	// a stale socket file must not block a restart
	l, err = listen(url)
	if err != nil {
		t.Fatalf("listen over stale socket: %v", err)
	}
	l.Close()
}

func TestServeEndToEnd(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "ks.sock")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	cfg := testConfig("unix://" + sock)
	go func() { done <- serve(ctx, cfg, crypto.NewSecretFromString("pw")) }()

	var s *keystore.Session
	var err error
	for i := 0; i < 200; i++ {
		s, err = keystore.Connect(ctx, &ipc.Dialer{}, cfg.KeystoreURL, crypto.NewSecretFromString("pw"))
		if err == nil {
			break
		}
		waitBriefly()
	}
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if _, err := s.NewSeed(ctx, "agent", false); err != nil {
		t.Fatalf("NewSeed: %v", err)
	}
	s.Disconnect()

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("serve: %v", err)
	}
}

func TestAccessLogMetrics(t *testing.T) {
	metrics.ObserveSign(nil)
	srv := httptest.NewServer(withAccessLog(metrics.Handler()))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "zomesigner_") {
		t.Fatalf("unexpected metrics response %d", resp.StatusCode)
	}
}

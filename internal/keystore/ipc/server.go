package ipc

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/awnumar/memguard"
	"github.com/pkg/errors"
	"github.com/sourcegraph/jsonrpc2"

	"zomesigner/internal/domain"
	"zomesigner/internal/keystore"
	"zomesigner/internal/metrics"
	"zomesigner/internal/util/log"
	"zomesigner/internal/util/memzero"
)

// Server serves a Keystore backend to authenticated connections.
type Server struct {
	backend    domain.Keystore
	passphrase *memguard.Enclave

	wg sync.WaitGroup
}

// NewServer seals passphrase into an enclave; the buffer is destroyed.
func NewServer(backend domain.Keystore, passphrase *memguard.LockedBuffer) *Server {
	return &Server{backend: backend, passphrase: passphrase.Seal()}
}

// Serve accepts connections on l until ctx is done or l fails, then waits
// for open connections to finish.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	defer s.wg.Wait()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		<-ctx.Done()
		l.Close()
	}()

	for {
		nc, err := l.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.Wrap(err, "ipc: accept")
		}
		log.WithField("remote", nc.RemoteAddr().String()).Debug("ipc: connection accepted")
		done := s.ServeConn(ctx, nc)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			select {
			case <-done:
			case <-ctx.Done():
				nc.Close()
				<-done
			}
		}()
	}
}

// ServeConn serves one connection. The returned channel is closed when the
// connection ends.
func (s *Server) ServeConn(ctx context.Context, rwc io.ReadWriteCloser) <-chan struct{} {
	h := &connHandler{srv: s}
	stream := jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{})
	conn := jsonrpc2.NewConn(ctx, stream, jsonrpc2.AsyncHandler(jsonrpc2.HandlerWithError(h.handle)))
	return conn.DisconnectNotify()
}

func (s *Server) checkPassphrase(p []byte) (bool, error) {
	want, err := s.passphrase.Open()
	if err != nil {
		return false, err
	}
	defer want.Destroy()
	return subtle.ConstantTimeCompare(p, want.Bytes()) == 1, nil
}

// connHandler holds per-connection authentication state.
type connHandler struct {
	srv    *Server
	authed atomic.Bool
}

func (h *connHandler) handle(ctx context.Context, _ *jsonrpc2.Conn, req *jsonrpc2.Request) (result interface{}, err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveKeystoreRequest(req.Method, time.Since(start), err)
		if err != nil {
			log.WithError(err).WithField("method", req.Method).Debug("ipc: request failed")
		}
	}()

	if req.Params == nil {
		return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: "missing params"}
	}
	if req.Method == keystore.MethodConnect {
		return h.connect(*req.Params)
	}
	if !h.authed.Load() {
		return nil, &jsonrpc2.Error{Code: CodeNotAuthenticated, Message: "connect first"}
	}

	b := h.srv.backend
	switch req.Method {
	case keystore.MethodGetEntry:
		var p tagParams
		if err := unmarshal(*req.Params, &p); err != nil {
			return nil, err
		}
		info, err := b.GetEntry(ctx, domain.Tag(p.Tag))
		return entryResult(info, err)

	case keystore.MethodNewSeed:
		var p newSeedParams
		if err := unmarshal(*req.Params, &p); err != nil {
			return nil, err
		}
		info, err := b.NewSeed(ctx, domain.Tag(p.Tag), p.Exportable)
		return entryResult(info, err)

	case keystore.MethodSignByPubKey:
		var p signParams
		if err := unmarshal(*req.Params, &p); err != nil {
			return nil, err
		}
		pub, err := domain.Ed25519PublicFromBytes(p.PubKey)
		if err != nil {
			return nil, invalidParams(err)
		}
		sig, err := b.SignByPubKey(ctx, pub, p.Data)
		if err != nil {
			return nil, keystoreError(err)
		}
		return &signResult{Signature: sig.Slice()}, nil

	case keystore.MethodCryptoBox:
		var p cryptoBoxParams
		if err := unmarshal(*req.Params, &p); err != nil {
			return nil, err
		}
		defer memzero.Zero(p.Data)
		sender, recipient, err := boxKeys(p.SenderPubKey, p.RecipientPubKey)
		if err != nil {
			return nil, err
		}
		nonce, cipher, err := b.CryptoBox(ctx, sender, recipient, p.Data)
		if err != nil {
			return nil, keystoreError(err)
		}
		return &cryptoBoxResult{Nonce: nonce.Slice(), Cipher: cipher}, nil

	case keystore.MethodImportSeed:
		var p importSeedParams
		if err := unmarshal(*req.Params, &p); err != nil {
			return nil, err
		}
		sender, recipient, err := boxKeys(p.SenderPubKey, p.RecipientPubKey)
		if err != nil {
			return nil, err
		}
		nonce, err := domain.BoxNonceFromBytes(p.Nonce)
		if err != nil {
			return nil, invalidParams(err)
		}
		info, err := b.ImportSeed(ctx, sender, recipient, nonce, p.Cipher, domain.Tag(p.Tag), p.Exportable)
		return entryResult(info, err)
	}
	return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeMethodNotFound, Message: req.Method}
}

func (h *connHandler) connect(raw json.RawMessage) (interface{}, error) {
	var p connectParams
	if err := unmarshal(raw, &p); err != nil {
		return nil, err
	}
	defer memzero.Zero(p.Passphrase)
	ok, err := h.srv.checkPassphrase(p.Passphrase)
	if err != nil {
		return nil, keystoreError(err)
	}
	if !ok {
		return nil, &jsonrpc2.Error{Code: CodeAuthFailed, Message: "passphrase rejected"}
	}
	h.authed.Store(true)
	return true, nil
}

func unmarshal(raw json.RawMessage, v interface{}) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return invalidParams(err)
	}
	return nil
}

func invalidParams(err error) error {
	return &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: err.Error()}
}

func keystoreError(err error) error {
	if errors.Is(err, domain.ErrEntryNotFound) {
		return &jsonrpc2.Error{Code: CodeEntryNotFound, Message: err.Error()}
	}
	return &jsonrpc2.Error{Code: CodeKeystore, Message: err.Error()}
}

func entryResult(info domain.EntryInfo, err error) (interface{}, error) {
	if err != nil {
		return nil, keystoreError(err)
	}
	return toWire(info), nil
}

func boxKeys(sender, recipient []byte) (s, r domain.X25519Public, err error) {
	if s, err = domain.X25519PublicFromBytes(sender); err != nil {
		return s, r, invalidParams(err)
	}
	if r, err = domain.X25519PublicFromBytes(recipient); err != nil {
		return s, r, invalidParams(err)
	}
	return s, r, nil
}

package app

import (
	"zomesigner/internal/keystore"
	"zomesigner/internal/keystore/ipc"
	importersvc "zomesigner/internal/services/importer"
	signersvc "zomesigner/internal/services/signer"
)

// Wire bundles the session and the services built on it.
type Wire struct {
	Config   Config
	Session  *keystore.Session
	Signer   *signersvc.Service
	Importer *importersvc.Service
}

// NewWire constructs the dependency graph from cfg. A nil dialer selects
// the JSON-RPC dialer. The session starts disconnected.
func NewWire(cfg Config, dialer keystore.Dialer) (*Wire, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if dialer == nil {
		dialer = &ipc.Dialer{Timeout: cfg.DialTimeout}
	}

	session := keystore.NewSession(dialer)

	return &Wire{
		Config:   cfg,
		Session:  session,
		Signer:   signersvc.New(session),
		Importer: importersvc.New(session),
	}, nil
}

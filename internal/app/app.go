package app

import (
	"context"

	"github.com/awnumar/memguard"

	"zomesigner/internal/util/log"
)

// InitLogging applies the logging part of cfg.
func InitLogging(cfg Config) error {
	return log.Init(cfg.LogLevel, cfg.LogFormat)
}

// Connect opens the session on the configured keystore address. The
// passphrase buffer is destroyed.
func (w *Wire) Connect(ctx context.Context, passphrase *memguard.LockedBuffer) error {
	return w.Session.Connect(ctx, w.Config.KeystoreURL, passphrase)
}

// Close disconnects the session.
func (w *Wire) Close() error {
	return w.Session.Disconnect()
}

package interfaces

import (
	"context"

	domaintypes "zomesigner/internal/domain/types"
)

// Keystore is the set of primitive operations the keystore process offers.
// All of them are keyed by tag or public key and may block on the process.
type Keystore interface {
	GetEntry(ctx context.Context, tag domaintypes.Tag) (domaintypes.EntryInfo, error)
	NewSeed(ctx context.Context, tag domaintypes.Tag, exportable bool) (domaintypes.EntryInfo, error)
	SignByPubKey(
		ctx context.Context,
		pub domaintypes.Ed25519Public,
		data []byte,
	) (domaintypes.Signature, error)
	CryptoBox(
		ctx context.Context,
		sender domaintypes.X25519Public,
		recipient domaintypes.X25519Public,
		data []byte,
	) (domaintypes.BoxNonce, []byte, error)
	ImportSeed(
		ctx context.Context,
		sender domaintypes.X25519Public,
		recipient domaintypes.X25519Public,
		nonce domaintypes.BoxNonce,
		cipher []byte,
		tag domaintypes.Tag,
		exportable bool,
	) (domaintypes.EntryInfo, error)
}

// KeystoreClient is an authenticated channel to a keystore process.
type KeystoreClient interface {
	Keystore
	Close() error
}

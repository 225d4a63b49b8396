package interfaces

import (
	"context"

	"github.com/awnumar/memguard"

	domaintypes "zomesigner/internal/domain/types"
)

// CallSigner turns unsigned zome calls into signed ones.
type CallSigner interface {
	SignZomeCall(ctx context.Context, call domaintypes.UnsignedCall) (domaintypes.SignedCall, error)
}

// SeedImporter moves a locked seed bundle into the keystore under a tag.
// The passphrase buffer is consumed.
type SeedImporter interface {
	ImportLockedSeedBundle(
		ctx context.Context,
		bundle string,
		passphrase *memguard.LockedBuffer,
		tag domaintypes.Tag,
	) (domaintypes.ImportedKeyIdentity, error)
}

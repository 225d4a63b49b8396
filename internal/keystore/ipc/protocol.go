package ipc

import (
	"github.com/pkg/errors"

	"zomesigner/internal/domain"
)

// JSON-RPC error codes used by the keystore process.
const (
	CodeKeystore         int64 = -32000
	CodeAuthFailed       int64 = -32001
	CodeNotAuthenticated int64 = -32002
	CodeEntryNotFound    int64 = -32004
)

type connectParams struct {
	Passphrase []byte `json:"passphrase"`
}

type tagParams struct {
	Tag string `json:"tag"`
}

type newSeedParams struct {
	Tag        string `json:"tag"`
	Exportable bool   `json:"exportable"`
}

type signParams struct {
	PubKey []byte `json:"pub_key"`
	Data   []byte `json:"data"`
}

type signResult struct {
	Signature []byte `json:"signature"`
}

type cryptoBoxParams struct {
	SenderPubKey    []byte `json:"sender_pub_key"`
	RecipientPubKey []byte `json:"recipient_pub_key"`
	Data            []byte `json:"data"`
}

type cryptoBoxResult struct {
	Nonce  []byte `json:"nonce"`
	Cipher []byte `json:"cipher"`
}

type importSeedParams struct {
	SenderPubKey    []byte `json:"sender_pub_key"`
	RecipientPubKey []byte `json:"recipient_pub_key"`
	Nonce           []byte `json:"nonce"`
	Cipher          []byte `json:"cipher"`
	Tag             string `json:"tag"`
	Exportable      bool   `json:"exportable"`
}

type entryInfo struct {
	Kind          string `json:"kind"`
	Tag           string `json:"tag"`
	Ed25519PubKey []byte `json:"ed25519_pub_key,omitempty"`
	X25519PubKey  []byte `json:"x25519_pub_key,omitempty"`
	Exportable    bool   `json:"exportable,omitempty"`
}

func toWire(e domain.EntryInfo) *entryInfo {
	w := &entryInfo{Kind: string(e.Kind), Tag: string(e.Tag)}
	if e.Seed != nil {
		w.Ed25519PubKey = e.Seed.Ed25519PubKey.Slice()
		w.X25519PubKey = e.Seed.X25519PubKey.Slice()
		w.Exportable = e.Seed.Exportable
	}
	return w
}

func (w *entryInfo) domain() (domain.EntryInfo, error) {
	e := domain.EntryInfo{Kind: domain.EntryKind(w.Kind), Tag: domain.Tag(w.Tag)}
	if e.Kind != domain.EntrySeed && e.Kind != domain.EntryDeepLockedSeed {
		return e, nil
	}
	ed, err := domain.Ed25519PublicFromBytes(w.Ed25519PubKey)
	if err != nil {
		return e, errors.Wrap(err, "ipc: entry")
	}
	x, err := domain.X25519PublicFromBytes(w.X25519PubKey)
	if err != nil {
		return e, errors.Wrap(err, "ipc: entry")
	}
	e.Seed = &domain.SeedInfo{Ed25519PubKey: ed, X25519PubKey: x, Exportable: w.Exportable}
	return e, nil
}

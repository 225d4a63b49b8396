package types

// EntryKind is the shape of an entry stored in the keystore.
type EntryKind string

const (
	// EntrySeed is a seed whose keypairs can be used directly.
	EntrySeed EntryKind = "seed"
	// EntryDeepLockedSeed is a seed behind an additional passphrase.
	EntryDeepLockedSeed EntryKind = "deep_locked_seed"
	// EntryWkaTLSCert is a TLS certificate for a well-known authority.
	EntryWkaTLSCert EntryKind = "wka_tls_cert"
)

// SeedInfo is the public half of a keystore-resident seed. The keystore
// never hands out the private half.
type SeedInfo struct {
	Ed25519PubKey Ed25519Public `json:"ed25519_pub_key"`
	X25519PubKey  X25519Public  `json:"x25519_pub_key"`
	Exportable    bool          `json:"exportable"`
}

// EntryInfo describes an entry found or created under a tag.
type EntryInfo struct {
	Kind EntryKind `json:"kind"`
	Tag  Tag       `json:"tag"`
	// Seed is set for EntrySeed and EntryDeepLockedSeed.
	Seed *SeedInfo `json:"seed_info,omitempty"`
}

// KeyPairHandle identifies a keystore-resident keypair by tag. Only the
// public half is known to this process.
type KeyPairHandle struct {
	Tag  Tag
	Info SeedInfo
}

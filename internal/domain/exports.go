package domain

import (
	interfaces "zomesigner/internal/domain/interfaces"
	types "zomesigner/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	Tag                 = types.Tag
	Fingerprint         = types.Fingerprint
	ImportedKeyIdentity = types.ImportedKeyIdentity
	UnsignedCall        = types.UnsignedCall
	SignedCall          = types.SignedCall
	EntryKind           = types.EntryKind
	SeedInfo            = types.SeedInfo
	EntryInfo           = types.EntryInfo
	KeyPairHandle       = types.KeyPairHandle
	Ed25519Public       = types.Ed25519Public
	X25519Public        = types.X25519Public
	Signature           = types.Signature
	BoxNonce            = types.BoxNonce
	Nonce256            = types.Nonce256
	CapSecret           = types.CapSecret
)

// Entry kinds.
const (
	EntrySeed           = types.EntrySeed
	EntryDeepLockedSeed = types.EntryDeepLockedSeed
	EntryWkaTLSCert     = types.EntryWkaTLSCert
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	Keystore       = interfaces.Keystore
	KeystoreClient = interfaces.KeystoreClient
	CallSigner     = interfaces.CallSigner
	SeedImporter   = interfaces.SeedImporter
)

// Constructors for fixed-length key material.
var (
	Ed25519PublicFromBytes = types.Ed25519PublicFromBytes
	X25519PublicFromBytes  = types.X25519PublicFromBytes
	SignatureFromBytes     = types.SignatureFromBytes
	BoxNonceFromBytes      = types.BoxNonceFromBytes
)

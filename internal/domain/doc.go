// Package domain holds the zome call, seed and keystore entry types shared by
// the signer, the importer and the keystore adapters, together with the
// keystore contracts they are written against. Plain types live in
// domain/types and contracts in domain/interfaces; this package re-exports
// both.
package domain

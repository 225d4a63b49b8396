// Package importer moves seeds from locked bundles into the keystore.
//
// The keystore only imports seeds boxed between two keys it holds, so the
// importer keeps two reserved non-exportable seeds, import-encryption-key
// and import-decryption-key, creating them on first use. The unlocked seed
// is boxed by the keystore from one to the other and then imported under
// the caller's tag. Only the public identity of the result is returned.
package importer

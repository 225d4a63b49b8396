// Package signer signs zome calls with keys held by the keystore.
//
// It validates the call, derives the signable bytes, asks the keystore to
// sign them with the provenance key and returns the signed call. It also
// verifies signed calls without the keystore.
package signer

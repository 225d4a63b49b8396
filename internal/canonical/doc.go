// Package canonical turns an unsigned zome call into the bytes the keystore
// signs.
//
// A call is first parsed into a Call, which checks every fixed-length field
// and the integrity suffix of the hash identifiers. The signable bytes are
// the BLAKE2b-256 digest of the call's msgpack map encoding, with keys in a
// fixed order and byte fields written as msgpack bin. Any change to a field
// changes the encoding, so two distinct calls never share signable bytes.
package canonical

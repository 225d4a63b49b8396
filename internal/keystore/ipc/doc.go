// Package ipc carries keystore primitives over JSON-RPC 2.0 with
// Content-Length framing, on a unix socket or a TCP connection.
//
// A connection must call "connect" with the keystore passphrase before any
// other method is served. Errors use the codes below; a missing entry is
// CodeEntryNotFound and a rejected passphrase is CodeAuthFailed.
package ipc

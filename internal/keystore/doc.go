// Package keystore holds the session to the keystore process.
//
// A Session moves through Disconnected, Connecting, Connected and Failed.
// Only a Connected session forwards primitives; in any other state they
// return *errortypes.NotConnectedError. A session fails when its channel
// reports domain.ErrChannelClosed and must then be reconnected explicitly
// with a fresh passphrase. Nothing here retries.
package keystore

// Package app wires application dependencies for the CLI and the
// development keystore.
//
// It loads Config, builds the keystore session and the signer and importer
// services on top of it, and exposes them via the Wire struct for commands
// to use.
package app

// Package commands defines the zomesigner CLI and wires dependencies for
// subcommands.
//
// Commands
//
//   - sign          Sign an unsigned zome call (JSON) with the keystore
//   - verify        Check the signature of a signed zome call
//   - import-seed   Import a locked seed bundle into the keystore
//   - lock-seed     Generate a seed and print it as a locked bundle
//   - fingerprint   Print the short fingerprint of an agent key
//
// # Implementation
//
// The root command loads the YAML config, applies flag and environment
// overrides, configures logging and builds the dependency graph before any
// subcommand runs. Commands that need the keystore connect on demand with
// the keystore passphrase taken from -p or ZOMESIGNER_PASSPHRASE, and
// disconnect when done.
package commands

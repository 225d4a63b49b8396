// Package main runs the in-memory development keystore used by zomesigner
// during development and tests. It serves the keystore primitives over
// JSON-RPC on the configured keystore address and Prometheus metrics over
// HTTP.
//
// JSON-RPC methods
//
//	connect          {passphrase}
//	get_entry        {tag}
//	new_seed         {tag, exportable}
//	sign_by_pub_key  {pub_key, data}
//	crypto_box       {sender_pub_key, recipient_pub_key, data}
//	import_seed      {sender_pub_key, recipient_pub_key, nonce, cipher, tag, exportable}
//
// HTTP API
//
//	GET /metrics
//	    Prometheus text exposition of the zomesigner collectors.
//
// Behaviour
//
//   - All seeds are held in protected memory and lost on process exit.
//   - Every connection must call connect with the keystore passphrase first.
//   - A stale unix socket file at the listen path is removed on start.
//   - An access log records method, path, status and duration for each
//     metrics request.
//
// This keystore is intended for local use only. It does not persist
// anything and is not a substitute for a real keystore process.
package main

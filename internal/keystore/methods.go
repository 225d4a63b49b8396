package keystore

// Keystore process method names. They double as metric labels.
const (
	MethodConnect      = "connect"
	MethodGetEntry     = "get_entry"
	MethodNewSeed      = "new_seed"
	MethodSignByPubKey = "sign_by_pub_key"
	MethodCryptoBox    = "crypto_box"
	MethodImportSeed   = "import_seed"
)

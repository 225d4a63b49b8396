package types

// Tag names an entry inside the keystore.
type Tag string

// String returns the string form of the tag.
func (t Tag) String() string { return string(t) }

// Fingerprint is a short identifier for public keys presented to users and logs.
type Fingerprint string

// String returns the string form of the fingerprint.
func (f Fingerprint) String() string { return string(f) }

// ImportedKeyIdentity is the agent identity string of a seed after import.
type ImportedKeyIdentity string

// String returns the string form of the identity.
func (i ImportedKeyIdentity) String() string { return string(i) }

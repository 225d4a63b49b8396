package types

// UnsignedCall is a zome call awaiting a signature, in the raw shape the
// caller hands over. Byte fields are validated by the canonicalizer.
type UnsignedCall struct {
	// CellID holds the DNA hash and the agent public key, 39 bytes each.
	CellID     [][]byte `json:"cellId"`
	ZomeName   string   `json:"zomeName"`
	FnName     string   `json:"fnName"`
	Payload    []byte   `json:"payload"`
	CapSecret  []byte   `json:"capSecret,omitempty"`
	Provenance []byte   `json:"provenance"`
	Nonce      []byte   `json:"nonce"`
	// ExpiresAt is microseconds since the UNIX epoch.
	ExpiresAt int64 `json:"expiresAt"`
}

// SignedCall is an UnsignedCall plus the keystore signature over its
// canonical bytes.
type SignedCall struct {
	CellID     [][]byte `json:"cellId"`
	ZomeName   string   `json:"zomeName"`
	FnName     string   `json:"fnName"`
	Payload    []byte   `json:"payload"`
	CapSecret  []byte   `json:"capSecret,omitempty"`
	Provenance []byte   `json:"provenance"`
	Nonce      []byte   `json:"nonce"`
	ExpiresAt  int64    `json:"expiresAt"`
	Signature  []byte   `json:"signature"`
}

// Unsigned strips the signature.
func (c SignedCall) Unsigned() UnsignedCall {
	return UnsignedCall{
		CellID:     c.CellID,
		ZomeName:   c.ZomeName,
		FnName:     c.FnName,
		Payload:    c.Payload,
		CapSecret:  c.CapSecret,
		Provenance: c.Provenance,
		Nonce:      c.Nonce,
		ExpiresAt:  c.ExpiresAt,
	}
}

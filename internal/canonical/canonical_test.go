package canonical_test

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/pkg/errors"

	"zomesigner/internal/canonical"
	"zomesigner/internal/domain"
	"zomesigner/internal/errortypes"
	"zomesigner/internal/holohash"
)

func fill(n int, b byte) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = b
	}
	return out
}

func testCall() domain.UnsignedCall {
	var dnaCore, agentCore [32]byte
	copy(dnaCore[:], fill(32, 1))
	copy(agentCore[:], fill(32, 2))
	agent := holohash.AgentPubKeyFromRaw32(agentCore)
	return domain.UnsignedCall{
		CellID:     [][]byte{holohash.DnaHashFromRaw32(dnaCore).Bytes(), agent.Bytes()},
		ZomeName:   "profiles",
		FnName:     "create_profile",
		Payload:    []byte{0x91, 0x01},
		CapSecret:  fill(64, 3),
		Provenance: agent.Bytes(),
		Nonce:      fill(32, 4),
		ExpiresAt:  1_700_000_000_000_000,
	}
}

func mustSign(t *testing.T, u domain.UnsignedCall) []byte {
	t.Helper()
	data, err := canonical.DataToSign(u)
	if err != nil {
		t.Fatalf("DataToSign: %v", err)
	}
	return data
}

func TestDataToSignDeterministic(t *testing.T) {
	a := mustSign(t, testCall())
	b := mustSign(t, testCall())
	if len(a) != 32 {
		t.Fatalf("want 32 bytes, got %d", len(a))
	}
	if !bytes.Equal(a, b) {
		t.Fatal("same call produced different bytes")
	}
}

func TestDataToSignFieldMutations(t *testing.T) {
	var otherAgent [32]byte
	copy(otherAgent[:], fill(32, 9))
	otherKey := holohash.AgentPubKeyFromRaw32(otherAgent).Bytes()

	mutations := map[string]func(*domain.UnsignedCall){
		"dna": func(u *domain.UnsignedCall) {
			var core [32]byte
			copy(core[:], fill(32, 8))
			u.CellID[0] = holohash.DnaHashFromRaw32(core).Bytes()
		},
		"agent":      func(u *domain.UnsignedCall) { u.CellID[1] = otherKey },
		"zome":       func(u *domain.UnsignedCall) { u.ZomeName = "profilez" },
		"fn":         func(u *domain.UnsignedCall) { u.FnName = "create_profilf" },
		"payload":    func(u *domain.UnsignedCall) { u.Payload = []byte{0x91, 0x02} },
		"cap secret": func(u *domain.UnsignedCall) { u.CapSecret[63] ^= 1 },
		"no cap":     func(u *domain.UnsignedCall) { u.CapSecret = nil },
		"provenance": func(u *domain.UnsignedCall) { u.Provenance = otherKey },
		"nonce":      func(u *domain.UnsignedCall) { u.Nonce[0] ^= 1 },
		"expires":    func(u *domain.UnsignedCall) { u.ExpiresAt++ },
		"zome/fn split": func(u *domain.UnsignedCall) {
			u.ZomeName, u.FnName = "profilescreate", "_profile"
		},
	}

	base := mustSign(t, testCall())
	seen := map[string]string{string(base): "base"}
	for name, mutate := range mutations {
		u := testCall()
		mutate(&u)
		got := mustSign(t, u)
		if prev, ok := seen[string(got)]; ok {
			t.Fatalf("mutation %q collides with %q", name, prev)
		}
		seen[string(got)] = name
	}
}

func TestEmptyPayloadNormalized(t *testing.T) {
	a := testCall()
	a.Payload = nil
	b := testCall()
	b.Payload = []byte{}
	if !bytes.Equal(mustSign(t, a), mustSign(t, b)) {
		t.Fatal("nil and empty payload encode differently")
	}
}

func TestEncodeKeyOrder(t *testing.T) {
	c, err := canonical.Parse(testCall())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	enc, err := c.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	// fixmap of 8 entries, then fixstr "provenance"
	if enc[0] != 0x88 || enc[1] != 0xaa || string(enc[2:12]) != "provenance" {
		t.Fatalf("unexpected encoding prefix %x", enc[:12])
	}
	// bin8 of 39 bytes
	if enc[12] != 0xc4 || enc[13] != 39 {
		t.Fatalf("provenance not encoded as bin: %x", enc[12:14])
	}
	order := []string{"provenance", "cell_id", "zome_name", "fn_name", "cap_secret", "payload", "nonce", "expires_at"}
	last := -1
	for _, key := range order {
		i := bytes.Index(enc, []byte(key))
		if i <= last {
			t.Fatalf("key %q out of order", key)
		}
		last = i
	}
}

func TestParseRejects(t *testing.T) {
	cases := map[string]struct {
		mutate  func(*domain.UnsignedCall)
		keyKind bool
	}{
		"one hash":       {mutate: func(u *domain.UnsignedCall) { u.CellID = u.CellID[:1] }},
		"three hashes":   {mutate: func(u *domain.UnsignedCall) { u.CellID = append(u.CellID, u.CellID[0]) }},
		"swapped cell":   {mutate: func(u *domain.UnsignedCall) { u.CellID[0], u.CellID[1] = u.CellID[1], u.CellID[0] }},
		"short dna":      {mutate: func(u *domain.UnsignedCall) { u.CellID[0] = u.CellID[0][:38] }},
		"short nonce":    {mutate: func(u *domain.UnsignedCall) { u.Nonce = u.Nonce[:31] }},
		"long cap":       {mutate: func(u *domain.UnsignedCall) { u.CapSecret = fill(65, 3) }},
		"empty cap":      {mutate: func(u *domain.UnsignedCall) { u.CapSecret = []byte{} }},
		"raw provenance": {mutate: func(u *domain.UnsignedCall) { u.Provenance = fill(32, 2) }, keyKind: true},
		"bad location": {
			mutate:  func(u *domain.UnsignedCall) { u.Provenance[38] ^= 0xff },
			keyKind: true,
		},
	}
	for name, tc := range cases {
		u := testCall()
		tc.mutate(&u)
		_, err := canonical.DataToSign(u)
		if err == nil {
			t.Fatalf("%s: expected error", name)
		}
		var callErr *errortypes.MalformedCallError
		var keyErr *errortypes.MalformedKeyError
		if tc.keyKind && !errors.As(err, &keyErr) {
			t.Fatalf("%s: want MalformedKeyError, got %T", name, err)
		}
		if !tc.keyKind && !errors.As(err, &callErr) {
			t.Fatalf("%s: want MalformedCallError, got %T", name, err)
		}
	}
}

func TestSigningKey(t *testing.T) {
	c, err := canonical.Parse(testCall())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	key := c.SigningKey()
	if !bytes.Equal(key[:], fill(32, 2)) {
		t.Fatal("signing key is not the provenance core")
	}
}

func fixstr(s string) []byte { return append([]byte{0xa0 | byte(len(s))}, s...) }

func bin8(b []byte) []byte { return append([]byte{0xc4, byte(len(b))}, b...) }

func goldenEncoding(capSecret []byte) []byte {
	dna, _ := hex.DecodeString("842d24" + "0101010101010101010101010101010101010101010101010101010101010101" + "7ecfcebe")
	agent, _ := hex.DecodeString("842024" + "0202020202020202020202020202020202020202020202020202020202020202" + "20493dfd")

	var out []byte
	out = append(out, 0x88)
	out = append(append(out, fixstr("provenance")...), bin8(agent)...)
	out = append(append(append(out, fixstr("cell_id")...), 0x92), append(bin8(dna), bin8(agent)...)...)
	out = append(append(out, fixstr("zome_name")...), fixstr("profiles")...)
	out = append(append(out, fixstr("fn_name")...), fixstr("create_profile")...)
	out = append(out, fixstr("cap_secret")...)
	if capSecret == nil {
		out = append(out, 0xc0)
	} else {
		out = append(out, bin8(capSecret)...)
	}
	out = append(append(out, fixstr("payload")...), bin8([]byte{0x91, 0x01})...)
	out = append(append(out, fixstr("nonce")...), bin8(fill(32, 4))...)
	out = append(append(out, fixstr("expires_at")...), 0xcf, 0x00, 0x06, 0x0a, 0x24, 0x18, 0x1e, 0x40, 0x00)
	return out
}

func TestEncodeGoldenBytes(t *testing.T) {
	c, err := canonical.Parse(testCall())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	enc, err := c.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if want := goldenEncoding(fill(64, 3)); !bytes.Equal(enc, want) {
		t.Fatalf("encoding mismatch\n got %x\nwant %x", enc, want)
	}

	const wantDigest = "48f8d56b32d70fb349f9c133eed29653a55503670059e749b0a28c6b1d365240"
	if got := hex.EncodeToString(mustSign(t, testCall())); got != wantDigest {
		t.Fatalf("DataToSign = %s, want %s", got, wantDigest)
	}
}

func TestEncodeAbsentCapSecretIsNil(t *testing.T) {
	u := testCall()
	u.CapSecret = nil
	c, err := canonical.Parse(u)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	enc, err := c.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if want := goldenEncoding(nil); !bytes.Equal(enc, want) {
		t.Fatalf("encoding mismatch\n got %x\nwant %x", enc, want)
	}
}

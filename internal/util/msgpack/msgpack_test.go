package msgpack

import (
	"bytes"
	"testing"
)

func TestEncodeDistinguishesStrAndBin(t *testing.T) {
	enc, err := Encode([]interface{}{"ab", []byte("ab")})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	// fixarray(2), fixstr "ab", bin8 len 2 "ab"
	want := []byte{0x92, 0xa2, 'a', 'b', 0xc4, 0x02, 'a', 'b'}
	if !bytes.Equal(enc, want) {
		t.Fatalf("got %x, want %x", enc, want)
	}

	var out []interface{}
	if err := Decode(enc, &out); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if s, ok := out[0].(string); !ok || s != "ab" {
		t.Fatalf("str decoded as %T", out[0])
	}
	if b, ok := out[1].([]byte); !ok || string(b) != "ab" {
		t.Fatalf("bin decoded as %T", out[1])
	}
}

func TestEncodePositiveIntsUnsigned(t *testing.T) {
	cases := []struct {
		in   int64
		want []byte
	}{
		{5, []byte{0x05}},
		{200, []byte{0xcc, 0xc8}},
		{-1, []byte{0xff}},
		{1_700_000_000_000_000, []byte{0xcf, 0x00, 0x06, 0x0a, 0x24, 0x18, 0x1e, 0x40, 0x00}},
	}
	for _, tc := range cases {
		enc, err := Encode(tc.in)
		if err != nil {
			t.Fatalf("Encode(%d): %v", tc.in, err)
		}
		if !bytes.Equal(enc, tc.want) {
			t.Fatalf("Encode(%d) = %x, want %x", tc.in, enc, tc.want)
		}
	}
}

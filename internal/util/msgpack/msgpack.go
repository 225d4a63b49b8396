// Package msgpack holds the msgpack handle shared by the call encoder and
// the seed bundle envelope.
package msgpack

import (
	"bytes"

	"github.com/ugorji/go/codec"
)

var handle = newHandle()

// newHandle writes str and bin as distinct types and non-negative integers
// in the unsigned families, matching rmp_serde.
func newHandle() *codec.MsgpackHandle {
	h := new(codec.MsgpackHandle)
	h.WriteExt = true
	h.PositiveIntUnsigned = true
	return h
}

// Encode writes in to a new byte slice. Strings are written as msgpack str,
// byte slices as msgpack bin and non-negative integers as the smallest uint.
func Encode(in interface{}) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := codec.NewEncoder(buf, handle).Encode(in); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reverses Encode. Decoding into an interface{} yields string for
// str, []byte for bin and uint64 or int64 for integers.
func Decode(b []byte, out interface{}) error {
	return codec.NewDecoderBytes(b, handle).Decode(out)
}

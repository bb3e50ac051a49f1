// Package wire serializes codec wire values to bytes.
//
// Wire values are the trees produced by Codec.Encode: nil, bool, int64,
// float64, string, []any and map[string]any. JSON goes through
// goccy/go-json; CBOR uses Core Deterministic Encoding (RFC 8949 §4.2), so
// equal wire values always produce identical bytes.
package wire

import (
	"bytes"
	"errors"
	"reflect"

	"github.com/fxamacker/cbor/v2"
	json "github.com/goccy/go-json"
)

// ErrTrailingData reports bytes left after the first value.
var ErrTrailingData = errors.New("wire: data after top-level value")

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("wire: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{
		// Wire maps always have string keys.
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
		DupMapKey:      cbor.DupMapKeyEnforcedAPF,
		IntDec:         cbor.IntDecConvertSigned,
	}.DecMode()
	if err != nil {
		panic("wire: CBOR decoder initialization failed: " + err.Error())
	}
}

// MarshalJSON serializes a wire value as JSON.
func MarshalJSON(v any) ([]byte, error) { return json.Marshal(v) }

// UnmarshalJSON parses one JSON value. Numbers are kept as json.Number so
// integers beyond 2^53 survive. Duplicate keys are not detected here; use
// jadn.ParseWire for strict parsing.
func UnmarshalJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, ErrTrailingData
	}
	return v, nil
}

// MarshalCBOR serializes a wire value as deterministic CBOR.
func MarshalCBOR(v any) ([]byte, error) { return encMode.Marshal(v) }

// UnmarshalCBOR parses one CBOR data item. Duplicate map keys are rejected
// and integers decode as int64.
func UnmarshalCBOR(data []byte) (any, error) {
	var v any
	rest, err := decMode.UnmarshalFirst(data, &v)
	if err != nil {
		return nil, err
	}
	if len(rest) > 0 {
		return nil, ErrTrailingData
	}
	return v, nil
}

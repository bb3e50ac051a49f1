package format

import (
	"encoding/base64"
	"encoding/hex"
	"strings"
)

// Hex is the "x" format: Binary carried as uppercase Base16. Decoding accepts
// either case.
func Hex() Format {
	return binaryFormat("x",
		func([]byte) error { return nil },
		func(b []byte) string { return strings.ToUpper(hex.EncodeToString(b)) },
		func(s string) ([]byte, error) {
			b, err := hex.DecodeString(s)
			if err != nil {
				return nil, invalidf("x", "%v", err)
			}
			return b, nil
		})
}

// Base64URL is the transcoding of Binary values that carry no format:
// unpadded Base64url. Decoding also accepts padded input but rejects
// non-zero trailing bits, so each value has one accepted unpadded form.
func Base64URL() Format {
	return binaryFormat("",
		func([]byte) error { return nil },
		base64.RawURLEncoding.EncodeToString,
		func(s string) ([]byte, error) {
			b, err := base64.RawURLEncoding.Strict().DecodeString(strings.TrimRight(s, "="))
			if err != nil {
				return nil, invalidf("base64url", "%v", err)
			}
			return b, nil
		})
}

package format

import (
	"encoding/hex"
	"net/netip"
	"strconv"
	"strings"
)

// IPv4Addr carries a 4-byte Binary value as a dotted quad. Decoding accepts
// zero-padded octets.
func IPv4Addr() Format {
	return binaryFormat("ipv4-addr", addrLen("ipv4-addr", 4), formatIPv4, func(s string) ([]byte, error) {
		return parseIPv4("ipv4-addr", s)
	})
}

// IPv6Addr carries a 16-byte Binary value as canonical RFC 5952 text.
// Decoding accepts any RFC 4291 text form in either case.
func IPv6Addr() Format {
	return binaryFormat("ipv6-addr", addrLen("ipv6-addr", 16), formatIPv6, func(s string) ([]byte, error) {
		return parseIPv6("ipv6-addr", s)
	})
}

// IPv4Net carries [address bytes, prefix length] as "a.b.c.d/p".
func IPv4Net() Format { return netFormat("ipv4-net", 4, formatIPv4, parseIPv4) }

// IPv6Net carries [address bytes, prefix length] as "addr/p".
func IPv6Net() Format { return netFormat("ipv6-net", 16, formatIPv6, parseIPv6) }

// EUI carries a MAC address (EUI-48 or EUI-64) as unseparated uppercase hex.
// Decoding also accepts '-' or ':' separated groups.
func EUI() Format {
	check := func(b []byte) error {
		if len(b) != 6 && len(b) != 8 {
			return invalidf("eui", "need 6 or 8 bytes, got %d", len(b))
		}
		return nil
	}
	return binaryFormat("eui", check,
		func(b []byte) string { return strings.ToUpper(hex.EncodeToString(b)) },
		func(s string) ([]byte, error) {
			s = strings.NewReplacer("-", "", ":", "").Replace(s)
			b, err := hex.DecodeString(s)
			if err != nil {
				return nil, invalidf("eui", "%v", err)
			}
			return b, nil
		})
}

func addrLen(name string, n int) func([]byte) error {
	return func(b []byte) error {
		if len(b) != n {
			return invalidf(name, "need %d bytes, got %d", n, len(b))
		}
		return nil
	}
}

func formatIPv4(b []byte) string { return netip.AddrFrom4([4]byte(b)).String() }

func formatIPv6(b []byte) string { return netip.AddrFrom16([16]byte(b)).String() }

func parseIPv4(name, s string) ([]byte, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return nil, invalidf(name, "%q is not a dotted quad", s)
	}
	out := make([]byte, 4)
	for i, p := range parts {
		if len(p) == 0 || len(p) > 3 || strings.Trim(p, "0123456789") != "" {
			return nil, invalidf(name, "bad octet %q", p)
		}
		n, _ := strconv.Atoi(p)
		if n > 255 {
			return nil, invalidf(name, "octet %d out of range", n)
		}
		out[i] = byte(n)
	}
	return out, nil
}

func parseIPv6(name, s string) ([]byte, error) {
	if strings.ContainsAny(s, "/%") {
		return nil, invalidf(name, "%q carries a prefix or zone", s)
	}
	a, err := netip.ParseAddr(s)
	if err != nil || !a.Is6() {
		return nil, invalidf(name, "%q is not an IPv6 address", s)
	}
	b := a.As16()
	return b[:], nil
}

func netFormat(name string, size int, enc func([]byte) string, dec func(string, string) ([]byte, error)) Format {
	bits := int64(size * 8)
	split := func(v any) ([]byte, int64, error) {
		arr, ok := v.([]any)
		if !ok || len(arr) != 2 {
			return nil, 0, invalidf(name, "expected [address, prefix], got %T", v)
		}
		b, ok := arr[0].([]byte)
		if !ok || len(b) != size {
			return nil, 0, invalidf(name, "address must be %d bytes", size)
		}
		p, ok := ToInt64(arr[1])
		if !ok {
			return nil, 0, invalidf(name, "prefix must be an integer, got %T", arr[1])
		}
		if p < 0 || p > bits {
			return nil, 0, rangef(name, "prefix %d outside 0..%d", p, bits)
		}
		return b, p, nil
	}
	return Format{
		Name: name,
		Base: Array,
		Validate: func(v any) error {
			_, _, err := split(v)
			return err
		},
		Encode: func(v any) (any, error) {
			b, p, err := split(v)
			if err != nil {
				return nil, err
			}
			return enc(b) + "/" + strconv.FormatInt(p, 10), nil
		},
		Decode: func(w any) (any, error) {
			s, ok := w.(string)
			if !ok {
				return nil, invalidf(name, "expected string, got %T", w)
			}
			addr, prefix, found := strings.Cut(s, "/")
			if !found || prefix == "" || len(prefix) > 3 || strings.Trim(prefix, "0123456789") != "" {
				return nil, invalidf(name, "%q has no numeric prefix", s)
			}
			b, err := dec(name, addr)
			if err != nil {
				return nil, err
			}
			p, _ := strconv.ParseInt(prefix, 10, 64)
			if p > bits {
				return nil, rangef(name, "prefix %d outside 0..%d", p, bits)
			}
			return []any{b, p}, nil
		},
	}
}

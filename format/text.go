package format

import (
	"net/netip"
	"regexp"
	"strings"

	"golang.org/x/net/idna"
)

const hostnameMaxLength = 253

var (
	hostLabel    = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9-]{0,61}[A-Za-z0-9])?$`)
	emailLocal   = regexp.MustCompile("^[A-Za-z0-9!#$%&'*+/=?^_`{|}~-]+(\\.[A-Za-z0-9!#$%&'*+/=?^_`{|}~-]+)*$")
	uriScheme    = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*$`)
	uriChars     = regexp.MustCompile(`^([A-Za-z0-9\-._~:/?#\[\]@!$&'()*+,;=]|%[0-9A-Fa-f]{2})*$`)
	uriPort      = regexp.MustCompile(`^[0-9]*$`)
	ipFuture     = regexp.MustCompile(`^[vV][0-9A-Fa-f]+\.[A-Za-z0-9\-._~!$&'()*+,;=:]+$`)
	relPointerRe = regexp.MustCompile(`^(0|[1-9][0-9]*)(#|(/([^~/]|~[01])*)*)$`)
)

// Hostname validates RFC 1034 host names: dot-separated labels of letters,
// digits and hyphens, 1-63 characters, not starting or ending with a hyphen.
func Hostname() Format { return stringFormat("hostname", checkHostname) }

// IDNHostname validates internationalized host names (RFC 5890).
func IDNHostname() Format {
	return stringFormat("idn-hostname", func(s string) error {
		ascii, err := idna.Lookup.ToASCII(s)
		if err != nil {
			return invalidf("idn-hostname", "%v", err)
		}
		if err := checkHostname(ascii); err != nil {
			return invalidf("idn-hostname", "%q is not a host name", s)
		}
		return nil
	})
}

// Email validates an RFC 5322 addr-spec with a host name domain.
func Email() Format {
	return stringFormat("email", func(s string) error {
		local, domain, err := splitEmail("email", s)
		if err != nil {
			return err
		}
		if !emailLocal.MatchString(local) {
			return invalidf("email", "bad local part %q", local)
		}
		if checkHostname(domain) != nil {
			return invalidf("email", "bad domain %q", domain)
		}
		return nil
	})
}

// IDNEmail validates an RFC 6531 address: UTF-8 local part, IDN domain.
func IDNEmail() Format {
	return stringFormat("idn-email", func(s string) error {
		local, domain, err := splitEmail("idn-email", s)
		if err != nil {
			return err
		}
		if strings.ContainsAny(local, " \t\r\n\"(),:;<>[\\]") {
			return invalidf("idn-email", "bad local part %q", local)
		}
		ascii, err := idna.Lookup.ToASCII(domain)
		if err != nil || checkHostname(ascii) != nil {
			return invalidf("idn-email", "bad domain %q", domain)
		}
		return nil
	})
}

// URI validates an absolute RFC 3986 URI: a scheme is required.
func URI() Format {
	return stringFormat("uri", func(s string) error { return checkURI("uri", s, true) })
}

// URIReference validates an RFC 3986 URI or relative reference.
func URIReference() Format {
	return stringFormat("uri-reference", func(s string) error { return checkURI("uri-reference", s, false) })
}

// JSONPointer validates an RFC 6901 JSON Pointer.
func JSONPointer() Format {
	return stringFormat("json-pointer", func(s string) error {
		if !validPointer(s) {
			return invalidf("json-pointer", "%q is not a JSON pointer", s)
		}
		return nil
	})
}

// RelativeJSONPointer validates a relative JSON pointer.
func RelativeJSONPointer() Format {
	return stringFormat("relative-json-pointer", func(s string) error {
		if !relPointerRe.MatchString(s) {
			return invalidf("relative-json-pointer", "%q is not a relative JSON pointer", s)
		}
		return nil
	})
}

// Regex validates that the value compiles as a regular expression.
func Regex() Format {
	return stringFormat("regex", func(s string) error {
		if _, err := regexp.Compile(s); err != nil {
			return invalidf("regex", "%v", err)
		}
		return nil
	})
}

func checkHostname(s string) error {
	if len(s) < 1 || len(s) > hostnameMaxLength {
		return invalidf("hostname", "length %d outside 1..%d", len(s), hostnameMaxLength)
	}
	// No trailing root dot: it would leave an empty last label.
	for _, label := range strings.Split(s, ".") {
		if !hostLabel.MatchString(label) {
			return invalidf("hostname", "bad label %q", label)
		}
	}
	return nil
}

func splitEmail(name, s string) (string, string, error) {
	if strings.Count(s, "@") != 1 {
		return "", "", invalidf(name, "%q must contain exactly one '@'", s)
	}
	local, domain, _ := strings.Cut(s, "@")
	if local == "" || domain == "" {
		return "", "", invalidf(name, "%q has an empty local part or domain", s)
	}
	return local, domain, nil
}

func validPointer(s string) bool {
	if s == "" {
		return true
	}
	if s[0] != '/' {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] == '~' && (i+1 >= len(s) || (s[i+1] != '0' && s[i+1] != '1')) {
			return false
		}
	}
	return true
}

// checkURI applies the RFC 3986 generic syntax: character repertoire,
// scheme, authority (IP literal, port) and the placement of '[' ']' and '#'.
func checkURI(name, s string, requireScheme bool) error {
	if !uriChars.MatchString(s) {
		return invalidf(name, "%q contains characters not allowed in a URI", s)
	}
	rest := s
	if i := strings.IndexAny(s, ":/?#"); i >= 0 && s[i] == ':' {
		if !uriScheme.MatchString(s[:i]) {
			return invalidf(name, "bad scheme %q", s[:i])
		}
		rest = s[i+1:]
	} else if requireScheme {
		return invalidf(name, "%q has no scheme", s)
	}
	if strings.Count(rest, "#") > 1 {
		return invalidf(name, "%q has more than one '#'", s)
	}
	hier, _, _ := strings.Cut(rest, "#")
	hier, _, _ = strings.Cut(hier, "?")
	if auth, ok := strings.CutPrefix(hier, "//"); ok {
		end := strings.IndexByte(auth, '/')
		if end < 0 {
			end = len(auth)
		}
		if err := checkAuthority(name, auth[:end]); err != nil {
			return err
		}
		hier = auth[end:]
	}
	if strings.ContainsAny(hier, "[]") {
		return invalidf(name, "'[' or ']' outside the host")
	}
	return nil
}

func checkAuthority(name, auth string) error {
	if i := strings.LastIndexByte(auth, '@'); i >= 0 {
		if strings.ContainsAny(auth[:i], "[]") {
			return invalidf(name, "bad userinfo %q", auth[:i])
		}
		auth = auth[i+1:]
	}
	host, port := auth, ""
	if strings.HasPrefix(auth, "[") {
		end := strings.IndexByte(auth, ']')
		if end < 0 {
			return invalidf(name, "unterminated IP literal %q", auth)
		}
		lit := auth[1:end]
		if a, err := netip.ParseAddr(lit); (err != nil || !a.Is6() || a.Zone() != "") && !ipFuture.MatchString(lit) {
			return invalidf(name, "bad IP literal %q", lit)
		}
		host, port = "", auth[end+1:]
		if port != "" && port[0] != ':' {
			return invalidf(name, "junk after IP literal %q", port)
		}
		port = strings.TrimPrefix(port, ":")
	} else if i := strings.LastIndexByte(auth, ':'); i >= 0 {
		host, port = auth[:i], auth[i+1:]
	}
	if strings.ContainsAny(host, "[]:") {
		return invalidf(name, "bad host %q", host)
	}
	if !uriPort.MatchString(port) {
		return invalidf(name, "bad port %q", port)
	}
	return nil
}

package jadn

import (
	"strconv"
	"strings"
)

// PathRef is the JSON Pointer of the value being encoded or decoded.
// Extending a PathRef never changes it.
type PathRef interface {
	Field(name string) PathRef
	Index(i int) PathRef
	Pointer() string
}

// RootPath returns the PathRef of the top-level value.
func RootPath() PathRef { return &pathRef{} }

type pathRef struct {
	parts []string
}

// Field appends a member name, escaped per RFC 6901.
func (p *pathRef) Field(name string) PathRef {
	if name == "" {
		return p
	}
	esc := strings.ReplaceAll(strings.ReplaceAll(name, "~", "~0"), "/", "~1")
	return p.with(esc)
}

func (p *pathRef) Index(i int) PathRef { return p.with(strconv.Itoa(i)) }

func (p *pathRef) with(part string) PathRef {
	parts := make([]string, len(p.parts), len(p.parts)+1)
	copy(parts, p.parts)
	return &pathRef{parts: append(parts, part)}
}

func (p *pathRef) Pointer() string {
	if len(p.parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(p.parts, "/")
}

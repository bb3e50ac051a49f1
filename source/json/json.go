// Package json adapts JSON decoders to the engine token stream.
package json

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"

	eng "github.com/reoring/jadn/internal/engine"
)

// NewReader wraps an io.Reader into an engine.TokenSource using encoding/json.
func NewReader(r io.Reader) eng.TokenSource {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return Tokens(dec.Token, dec.InputOffset)
}

// NewBytes wraps a byte slice into an engine.TokenSource using encoding/json.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }

// Tokens builds an engine.TokenSource from a decoder's Token method. next
// yields json.Delim, string, bool, json.Number, float64 or nil, as
// encoding/json does; offset may be nil when the decoder cannot report it.
func Tokens(next func() (json.Token, error), offset func() int64) eng.TokenSource {
	return &source{next: next, offset: offset, last: -1}
}

type source struct {
	next   func() (json.Token, error)
	offset func() int64
	// expectKey per open container; arrays are always false.
	expectKey []bool
	isObject  []bool
	last      int64
}

func (s *source) NextToken() (eng.Token, error) {
	tok, err := s.next()
	if err != nil {
		return eng.Token{}, err
	}
	if s.offset != nil {
		s.last = s.offset()
	}
	t := eng.Token{Offset: s.last}
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{', '[':
			obj := v == '{'
			s.isObject = append(s.isObject, obj)
			s.expectKey = append(s.expectKey, obj)
			t.Kind = eng.KindBeginArray
			if obj {
				t.Kind = eng.KindBeginObject
			}
			return t, nil
		default:
			t.Kind = eng.KindEndArray
			if v == '}' {
				t.Kind = eng.KindEndObject
			}
			if n := len(s.isObject); n > 0 {
				s.isObject, s.expectKey = s.isObject[:n-1], s.expectKey[:n-1]
			}
			s.consumed()
			return t, nil
		}
	case string:
		if n := len(s.isObject); n > 0 && s.isObject[n-1] && s.expectKey[n-1] {
			s.expectKey[n-1] = false
			t.Kind, t.String = eng.KindKey, v
			return t, nil
		}
		t.Kind, t.String = eng.KindString, v
	case bool:
		t.Kind, t.Bool = eng.KindBool, v
	case json.Number:
		t.Kind, t.Number = eng.KindNumber, string(v)
	case float64:
		t.Kind, t.Number = eng.KindNumber, strconv.FormatFloat(v, 'g', -1, 64)
	default:
		t.Kind = eng.KindNull
	}
	s.consumed()
	return t, nil
}

// consumed marks the value of the enclosing object member as read.
func (s *source) consumed() {
	if n := len(s.isObject); n > 0 && s.isObject[n-1] {
		s.expectKey[n-1] = true
	}
}

func (s *source) Location() int64 { return s.last }

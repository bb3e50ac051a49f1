// Package gojson provides a JSON driver backed by goccy/go-json.
package gojson

import (
	"bytes"
	stdjson "encoding/json"
	"io"

	j "github.com/goccy/go-json"

	"github.com/reoring/jadn"
	eng "github.com/reoring/jadn/internal/engine"
	jsonsrc "github.com/reoring/jadn/source/json"
)

// Driver returns a jadn.JSONDriver backed by goccy/go-json.
func Driver() jadn.JSONDriver { return driver{} }

type driver struct{}

func (driver) NewReader(r io.Reader) jadn.Source {
	return jadn.SourceFromEngine(NewReader(r), jadn.NumberJSONNumber)
}
func (driver) NewBytes(b []byte) jadn.Source {
	return jadn.SourceFromEngine(NewBytes(b), jadn.NumberJSONNumber)
}
func (driver) Name() string { return "go-json" }

// NewReader wraps an io.Reader into an engine.TokenSource using go-json.
func NewReader(r io.Reader) eng.TokenSource {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	next := func() (stdjson.Token, error) {
		tok, err := dec.Token()
		switch v := tok.(type) {
		case j.Delim:
			return stdjson.Delim(v), err
		case j.Number:
			return stdjson.Number(v), err
		}
		return tok, err
	}
	return jsonsrc.Tokens(next, nil)
}

// NewBytes wraps a byte slice into an engine.TokenSource using go-json.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }

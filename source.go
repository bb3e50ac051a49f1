package jadn

import (
	"io"
	"sync/atomic"

	eng "github.com/reoring/jadn/internal/engine"
	jsonsrc "github.com/reoring/jadn/source/json"
)

// Token is one lexical element of a wire document. Offset is the byte
// position after the token, or -1.
type Token = eng.Token

// TokenKind tells which field of a Token carries its payload.
type TokenKind = eng.Kind

const (
	TokenBeginObject = eng.KindBeginObject
	TokenEndObject   = eng.KindEndObject
	TokenBeginArray  = eng.KindBeginArray
	TokenEndArray    = eng.KindEndArray
	TokenKey         = eng.KindKey
	TokenString      = eng.KindString
	TokenNumber      = eng.KindNumber
	TokenBool        = eng.KindBool
	TokenNull        = eng.KindNull
)

// Source is a stream of wire tokens read by ParseWire.
type Source interface {
	NextToken() (Token, error)
	Location() int64 // byte offset; -1 if unknown
	NumberMode() NumberMode
}

// JSONDriver turns JSON text into a Source. encoding/json backs the default
// driver; importing jadn/source installs the go-json one.
type JSONDriver interface {
	NewReader(r io.Reader) Source
	NewBytes(b []byte) Source
	Name() string
}

type driverSlot struct{ d JSONDriver }

var jsonDriver atomic.Value

func init() { jsonDriver.Store(driverSlot{d: stdDriver{}}) }

// SetJSONDriver installs d for JSONReader, JSONBytes and Codec.DecodeJSON.
// A nil driver is ignored.
func SetJSONDriver(d JSONDriver) {
	if d != nil {
		jsonDriver.Store(driverSlot{d: d})
	}
}

// UseDefaultJSONDriver reinstalls the encoding/json driver.
func UseDefaultJSONDriver() { SetJSONDriver(stdDriver{}) }

// JSONDriverName reports the installed driver.
func JSONDriverName() string { return currentDriver().Name() }

func currentDriver() JSONDriver { return jsonDriver.Load().(driverSlot).d }

type stdDriver struct{}

func (stdDriver) NewReader(r io.Reader) Source {
	return SourceFromEngine(jsonsrc.NewReader(r), NumberJSONNumber)
}

func (stdDriver) NewBytes(b []byte) Source {
	return SourceFromEngine(jsonsrc.NewBytes(b), NumberJSONNumber)
}

func (stdDriver) Name() string { return "encoding/json" }

// JSONReader reads JSON wire text from r with the installed driver.
func JSONReader(r io.Reader) Source { return currentDriver().NewReader(r) }

// JSONBytes reads JSON wire text from b with the installed driver.
func JSONBytes(b []byte) Source { return currentDriver().NewBytes(b) }

// SourceFromEngine attaches a NumberMode to a token stream.
func SourceFromEngine(tokens eng.TokenSource, mode NumberMode) Source {
	return numbered{TokenSource: tokens, mode: mode}
}

// WithNumberMode returns s reading numbers under m.
func WithNumberMode(s Source, m NumberMode) Source {
	if n, ok := s.(numbered); ok {
		return numbered{TokenSource: n.TokenSource, mode: m}
	}
	return numbered{TokenSource: s, mode: m}
}

type numbered struct {
	eng.TokenSource
	mode NumberMode
}

func (n numbered) NumberMode() NumberMode { return n.mode }

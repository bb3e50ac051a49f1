// Package engine turns JSON token streams into wire value trees.
package engine

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"
)

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

// Token represents a streaming token with approximate input offset.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
	Offset int64
}

// TokenSource is a minimal interface required by the engine.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

// ErrTrailingData reports input left after the top-level value.
var ErrTrailingData = errors.New("engine: data after top-level value")

// NumberFunc materializes a number literal.
type NumberFunc func(string) (any, error)

// JSONNumber keeps number literals as json.Number.
func JSONNumber(s string) (any, error) { return json.Number(s), nil }

// Float64 parses number literals as float64.
func Float64(s string) (any, error) { return strconv.ParseFloat(s, 64) }

// DecodeValue reads exactly one value from src. Objects become
// map[string]any and arrays non-nil []any; a second top-level value is an
// error.
func DecodeValue(src TokenSource, num NumberFunc) (any, error) {
	tok, err := src.NextToken()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	v, err := decodeValue(src, tok, num)
	if err != nil {
		return nil, err
	}
	if _, err := src.NextToken(); err != io.EOF {
		if err != nil {
			return nil, err
		}
		return nil, ErrTrailingData
	}
	return v, nil
}

func decodeValue(src TokenSource, tok Token, num NumberFunc) (any, error) {
	switch tok.Kind {
	case KindBeginObject:
		m := make(map[string]any)
		for {
			kt, err := src.NextToken()
			if err != nil {
				return nil, unexpected(err)
			}
			if kt.Kind == KindEndObject {
				return m, nil
			}
			if kt.Kind != KindKey {
				return nil, io.ErrUnexpectedEOF
			}
			vt, err := src.NextToken()
			if err != nil {
				return nil, unexpected(err)
			}
			v, err := decodeValue(src, vt, num)
			if err != nil {
				return nil, err
			}
			m[kt.String] = v
		}
	case KindBeginArray:
		arr := []any{}
		for {
			et, err := src.NextToken()
			if err != nil {
				return nil, unexpected(err)
			}
			if et.Kind == KindEndArray {
				return arr, nil
			}
			v, err := decodeValue(src, et, num)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
	case KindString:
		return tok.String, nil
	case KindNumber:
		return num(tok.Number)
	case KindBool:
		return tok.Bool, nil
	case KindNull:
		return nil, nil
	default:
		return nil, io.ErrUnexpectedEOF
	}
}

func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

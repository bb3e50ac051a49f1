package engine

import (
	"strconv"
	"strings"
)

// DuplicateStrictness controls duplicate key handling.
type DuplicateStrictness int

const (
	DupIgnore DuplicateStrictness = iota
	DupWarn
	DupError
)

// SimpleIssue is a minimal issue representation used by the engine.
type SimpleIssue struct {
	Code    string
	Path    string
	Message string
}

// IssueError is a lightweight error carrying a SimpleIssue.
type IssueError struct{ SimpleIssue }

func (e IssueError) Error() string { return e.SimpleIssue.Message }

// EnforceOptions controls runtime enforcement behavior.
type EnforceOptions struct {
	OnDuplicate DuplicateStrictness
	MaxDepth    int
	MaxBytes    int64
	// IssueSink receives non-fatal issues (duplicate keys under DupWarn).
	IssueSink func(SimpleIssue)
	// FailFast turns every issue into an error.
	FailFast bool
}

type frame struct {
	object     bool
	keys       map[string]struct{}
	path       string
	nextIndex  int
	pendingKey string
	haveKey    bool
}

// WrapWithEnforcement returns a TokenSource that enforces the duplicate key
// policy, the maximum nesting depth and the maximum consumed bytes, tracking
// the JSON Pointer of every token for issue paths.
func WrapWithEnforcement(inner TokenSource, opt EnforceOptions) TokenSource {
	return &enforcer{inner: inner, opt: opt}
}

type enforcer struct {
	inner TokenSource
	opt   EnforceOptions
	stack []frame
}

func (e *enforcer) Location() int64 { return e.inner.Location() }

func (e *enforcer) NextToken() (Token, error) {
	tok, err := e.inner.NextToken()
	if err != nil {
		return Token{}, err
	}
	path := e.pathFor(tok)
	switch tok.Kind {
	case KindBeginObject, KindBeginArray:
		obj := tok.Kind == KindBeginObject
		f := frame{object: obj, path: path}
		if obj {
			f.keys = make(map[string]struct{})
		}
		e.stack = append(e.stack, f)
		if e.opt.MaxDepth > 0 && len(e.stack) > e.opt.MaxDepth {
			return Token{}, e.fail(SimpleIssue{Code: "parse_error", Path: pointer(path), Message: "max depth exceeded"})
		}
	case KindEndObject, KindEndArray:
		if n := len(e.stack); n > 0 {
			e.stack = e.stack[:n-1]
		}
		e.valueDone()
	case KindKey:
		if err := e.key(tok.String, path); err != nil {
			return Token{}, err
		}
	default:
		e.valueDone()
	}
	if e.opt.MaxBytes > 0 {
		if off := e.Location(); off > e.opt.MaxBytes {
			return Token{}, e.fail(SimpleIssue{Code: "truncated", Path: pointer(path), Message: "max bytes exceeded"})
		}
	}
	return tok, nil
}

func (e *enforcer) key(k, path string) error {
	n := len(e.stack)
	if n == 0 || !e.stack[n-1].object {
		return nil
	}
	top := &e.stack[n-1]
	if _, dup := top.keys[k]; dup && e.opt.OnDuplicate != DupIgnore {
		si := SimpleIssue{Code: "duplicate_key", Path: pointer(path), Message: "key '" + k + "' duplicated"}
		if e.opt.OnDuplicate == DupError || e.opt.FailFast {
			return e.fail(si)
		}
		if e.opt.IssueSink != nil {
			e.opt.IssueSink(si)
		}
	}
	top.keys[k] = struct{}{}
	top.pendingKey, top.haveKey = k, true
	return nil
}

// valueDone marks the pending member of the enclosing object as consumed.
func (e *enforcer) valueDone() {
	if n := len(e.stack); n > 0 && e.stack[n-1].object {
		e.stack[n-1].haveKey = false
	}
}

func (e *enforcer) fail(si SimpleIssue) error {
	if e.opt.IssueSink != nil {
		e.opt.IssueSink(si)
	}
	return IssueError{si}
}

// pathFor returns the JSON Pointer of the value (or key) tok starts.
func (e *enforcer) pathFor(tok Token) string {
	n := len(e.stack)
	if n == 0 {
		return ""
	}
	top := &e.stack[n-1]
	switch tok.Kind {
	case KindKey:
		return joinPointer(top.path, tok.String)
	case KindEndObject, KindEndArray:
		return top.path
	}
	if !top.object {
		p := joinPointer(top.path, strconv.Itoa(top.nextIndex))
		top.nextIndex++
		return p
	}
	if top.haveKey {
		return joinPointer(top.path, top.pendingKey)
	}
	return top.path
}

func pointer(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func joinPointer(base, token string) string {
	return base + "/" + pointerEscaper.Replace(token)
}

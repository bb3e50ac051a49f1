package jadn

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	// Structure
	CodeInvalidType   = "invalid_type"
	CodeRequired      = "required"
	CodeUnknownKey    = "unknown_key"
	CodeDuplicateKey  = "duplicate_key"
	CodeArity         = "arity"
	CodeChoiceNone    = "choice_none"
	CodeChoiceMany    = "choice_many"
	CodeInvalidEnum   = "invalid_enum"
	CodeTagMismatch   = "tag_mismatch"
	CodeParseError    = "parse_error"
	CodeTruncated     = "truncated"
	CodeNotUnique     = "not_unique"
	CodeUnknownSchema = "unknown_type"
	// Constraint
	CodeTooSmall = "too_small"
	CodeTooBig   = "too_big"
	CodeTooShort = "too_short"
	CodeTooLong  = "too_long"
	CodeOverflow = "overflow"
	// Format
	CodeInvalidFormat = "invalid_format"
	CodePattern       = "pattern"
	// Schema
	CodeSchema        = "schema_error"
	CodeBadOption     = "bad_option"
	CodeUnresolved    = "unresolved_reference"
	CodeNameCollision = "name_collision"
)

// Kind groups issue codes into the error taxonomy.
type Kind int

const (
	KindStructure Kind = iota
	KindConstraint
	KindFormat
	KindSchema
)

func (k Kind) String() string {
	switch k {
	case KindConstraint:
		return "constraint"
	case KindFormat:
		return "format"
	case KindSchema:
		return "schema"
	default:
		return "structure"
	}
}

// KindOf classifies an issue code. Unknown codes are structural.
func KindOf(code string) Kind {
	switch code {
	case CodeTooSmall, CodeTooBig, CodeTooShort, CodeTooLong, CodeOverflow:
		return KindConstraint
	case CodeInvalidFormat, CodePattern:
		return KindFormat
	case CodeSchema, CodeBadOption, CodeUnresolved, CodeNameCollision, CodeUnknownSchema:
		return KindSchema
	default:
		return KindStructure
	}
}

// Sentinels for errors.Is. ErrInvalidValue matches both constraint and format
// failures: the single "encoding/decoding failed" condition.
var (
	ErrSchema       = errors.New("jadn: schema error")
	ErrConstraint   = errors.New("jadn: constraint violated")
	ErrFormat       = errors.New("jadn: format mismatch")
	ErrStructure    = errors.New("jadn: structure mismatch")
	ErrInvalidValue = errors.New("jadn: invalid value")
)

// Issue represents a single codec, simplify or parse failure.
type Issue struct {
	Path    string // JSON Pointer (for example: /items/2/price).
	Code    string // One of the codes listed above.
	Message string
	Type    string // Name of the type being processed, when known.
	Value   any    // Offending value, when known.
	Hint    string // Optional: remediation hints, format names, etc.
	Cause   error  // Optional: underlying error.
	Offset  int64  // Byte offset in the input source (-1 when unknown).
	// Params carries structured parameters (e.g., {"min":1, "max":10, "got":42})
	// for i18n and observability.
	Params map[string]any
}

// Kind reports the taxonomy bucket of the issue.
func (it Issue) Kind() Kind { return KindOf(it.Code) }

// Issues is a collection of failures that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_type at /path (type T): message [value]
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
		if it.Type != "" {
			fmt.Fprintf(b, " (type %s)", it.Type)
		}
		if it.Message != "" {
			fmt.Fprintf(b, ": %s", it.Message)
		}
		if it.Value != nil {
			fmt.Fprintf(b, " [value %s]", describeValue(it.Value))
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Is reports whether any issue belongs to the taxonomy sentinel target.
func (iss Issues) Is(target error) bool {
	for _, it := range iss {
		switch it.Kind() {
		case KindSchema:
			if target == ErrSchema {
				return true
			}
		case KindConstraint:
			if target == ErrConstraint || target == ErrInvalidValue {
				return true
			}
		case KindFormat:
			if target == ErrFormat || target == ErrInvalidValue {
				return true
			}
		default:
			if target == ErrStructure {
				return true
			}
		}
	}
	return false
}

// Unwrap exposes the first cause so errors.Is reaches wrapped format errors.
func (iss Issues) Unwrap() error {
	for _, it := range iss {
		if it.Cause != nil {
			return it.Cause
		}
	}
	return nil
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

func describeValue(v any) string {
	switch t := v.(type) {
	case []byte:
		if len(t) > 32 {
			return fmt.Sprintf("%x... (%d bytes)", t[:32], len(t))
		}
		return fmt.Sprintf("%x", t)
	case string:
		if len(t) > 64 {
			return fmt.Sprintf("%q...", t[:64])
		}
		return fmt.Sprintf("%q", t)
	default:
		s := fmt.Sprintf("%v", t)
		if len(s) > 64 {
			s = s[:64] + "..."
		}
		return s
	}
}

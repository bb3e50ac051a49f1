package jadn

import (
	"fmt"
	"strconv"
	"strings"
)

// TypeOptions are the parsed type option tokens of a definition.
type TypeOptions struct {
	ID        bool     // "=": members addressed by id in API values.
	Enum      string   // "#T": derive items from T.
	ValueType string   // "*T": ArrayOf item type, MapOf value type.
	KeyType   string   // "+T": MapOf key type.
	Format    string   // "/name"
	Min       *int64   // "{N"
	Max       *int64   // "}N"
	MinF      *float64 // "yF"
	MaxF      *float64 // "zF"
	Pattern   string   // "%re"
	Unique    bool     // "q"
}

// FieldOptions are the parsed field option tokens. Tokens that are not field
// options are type options applying to the field's anonymous type.
type FieldOptions struct {
	MinC    int    // "[N", default 1
	MaxC    int    // "]N", default 1; 0 means unbounded
	TagID   int    // "&N", 0 when absent
	Dir     bool   // "<"
	Default string // "!v"
	HasTag  bool
	Type    []string
}

// Optional reports whether the field may be absent.
func (o FieldOptions) Optional() bool { return o.MinC == 0 }

// Multiple reports whether the field value is a list of elements.
func (o FieldOptions) Multiple() bool { return o.MaxC != 1 }

// ParseTypeOptions parses type option tokens. Unknown tokens are a schema
// error.
func ParseTypeOptions(opts []string) (TypeOptions, error) {
	var to TypeOptions
	for _, o := range opts {
		if o == "" {
			return to, fmt.Errorf("empty option")
		}
		arg := o[1:]
		switch o[0] {
		case '=':
			to.ID = true
		case '#':
			to.Enum = arg
		case '*':
			to.ValueType = arg
		case '+':
			to.KeyType = arg
		case '/':
			to.Format = arg
		case '{', '}':
			n, err := strconv.ParseInt(arg, 10, 64)
			if err != nil {
				return to, fmt.Errorf("option %q: %v", o, err)
			}
			if o[0] == '{' {
				to.Min = &n
			} else {
				to.Max = &n
			}
		case 'y', 'z':
			f, err := strconv.ParseFloat(arg, 64)
			if err != nil {
				return to, fmt.Errorf("option %q: %v", o, err)
			}
			if o[0] == 'y' {
				to.MinF = &f
			} else {
				to.MaxF = &f
			}
		case '%':
			to.Pattern = arg
		case 'q':
			to.Unique = true
		default:
			return to, fmt.Errorf("unknown type option %q", o)
		}
		if needsArg(o[0]) && arg == "" {
			return to, fmt.Errorf("option %q requires an argument", o)
		}
	}
	return to, nil
}

func needsArg(c byte) bool { return strings.IndexByte("#*+/", c) >= 0 }

// ParseFieldOptions splits field option tokens from the type option tokens
// that may follow them.
func ParseFieldOptions(opts []string) (FieldOptions, error) {
	fo := FieldOptions{MinC: 1, MaxC: 1}
	for _, o := range opts {
		if o == "" {
			return fo, fmt.Errorf("empty option")
		}
		arg := o[1:]
		switch o[0] {
		case '[', ']', '&':
			n, err := strconv.Atoi(arg)
			if err != nil || n < 0 {
				return fo, fmt.Errorf("option %q: not a non-negative integer", o)
			}
			switch o[0] {
			case '[':
				fo.MinC = n
			case ']':
				fo.MaxC = n
			default:
				fo.TagID, fo.HasTag = n, true
			}
		case '<':
			fo.Dir = true
		case '!':
			fo.Default = arg
		default:
			fo.Type = append(fo.Type, o)
		}
	}
	if fo.MaxC != 0 && fo.MaxC < fo.MinC {
		return fo, fmt.Errorf("maximum cardinality %d below minimum %d", fo.MaxC, fo.MinC)
	}
	return fo, nil
}

// OptionString renders an option slice the way it is written in schemas,
// for logs and error messages.
func OptionString(opts []string) string { return "[" + strings.Join(opts, " ") + "]" }

func enumOpt(t string) string { return "#" + t }

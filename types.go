package jadn

// Mode selects how compound members and enumerated values are addressed on
// the wire. The wire form carries no mode marker: producer and consumer of a
// wire value must agree on the Mode.
type Mode struct {
	VerboseRecords bool // Record, Map and Choice members keyed by name instead of id.
	VerboseStrings bool // Enumerated values carried as item names instead of ids.
}

// Predefined modes from the JADN serialization rules.
var (
	ModeVerbose = Mode{VerboseRecords: true, VerboseStrings: true}
	ModeCompact = Mode{VerboseRecords: false, VerboseStrings: true}
	ModeConcise = Mode{}
)

func (m Mode) String() string {
	switch m {
	case ModeVerbose:
		return "verbose"
	case ModeCompact:
		return "compact"
	case ModeConcise:
		return "concise"
	default:
		return "records-by-name,enums-by-id"
	}
}

// NumberMode dictates how wire numbers are materialized by a Source.
type NumberMode int

const (
	NumberFloat64    NumberMode = iota // Fast mode (with potential precision loss).
	NumberJSONNumber                   // Preserve json.Number.
)

// Strictness configures enforcement for duplicate keys.
type Strictness struct {
	OnDuplicateKey Severity // Warn or Error (duplicate JSON keys).
}

// Severity expresses the severity level for issues.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// ParseOpt bundles wire parsing options.
type ParseOpt struct {
	Strictness Strictness
	MaxDepth   int
	MaxBytes   int64
	FailFast   bool
}

// DefaultParseOpt rejects duplicate object keys. A wire object repeating a
// Choice selector or a Record member is never accepted silently.
func DefaultParseOpt() ParseOpt {
	return ParseOpt{Strictness: Strictness{OnDuplicateKey: Error}}
}

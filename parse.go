package jadn

import (
	"errors"
	"io"

	eng "github.com/reoring/jadn/internal/engine"
)

// ParseWire reads one wire value from src, applying the duplicate key, depth
// and size limits of opt. Numbers are json.Number under NumberJSONNumber
// (the default) and float64 under NumberFloat64.
func ParseWire(src Source, opt ParseOpt) (any, error) {
	return parseWire(src, opt, nil)
}

// ParseWireWith is ParseWire forwarding non-fatal issues (duplicate keys
// under Warn) to sink.
func ParseWireWith(src Source, opt ParseOpt, sink func(Issue)) (any, error) {
	return parseWire(src, opt, sink)
}

func parseWire(src Source, opt ParseOpt, sink func(Issue)) (any, error) {
	var forward func(eng.SimpleIssue)
	if sink != nil {
		forward = func(si eng.SimpleIssue) {
			sink(Issue{Path: si.Path, Code: si.Code, Message: si.Message, Offset: src.Location()})
		}
	}
	tokens := eng.WrapWithEnforcement(src, eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.Strictness.OnDuplicateKey),
		MaxDepth:    opt.MaxDepth,
		MaxBytes:    opt.MaxBytes,
		IssueSink:   forward,
		FailFast:    opt.FailFast,
	})
	num := eng.JSONNumber
	if src.NumberMode() == NumberFloat64 {
		num = eng.Float64
	}
	v, err := eng.DecodeValue(tokens, num)
	if err != nil {
		return nil, toIssues(err)
	}
	return v, nil
}

// ReadWire parses one JSON wire value from r. When MaxBytes is set the
// size cap is enforced before parsing.
func ReadWire(r io.Reader, opt ParseOpt) (any, error) {
	if opt.MaxBytes > 0 {
		data, err := io.ReadAll(io.LimitReader(r, opt.MaxBytes+1))
		if err != nil {
			return nil, singleIssue(CodeParseError, err.Error())
		}
		if int64(len(data)) > opt.MaxBytes {
			return nil, singleIssue(CodeTruncated, "max bytes exceeded")
		}
		return ParseWire(JSONBytes(data), opt)
	}
	return ParseWire(JSONReader(r), opt)
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Error:
		return eng.DupError
	case Warn:
		return eng.DupWarn
	default:
		return eng.DupIgnore
	}
}

func toIssues(err error) Issues {
	if err == nil {
		return nil
	}
	if ii, ok := AsIssues(err); ok {
		return ii
	}
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return AppendIssues(nil, Issue{Code: ie.Code, Path: ie.Path, Message: ie.Message, Offset: -1})
	}
	return AppendIssues(nil, Issue{Path: "/", Code: CodeParseError, Message: err.Error(), Cause: err, Offset: -1})
}

func singleIssue(code, msg string) Issues {
	return AppendIssues(nil, Issue{Path: "/", Code: code, Message: msg, Offset: -1})
}

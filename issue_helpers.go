package jadn

import "github.com/reoring/jadn/i18n"

// typeIssue builds a single-issue error naming the type and offending value.
// An empty msg falls back to the translated message for code.
func typeIssue(p PathRef, typeName, code, msg string, value any) Issues {
	if msg == "" {
		msg = i18n.T(code, nil)
	}
	return Issues{{Path: p.Pointer(), Code: code, Message: msg, Type: typeName, Value: value, Offset: -1}}
}

// schemaIssue builds a SchemaError for the named type.
func schemaIssue(typeName, code, msg string) Issues {
	return Issues{{Path: "/", Code: code, Message: msg, Type: typeName, Offset: -1}}
}

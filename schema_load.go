package jadn

import (
	"bytes"
	"encoding/hex"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/tidwall/jsonc"
	"github.com/zeebo/blake3"
	"gopkg.in/yaml.v3"
)

// LoadSchemaJSON parses a schema document in its JSON form. The result is not
// checked; NewCodec and Simplify report unresolved references.
func LoadSchemaJSON(data []byte) (Schema, error) {
	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return Schema{}, toIssues(err)
	}
	return s, nil
}

// LoadSchemaJSONC parses a schema document that may carry // and /* */
// comments and trailing commas.
func LoadSchemaJSONC(data []byte) (Schema, error) {
	return LoadSchemaJSON(jsonc.ToJSON(data))
}

// LoadSchemaYAML parses the first YAML document in data as a schema.
func LoadSchemaYAML(data []byte) (Schema, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var node any
	if err := dec.Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return Schema{}, singleIssue(CodeParseError, "empty YAML document")
		}
		return Schema{}, singleIssue(CodeParseError, err.Error())
	}
	b, err := json.Marshal(normalizeYAML(node))
	if err != nil {
		return Schema{}, singleIssue(CodeParseError, err.Error())
	}
	return LoadSchemaJSON(b)
}

// ReadSchemaFile loads a schema file, choosing the parser from the extension:
// .yaml/.yml, .jsonc, anything else as JSON.
func ReadSchemaFile(path string) (Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Schema{}, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadSchemaYAML(data)
	case ".jsonc":
		return LoadSchemaJSONC(data)
	default:
		return LoadSchemaJSON(data)
	}
}

// Digest returns a hex BLAKE3 digest of the schema's JSON form. Map keys are
// sorted by the encoder, so equal schemas have equal digests.
func (s Schema) Digest() (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	sum := blake3.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

// normalizeYAML converts YAML-decoded values (which may contain map[any]any)
// into JSON-like trees.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = normalizeYAML(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			if ks, ok := k.(string); ok {
				out[ks] = normalizeYAML(vv)
			}
		}
		return out
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = normalizeYAML(t[i])
		}
		return arr
	default:
		return v
	}
}

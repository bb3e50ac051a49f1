// Package meta embeds the JADN meta-schema, the schema whose "Schema" type
// describes JADN schemas, itself included.
package meta

import (
	_ "embed"
	"sync"

	"github.com/reoring/jadn"
)

// RootType is the meta-schema type describing a whole schema document.
const RootType = "Schema"

//go:embed jadn_meta.json
var metaJSON []byte

var load = sync.OnceValues(func() (jadn.Schema, error) { return jadn.LoadSchemaJSON(metaJSON) })

// JSON returns a copy of the meta-schema document.
func JSON() []byte { return append([]byte(nil), metaJSON...) }

// Schema returns the parsed meta-schema. Callers get their own copy.
func Schema() (jadn.Schema, error) {
	s, err := load()
	if err != nil {
		return jadn.Schema{}, err
	}
	return s.Clone(), nil
}

// NewCodec builds a codec over the meta-schema. The default mode is verbose,
// the mode in which schema documents are written.
func NewCodec(opts ...jadn.CodecOption) (*jadn.Codec, error) {
	s, err := Schema()
	if err != nil {
		return nil, err
	}
	return jadn.NewCodec(s, opts...)
}

// DecodeSchema checks a JSON schema document against the meta-schema and
// returns it as a jadn.Schema.
func DecodeSchema(data []byte) (jadn.Schema, error) {
	c, err := NewCodec()
	if err != nil {
		return jadn.Schema{}, err
	}
	v, err := c.DecodeJSON(RootType, data)
	if err != nil {
		return jadn.Schema{}, err
	}
	return jadn.SchemaFromValue(v)
}

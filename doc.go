// Package jadn implements a schema-driven codec for JADN (JSON Abstract Data
// Notation) information models.
//
// A Schema lists type definitions built on twelve base types. NewCodec
// resolves a Schema into a TypeTable and returns a Codec that converts
// between API values (plain Go maps, slices and scalars) and wire values in
// one of three modes:
//
//   - ModeVerbose: members by name, enumerations by name
//   - ModeCompact: members by position or id, enumerations by name
//   - ModeConcise: members by position or id, enumerations by id
//
// Semantic formats such as ipv4-addr or date-time are handled by the format
// package. A Registry extended with Registry.With and passed to WithRegistry
// adds application formats. Simplify rewrites a schema into an equivalent
// one without derived enumerations, and the meta package validates schemas
// against the JADN meta-schema.
//
// Failures are reported as Issues, which match ErrSchema, ErrStructure,
// ErrConstraint, ErrFormat and ErrInvalidValue under errors.Is.
//
// Typical usage:
//
//	s, err := jadn.ReadSchemaFile("schema.jadn")
//	c, err := jadn.NewCodec(s, jadn.WithMode(jadn.ModeConcise))
//	data, err := c.EncodeJSON("Pixel", map[string]any{"red": 1, "green": 2})
//	v, err := c.DecodeJSON("Pixel", data)
package jadn

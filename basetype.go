package jadn

// BaseType is the closed set of JADN base types.
type BaseType int

const (
	BaseInvalid BaseType = iota
	BaseBinary
	BaseBoolean
	BaseInteger
	BaseNumber
	BaseString
	BaseEnumerated
	BaseChoice
	BaseArray
	BaseArrayOf
	BaseMap
	BaseMapOf
	BaseRecord
)

var baseTypeNames = [...]string{
	BaseInvalid:    "",
	BaseBinary:     "Binary",
	BaseBoolean:    "Boolean",
	BaseInteger:    "Integer",
	BaseNumber:     "Number",
	BaseString:     "String",
	BaseEnumerated: "Enumerated",
	BaseChoice:     "Choice",
	BaseArray:      "Array",
	BaseArrayOf:    "ArrayOf",
	BaseMap:        "Map",
	BaseMapOf:      "MapOf",
	BaseRecord:     "Record",
}

func (b BaseType) String() string {
	if b < 0 || int(b) >= len(baseTypeNames) {
		return "BaseType(?)"
	}
	return baseTypeNames[b]
}

// ParseBaseType maps a base type name to its tag.
func ParseBaseType(s string) (BaseType, bool) {
	for i, n := range baseTypeNames {
		if i > 0 && n == s {
			return BaseType(i), true
		}
	}
	return BaseInvalid, false
}

// IsPrimitive reports whether b is Binary, Boolean, Integer, Number or String.
func (b BaseType) IsPrimitive() bool { return b >= BaseBinary && b <= BaseString }

// HasFields reports whether a definition of this base type carries a field
// (or item) list.
func (b BaseType) HasFields() bool {
	switch b {
	case BaseEnumerated, BaseChoice, BaseArray, BaseMap, BaseRecord:
		return true
	}
	return false
}

// IsBaseTypeName reports whether s names a base type rather than a defined
// type.
func IsBaseTypeName(s string) bool {
	_, ok := ParseBaseType(s)
	return ok
}

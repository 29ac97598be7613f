package annotations

import (
	"reflect"
	"strings"
)

// TagName is the struct tag key marking an injectable field
const TagName = "inject"

// qualifierPrefix introduces a named qualifier inside an inject tag
const qualifierPrefix = "named:"

// FieldTag is a parsed inject struct tag
type FieldTag struct {
	Qualifier string
}

// ParseFieldTag extracts the inject tag from a raw struct tag literal.
// Returns ok=false when the field carries no inject tag at all.
//
//	`inject:""`           -> unqualified dependency
//	`inject:"named:left"` -> dependency qualified as "left"
func ParseFieldTag(rawTag string) (FieldTag, bool) {
	trimmed := strings.Trim(rawTag, "`")
	tag := reflect.StructTag(trimmed)

	value, ok := tag.Lookup(TagName)
	if !ok {
		return FieldTag{}, false
	}

	if strings.HasPrefix(value, qualifierPrefix) {
		return FieldTag{Qualifier: strings.TrimPrefix(value, qualifierPrefix)}, true
	}

	// A bare non-empty value is shorthand for a named qualifier.
	return FieldTag{Qualifier: value}, true
}

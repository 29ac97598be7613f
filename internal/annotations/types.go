package annotations

import (
	"fmt"

	"github.com/xiedantibu/dagger/internal/errors"
)

// MarkerPrefix is the comment prefix every injection marker starts with
const MarkerPrefix = "dagger::"

// MarkerKind identifies the kind of injection marker found in a doc comment
type MarkerKind int

const (
	// ProvideMarker marks a constructor function: //dagger::provide [-Singleton]
	ProvideMarker MarkerKind = iota
	// StaticMarker associates a package-level var with a target type:
	// //dagger::static TypeName
	StaticMarker
)

// String returns the marker keyword as written in source
func (k MarkerKind) String() string {
	switch k {
	case ProvideMarker:
		return "provide"
	case StaticMarker:
		return "static"
	default:
		return "unknown"
	}
}

// ParseMarkerKind converts a marker keyword into its kind
func ParseMarkerKind(keyword string) (MarkerKind, error) {
	switch keyword {
	case "provide":
		return ProvideMarker, nil
	case "static":
		return StaticMarker, nil
	default:
		return ProvideMarker, fmt.Errorf("unknown marker kind '%s'", keyword)
	}
}

// ParsedMarker is a fully parsed injection marker
type ParsedMarker struct {
	Kind      MarkerKind
	Target    string // owning type name, only set for static markers
	Singleton bool   // -Singleton flag on provide markers
	Location  errors.SourceLocation
	Raw       string // original comment text
}

package models

// MemberKind classifies a marked member of an injection target
type MemberKind int

const (
	KindInstanceField MemberKind = iota
	KindStaticField
	KindConstructor
	KindUnsupported
)

// String returns the human-readable name of the member kind
func (k MemberKind) String() string {
	switch k {
	case KindInstanceField:
		return "instance field"
	case KindStaticField:
		return "static field"
	case KindConstructor:
		return "constructor"
	default:
		return "unsupported member"
	}
}

// ArtifactKind identifies which generated artifact a target produced
type ArtifactKind int

const (
	ArtifactInjectAdapter ArtifactKind = iota
	ArtifactStaticInjection
)

// String returns the human-readable name of the artifact kind
func (k ArtifactKind) String() string {
	switch k {
	case ArtifactInjectAdapter:
		return "inject adapter"
	case ArtifactStaticInjection:
		return "static injection"
	default:
		return "unknown artifact"
	}
}

// TypeRef is a reference to a dependency type. Expr always qualifies
// foreign packages by their canonical name, never by an import alias.
type TypeRef struct {
	Expr        string   // full type expression, e.g. "*Gear", "gears.Gear", "[]string"
	Qualifier   string   // optional binding qualifier from the inject tag
	Package     string   // name of the package the reference appears in
	ImportPaths []string // import paths of every selector package in the expression
}

// Param represents one constructor parameter
type Param struct {
	Name string
	Type TypeRef
}

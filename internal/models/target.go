package models

// Field is an injectable field of a target: a tagged struct field, or
// a package-level var associated with the target for static injection
type Field struct {
	Name string
	Type TypeRef
}

// Constructor is the single injectable constructor of a target
type Constructor struct {
	FuncName       string
	Params         []Param
	ReturnsPointer bool // constructor returns *T rather than T
	Explicit       bool // marked in source, as opposed to the no-arg fallback
}

// Target is a fully classified injection target. Invariants: at most one
// constructor; an abstract target never carries an explicit constructor.
type Target struct {
	Type         TypeInfo
	Fields       []Field // instance fields, declaration order
	StaticFields []Field // static fields, declaration order
	Constructor  *Constructor
	Singleton    bool
	Supertype    string // qualified name of the injectable supertype, "" if none
}

// NeedsInjectAdapter reports whether the target produces an inject adapter
func (t *Target) NeedsInjectAdapter() bool {
	return t.Constructor != nil || len(t.Fields) > 0
}

// NeedsStaticInjection reports whether the target produces a static injection
func (t *Target) NeedsStaticInjection() bool {
	return len(t.StaticFields) > 0
}

// Artifact is one generated source file, immutable once emitted
type Artifact struct {
	TargetName string
	Kind       ArtifactKind
	Dir        string
	FileName   string
	Content    []byte
}

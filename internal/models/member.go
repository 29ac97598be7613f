package models

import "github.com/xiedantibu/dagger/internal/errors"

// Member is a single marked member as the symbol universe saw it,
// before the resolver classifies it
type Member struct {
	Name      string     // field name, var name, or function name
	Kind      MemberKind // raw kind derived from the declaration shape
	Type      TypeRef    // field or var type; the result type for constructors
	Params    []Param    // constructor parameters, declaration order
	Singleton bool       // constructor carried the -Singleton flag
	Location  errors.SourceLocation
}

// MarkedMember pairs a marked member with its enclosing type, in
// discovery order, for the collector to scan
type MarkedMember struct {
	Enclosing string // fully-qualified name of the enclosing type
	Member    Member
}

// TypeInfo describes a declared type as reported by the symbol universe.
// Records are re-derived from the universe every round, never patched.
type TypeInfo struct {
	Name        string   // simple type name
	Qualified   string   // package-qualified name, e.g. "widgets.Widget"
	PackageName string   // declaring package name
	Dir         string   // directory of the declaring file
	Abstract    bool     // interface types are abstract
	Members     []Member // directly declared marked members, source order
	Embedded    []string // embedded struct type names, declaration order
}

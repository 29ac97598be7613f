// Package symbols models the host symbol table the generator is driven
// by: a universe of declared types that grows round by round as more
// packages are fed in. The resolver only ever reads it through the
// Universe interface.
package symbols

import "github.com/xiedantibu/dagger/internal/models"

// Universe is the read-only view of the current symbol universe.
//
// A type reference is "resolved" when the universe can see its full
// declaration. References into packages that are part of the compilation
// but not yet scanned stay unresolved until a later round; references
// into foreign, already-compiled packages are always resolved.
type Universe interface {
	// Lookup fetches a declared type by its qualified name
	Lookup(qualified string) (models.TypeInfo, bool)

	// Marked enumerates every marked member seen so far, in the order
	// of first discovery
	Marked() []models.MarkedMember

	// Resolved reports whether every type named by the reference is
	// fully declared in the current universe
	Resolved(ref models.TypeRef) bool

	// Supertype returns the qualified name of the first embedded type
	// that is itself part of the injectable universe
	Supertype(qualified string) (string, bool)

	// NoArgConstructor returns the accessible zero-parameter fallback
	// constructor for a type, if one exists
	NoArgConstructor(qualified string) (models.Constructor, bool)
}

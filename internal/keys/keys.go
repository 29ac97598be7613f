// Package keys renders canonical binding identities. The linker matches
// bindings purely by key equality, so structurally identical (type,
// qualifier) pairs must always render byte-identical keys.
package keys

import (
	"strings"

	"github.com/xiedantibu/dagger/internal/models"
)

// membersPrefix marks the members-injection flavor of a key
const membersPrefix = "members/"

// ForType renders the value key for a dependency reference: the full
// generic type shape with every type name package-qualified, prefixed
// with @qualifier/ when the reference carries a qualifier. A top-level
// pointer is a carrier, not an identity: *Gear and Gear name the same
// dependency.
func ForType(ref models.TypeRef) string {
	expr := strings.TrimLeft(normalize(ref.Expr), "*&")
	expr = QualifyExpr(expr, ref.Package)
	if ref.Qualifier == "" {
		return expr
	}
	return "@" + ref.Qualifier + "/" + expr
}

// ForMembers renders the members key for a type: raw type only, with
// qualifier and generic arguments stripped. Used for the members-injection
// binding of a type and for supertype delegation.
func ForMembers(typeExpr string) string {
	return membersPrefix + RawType(typeExpr)
}

// IsMembersKey reports whether a key identifies a members-injection binding
func IsMembersKey(key string) bool {
	return strings.HasPrefix(key, membersPrefix)
}

// RawType strips pointer markers and generic arguments from a type
// expression, leaving only the (possibly package-qualified) type name.
func RawType(expr string) string {
	raw := normalize(expr)
	raw = strings.TrimLeft(raw, "*&")
	if i := strings.IndexByte(raw, '['); i >= 0 {
		raw = raw[:i]
	}
	return raw
}

// normalize collapses whitespace so formatting differences in source
// never produce distinct keys
func normalize(expr string) string {
	return strings.Join(strings.Fields(expr), " ")
}

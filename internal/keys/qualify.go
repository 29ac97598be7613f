package keys

import "strings"

// QualifyExpr rewrites every bare, non-builtin type name in a type
// expression to its package-qualified form, so references to the same
// type from different packages render the same key.
//
//	QualifyExpr("map[string]*Gear", "widgets") == "map[string]*widgets.Gear"
func QualifyExpr(expr, pkg string) string {
	if pkg == "" {
		return expr
	}

	var b strings.Builder
	i := 0
	for i < len(expr) {
		if !isIdentStart(expr[i]) {
			b.WriteByte(expr[i])
			i++
			continue
		}

		start := i
		for i < len(expr) && isIdentByte(expr[i]) {
			i++
		}
		ident := expr[start:i]

		// Already qualified: copy the selector and its member through.
		if i < len(expr) && expr[i] == '.' {
			b.WriteString(ident)
			b.WriteByte('.')
			i++
			for i < len(expr) && isIdentByte(expr[i]) {
				b.WriteByte(expr[i])
				i++
			}
			continue
		}

		if isTypeKeyword(ident) || isBuiltinName(ident) {
			b.WriteString(ident)
			continue
		}

		b.WriteString(pkg)
		b.WriteByte('.')
		b.WriteString(ident)
	}

	return b.String()
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentByte(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isTypeKeyword(ident string) bool {
	switch ident {
	case "map", "chan", "func", "struct", "interface":
		return true
	}
	return false
}

func isBuiltinName(ident string) bool {
	switch ident {
	case "bool", "byte", "rune", "string", "error", "any",
		"int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
		"float32", "float64", "complex64", "complex128":
		return true
	}
	return false
}

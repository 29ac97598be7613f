package symbols

import (
	"fmt"
	"go/ast"
	"strings"
)

// renderExpr renders a type expression back to canonical source form
func renderExpr(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.SelectorExpr:
		return renderExpr(t.X) + "." + t.Sel.Name
	case *ast.StarExpr:
		return "*" + renderExpr(t.X)
	case *ast.ArrayType:
		if t.Len != nil {
			return "[" + renderExpr(t.Len) + "]" + renderExpr(t.Elt)
		}
		return "[]" + renderExpr(t.Elt)
	case *ast.MapType:
		return "map[" + renderExpr(t.Key) + "]" + renderExpr(t.Value)
	case *ast.ChanType:
		switch t.Dir {
		case ast.RECV:
			return "<-chan " + renderExpr(t.Value)
		case ast.SEND:
			return "chan<- " + renderExpr(t.Value)
		default:
			return "chan " + renderExpr(t.Value)
		}
	case *ast.IndexExpr:
		return renderExpr(t.X) + "[" + renderExpr(t.Index) + "]"
	case *ast.IndexListExpr:
		args := make([]string, len(t.Indices))
		for i, index := range t.Indices {
			args[i] = renderExpr(index)
		}
		return renderExpr(t.X) + "[" + strings.Join(args, ", ") + "]"
	case *ast.Ellipsis:
		return "..." + renderExpr(t.Elt)
	case *ast.InterfaceType:
		return "interface{}"
	case *ast.BasicLit:
		return t.Value
	case *ast.FuncType:
		return renderFuncType(t)
	default:
		return fmt.Sprintf("%T", expr)
	}
}

func renderFuncType(fn *ast.FuncType) string {
	var b strings.Builder
	b.WriteString("func(")
	if fn.Params != nil {
		for i, field := range fn.Params.List {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(renderExpr(field.Type))
		}
	}
	b.WriteString(")")
	if fn.Results != nil && len(fn.Results.List) > 0 {
		results := make([]string, len(fn.Results.List))
		for i, field := range fn.Results.List {
			results[i] = renderExpr(field.Type)
		}
		if len(results) == 1 {
			b.WriteString(" " + results[0])
		} else {
			b.WriteString(" (" + strings.Join(results, ", ") + ")")
		}
	}
	return b.String()
}

// typeExprDelimiters separates type expressions into candidate type names
const typeExprDelimiters = "[]*&()<>,; "

// baseTypeNames extracts every named type a type expression refers to.
// "map[string]gears.Gear" yields ["string", "gears.Gear"].
func baseTypeNames(expr string) []string {
	var names []string
	for _, token := range strings.FieldsFunc(expr, func(r rune) bool {
		return strings.ContainsRune(typeExprDelimiters, r)
	}) {
		if token == "" || isKeyword(token) {
			continue
		}
		names = append(names, strings.TrimSuffix(token, "..."))
	}
	return names
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentByte(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isKeyword(token string) bool {
	switch token {
	case "map", "chan", "func", "struct", "interface{}", "interface", "...":
		return true
	}
	return false
}

// isBuiltin reports whether a type name needs no declaration to resolve
func isBuiltin(name string) bool {
	switch name {
	case "bool", "byte", "rune", "string", "error", "any",
		"int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
		"float32", "float64", "complex64", "complex128":
		return true
	}
	return false
}

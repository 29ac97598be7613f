package emitter

import (
	"fmt"
	"strings"

	"github.com/xiedantibu/dagger/internal/keys"
	"github.com/xiedantibu/dagger/internal/models"
)

// renderStaticInjection renders the StaticInjection artifact assigning
// the target's marked package variables
func (e *Emitter) renderStaticInjection(target *models.Target) []byte {
	info := target.Type
	injectionName := info.Name + "StaticInjection"

	var slots []slot
	for _, field := range target.StaticFields {
		slots = append(slots, slot{
			name:      field.Name,
			key:       keys.ForType(field.Type),
			mandatory: true,
		})
	}

	imports := NewImportManager(e.runtimeImport)
	for _, field := range target.StaticFields {
		imports.AddUserImports(field.Type.ImportPaths)
	}

	var b strings.Builder
	b.WriteString(generatedHeader)
	b.WriteString(fmt.Sprintf("package %s\n\n", info.PackageName))
	b.WriteString(imports.Generate())

	b.WriteString(fmt.Sprintf("// %s assigns the package variables bound to %s.\n", injectionName, info.Name))
	b.WriteString(fmt.Sprintf("type %s struct {\n", injectionName))
	writeSlotFields(&b, slots)
	b.WriteString("}\n\n")

	b.WriteString(fmt.Sprintf("// New%s creates the static injection for %s.\n", injectionName, info.Name))
	b.WriteString(fmt.Sprintf("func New%s() *%s {\n", injectionName, injectionName))
	b.WriteString(fmt.Sprintf("\treturn &%s{}\n", injectionName))
	b.WriteString("}\n\n")

	b.WriteString("// Attach resolves every variable's binding through the linker.\n")
	b.WriteString(fmt.Sprintf("func (s *%s) Attach(linker dagger.Linker) {\n", injectionName))
	for _, sl := range slots {
		b.WriteString(fmt.Sprintf("\ts.%s = linker.RequestBinding(%q, %q, %v)\n", sl.name, sl.key, info.Qualified, sl.mandatory))
	}
	b.WriteString("}\n\n")

	b.WriteString("// Inject assigns each resolved value to its package variable.\n")
	b.WriteString(fmt.Sprintf("func (s *%s) Inject() {\n", injectionName))
	for i, field := range target.StaticFields {
		b.WriteString(fmt.Sprintf("\t%s = s.%s.Get().(%s)\n", field.Name, slots[i].name, field.Type.Expr))
	}
	b.WriteString("}\n")

	return []byte(b.String())
}

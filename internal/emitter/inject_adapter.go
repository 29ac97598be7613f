package emitter

import (
	"fmt"
	"strings"

	"github.com/xiedantibu/dagger/internal/keys"
	"github.com/xiedantibu/dagger/internal/models"
)

// renderInjectAdapter renders the InjectAdapter artifact for a target
// with a constructor and/or instance fields
func (e *Emitter) renderInjectAdapter(target *models.Target) []byte {
	info := target.Type
	adapterName := info.Name + "InjectAdapter"

	injectMembers := len(target.Fields) > 0 || target.Supertype != ""
	hasCtorParams := target.Constructor != nil && len(target.Constructor.Params) > 0
	disambiguate := len(target.Fields) > 0 && hasCtorParams
	dependent := injectMembers || hasCtorParams

	var ctorSlots, fieldSlots []slot
	if target.Constructor != nil {
		for _, param := range target.Constructor.Params {
			ctorSlots = append(ctorSlots, slot{
				name:      paramSlot(disambiguate, param.Name),
				key:       keys.ForType(param.Type),
				mandatory: true,
			})
		}
	}
	for _, field := range target.Fields {
		fieldSlots = append(fieldSlots, slot{
			name:      fieldSlot(disambiguate, field.Name),
			key:       keys.ForType(field.Type),
			mandatory: true,
		})
	}
	var superSlot *slot
	if target.Supertype != "" {
		superSlot = &slot{name: "supertype", key: keys.ForMembers(target.Supertype), mandatory: false}
	}

	imports := NewImportManager(e.runtimeImport)
	if target.Constructor != nil {
		for _, param := range target.Constructor.Params {
			imports.AddUserImports(param.Type.ImportPaths)
		}
	}
	for _, field := range target.Fields {
		imports.AddUserImports(field.Type.ImportPaths)
	}

	var b strings.Builder
	b.WriteString(generatedHeader)
	b.WriteString(fmt.Sprintf("package %s\n\n", info.PackageName))
	b.WriteString(imports.Generate())

	b.WriteString(adapterDoc(adapterName, info.Name, target.Constructor != nil, injectMembers))
	b.WriteString(fmt.Sprintf("type %s struct {\n", adapterName))
	b.WriteString("\tdagger.BaseBinding\n")
	allSlots := append(append([]slot{}, ctorSlots...), fieldSlots...)
	if superSlot != nil {
		allSlots = append(allSlots, *superSlot)
	}
	if len(allSlots) > 0 {
		b.WriteString("\n")
		writeSlotFields(&b, allSlots)
	}
	b.WriteString("}\n\n")

	valueKey := ""
	if target.Constructor != nil {
		valueKey = keys.ForType(models.TypeRef{Expr: info.Qualified})
	}
	membersKey := keys.ForMembers(info.Qualified)

	b.WriteString(fmt.Sprintf("// New%s creates the binding for %s.\n", adapterName, info.Name))
	b.WriteString(fmt.Sprintf("func New%s() *%s {\n", adapterName, adapterName))
	b.WriteString(fmt.Sprintf("\treturn &%s{BaseBinding: dagger.NewBaseBinding(%q, %q, %v)}\n",
		adapterName, valueKey, membersKey, target.Singleton))
	b.WriteString("}\n")

	if dependent {
		e.writeAttach(&b, adapterName, info.Qualified, allSlots)
		e.writeDependencies(&b, adapterName, ctorSlots, fieldSlots, superSlot)
	}

	if target.Constructor != nil {
		e.writeGet(&b, adapterName, target, ctorSlots, injectMembers)
	}

	if injectMembers {
		e.writeInjectMembers(&b, adapterName, target, fieldSlots, superSlot)
	}

	return []byte(b.String())
}

// adapterDoc writes the type doc comment, varying with what the
// adapter can do
func adapterDoc(adapterName, typeName string, provides, injectMembers bool) string {
	switch {
	case provides && injectMembers:
		return fmt.Sprintf("// %s supplies %s instances and injects their marked members.\n", adapterName, typeName)
	case provides:
		return fmt.Sprintf("// %s supplies %s instances.\n", adapterName, typeName)
	default:
		return fmt.Sprintf("// %s injects the marked members of existing %s instances.\n", adapterName, typeName)
	}
}

// writeAttach renders the attach phase. Attach is idempotent by
// construction: a fixed graph re-resolves the same keys to the same
// handles.
func (e *Emitter) writeAttach(b *strings.Builder, adapterName, requestedBy string, slots []slot) {
	b.WriteString("\n// Attach resolves every held slot through the linker.\n")
	b.WriteString(fmt.Sprintf("func (a *%s) Attach(linker dagger.Linker) {\n", adapterName))
	for _, s := range slots {
		b.WriteString(fmt.Sprintf("\ta.%s = linker.RequestBinding(%q, %q, %v)\n", s.name, s.key, requestedBy, s.mandatory))
	}
	b.WriteString("}\n")
}

// writeDependencies renders the dependency enumeration consumed by
// external graph validation
func (e *Emitter) writeDependencies(b *strings.Builder, adapterName string, ctorSlots, fieldSlots []slot, superSlot *slot) {
	b.WriteString("\n// Dependencies enumerates this binding's keys for graph validation.\n")
	b.WriteString(fmt.Sprintf("func (a *%s) Dependencies(get, injectMembers *[]string) {\n", adapterName))
	for _, s := range ctorSlots {
		b.WriteString(fmt.Sprintf("\t*get = append(*get, %q)\n", s.key))
	}
	for _, s := range fieldSlots {
		b.WriteString(fmt.Sprintf("\t*injectMembers = append(*injectMembers, %q)\n", s.key))
	}
	if superSlot != nil {
		b.WriteString(fmt.Sprintf("\t*injectMembers = append(*injectMembers, %q)\n", superSlot.key))
	}
	b.WriteString("}\n")
}

// writeGet renders the construction phase: the constructor is invoked
// with resolved slot values in exactly declared parameter order
func (e *Emitter) writeGet(b *strings.Builder, adapterName string, target *models.Target, ctorSlots []slot, injectMembers bool) {
	ctor := target.Constructor

	b.WriteString(fmt.Sprintf("\n// Get constructs a new %s", target.Type.Name))
	if injectMembers {
		b.WriteString(" and injects its marked members")
	}
	b.WriteString(".\n")
	b.WriteString(fmt.Sprintf("func (a *%s) Get() any {\n", adapterName))

	args := make([]string, len(ctor.Params))
	for i, param := range ctor.Params {
		args[i] = fmt.Sprintf("a.%s.Get().(%s)", ctorSlots[i].name, param.Type.Expr)
	}
	b.WriteString(fmt.Sprintf("\tresult := %s(%s)\n", ctor.FuncName, strings.Join(args, ", ")))

	if injectMembers {
		if ctor.ReturnsPointer {
			b.WriteString("\ta.InjectMembers(result)\n")
		} else {
			b.WriteString("\ta.InjectMembers(&result)\n")
		}
	}
	b.WriteString("\treturn result\n")
	b.WriteString("}\n")
}

// writeInjectMembers renders member injection: assign each resolved
// field value, then forward to the supertype's members injection
func (e *Emitter) writeInjectMembers(b *strings.Builder, adapterName string, target *models.Target, fieldSlots []slot, superSlot *slot) {
	typeName := target.Type.Name

	b.WriteString(fmt.Sprintf("\n// InjectMembers populates the marked fields of an existing %s.\n", typeName))
	b.WriteString(fmt.Sprintf("func (a *%s) InjectMembers(obj any) {\n", adapterName))
	b.WriteString(fmt.Sprintf("\tobject := obj.(*%s)\n", typeName))
	for i, field := range target.Fields {
		b.WriteString(fmt.Sprintf("\tobject.%s = a.%s.Get().(%s)\n", field.Name, fieldSlots[i].name, field.Type.Expr))
	}
	if superSlot != nil {
		embedded, pointer := embeddedSupertypeField(target)
		b.WriteString(fmt.Sprintf("\tif injector, ok := a.%s.Get().(dagger.MembersInjector); ok {\n", superSlot.name))
		if pointer {
			b.WriteString(fmt.Sprintf("\t\tinjector.InjectMembers(object.%s)\n", embedded))
		} else {
			b.WriteString(fmt.Sprintf("\t\tinjector.InjectMembers(&object.%s)\n", embedded))
		}
		b.WriteString("\t}\n")
	}
	b.WriteString("}\n")
}

// embeddedSupertypeField resolves the embedded field name that carries
// the supertype, and whether it is embedded as a pointer
func embeddedSupertypeField(target *models.Target) (string, bool) {
	simple := target.Supertype
	if i := strings.LastIndexByte(simple, '.'); i >= 0 {
		simple = simple[i+1:]
	}
	for _, embedded := range target.Type.Embedded {
		raw := keys.RawType(embedded)
		if i := strings.LastIndexByte(raw, '.'); i >= 0 {
			raw = raw[i+1:]
		}
		if raw == simple {
			return simple, strings.HasPrefix(embedded, "*")
		}
	}
	return simple, false
}

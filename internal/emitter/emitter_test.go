package emitter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiedantibu/dagger/internal/models"
)

func widgetTarget() *models.Target {
	return &models.Target{
		Type: models.TypeInfo{
			Name:        "Widget",
			Qualified:   "widgets.Widget",
			PackageName: "widgets",
		},
		Fields: []models.Field{
			{Name: "Knob", Type: models.TypeRef{Expr: "Knob", Package: "widgets"}},
		},
		Constructor: &models.Constructor{
			FuncName:       "NewWidget",
			ReturnsPointer: true,
			Explicit:       true,
			Params: []models.Param{
				{Name: "gear", Type: models.TypeRef{Expr: "Gear", Package: "widgets"}},
				{Name: "axle", Type: models.TypeRef{Expr: "Axle", Package: "widgets"}},
			},
		},
	}
}

func emitToMemory(t *testing.T, target *models.Target) (afero.Fs, []models.Artifact) {
	t.Helper()
	fs := afero.NewMemMapFs()
	artifacts, err := New(NewFsSink(fs)).Emit(target)
	require.NoError(t, err)
	return fs, artifacts
}

func TestEmitWritesAdapterFile(t *testing.T) {
	fs, artifacts := emitToMemory(t, widgetTarget())

	require.Len(t, artifacts, 1)
	assert.Equal(t, models.ArtifactInjectAdapter, artifacts[0].Kind)
	assert.Equal(t, "autogen_inject_widget.go", artifacts[0].FileName)

	content, err := afero.ReadFile(fs, "autogen_inject_widget.go")
	require.NoError(t, err)
	assert.Equal(t, artifacts[0].Content, content)
	assert.True(t, strings.HasPrefix(string(content), "// Code generated by dagger. DO NOT EDIT."))
}

func TestSlotDisambiguation(t *testing.T) {
	_, artifacts := emitToMemory(t, widgetTarget())
	text := string(artifacts[0].Content)

	// Both a constructor and fields exist, so slots are namespaced.
	assert.Contains(t, text, "parameter_gear")
	assert.Contains(t, text, "parameter_axle")
	assert.Contains(t, text, "field_Knob")

	// Constructor arguments stay in declared parameter order.
	gear := strings.Index(text, "a.parameter_gear.Get().(Gear)")
	axle := strings.Index(text, "a.parameter_axle.Get().(Axle)")
	require.GreaterOrEqual(t, gear, 0)
	require.GreaterOrEqual(t, axle, 0)
	assert.Less(t, gear, axle)
}

func TestNoDisambiguationWithoutCollisionRisk(t *testing.T) {
	target := widgetTarget()
	target.Fields = nil
	_, artifacts := emitToMemory(t, target)
	text := string(artifacts[0].Content)

	assert.Contains(t, text, "a.gear = linker.RequestBinding(")
	assert.NotContains(t, text, "parameter_gear")
}

func TestEmitIsDeterministic(t *testing.T) {
	_, first := emitToMemory(t, widgetTarget())
	_, second := emitToMemory(t, widgetTarget())

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.True(t, bytes.Equal(first[0].Content, second[0].Content),
		"repeated emission of the same target produced different bytes")
}

func TestAdapterKeysAndDependencies(t *testing.T) {
	_, artifacts := emitToMemory(t, widgetTarget())
	text := string(artifacts[0].Content)

	assert.Contains(t, text, `dagger.NewBaseBinding("widgets.Widget", "members/widgets.Widget", false)`)
	assert.Contains(t, text, `linker.RequestBinding("widgets.Gear", "widgets.Widget", true)`)
	assert.Contains(t, text, `linker.RequestBinding("widgets.Knob", "widgets.Widget", true)`)
	assert.Contains(t, text, `*get = append(*get, "widgets.Gear")`)
	assert.Contains(t, text, `*injectMembers = append(*injectMembers, "widgets.Knob")`)
}

func TestQualifiedFieldAddsImport(t *testing.T) {
	target := &models.Target{
		Type: models.TypeInfo{Name: "Panel", Qualified: "widgets.Panel", PackageName: "widgets"},
		Fields: []models.Field{
			{Name: "Gauge", Type: models.TypeRef{
				Expr:        "parts.Knob",
				Package:     "widgets",
				ImportPaths: []string{"example.com/app/parts"},
			}},
		},
	}

	_, artifacts := emitToMemory(t, target)
	text := string(artifacts[0].Content)

	assert.Contains(t, text, `"example.com/app/parts"`)
	assert.Contains(t, text, "object.Gauge = a.Gauge.Get().(parts.Knob)")
	assert.Contains(t, text, `linker.RequestBinding("parts.Knob", "widgets.Panel", true)`)
}

func TestCompositeFieldImportsEveryPackage(t *testing.T) {
	target := &models.Target{
		Type: models.TypeInfo{Name: "Panel", Qualified: "widgets.Panel", PackageName: "widgets"},
		Fields: []models.Field{
			{Name: "Lookup", Type: models.TypeRef{
				Expr:        "map[parts.Knob]gears.Gear",
				Package:     "widgets",
				ImportPaths: []string{"example.com/app/parts", "example.com/app/gears"},
			}},
		},
	}

	_, artifacts := emitToMemory(t, target)
	text := string(artifacts[0].Content)

	assert.Contains(t, text, `"example.com/app/parts"`)
	assert.Contains(t, text, `"example.com/app/gears"`)
	assert.Contains(t, text, "object.Lookup = a.Lookup.Get().(map[parts.Knob]gears.Gear)")
}

func TestQualifierInFieldKey(t *testing.T) {
	target := &models.Target{
		Type: models.TypeInfo{Name: "Panel", Qualified: "widgets.Panel", PackageName: "widgets"},
		Fields: []models.Field{
			{Name: "Left", Type: models.TypeRef{Expr: "Knob", Qualifier: "left", Package: "widgets"}},
		},
	}

	_, artifacts := emitToMemory(t, target)
	assert.Contains(t, string(artifacts[0].Content), `linker.RequestBinding("@left/widgets.Knob", "widgets.Panel", true)`)
}

func TestSupertypeDelegation(t *testing.T) {
	target := &models.Target{
		Type: models.TypeInfo{
			Name:        "Widget",
			Qualified:   "widgets.Widget",
			PackageName: "widgets",
			Embedded:    []string{"Base"},
		},
		Fields: []models.Field{
			{Name: "Knob", Type: models.TypeRef{Expr: "Knob", Package: "widgets"}},
		},
		Supertype: "widgets.Base",
	}

	_, artifacts := emitToMemory(t, target)
	text := string(artifacts[0].Content)

	// The supertype slot is optional: the members binding may live in
	// another compilation unit.
	assert.Contains(t, text, `a.supertype = linker.RequestBinding("members/widgets.Base", "widgets.Widget", false)`)
	assert.Contains(t, text, `*injectMembers = append(*injectMembers, "members/widgets.Base")`)
	assert.Contains(t, text, "injector.InjectMembers(&object.Base)")
}

func TestSupertypeEmbeddedAsPointer(t *testing.T) {
	target := &models.Target{
		Type: models.TypeInfo{
			Name:        "Widget",
			Qualified:   "widgets.Widget",
			PackageName: "widgets",
			Embedded:    []string{"*Base"},
		},
		Fields: []models.Field{
			{Name: "Knob", Type: models.TypeRef{Expr: "Knob", Package: "widgets"}},
		},
		Supertype: "widgets.Base",
	}

	_, artifacts := emitToMemory(t, target)
	assert.Contains(t, string(artifacts[0].Content), "injector.InjectMembers(object.Base)")
}

func TestValueConstructorInjectsThroughAddress(t *testing.T) {
	target := &models.Target{
		Type: models.TypeInfo{Name: "Knob", Qualified: "parts.Knob", PackageName: "parts"},
		Fields: []models.Field{
			{Name: "Dial", Type: models.TypeRef{Expr: "Dial", Package: "parts"}},
		},
		Constructor: &models.Constructor{FuncName: "NewKnob", ReturnsPointer: false, Explicit: true},
	}

	_, artifacts := emitToMemory(t, target)
	text := string(artifacts[0].Content)
	assert.Contains(t, text, "result := NewKnob()")
	assert.Contains(t, text, "a.InjectMembers(&result)")
}

func TestStaticInjectionRendering(t *testing.T) {
	target := &models.Target{
		Type: models.TypeInfo{Name: "Widget", Qualified: "widgets.Widget", PackageName: "widgets"},
		StaticFields: []models.Field{
			{Name: "DefaultKnob", Type: models.TypeRef{Expr: "Knob", Package: "widgets"}},
		},
	}

	fs, artifacts := emitToMemory(t, target)
	require.Len(t, artifacts, 1)
	assert.Equal(t, models.ArtifactStaticInjection, artifacts[0].Kind)
	assert.Equal(t, "autogen_static_widget.go", artifacts[0].FileName)

	content, err := afero.ReadFile(fs, "autogen_static_widget.go")
	require.NoError(t, err)
	text := string(content)
	assert.Contains(t, text, "WidgetStaticInjection")
	assert.Contains(t, text, `s.DefaultKnob = linker.RequestBinding("widgets.Knob", "widgets.Widget", true)`)
	assert.Contains(t, text, "DefaultKnob = s.DefaultKnob.Get().(Knob)")
}

func TestTargetWithBothKindsEmitsTwoArtifacts(t *testing.T) {
	target := widgetTarget()
	target.StaticFields = []models.Field{
		{Name: "DefaultKnob", Type: models.TypeRef{Expr: "Knob", Package: "widgets"}},
	}

	_, artifacts := emitToMemory(t, target)
	require.Len(t, artifacts, 2)
	assert.Equal(t, models.ArtifactInjectAdapter, artifacts[0].Kind)
	assert.Equal(t, models.ArtifactStaticInjection, artifacts[1].Kind)
}

func TestImportManager(t *testing.T) {
	im := NewImportManager("example.com/dagger/pkg/dagger")
	im.AddUserImport("example.com/app/parts")
	im.AddUserImport("example.com/app/alpha")
	im.AddUserImport("example.com/app/parts")
	im.AddUserImport("")

	block := im.Generate()
	assert.Equal(t, "import (\n\t\"example.com/dagger/pkg/dagger\"\n\t\"example.com/app/alpha\"\n\t\"example.com/app/parts\"\n)\n\n", block)
}

func TestImportManagerSingleImport(t *testing.T) {
	im := NewImportManager("example.com/dagger/pkg/dagger")
	assert.Equal(t, "import \"example.com/dagger/pkg/dagger\"\n\n", im.Generate())
}

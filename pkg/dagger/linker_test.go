package dagger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gadget and knob mirror the shapes generated adapters are built for
type knob struct {
	setting int
}

type gadget struct {
	knob knob
}

// knobAdapter provides knob instances and has no dependencies
type knobAdapter struct {
	BaseBinding
	built int
}

func newKnobAdapter(singleton bool) *knobAdapter {
	return &knobAdapter{BaseBinding: NewBaseBinding("parts.Knob", "members/parts.Knob", singleton)}
}

func (a *knobAdapter) Get() any {
	a.built++
	return knob{setting: 5}
}

// gadgetAdapter provides gadget instances and injects their knob field
type gadgetAdapter struct {
	BaseBinding
	knobHandle Handle
}

func newGadgetAdapter() *gadgetAdapter {
	return &gadgetAdapter{BaseBinding: NewBaseBinding("parts.Gadget", "members/parts.Gadget", false)}
}

func (a *gadgetAdapter) Attach(linker Linker) {
	a.knobHandle = linker.RequestBinding("parts.Knob", "parts.Gadget", true)
}

func (a *gadgetAdapter) Dependencies(get, injectMembers *[]string) {
	*injectMembers = append(*injectMembers, "parts.Knob")
}

func (a *gadgetAdapter) Get() any {
	result := &gadget{}
	a.InjectMembers(result)
	return result
}

func (a *gadgetAdapter) InjectMembers(obj any) {
	object := obj.(*gadget)
	object.knob = a.knobHandle.Get().(knob)
}

func TestLinkAndGet(t *testing.T) {
	linker := NewGraphLinker()
	require.NoError(t, linker.Install(newKnobAdapter(false)))
	require.NoError(t, linker.Install(newGadgetAdapter()))

	linker.Link()
	require.NoError(t, linker.Validate())

	value, err := linker.Get("parts.Gadget")
	require.NoError(t, err)
	g := value.(*gadget)
	assert.Equal(t, 5, g.knob.setting)
}

func TestDuplicateKeyRejected(t *testing.T) {
	linker := NewGraphLinker()
	require.NoError(t, linker.Install(newKnobAdapter(false)))

	err := linker.Install(newKnobAdapter(false))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parts.Knob")

	err = linker.Bind("parts.Knob", func() any { return knob{} })
	assert.Error(t, err)
}

func TestValidateReportsMissingMandatory(t *testing.T) {
	linker := NewGraphLinker()
	require.NoError(t, linker.Install(newGadgetAdapter()))

	linker.Link()
	err := linker.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no binding for "parts.Knob" required by parts.Gadget`)
}

func TestLeafValueSatisfiesDependency(t *testing.T) {
	linker := NewGraphLinker()
	require.NoError(t, linker.Install(newGadgetAdapter()))
	require.NoError(t, linker.Bind("parts.Knob", func() any { return knob{setting: 9} }))

	linker.Link()
	require.NoError(t, linker.Validate())

	value, err := linker.Get("parts.Gadget")
	require.NoError(t, err)
	assert.Equal(t, 9, value.(*gadget).knob.setting)
}

func TestSingletonCaching(t *testing.T) {
	adapter := newKnobAdapter(true)
	linker := NewGraphLinker()
	require.NoError(t, linker.Install(adapter))
	linker.Link()

	first, err := linker.Get("parts.Knob")
	require.NoError(t, err)
	second, err := linker.Get("parts.Knob")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, adapter.built, "singleton constructed more than once")
}

func TestNonSingletonBuildsEachTime(t *testing.T) {
	adapter := newKnobAdapter(false)
	linker := NewGraphLinker()
	require.NoError(t, linker.Install(adapter))
	linker.Link()

	_, _ = linker.Get("parts.Knob")
	_, _ = linker.Get("parts.Knob")
	assert.Equal(t, 2, adapter.built)
}

func TestMembersKeyHandleReturnsAdapter(t *testing.T) {
	adapter := newGadgetAdapter()
	linker := NewGraphLinker()
	require.NoError(t, linker.Install(adapter))
	require.NoError(t, linker.Bind("parts.Knob", func() any { return knob{} }))
	linker.Link()

	handle := linker.RequestBinding("members/parts.Gadget", "test", false)
	injector, ok := handle.Get().(MembersInjector)
	require.True(t, ok)

	g := &gadget{}
	injector.InjectMembers(g)
	assert.Equal(t, 0, g.knob.setting)
}

func TestOptionalMissingBindingResolvesToNil(t *testing.T) {
	linker := NewGraphLinker()
	linker.Link()

	handle := linker.RequestBinding("members/parts.Base", "parts.Gadget", false)
	assert.Nil(t, handle.Get())
}

func TestMandatoryMissingBindingPanicsOnUse(t *testing.T) {
	linker := NewGraphLinker()
	handle := linker.RequestBinding("parts.Knob", "parts.Gadget", true)

	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic")
		assert.Contains(t, r.(string), "parts.Knob")
	}()
	handle.Get()
}

// cycleAdapter constructs through its own key, a construction cycle
type cycleAdapter struct {
	BaseBinding
	dep string
}

func (a *cycleAdapter) Dependencies(get, injectMembers *[]string) {
	*get = append(*get, a.dep)
}

func (a *cycleAdapter) Get() any { return nil }

func TestConstructionCycleDetected(t *testing.T) {
	linker := NewGraphLinker()
	require.NoError(t, linker.Install(&cycleAdapter{
		BaseBinding: NewBaseBinding("a.A", "members/a.A", false), dep: "a.B",
	}))
	require.NoError(t, linker.Install(&cycleAdapter{
		BaseBinding: NewBaseBinding("a.B", "members/a.B", false), dep: "a.A",
	}))

	linker.Link()
	err := linker.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dependency cycle")
	assert.True(t, strings.Contains(err.Error(), "a.A") && strings.Contains(err.Error(), "a.B"))
}

// fanoutAdapter constructs through several keys at once
type fanoutAdapter struct {
	BaseBinding
	deps []string
}

func (a *fanoutAdapter) Dependencies(get, injectMembers *[]string) {
	*get = append(*get, a.deps...)
}

func (a *fanoutAdapter) Get() any { return nil }

func TestCycleReportNamesOnlyTheCyclingPath(t *testing.T) {
	// A dead-end branch explored before the cycling one must not leak
	// into the reported path.
	install := func(l *GraphLinker, key string, deps ...string) {
		require.NoError(t, l.Install(&fanoutAdapter{
			BaseBinding: NewBaseBinding(key, "members/"+key, false), deps: deps,
		}))
	}

	linker := NewGraphLinker()
	install(linker, "a.Root", "a.Dead1", "a.Mid")
	install(linker, "a.Dead1", "a.Dead2")
	install(linker, "a.Dead2")
	install(linker, "a.Mid", "a.Loop")
	install(linker, "a.Loop", "a.Root")

	linker.Link()
	err := linker.Validate()
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "dependency cycle")
	assert.Contains(t, msg, "a.Root")
	assert.Contains(t, msg, "a.Mid")
	assert.Contains(t, msg, "a.Loop")
	assert.NotContains(t, msg, "a.Dead1")
	assert.NotContains(t, msg, "a.Dead2")
}

func TestMembersCycleIsLegal(t *testing.T) {
	// Cycles through members injection are broken at injection time and
	// must not be reported.
	linker := NewGraphLinker()
	require.NoError(t, linker.Install(newGadgetAdapter()))
	require.NoError(t, linker.Bind("parts.Knob", func() any { return knob{} }))

	linker.Link()
	assert.NoError(t, linker.Validate())
}

// staticRecorder is a minimal static injection for phase-order testing
type staticRecorder struct {
	attached bool
	injected bool
	handle   Handle
}

func (s *staticRecorder) Attach(linker Linker) {
	s.attached = true
	s.handle = linker.RequestBinding("parts.Knob", "statics", true)
}

func (s *staticRecorder) Inject() {
	s.injected = true
	_ = s.handle.Get().(knob)
}

func TestStaticInjectionPhases(t *testing.T) {
	static := &staticRecorder{}
	linker := NewGraphLinker()
	require.NoError(t, linker.Bind("parts.Knob", func() any { return knob{} }))
	linker.InstallStatic(static)

	linker.Link()
	assert.True(t, static.attached)
	assert.False(t, static.injected)

	require.NoError(t, linker.Validate())
	linker.InjectStatics()
	assert.True(t, static.injected)
}

func TestLinkIsRepeatable(t *testing.T) {
	linker := NewGraphLinker()
	require.NoError(t, linker.Install(newGadgetAdapter()))
	require.NoError(t, linker.Bind("parts.Knob", func() any { return knob{} }))

	linker.Link()
	linker.Link()
	require.NoError(t, linker.Validate(), "re-linking a fixed graph must stay valid")

	value, err := linker.Get("parts.Gadget")
	require.NoError(t, err)
	assert.NotNil(t, value)
}

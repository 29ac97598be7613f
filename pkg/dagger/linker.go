package dagger

import (
	"fmt"
	"strings"
)

// GraphLinker is the reference Linker: an in-memory binding graph with
// attach-time key resolution, mandatory-request validation and
// construction-cycle detection. Applications install generated adapters
// and leaf value providers, call Link, then pull instances by key.
type GraphLinker struct {
	adapters   map[string]Binding
	values     map[string]func() any
	statics    []StaticInjection
	singletons map[string]any
	requests   []bindingRequest
}

type bindingRequest struct {
	key         string
	requestedBy string
	mandatory   bool
}

// NewGraphLinker creates an empty linker
func NewGraphLinker() *GraphLinker {
	return &GraphLinker{
		adapters:   make(map[string]Binding),
		values:     make(map[string]func() any),
		singletons: make(map[string]any),
	}
}

// Install registers a generated adapter under its value key (when it
// provides one) and its members key
func (l *GraphLinker) Install(binding Binding) error {
	if key := binding.Key(); key != "" {
		if err := l.claim(key); err != nil {
			return err
		}
		l.adapters[key] = binding
	}
	if membersKey := binding.MembersKey(); membersKey != "" {
		if err := l.claim(membersKey); err != nil {
			return err
		}
		l.adapters[membersKey] = binding
	}
	return nil
}

// InstallStatic registers a generated static injection
func (l *GraphLinker) InstallStatic(static StaticInjection) {
	l.statics = append(l.statics, static)
}

// Bind registers a leaf value provider under a key
func (l *GraphLinker) Bind(key string, provider func() any) error {
	if err := l.claim(key); err != nil {
		return err
	}
	l.values[key] = provider
	return nil
}

func (l *GraphLinker) claim(key string) error {
	if _, dup := l.adapters[key]; dup {
		return fmt.Errorf("dagger: binding already installed for key %q", key)
	}
	if _, dup := l.values[key]; dup {
		return fmt.Errorf("dagger: binding already installed for key %q", key)
	}
	return nil
}

// RequestBinding implements Linker. Requests are recorded so Validate
// can report every missing mandatory key after attach.
func (l *GraphLinker) RequestBinding(key, requestedBy string, mandatory bool) Handle {
	l.requests = append(l.requests, bindingRequest{key: key, requestedBy: requestedBy, mandatory: mandatory})
	return &graphHandle{linker: l, key: key, mandatory: mandatory, requestedBy: requestedBy}
}

// Link attaches every installed adapter and static injection. Attach is
// idempotent, so Link may be called again as the graph grows.
func (l *GraphLinker) Link() {
	l.requests = l.requests[:0]
	seen := make(map[Binding]bool)
	for _, binding := range l.adapters {
		if seen[binding] {
			continue
		}
		seen[binding] = true
		binding.Attach(l)
	}
	for _, static := range l.statics {
		static.Attach(l)
	}
}

// Validate reports missing mandatory bindings and construction cycles.
// It inspects the adapters' own dependency enumeration, so no
// re-classification happens at runtime.
func (l *GraphLinker) Validate() error {
	var problems []string

	for _, request := range l.requests {
		if !request.mandatory {
			continue
		}
		if !l.bound(request.key) {
			problems = append(problems, fmt.Sprintf("no binding for %q required by %s", request.key, request.requestedBy))
		}
	}

	if cycle := l.findConstructionCycle(); len(cycle) > 0 {
		problems = append(problems, fmt.Sprintf("dependency cycle: %s", strings.Join(cycle, " -> ")))
	}

	if len(problems) > 0 {
		return fmt.Errorf("dagger: invalid binding graph:\n  %s", strings.Join(problems, "\n  "))
	}
	return nil
}

// Get resolves one value key to an instance
func (l *GraphLinker) Get(key string) (any, error) {
	if provider, ok := l.values[key]; ok {
		return provider(), nil
	}
	binding, ok := l.adapters[key]
	if !ok {
		return nil, fmt.Errorf("dagger: no binding for key %q", key)
	}
	provider, ok := binding.(Provider)
	if !ok || binding.Key() != key {
		return nil, fmt.Errorf("dagger: binding for key %q is not providable", key)
	}
	if binding.Singleton() {
		if cached, hit := l.singletons[key]; hit {
			return cached, nil
		}
		instance := provider.Get()
		l.singletons[key] = instance
		return instance, nil
	}
	return provider.Get(), nil
}

// InjectStatics runs the inject phase of every installed static injection
func (l *GraphLinker) InjectStatics() {
	for _, static := range l.statics {
		static.Inject()
	}
}

func (l *GraphLinker) bound(key string) bool {
	if _, ok := l.values[key]; ok {
		return true
	}
	_, ok := l.adapters[key]
	return ok
}

// findConstructionCycle walks construction dependencies only; cycles
// through members injection are legal and broken at injection time
func (l *GraphLinker) findConstructionCycle() []string {
	const (
		visiting = 1
		done     = 2
	)
	state := make(map[string]int)
	var cycle []string

	var visit func(key string, trail []string) bool
	visit = func(key string, trail []string) bool {
		switch state[key] {
		case visiting:
			cycle = append(append(cycle, trail...), key)
			return true
		case done:
			return false
		}
		state[key] = visiting

		if binding, ok := l.adapters[key]; ok && binding.Key() == key {
			var get, injectMembers []string
			binding.Dependencies(&get, &injectMembers)
			// Sibling branches must not share the trail's backing array,
			// or a deeper branch overwrites the path being reported.
			next := make([]string, len(trail)+1)
			copy(next, trail)
			next[len(trail)] = key
			for _, dep := range get {
				if visit(dep, next) {
					return true
				}
			}
		}

		state[key] = done
		return false
	}

	for key, binding := range l.adapters {
		if binding.Key() != key {
			continue
		}
		if visit(key, nil) {
			return cycle
		}
	}
	return nil
}

// graphHandle is the deferred reference returned from RequestBinding
type graphHandle struct {
	linker      *GraphLinker
	key         string
	requestedBy string
	mandatory   bool
}

// Get implements Handle. For a members key the bound adapter itself is
// the value; for a value key the bound provider supplies an instance.
func (h *graphHandle) Get() any {
	if binding, ok := h.linker.adapters[h.key]; ok {
		if binding.MembersKey() == h.key && binding.Key() != h.key {
			return binding
		}
		value, err := h.linker.Get(h.key)
		if err == nil {
			return value
		}
	}
	if provider, ok := h.linker.values[h.key]; ok {
		return provider()
	}
	if h.mandatory {
		panic(fmt.Sprintf("dagger: unsatisfied binding %q required by %s", h.key, h.requestedBy))
	}
	return nil
}

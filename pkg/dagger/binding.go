// Package dagger is the runtime contract between generated injection
// adapters and the linker that wires them together. Generated code
// depends only on this package.
package dagger

// Handle is a deferred reference to a binding, resolved during attach
// and read during use
type Handle interface {
	Get() any
}

// Linker resolves binding keys to handles. RequestBinding is invoked
// only during the attach phase; the returned handle's current value is
// read during the use phase.
type Linker interface {
	RequestBinding(key, requestedBy string, mandatory bool) Handle
}

// Binding is the common protocol of every generated inject adapter.
// Attach must be idempotent: re-attaching against a fixed graph always
// converges to the same resolved handles.
type Binding interface {
	Key() string
	MembersKey() string
	Singleton() bool
	Attach(linker Linker)
	Dependencies(get, injectMembers *[]string)
}

// Provider supplies new instances; implemented by adapters whose target
// has a constructor
type Provider interface {
	Get() any
}

// MembersInjector populates an already-constructed instance's fields;
// implemented by adapters whose target has instance fields or an
// injectable supertype
type MembersInjector interface {
	InjectMembers(obj any)
}

// StaticInjection is the protocol of generated static injections: no
// construction phase and no instance argument
type StaticInjection interface {
	Attach(linker Linker)
	Inject()
}

// BaseBinding carries the identity metadata every generated adapter is
// constructed with, and supplies no-op attach and dependency enumeration for
// adapters without dependencies. Generated adapters embed it.
type BaseBinding struct {
	key        string
	membersKey string
	singleton  bool
}

// NewBaseBinding creates the embedded metadata record. key is empty for
// adapters that only support members injection.
func NewBaseBinding(key, membersKey string, singleton bool) BaseBinding {
	return BaseBinding{key: key, membersKey: membersKey, singleton: singleton}
}

// Key returns the value key this binding provides, or "" for
// members-injection-only bindings
func (b BaseBinding) Key() string { return b.key }

// MembersKey returns the members-injection key of the bound type
func (b BaseBinding) MembersKey() string { return b.membersKey }

// Singleton reports the singleton metadata carried from the source
// marker; lifecycle itself is the linker owner's concern
func (b BaseBinding) Singleton() bool { return b.singleton }

// Attach is a no-op for adapters without dependencies
func (b BaseBinding) Attach(Linker) {}

// Dependencies is a no-op for adapters without dependencies
func (b BaseBinding) Dependencies(get, injectMembers *[]string) {}

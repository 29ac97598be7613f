// Package resolver drives the multi-round work list: every round it
// re-derives each pending target's classification from the current
// symbol universe, tests readiness, and hands ready targets to the
// emitter. Targets whose dependency types are not yet resolvable are
// deferred to a later round instead of partially emitted.
package resolver

import (
	"strings"

	"github.com/xiedantibu/dagger/internal/collector"
	"github.com/xiedantibu/dagger/internal/errors"
	"github.com/xiedantibu/dagger/internal/models"
	"github.com/xiedantibu/dagger/internal/report"
	"github.com/xiedantibu/dagger/internal/symbols"
)

// AdapterEmitter produces generated artifacts for a ready target
type AdapterEmitter interface {
	Emit(target *models.Target) ([]models.Artifact, error)
}

// Resolver owns the pending set and runs the per-round pass
type Resolver struct {
	universe  symbols.Universe
	collector *collector.Collector
	emitter   AdapterEmitter
	reporter  *report.Reporter
	pending   *collector.PendingSet
	emitted   map[string]bool
	settled   map[string]bool
	artifacts []models.Artifact
}

// New creates a resolver over the given universe, emitter and reporter
func New(universe symbols.Universe, emitter AdapterEmitter, reporter *report.Reporter) *Resolver {
	return &Resolver{
		universe:  universe,
		collector: collector.NewCollector(),
		emitter:   emitter,
		reporter:  reporter,
		pending:   collector.NewPendingSet(),
		emitted:   make(map[string]bool),
		settled:   make(map[string]bool),
	}
}

// Round runs one complete sequential pass: newly discovered target names
// are unioned into the pending set, then every pending target is
// re-classified and, if ready, emitted. Returns the number of targets
// emitted this round. The pending set is recomputed and swapped at the
// end of the pass, never mutated mid-traversal.
func (r *Resolver) Round() int {
	var discovered []string
	for _, name := range r.collector.Collect(r.universe) {
		if !r.settled[name] {
			discovered = append(discovered, name)
		}
	}
	r.pending.Union(discovered)

	var remaining []string
	emitted := 0

	for _, name := range r.pending.Names() {
		info, found := r.universe.Lookup(name)
		if !found || !r.declarationSeen(info) {
			remaining = append(remaining, name)
			continue
		}

		target, hadErrors := r.classify(info)
		if hadErrors {
			// Structural diagnostics suppress emission permanently, but
			// the pass keeps going so every problem surfaces in one run.
			r.settled[name] = true
			continue
		}

		if !r.ready(target) {
			remaining = append(remaining, name)
			continue
		}

		artifacts, err := r.emitter.Emit(target)
		if err != nil {
			r.reporter.ReportCause(errors.EmissionErrorCode, name, err, "code gen failed for %s: %v", name, err)
			r.settled[name] = true
			continue
		}

		r.artifacts = append(r.artifacts, artifacts...)
		r.emitted[name] = true
		r.settled[name] = true
		emitted++
	}

	r.pending.Swap(remaining)
	return emitted
}

// Finish marks the end of the last round. Anything still pending is a
// permanent error; the message enumerates every unresolved name.
func (r *Resolver) Finish() {
	if r.pending.Len() == 0 {
		return
	}
	names := r.pending.Names()
	r.reporter.Report(errors.UnresolvedDependencyErrorCode, strings.Join(names, ", "), errors.SourceLocation{},
		"could not find injection type required by %s", strings.Join(names, ", "))
}

// Pending returns the names still awaiting resolution
func (r *Resolver) Pending() []string {
	return r.pending.Names()
}

// Artifacts returns every artifact emitted so far, in emission order
func (r *Resolver) Artifacts() []models.Artifact {
	out := make([]models.Artifact, len(r.artifacts))
	copy(out, r.artifacts)
	return out
}

// EmittedCount returns the number of targets emitted so far
func (r *Resolver) EmittedCount() int {
	return len(r.emitted)
}

// declarationSeen guards against targets collected through a marked
// member before their own type declaration was scanned
func (r *Resolver) declarationSeen(info models.TypeInfo) bool {
	return r.universe.Resolved(models.TypeRef{Expr: info.Name, Package: info.PackageName})
}

// classify re-derives the target's full member classification from the
// current universe. Diagnostics are immediate but non-fatal for the
// pass: classification continues so a single pass surfaces every
// problem on the target.
func (r *Resolver) classify(info models.TypeInfo) (*models.Target, bool) {
	target := &models.Target{Type: info}
	hadErrors := false
	var ctor *models.Constructor

	for _, member := range info.Members {
		switch member.Kind {
		case models.KindInstanceField:
			target.Fields = append(target.Fields, models.Field{Name: member.Name, Type: member.Type})

		case models.KindStaticField:
			target.StaticFields = append(target.StaticFields, models.Field{Name: member.Name, Type: member.Type})

		case models.KindConstructor:
			if ctor != nil {
				r.reporter.Report(errors.DuplicateConstructorErrorCode, member.Name, member.Location,
					"too many injectable constructors on %s", info.Qualified)
				hadErrors = true
			} else if info.Abstract {
				r.reporter.Report(errors.AbstractConstructorErrorCode, member.Name, member.Location,
					"abstract type %s must not have a marked constructor", info.Qualified)
				hadErrors = true
			}
			ctor = &models.Constructor{
				FuncName:       member.Name,
				Params:         member.Params,
				ReturnsPointer: strings.HasPrefix(member.Type.Expr, "*"),
				Explicit:       true,
			}
			if member.Singleton {
				target.Singleton = true
			}

		default:
			r.reporter.Report(errors.UnsupportedMemberErrorCode, member.Name, member.Location,
				"cannot inject %s on %s", member.Name, info.Qualified)
			hadErrors = true
		}
	}

	// Permissive no-arg fallback: adopted only when one exists and is
	// accessible. An inaccessible one leaves the target constructor-less,
	// which field-only targets rely on.
	if ctor == nil && !info.Abstract {
		if fallback, ok := r.universe.NoArgConstructor(info.Qualified); ok {
			ctor = &fallback
		}
	}
	target.Constructor = ctor

	if supertype, ok := r.universe.Supertype(info.Qualified); ok {
		target.Supertype = supertype
	}

	return target, hadErrors
}

// ready tests whether every type referenced by instance fields,
// constructor parameters and static fields is currently resolvable
func (r *Resolver) ready(target *models.Target) bool {
	for _, field := range target.Fields {
		if !r.universe.Resolved(field.Type) {
			return false
		}
	}
	if target.Constructor != nil {
		for _, param := range target.Constructor.Params {
			if !r.universe.Resolved(param.Type) {
				return false
			}
		}
	}
	for _, field := range target.StaticFields {
		if !r.universe.Resolved(field.Type) {
			return false
		}
	}
	return true
}

// Package emitter turns ready injection targets into generated Go
// source artifacts implementing the attach/use binding protocol.
package emitter

import (
	"fmt"
	"strings"

	"github.com/xiedantibu/dagger/internal/models"
)

// DefaultRuntimeImport is the import path of the runtime package every
// generated artifact compiles against
const DefaultRuntimeImport = "github.com/xiedantibu/dagger/pkg/dagger"

// generatedHeader opens every artifact
const generatedHeader = "// Code generated by dagger. DO NOT EDIT.\n" +
	"// This file was automatically generated and should not be modified manually.\n\n"

// Emitter produces generated binding artifacts for ready targets
type Emitter struct {
	sink          Sink
	runtimeImport string
}

// New creates an emitter writing through the given sink
func New(sink Sink) *Emitter {
	return &Emitter{sink: sink, runtimeImport: DefaultRuntimeImport}
}

// Emit decides the artifact kinds for a ready target, renders them and
// writes each through the sink. An InjectAdapter is produced iff a
// constructor exists or the target has instance fields; a
// StaticInjection iff it has static fields. Artifacts are immutable
// once emitted and never re-derived for the same target.
func (e *Emitter) Emit(target *models.Target) ([]models.Artifact, error) {
	var artifacts []models.Artifact

	if target.NeedsInjectAdapter() {
		artifact := models.Artifact{
			TargetName: target.Type.Qualified,
			Kind:       models.ArtifactInjectAdapter,
			Dir:        target.Type.Dir,
			FileName:   artifactFileName("inject", target.Type.Name),
			Content:    e.renderInjectAdapter(target),
		}
		if err := e.sink.WriteArtifact(artifact); err != nil {
			return nil, err
		}
		artifacts = append(artifacts, artifact)
	}

	if target.NeedsStaticInjection() {
		artifact := models.Artifact{
			TargetName: target.Type.Qualified,
			Kind:       models.ArtifactStaticInjection,
			Dir:        target.Type.Dir,
			FileName:   artifactFileName("static", target.Type.Name),
			Content:    e.renderStaticInjection(target),
		}
		if err := e.sink.WriteArtifact(artifact); err != nil {
			return nil, err
		}
		artifacts = append(artifacts, artifact)
	}

	return artifacts, nil
}

func artifactFileName(kind, typeName string) string {
	return fmt.Sprintf("autogen_%s_%s.go", kind, strings.ToLower(typeName))
}

// slot is one deferred binding reference held by a generated adapter
type slot struct {
	name      string // adapter field name
	key       string // binding key requested during attach
	mandatory bool
}

// paramSlot names a constructor-parameter slot, namespaced away from
// field slots when the target has both
func paramSlot(disambiguate bool, name string) string {
	if disambiguate {
		return "parameter_" + name
	}
	return name
}

// fieldSlot names an instance-field slot
func fieldSlot(disambiguate bool, name string) string {
	if disambiguate {
		return "field_" + name
	}
	return name
}

// writeSlotFields renders the handle fields of an adapter struct with
// gofmt-style alignment
func writeSlotFields(b *strings.Builder, slots []slot) {
	width := 0
	for _, s := range slots {
		if len(s.name) > width {
			width = len(s.name)
		}
	}
	for _, s := range slots {
		b.WriteString(fmt.Sprintf("\t%-*s dagger.Handle\n", width, s.name))
	}
}

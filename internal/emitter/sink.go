package emitter

import (
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/xiedantibu/dagger/internal/errors"
	"github.com/xiedantibu/dagger/internal/models"
)

// Sink accepts one named artifact per (target, kind). Writing is
// all-or-nothing per artifact: content arrives fully rendered and is
// written in a single operation, so no partial artifact is ever visible.
type Sink interface {
	WriteArtifact(artifact models.Artifact) error
}

// FsSink writes artifacts to a filesystem
type FsSink struct {
	fs afero.Fs
}

// NewFsSink creates a sink over the given filesystem
func NewFsSink(fs afero.Fs) *FsSink {
	return &FsSink{fs: fs}
}

// NewOsSink creates a sink over the real filesystem
func NewOsSink() *FsSink {
	return NewFsSink(afero.NewOsFs())
}

// WriteArtifact implements Sink
func (s *FsSink) WriteArtifact(artifact models.Artifact) error {
	if artifact.Dir != "" {
		if err := s.fs.MkdirAll(artifact.Dir, 0o755); err != nil {
			return errors.Wrapf(errors.FileSystemErrorCode, err, "failed to create directory %s", artifact.Dir)
		}
	}
	path := filepath.Join(artifact.Dir, artifact.FileName)
	if err := afero.WriteFile(s.fs, path, artifact.Content, 0o644); err != nil {
		return errors.Wrapf(errors.FileSystemErrorCode, err, "failed to write artifact %s", path)
	}
	return nil
}

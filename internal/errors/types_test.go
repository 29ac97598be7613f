package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestBaseErrorRendering(t *testing.T) {
	err := Newf(DuplicateConstructorErrorCode, "too many injectable constructors on %s", "widgets.Widget")
	if err.Error() != "too many injectable constructors on widgets.Widget" {
		t.Errorf("Error() = %q", err.Error())
	}

	located := err.WithLocation(SourceLocation{File: "widget.go", Line: 12, Column: 3})
	if located.Error() != "widget.go:12:3: too many injectable constructors on widgets.Widget" {
		t.Errorf("Error() = %q", located.Error())
	}
}

func TestErrorCodeStrings(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected string
	}{
		{SyntaxErrorCode, "SyntaxError"},
		{DuplicateConstructorErrorCode, "DuplicateConstructorError"},
		{AbstractConstructorErrorCode, "AbstractConstructorError"},
		{UnsupportedMemberErrorCode, "UnsupportedMemberError"},
		{UnresolvedDependencyErrorCode, "UnresolvedDependencyError"},
		{EmissionErrorCode, "EmissionError"},
		{FileSystemErrorCode, "FileSystemError"},
		{UnknownErrorCode, "UnknownError"},
	}

	for _, tt := range tests {
		if got := tt.code.String(); got != tt.expected {
			t.Errorf("%d.String() = %q, want %q", tt.code, got, tt.expected)
		}
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrapf(FileSystemErrorCode, cause, "failed to write artifact %s", "autogen_inject_widget.go")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped cause lost")
	}
	if err.ErrorCode() != FileSystemErrorCode {
		t.Errorf("ErrorCode() = %v", err.ErrorCode())
	}
}

func TestSourceLocation(t *testing.T) {
	tests := []struct {
		loc      SourceLocation
		expected string
	}{
		{SourceLocation{}, "unknown location"},
		{SourceLocation{File: "widget.go"}, "widget.go"},
		{SourceLocation{File: "widget.go", Line: 12}, "widget.go:12"},
		{SourceLocation{File: "widget.go", Line: 12, Column: 3}, "widget.go:12:3"},
	}

	for _, tt := range tests {
		if got := tt.loc.String(); got != tt.expected {
			t.Errorf("String() = %q, want %q", got, tt.expected)
		}
	}

	if !(SourceLocation{}).IsEmpty() {
		t.Error("empty location not recognized")
	}
}

func TestMultipleErrors(t *testing.T) {
	multi := NewMultipleErrors()
	if !multi.IsEmpty() {
		t.Fatal("fresh collection not empty")
	}

	multi.Add(New(DuplicateConstructorErrorCode, "too many injectable constructors on widgets.Widget"))
	multi.Add(New(UnresolvedDependencyErrorCode, "could not find injection type required by widgets.Panel"))

	if multi.Count() != 2 {
		t.Fatalf("Count() = %d", multi.Count())
	}
	if !multi.HasCode(DuplicateConstructorErrorCode) {
		t.Error("HasCode(DuplicateConstructorError) = false")
	}
	if got := multi.GetByCode(UnresolvedDependencyErrorCode); len(got) != 1 {
		t.Errorf("GetByCode returned %d errors", len(got))
	}

	rendered := multi.Error()
	if !strings.Contains(rendered, "multiple errors (2 total)") {
		t.Errorf("Error() = %q", rendered)
	}
	if !strings.Contains(rendered, "widgets.Panel") {
		t.Errorf("Error() = %q missing second message", rendered)
	}
}

func TestSuggestionsAccumulate(t *testing.T) {
	err := New(SyntaxErrorCode, "static marker requires a target type name").
		WithSuggestion("write //dagger::static TypeName above the var declaration")

	if len(err.Suggestions()) != 1 {
		t.Errorf("Suggestions() = %v", err.Suggestions())
	}
}

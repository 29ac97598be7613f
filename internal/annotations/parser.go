package annotations

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/xiedantibu/dagger/internal/errors"
)

// markerGrammar is the participle grammar for a single marker comment.
// Examples:
//
//	//dagger::provide
//	//dagger::provide -Singleton
//	//dagger::static Widget
type markerGrammar struct {
	Kind   string   `parser:"Comment Dagger Separator @Ident"`
	Target string   `parser:"@Ident?"`
	Flags  []string `parser:"(Dash @Ident)*"`
}

// Parser parses //dagger:: marker comments
type Parser struct {
	parser *participle.Parser[markerGrammar]
}

// NewParser builds the marker parser
func NewParser() *Parser {
	lex := lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Comment", Pattern: `//`},
		{Name: "Dagger", Pattern: `dagger`},
		{Name: "Separator", Pattern: `::`},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_.]*`},
		{Name: "Dash", Pattern: `-`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	parser := participle.MustBuild[markerGrammar](
		participle.Lexer(lex),
		participle.Elide("Whitespace"),
	)

	return &Parser{parser: parser}
}

// IsMarker reports whether a comment line carries an injection marker
func (p *Parser) IsMarker(comment string) bool {
	text := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(comment), "//"))
	return strings.HasPrefix(text, MarkerPrefix)
}

// ParseMarker parses a single marker comment line
func (p *Parser) ParseMarker(comment string, location errors.SourceLocation) (*ParsedMarker, error) {
	grammar, err := p.parser.ParseString(location.File, strings.TrimSpace(comment))
	if err != nil {
		return nil, errors.Wrapf(errors.SyntaxErrorCode, err, "invalid marker '%s'", strings.TrimSpace(comment)).
			WithLocation(location).
			WithSuggestion("expected //dagger::provide [-Singleton] or //dagger::static TypeName")
	}

	kind, err := ParseMarkerKind(grammar.Kind)
	if err != nil {
		return nil, errors.Wrap(errors.SyntaxErrorCode, err.Error(), err).
			WithLocation(location).
			WithSuggestion("supported markers are 'provide' and 'static'")
	}

	marker := &ParsedMarker{
		Kind:     kind,
		Target:   grammar.Target,
		Location: location,
		Raw:      strings.TrimSpace(comment),
	}

	for _, flag := range grammar.Flags {
		switch flag {
		case "Singleton":
			marker.Singleton = true
		default:
			return nil, errors.Newf(errors.SyntaxErrorCode, "unknown marker flag '-%s'", flag).
				WithLocation(location).
				WithSuggestion("the only supported flag is -Singleton")
		}
	}

	if kind == StaticMarker && marker.Target == "" {
		return nil, errors.New(errors.SyntaxErrorCode, "static marker requires a target type name").
			WithLocation(location).
			WithSuggestion("write //dagger::static TypeName above the var declaration")
	}
	if kind == StaticMarker && marker.Singleton {
		return nil, errors.New(errors.SyntaxErrorCode, "-Singleton is not valid on static markers").
			WithLocation(location)
	}

	return marker, nil
}

// FindMarker scans a doc comment block for the first marker line
func (p *Parser) FindMarker(lines []string, location errors.SourceLocation) (*ParsedMarker, error) {
	for _, line := range lines {
		if p.IsMarker(line) {
			return p.ParseMarker(line, location)
		}
	}
	return nil, fmt.Errorf("no marker found")
}

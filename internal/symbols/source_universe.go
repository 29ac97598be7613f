package symbols

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/xiedantibu/dagger/internal/annotations"
	"github.com/xiedantibu/dagger/internal/errors"
	"github.com/xiedantibu/dagger/internal/keys"
	"github.com/xiedantibu/dagger/internal/models"
)

// SourceUniverse is the go/ast-backed implementation of Universe. Each
// AddDirectory or AddSource call extends the universe; the driver feeds
// it one batch of packages per round.
type SourceUniverse struct {
	fileSet  *token.FileSet
	markers  *annotations.Parser
	types    map[string]*models.TypeInfo
	declared map[string]bool // qualified names of fully declared types
	expected map[string]bool // package names that are part of this compilation
	noArg    map[string]models.Constructor
	marked   []models.MarkedMember
}

// NewSourceUniverse creates an empty universe
func NewSourceUniverse() *SourceUniverse {
	return &SourceUniverse{
		fileSet:  token.NewFileSet(),
		markers:  annotations.NewParser(),
		types:    make(map[string]*models.TypeInfo),
		declared: make(map[string]bool),
		expected: make(map[string]bool),
		noArg:    make(map[string]models.Constructor),
	}
}

// ExpectPackage declares a package name as part of the compilation, so
// references into it stay unresolved until its sources are scanned
func (u *SourceUniverse) ExpectPackage(name string) {
	if name != "" {
		u.expected[name] = true
	}
}

// AddDirectory scans one directory (one package) into the universe.
// Test files and previously generated files are skipped.
func (u *SourceUniverse) AddDirectory(path string) error {
	entries, err := os.ReadDir(path)
	if err != nil {
		return errors.Wrapf(errors.FileSystemErrorCode, err, "failed to read directory %s", path)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") {
			continue
		}
		if strings.HasSuffix(name, "_test.go") || strings.HasPrefix(name, "autogen_") {
			continue
		}

		filename := filepath.Join(path, name)
		file, err := parser.ParseFile(u.fileSet, filename, nil, parser.ParseComments)
		if err != nil {
			return errors.Wrapf(errors.SyntaxErrorCode, err, "failed to parse %s", filename)
		}
		if err := u.addFile(filename, file); err != nil {
			return err
		}
	}

	return nil
}

// AddSource parses source code from a string, primarily for tests
func (u *SourceUniverse) AddSource(filename, source string) error {
	file, err := parser.ParseFile(u.fileSet, filename, source, parser.ParseComments)
	if err != nil {
		return errors.Wrapf(errors.SyntaxErrorCode, err, "failed to parse source %s", filename)
	}
	return u.addFile(filename, file)
}

// Lookup implements Universe
func (u *SourceUniverse) Lookup(qualified string) (models.TypeInfo, bool) {
	info, ok := u.types[qualified]
	if !ok {
		return models.TypeInfo{}, false
	}
	return *info, true
}

// Marked implements Universe
func (u *SourceUniverse) Marked() []models.MarkedMember {
	out := make([]models.MarkedMember, len(u.marked))
	copy(out, u.marked)
	return out
}

// Resolved implements Universe
func (u *SourceUniverse) Resolved(ref models.TypeRef) bool {
	for _, base := range baseTypeNames(ref.Expr) {
		if isBuiltin(base) {
			continue
		}
		if pkg, _, ok := strings.Cut(base, "."); ok {
			// Qualified reference: unresolved only while its package is
			// part of the compilation and the type has not been seen.
			if u.expected[pkg] && !u.declared[base] {
				return false
			}
			continue
		}
		if !u.declared[ref.Package+"."+base] {
			return false
		}
	}
	return true
}

// Supertype implements Universe
func (u *SourceUniverse) Supertype(qualified string) (string, bool) {
	info, ok := u.types[qualified]
	if !ok {
		return "", false
	}
	for _, embedded := range info.Embedded {
		q := keys.RawType(embedded)
		if !strings.Contains(q, ".") {
			q = qualify(info.PackageName, q)
		}
		if super, ok := u.types[q]; ok && len(super.Members) > 0 {
			return q, true
		}
	}
	return "", false
}

// NoArgConstructor implements Universe
func (u *SourceUniverse) NoArgConstructor(qualified string) (models.Constructor, bool) {
	ctor, ok := u.noArg[qualified]
	return ctor, ok
}

// addFile registers everything one parsed file declares
func (u *SourceUniverse) addFile(filename string, file *ast.File) error {
	pkg := file.Name.Name
	u.expected[pkg] = true
	imports := fileImports(file)
	dir := filepath.Dir(filename)

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			if err := u.addGenDecl(filename, pkg, dir, imports, d); err != nil {
				return err
			}
		case *ast.FuncDecl:
			if err := u.addFuncDecl(filename, pkg, imports, d); err != nil {
				return err
			}
		}
	}

	return nil
}

func (u *SourceUniverse) addGenDecl(filename, pkg, dir string, imports map[string]importedPackage, decl *ast.GenDecl) error {
	switch decl.Tok {
	case token.TYPE:
		for _, spec := range decl.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			u.addTypeSpec(filename, pkg, dir, imports, typeSpec)
		}
	case token.VAR:
		marker, err := u.declMarker(filename, decl.Doc)
		if err != nil {
			return err
		}
		if marker == nil {
			return nil
		}
		if marker.Kind != annotations.StaticMarker {
			return errors.New(errors.SyntaxErrorCode, "provide marker is only valid on functions").
				WithLocation(marker.Location).
				WithSuggestion("use //dagger::static TypeName to mark static fields")
		}
		return u.addStaticVars(pkg, imports, marker, decl)
	}
	return nil
}

func (u *SourceUniverse) addTypeSpec(filename, pkg, dir string, imports map[string]importedPackage, spec *ast.TypeSpec) {
	qualified := qualify(pkg, spec.Name.Name)
	info := u.typeInfo(qualified, pkg, spec.Name.Name)
	info.Dir = dir
	u.declared[qualified] = true

	switch t := spec.Type.(type) {
	case *ast.StructType:
		for _, field := range t.Fields.List {
			if len(field.Names) == 0 {
				embedded, _ := canonicalize(renderExpr(field.Type), imports)
				info.Embedded = append(info.Embedded, embedded)
				continue
			}
			if field.Tag == nil {
				continue
			}
			tag, ok := annotations.ParseFieldTag(field.Tag.Value)
			if !ok {
				continue
			}
			ref := typeRef(field.Type, pkg, imports)
			ref.Qualifier = tag.Qualifier
			for _, name := range field.Names {
				member := models.Member{
					Name:     name.Name,
					Kind:     models.KindInstanceField,
					Type:     ref,
					Location: u.location(filename, field.Pos()),
				}
				u.attachMember(qualified, member)
			}
		}
	case *ast.InterfaceType:
		info.Abstract = true
	}
}

func (u *SourceUniverse) addStaticVars(pkg string, imports map[string]importedPackage, marker *annotations.ParsedMarker, decl *ast.GenDecl) error {
	owner := marker.Target
	if !strings.Contains(owner, ".") {
		owner = qualify(pkg, owner)
	}

	for _, spec := range decl.Specs {
		valueSpec, ok := spec.(*ast.ValueSpec)
		if !ok {
			continue
		}
		if valueSpec.Type == nil {
			return errors.New(errors.SyntaxErrorCode, "static injection var requires an explicit type").
				WithLocation(marker.Location)
		}
		for _, name := range valueSpec.Names {
			member := models.Member{
				Name:     name.Name,
				Kind:     models.KindStaticField,
				Type:     typeRef(valueSpec.Type, pkg, imports),
				Location: marker.Location,
			}
			u.attachMember(owner, member)
		}
	}

	return nil
}

func (u *SourceUniverse) addFuncDecl(filename, pkg string, imports map[string]importedPackage, decl *ast.FuncDecl) error {
	marker, err := u.declMarker(filename, decl.Doc)
	if err != nil {
		return err
	}

	if marker == nil {
		u.recordFallbackCandidate(pkg, decl)
		return nil
	}

	if marker.Kind != annotations.ProvideMarker {
		return errors.New(errors.SyntaxErrorCode, "static marker is only valid on var declarations").
			WithLocation(marker.Location)
	}

	location := u.location(filename, decl.Pos())

	// A marked method is an unsupported member of its receiver type.
	if decl.Recv != nil && len(decl.Recv.List) > 0 {
		owner := qualify(pkg, keys.RawType(renderExpr(decl.Recv.List[0].Type)))
		u.attachMember(owner, models.Member{
			Name:     decl.Name.Name,
			Kind:     models.KindUnsupported,
			Location: location,
		})
		return nil
	}

	if decl.Type.Results == nil || len(decl.Type.Results.List) == 0 {
		return errors.Newf(errors.SyntaxErrorCode, "provide function %s must return the constructed type", decl.Name.Name).
			WithLocation(location)
	}

	result, _ := canonicalize(renderExpr(decl.Type.Results.List[0].Type), imports)
	owner := keys.RawType(result)
	if !strings.Contains(owner, ".") {
		owner = qualify(pkg, owner)
	}

	member := models.Member{
		Name:      decl.Name.Name,
		Kind:      models.KindConstructor,
		Type:      models.TypeRef{Expr: result, Package: pkg},
		Params:    funcParams(pkg, imports, decl.Type),
		Singleton: marker.Singleton,
		Location:  location,
	}
	u.attachMember(owner, member)
	return nil
}

// recordFallbackCandidate remembers exported zero-parameter NewT
// constructors. Unexported newT functions are effectively private and are
// deliberately never adopted; such a target simply stays constructor-less.
func (u *SourceUniverse) recordFallbackCandidate(pkg string, decl *ast.FuncDecl) {
	if decl.Recv != nil || !decl.Name.IsExported() || !strings.HasPrefix(decl.Name.Name, "New") {
		return
	}
	if decl.Type.Params != nil && len(decl.Type.Params.List) > 0 {
		return
	}
	if decl.Type.Results == nil || len(decl.Type.Results.List) == 0 {
		return
	}

	result := renderExpr(decl.Type.Results.List[0].Type)
	typeName := keys.RawType(result)
	if strings.Contains(typeName, ".") || decl.Name.Name != "New"+typeName {
		return
	}

	owner := qualify(pkg, typeName)
	if _, exists := u.noArg[owner]; exists {
		return
	}
	u.noArg[owner] = models.Constructor{
		FuncName:       decl.Name.Name,
		ReturnsPointer: strings.HasPrefix(result, "*"),
		Explicit:       false,
	}
}

func (u *SourceUniverse) declMarker(filename string, doc *ast.CommentGroup) (*annotations.ParsedMarker, error) {
	if doc == nil {
		return nil, nil
	}
	for _, comment := range doc.List {
		if !u.markers.IsMarker(comment.Text) {
			continue
		}
		marker, err := u.markers.ParseMarker(comment.Text, u.location(filename, comment.Pos()))
		if err != nil {
			return nil, err
		}
		return marker, nil
	}
	return nil, nil
}

func (u *SourceUniverse) attachMember(qualified string, member models.Member) {
	pkg, name, _ := strings.Cut(qualified, ".")
	info := u.typeInfo(qualified, pkg, name)
	info.Members = append(info.Members, member)
	u.marked = append(u.marked, models.MarkedMember{Enclosing: qualified, Member: member})
}

// typeInfo returns the record for a qualified name, creating a
// placeholder if the declaration has not been seen yet
func (u *SourceUniverse) typeInfo(qualified, pkg, name string) *models.TypeInfo {
	if info, ok := u.types[qualified]; ok {
		return info
	}
	info := &models.TypeInfo{
		Name:        name,
		Qualified:   qualified,
		PackageName: pkg,
	}
	u.types[qualified] = info
	return info
}

func (u *SourceUniverse) location(filename string, pos token.Pos) errors.SourceLocation {
	position := u.fileSet.Position(pos)
	return errors.SourceLocation{
		File:   filename,
		Line:   position.Line,
		Column: position.Column,
	}
}

func qualify(pkg, name string) string {
	return pkg + "." + name
}

func funcParams(pkg string, imports map[string]importedPackage, fn *ast.FuncType) []models.Param {
	if fn.Params == nil {
		return nil
	}
	var params []models.Param
	for _, field := range fn.Params.List {
		ref := typeRef(field.Type, pkg, imports)
		if len(field.Names) == 0 {
			params = append(params, models.Param{Name: fmt.Sprintf("arg%d", len(params)), Type: ref})
			continue
		}
		for _, name := range field.Names {
			params = append(params, models.Param{Name: name.Name, Type: ref})
		}
	}
	return params
}

// importedPackage records one import of a file: its path and the
// canonical package name references to it normalize to
type importedPackage struct {
	path string
	name string
}

func fileImports(file *ast.File) map[string]importedPackage {
	imports := make(map[string]importedPackage)
	for _, imp := range file.Imports {
		importPath := strings.Trim(imp.Path.Value, `"`)
		name := packageNameForPath(importPath)
		alias := name
		if imp.Name != nil {
			alias = imp.Name.Name
		}
		imports[alias] = importedPackage{path: importPath, name: name}
	}
	return imports
}

// packageNameForPath derives the canonical package name from an import
// path. Major-version elements and dotted suffixes like yaml.v3 are not
// part of the package name.
func packageNameForPath(importPath string) string {
	name := path.Base(importPath)
	if isVersionElement(name) {
		name = path.Base(path.Dir(importPath))
	}
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[:i]
	}
	return name
}

func isVersionElement(name string) bool {
	if len(name) < 2 || name[0] != 'v' {
		return false
	}
	for i := 1; i < len(name); i++ {
		if name[i] < '0' || name[i] > '9' {
			return false
		}
	}
	return true
}

// typeRef builds the dependency reference for a type expression
func typeRef(expr ast.Expr, pkg string, imports map[string]importedPackage) models.TypeRef {
	rendered, paths := canonicalize(renderExpr(expr), imports)
	return models.TypeRef{Expr: rendered, Package: pkg, ImportPaths: paths}
}

// canonicalize rewrites every aliased package qualifier in a rendered
// type expression to the canonical package name and collects the import
// paths the expression depends on. Without this, an aliased reference
// would key differently from the same type written unaliased, and it
// would slip past deferral before its package is scanned.
func canonicalize(expr string, imports map[string]importedPackage) (string, []string) {
	var b strings.Builder
	var paths []string
	seen := make(map[string]bool)

	i := 0
	for i < len(expr) {
		if !isIdentStart(expr[i]) {
			b.WriteByte(expr[i])
			i++
			continue
		}

		start := i
		for i < len(expr) && isIdentByte(expr[i]) {
			i++
		}
		ident := expr[start:i]

		if i < len(expr) && expr[i] == '.' {
			if imp, ok := imports[ident]; ok {
				ident = imp.name
				if !seen[imp.path] {
					seen[imp.path] = true
					paths = append(paths, imp.path)
				}
			}
			b.WriteString(ident)
			b.WriteByte('.')
			i++
			for i < len(expr) && isIdentByte(expr[i]) {
				b.WriteByte(expr[i])
				i++
			}
			continue
		}

		b.WriteString(ident)
	}

	return b.String(), paths
}

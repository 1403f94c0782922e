package codefmt

import (
	"go/ast"
	"io"
	"path"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/tools/go/packages"
)

// Writer is a writer for generated code.
type Writer struct {
	w       io.Writer
	fmt     Formatter
	imports map[string]Import
	scope   NS
}

// NewWriter creates a new [Writer]. scope holds the package-level names that
// imported package names must not shadow. Names reserved on the writer are
// reserved in scope too, since generated declarations are package-level.
func NewWriter(w io.Writer, pkg *packages.Package, scope NS) *Writer {
	if scope == nil {
		scope = make(NS)
	}
	return &Writer{
		w:       w,
		fmt:     New(pkg),
		imports: make(map[string]Import),
		scope:   scope,
	}
}

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	return w.w.Write(p)
}

// Printf writes a formatted string to the underlying writer using
// [Formatter.Fprintf].
func (w *Writer) Printf(format string, args ...any) (int, error) {
	return w.fmt.Fprintf(w.w, format, args...)
}

// Sprintf creates a formatted string using [Formatter.Sprintf].
func (w *Writer) Sprintf(format string, args ...any) string {
	return w.fmt.Sprintf(format, args...)
}

// Expr is a shorthand for [Formatter.Expr].
func (w *Writer) Expr(expr ast.Expr) string {
	return w.fmt.Expr(expr)
}

// Reserve marks a package-level name as used.
func (w *Writer) Reserve(name string) bool {
	return w.scope.Reserve(name)
}

// NS returns the package-level names of the writer.
func (w *Writer) NS() NS {
	return w.scope
}

type Import struct {
	// Path is the import path.
	Path string

	// HasAlias indicates that the import needs an explicit name.
	HasAlias bool
}

// Imports returns the collected imports keyed by their local names.
func (w *Writer) Imports() map[string]Import {
	return w.imports
}

// Import adds an import for the package with the given path and alias. It
// returns the name of the imported package. The name might be different if it
// has tried to resolve name conflicts.
//
//	// fmtName can be used to refer to the "fmt" package without any name conflict.
//	fmtName := w.Import("fmt", "")
//	w.Printf("%s.Println(\"Hello, World!\")", fmtName)
//
// When calling it, the package to import is recorded. Call [Writer.Imports]
// to retrieve them.
func (w *Writer) Import(path, name string) string {
	assumed := AssumedName(path)
	if name == "" {
		name = assumed
	}

	for name := range DisambiguateName(name) {
		prev, ok := w.imports[name]
		if ok && prev.Path == path {
			// Already imported with the same name.
			return name
		}
		if !ok && !w.scope.Has(name) {
			w.imports[name] = Import{Path: path, HasAlias: name != assumed}
			return name
		}
	}

	panic("unreachable")
}

// ImportFile records the imports of a source file whose declarations will be
// copied into the generated file. An import whose name is already taken by
// another path is renamed, and qualified identifiers in the file are
// rewritten in place to follow the new name. Blank and dot imports are
// dropped.
//
// Call it for every source file before printing any expression of those
// files.
func (w *Writer) ImportFile(file *ast.File) {
	renames := make(map[string]string)
	for _, spec := range file.Imports {
		importPath, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}

		name := ""
		if spec.Name != nil {
			name = spec.Name.Name
		}
		if name == "_" || name == "." {
			continue
		}

		local := name
		if local == "" {
			local = AssumedName(importPath)
		}
		if got := w.Import(importPath, local); got != local {
			renames[local] = got
		}
	}
	if len(renames) == 0 {
		return
	}

	for _, decl := range file.Decls {
		ast.Inspect(decl, func(n ast.Node) bool {
			sel, ok := n.(*ast.SelectorExpr)
			if !ok {
				return true
			}
			if id, ok := sel.X.(*ast.Ident); ok {
				if to, ok := renames[id.Name]; ok {
					id.Name = to
				}
			}
			return true
		})
	}
}

// AssumedName returns the package name an import path most likely declares.
// The actual name is only known after loading the package, which a
// syntax-only pass does not do.
//
// e.g., AssumedName("gopkg.in/yaml.v3") => "yaml"
// e.g., AssumedName("github.com/google/renameio/v2") => "renameio"
func AssumedName(importPath string) string {
	base := path.Base(importPath)
	if strings.HasPrefix(base, "v") {
		if _, err := strconv.Atoi(base[1:]); err == nil {
			if dir := path.Dir(importPath); dir != "." {
				base = path.Base(dir)
			}
		}
	}
	base = strings.TrimPrefix(base, "go-")
	if i := strings.IndexFunc(base, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	}); i >= 0 {
		base = base[:i]
	}
	return base
}

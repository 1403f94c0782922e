package statuminternal

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/printer"
	"go/token"
	"io"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/tools/go/ast/astutil"
	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/imports"

	"github.com/eboody/statum/internal/codefmt"
	"github.com/eboody/statum/internal/scope"
	"github.com/eboody/statum/internal/statum/parse"
	"github.com/eboody/statum/internal/statum/registry"
	"github.com/eboody/statum/internal/statum/synth"
	"github.com/eboody/statum/internal/statum/validate"
)

// Statum generates the typestate code of one package. Generation runs in
// two phases so that every package registers its declarations before any
// package is validated: call [Statum.Collect] for all packages first, then
// [Statum.Build] and [Statum.Generate] for each. All potential errors are
// returned by Collect and Build. Once Build succeeds, Generate never fails.
type Statum struct {
	p     *parse.Parser
	reg   *registry.Registry
	decls *parse.Decls
	res   *validate.Result
}

// New creates a [Statum] for the package. The package must have its Name,
// PkgPath, Fset and Syntax. Types are not needed. Declarations are stored in
// reg, which may be shared by the packages of one run.
func New(pkg *packages.Package, reg *registry.Registry, resolver scope.Resolver) (*Statum, error) {
	p, err := parse.New(pkg, resolver)
	if err != nil {
		return nil, err
	}
	return &Statum{p: p, reg: reg}, nil
}

// Collect parses the declarations of the package and stores its states and
// machines in the registry.
func (st *Statum) Collect() error {
	decls, err := st.p.Parse()
	st.decls = decls
	for _, state := range decls.States {
		st.reg.StoreState(state)
	}
	for _, machine := range decls.Machines {
		st.reg.StoreMachine(machine)
	}
	return err
}

// Build validates the collected declarations against the registry. It must
// be called after [Statum.Collect] of every package sharing the registry.
func (st *Statum) Build() error {
	if st.decls == nil {
		panic("Build called before Collect")
	}
	res, err := validate.New(st.p, st.reg).Validate(st.decls)
	if err != nil {
		return err
	}
	st.res = res
	return nil
}

// Decls returns the declarations found by [Statum.Collect].
func (st *Statum) Decls() *parse.Decls { return st.decls }

// Generate generates the code of the package. It returns nil if the package
// has no statum declarations. It must be called after [Statum.Build]
// succeeds.
func (st *Statum) Generate() []byte {
	if st.decls.Len() == 0 {
		return nil
	}

	var buf bytes.Buffer
	w := codefmt.NewWriter(&buf, st.p.Pkg(), codefmt.NewNS(st.p.Pkg().Syntax...))

	// Imports of the statum files claim their names before generated code
	// imports anything.
	files := st.p.StatumGoFiles()
	for _, file := range files {
		w.ImportFile(file)
	}

	synth.New(w, st.res).Write()
	st.mergeCode(&buf, files)
	return st.frameCode(w, &buf)
}

// mergeCode copies the user code of the statum files: everything but import
// declarations and the state and machine declarations, which are replaced
// by generated code. Directive comments are erased so that the kept
// transitions and validators do not look like declarations anymore.
func (st *Statum) mergeCode(buf *bytes.Buffer, files []*ast.File) {
	replaced := make(map[*ast.TypeSpec]bool)
	for _, state := range st.decls.States {
		replaced[state.Spec] = true
	}
	for _, machine := range st.decls.Machines {
		replaced[machine.Spec] = true
	}

	fset := st.p.Pkg().Fset
	for _, file := range files {
		name := filepath.Base(fset.File(file.Pos()).Name())
		comments := userComments(file, replaced)
		first := true

		for _, decl := range file.Decls {
			if gen, ok := decl.(*ast.GenDecl); ok {
				if gen.Tok == token.IMPORT {
					continue
				}
				if gen = dropSpecs(gen, replaced); gen == nil {
					continue
				}
				decl = gen
			}

			if first {
				fmt.Fprintf(buf, "// %s:\n\n", name)
				first = false
			}

			printer.Fprint(buf, fset, &printer.CommentedNode{
				Node:     decl,
				Comments: comments,
			})
			fmt.Fprintf(buf, "\n\n")
		}
	}
}

// dropSpecs returns the declaration without the replaced type specs, or nil
// if none remains.
func dropSpecs(gen *ast.GenDecl, replaced map[*ast.TypeSpec]bool) *ast.GenDecl {
	if gen.Tok != token.TYPE {
		return gen
	}

	var specs []ast.Spec
	for _, spec := range gen.Specs {
		if !replaced[spec.(*ast.TypeSpec)] {
			specs = append(specs, spec)
		}
	}
	switch len(specs) {
	case len(gen.Specs):
		return gen
	case 0:
		return nil
	}

	clone := *gen
	clone.Specs = specs
	return &clone
}

// userComments returns the comments of the file without directives and
// without the comments inside replaced declarations.
func userComments(file *ast.File, replaced map[*ast.TypeSpec]bool) []*ast.CommentGroup {
	type span struct{ pos, end token.Pos }
	var drop []span
	for spec := range replaced {
		pos := spec.Pos()
		if spec.Doc != nil {
			pos = spec.Doc.Pos()
		}
		drop = append(drop, span{pos, spec.End()})
	}
	for decl := range parse.FindDecls(file) {
		if decl.Spec != nil && replaced[decl.Spec] && decl.Doc != nil {
			drop = append(drop, span{decl.Doc.Pos(), decl.Doc.End()})
		}
	}

	var groups []*ast.CommentGroup
	for _, group := range file.Comments {
		inside := false
		for _, s := range drop {
			if s.pos <= group.Pos() && group.End() <= s.end {
				inside = true
				break
			}
		}
		if inside {
			continue
		}

		list := trimBlankLines(parse.StripDirectives(group))
		if len(list) != 0 {
			groups = append(groups, &ast.CommentGroup{List: list})
		}
	}
	return groups
}

// trimBlankLines removes the empty "//" lines a directive used to be
// separated by.
func trimBlankLines(group *ast.CommentGroup) []*ast.Comment {
	if group == nil {
		return nil
	}
	list := group.List
	for len(list) != 0 && strings.TrimSpace(list[len(list)-1].Text) == "//" {
		list = list[:len(list)-1]
	}
	return list
}

func (st *Statum) frameCode(w *codefmt.Writer, body io.Reader) []byte {
	versionSuffix := ""
	if Version != "" {
		versionSuffix = "@" + Version
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "//go:build !%s\n\n", parse.BuildTag)
	fmt.Fprintf(&buf, "// Code generated by github.com/eboody/statum%s. DO NOT EDIT.\n\n", versionSuffix)
	fmt.Fprintf(&buf, "package %s\n\n", st.p.Pkg().Name)

	if len(w.Imports()) != 0 {
		fmt.Fprintf(&buf, "import (\n")
		for alias, imp := range w.Imports() {
			if imp.HasAlias {
				fmt.Fprintf(&buf, "%s %q\n", alias, imp.Path)
			} else {
				fmt.Fprintf(&buf, "%q\n", imp.Path)
			}
		}
		fmt.Fprintf(&buf, ")\n\n")
	}

	_, _ = io.Copy(&buf, body)
	code := pruneImports(buf.Bytes())

	// Group and sort the imports, then gofmt. The code is kept as it is if
	// either fails, so that a broken output can still be inspected.
	if fmtCode, err := imports.Process(synthFilename, code, &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	}); err == nil {
		code = fmtCode
	} else if fmtCode, err := format.Source(code); err == nil {
		code = fmtCode
	}
	return code
}

// synthFilename is only used to report errors of the formatter.
const synthFilename = "statum_gen.go"

// pruneImports deletes the imports that the merged user code imported but
// no longer uses, like an import only needed by a removed declaration.
func pruneImports(code []byte) []byte {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, synthFilename, code, parser.ParseComments)
	if err != nil {
		return code
	}

	// DeleteNamedImport shrinks file.Imports, so it ranges over a copy.
	pruned := false
	for _, spec := range slices.Clone(file.Imports) {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		alias, name := "", codefmt.AssumedName(path)
		if spec.Name != nil {
			alias, name = spec.Name.Name, spec.Name.Name
		}
		if name == "_" || name == "." || usesName(file, name) {
			continue
		}
		pruned = astutil.DeleteNamedImport(fset, file, alias, path) || pruned
	}
	if !pruned {
		return code
	}

	var buf bytes.Buffer
	if err := printer.Fprint(&buf, fset, file); err != nil {
		return code
	}
	return buf.Bytes()
}

// usesName reports whether a selector of the file is qualified by name.
// astutil.UsesImport guesses the package name from the last path element,
// which is wrong for paths like "gopkg.in/yaml.v3".
func usesName(file *ast.File, name string) bool {
	used := false
	ast.Inspect(file, func(n ast.Node) bool {
		if sel, ok := n.(*ast.SelectorExpr); ok {
			if id, ok := sel.X.(*ast.Ident); ok && id.Name == name {
				used = true
			}
		}
		return !used
	})
	return used
}

package codefmt

import (
	"fmt"
	"go/ast"
	"go/token"
	"iter"
	"maps"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NS manages unique names in a namespace.
type NS map[string]struct{}

// NewNS creates a new namespace which reserves all package-level names
// declared in the given files. Methods are not package-level names.
func NewNS(files ...*ast.File) NS {
	ns := make(NS)
	for name := range TopLevelNames(files...) {
		ns.Reserve(name)
	}
	return ns
}

// TopLevelNames yields every package-level identifier declared in the files,
// except blank identifiers. Import names are file-scoped and not included.
func TopLevelNames(files ...*ast.File) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, file := range files {
			for _, decl := range file.Decls {
				switch decl := decl.(type) {
				case *ast.FuncDecl:
					if decl.Recv == nil && !yield(decl.Name.Name) {
						return
					}
				case *ast.GenDecl:
					for _, spec := range decl.Specs {
						switch spec := spec.(type) {
						case *ast.TypeSpec:
							if !yield(spec.Name.Name) {
								return
							}
						case *ast.ValueSpec:
							for _, name := range spec.Names {
								if name.Name != "_" && !yield(name.Name) {
									return
								}
							}
						}
					}
				}
			}
		}
	}
}

// Has reports whether the name is used in the namespace.
func (ns NS) Has(name string) bool {
	_, ok := ns[name]
	return ok
}

// Reserve marks a name as used in the namespace. If the name is already used,
// it returns false.
func (ns NS) Reserve(name string) bool {
	if _, ok := ns[name]; ok {
		return false
	}
	ns[name] = struct{}{}
	return true
}

// Name reserves and returns a name based on name. Characters that cannot
// appear in an identifier split name into words joined in camel case, a
// keyword gets a "_" suffix, and a name already taken gets a number suffix.
// A nil NS reserves nothing.
//
// Panics if the name is empty.
func (ns NS) Name(name string) string {
	name = normalizeName(name)
	if token.Lookup(name).IsKeyword() {
		name += "_"
	}
	if ns == nil {
		return name
	}

	next, stop := iter.Pull(DisambiguateName(name))
	defer stop()
	for {
		candidate, _ := next()
		if ns.Reserve(candidate) {
			return candidate
		}
	}
}

// Clone copies the namespace so that local names do not leak into ns.
func (ns NS) Clone() NS {
	return maps.Clone(ns)
}

var titleCase = cases.Title(language.English, cases.NoLower)

func normalizeName(name string) string {
	if name == "" {
		panic("empty name")
	}

	words := strings.FieldsFunc(name, func(r rune) bool {
		return r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for i := 1; i < len(words); i++ {
		words[i] = titleCase.String(words[i])
	}
	return strings.Join(words, "")
}

// DisambiguateName yields name, then name with increasing numbers from 2.
// A name ending with a digit is separated from the number by "_", which
// reads better: "answer42_2" rather than "answer422".
func DisambiguateName(name string) iter.Seq[string] {
	if name == "" {
		panic("empty name")
	}

	format := "%s%d"
	if last := name[len(name)-1]; '0' <= last && last <= '9' {
		format = "%s_%d"
	}
	return func(yield func(string) bool) {
		if !yield(name) {
			return
		}
		for i := 2; yield(fmt.Sprintf(format, name, i)); i++ {
		}
	}
}

// Exported returns name with its first letter upper-cased if exported is
// true, or lower-cased otherwise.
//
// e.g., Exported(false, "TaskMachine") => "taskMachine"
func Exported(exported bool, name string) string {
	if exported {
		return mapFirst(unicode.ToUpper, name)
	}
	return mapFirst(unicode.ToLower, name)
}

// Join concatenates name parts in camel case. The first part keeps its case
// and the rest are capitalized.
//
// e.g., Join("new", "taskMachine", "draft") => "newTaskMachineDraft"
func Join(parts ...string) string {
	var b strings.Builder
	for _, part := range parts {
		if b.Len() == 0 {
			b.WriteString(part)
		} else {
			b.WriteString(mapFirst(unicode.ToUpper, part))
		}
	}
	return b.String()
}

func mapFirst(fn func(rune) rune, s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(fn(r)) + s[size:]
}

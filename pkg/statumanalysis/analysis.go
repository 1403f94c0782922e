// Package statumanalysis reports statum declaration errors as analysis
// diagnostics, so editors and linters show them without running the
// generator.
package statumanalysis

import (
	"errors"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/packages"

	"github.com/eboody/statum/internal/codefmt"
	"github.com/eboody/statum/internal/scope"
	statuminternal "github.com/eboody/statum/internal/statum"
	"github.com/eboody/statum/internal/statum/registry"
)

// Analyzer validates the statum declarations of the package. Load the
// package with the "statum" build tag, otherwise there is nothing to check.
var Analyzer = &analysis.Analyzer{
	Name: "statum",
	Doc:  "linter for statum declarations",
	Run:  run,

	// Statum files refer to generated names, which do not exist while
	// checking them. Only the syntax is used.
	RunDespiteErrors: true,
}

func run(pass *analysis.Pass) (any, error) {
	pkg := &packages.Package{
		Name:    pass.Pkg.Name(),
		PkgPath: pass.Pkg.Path(),
		Fset:    pass.Fset,
		Syntax:  pass.Files,
	}

	st, err := statuminternal.New(pkg, registry.New(), scope.FileResolver{})
	if err != nil {
		return nil, err
	}

	err = st.Collect()
	if err == nil {
		err = st.Build()
	}
	report(pass, err)
	return nil, nil
}

// report unrolls joined errors and reports every code error.
func report(pass *analysis.Pass, err error) {
	errs := []error{err}
	for len(errs) != 0 {
		err := errs[0]
		errs = errs[1:]

		if u, ok := err.(interface{ Unwrap() []error }); ok {
			errs = append(errs, u.Unwrap()...)
			continue
		}

		var codeErr *codefmt.CodeError
		if errors.As(err, &codeErr) && codeErr.Pos().IsValid() {
			pass.Report(analysis.Diagnostic{
				Pos:     codeErr.Pos(),
				End:     codeErr.End(),
				Message: codeErr.Unwrap().Error(),
			})
		}
	}
}

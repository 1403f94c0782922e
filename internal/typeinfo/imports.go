package typeinfo

import (
	"go/ast"
	"strconv"

	"github.com/eboody/statum/internal/codefmt"
)

// Imports maps the local package names of a file to their import paths.
type Imports map[string]string

// FileImports collects the named imports of a file. Blank and dot imports
// are skipped because they introduce no qualifier.
func FileImports(file *ast.File) Imports {
	imports := make(Imports)
	for _, spec := range file.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}

		name := codefmt.AssumedName(path)
		if spec.Name != nil {
			name = spec.Name.Name
		}
		if name == "_" || name == "." {
			continue
		}
		imports[name] = path
	}
	return imports
}

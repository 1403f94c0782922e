// Package statuminternal drives statum over loaded packages: it collects the
// declarations of every package into a shared registry, then validates and
// generates each package.
package statuminternal

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"facette.io/natsort"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/packages"

	"github.com/eboody/statum/internal/scope"
	"github.com/eboody/statum/internal/statum/parse"
	"github.com/eboody/statum/internal/statum/registry"
)

var Version string

// Main is the main entry point for statum. It is used by the command-line
// tool directly.
//
// ctx is the context for loading packages and carries the logger. wd is the
// path of the working directory. env is the environment variables to use
// when loading packages. tags is the build tags to use in addition to
// "statum". tests indicates whether to include test files. outFile is the
// name of the output file to generate in each package. And patterns are the
// package patterns to process.
//
// It returns a map of output file paths to their contents. Errors are
// all-or-nothing: if any package has an error, no output is returned.
func Main(ctx context.Context, wd string, env []string, tags string, tests bool, outFile string, patterns []string) (map[string][]byte, error) {
	log := zerolog.Ctx(ctx)

	pkgs, err := load(ctx, wd, env, tags, tests, patterns)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("packages", len(pkgs)).Strs("patterns", patterns).Msg("loaded packages")

	reg := registry.New()
	sts := make([]*Statum, len(pkgs))
	errs := make([]error, len(pkgs))

	// Phase 1: every package registers its states and machines before any
	// package is validated against the registry.
	var g errgroup.Group
	for i, pkg := range pkgs {
		g.Go(func() error {
			st, err := New(pkg, reg, scope.FileResolver{})
			if err != nil {
				errs[i] = err
				return nil
			}
			errs[i] = st.Collect()
			sts[i] = st

			log.Debug().Str("pkg", pkg.PkgPath).Int("decls", st.Decls().Len()).Msg("collected declarations")
			return nil
		})
	}
	_ = g.Wait()

	// Phase 2: validate and generate. Packages with collect errors are
	// skipped, but the others are still validated to report their errors
	// too.
	var mu sync.Mutex
	outs := make(map[string][]byte)
	for i, pkg := range pkgs {
		if errs[i] != nil {
			continue
		}
		g.Go(func() error {
			st := sts[i]
			if err := st.Build(); err != nil {
				errs[i] = err
				return nil
			}

			code := st.Generate()
			if len(code) == 0 {
				return nil
			}

			out := filepath.Join(outDir(wd, pkg), outFile)
			mu.Lock()
			outs[out] = code
			mu.Unlock()

			log.Debug().Str("pkg", pkg.PkgPath).Str("out", out).Int("bytes", len(code)).Msg("generated")
			return nil
		})
	}
	_ = g.Wait()

	if err := errors.Join(errs...); err != nil {
		// errs already contains comprehensive error messages. So we don't
		// need to attach another error message.
		return nil, reorderErrors(err)
	}
	return outs, nil
}

// PackageDirs returns the directories of the packages matching patterns,
// relative to wd if possible. Watch mode watches them.
func PackageDirs(ctx context.Context, wd string, env []string, tags string, tests bool, patterns []string) ([]string, error) {
	pkgs, err := load(ctx, wd, env, tags, tests, patterns)
	if err != nil {
		return nil, err
	}

	var dirs []string
	for _, pkg := range pkgs {
		if dir := outDir(wd, pkg); !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}
	natsort.Sort(dirs)
	return dirs, nil
}

// outDir returns the directory of a package, relative to wd if possible.
func outDir(wd string, pkg *packages.Package) string {
	var dir string
	switch {
	case len(pkg.GoFiles) != 0:
		dir = filepath.Dir(pkg.GoFiles[0])
	case len(pkg.Syntax) != 0:
		dir = filepath.Dir(pkg.Fset.File(pkg.Syntax[0].Pos()).Name())
	default:
		return wd
	}
	if rel, err := filepath.Rel(wd, dir); err == nil {
		dir = rel
	}
	return dir
}

// load loads packages with the statum build tag. Only the syntax is loaded:
// statum files refer to names that do not exist before generation, so they
// would never type-check.
func load(ctx context.Context, wd string, env []string, tags string, tests bool, patterns []string) ([]*packages.Package, error) {
	cfg := &packages.Config{
		Mode:       packages.NeedFiles | packages.NeedName | packages.NeedSyntax,
		Context:    ctx,
		Dir:        wd,
		Env:        env,
		BuildFlags: []string{"-tags=" + parse.BuildTag},
		Tests:      tests,
	}
	if tags != "" {
		cfg.BuildFlags[0] += "," + tags
	}

	// Load the packages based on the provided patterns.
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found: %v", patterns)
	}

	// Check for errors in the loaded packages.
	var errs error
	for _, pkg := range pkgs {
		for _, err := range pkg.Errors {
			if err.Pos == "" {
				errs = errors.Join(errs, errors.New(err.Msg))
				continue
			}

			path, rowcol, _ := strings.Cut(err.Pos, ":")
			if rel, relErr := filepath.Rel(wd, path); relErr == nil {
				err.Pos = rel + ":" + rowcol
			}
			errs = errors.Join(errs, err)
		}
	}
	if errs != nil {
		return nil, reorderErrors(errs)
	}

	return pkgs, nil
}

// reorderErrors flattens joined errors and sorts them by message. Messages
// start with positions, and natural ordering puts "f.go:9:1" before
// "f.go:10:1".
func reorderErrors(errs error) error {
	if errs == nil {
		return nil
	}

	// Flatten nested errors
	list := []error{errs}
	for i := 0; i < len(list); i++ {
		if u, ok := list[i].(interface{ Unwrap() []error }); ok {
			// errors.Join collapses errors with a single error having
			// Unwrap() []error method. The underlying errors could be
			// retrieved using the Unwrap() method.
			list = append(list, u.Unwrap()...)
			list[i] = nil
		}
	}
	list = slices.DeleteFunc(list, func(err error) bool {
		return err == nil
	})

	slices.SortStableFunc(list, func(a, b error) int {
		x, y := a.Error(), b.Error()
		switch {
		case x == y:
			return 0
		case natsort.Compare(x, y):
			return -1
		default:
			return 1
		}
	})
	return errors.Join(list...)
}

// golangcilintstatum package provides a plugin for golangci-lint to integrate
// the statum analyzer. To build a custom golangci-lint binary with this
// plugin, use the following command at this package's directory:
//
//	golangci-lint custom
//
// The analyzer only sees files built with the statum tag, so run the binary
// with --build-tags=statum.
package golangcilintstatum

import (
	"github.com/golangci/plugin-module-register/register"
	"golang.org/x/tools/go/analysis"

	"github.com/eboody/statum/pkg/statumanalysis"
)

func init() {
	register.Plugin("statum", New)
}

func New(settings any) (register.LinterPlugin, error) {
	return StatumLinter{}, nil
}

type StatumLinter struct{}

func (StatumLinter) BuildAnalyzers() ([]*analysis.Analyzer, error) {
	return []*analysis.Analyzer{statumanalysis.Analyzer}, nil
}

func (StatumLinter) GetLoadMode() string {
	return register.LoadModeSyntax
}

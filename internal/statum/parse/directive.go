package parse

import (
	"go/ast"
	"go/token"
	"slices"
	"strings"

	"github.com/eboody/statum/internal/codefmt"
)

// DirectivePrefix starts every statum directive comment.
const DirectivePrefix = "//statum:"

// Directive kinds.
const (
	KindState      = "state"
	KindMachine    = "machine"
	KindTransition = "transition"
	KindValidators = "validators"
)

var kinds = []string{KindState, KindMachine, KindTransition, KindValidators}

// Derive capabilities that generated state and machine types can replicate.
const (
	DeriveStringer = "Stringer"
	DeriveJSON     = "JSON"
)

var derives = []string{DeriveStringer, DeriveJSON}

// Directive is a parsed "//statum:kind arg key=value" comment.
type Directive struct {
	Kind    string
	Args    []string
	Options map[string]string
	Comment *ast.Comment
}

func (d Directive) Pos() token.Pos { return d.Comment.Pos() }
func (d Directive) End() token.Pos { return d.Comment.End() }

// IsDirective reports whether the comment is a statum directive.
func IsDirective(c *ast.Comment) bool {
	return strings.HasPrefix(c.Text, DirectivePrefix)
}

// parseDirective parses a statum directive comment.
func (p *Parser) parseDirective(c *ast.Comment) (Directive, error) {
	text := strings.TrimPrefix(c.Text, DirectivePrefix)
	fields := strings.Fields(text)

	d := Directive{Comment: c, Options: make(map[string]string)}
	if len(fields) == 0 {
		return d, codefmt.Errorf(p, c, "statum directive needs a kind; want one of %s", strings.Join(kinds, ", "))
	}

	d.Kind = fields[0]
	if !slices.Contains(kinds, d.Kind) {
		return d, codefmt.Errorf(p, c, "unknown statum directive %q; want one of %s", d.Kind, strings.Join(kinds, ", "))
	}

	for _, field := range fields[1:] {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			d.Args = append(d.Args, field)
			continue
		}
		if _, dup := d.Options[key]; dup {
			return d, codefmt.Errorf(p, c, "duplicate option %q in statum:%s directive", key, d.Kind)
		}
		d.Options[key] = value
	}
	return d, nil
}

// findDirective returns the statum directive in the doc comment. It fails if
// there are several.
func (p *Parser) findDirective(doc *ast.CommentGroup) (Directive, bool, error) {
	if doc == nil {
		return Directive{}, false, nil
	}

	var found *ast.Comment
	for _, c := range doc.List {
		if !IsDirective(c) {
			continue
		}
		if found != nil {
			return Directive{Comment: c}, true, codefmt.Errorf(p, c, "multiple statum directives on one declaration; previous directive at %b", found.Pos())
		}
		found = c
	}
	if found == nil {
		return Directive{}, false, nil
	}

	d, err := p.parseDirective(found)
	return d, true, err
}

// parseDerives parses the "derive=A,B" option. Unknown capabilities are
// structural errors.
func (p *Parser) parseDerives(d Directive) ([]string, error) {
	value, ok := d.Options["derive"]
	if !ok {
		return nil, nil
	}

	var out []string
	for _, name := range strings.Split(value, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if !slices.Contains(derives, name) {
			return nil, codefmt.Errorf(p, d, "unknown derive %q; want one of %s", name, strings.Join(derives, ", "))
		}
		if slices.Contains(out, name) {
			return nil, codefmt.Errorf(p, d, "duplicate derive %q", name)
		}
		out = append(out, name)
	}
	return out, nil
}

// checkOptions rejects options other than allowed.
func (p *Parser) checkOptions(d Directive, allowed ...string) error {
	for key := range d.Options {
		if !slices.Contains(allowed, key) {
			return codefmt.Errorf(p, d, "unknown option %q in statum:%s directive", key, d.Kind)
		}
	}
	return nil
}

// StripDirectives returns a copy of the comment group without statum
// directives. It returns nil if nothing remains.
func StripDirectives(doc *ast.CommentGroup) *ast.CommentGroup {
	if doc == nil {
		return nil
	}
	list := slices.DeleteFunc(slices.Clone(doc.List), IsDirective)
	if len(list) == 0 {
		return nil
	}
	return &ast.CommentGroup{List: list}
}

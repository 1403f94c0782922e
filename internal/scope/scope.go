// Package scope derives scope keys from declaration positions. A scope key
// correlates declarations that are processed independently. Declared names
// alone are not enough because the same name recurs across unrelated scopes.
package scope

import (
	"go/token"
	"path"
	"path/filepath"
	"strings"
)

// Key identifies the enclosing scope of a declaration. It is stable for a
// position within one run.
type Key string

// Package returns the package path part of the key. Keys sharing a package
// are siblings.
func (k Key) Package() string {
	i := strings.LastIndexByte(string(k), '#')
	if i < 0 {
		return string(k)
	}
	return string(k)[:i]
}

// Local returns the part of the key below the package.
func (k Key) Local() string {
	i := strings.LastIndexByte(string(k), '#')
	if i < 0 {
		return ""
	}
	return string(k)[i+1:]
}

// SiblingOf reports whether k and other are in the same package.
func (k Key) SiblingOf(other Key) bool {
	return k.Package() == other.Package()
}

func (k Key) String() string { return string(k) }

// Resolver maps a source position to the key of its enclosing scope.
type Resolver interface {
	Resolve(pkgPath string, pos token.Position) Key
}

// FileResolver scopes declarations by their file: "pkgpath#file" where file
// is the base name without extension.
type FileResolver struct{}

func (FileResolver) Resolve(pkgPath string, pos token.Position) Key {
	name := filepath.Base(pos.Filename)
	name = strings.TrimSuffix(name, path.Ext(name))
	return Make(pkgPath, name)
}

// PackageResolver scopes every declaration of a package together.
type PackageResolver struct{}

func (PackageResolver) Resolve(pkgPath string, _ token.Position) Key {
	return Make(pkgPath, "")
}

// ResolverFunc adapts a function to [Resolver].
type ResolverFunc func(pkgPath string, pos token.Position) Key

func (f ResolverFunc) Resolve(pkgPath string, pos token.Position) Key { return f(pkgPath, pos) }

// Make composes a key from a package path and a local scope name.
func Make(pkgPath, local string) Key {
	return Key(pkgPath + "#" + local)
}

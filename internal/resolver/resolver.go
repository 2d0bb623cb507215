package resolver

import (
	"path"
	"strings"

	"github.com/originphp/plugin-installer/internal/composer"
)

// namespaceSeparator is trimmed from both ends of a psr-4 prefix.
const namespaceSeparator = `\`

// Plugin is the resolved identity of a plugin package.
type Plugin struct {
	Name        string
	InstallPath string
}

// DefaultPathFunc returns the host package manager's install path for a
// package of the given type.
type DefaultPathFunc func(pkg *composer.Package, packageType string) string

// NameStrategy returns a plugin name, or "" when it does not apply.
type NameStrategy func(pkg *composer.Package) string

// PathStrategy returns an install path, or "" when it does not apply.
type PathStrategy func(pkg *composer.Package) string

// Resolver resolves plugin names and install paths.
type Resolver struct {
	names       []NameStrategy
	paths       []PathStrategy
	defaultPath DefaultPathFunc
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLegacyNaming enables the identity- and folder-based conventions of
// older installers. Autoload-based naming and extra.install still go first.
func WithLegacyNaming() Option {
	return func(r *Resolver) {
		r.names = append(r.names, IdentityName)
		r.paths = append(r.paths, FolderPath, r.underscoredPath)
	}
}

// New returns a Resolver falling back to defaultPath for install paths.
func New(defaultPath DefaultPathFunc, opts ...Option) *Resolver {
	r := &Resolver{
		names:       []NameStrategy{SingleNamespace, SourceNamespace},
		paths:       []PathStrategy{ExplicitInstallPath},
		defaultPath: defaultPath,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Name derives the plugin name. It returns a *ResolutionError when no
// strategy produces one.
func (r *Resolver) Name(pkg *composer.Package) (string, error) {
	if name := r.name(pkg); name != "" {
		return name, nil
	}
	return "", unresolvedName(pkg.Name)
}

func (r *Resolver) name(pkg *composer.Package) string {
	for _, strategy := range r.names {
		if name := strategy(pkg); name != "" {
			return name
		}
	}
	return ""
}

// InstallPath returns where the package is installed. The path is returned
// as declared; callers normalize it.
func (r *Resolver) InstallPath(pkg *composer.Package) string {
	for _, strategy := range r.paths {
		if p := strategy(pkg); p != "" {
			return p
		}
	}
	if r.defaultPath == nil {
		return ""
	}
	return r.defaultPath(pkg, pkg.PackageType())
}

// Resolve returns both the name and the install path.
func (r *Resolver) Resolve(pkg *composer.Package) (Plugin, error) {
	name, err := r.Name(pkg)
	if err != nil {
		return Plugin{}, err
	}
	return Plugin{Name: name, InstallPath: r.InstallPath(pkg)}, nil
}

// SingleNamespace names the plugin after the only psr-4 prefix.
func SingleNamespace(pkg *composer.Package) string {
	rules := pkg.Autoload.PSR4.Rules()
	if len(rules) != 1 {
		return ""
	}
	return trimNamespace(rules[0].Prefix)
}

// SourceNamespace names the plugin after the first psr-4 prefix mapped to a
// src directory ("src/" or any path containing "/src/").
func SourceNamespace(pkg *composer.Package) string {
	for _, rule := range pkg.Autoload.PSR4.Rules() {
		for _, dir := range rule.Dirs {
			if isSourceDir(dir) {
				return trimNamespace(rule.Prefix)
			}
		}
	}
	return ""
}

// ExplicitInstallPath returns extra.install verbatim.
func ExplicitInstallPath(pkg *composer.Package) string {
	return pkg.ExtraString("install")
}

func isSourceDir(dir string) bool {
	return dir == "src/" || strings.Contains(dir, "/src/")
}

func trimNamespace(prefix string) string {
	return strings.Trim(prefix, namespaceSeparator)
}

// underscoredPath places the plugin under plugins/ using the underscored
// form of its resolved name.
func (r *Resolver) underscoredPath(pkg *composer.Package) string {
	name := r.name(pkg)
	if name == "" {
		return ""
	}
	return path.Join(pluginsDir, Underscore(name))
}

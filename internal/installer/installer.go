package installer

import (
	"context"
	"log/slog"

	"github.com/originphp/plugin-installer/internal/branding"
	"github.com/originphp/plugin-installer/internal/composer"
	"github.com/originphp/plugin-installer/internal/host"
	"github.com/originphp/plugin-installer/internal/resolver"
	"github.com/originphp/plugin-installer/internal/tracker"
)

// PluginInstaller installs OriginPHP plugins and tracks them.
type PluginInstaller struct {
	manager  *host.Manager
	resolver *resolver.Resolver
	tracker  *tracker.Tracker
	logger   *slog.Logger
}

// Option configures a PluginInstaller.
type Option func(*options)

type options struct {
	resolverOpts []resolver.Option
}

// WithLegacyNaming enables the identity- and folder-based naming fallbacks.
func WithLegacyNaming() Option {
	return func(o *options) {
		o.resolverOpts = append(o.resolverOpts, resolver.WithLegacyNaming())
	}
}

// New returns a plugin installer backed by the manager's transfer and
// default install path.
func New(m *host.Manager, t *tracker.Tracker, opts ...Option) *PluginInstaller {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &PluginInstaller{
		manager:  m,
		resolver: resolver.New(m.DefaultInstallPath, o.resolverOpts...),
		tracker:  t,
		logger:   m.Logger(),
	}
}

// Activate creates a plugin installer and registers it with the manager.
func Activate(m *host.Manager, t *tracker.Tracker, opts ...Option) *PluginInstaller {
	p := New(m, t, opts...)
	m.AddInstaller(p)
	return p
}

// Supports reports whether packageType is the plugin package type.
func (p *PluginInstaller) Supports(packageType string) bool {
	return packageType == branding.PackageType()
}

// Resolve returns the plugin name and declared install path of pkg.
func (p *PluginInstaller) Resolve(pkg *composer.Package) (resolver.Plugin, error) {
	return p.resolver.Resolve(pkg)
}

// InstallPath returns where pkg is installed. A package whose plugin name
// cannot be resolved is rejected here, before any file is placed.
func (p *PluginInstaller) InstallPath(pkg *composer.Package) (string, error) {
	plugin, err := p.resolver.Resolve(pkg)
	if err != nil {
		return "", err
	}
	return p.manager.Abs(plugin.InstallPath), nil
}

// Install places pkg and then records it in the registry.
func (p *PluginInstaller) Install(ctx context.Context, pkg *composer.Package) error {
	dest, err := p.InstallPath(pkg)
	if err != nil {
		return err
	}

	op, err := p.manager.Transfer().Place(ctx, pkg, dest)
	if err != nil {
		return err
	}
	return host.Then(ctx, op, func(ctx context.Context) error {
		return p.track(ctx, pkg)
	})
}

// Uninstall removes pkg and then drops it from the registry.
func (p *PluginInstaller) Uninstall(ctx context.Context, pkg *composer.Package) error {
	dest, err := p.InstallPath(pkg)
	if err != nil {
		return err
	}

	op, err := p.manager.Transfer().Remove(ctx, pkg, dest)
	if err != nil {
		return err
	}
	return host.Then(ctx, op, func(ctx context.Context) error {
		return p.untrack(ctx, pkg)
	})
}

// Update replaces initial with target. Files at a changed install path are
// removed first; a renamed plugin loses its old registry entry.
func (p *PluginInstaller) Update(ctx context.Context, initial, target *composer.Package) error {
	oldDest, err := p.InstallPath(initial)
	if err != nil {
		return err
	}
	newDest, err := p.InstallPath(target)
	if err != nil {
		return err
	}

	p.logger.InfoContext(ctx, describeChange(initial.Version, target.Version)+" plugin",
		"package", target.Name, "from", initial.Version, "to", target.Version)

	if oldDest != newDest {
		op, err := p.manager.Transfer().Remove(ctx, initial, oldDest)
		if err != nil {
			return err
		}
		if err := host.Then(ctx, op, func(ctx context.Context) error {
			return p.untrackRenamed(ctx, initial, target)
		}); err != nil {
			return err
		}
	}

	op, err := p.manager.Transfer().Place(ctx, target, newDest)
	if err != nil {
		return err
	}
	return host.Then(ctx, op, func(ctx context.Context) error {
		if oldDest == newDest {
			if err := p.untrackRenamed(ctx, initial, target); err != nil {
				return err
			}
		}
		return p.track(ctx, target)
	})
}

// track re-resolves pkg and records it. Resolution is repeated rather than
// reused so the registry reflects the metadata as it is after the transfer.
func (p *PluginInstaller) track(ctx context.Context, pkg *composer.Package) error {
	plugin, err := p.resolver.Resolve(pkg)
	if err != nil {
		return err
	}
	if err := p.tracker.Upsert(plugin.Name, plugin.InstallPath); err != nil {
		return err
	}
	p.logger.InfoContext(ctx, "plugin installed", "plugin", plugin.Name, "path", plugin.InstallPath)
	return nil
}

func (p *PluginInstaller) untrack(ctx context.Context, pkg *composer.Package) error {
	name, err := p.resolver.Name(pkg)
	if err != nil {
		return err
	}
	if err := p.tracker.Remove(name); err != nil {
		return err
	}
	p.logger.InfoContext(ctx, "plugin removed", "plugin", name)
	return nil
}

// untrackRenamed drops the entry of initial when target resolves to a
// different plugin name.
func (p *PluginInstaller) untrackRenamed(ctx context.Context, initial, target *composer.Package) error {
	oldName, err := p.resolver.Name(initial)
	if err != nil {
		return err
	}
	newName, err := p.resolver.Name(target)
	if err != nil {
		return err
	}
	if oldName == newName {
		return nil
	}
	return p.untrack(ctx, initial)
}

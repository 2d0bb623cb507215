package host

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/originphp/plugin-installer/internal/composer"
)

// Installer installs packages of the types it supports.
type Installer interface {
	Supports(packageType string) bool
	InstallPath(pkg *composer.Package) (string, error)
	Install(ctx context.Context, pkg *composer.Package) error
	Update(ctx context.Context, initial, target *composer.Package) error
	Uninstall(ctx context.Context, pkg *composer.Package) error
}

// Manager routes packages to installers.
type Manager struct {
	root       string
	vendorDir  string
	transfer   Transfer
	logger     *slog.Logger
	installers []Installer
	library    *LibraryInstaller
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithVendorDir sets the vendor directory, relative to the root.
func WithVendorDir(dir string) ManagerOption {
	return func(m *Manager) { m.vendorDir = dir }
}

// WithTransfer replaces the default LocalTransfer.
func WithTransfer(t Transfer) ManagerOption {
	return func(m *Manager) { m.transfer = t }
}

// WithLogger sets the logger handed to installers.
func WithLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewManager returns a Manager for the project at root.
func NewManager(root string, opts ...ManagerOption) *Manager {
	m := &Manager{
		root:      root,
		vendorDir: "vendor",
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.transfer == nil {
		m.transfer = &LocalTransfer{Logger: m.logger}
	}
	if lt, ok := m.transfer.(*LocalTransfer); ok && lt.Root == "" {
		lt.Root = root
	}
	m.library = &LibraryInstaller{manager: m}
	return m
}

// Root returns the project root.
func (m *Manager) Root() string { return m.root }

// Transfer returns the transfer used to place package files.
func (m *Manager) Transfer() Transfer { return m.transfer }

// Logger returns the manager's logger.
func (m *Manager) Logger() *slog.Logger { return m.logger }

// AddInstaller registers an installer. Installers added later take
// precedence over earlier ones for the types they both support.
func (m *Manager) AddInstaller(i Installer) {
	m.installers = append([]Installer{i}, m.installers...)
}

// InstallerFor returns the installer for packageType, falling back to the
// library installer.
func (m *Manager) InstallerFor(packageType string) Installer {
	for _, i := range m.installers {
		if i.Supports(packageType) {
			return i
		}
	}
	return m.library
}

// DefaultInstallPath is the vendor location of a package:
// <root>/<vendor-dir>/<vendor>/<name>.
func (m *Manager) DefaultInstallPath(pkg *composer.Package, packageType string) string {
	return filepath.Join(m.root, m.vendorDir, filepath.FromSlash(pkg.Name))
}

// Abs resolves p against the project root unless it is already absolute.
func (m *Manager) Abs(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(m.root, filepath.FromSlash(p))
}

// InstallPath asks the responsible installer where pkg goes.
func (m *Manager) InstallPath(pkg *composer.Package) (string, error) {
	return m.InstallerFor(pkg.PackageType()).InstallPath(pkg)
}

// Install installs pkg with the responsible installer.
func (m *Manager) Install(ctx context.Context, pkg *composer.Package) error {
	m.logger.InfoContext(ctx, "installing package", "package", pkg.Name, "type", pkg.PackageType())
	if err := m.InstallerFor(pkg.PackageType()).Install(ctx, pkg); err != nil {
		return fmt.Errorf("installing %s: %w", pkg.Name, err)
	}
	return nil
}

// Uninstall removes pkg with the responsible installer.
func (m *Manager) Uninstall(ctx context.Context, pkg *composer.Package) error {
	m.logger.InfoContext(ctx, "removing package", "package", pkg.Name, "type", pkg.PackageType())
	if err := m.InstallerFor(pkg.PackageType()).Uninstall(ctx, pkg); err != nil {
		return fmt.Errorf("removing %s: %w", pkg.Name, err)
	}
	return nil
}

// Update replaces initial with target. When the package type changed, the
// old installer removes initial and the new one installs target.
func (m *Manager) Update(ctx context.Context, initial, target *composer.Package) error {
	from := m.InstallerFor(initial.PackageType())
	to := m.InstallerFor(target.PackageType())

	m.logger.InfoContext(ctx, "updating package", "package", target.Name, "from", initial.Version, "to", target.Version)
	if from == to {
		if err := to.Update(ctx, initial, target); err != nil {
			return fmt.Errorf("updating %s: %w", target.Name, err)
		}
		return nil
	}

	if err := from.Uninstall(ctx, initial); err != nil {
		return fmt.Errorf("removing %s: %w", initial.Name, err)
	}
	if err := to.Install(ctx, target); err != nil {
		return fmt.Errorf("installing %s: %w", target.Name, err)
	}
	return nil
}

// LibraryInstaller installs any package into the vendor directory.
type LibraryInstaller struct {
	manager *Manager
}

// Supports reports true for every type.
func (l *LibraryInstaller) Supports(string) bool { return true }

// InstallPath returns the vendor location of pkg.
func (l *LibraryInstaller) InstallPath(pkg *composer.Package) (string, error) {
	return l.manager.DefaultInstallPath(pkg, pkg.PackageType()), nil
}

// Install copies pkg into the vendor directory.
func (l *LibraryInstaller) Install(ctx context.Context, pkg *composer.Package) error {
	dest, _ := l.InstallPath(pkg)
	op, err := l.manager.transfer.Place(ctx, pkg, dest)
	return wait(ctx, op, err)
}

// Update replaces the installed files of initial with target.
func (l *LibraryInstaller) Update(ctx context.Context, initial, target *composer.Package) error {
	oldDest, _ := l.InstallPath(initial)
	newDest, _ := l.InstallPath(target)
	if oldDest != newDest {
		if err := l.Uninstall(ctx, initial); err != nil {
			return err
		}
	}
	return l.Install(ctx, target)
}

// Uninstall deletes pkg from the vendor directory.
func (l *LibraryInstaller) Uninstall(ctx context.Context, pkg *composer.Package) error {
	dest, _ := l.InstallPath(pkg)
	op, err := l.manager.transfer.Remove(ctx, pkg, dest)
	return wait(ctx, op, err)
}

// wait blocks until op completes. err is the error from starting op.
func wait(ctx context.Context, op Operation, err error) error {
	if err != nil {
		return err
	}
	return Then(ctx, op, func(context.Context) error { return nil })
}

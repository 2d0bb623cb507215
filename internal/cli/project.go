package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/originphp/plugin-installer/internal/branding"
	"github.com/originphp/plugin-installer/internal/composer"
	"github.com/originphp/plugin-installer/internal/config"
	"github.com/originphp/plugin-installer/internal/host"
	"github.com/originphp/plugin-installer/internal/installer"
	"github.com/originphp/plugin-installer/internal/tracker"
)

// project is the host side of one invocation: settings, the package manager
// and the activated plugin installer.
type project struct {
	settings  *config.Settings
	manager   *host.Manager
	tracker   *tracker.Tracker
	installer *installer.PluginInstaller
}

// projectRoot resolves --root, then <PREFIX>_ROOT, then the working directory.
func projectRoot() string {
	if rootDir != "" {
		return rootDir
	}
	if env := os.Getenv(branding.EnvVar("root")); env != "" {
		return env
	}
	return "."
}

func openProject() (*project, error) {
	settings, err := config.Load(projectRoot())
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	logger := slog.Default()
	manager := host.NewManager(settings.Root,
		host.WithVendorDir(settings.VendorDir),
		host.WithLogger(logger),
		host.WithTransfer(&host.LocalTransfer{Sync: settings.SyncTransfer}),
	)
	t := tracker.New(settings.TrackerPath(), settings.Root, tracker.WithLogger(logger))

	var opts []installer.Option
	if settings.LegacyNaming {
		opts = append(opts, installer.WithLegacyNaming())
	}

	return &project{
		settings:  settings,
		manager:   manager,
		tracker:   t,
		installer: installer.Activate(manager, t, opts...),
	}, nil
}

// loadPackage parses the composer.json in dir and logs schema violations.
func loadPackage(dir string) (*composer.Package, error) {
	pkg, err := composer.ParseDir(dir)
	if err != nil {
		return nil, err
	}

	result, err := composer.ValidateFile(filepath.Join(pkg.Dir, composer.FileName))
	if err == nil && !result.Valid {
		for _, issue := range result.Issues {
			slog.Warn("composer.json does not match the schema",
				"package", pkg.Name, "path", issue.Path, "issue", issue.Message)
		}
	}
	return pkg, nil
}

//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/originphp/plugin-installer/internal/composer"
	"github.com/originphp/plugin-installer/internal/config"
	"github.com/originphp/plugin-installer/internal/host"
	"github.com/originphp/plugin-installer/internal/installer"
	"github.com/originphp/plugin-installer/internal/tracker"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	ProjectDir string // project root holding vendor/, plugins/ and the registry
	SourceDir  string // package sources as a host would have downloaded them
}

// setupTestEnv creates isolated temp directories and clears environment
// overrides so settings come only from the project directory.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	for _, key := range config.Keys {
		t.Setenv("ORIGINPHP_"+strings.ToUpper(key), "")
		os.Unsetenv("ORIGINPHP_" + strings.ToUpper(key))
	}

	return &testEnv{
		ProjectDir: t.TempDir(),
		SourceDir:  t.TempDir(),
	}
}

// activate wires a host manager with the plugin installer the way the CLI
// does, honoring the project's settings file.
func activate(t *testing.T, env *testEnv) (*host.Manager, *tracker.Tracker) {
	t.Helper()

	settings, err := config.Load(env.ProjectDir)
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}

	m := host.NewManager(settings.Root,
		host.WithVendorDir(settings.VendorDir),
		host.WithTransfer(&host.LocalTransfer{Sync: settings.SyncTransfer}),
	)
	tr := tracker.New(settings.TrackerPath(), settings.Root)

	var opts []installer.Option
	if settings.LegacyNaming {
		opts = append(opts, installer.WithLegacyNaming())
	}
	installer.Activate(m, tr, opts...)
	return m, tr
}

// writePackage creates a package source at SourceDir/<dir> with a
// composer.json and one PHP file, and returns its parsed metadata.
func writePackage(t *testing.T, env *testEnv, dir, composerJSON string) *composer.Package {
	t.Helper()
	root := filepath.Join(env.SourceDir, dir)
	writeFile(t, filepath.Join(root, composer.FileName), composerJSON)
	writeFile(t, filepath.Join(root, "src", "Plugin.php"), "<?php\n")

	pkg, err := composer.ParseDir(root)
	if err != nil {
		t.Fatalf("parsing %s: %v", root, err)
	}
	return pkg
}

// registryContent returns the raw registry file of the project.
func registryContent(t *testing.T, env *testEnv) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(env.ProjectDir, "originphp-plugins.json"))
	if err != nil {
		t.Fatalf("reading registry: %v", err)
	}
	return string(data)
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileNotExists fails the test if the file exists.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}

// assertDirExists fails the test if the directory does not exist.
func assertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Errorf("expected directory to exist: %s (error: %v)", path, err)
		return
	}
	if !info.IsDir() {
		t.Errorf("expected %s to be a directory, but it is a file", path)
	}
}

package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/originphp/plugin-installer/internal/composer"
	"github.com/originphp/plugin-installer/internal/resolver"
	"github.com/originphp/plugin-installer/internal/tracker"
)

const userAuthentication = `{
  "name": "originphp/user-authentication",
  "type": "originphp-plugin",
  "version": "1.0.0",
  "autoload": {"psr-4": {"UserAuthentication\\": "src/"}}
}`

const unnamedPlugin = `{
  "name": "acme/unnamed",
  "type": "originphp-plugin",
  "autoload": {"psr-4": {"Acme\\Lib\\": "lib/", "Acme\\Other\\": "other/"}}
}`

const library = `{
  "name": "acme/http",
  "type": "library",
  "autoload": {"psr-4": {"Acme\\Http\\": "src/"}}
}`

// resetFlags restores every flag of cmd and its children to its default so
// state does not leak between executions of the shared command tree.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func writePackage(t *testing.T, composerJSON string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "src"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, composer.FileName), []byte(composerJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "src", "Plugin.php"), []byte("<?php\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func readRegistry(t *testing.T, root string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, "originphp-plugins.json"))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestInstallListUninstall(t *testing.T) {
	root := t.TempDir()
	src := writePackage(t, userAuthentication)

	out, err := execute(t, "--root", root, "install", src)
	if err != nil {
		t.Fatalf("install: %v", err)
	}
	if !strings.Contains(out, "vendor/originphp/user-authentication") {
		t.Errorf("install output = %q", out)
	}
	if _, err := os.Stat(filepath.Join(root, "vendor", "originphp", "user-authentication", "src", "Plugin.php")); err != nil {
		t.Errorf("plugin files not placed: %v", err)
	}

	want := "{\n  \"UserAuthentication\": \"vendor/originphp/user-authentication\"\n}\n"
	if got := readRegistry(t, root); got != want {
		t.Errorf("registry after install:\n%s", cmp.Diff(want, got))
	}

	out, err = execute(t, "--root", root, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "UserAuthentication") || !strings.Contains(out, "1 plugin(s) tracked") {
		t.Errorf("list output = %q", out)
	}

	installed := filepath.Join(root, "vendor", "originphp", "user-authentication")
	if _, err := execute(t, "--root", root, "uninstall", installed); err != nil {
		t.Fatalf("uninstall: %v", err)
	}
	if got := readRegistry(t, root); got != "{}\n" {
		t.Errorf("registry after uninstall = %q, want {}", got)
	}
	if _, err := os.Stat(installed); !os.IsNotExist(err) {
		t.Errorf("plugin directory still present: %v", err)
	}
}

func TestInstall_Unresolvable(t *testing.T) {
	root := t.TempDir()
	src := writePackage(t, unnamedPlugin)

	_, err := execute(t, "--root", root, "install", src)
	var re *resolver.ResolutionError
	if !errors.As(err, &re) {
		t.Fatalf("error = %v, want ResolutionError", err)
	}
	if _, err := os.Stat(filepath.Join(root, "originphp-plugins.json")); !os.IsNotExist(err) {
		t.Errorf("registry should not be created, stat error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "vendor")); !os.IsNotExist(err) {
		t.Errorf("no files should be placed, stat error = %v", err)
	}
}

func TestInstall_CorruptRegistry(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "originphp-plugins.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	src := writePackage(t, userAuthentication)

	_, err := execute(t, "--root", root, "install", src)
	var ce *tracker.CorruptionError
	if !errors.As(err, &ce) {
		t.Fatalf("error = %v, want CorruptionError", err)
	}
	if got := readRegistry(t, root); got != "{not json" {
		t.Errorf("corrupt registry was rewritten: %q", got)
	}
}

func TestInstall_LibraryIsNotTracked(t *testing.T) {
	root := t.TempDir()
	src := writePackage(t, library)

	if _, err := execute(t, "--root", root, "install", src); err != nil {
		t.Fatalf("install: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "vendor", "acme", "http", composer.FileName)); err != nil {
		t.Errorf("library not placed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "originphp-plugins.json")); !os.IsNotExist(err) {
		t.Errorf("library install touched the registry, stat error = %v", err)
	}
}

func TestUpdate(t *testing.T) {
	root := t.TempDir()
	v1 := writePackage(t, userAuthentication)
	if _, err := execute(t, "--root", root, "install", v1); err != nil {
		t.Fatalf("install: %v", err)
	}

	v2 := writePackage(t, strings.Replace(userAuthentication, `"1.0.0"`, `"1.1.0"`, 1))
	out, err := execute(t, "--root", root, "update", v2)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !strings.Contains(out, "(1.0.0 => 1.1.0)") {
		t.Errorf("update output = %q", out)
	}

	installed, err := composer.ParseDir(filepath.Join(root, "vendor", "originphp", "user-authentication"))
	if err != nil {
		t.Fatal(err)
	}
	if installed.Version != "1.1.0" {
		t.Errorf("installed version = %q, want 1.1.0", installed.Version)
	}
	want := "{\n  \"UserAuthentication\": \"vendor/originphp/user-authentication\"\n}\n"
	if got := readRegistry(t, root); got != want {
		t.Errorf("registry after update:\n%s", cmp.Diff(want, got))
	}
}

func TestUpdate_MovedInstallPath(t *testing.T) {
	root := t.TempDir()
	withInstall := func(version, install string) string {
		return strings.Replace(strings.Replace(userAuthentication, `"1.0.0"`, `"`+version+`"`, 1),
			`"autoload"`, `"extra": {"install": "`+install+`"}, "autoload"`, 1)
	}

	v1 := writePackage(t, withInstall("1.0.0", "plugins/auth"))
	if _, err := execute(t, "--root", root, "install", v1); err != nil {
		t.Fatalf("install: %v", err)
	}

	v2 := writePackage(t, withInstall("2.0.0", "plugins/authentication"))
	out, err := execute(t, "--root", root, "update", v2)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !strings.Contains(out, "(1.0.0 => 2.0.0)") {
		t.Errorf("update output = %q, want an update from the tracked copy", out)
	}

	if _, err := os.Stat(filepath.Join(root, "plugins", "auth")); !os.IsNotExist(err) {
		t.Errorf("old install path left behind, stat error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "plugins", "authentication", composer.FileName)); err != nil {
		t.Errorf("new install path missing: %v", err)
	}
	want := "{\n  \"UserAuthentication\": \"plugins/authentication\"\n}\n"
	if got := readRegistry(t, root); got != want {
		t.Errorf("registry after update:\n%s", cmp.Diff(want, got))
	}
}

func TestResolve_JSON(t *testing.T) {
	root := t.TempDir()
	src := writePackage(t, strings.Replace(userAuthentication,
		`"autoload"`, `"extra": {"install": "plugins/auth"}, "autoload"`, 1))

	out, err := execute(t, "--root", root, "resolve", "--json", src)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	var got resolveOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decoding %q: %v", out, err)
	}
	want := resolveOutput{
		Package:     "originphp/user-authentication",
		Type:        "originphp-plugin",
		Plugin:      "UserAuthentication",
		InstallPath: "plugins/auth",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("resolve output mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_NotAPlugin(t *testing.T) {
	src := writePackage(t, library)
	if _, err := execute(t, "--root", t.TempDir(), "resolve", src); err == nil {
		t.Fatal("expected error for a library package")
	}
}

func TestList_Empty(t *testing.T) {
	out, err := execute(t, "--root", t.TempDir(), "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "No plugins installed yet.") {
		t.Errorf("list output = %q", out)
	}
}

func TestValidate(t *testing.T) {
	valid := writePackage(t, userAuthentication)
	out, err := execute(t, "validate", valid)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, "is valid") {
		t.Errorf("validate output = %q", out)
	}

	invalid := writePackage(t, `{"name": "Not A Valid Name", "autoload": {"psr-4": {"X\\": 42}}}`)
	out, err = execute(t, "validate", invalid)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(out, "/name") {
		t.Errorf("validate output should point at /name: %q", out)
	}
}

func TestConfigSetGet(t *testing.T) {
	root := t.TempDir()

	if _, err := execute(t, "--root", root, "config", "set", "vendor_dir", "lib"); err != nil {
		t.Fatalf("config set: %v", err)
	}
	out, err := execute(t, "--root", root, "config", "get", "vendor_dir")
	if err != nil {
		t.Fatalf("config get: %v", err)
	}
	if strings.TrimSpace(out) != "lib" {
		t.Errorf("vendor_dir = %q, want lib", out)
	}

	if _, err := execute(t, "--root", root, "config", "set", "no_such_key", "x"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestConfig_VendorDirApplies(t *testing.T) {
	root := t.TempDir()
	if _, err := execute(t, "--root", root, "config", "set", "vendor_dir", "lib"); err != nil {
		t.Fatalf("config set: %v", err)
	}

	src := writePackage(t, userAuthentication)
	if _, err := execute(t, "--root", root, "install", src); err != nil {
		t.Fatalf("install: %v", err)
	}
	want := "{\n  \"UserAuthentication\": \"lib/originphp/user-authentication\"\n}\n"
	if got := readRegistry(t, root); got != want {
		t.Errorf("registry:\n%s", cmp.Diff(want, got))
	}
}

func TestVersion(t *testing.T) {
	buildVersion, buildCommit, buildDate = "1.2.3", "abc123", "2026-01-01"

	out, err := execute(t, "version", "-o", "short")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "1.2.3" {
		t.Errorf("short version = %q", out)
	}

	out, err = execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "origin-plugins version 1.2.3 (commit: abc123") {
		t.Errorf("version = %q", out)
	}

	out, err = execute(t, "version", "--output", "json")
	if err != nil {
		t.Fatal(err)
	}
	var info buildInfo
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("decoding %q: %v", out, err)
	}
	if info.Version != "1.2.3" || info.PackageType != "originphp-plugin" || info.GoVersion == "" {
		t.Errorf("json build info = %+v", info)
	}

	if _, err := execute(t, "version", "-o", "yaml"); err == nil {
		t.Error("expected error for unknown output format")
	}
}

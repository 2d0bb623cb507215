// Package branding provides compile-time identity values for the installer.
//
// The values live in branding.yaml next to this file and are baked into the
// binary with //go:embed, so a fork only has to edit one file.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName     string `yaml:"cli_name"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
	EnvPrefix   string `yaml:"env_prefix"`
	PackageType string `yaml:"package_type"`
	TrackerFile string `yaml:"tracker_file"`
	ConfigFile  string `yaml:"config_file"`
	PluginsDir  string `yaml:"plugins_dir"`
	VendorDir   string `yaml:"vendor_dir"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing or empty.
		defaults = brand{
			CLIName:     "origin-plugins",
			DisplayName: "OriginPHP Plugin Installer",
			Description: "Installs OriginPHP plugins and tracks where they live",
			EnvPrefix:   "ORIGINPHP",
			PackageType: "originphp-plugin",
			TrackerFile: "originphp-plugins.json",
			ConfigFile:  "origin-plugins",
			PluginsDir:  "plugins",
			VendorDir:   "vendor",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "origin-plugins").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// EnvPrefix returns the environment variable prefix (e.g., "ORIGINPHP").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// PackageType returns the composer package type routed to the plugin
// installer (e.g., "originphp-plugin").
func PackageType() string { load(); return defaults.PackageType }

// TrackerFile returns the file name of the installed-plugin registry.
func TrackerFile() string { load(); return defaults.TrackerFile }

// ConfigFile returns the base name (without extension) of the project
// configuration file.
func ConfigFile() string { load(); return defaults.ConfigFile }

// PluginsDir returns the conventional plugin directory name.
func PluginsDir() string { load(); return defaults.PluginsDir }

// VendorDir returns the default dependency vendor directory name.
func VendorDir() string { load(); return defaults.VendorDir }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("root") → "ORIGINPHP_ROOT".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}

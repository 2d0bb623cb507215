package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/originphp/plugin-installer/internal/branding"
)

const fileType = "yaml"

// Configuration keys.
const (
	KeyVendorDir    = "vendor_dir"
	KeyTrackerFile  = "tracker_file"
	KeyLegacyNaming = "legacy_naming"
	KeySyncTransfer = "sync_transfer"
)

// Keys lists every key accepted by Set.
var Keys = []string{KeyVendorDir, KeyTrackerFile, KeyLegacyNaming, KeySyncTransfer}

// Settings are the resolved installer settings for one project.
type Settings struct {
	Root         string
	VendorDir    string
	TrackerFile  string
	LegacyNaming bool
	SyncTransfer bool
}

// FilePath returns the config file location for a project root.
func FilePath(root string) string {
	return filepath.Join(root, branding.ConfigFile()+"."+fileType)
}

// Load reads the settings for the project at root. A missing config file is
// not an error.
func Load(root string) (*Settings, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving project root %s: %w", root, err)
	}

	v, err := newViper(abs)
	if err != nil {
		return nil, err
	}

	return &Settings{
		Root:         abs,
		VendorDir:    v.GetString(KeyVendorDir),
		TrackerFile:  v.GetString(KeyTrackerFile),
		LegacyNaming: v.GetBool(KeyLegacyNaming),
		SyncTransfer: v.GetBool(KeySyncTransfer),
	}, nil
}

// TrackerPath returns the absolute location of the plugin registry.
func (s *Settings) TrackerPath() string {
	if filepath.IsAbs(s.TrackerFile) {
		return s.TrackerFile
	}
	return filepath.Join(s.Root, s.TrackerFile)
}

// Get returns a config value by key. Returns empty string if not set.
func Get(root, key string) (string, error) {
	v, err := newViper(root)
	if err != nil {
		return "", err
	}
	return v.GetString(key), nil
}

// Set writes a config key-value pair to the project config file.
func Set(root, key, value string) error {
	if !slices.Contains(Keys, key) {
		return fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(Keys, ", "))
	}

	v, err := newViper(root)
	if err != nil {
		return err
	}
	v.Set(key, value)

	configFile := FilePath(root)

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func newViper(root string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(FilePath(root))
	v.SetConfigType(fileType)
	v.SetEnvPrefix(branding.EnvPrefix())
	v.AutomaticEnv()

	v.SetDefault(KeyVendorDir, branding.VendorDir())
	v.SetDefault(KeyTrackerFile, branding.TrackerFile())
	v.SetDefault(KeyLegacyNaming, false)
	v.SetDefault(KeySyncTransfer, false)

	if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
		return nil, fmt.Errorf("reading config file %s: %w", FilePath(root), err)
	}
	return v, nil
}

// isNotExist reports a missing config file. With SetConfigFile viper returns
// the underlying fs error rather than ConfigFileNotFoundError.
func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}

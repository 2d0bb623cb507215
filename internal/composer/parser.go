package composer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Parse decodes composer.json content.
func Parse(data []byte) (*Package, error) {
	var pkg Package
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}
	return &pkg, nil
}

// ParseFile reads and decodes a composer.json file. Dir is set to the
// directory containing the file.
func ParseFile(path string) (*Package, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	pkg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("resolving package directory for %s: %w", path, err)
	}
	pkg.Dir = dir
	return pkg, nil
}

// ParseDir reads the composer.json at the root of a package directory.
func ParseDir(dir string) (*Package, error) {
	return ParseFile(filepath.Join(dir, FileName))
}

// Exists reports whether dir contains a composer.json.
func Exists(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, FileName))
	return err == nil && !info.IsDir()
}

// readFile reads the contents of a file at the given path.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}

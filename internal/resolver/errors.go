package resolver

import "fmt"

// ResolutionError reports a package whose plugin name cannot be derived.
// It is fatal for the install or uninstall of that package.
type ResolutionError struct {
	Package string
	Message string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Package, e.Message)
}

func unresolvedName(pkg string) *ResolutionError {
	return &ResolutionError{
		Package: pkg,
		Message: `cannot determine plugin name; declare a psr-4 autoload mapping such as "PluginName\\": "src/" in composer.json`,
	}
}

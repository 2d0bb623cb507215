package tracker

import "fmt"

// CorruptionError reports a registry file that exists but is not a flat
// name → path object.
type CorruptionError struct {
	Path string
	Err  error
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("plugin registry %s is corrupt: %v", e.Path, e.Err)
}

func (e *CorruptionError) Unwrap() error { return e.Err }

// WriteError reports a registry file that could not be rewritten. The package
// files are already in place or gone at that point, so the registry is out of
// sync with the disk until the next successful write.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing plugin registry %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

package tracker

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/originphp/plugin-installer/internal/jsonmap"
)

//go:embed schema/registry.schema.json
var schemaBytes []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
)

// Entry is one tracked plugin.
type Entry struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Tracker reads and rewrites the registry file at Path.
type Tracker struct {
	path   string
	root   string
	logger *slog.Logger
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.logger = l
		}
	}
}

// New returns a Tracker for the registry file at path. Install paths under
// root are stored relative to it.
func New(path, root string, opts ...Option) *Tracker {
	t := &Tracker{
		path:   path,
		root:   root,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Path returns the location of the registry file.
func (t *Tracker) Path() string { return t.path }

// Normalize makes installPath relative to the project root: the root prefix
// is removed when installPath lies under it, then leading separators are
// dropped. Already relative paths only lose leading separators.
func (t *Tracker) Normalize(installPath string) string {
	p := filepath.ToSlash(installPath)

	root := strings.TrimRight(filepath.ToSlash(t.root), "/")
	if root != "" && (p == root || strings.HasPrefix(p, root+"/")) {
		p = p[len(root):]
	}

	return strings.TrimLeft(p, "/")
}

// Upsert records name at installPath, replacing any previous path. A path
// that normalizes to the project root itself is rejected.
func (t *Tracker) Upsert(name, installPath string) error {
	normalized := t.Normalize(installPath)
	if normalized == "" {
		return fmt.Errorf("cannot track %s: install path %q is the project root", name, installPath)
	}

	m, err := t.load()
	if err != nil {
		return err
	}

	if prev, ok := m.Set(name, normalized); ok && prev != normalized {
		t.logger.Debug("plugin moved", "plugin", name, "from", prev, "to", normalized)
	}

	if err := t.save(m); err != nil {
		return err
	}
	t.logger.Debug("plugin tracked", "plugin", name, "path", normalized, "registry", t.path)
	return nil
}

// Remove drops name from the registry. Removing an untracked name is not an
// error; the file is still rewritten.
func (t *Tracker) Remove(name string) error {
	m, err := t.load()
	if err != nil {
		return err
	}

	if _, ok := m.Delete(name); !ok {
		t.logger.Debug("plugin was not tracked", "plugin", name, "registry", t.path)
	}

	if err := t.save(m); err != nil {
		return err
	}
	t.logger.Debug("plugin untracked", "plugin", name, "registry", t.path)
	return nil
}

// Entries returns the tracked plugins in file order. A missing registry is
// empty and is not created.
func (t *Tracker) Entries() ([]Entry, error) {
	m, err := t.load()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, m.Len())
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		entries = append(entries, Entry{Name: pair.Key, Path: pair.Value})
	}
	return entries, nil
}

// Lookup returns the tracked path for name.
func (t *Tracker) Lookup(name string) (string, bool, error) {
	m, err := t.load()
	if err != nil {
		return "", false, err
	}
	p, ok := m.Get(name)
	return p, ok, nil
}

// load reads the full registry. A missing file yields an empty registry.
func (t *Tracker) load() (*orderedmap.OrderedMap[string, string], error) {
	data, err := os.ReadFile(t.path)
	if errors.Is(err, fs.ErrNotExist) {
		t.logger.Debug("plugin registry not found, starting empty", "registry", t.path)
		return orderedmap.New[string, string](), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading plugin registry %s: %w", t.path, err)
	}

	return t.parse(data)
}

func (t *Tracker) parse(data []byte) (*orderedmap.OrderedMap[string, string], error) {
	if err := validate(data); err != nil {
		return nil, &CorruptionError{Path: t.path, Err: err}
	}

	// An empty JSON array is the empty registry older installers wrote.
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		return orderedmap.New[string, string](), nil
	}

	m, err := jsonmap.Decode[string](data)
	if err != nil {
		return nil, &CorruptionError{Path: t.path, Err: err}
	}
	return m, nil
}

func (t *Tracker) save(m *orderedmap.OrderedMap[string, string]) error {
	data, err := jsonmap.Encode(m)
	if err != nil {
		return &WriteError{Path: t.path, Err: err}
	}
	if err := writeFileAtomic(t.path, data); err != nil {
		return &WriteError{Path: t.path, Err: err}
	}
	return nil
}

// validate checks data against the registry schema.
func validate(data []byte) error {
	schema, err := getSchema()
	if err != nil {
		return fmt.Errorf("loading schema: %w", err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(inst); err != nil {
		return errors.New("expected an object mapping plugin names to paths")
	}
	return nil
}

// getSchema compiles the embedded registry schema once.
func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("registry.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("registry.schema.json")
	})
	return compiledSchema, compileErr
}

package composer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/originphp/plugin-installer/internal/jsonmap"
)

// FileName is the metadata file every package carries at its root.
const FileName = "composer.json"

// DefaultType is the type composer assigns to packages that declare none.
const DefaultType = "library"

// Package is the subset of composer.json the installer reads.
type Package struct {
	Name        string         `json:"name"`
	Type        string         `json:"type,omitempty"`
	Version     string         `json:"version,omitempty"`
	Description string         `json:"description,omitempty"`
	Autoload    Autoload       `json:"autoload"`
	Extra       Extra          `json:"extra,omitempty"`

	// Dir is the directory composer.json was read from.
	Dir string `json:"-"`
}

// Autoload holds the autoload rules of a package. Only psr-4 is consulted;
// other loader kinds are skipped when decoding.
type Autoload struct {
	PSR4 Namespaces `json:"psr-4,omitempty"`
}

// UnmarshalJSON tolerates the [] PHP writes for an empty autoload block.
func (a *Autoload) UnmarshalJSON(data []byte) error {
	if isEmptyPHPArray(data) {
		*a = Autoload{}
		return nil
	}
	type plain Autoload
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*a = Autoload(p)
	return nil
}

// Extra is the free-form "extra" block of composer.json.
type Extra map[string]any

// UnmarshalJSON tolerates the [] PHP writes for an empty extra block.
func (e *Extra) UnmarshalJSON(data []byte) error {
	if isEmptyPHPArray(data) {
		*e = nil
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("extra: %w", err)
	}
	*e = m
	return nil
}

// PackageType returns the declared type, or DefaultType when none is set.
func (p *Package) PackageType() string {
	if p.Type == "" {
		return DefaultType
	}
	return p.Type
}

// ShortName returns the package part of the identity.
// "originphp/user-authentication" -> "user-authentication"
func (p *Package) ShortName() string {
	if i := strings.LastIndex(p.Name, "/"); i >= 0 {
		return p.Name[i+1:]
	}
	return p.Name
}

// ExtraString returns extra[key] when it holds a string, or "".
func (p *Package) ExtraString(key string) string {
	if p.Extra == nil {
		return ""
	}
	s, _ := p.Extra[key].(string)
	return s
}

// Dirs is the directory list of a psr-4 rule. composer.json may declare a
// single string or a list of strings.
type Dirs []string

// UnmarshalJSON accepts both the string and the list form.
func (d *Dirs) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*d = Dirs{one}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return errors.New("psr-4 directory must be a string or a list of strings")
	}
	*d = many
	return nil
}

// MarshalJSON writes a single directory in the string form.
func (d Dirs) MarshalJSON() ([]byte, error) {
	if len(d) == 1 {
		return json.Marshal(d[0])
	}
	return json.Marshal([]string(d))
}

// Rule is one psr-4 entry: a namespace prefix and its source directories.
type Rule struct {
	Prefix string
	Dirs   Dirs
}

// Namespaces is the psr-4 mapping in declaration order.
type Namespaces struct {
	m *orderedmap.OrderedMap[string, Dirs]
}

// NewNamespaces builds a mapping from rules, keeping their order.
func NewNamespaces(rules ...Rule) Namespaces {
	var ns Namespaces
	for _, r := range rules {
		ns.Set(r.Prefix, r.Dirs...)
	}
	return ns
}

// Set adds or replaces the directories for a namespace prefix. A new prefix
// goes to the end; an existing one keeps its position.
func (n *Namespaces) Set(prefix string, dirs ...string) {
	if n.m == nil {
		n.m = orderedmap.New[string, Dirs]()
	}
	n.m.Set(prefix, Dirs(dirs))
}

// Len returns the number of rules.
func (n Namespaces) Len() int {
	if n.m == nil {
		return 0
	}
	return n.m.Len()
}

// Rules returns the rules in declaration order.
func (n Namespaces) Rules() []Rule {
	if n.m == nil {
		return nil
	}
	rules := make([]Rule, 0, n.m.Len())
	for pair := n.m.Oldest(); pair != nil; pair = pair.Next() {
		rules = append(rules, Rule{Prefix: pair.Key, Dirs: pair.Value})
	}
	return rules
}

// UnmarshalJSON decodes the mapping keeping the declaration order.
func (n *Namespaces) UnmarshalJSON(data []byte) error {
	if isEmptyPHPArray(data) || string(bytes.TrimSpace(data)) == "null" {
		n.m = nil
		return nil
	}
	m, err := jsonmap.Decode[Dirs](data)
	if err != nil {
		return fmt.Errorf("psr-4: %w", err)
	}
	n.m = m
	return nil
}

// MarshalJSON encodes the mapping in declaration order.
func (n Namespaces) MarshalJSON() ([]byte, error) {
	return jsonmap.Encode(n.m)
}

// isEmptyPHPArray reports whether data is [], which is how PHP's json_encode
// writes an empty associative array.
func isEmptyPHPArray(data []byte) bool {
	return string(bytes.Join(bytes.Fields(data), nil)) == "[]"
}

// Package jsonmap decodes and encodes JSON objects whose key order matters.
//
// Composer's psr-4 rules are scanned in declaration order and the plugin
// registry keeps its entries in insertion order, so neither can round-trip
// through a plain Go map.
package jsonmap

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ErrNotObject is returned by Decode when the top-level value is not a JSON object.
var ErrNotObject = errors.New("expected a JSON object")

// Decode parses a JSON object into an ordered map, keeping the keys in the
// order they appear in data. Values are decoded with encoding/json, so V may
// implement json.Unmarshaler. Duplicate keys keep their first position and
// the last value.
func Decode[V any](data []byte) (*orderedmap.OrderedMap[string, V], error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("reading JSON: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, ErrNotObject
	}

	m := orderedmap.New[string, V]()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("reading object key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v in object", tok)
		}

		var value V
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("decoding value for key %q: %w", key, err)
		}
		m.Set(key, value)
	}

	// Closing brace.
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("reading JSON: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON object")
	}

	return m, nil
}

// Encode serializes an ordered map as an indented JSON object followed by a
// newline. A nil map encodes as an empty object.
func Encode[V any](m *orderedmap.OrderedMap[string, V]) ([]byte, error) {
	if m == nil || m.Len() == 0 {
		return []byte("{}\n"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		key, err := marshal(pair.Key)
		if err != nil {
			return nil, fmt.Errorf("encoding key %q: %w", pair.Key, err)
		}
		value, err := marshal(pair.Value)
		if err != nil {
			return nil, fmt.Errorf("encoding value for key %q: %w", pair.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// marshal encodes v without HTML escaping and without the trailing newline
// json.Encoder adds.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

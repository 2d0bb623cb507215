package jsonmap

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

func keys[V any](m *orderedmap.OrderedMap[string, V]) []string {
	var out []string
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

func TestDecode_KeepsOrder(t *testing.T) {
	m, err := Decode[string]([]byte(`{"Zeta": "z", "Alpha": "a", "Mid\\dle": "m"}`))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Zeta", "Alpha", `Mid\dle`}
	if diff := cmp.Diff(want, keys(m)); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_DuplicateKey(t *testing.T) {
	m, err := Decode[int]([]byte(`{"a": 1, "b": 2, "a": 3}`))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, keys(m)); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	if v, _ := m.Get("a"); v != 3 {
		t.Errorf("a = %d, want 3", v)
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		notObject bool
	}{
		{name: "array", input: `["a"]`, notObject: true},
		{name: "string", input: `"a"`, notObject: true},
		{name: "null", input: `null`, notObject: true},
		{name: "empty", input: ``},
		{name: "truncated", input: `{"a": "b"`},
		{name: "wrong value type", input: `{"a": 1}`},
		{name: "trailing data", input: `{"a": "b"} {}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode[string]([]byte(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.Is(err, ErrNotObject); got != tt.notObject {
				t.Errorf("errors.Is(err, ErrNotObject) = %v, want %v (err: %v)", got, tt.notObject, err)
			}
		})
	}
}

func TestEncode(t *testing.T) {
	m := orderedmap.New[string, string]()
	m.Set("UserAuthentication", "vendor/originphp/user-authentication")
	m.Set(`Acme\Blog`, "plugins/<blog>")

	got, err := Encode(m)
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"UserAuthentication\": \"vendor/originphp/user-authentication\",\n  \"Acme\\\\Blog\": \"plugins/<blog>\"\n}\n"
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Errorf("Encode mismatch (-want +got):\n%s", diff)
	}

	back, err := Decode[string](got)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(keys(m), keys(back)); diff != "" {
		t.Errorf("round trip keys mismatch (-want +got):\n%s", diff)
	}
}

func TestEncode_Empty(t *testing.T) {
	for _, m := range []*orderedmap.OrderedMap[string, string]{nil, orderedmap.New[string, string]()} {
		got, err := Encode(m)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != "{}\n" {
			t.Errorf("Encode(empty) = %q, want {}", got)
		}
	}
}

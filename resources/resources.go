// Package resources provides the externally configured strings of the application,
// such as the file extension used for each diagram kind.
package resources

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed strings.yaml
var defaultStrings []byte

// Bundle is an immutable set of keyed strings.
type Bundle struct {
	values map[string]string
}

// Parse reads a bundle from YAML. Nested maps are flattened to dotted keys,
// so both `a.b: x` and `a: {b: x}` define the key "a.b".
func Parse(data []byte) (*Bundle, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing resource bundle: %w", err)
	}
	values := make(map[string]string)
	if err := flatten("", raw, values); err != nil {
		return nil, err
	}
	return &Bundle{values: values}, nil
}

func flatten(prefix string, m map[string]any, out map[string]string) error {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			if err := flatten(key, val, out); err != nil {
				return err
			}
		case string:
			out[key] = val
		case nil:
			out[key] = ""
		case []any:
			return fmt.Errorf("resource %q: lists are not supported", key)
		default:
			out[key] = fmt.Sprint(val)
		}
	}
	return nil
}

// Lookup returns the string for key and whether it exists.
func (b *Bundle) Lookup(key string) (string, bool) {
	v, ok := b.values[key]
	return v, ok
}

// String returns the string for key, or "!key!" when it is missing.
func (b *Bundle) String(key string) string {
	if v, ok := b.values[key]; ok {
		return v
	}
	return "!" + key + "!"
}

// Keys returns all keys in sorted order.
func (b *Bundle) Keys() []string {
	keys := make([]string, 0, len(b.values))
	for k := range b.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var loadDefault = sync.OnceValue(func() *Bundle {
	b, err := Parse(defaultStrings)
	if err != nil {
		panic(fmt.Sprintf("embedded resources: %v", err))
	}
	return b
})

// Default returns the bundle embedded in the binary.
func Default() *Bundle {
	return loadDefault()
}

// Lookup looks key up in the default bundle.
func Lookup(key string) (string, bool) {
	return Default().Lookup(key)
}

// String looks key up in the default bundle.
func String(key string) string {
	return Default().String(key)
}

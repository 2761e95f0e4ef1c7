package resources

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultBundleHasExtensions(t *testing.T) {
	for _, name := range []string{"classdiagram", "sequencediagram", "statediagram", "objectdiagram", "usecasediagram"} {
		ext, ok := Lookup(name + ".file.extension")
		require.True(t, ok, "missing extension for %s", name)
		require.NotEmpty(t, ext)
	}
	require.Equal(t, ".jet", String("application.file.extension"))
}

func TestMissingKey(t *testing.T) {
	_, ok := Lookup("no.such.key")
	require.False(t, ok)
	require.Equal(t, "!no.such.key!", String("no.such.key"))
}

func TestParseFlattensNestedMaps(t *testing.T) {
	b, err := Parse([]byte(`
flat.key: one
nested:
  inner:
    key: two
number: 3
empty:
`))
	require.NoError(t, err)
	require.Equal(t, "one", b.String("flat.key"))
	require.Equal(t, "two", b.String("nested.inner.key"))
	require.Equal(t, "3", b.String("number"))
	v, ok := b.Lookup("empty")
	require.True(t, ok)
	require.Equal(t, "", v)
	require.Equal(t, []string{"empty", "flat.key", "nested.inner.key", "number"}, b.Keys())
}

func TestParseRejectsLists(t *testing.T) {
	_, err := Parse([]byte("a:\n  - 1\n  - 2\n"))
	require.Error(t, err)
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("a: [unclosed"))
	require.Error(t, err)
}

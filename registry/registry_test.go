package registry

import (
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"jetuml/diagram"
	"jetuml/render"
	"jetuml/resources"
)

func requireFault(t *testing.T, fn func()) *Fault {
	t.Helper()
	var got any
	func() {
		defer func() { got = recover() }()
		fn()
	}()
	f, ok := got.(*Fault)
	require.True(t, ok, "expected *Fault panic, got %#v", got)
	return f
}

// strayDiagram satisfies diagram.Diagram without being a registered type.
type strayDiagram struct {
	*diagram.ClassDiagram
}

func TestKindRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		k := rapid.SampledFrom(Kinds()).Draw(t, "kind")
		d := NewDiagram(k)
		if got := KindOf(d); got != k {
			t.Fatalf("KindOf(NewDiagram(%v)) = %v", k, got)
		}
		if !d.Graph().IsEmpty() {
			t.Fatalf("NewDiagram(%v) is not empty", k)
		}
	})
}

func TestNewDiagramReturnsFreshInstances(t *testing.T) {
	for _, k := range Kinds() {
		require.NotSame(t, NewDiagram(k), NewDiagram(k), "kind %v", k)
	}
}

func TestFileExtensions(t *testing.T) {
	seen := map[string]diagram.Kind{}
	for _, k := range Kinds() {
		ext := FileExtension(k)
		require.NotEmpty(t, ext, "kind %v", k)
		other, dup := seen[ext]
		require.False(t, dup, "%v and %v share extension %q", k, other, ext)
		seen[ext] = k

		want, ok := resources.Lookup(DisplayName(k) + ".file.extension")
		require.True(t, ok)
		require.Equal(t, want, ext)
	}
	require.Equal(t, ".class.jet", FileExtension(diagram.KindClass))
	require.Len(t, Extensions(), 5)
}

func TestKindOfFaults(t *testing.T) {
	f := requireFault(t, func() { KindOf(nil) })
	require.Equal(t, "KindOf", f.Op)
	require.Contains(t, f.Error(), "nil diagram")

	f = requireFault(t, func() { KindOf(strayDiagram{diagram.NewClassDiagram()}) })
	require.Contains(t, f.Msg, "strayDiagram")

	var typedNil *diagram.StateDiagram
	requireFault(t, func() { KindOf(typedNil) })
}

func TestInvalidKindFaults(t *testing.T) {
	bad := diagram.Kind(42)
	requireFault(t, func() { FileExtension(bad) })
	requireFault(t, func() { NewDiagram(bad) })
	requireFault(t, func() { DisplayName(bad) })
	requireFault(t, func() { ViewerFor(bad) })
	requireFault(t, func() { Describe(bad) })
}

func TestNewBuilder(t *testing.T) {
	for _, k := range Kinds() {
		d := NewDiagram(k)
		b := NewBuilder(d)
		require.Equal(t, k, b.TargetKind())
		require.Same(t, d, b.Diagram())
	}
	requireFault(t, func() { NewBuilder(nil) })
}

func TestViewers(t *testing.T) {
	instances := map[render.Viewer]diagram.Kind{}
	for _, k := range Kinds() {
		v := Viewer(NewDiagram(k))
		require.Same(t, v, Viewer(NewDiagram(k)), "viewer for %v is not stable", k)
		require.Same(t, v, ViewerFor(k))

		_, sequence := v.(*render.SequenceDiagramViewer)
		_, generic := v.(*render.DiagramViewer)
		if k == diagram.KindSequence {
			require.True(t, sequence, "sequence kind should use the sequence viewer")
		} else {
			require.True(t, generic, "%v should use the generic viewer", k)
		}

		other, dup := instances[v]
		require.False(t, dup, "%v and %v share a viewer instance", k, other)
		instances[v] = k
	}
	requireFault(t, func() { Viewer(nil) })
}

func TestDisplayNames(t *testing.T) {
	require.Equal(t, "classdiagram", DisplayName(diagram.KindClass))
	for _, k := range Kinds() {
		typeName := reflect.TypeOf(NewDiagram(k)).Elem().Name()
		require.Equal(t, strings.ToLower(typeName), DisplayName(k))
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name string
		want diagram.Kind
		ok   bool
	}{
		{"classdiagram", diagram.KindClass, true},
		{" SequenceDiagram ", diagram.KindSequence, true},
		{"usecase", diagram.KindUseCase, true},
		{"use-case", diagram.KindUseCase, true},
		{"timingdiagram", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := Lookup(tt.name)
		require.Equal(t, tt.ok, ok, "Lookup(%q)", tt.name)
		if ok {
			require.Equal(t, tt.want, got, "Lookup(%q)", tt.name)
		}
	}
}

func TestKindForPath(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		k := rapid.SampledFrom(Kinds()).Draw(t, "kind")
		base := rapid.StringMatching(`[a-zA-Z0-9_/]{1,20}`).Draw(t, "base")
		got, ok := KindForPath(base + FileExtension(k))
		if !ok || got != k {
			t.Fatalf("KindForPath(%q) = %v, %v; want %v", base+FileExtension(k), got, ok, k)
		}
	})

	_, ok := KindForPath("notes.jet")
	require.False(t, ok)
	k, ok := KindForPath("Design.STATE.JET")
	require.True(t, ok)
	require.Equal(t, diagram.KindState, k)
}

func TestDescribe(t *testing.T) {
	d := Describe(diagram.KindUseCase)
	require.Equal(t, Descriptor{
		Kind:          diagram.KindUseCase,
		Name:          "usecasediagram",
		Label:         "Use Case Diagram",
		FileExtension: ".usecase.jet",
		Viewer:        "DiagramViewer",
	}, d)
	require.Equal(t, "SequenceDiagramViewer", Describe(diagram.KindSequence).Viewer)
}

func TestBuildMissingExtension(t *testing.T) {
	b, err := resources.Parse([]byte("classdiagram.file.extension: .c\n"))
	require.NoError(t, err)
	f := requireFault(t, func() { build(b) })
	require.Equal(t, "init", f.Op)
	require.Contains(t, f.Msg, "sequencediagram")
}

func TestBuildDuplicateExtension(t *testing.T) {
	var sb strings.Builder
	for _, name := range kindNames {
		sb.WriteString(name + ".file.extension: .jet\n")
	}
	b, err := resources.Parse([]byte(sb.String()))
	require.NoError(t, err)
	f := requireFault(t, func() { build(b) })
	require.Contains(t, f.Msg, "share file extension")
}

func TestBuildLabelFallback(t *testing.T) {
	var sb strings.Builder
	for _, name := range kindNames {
		sb.WriteString(name + ".file.extension: ." + name + "\n")
	}
	b, err := resources.Parse([]byte(sb.String()))
	require.NoError(t, err)
	tbl := build(b)
	require.Equal(t, "Class Diagram", tbl.entries[diagram.KindClass].label)
	require.Equal(t, "Usecase Diagram", tbl.entries[diagram.KindUseCase].label)
}

func TestConcurrentLookups(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, k := range Kinds() {
				if KindOf(NewDiagram(k)) != k || Viewer(NewDiagram(k)) != ViewerFor(k) {
					t.Errorf("inconsistent lookup for %v", k)
				}
			}
		}()
	}
	wg.Wait()
}

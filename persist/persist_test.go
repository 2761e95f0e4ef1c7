package persist

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"jetuml/diagram"
	"jetuml/registry"
)

func sampleClassDiagram() *diagram.ClassDiagram {
	d := diagram.NewClassDiagram()
	d.Metadata().Name = "shop"
	g := d.Graph()
	pkg := g.AddNode(diagram.Node{Type: diagram.PackageNode, Name: "model"})
	order := g.AddNode(diagram.Node{Type: diagram.ClassNode, Name: "Order", Parent: pkg.ID, Attributes: []string{"id: int"}})
	item := g.AddNode(diagram.Node{Type: diagram.ClassNode, Name: "Item", Methods: []string{"price()"}})
	g.AddEdge(diagram.Edge{Type: diagram.CompositionEdge, Start: order.ID, End: item.ID, Label: "items"})
	return d
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, k := range registry.Kinds() {
		d := registry.NewDiagram(k)
		d.Graph().AddNode(diagram.Node{Type: diagram.NoteNode, Name: "hello " + k.String()})

		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, d))
		require.Contains(t, buf.String(), `"diagram": "`+registry.DisplayName(k)+`"`)
		require.Contains(t, buf.String(), `"version": "1.0"`)

		got, err := Decode(&buf)
		require.NoError(t, err)
		require.Equal(t, k, registry.KindOf(got))
		require.Equal(t, d.Graph().Nodes(), got.Graph().Nodes())
	}
}

func TestRoundTripPreservesGraph(t *testing.T) {
	d := sampleClassDiagram()
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, d))

	got, err := Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, d.Graph().Nodes(), got.Graph().Nodes())
	require.Equal(t, d.Graph().Edges(), got.Graph().Edges())
	require.Equal(t, "shop", got.Metadata().Name)
	require.Equal(t, d.Graph().NextID(), got.Graph().NextID())
}

func TestEncodeEmptyDiagram(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, diagram.NewStateDiagram()))
	require.Contains(t, buf.String(), `"nodes": []`)
	require.Contains(t, buf.String(), `"edges": []`)
	require.Error(t, Encode(&buf, nil))
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"unknown kind", `{"diagram": "timingdiagram", "version": "1.0"}`, ErrUnknownKind},
		{"future version", `{"diagram": "classdiagram", "version": "2.0"}`, ErrVersion},
		{"missing version", `{"diagram": "classdiagram"}`, ErrVersion},
		{"dangling edge", `{"diagram": "statediagram", "version": "1.0",
			"nodes": [{"id": 1, "type": "StateNode"}],
			"edges": [{"id": 2, "type": "StateTransitionEdge", "start": 1, "end": 9}]}`, ErrDanglingEdge},
		{"missing parent", `{"diagram": "objectdiagram", "version": "1.0",
			"nodes": [{"id": 1, "type": "FieldNode", "parent": 5}]}`, ErrMissingParent},
		{"self parent", `{"diagram": "classdiagram", "version": "1.0",
			"nodes": [{"id": 1, "type": "PackageNode", "name": "p", "parent": 1}], "edges": []}`, ErrParentCycle},
		{"parent loop", `{"diagram": "classdiagram", "version": "1.0",
			"nodes": [{"id": 1, "type": "PackageNode", "name": "a", "parent": 2},
				{"id": 2, "type": "PackageNode", "name": "b", "parent": 1}]}`, ErrParentCycle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			require.ErrorIs(t, err, tt.want)
		})
	}

	_, err := Decode(strings.NewReader("{not json"))
	require.Error(t, err)
}

func TestDecodeRenumbersDuplicates(t *testing.T) {
	input := `{"diagram": "usecasediagram", "version": "1.0",
		"nodes": [
			{"id": 1, "type": "ActorNode", "name": "User"},
			{"id": 1, "type": "UseCaseNode", "name": "Login"},
			{"type": "UseCaseNode", "name": "Logout"}
		],
		"edges": [
			{"id": 1, "type": "UseCaseAssociationEdge", "start": 1, "end": 2}
		]}`
	d, err := Decode(strings.NewReader(input))
	require.NoError(t, err)

	nodes := d.Graph().Nodes()
	require.Len(t, nodes, 3)
	ids := map[int]bool{}
	for _, n := range nodes {
		require.Positive(t, n.ID)
		require.False(t, ids[n.ID], "duplicate id %d", n.ID)
		ids[n.ID] = true
	}
	edges := d.Graph().Edges()
	require.Len(t, edges, 1)
	require.False(t, ids[edges[0].ID], "edge id %d clashes with a node", edges[0].ID)
}

func TestSaveAppendsExtension(t *testing.T) {
	dir := t.TempDir()
	d := sampleClassDiagram()

	path, err := Save(filepath.Join(dir, "shop"), d)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "shop.class.jet"), path)

	again, err := Save(path, d)
	require.NoError(t, err)
	require.Equal(t, path, again, "extension should not be appended twice")

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, diagram.KindClass, registry.KindOf(loaded))
	require.Equal(t, d.Graph().Edges(), loaded.Graph().Edges())
}

func TestLoadKindMismatch(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleClassDiagram()))
	path := filepath.Join(dir, "wrong.state.jet")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	_, err := Load(path)
	require.ErrorIs(t, err, ErrKindMismatch)

	// Unregistered extensions are accepted as-is.
	plain := filepath.Join(dir, "plain.json")
	require.NoError(t, os.WriteFile(plain, buf.Bytes(), 0o644))
	_, err = Load(plain)
	require.NoError(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.class.jet"))
	require.Error(t, err)
	require.True(t, errors.Is(err, os.ErrNotExist))
}

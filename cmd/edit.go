package cmd

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"jetuml/builder"
	"jetuml/diagram"
	"jetuml/registry"
)

type editFlags struct {
	parent  int
	attrs   []string
	methods []string
	label   string
}

func newEditCmd(a *app) *cobra.Command {
	var f editFlags
	cmd := &cobra.Command{
		Use:   "edit <file> <operation> [args...]",
		Short: "Apply one edit to a diagram file",
		Long: `Apply one builder operation to a diagram and save it.

Operations:
  add <nodeType> <name>          add a node (--parent, --attr, --method)
  connect <edgeType> <from> <to> connect two nodes (--label)
  remove <id>...                 remove nodes or edges; children and
                                 attached edges go with a node
  rename <id> <name>             rename a node

Type names may omit their Node or Edge suffix and ignore case, so
"class" means ClassNode and "generalization" means GeneralizationEdge.
The operation is checked against the rules of the diagram's kind.`,
		Example: `  jetuml edit model.class.jet add class Account --method "deposit()"
  jetuml edit model.class.jet connect generalization 2 1
  jetuml edit model.class.jet rename 2 SavingsAccount`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			d, err := a.store.Load(path)
			if err != nil {
				return err
			}
			session := builder.NewSession(registry.NewBuilder(d), a.cfg.History.Size)

			op, err := buildOperation(session.Builder(), args[1], args[2:], f)
			if err != nil {
				return err
			}
			next := d.Graph().NextID()
			session.Apply(op)

			if _, err := a.store.Save(path, d); err != nil {
				session.Undo()
				return err
			}
			a.logger.Info("Edited diagram", "file", path, "operation", op.String())

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, op.String())
			if ids := createdIDs(d.Graph(), next); len(ids) > 0 {
				fmt.Fprintf(out, "created %s\n", joinInts(ids))
			}
			return nil
		},
	}
	f.register(cmd.Flags())
	return cmd
}

func (f *editFlags) register(fs *pflag.FlagSet) {
	fs.IntVar(&f.parent, "parent", 0, "id of the containing node")
	fs.StringArrayVar(&f.attrs, "attr", nil, "attribute or field value (repeatable)")
	fs.StringArrayVar(&f.methods, "method", nil, "method (repeatable)")
	fs.StringVar(&f.label, "label", "", "edge label")
}

func buildOperation(b builder.DiagramBuilder, op string, args []string, f editFlags) (builder.Operation, error) {
	k := b.TargetKind()
	switch strings.ToLower(op) {
	case "add":
		if len(args) != 2 {
			return nil, fmt.Errorf("add needs <nodeType> <name>")
		}
		t, err := resolveNodeType(k, args[0])
		if err != nil {
			return nil, err
		}
		return b.AddNode(diagram.Node{
			Type:       t,
			Name:       args[1],
			Parent:     f.parent,
			Attributes: f.attrs,
			Methods:    f.methods,
		})

	case "connect":
		if len(args) != 3 {
			return nil, fmt.Errorf("connect needs <edgeType> <from> <to>")
		}
		t, err := resolveEdgeType(k, args[0])
		if err != nil {
			return nil, err
		}
		ids, err := parseIDs(args[1:])
		if err != nil {
			return nil, err
		}
		return b.Connect(diagram.Edge{Type: t, Start: ids[0], End: ids[1], Label: f.label})

	case "remove":
		if len(args) == 0 {
			return nil, fmt.Errorf("remove needs at least one id")
		}
		ids, err := parseIDs(args)
		if err != nil {
			return nil, err
		}
		return b.Remove(ids...)

	case "rename":
		if len(args) != 2 {
			return nil, fmt.Errorf("rename needs <id> <name>")
		}
		ids, err := parseIDs(args[:1])
		if err != nil {
			return nil, err
		}
		return b.Rename(ids[0], args[1])
	}
	return nil, fmt.Errorf("unknown operation %q (want add, connect, remove or rename)", op)
}

func resolveNodeType(k diagram.Kind, s string) (diagram.NodeType, error) {
	allowed := builder.NodeTypes(k)
	for _, t := range allowed {
		if matchType(string(t), "Node", s) {
			return t, nil
		}
	}
	return "", fmt.Errorf("node type %q not allowed in %s diagrams (want one of %s)", s, k, joinTypes(allowed))
}

func resolveEdgeType(k diagram.Kind, s string) (diagram.EdgeType, error) {
	allowed := builder.EdgeTypes(k)
	for _, t := range allowed {
		if matchType(string(t), "Edge", s) {
			return t, nil
		}
	}
	return "", fmt.Errorf("edge type %q not allowed in %s diagrams (want one of %s)", s, k, joinTypes(allowed))
}

func matchType(name, suffix, s string) bool {
	return strings.EqualFold(name, s) || strings.EqualFold(strings.TrimSuffix(name, suffix), s)
}

func joinTypes[T ~string](types []T) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func parseIDs(args []string) ([]int, error) {
	ids := make([]int, len(args))
	for i, s := range args {
		id, err := strconv.Atoi(s)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid element id %q", s)
		}
		ids[i] = id
	}
	return ids, nil
}

// createdIDs returns the ids of elements added at or after next.
func createdIDs(g *diagram.Graph, next int) []int {
	var ids []int
	for _, n := range g.Nodes() {
		if n.ID >= next {
			ids = append(ids, n.ID)
		}
	}
	for _, e := range g.Edges() {
		if e.ID >= next {
			ids = append(ids, e.ID)
		}
	}
	slices.Sort(ids)
	return ids
}

func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, " ")
}

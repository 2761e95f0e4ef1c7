package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"jetuml/builder"
	"jetuml/registry"
)

type kindInfo struct {
	Kind          string   `json:"kind"`
	Name          string   `json:"name"`
	Label         string   `json:"label"`
	FileExtension string   `json:"file_extension"`
	Viewer        string   `json:"viewer"`
	NodeTypes     []string `json:"node_types"`
	EdgeTypes     []string `json:"edge_types"`
}

func newKindsCmd(_ *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "kinds",
		Short: "List the supported diagram kinds",
		Long: `List every diagram kind with its display name, label, file extension
and viewer. Use --json for the element types each kind accepts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var infos []kindInfo
			for _, k := range registry.Kinds() {
				d := registry.Describe(k)
				info := kindInfo{
					Kind:          k.String(),
					Name:          d.Name,
					Label:         d.Label,
					FileExtension: d.FileExtension,
					Viewer:        d.Viewer,
				}
				for _, t := range builder.NodeTypes(k) {
					info.NodeTypes = append(info.NodeTypes, string(t))
				}
				for _, t := range builder.EdgeTypes(k) {
					info.EdgeTypes = append(info.EdgeTypes, string(t))
				}
				infos = append(infos, info)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(infos)
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "KIND\tNAME\tLABEL\tEXTENSION\tVIEWER")
			for _, info := range infos {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", info.Kind, info.Name, info.Label, info.FileExtension, info.Viewer)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

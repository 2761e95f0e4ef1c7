package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"jetuml/export"
	"jetuml/persist"
	"jetuml/registry"
)

func newNewCmd(a *app) *cobra.Command {
	var name string
	var force bool
	cmd := &cobra.Command{
		Use:   "new <kind> <file>",
		Short: "Create an empty diagram file",
		Long: `Create an empty diagram of the given kind. The kind may be a short name
(class, sequence, state, object, usecase) or a display name (classdiagram).
The kind's file extension is appended when the file name lacks it.`,
		Example: `  jetuml new class model
  jetuml new sequencediagram login.sequence.jet --name Login`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, ok := registry.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown diagram kind %q (run 'jetuml kinds')", args[0])
			}
			d := registry.NewDiagram(k)
			d.Metadata().Name = name

			path := persist.PathFor(args[1], d)
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to replace it)", path)
			}
			saved, err := a.store.Save(path, d)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), saved)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "diagram name stored in the metadata")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "replace an existing file")
	return cmd
}

func newRenderCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "render <file>",
		Short: "Print a diagram as text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.store.Load(args[0])
			if err != nil {
				return err
			}
			out, err := registry.Viewer(d).Render(d)
			if err != nil {
				return fmt.Errorf("rendering %s: %w", args[0], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Convert a diagram to another format",
		Long: `Convert a diagram to ascii, json, plantuml, mermaid or graphviz.
The default format comes from export.format in the config.`,
		Example: `  jetuml export model.class.jet --format plantuml
  jetuml export login.sequence.jet -f mmd -o login.mmd`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = a.cfg.Export.Format
			}
			f, err := export.ParseFormat(format)
			if err != nil {
				return fmt.Errorf("%w\nAvailable formats: %s", err, formatList())
			}
			exporter, err := export.New(f)
			if err != nil {
				return err
			}

			d, err := a.store.Load(args[0])
			if err != nil {
				return err
			}
			text, err := exporter.Export(d)
			if err != nil {
				return fmt.Errorf("exporting %s: %w", args[0], err)
			}

			if output == "" {
				fmt.Fprint(cmd.OutOrStdout(), text)
				if !strings.HasSuffix(text, "\n") {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				return nil
			}
			if err := os.WriteFile(output, []byte(text), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			a.logger.Info("Exported diagram", "file", args[0], "format", exporter.FormatName(), "output", output)
			fmt.Fprintf(cmd.ErrOrStderr(), "Successfully exported to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

// errViolations marks a check that found rule violations.
var errViolations = errors.New("diagram violates its rules")

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Validate a diagram against the rules of its kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.store.Load(args[0])
			if err != nil {
				return err
			}
			violations := registry.NewBuilder(d).Validate()
			out := cmd.OutOrStdout()
			for _, v := range violations {
				fmt.Fprintln(out, v.Error())
			}
			if len(violations) > 0 {
				return fmt.Errorf("%s: %d problem(s): %w", args[0], len(violations), errViolations)
			}
			fmt.Fprintf(out, "%s: ok (%s)\n", args[0], registry.Describe(registry.KindOf(d)).Label)
			return nil
		},
	}
}

func formatList() string {
	var names []string
	for _, f := range export.AvailableFormats() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

package cmd

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"jetuml/builder"
	"jetuml/registry"
)

func newApplyCmd(a *app) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "apply <file> [script]",
		Short: "Apply a script of edits to a diagram file",
		Long: `Apply edit operations read from a script, or from stdin when no script
is given, and save the diagram once at the end.

Each line holds one operation in the form accepted by 'jetuml edit',
flags included. The words undo and redo step back and forward through
the operations applied so far; history.size in the config limits how
far undo reaches. Blank lines and lines starting with # are skipped.
Nothing is saved when a line fails.`,
		Example: `  jetuml apply model.class.jet build.txt
  printf 'add class A\nadd class B\nundo\n' | jetuml apply model.class.jet`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 2 && args[1] != "-" {
				f, err := os.Open(args[1])
				if err != nil {
					return fmt.Errorf("failed to open script: %w", err)
				}
				defer f.Close()
				in = f
			}

			d, err := a.store.Load(path)
			if err != nil {
				return err
			}
			session := builder.NewSession(registry.NewBuilder(d), a.cfg.History.Size)
			if err := runScript(cmd.OutOrStdout(), session, in); err != nil {
				return err
			}

			current, total := session.Stats()
			if dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "dry run: %d operation(s) not saved\n", current)
				return nil
			}
			if _, err := a.store.Save(path, d); err != nil {
				return err
			}
			a.logger.Info("Applied script", "file", path, "operations", current, "recorded", total)
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d operation(s)\n", current)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "run the script without saving")
	return cmd
}

// runScript applies each script line through the session, stopping at the
// first line that fails.
func runScript(out io.Writer, session *builder.Session, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if err := runLine(out, session, text); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}
	return nil
}

func runLine(out io.Writer, session *builder.Session, text string) error {
	words, err := splitWords(text)
	if err != nil {
		return err
	}
	switch strings.ToLower(words[0]) {
	case "undo":
		if !session.Undo() {
			return fmt.Errorf("nothing to undo")
		}
		fmt.Fprintln(out, "undo")
		return nil
	case "redo":
		if !session.Redo() {
			return fmt.Errorf("nothing to redo")
		}
		fmt.Fprintln(out, "redo")
		return nil
	}

	var f editFlags
	fs := pflag.NewFlagSet(words[0], pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f.register(fs)
	if err := fs.Parse(words[1:]); err != nil {
		return err
	}

	g := session.Builder().Diagram().Graph()
	op, err := buildOperation(session.Builder(), words[0], fs.Args(), f)
	if err != nil {
		return err
	}
	next := g.NextID()
	session.Apply(op)

	fmt.Fprintln(out, op.String())
	if ids := createdIDs(g, next); len(ids) > 0 {
		fmt.Fprintf(out, "created %s\n", joinInts(ids))
	}
	return nil
}

// splitWords splits a line on spaces. Double quotes group words.
func splitWords(text string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = ' '
	r.TrimLeadingSpace = true
	fields, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("bad quoting: %w", err)
	}
	words := fields[:0]
	for _, w := range fields {
		if w != "" {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("empty line")
	}
	return words, nil
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"jetuml/terminal"
)

func newViewCmd(a *app) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "view <file>",
		Short: "Browse a diagram in the terminal",
		Long: `Show a rendered diagram full screen.

Keys: arrows or h/j/k/l scroll, PgUp/PgDn or b/space page, g/G jump to
the top or bottom, r reloads, q or Esc quits. With --watch the view
reloads whenever the file changes on disk.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err != nil {
				return err
			}

			opts := terminal.Options{Logger: a.logger}
			if watch {
				changes, stop, err := terminal.Watch(path, a.cfg.Watch.Debounce)
				if err != nil {
					return err
				}
				defer func() { _ = stop() }()
				opts.Reload = changes
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("failed to create screen: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("failed to initialize screen: %w", err)
			}
			defer screen.Fini()

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			err = terminal.Run(ctx, screen, terminal.NewFileSource(path, a.store), opts)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload when the file changes")
	return cmd
}

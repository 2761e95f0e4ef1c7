// Package cmd implements the jetuml command line.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"jetuml/config"
	"jetuml/persist"
)

var version = "dev"

// app carries state shared by every subcommand of one invocation.
type app struct {
	cfgFile  string
	logLevel string

	cfg     config.Config
	logger  *slog.Logger
	store   *persist.Store
	logFile io.Closer
}

// NewRootCmd builds the command tree. Each call returns an independent tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "jetuml",
		Short: "Create, check and render UML diagrams",
		Long: `jetuml works with class, sequence, state, object and use case diagrams.

Each kind is stored as JSON in a file whose extension names the kind,
for example model.class.jet or login.sequence.jet.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}
	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "",
		"config file (default: ./"+config.LocalFile+" or ~/.config/jetuml/config.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "",
		"log level: debug, info, warn or error")

	root.AddCommand(
		newKindsCmd(a),
		newNewCmd(a),
		newRenderCmd(a),
		newExportCmd(a),
		newViewCmd(a),
		newEditCmd(a),
		newApplyCmd(a),
		newCheckCmd(a),
		newConfigCmd(a),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// SetVersion sets the version reported by --version. Call it before NewRootCmd.
func SetVersion(v string) {
	version = v
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	v := viper.New()
	config.Setup(v, a.cfgFile)
	if a.logLevel != "" {
		v.Set("log.level", a.logLevel)
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level, _ := cfg.Level()
	var w io.Writer = cmd.ErrOrStderr()
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		a.logFile = f
		w = f
	}
	a.logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	a.store = persist.NewStore(a.logger)
	a.logger.Debug("Loaded config", "file", v.ConfigFileUsed(), "format", cfg.Export.Format)
	return nil
}

func (a *app) close() error {
	if a.logFile == nil {
		return nil
	}
	err := a.logFile.Close()
	a.logFile = nil
	return err
}

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nathoo/beatquest/cli"
	"github.com/nathoo/beatquest/config"
	"github.com/nathoo/beatquest/engine"
	"github.com/nathoo/beatquest/loader"
	"github.com/nathoo/beatquest/logging"
	"github.com/nathoo/beatquest/tui"
	"github.com/nathoo/beatquest/types"
)

// app carries the settings shared by every subcommand.
type app struct {
	cfg    config.Config
	envErr error
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "beatquest",
		Short:         "Beatquest: take quests, swing on the beat",
		Long:          "Beatquest runs the quest and rhythm combat core in a terminal UI or from a script.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.envErr != nil {
				return a.envErr
			}
			return a.cfg.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI()
		},
	}

	// Environment first, flags override.
	a.cfg, a.envErr = config.Parse()
	if a.cfg.TickRate == 0 {
		a.cfg.TickRate = cli.DefaultTickRate
	}
	if a.cfg.LogLevel == "" {
		a.cfg.LogLevel = "info"
	}

	fl := root.PersistentFlags()
	fl.Int64Var(&a.cfg.Seed, "seed", a.cfg.Seed, "override the scenario seed (0 keeps it)")
	fl.IntVar(&a.cfg.TickRate, "tick-rate", a.cfg.TickRate, "engine ticks per second")
	fl.StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "debug, info, warn or error")
	fl.StringVar(&a.cfg.LogFile, "log-file", a.cfg.LogFile, "log file (the script command logs to stderr when empty)")
	fl.StringVar(&a.cfg.Scenario, "scenario", a.cfg.Scenario, "directory of .lua scenario files (built-in when empty)")
	fl.StringVar(&a.cfg.Keymap, "keymap", a.cfg.Keymap, "YAML file of key rebinds")

	root.AddCommand(
		a.newRunCmd(),
		a.newScriptCmd(),
		newVersionCmd(),
	)
	return root
}

func (a *app) newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Play in the terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI()
		},
	}
}

func (a *app) newScriptCmd() *cobra.Command {
	var trace bool
	cmd := &cobra.Command{
		Use:   "script <file>",
		Short: "Play a script of commands and print what happens",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening script: %w", err)
			}
			defer f.Close()

			logger, closer, err := a.scriptLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closer.Close()

			eng, err := a.newEngine(logger)
			if err != nil {
				return err
			}
			c := cli.New(eng)
			c.In = f
			c.Out = cmd.OutOrStdout()
			c.TickRate = a.cfg.TickRate
			c.EchoInput = true
			c.Trace = trace
			return c.Run()
		},
	}
	cmd.Flags().BoolVar(&trace, "trace", false, "print the events of every command")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "beatquest %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}

func (a *app) runTUI() error {
	logger, closer, err := logging.Open(a.cfg.LogFile, a.cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	eng, err := a.newEngine(logger)
	if err != nil {
		return err
	}
	return tui.Run(eng, a.cfg.TickRate)
}

func (a *app) scriptLogger(stderr io.Writer) (*slog.Logger, io.Closer, error) {
	if a.cfg.LogFile != "" {
		return logging.Open(a.cfg.LogFile, a.cfg.LogLevel)
	}
	logger, err := logging.New(stderr, a.cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return logger, io.NopCloser(nil), nil
}

// newEngine loads the scenario and keymap and builds the engine.
func (a *app) newEngine(logger *slog.Logger) (*engine.Engine, error) {
	sc, err := a.loadScenario()
	if err != nil {
		return nil, err
	}
	km, err := config.LoadKeymap(a.cfg.Keymap)
	if err != nil {
		return nil, err
	}
	ctxs := engine.DefaultContexts()
	if err := km.Apply(ctxs.All()); err != nil {
		return nil, err
	}
	logger.Info("scenario loaded", "title", sc.Title, "givers", len(sc.Givers), "targets", len(sc.Targets))
	return engine.New(sc,
		engine.WithLogger(logger),
		engine.WithSeed(a.cfg.Seed),
		engine.WithContexts(ctxs),
	), nil
}

func (a *app) loadScenario() (types.Scenario, error) {
	if a.cfg.Scenario == "" {
		sc, err := loader.LoadDefault()
		if err != nil {
			return sc, fmt.Errorf("loading built-in scenario: %w", err)
		}
		return sc, nil
	}
	sc, err := loader.Load(a.cfg.Scenario)
	if err != nil {
		return sc, fmt.Errorf("loading scenario: %w", err)
	}
	return sc, nil
}

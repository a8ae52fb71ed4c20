package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/comalice/statestack"
	"github.com/comalice/statestack/internal/production"
	"github.com/comalice/statestack/observability"
	"github.com/comalice/statestack/realtime"
)

type runOptions struct {
	configPath string
	tracePath  string
	dotPath    string
}

func newRunCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the scripted session until it quits",
		Long: `Run drives the session at a fixed tick rate until the game-over screen
quits, the tick limit is reached, or the process is interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts.configPath)
			if err != nil {
				return err
			}
			return runSession(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "config file (yaml or toml)")
	flags.StringVar(&opts.tracePath, "trace", "", "write the transition trace to this file (.yaml or .json)")
	flags.StringVar(&opts.dotPath, "dot", "", "write a Graphviz graph of the transitions to this file")
	flags.Duration("tick-rate", realtime.DefaultTickRate, "tick interval")
	flags.Uint64("ticks", 0, "stop after this many ticks (0 = until the session quits)")
	flags.String("id", "", "machine id (default: random uuid)")
	flags.String("switch-mode", statestack.SwitchTop.String(), "switch semantics: top or all")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("log-format", "text", "log format: text or json")

	return cmd
}

func runSession(ctx context.Context, out, errOut io.Writer, cfg demoConfig, opts runOptions) error {
	logger := newLogger(errOut, cfg)
	rec := production.NewRecorder(0)
	obs := observability.NewMultiObserver(observability.NewSlogObserver(logger), rec)

	m := statestack.New[session](append(cfg.Runner.Machine.Options(), statestack.WithObserver(obs))...)
	s := newSession(out)
	m.Push(&title{}, s)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := realtime.NewRunner(m, s, cfg.Runner, realtime.WithObserver(obs))
	err := r.Run(ctx)
	switch {
	case errors.Is(err, context.Canceled):
		logger.Info("interrupted", "ticks", r.Ticks())
	case err != nil:
		return fmt.Errorf("run: %w", err)
	}

	fmt.Fprintf(out, "finished after %d ticks: score=%d lives=%d pauses=%d transitions=%d\n",
		r.Ticks(), s.score, s.lives, s.pauses, rec.Count())

	if opts.tracePath != "" {
		if err := writeTrace(opts.tracePath, rec); err != nil {
			return err
		}
	}
	if opts.dotPath != "" {
		dot := production.ExportDOT(rec.Records(), "")
		if err := os.WriteFile(opts.dotPath, []byte(dot), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", opts.dotPath, err)
		}
	}
	return nil
}

func writeTrace(path string, rec *production.Recorder) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return rec.WriteJSON(f)
	}
	return rec.WriteYAML(f)
}

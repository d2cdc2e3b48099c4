package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/archmesh/archmesh/core/parse"
	"github.com/archmesh/archmesh/internal/config"
	"github.com/archmesh/archmesh/providers/observability"
	"github.com/archmesh/archmesh/providers/observability/promobs"
	"github.com/archmesh/archmesh/providers/observability/slogobs"
	"github.com/archmesh/archmesh/providers/observability/zapobs"
)

// app is the state shared by all subcommands for one invocation.
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	// flags
	configPath  string
	logLevel    string
	logFormat   string
	loggerName  string
	repairName  string
	dumpMetrics bool

	cfg      *config.Config
	logger   observability.Logger
	sync     func() error
	registry *prometheus.Registry
	repairer parse.Repairer
	parser   *parse.Parser
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{in: in, out: out, errOut: errOut}

	rootCmd := &cobra.Command{
		Use:   "archmesh-parse",
		Short: "Decode, extract, repair and parse LLM responses",
		Long: `archmesh-parse runs captured model output through the same pipeline the
architecture generator uses: provider envelope decoding, JSON extraction,
heuristic repair and fallback.

Settings come from --config (YAML), ARCHMESH_* environment variables (also
read from .env) and the flags below, later sources winning.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
	}
	rootCmd.SetIn(in)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "YAML configuration file")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	flags.StringVar(&a.logFormat, "log-format", "", "Log format: compact, json")
	flags.StringVar(&a.loggerName, "logger", "", "Logging backend: slog, zap")
	flags.StringVar(&a.repairName, "repair", "", "Repair strategy: heuristic, library")
	flags.BoolVar(&a.dumpMetrics, "metrics", false, "Write Prometheus metrics to stderr after the run")

	rootCmd.AddCommand(
		newDecodeCmd(a),
		newExtractCmd(a),
		newRepairCmd(a),
		newParseCmd(a),
	)
	return rootCmd
}

// setup resolves configuration and builds the logger, metrics and parser.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = a.logFormat
	}
	if flags.Changed("logger") {
		cfg.Logger = a.loggerName
	}
	if flags.Changed("repair") {
		cfg.Repair = a.repairName
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	switch cfg.Logger {
	case "zap":
		logger := zapobs.NewWriter(a.errOut, cfg.LogLevel, cfg.LogFormat)
		a.logger, a.sync = logger, logger.Sync
	default:
		a.logger = slogobs.New(
			slogobs.WithOutput(a.errOut),
			slogobs.WithFormat(slogobs.ParseFormat(cfg.LogFormat)),
			slogobs.WithLevelName(cfg.LogLevel),
		)
	}

	repairer, ok := parse.RepairerByName(cfg.Repair)
	if !ok {
		return fmt.Errorf("%w: unknown repair strategy %q", config.ErrInvalid, cfg.Repair)
	}
	a.repairer = repairer

	a.registry = prometheus.NewRegistry()
	a.parser = parse.New(
		parse.WithMetrics(promobs.New(a.registry)),
		parse.WithRepairer(repairer),
		parse.WithRawResponseLimit(cfg.RawResponseLimit),
		parse.WithFallbackMessage(cfg.FallbackMessage),
	)

	// The parser picks the logger up from the context.
	cmd.SetContext(observability.ContextWithLogger(cmd.Context(), a.logger))
	return nil
}

func (a *app) teardown() error {
	if a.sync != nil {
		// Syncing a non-file writer such as a pipe can fail harmlessly.
		_ = a.sync()
	}
	if a.dumpMetrics && a.registry != nil {
		return promobs.WriteText(a.errOut, a.registry)
	}
	return nil
}

// readInput returns the file named by args[0], or stdin.
func (a *app) readInput(args []string) ([]byte, error) {
	if len(args) > 0 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
		return data, nil
	}
	data, err := io.ReadAll(a.in)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return data, nil
}

// provider resolves the --provider flag, falling back to the configured
// default. ok is false when neither names one.
func (a *app) provider(flag string) (p parse.Provider, ok bool, err error) {
	tag := flag
	if tag == "" {
		tag = a.cfg.Provider
	}
	if tag == "" {
		return "", false, nil
	}
	p, err = parse.ParseProvider(tag)
	if err != nil {
		return "", false, err
	}
	return p, true, nil
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/drugsgraph/internal/app"
	"github.com/yungbote/drugsgraph/internal/observability"
	"github.com/yungbote/drugsgraph/internal/platform/logger"
)

var (
	configPath   string
	logMode      string
	batchSize    int
	metricsFile  string
	drugbankPath string
	diseasesPath string
	assocPath    string
)

var rootCmd = &cobra.Command{
	Use:           "drugsgraph",
	Short:         "Derive the DrugBank classification graph and publish it",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Path to a YAML config file")
	pf.StringVar(&logMode, "log-mode", "", "Log mode: dev or prod")
	pf.IntVar(&batchSize, "batch-size", 0, "Items per sink batch (default 200)")
	pf.StringVar(&metricsFile, "metrics-file", "", "Write batch metrics in Prometheus text format to this path")
	pf.StringVar(&drugbankPath, "drugbank", "", "DrugBank XML export")
	pf.StringVar(&diseasesPath, "diseases", "", "CTD disease vocabulary TSV")
	pf.StringVar(&assocPath, "associations", "", "Disease-drug association TSV")
}

// env is what every subcommand starts from: validated config and a logger.
type env struct {
	cfg      app.Config
	log      *logger.Logger
	shutdown func(context.Context) error
}

func (e *env) close(ctx context.Context) {
	if err := e.shutdown(ctx); err != nil {
		e.log.Warn("otel shutdown failed", "error", err)
	}
	e.log.Sync()
}

// setup resolves config in the order file, .env, environment, flags.
func setup(cmd *cobra.Command, needInputs bool) (*env, error) {
	cfg, err := app.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("log-mode") {
		cfg.LogMode = logMode
	}
	if flags.Changed("batch-size") {
		cfg.BatchSize = batchSize
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = metricsFile
	}
	if flags.Changed("drugbank") {
		cfg.Inputs.DrugBank = drugbankPath
	}
	if flags.Changed("diseases") {
		cfg.Inputs.Diseases = diseasesPath
	}
	if flags.Changed("associations") {
		cfg.Inputs.Associations = assocPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if needInputs {
		if err := cfg.ValidateInputs(); err != nil {
			return nil, err
		}
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	shutdown := observability.InitOTel(cmd.Context(), log, observability.OtelConfig{
		ServiceName: "drugsgraph",
		Environment: cfg.LogMode,
	})
	return &env{cfg: cfg, log: log.With("command", cmd.Name()), shutdown: shutdown}, nil
}

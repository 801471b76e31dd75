// Package cmd implements the calc command line: one-shot structured
// calculations, the sample demo and version reporting.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"calc-engine/internal/config"
	"calc-engine/internal/engine"
	"calc-engine/internal/observability"
)

type options struct {
	cfgFile string
	verbose bool
	format  string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "calc",
		Short: "Deterministic calculations with formula and step traces",
		Long: `calc evaluates basic arithmetic, scientific functions, compound interest,
loan payments and descriptive statistics. Every result comes with the
formula used and a step-by-step explanation.

Engine settings (precision, rate unit, strict financial inputs) come from
--config and CALC_* environment variables, as for the HTTP service.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !opts.verbose {
				return nil
			}
			return observability.InitLogger("debug", true)
		},
	}

	root.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "YAML config file")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log engine settings and timings to stderr")

	root.AddCommand(
		newJSONCmd(opts),
		newDemoCmd(opts),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command against os.Args.
func Execute() error {
	return newRootCmd().Execute()
}

// newEngine builds an engine from --config and the environment.
func newEngine(opts *options) (*engine.Engine, error) {
	cfg, err := config.Load(opts.cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	eng := engine.New(cfg.EngineOptions()...)
	observability.Logger.Debug("engine ready",
		zap.Int("precision", eng.Precision()),
		zap.Stringer("rate_unit", eng.RateUnit()),
		zap.Bool("strict_financial", cfg.Engine.StrictFinancial),
	)
	return eng, nil
}

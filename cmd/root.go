package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/cwbudde/bioenopt/internal/opt"
	"github.com/spf13/cobra"
)

var (
	logLevel  string
	algorithm string
	parallel  bool
)

var rootCmd = &cobra.Command{
	Use:   "bioenopt",
	Short: "Bayesian/maximum-entropy ensemble reweighting",
	Long: `bioenopt reweights a simulated ensemble so that its averaged observables
match experimental data while staying close to the prior weights.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Setup logger
		var level slog.Level
		switch logLevel {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		default:
			level = slog.LevelInfo
		}

		opts := &slog.HandlerOptions{Level: level}
		handler := slog.NewJSONHandler(os.Stderr, opts)
		slog.SetDefault(slog.New(handler))

		// Process-wide solver settings
		a, err := opt.ParseAlgorithm(algorithm)
		if err != nil {
			return fmt.Errorf("--algorithm: %w", err)
		}
		return opt.Settings{Algorithm: a, Parallel: parallel}.Apply()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&algorithm, "algorithm", opt.DefaultAlgorithm.String(), "Descent algorithm (conjugate_fr, conjugate_pr, bfgs2, bfgs, steepest_descent)")
	rootCmd.PersistentFlags().BoolVar(&parallel, "parallel", false, "Evaluate the misfit/gradient kernel on all cores")
}

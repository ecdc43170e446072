package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/cwbudde/bioenopt/internal/fit"
	"github.com/cwbudde/bioenopt/internal/opt"
	"github.com/spf13/cobra"
)

var (
	problemPath string
	backendName string
	maxIters    int
	noCache     bool
	workers     int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Reweight an ensemble described by a problem file",
	Long: `Reads a YAML problem (forces, uncertainties, prior, observable matrix,
theta and optional backend sections), minimizes the reweighting objective
and prints the final weights.`,
	RunE: runReweight,
}

func init() {
	runCmd.Flags().StringVar(&problemPath, "problem", "", "Problem file path (required)")
	runCmd.Flags().StringVar(&backendName, "backend", "", "Backend: descent, lbfgs, mayfly (overrides the problem file)")
	runCmd.Flags().IntVar(&maxIters, "iters", 0, "Max iterations (overrides the problem file)")
	runCmd.Flags().BoolVar(&noCache, "no-cache", false, "Disable the transposed-matrix cache")
	runCmd.Flags().IntVar(&workers, "workers", 0, "Goroutines for the parallel kernel (0 = GOMAXPROCS)")

	runCmd.MarkFlagRequired("problem")
	rootCmd.AddCommand(runCmd)
}

func runReweight(cmd *cobra.Command, args []string) error {
	p, err := loadProblem(problemPath)
	if err != nil {
		return err
	}
	if backendName != "" {
		p.Backend = backendName
	}
	if maxIters > 0 {
		p.setMaxIterations(maxIters)
	}

	o := p.options()
	if noCache {
		o.Caching = false
	}
	o.Workers = workers

	res, err := solve(p, o)
	if err != nil {
		return err
	}
	printResult(cmd.OutOrStdout(), res)
	return nil
}

// solve runs one problem end to end.
func solve(p *problemFile, o fit.Options) (*fit.Result, error) {
	kind := opt.NormalizeKind(p.Backend)
	cfg, err := p.backendConfig(kind)
	if err != nil {
		return nil, err
	}
	multipliers, err := p.multipliers()
	if err != nil {
		return nil, err
	}

	// Fail on missing backends before any numeric work is done.
	optimizer, err := opt.New(cfg)
	if err != nil {
		return nil, err
	}

	in, err := p.inputs()
	if err != nil {
		return nil, err
	}
	ws, err := fit.NewWorkspace(in, o)
	if err != nil {
		return nil, err
	}

	slog.Info("Problem loaded",
		"channels", ws.Channels(),
		"members", ws.Dim(),
		"theta", ws.Theta(),
		"backend", string(kind),
		"multipliers", multipliers,
		"caching", o.Caching,
		"parallel", o.Parallel,
	)

	start := opt.WallTime()
	var res *fit.Result
	if multipliers {
		res, err = fit.ReweightMultipliers(ws, optimizer)
	} else {
		res, err = fit.Reweight(ws, optimizer)
	}
	if err != nil {
		return nil, err
	}
	slog.Info("Solve finished", "wall_seconds", opt.WallTime()-start)
	return res, nil
}

func (p *problemFile) setMaxIterations(n int) {
	switch opt.NormalizeKind(p.Backend) {
	case opt.KindLBFGS:
		if p.LBFGS == nil {
			p.LBFGS = &lbfgsSection{}
		}
		p.LBFGS.MaxIterations = &n
	case opt.KindMayfly:
		if p.Mayfly == nil {
			p.Mayfly = &mayflySection{}
		}
		p.Mayfly.MaxIterations = &n
	default:
		if p.Descent == nil {
			p.Descent = &descentSection{}
		}
		p.Descent.MaxIterations = &n
	}
}

func printResult(w io.Writer, res *fit.Result) {
	fmt.Fprintf(w, "run %s: %s (%s)\n", res.RunID, res.Status, res.Message)
	fmt.Fprintf(w, "iterations: %d  evaluations: %d  elapsed: %s\n", res.Iterations, res.Evaluations, res.Elapsed)
	fmt.Fprintf(w, "objective: %.8g -> %.8g  chi2: %.8g  divergence: %.8g\n",
		res.InitialObjective, res.FinalObjective, res.ChiSquared, res.Divergence)
	fmt.Fprintln(w, "weights:")
	for i, v := range res.Weights {
		fmt.Fprintf(w, "  %4d  %.10f\n", i, v)
	}
	if res.Multipliers != nil {
		fmt.Fprintln(w, "multipliers:")
		for i, v := range res.Multipliers {
			fmt.Fprintf(w, "  %4d  %.10g\n", i, v)
		}
	}
}

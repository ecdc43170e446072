package main

import (
	"fmt"

	"github.com/cwbudde/bioenopt/internal/fit"
	"github.com/spf13/cobra"
)

var (
	chiForces    []float64
	chiPredicted []float64
	chiSigma     []float64
)

var chi2Cmd = &cobra.Command{
	Use:   "chi2",
	Short: "Compute the chi-squared misfit of predicted observables",
	RunE: func(cmd *cobra.Command, args []string) error {
		var norm []float64
		if len(chiSigma) > 0 {
			norm = chiSigma
		}
		out := make([]float64, len(chiForces))
		chi2, err := fit.ChiSquared(chiForces, chiPredicted, norm, out, len(chiForces), 1)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "chi2: %.10g\n", chi2)
		for i, r := range out {
			fmt.Fprintf(w, "  %4d  %+.6g\n", i, r)
		}
		return nil
	},
}

func init() {
	chi2Cmd.Flags().Float64SliceVar(&chiForces, "forces", nil, "Experimental observables (comma separated)")
	chi2Cmd.Flags().Float64SliceVar(&chiPredicted, "predicted", nil, "Predicted observables (comma separated)")
	chi2Cmd.Flags().Float64SliceVar(&chiSigma, "sigma", nil, "Per-channel uncertainty (default 1)")

	chi2Cmd.MarkFlagRequired("forces")
	chi2Cmd.MarkFlagRequired("predicted")
	rootCmd.AddCommand(chi2Cmd)
}

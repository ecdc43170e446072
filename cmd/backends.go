package main

import (
	"fmt"

	"github.com/cwbudde/bioenopt/internal/opt"
	"github.com/spf13/cobra"
)

var backendsCmd = &cobra.Command{
	Use:   "backends",
	Short: "List minimizer backends and their availability",
	Run: func(cmd *cobra.Command, args []string) {
		w := cmd.OutOrStdout()
		for _, kind := range opt.SupportedKinds() {
			if opt.IsAvailable(kind) {
				fmt.Fprintf(w, "%-8s available\n", kind)
			} else {
				fmt.Fprintf(w, "%-8s unavailable: %s\n", kind, opt.UnavailableMessage(kind))
			}
		}

		s := opt.CurrentSettings()
		fmt.Fprintln(w, "\ndescent algorithms:")
		for _, a := range opt.Algorithms() {
			marker := " "
			if a == s.Algorithm {
				marker = "*"
			}
			fmt.Fprintf(w, " %s %d  %s\n", marker, int(a), a)
		}
		fmt.Fprintln(w, "\nline searches:")
		for _, ls := range opt.LineSearches() {
			fmt.Fprintf(w, "   %d  %s\n", int(ls), ls)
		}
		fmt.Fprintf(w, "\nparallel kernel: %v\n", s.Parallel)
	},
}

func init() {
	rootCmd.AddCommand(backendsCmd)
}

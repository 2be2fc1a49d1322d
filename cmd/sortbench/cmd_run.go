package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	yaml "gopkg.in/yaml.v3"

	"sortbench/internal/engines"
	"sortbench/internal/study"
)

var (
	runMode     string
	runParallel int
	runParams   string
)

var runCmd = &cobra.Command{
	Use:   "run <study-folder> <engine>...",
	Short: "Run engines against every case of a study",
	Long: "Run invokes each named engine on each case. With --mode keep, pairs\n" +
		"that already have output are skipped; --mode overwrite recomputes them.\n" +
		"A failing pair is reported and does not abort the batch.",
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := study.New(args[0])
		if err != nil {
			return err
		}

		mode, err := study.ParseMode(runMode)
		if err != nil {
			return err
		}

		params := make(map[string]engines.Params)
		if runParams != "" {
			data, err := os.ReadFile(runParams)
			if err != nil {
				return fmt.Errorf("read params: %w", err)
			}
			if err := yaml.Unmarshal(data, &params); err != nil {
				return fmt.Errorf("parse params: %w", err)
			}
		}

		var strat study.Strategy = study.Sequential{}
		if runParallel > 1 {
			strat = study.Parallel{Workers: runParallel}
		}

		report, err := st.RunEngines(cmd.Context(), args[1:], params, mode, strat)
		if err != nil {
			return err
		}

		fmt.Printf("Ran %d pair(s), skipped %d\n", report.Ran(), report.SkippedCount())
		failures := report.Failures()
		for _, f := range failures {
			fmt.Fprintf(os.Stderr, "  FAILED %s / %s: %v\n", f.Pair.Case, f.Pair.Engine, f.Err)
		}
		if len(failures) > 0 {
			return fmt.Errorf("%d pair(s) failed", len(failures))
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runMode, "mode", string(study.ModeKeep), "keep (skip existing output) or overwrite")
	runCmd.Flags().IntVar(&runParallel, "parallel", 1, "Concurrent engine runs (1 = sequential)")
	runCmd.Flags().StringVar(&runParams, "params", "", "YAML file of engine name -> params")
	rootCmd.AddCommand(runCmd)
}

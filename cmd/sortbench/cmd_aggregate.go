package main

import (
	"fmt"

	prettytable "github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"sortbench/internal/compare"
	"sortbench/internal/study"
	"sortbench/internal/tables"
)

var (
	aggExhaustive   bool
	aggPersist      bool
	aggPrint        bool
	aggDelta        int64
	aggMatchScore   float64
	aggWellDetected float64
	aggRedundant    float64
	aggOvermerged   float64
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate <study-folder>",
	Short: "Score all outputs against ground truth and build the study tables",
	Long: "Aggregate runs comparisons over every computed (case, engine) pair and\n" +
		"flattens the results into run_times, perf_by_units, and count_units.\n" +
		"With --exhaustive, false-positive and bad-unit counts are included.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := study.New(args[0])
		if err != nil {
			return err
		}

		opts := compare.Options{DeltaFrames: aggDelta, MatchScore: aggMatchScore}
		set, err := st.RunComparisons(aggExhaustive, opts)
		if err != nil {
			return err
		}

		thresholds := compare.Thresholds{
			WellDetected: aggWellDetected,
			Redundant:    aggRedundant,
			Overmerged:   aggOvermerged,
		}
		result, err := st.AggregateTables(set, aggPersist, thresholds)
		if err != nil {
			return err
		}

		if aggPersist {
			fmt.Printf("Tables written under %s/tables\n", args[0])
		}
		if aggPrint {
			for _, t := range result.All() {
				fmt.Printf("\n%s (%d rows)\n%s\n", t.Name, t.NumRows(), renderTable(t))
			}
		}
		return nil
	},
}

func renderTable(t *tables.Table) string {
	w := prettytable.NewWriter()
	w.SetStyle(prettytable.StyleLight)
	header := make(prettytable.Row, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	w.AppendHeader(header)
	for _, row := range t.Rows {
		r := make(prettytable.Row, len(row))
		for i, cell := range row {
			r[i] = cell
		}
		w.AppendRow(r)
	}
	return w.Render()
}

func init() {
	aggregateCmd.Flags().BoolVar(&aggExhaustive, "exhaustive", false, "Ground truth contains every real unit")
	aggregateCmd.Flags().BoolVar(&aggPersist, "persist", true, "Write tables under <study>/tables")
	aggregateCmd.Flags().BoolVar(&aggPrint, "print", false, "Render tables to stdout")
	aggregateCmd.Flags().Int64Var(&aggDelta, "delta", 0, "Event coincidence window in frames (0 = default)")
	aggregateCmd.Flags().Float64Var(&aggMatchScore, "match-score", 0, "Min agreement for a best match (0 = default)")
	aggregateCmd.Flags().Float64Var(&aggWellDetected, "well-detected", 0, "Well-detected accuracy threshold (0 = default)")
	aggregateCmd.Flags().Float64Var(&aggRedundant, "redundant", 0, "Redundant agreement threshold (0 = default)")
	aggregateCmd.Flags().Float64Var(&aggOvermerged, "overmerged", 0, "Overmerged agreement threshold (0 = default)")
	rootCmd.AddCommand(aggregateCmd)
}

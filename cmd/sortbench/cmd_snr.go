package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"sortbench/internal/study"
	"sortbench/internal/tables"
)

var snrCase string

var snrCmd = &cobra.Command{
	Use:   "snr <study-folder>",
	Short: "Print per-unit SNR for a case, computing and caching it if needed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := study.New(args[0])
		if err != nil {
			return err
		}

		rows, err := st.UnitsSNR(snrCase)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "gt_unit_id\tsnr")
		for _, r := range rows {
			fmt.Fprintf(w, "%d\t%s\n", r.GTUnitID, tables.Float(r.SNR))
		}
		return w.Flush()
	},
}

func init() {
	snrCmd.Flags().StringVar(&snrCase, "case", "", "Case name (optional when the study has exactly one case)")
	rootCmd.AddCommand(snrCmd)
}

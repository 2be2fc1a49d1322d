package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"sortbench/internal/study"
)

var statusCmd = &cobra.Command{
	Use:   "status <study-folder>",
	Short: "Show cases, engines, and computed pairs of a study",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := study.New(args[0])
		if err != nil {
			return err
		}

		cases, err := st.CaseNames()
		if err != nil {
			return err
		}
		engineNames, err := st.EngineNames()
		if err != nil {
			return err
		}
		pairs, err := st.ComputedPairs()
		if err != nil {
			return err
		}

		computed := make(map[study.Pair]bool, len(pairs))
		for _, p := range pairs {
			computed[p] = true
		}

		w := table.NewWriter()
		w.SetStyle(table.StyleLight)
		header := table.Row{"case", "gt units"}
		for _, e := range engineNames {
			header = append(header, e)
		}
		w.AppendHeader(header)

		for _, c := range cases {
			gt, err := st.GroundTruth(c)
			if err != nil {
				return err
			}
			row := table.Row{c, gt.NumUnits()}
			for _, e := range engineNames {
				mark := "-"
				if computed[study.Pair{Case: c, Engine: e}] {
					mark = "done"
				}
				row = append(row, mark)
			}
			w.AppendRow(row)
		}

		fmt.Printf("Study %s\n", args[0])
		fmt.Printf("  cases: %d, engines: %d (%s), computed pairs: %d\n",
			len(cases), len(engineNames), strings.Join(engineNames, ", "), len(pairs))
		fmt.Println(w.Render())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

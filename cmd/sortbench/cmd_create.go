package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	yaml "gopkg.in/yaml.v3"

	"sortbench/internal/recording"
	"sortbench/internal/sorting"
	"sortbench/internal/study"
)

var createManifest string

// createManifestFile maps case names to the source material on disk.
type createManifestFile struct {
	Cases map[string]struct {
		Recording   string `yaml:"recording"`    // folder holding recording.json + recording.dat
		GroundTruth string `yaml:"ground_truth"` // sorting archive path
	} `yaml:"cases"`
}

var createCmd = &cobra.Command{
	Use:   "create <study-folder>",
	Short: "Create a new study folder from a case manifest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(createManifest)
		if err != nil {
			return fmt.Errorf("read manifest: %w", err)
		}
		var manifest createManifestFile
		if err := yaml.Unmarshal(data, &manifest); err != nil {
			return fmt.Errorf("parse manifest: %w", err)
		}
		if len(manifest.Cases) == 0 {
			return fmt.Errorf("manifest %q declares no cases", createManifest)
		}

		cases := make(map[string]study.CaseInput, len(manifest.Cases))
		for name, src := range manifest.Cases {
			rec, err := recording.Load(src.Recording)
			if err != nil {
				return fmt.Errorf("case %q: %w", name, err)
			}
			gt, err := sorting.Read(src.GroundTruth)
			if err != nil {
				return fmt.Errorf("case %q: %w", name, err)
			}
			cases[name] = study.CaseInput{Recording: rec, GroundTruth: gt}
		}

		st, err := study.Create(args[0], cases)
		if err != nil {
			return err
		}
		names, err := st.CaseNames()
		if err != nil {
			return err
		}
		fmt.Printf("Created study %s with %d case(s): %v\n", st.Folder(), len(names), names)
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&createManifest, "manifest", "study.yaml", "YAML manifest of case name -> recording/ground_truth paths")
	rootCmd.AddCommand(createCmd)
}

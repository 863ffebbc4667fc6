package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ivlev/carousel/internal/director"
)

var (
	scenarioOut      string
	scenarioDuration time.Duration
	scenarioTour     bool
	scenarioDwell    time.Duration
	scenarioCount    int
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Generate a scenario YAML (autoplay run or a tour of every item)",
	Long: `Writes a scenario that the storyboard command can replay. The default is an
autoplay run using the configured period. Edit the file to add next, prev,
jump, resize, pause and resume commands.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var sc *director.Scenario
		if scenarioTour {
			count := scenarioCount
			if cfg.CatalogPath != "" {
				src, items, err := openSource()
				if err != nil {
					return err
				}
				src.Close()
				count = len(items)
			}
			sc = director.NewTourScenario(count, scenarioDwell, cfg.Storyboard.ViewWidth)
		} else {
			sc = director.NewAutoplayScenario(cfg.Autoplay.Period, scenarioDuration, cfg.Storyboard.ViewWidth)
		}

		out := scenarioOut
		if out == "" {
			out = director.GenerateScenarioPath(director.DefaultScenarioDir)
		}
		if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
			return err
		}
		if err := director.WriteScenario(sc, out); err != nil {
			return err
		}
		fmt.Printf("[+] Scenario written: %s (%.1fs, %d commands)\n", out, sc.Duration, len(sc.Commands))
		return nil
	},
}

func init() {
	scenarioCmd.Flags().StringVarP(&scenarioOut, "output", "o", "", "scenario file (default: timestamped file in scenarios/)")
	scenarioCmd.Flags().DurationVar(&scenarioDuration, "duration", 15*time.Second, "length of an autoplay run")
	scenarioCmd.Flags().BoolVar(&scenarioTour, "tour", false, "jump to every item in turn instead of autoplaying")
	scenarioCmd.Flags().DurationVar(&scenarioDwell, "dwell", 2*time.Second, "time per item in a tour")
	scenarioCmd.Flags().IntVar(&scenarioCount, "count", 6, "item count for a tour without a catalog")
}

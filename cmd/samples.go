package cmd

import (
	"fmt"

	"github.com/KaramelBytes/aqicast-cli/internal/pollutant"
	"github.com/KaramelBytes/aqicast-cli/internal/utils"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var samplesJSON bool

var samplesCmd = &cobra.Command{
	Use:   "samples",
	Short: "List one sample reading per city from the dataset",
	Example: `  aqicast samples
  aqicast samples --dataset ./oversampled_cities.csv --seed 42
  aqicast samples --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := currentConfig()
		if err != nil {
			return err
		}
		samples := loadSamples(cmd.Context(), c)
		out := cmd.OutOrStdout()
		if samplesJSON {
			b, err := utils.PrettyJSON(samples)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
			return nil
		}
		if len(samples) == 0 {
			fmt.Fprintf(out, "No samples loaded from %s (run with --debug for details)\n", c.DatasetSource)
			return nil
		}
		headers := append([]string{"City", "AQI"}, pollutant.Names...)
		rows := make([][]string, 0, len(samples))
		for _, s := range samples {
			row := []string{s.City(), s.AQI()}
			for _, name := range pollutant.Names {
				row = append(row, s.Get(name))
			}
			rows = append(rows, row)
		}
		t := table.New().Border(lipgloss.NormalBorder()).Headers(headers...).Rows(rows...)
		fmt.Fprintln(out, t.Render())
		fmt.Fprintf(out, "%d cities\n", len(samples))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(samplesCmd)
	samplesCmd.Flags().BoolVar(&samplesJSON, "json", false, "print samples as JSON")
}

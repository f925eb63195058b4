package cmd

import (
	"fmt"
	"time"

	"github.com/KaramelBytes/aqicast-cli/internal/utils"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent prediction attempts",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := currentConfig()
		if err != nil {
			return err
		}
		store, err := openHistory(c)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer store.Close()

		entries, err := store.Recent(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if historyJSON {
			b, err := utils.PrettyJSON(entries)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
			return nil
		}
		if len(entries) == 0 {
			fmt.Fprintln(out, "No predictions recorded yet")
			return nil
		}
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			result := "N/A"
			if e.Prediction.Valid {
				result = fmt.Sprintf("%.2f", e.Prediction.Float64)
			}
			detail := e.Category
			if e.Failed() {
				result = "✗"
				detail = e.ErrorMessage
			}
			city := e.City
			if city == "" {
				city = "-"
			}
			rows = append(rows, []string{e.CreatedAt.Local().Format(time.DateTime), city, result, detail, e.ModelUsed})
		}
		t := table.New().Border(lipgloss.NormalBorder()).
			Headers("When", "City", "AQI", "Category / Error", "Model").
			Rows(rows...)
		fmt.Fprintln(out, t.Render())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of entries to show")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "print entries as JSON")
}

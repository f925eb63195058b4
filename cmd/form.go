package cmd

import (
	"github.com/KaramelBytes/aqicast-cli/internal/session"
	"github.com/KaramelBytes/aqicast-cli/internal/tui"
	"github.com/spf13/cobra"
)

var formModel string

var formCmd = &cobra.Command{
	Use:   "form",
	Short: "Open the interactive prediction form",
	Long: `Open a full-screen form with one field per pollutant.

Keys: tab/shift+tab move between fields, ctrl+n/ctrl+p cycle city samples,
ctrl+x clears, enter predicts, ? explains the focused field, ctrl+a reveals
the sample's recorded AQI, esc quits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := currentConfig()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		samples := loadSamples(ctx, c)
		if len(samples) == 0 {
			warnf("no samples loaded from %s; city cycling is unavailable", c.DatasetSource)
		}
		opts := []session.Option{session.WithLogf(debugf)}
		if c.HistoryEnabled {
			store, err := openHistory(c)
			if err != nil {
				warnf("history disabled: %v", err)
			} else {
				defer store.Close()
				opts = append(opts, session.WithRecorder(store))
			}
		}
		sess := session.New(samples, newPredictClient(c, formModel), opts...)
		return tui.Run(ctx, sess)
	},
}

func init() {
	rootCmd.AddCommand(formCmd)
	formCmd.Flags().StringVar(&formModel, "model", "", "model type to request (random_forest or lstm)")
}

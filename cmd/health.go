package cmd

import (
	"fmt"
	"time"

	"github.com/KaramelBytes/aqicast-cli/internal/predict"
	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:          "health",
	Short:        "Check that the prediction service is reachable",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := currentConfig()
		if err != nil {
			return err
		}
		client := newPredictClient(c, "")
		start := time.Now()
		if err := client.Health(cmd.Context()); err != nil {
			debugf("health: %v", err)
			return fmt.Errorf("%s (%s): %w", predict.MsgBackendUnavailable, client.BaseURL(), err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Backend reachable at %s (%s)\n", client.BaseURL(), time.Since(start).Round(time.Millisecond))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

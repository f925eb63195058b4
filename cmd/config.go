package cmd

import (
	"fmt"
	"strconv"

	cfgpkg "github.com/KaramelBytes/aqicast-cli/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set aqicast configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "api_url: %s\n", cfg.APIURL)
		fmt.Fprintf(out, "dataset_source: %s\n", cfg.DatasetSource)
		if cfg.ModelType != "" {
			fmt.Fprintf(out, "model_type: %s\n", cfg.ModelType)
		}
		fmt.Fprintf(out, "http_timeout_sec: %d\n", cfg.HTTPTimeoutSec)
		if cfg.SampleSeed != 0 {
			fmt.Fprintf(out, "sample_seed: %d\n", cfg.SampleSeed)
		}
		fmt.Fprintf(out, "history_enabled: %t\n", cfg.HistoryEnabled)
		fmt.Fprintf(out, "history_path: %s\n", cfg.HistoryPath)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c, err := currentConfig()
		if err != nil {
			return err
		}
		switch key {
		case "api_url":
			c.APIURL = val
		case "dataset_source":
			c.DatasetSource = val
		case "model_type":
			switch val {
			case "", "random_forest", "lstm":
				c.ModelType = val
			default:
				return fmt.Errorf("invalid model_type: %s (use random_forest or lstm)", val)
			}
		case "http_timeout_sec":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for http_timeout_sec: %v", val)
			}
			c.HTTPTimeoutSec = i
		case "sample_seed":
			u, err := strconv.ParseUint(val, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid uint for sample_seed: %w", err)
			}
			c.SampleSeed = u
		case "history_enabled":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for history_enabled: %w", err)
			}
			c.HistoryEnabled = b
		case "history_path":
			c.HistoryPath = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

package cmd

import (
	"fmt"

	"github.com/KaramelBytes/aqicast-cli/internal/pollutant"
	"github.com/KaramelBytes/aqicast-cli/internal/utils"
	"github.com/spf13/cobra"
)

var catalogJSON bool

var modelsCmd = &cobra.Command{
	Use:          "models",
	Short:        "List the models the prediction service offers",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := currentConfig()
		if err != nil {
			return err
		}
		models, err := newPredictClient(c, "").Models(cmd.Context())
		if err != nil {
			return fmt.Errorf("list models: %w", err)
		}
		out := cmd.OutOrStdout()
		if catalogJSON {
			b, err := utils.PrettyJSON(models)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
			return nil
		}
		for _, m := range models {
			marker := " "
			if m.ID == c.ModelType {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %-14s %s\n", marker, m.ID, m.Name)
			if m.Description != "" {
				fmt.Fprintf(out, "    %s\n", m.Description)
			}
			if m.Performance != "" {
				fmt.Fprintf(out, "    performance: %s\n", m.Performance)
			}
		}
		return nil
	},
}

var featuresCmd = &cobra.Command{
	Use:          "features",
	Short:        "List the pollutant features the prediction service expects",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := currentConfig()
		if err != nil {
			return err
		}
		features, err := newPredictClient(c, "").Features(cmd.Context())
		if err != nil {
			return fmt.Errorf("list features: %w", err)
		}
		out := cmd.OutOrStdout()
		if catalogJSON {
			b, err := utils.PrettyJSON(features)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
			return nil
		}
		for _, f := range features {
			fmt.Fprintf(out, "%-8s %-8s %s\n", f.Name, f.Unit, f.Description)
			if !pollutant.IsCanonical(f.Name) {
				warnf("service feature %q is not one of the form's fields", f.Name)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(featuresCmd)
	modelsCmd.Flags().BoolVar(&catalogJSON, "json", false, "print as JSON")
	featuresCmd.Flags().BoolVar(&catalogJSON, "json", false, "print as JSON")
}

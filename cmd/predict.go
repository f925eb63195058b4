package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/KaramelBytes/aqicast-cli/internal/aqi"
	"github.com/KaramelBytes/aqicast-cli/internal/dataset"
	"github.com/KaramelBytes/aqicast-cli/internal/pollutant"
	"github.com/KaramelBytes/aqicast-cli/internal/predict"
	"github.com/KaramelBytes/aqicast-cli/internal/session"
	"github.com/KaramelBytes/aqicast-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	predictCity       string
	predictValues     []string
	predictClear      bool
	predictModel      string
	predictJSON       bool
	predictOutput     string
	predictShowActual bool
	predictNoHistory  bool
)

type reportError struct {
	Kind       string `json:"kind"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code,omitempty"`
}

// predictionReport is the JSON shape written by --json and --output.
type predictionReport struct {
	RequestID  string             `json:"request_id"`
	City       string             `json:"city,omitempty"`
	Features   map[string]float64 `json:"features"`
	Prediction *float64           `json:"prediction"`
	Category   string             `json:"aqi_category,omitempty"`
	ModelUsed  string             `json:"model_used,omitempty"`
	ActualAQI  string             `json:"actual_aqi,omitempty"`
	Error      *reportError       `json:"error,omitempty"`
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict AQI from pollutant readings",
	Example: `  aqicast predict --city Delhi
  aqicast predict --city Delhi --value CO=3.5 --value O3=41 --show-actual
  aqicast predict --value PM2.5=120 --value PM10=180 --model lstm --json
  aqicast predict --city Mumbai --output ./prediction.json`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := currentConfig()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		var samples []dataset.SampleRecord
		if predictCity != "" {
			samples = loadSamples(ctx, c)
		}
		opts := []session.Option{session.WithLogf(debugf)}
		if c.HistoryEnabled && !predictNoHistory {
			store, err := openHistory(c)
			if err != nil {
				warnf("history disabled: %v", err)
			} else {
				defer store.Close()
				opts = append(opts, session.WithRecorder(store))
			}
		}
		sess := session.New(samples, newPredictClient(c, predictModel), opts...)

		if predictCity != "" {
			if err := sess.SelectCity(predictCity); err != nil {
				return err
			}
		}
		if predictClear {
			sess.ClearSample()
		}
		if err := applyValues(sess, predictValues); err != nil {
			return err
		}

		out, err := sess.Submit(ctx)
		if err != nil {
			return err
		}
		debugf("predict: request_id=%s", out.RequestID)
		if out.Failure != nil {
			debugf("predict: %s", out.Failure.Detail())
		}

		rep := buildReport(sess, out)
		if predictOutput != "" {
			b, err := utils.PrettyJSON(rep)
			if err != nil {
				return err
			}
			if err := utils.SafeWriteFile(predictOutput, append(b, '\n')); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
		}
		w := cmd.OutOrStdout()
		if predictJSON {
			b, err := utils.PrettyJSON(rep)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, string(b))
		} else {
			renderOutcome(w, rep)
		}
		if predictOutput != "" && !predictJSON {
			fmt.Fprintf(w, "✓ Wrote %s\n", predictOutput)
		}
		if out.Failure != nil {
			return &exitError{err: out.Failure}
		}
		return nil
	},
}

// applyValues routes NAME=V edits through the form; rejected edits only warn.
func applyValues(sess *session.Session, values []string) error {
	edits := make(map[string]string, len(values))
	for _, kv := range values {
		name, val, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("invalid --value %q (want NAME=VALUE)", kv)
		}
		edits[strings.TrimSpace(name)] = strings.TrimSpace(val)
	}
	names := make([]string, 0, len(edits))
	for k := range edits {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, name := range names {
		if !pollutant.IsCanonical(name) {
			warnf("unknown pollutant %q ignored (expected one of %s)", name, strings.Join(pollutant.Names, ", "))
			continue
		}
		if !sess.Form.Set(name, edits[name]) {
			warnf("value %q for %s rejected (digits and one decimal point only)", edits[name], name)
		}
	}
	return nil
}

func buildReport(sess *session.Session, out predict.Outcome) predictionReport {
	rep := predictionReport{
		RequestID: out.RequestID,
		Features:  sess.Form.Snapshot(),
	}
	if rec, _, ok := sess.Selected(); ok {
		rep.City = rec.City()
	}
	if predictShowActual {
		if v, ok := sess.ActualAQI(); ok {
			rep.ActualAQI = v
		}
	}
	if out.Result != nil {
		rep.Prediction = out.Result.Prediction
		rep.Category = out.Result.AQICategory
		rep.ModelUsed = out.Result.ModelUsed
	}
	if f := out.Failure; f != nil {
		rep.Error = &reportError{Kind: f.Kind.String(), Message: f.Message, StatusCode: f.StatusCode}
	}
	return rep
}

func renderOutcome(w io.Writer, rep predictionReport) {
	if rep.City != "" {
		fmt.Fprintf(w, "City: %s\n", rep.City)
	}
	if rep.Error != nil {
		fmt.Fprintf(w, "✗ %s\n", rep.Error.Message)
	} else {
		value := "N/A"
		if rep.Prediction != nil {
			value = fmt.Sprintf("%.2f", *rep.Prediction)
		}
		fmt.Fprintf(w, "✓ Predicted AQI: %s %s %s\n", value, aqi.Emoji(rep.Category), rep.Category)
		if cat, ok := aqi.Lookup(rep.Category); ok {
			fmt.Fprintf(w, "  %s\n", cat.Status)
			for _, tip := range cat.Tips {
				fmt.Fprintf(w, "  %s %s\n", tip.Icon, tip.Text)
			}
		}
		if rep.ModelUsed != "" {
			fmt.Fprintf(w, "  model: %s\n", rep.ModelUsed)
		}
	}
	if rep.ActualAQI != "" {
		line := "Actual AQI: " + rep.ActualAQI
		if label, ok := aqi.Classify(rep.ActualAQI); ok {
			line += " " + aqi.Emoji(label) + " " + label
		}
		fmt.Fprintln(w, line)
	}
}

func init() {
	rootCmd.AddCommand(predictCmd)
	predictCmd.Flags().StringVar(&predictCity, "city", "", "apply this city's sample reading first")
	predictCmd.Flags().StringArrayVar(&predictValues, "value", nil, "set a pollutant reading as NAME=VALUE (repeatable)")
	predictCmd.Flags().BoolVar(&predictClear, "clear", false, "clear all readings (and the city) before applying --value")
	predictCmd.Flags().StringVar(&predictModel, "model", "", "model type to request (random_forest or lstm)")
	predictCmd.Flags().BoolVar(&predictJSON, "json", false, "print the outcome as JSON")
	predictCmd.Flags().StringVarP(&predictOutput, "output", "o", "", "also write the JSON outcome to this file")
	predictCmd.Flags().BoolVar(&predictShowActual, "show-actual", false, "show the sample's recorded AQI next to the prediction")
	predictCmd.Flags().BoolVar(&predictNoHistory, "no-history", false, "do not record this prediction in history")
}

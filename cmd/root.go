package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	cfgpkg "github.com/KaramelBytes/aqicast-cli/internal/config"
	"github.com/KaramelBytes/aqicast-cli/internal/dataset"
	"github.com/KaramelBytes/aqicast-cli/internal/history"
	"github.com/KaramelBytes/aqicast-cli/internal/predict"
	"github.com/KaramelBytes/aqicast-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// Overrides for config values
	flagAPIURL         string
	flagDataset        string
	flagHTTPTimeoutSec int
	flagSeed           uint64

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:           "aqicast",
	SilenceErrors: true,
	Short:         "aqicast: AQI predictions from pollutant readings",
	Long: `aqicast loads per-city pollutant samples, lets you edit the eleven readings,
and asks an AQI prediction service for the predicted AQI and its category.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

// exitError fails the command without printing again; the command already
// reported the problem to the user.
type exitError struct {
	err error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

func printError(w io.Writer, err error) {
	var shown *exitError
	if errors.As(err, &shown) {
		return
	}
	fmt.Fprintln(w, "✗ Error:", err)
}

func init() {
	cobra.OnInitialize(loadConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.aqicast/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "prediction service base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagDataset, "dataset", "", "sample dataset file path or http(s) URL (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagHTTPTimeoutSec, "http-timeout", 0, "HTTP client timeout in seconds (overrides config)")
	rootCmd.PersistentFlags().Uint64Var(&flagSeed, "seed", 0, "seed for per-city sample choice, 0 = random (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("api-url") && flagAPIURL != "" {
		cfg.APIURL = flagAPIURL
	}
	if f.Changed("dataset") && flagDataset != "" {
		cfg.DatasetSource = flagDataset
	}
	if f.Changed("http-timeout") && flagHTTPTimeoutSec > 0 {
		cfg.HTTPTimeoutSec = flagHTTPTimeoutSec
	}
	if f.Changed("seed") {
		cfg.SampleSeed = flagSeed
	}
	debugf("config: api_url=%s dataset=%s timeout=%ds", cfg.APIURL, cfg.DatasetSource, cfg.HTTPTimeoutSec)
}

// currentConfig returns the loaded config, loading defaults if startup loading failed.
func currentConfig() (*cfgpkg.Global, error) {
	if cfg != nil {
		return cfg, nil
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	cfg = c
	return cfg, nil
}

func debugf(format string, args ...any) {
	if !debug {
		return
	}
	fmt.Fprintf(os.Stderr, "[debug] "+format+"\n", args...)
}

func warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "⚠ Warning: "+format+"\n", args...)
}

func newPredictClient(c *cfgpkg.Global, modelOverride string) *predict.Client {
	model := c.ModelType
	if modelOverride != "" {
		model = modelOverride
	}
	timeout := time.Duration(c.HTTPTimeoutSec) * time.Second
	return predict.NewClient(c.APIURL, timeout,
		predict.WithModelType(model),
		predict.WithPhaseHook(func(p predict.Phase) { debugf("predict: %s", p) }),
	)
}

// loadSamples never fails; problems surface as debug output and an empty list.
func loadSamples(ctx context.Context, c *cfgpkg.Global) []dataset.SampleRecord {
	source := c.DatasetSource
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		if p, err := utils.ExpandHome(source); err == nil {
			source = p
		}
	}
	l := dataset.NewLoader(dataset.WithSeed(c.SampleSeed), dataset.WithLogf(debugf))
	samples := l.Samples(ctx, source)
	debugf("dataset: %d samples from %s", len(samples), source)
	return samples
}

func openHistory(c *cfgpkg.Global) (*history.Store, error) {
	path, err := utils.ExpandHome(c.HistoryPath)
	if err != nil {
		return nil, err
	}
	return history.Open(path)
}

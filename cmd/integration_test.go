package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/KaramelBytes/aqicast-cli/internal/predict"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags puts every flag back to its default so state does not leak between runs.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execCmd runs the root command with args and returns its stdout.
func execCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	cfg = nil
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// runCmd is a helper to execute the root command with args.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execCmd(t, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

// fakeBackend is a local prediction service.
type fakeBackend struct {
	URL string
	srv *http.Server

	mu       sync.Mutex
	healthy  bool
	lastBody map[string]any
	predicts int
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		if errors.Is(err, syscall.EACCES) || errors.Is(err, syscall.EPERM) {
			t.Skipf("skipping test: cannot open local listener (%v)", err)
		}
		t.Fatalf("listen tcp4: %v", err)
	}
	b := &fakeBackend{URL: "http://" + ln.Addr().String() + "/api", healthy: true}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if !b.healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"status":"healthy"}`)
	})
	mux.HandleFunc("/api/predict", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.predicts++
		b.lastBody = nil
		_ = json.NewDecoder(r.Body).Decode(&b.lastBody)
		fmt.Fprint(w, `{"prediction":142.5,"aqi_category":"Moderate","model_used":"Random Forest"}`)
	})
	mux.HandleFunc("/api/models", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"available_models":[{"id":"random_forest","name":"Random Forest","description":"Tree ensemble","performance":"R2 0.91"},{"id":"lstm","name":"LSTM"}]}`)
	})
	mux.HandleFunc("/api/features", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"features":[{"name":"PM2.5","description":"Fine particles","unit":"μg/m³"},{"name":"CO","description":"Carbon monoxide","unit":"mg/m³"}]}`)
	})
	b.srv = &http.Server{Handler: mux}
	go func() {
		if err := b.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			panic(fmt.Sprintf("test server serve: %v", err))
		}
	}()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = b.srv.Shutdown(ctx)
	})
	return b
}

func (b *fakeBackend) setHealthy(v bool) {
	b.mu.Lock()
	b.healthy = v
	b.mu.Unlock()
}

// isolatedHome points HOME at a temp dir holding a small dataset.
func isolatedHome(t *testing.T) (home, dataset string) {
	t.Helper()
	home = t.TempDir()
	t.Setenv("HOME", home)
	dataset = filepath.Join(home, "cities.csv")
	csv := "City,PM2.5,PM10,CO,AQI\nDelhi,300,410,2.1,450\nMumbai,50,90,0.8,\n"
	if err := os.WriteFile(dataset, []byte(csv), 0o644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return home, dataset
}

func TestCLI_SamplesListsOnePerCity(t *testing.T) {
	_, ds := isolatedHome(t)
	out := runCmd(t, "samples", "--dataset", ds, "--json")
	var got []map[string]string
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode samples json: %v\n%s", err, out)
	}
	if len(got) != 2 || got[0]["City"] != "Delhi" || got[1]["City"] != "Mumbai" {
		t.Fatalf("unexpected samples: %v", got)
	}

	out = runCmd(t, "samples", "--dataset", filepath.Join(t.TempDir(), "missing.csv"))
	if !strings.Contains(out, "No samples loaded") {
		t.Fatalf("missing dataset should degrade to an empty list, got:\n%s", out)
	}
}

func TestCLI_PredictWithCityAndEdits(t *testing.T) {
	home, ds := isolatedHome(t)
	backend := newFakeBackend(t)
	outFile := filepath.Join(home, "out", "prediction.json")

	out := runCmd(t, "predict", "--api-url", backend.URL, "--dataset", ds,
		"--city", "delhi", "--value", "CO=3.5", "--value", "O3=abc", "--value", "Radon=1",
		"--model", "lstm", "--show-actual", "--output", outFile)

	if !strings.Contains(out, "Predicted AQI: 142.50") || !strings.Contains(out, "Moderate") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "Actual AQI: 450") || !strings.Contains(out, "Severe") {
		t.Fatalf("actual value missing:\n%s", out)
	}
	features, _ := backend.lastBody["features"].(map[string]any)
	if len(features) != 11 {
		t.Fatalf("expected all 11 features, got %v", backend.lastBody)
	}
	if features["PM2.5"] != 300.0 || features["CO"] != 3.5 || features["O3"] != 0.0 || features["NO"] != 0.0 {
		t.Fatalf("unexpected features sent: %v", features)
	}
	if backend.lastBody["model_type"] != "lstm" {
		t.Fatalf("model_type not sent: %v", backend.lastBody)
	}

	b, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatalf("read output file: %v", err)
	}
	var rep predictionReport
	if err := json.Unmarshal(b, &rep); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if rep.City != "Delhi" || rep.Prediction == nil || *rep.Prediction != 142.5 || rep.ActualAQI != "450" || rep.RequestID == "" {
		t.Fatalf("unexpected report: %+v", rep)
	}

	hist := runCmd(t, "history", "--json")
	var entries []map[string]any
	if err := json.Unmarshal([]byte(hist), &entries); err != nil {
		t.Fatalf("decode history: %v\n%s", err, hist)
	}
	if len(entries) != 1 || entries[0]["city"] != "Delhi" || entries[0]["prediction"] != 142.5 {
		t.Fatalf("unexpected history: %v", entries)
	}
}

func TestCLI_PredictBackendDown(t *testing.T) {
	_, ds := isolatedHome(t)
	backend := newFakeBackend(t)
	backend.setHealthy(false)

	out, err := execCmd(t, "predict", "--api-url", backend.URL, "--dataset", ds, "--json", "--no-history")
	if err == nil {
		t.Fatalf("expected failure when backend is unhealthy")
	}
	if backend.predicts != 0 {
		t.Fatalf("predict must not be called when health fails")
	}
	var rep predictionReport
	if jerr := json.Unmarshal([]byte(out), &rep); jerr != nil {
		t.Fatalf("decode report: %v\n%s", jerr, out)
	}
	if rep.Error == nil || rep.Error.Kind != "backend_unavailable" || rep.Prediction != nil {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if rep.Features["PM2.5"] != 0 {
		t.Fatalf("fresh form should send zeros: %v", rep.Features)
	}
	var shown *exitError
	if !errors.As(err, &shown) {
		t.Fatalf("failed prediction should not be printed again, got %T", err)
	}
	var failure *predict.Failure
	if !errors.As(err, &failure) || failure.Kind != predict.KindBackendUnavailable {
		t.Fatalf("expected wrapped backend failure, got %v", err)
	}

	hist := runCmd(t, "history")
	if !strings.Contains(hist, "No predictions recorded yet") {
		t.Fatalf("--no-history should skip recording, got:\n%s", hist)
	}
}

func TestPrintErrorSkipsReportedFailures(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, &exitError{err: errors.New("backend down")})
	if buf.Len() != 0 {
		t.Fatalf("reported failure printed again: %q", buf.String())
	}
	printError(&buf, errors.New("boom"))
	if got := buf.String(); got != "✗ Error: boom\n" {
		t.Fatalf("unexpected error line: %q", got)
	}
}

func TestRenderOutcomeSkipsNonNumericActual(t *testing.T) {
	p := 88.0
	for _, actual := range []string{"NaN", "Inf", "n/a"} {
		var buf bytes.Buffer
		renderOutcome(&buf, predictionReport{Prediction: &p, Category: "Satisfactory", ActualAQI: actual})
		out := buf.String()
		if !strings.Contains(out, "Actual AQI: "+actual+"\n") {
			t.Fatalf("actual %q not shown as recorded:\n%s", actual, out)
		}
		if strings.Contains(out, "Severe") {
			t.Fatalf("actual %q should not be bucketed:\n%s", actual, out)
		}
	}
}

func TestCLI_PredictClearAndUnknownCity(t *testing.T) {
	_, ds := isolatedHome(t)
	backend := newFakeBackend(t)

	if _, err := execCmd(t, "predict", "--api-url", backend.URL, "--dataset", ds, "--city", "Chennai"); err == nil {
		t.Fatalf("expected error for a city with no sample")
	}
	runCmd(t, "predict", "--api-url", backend.URL, "--dataset", ds, "--city", "Delhi", "--clear", "--value", "NO2=12", "--no-history")
	features, _ := backend.lastBody["features"].(map[string]any)
	if features["PM2.5"] != 0.0 || features["NO2"] != 12.0 {
		t.Fatalf("clear should zero the sample readings: %v", features)
	}
}

func TestCLI_HealthModelsFeatures(t *testing.T) {
	isolatedHome(t)
	backend := newFakeBackend(t)

	if out := runCmd(t, "health", "--api-url", backend.URL); !strings.Contains(out, "Backend reachable") {
		t.Fatalf("unexpected health output: %s", out)
	}
	out := runCmd(t, "models", "--api-url", backend.URL)
	if !strings.Contains(out, "random_forest") || !strings.Contains(out, "LSTM") {
		t.Fatalf("unexpected models output: %s", out)
	}
	out = runCmd(t, "features", "--api-url", backend.URL, "--json")
	if !strings.Contains(out, `"unit": "mg/m³"`) {
		t.Fatalf("unexpected features output: %s", out)
	}

	backend.setHealthy(false)
	if _, err := execCmd(t, "health", "--api-url", backend.URL); err == nil {
		t.Fatalf("expected health failure")
	}
}

func TestCLI_ConfigSetAndShow(t *testing.T) {
	isolatedHome(t)
	runCmd(t, "config", "set", "api_url", "http://aqi.internal:8080/api")
	runCmd(t, "config", "set", "model_type", "lstm")
	if _, err := execCmd(t, "config", "set", "model_type", "xgboost"); err == nil {
		t.Fatalf("expected invalid model_type error")
	}
	if _, err := execCmd(t, "config", "set", "nope", "1"); err == nil {
		t.Fatalf("expected unknown key error")
	}
	out := runCmd(t, "config", "show")
	if !strings.Contains(out, "api_url: http://aqi.internal:8080/api") || !strings.Contains(out, "model_type: lstm") {
		t.Fatalf("unexpected config:\n%s", out)
	}
}

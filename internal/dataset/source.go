package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// maxDatasetBytes bounds how much of a remote dataset is read.
const maxDatasetBytes = 64 << 20

// Fetch returns the text at source: an http(s) URL or a local file path.
func Fetch(ctx context.Context, client *http.Client, source string) (string, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return "", fmt.Errorf("dataset source is empty")
	}
	lower := strings.ToLower(source)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		b, err := os.ReadFile(source)
		if err != nil {
			return "", errorf("read dataset", err)
		}
		return string(b), nil
	}
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return "", errorf("build request", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", errorf("fetch", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return "", fmt.Errorf("fetch: unexpected status %s: %s", resp.Status, string(b))
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxDatasetBytes))
	if err != nil {
		return "", errorf("read body", err)
	}
	return string(b), nil
}

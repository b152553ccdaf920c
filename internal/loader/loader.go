// Package loader fetches simulation configuration documents from files or
// HTTP endpoints.
package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"forest-fire/pkg/sims/forestfire"
)

// maxDocumentSize bounds how much of a configuration source is read.
const maxDocumentSize = 1 << 20

// Loader resolves configuration sources.
type Loader struct {
	client *http.Client
}

// New returns a Loader whose HTTP requests time out after timeout. A
// non-positive timeout uses 15 seconds.
func New(timeout time.Duration) *Loader {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Loader{client: &http.Client{Timeout: timeout}}
}

// Load reads a configuration from source, which is either a file path or an
// http(s) URL, and validates it.
func (l *Loader) Load(ctx context.Context, source string) (forestfire.Config, error) {
	if source == "" {
		return forestfire.Config{}, fmt.Errorf("load config: empty source")
	}
	var (
		cfg forestfire.Config
		err error
	)
	if isURL(source) {
		cfg, err = l.fetch(ctx, source)
	} else {
		cfg, err = readFile(source)
	}
	if err != nil {
		return forestfire.Config{}, fmt.Errorf("load config %s: %w", source, err)
	}
	return cfg, nil
}

// Load reads a configuration using a default Loader.
func Load(ctx context.Context, source string) (forestfire.Config, error) {
	return New(0).Load(ctx, source)
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func readFile(path string) (forestfire.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return forestfire.Config{}, err
	}
	defer f.Close()
	return forestfire.DecodeConfig(io.LimitReader(f, maxDocumentSize))
}

func (l *Loader) fetch(ctx context.Context, url string) (forestfire.Config, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return forestfire.Config{}, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := l.client.Do(req)
	if err != nil {
		return forestfire.Config{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return forestfire.Config{}, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return forestfire.DecodeConfig(io.LimitReader(resp.Body, maxDocumentSize))
}

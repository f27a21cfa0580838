package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/stoic-quote/internal/adapters/http/dto"
)

// execute runs the root command against an upstream served by handler.
func execute(t *testing.T, handler http.HandlerFunc, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	upstream := httptest.NewServer(handler)
	t.Cleanup(upstream.Close)

	t.Setenv("APP_SERVICES_QUOTE_BASE__URL", upstream.URL)
	t.Setenv("APP_LOG_LEVEL", "error")
	t.Setenv("APP_LOG_FORMAT", "json")

	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append(args, "--config-dir", t.TempDir(), "--profile", "test"))

	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func serveQuote(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stoic-quote" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func TestFetch_PrintsDisplayText(t *testing.T) {
	stdout, _, err := execute(t,
		serveQuote(`{"author":"Seneca","quote":"Luck is what happens when preparation meets @opportunity."}`),
		"fetch",
	)

	require.NoError(t, err)
	assert.Equal(t, "Luck is what happens when preparation meets opportunity. Seneca\n", stdout)
}

func TestFetch_JSON(t *testing.T) {
	stdout, _, err := execute(t, serveQuote(`{"author":"","quote":"Begin at once to live."}`), "fetch", "--json")

	require.NoError(t, err)

	var resp dto.QuoteStateResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "Unknown", resp.Quote.Author.Or(""))
	assert.Equal(t, "Begin at once to live. Unknown", resp.Quote.DisplayText)
}

func TestFetch_UpstreamError(t *testing.T) {
	stdout, stderr, err := execute(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}, "fetch")

	require.ErrorIs(t, err, errFetchFailed)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "service temporarily unavailable (HTTP 503)")
}

func TestFetch_UpstreamErrorJSON(t *testing.T) {
	stdout, _, err := execute(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}, "fetch", "--json")

	require.ErrorIs(t, err, errFetchFailed)

	var resp dto.QuoteStateResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, http.StatusBadGateway, resp.Error.StatusCode)
}

func TestFetch_InvalidLogLevel(t *testing.T) {
	_, _, err := execute(t, serveQuote(`{}`), "fetch", "--log-level", "verbose")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, serveQuote(`{}`), "version")

	require.NoError(t, err)
	assert.Contains(t, stdout, "stoicquote "+Version)
	assert.Contains(t, stdout, "commit "+Commit)
}

func TestLoadConfig_ProfileFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.yaml"), []byte("tui:\n  notice_duration: 3s\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dev.yaml"), []byte("app:\n  environment: dev\n"), 0o600))

	cfg, err := loadConfig(&globalOptions{configDir: dir, profile: "dev", logLevel: "debug"})

	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.App.Environment)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "3s", cfg.TUI.NoticeDuration.String())
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()

	names := make(map[string]bool)
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"tui", "serve", "fetch", "version"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

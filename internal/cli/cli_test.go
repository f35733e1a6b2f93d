package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julicq/is-deprecated-or-not/pkg/cache"
	"github.com/julicq/is-deprecated-or-not/pkg/collector"
	"github.com/julicq/is-deprecated-or-not/pkg/errors"
	"github.com/julicq/is-deprecated-or-not/pkg/kb"
)

// isolate points every per-user directory at a temp dir and turns off the
// network sources so commands run offline against the curated list.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("DEPCHECK_CACHE_BACKEND", "none")
	t.Setenv("DEPCHECK_COLLECTOR_PYPI_ENABLED", "false")
	t.Setenv("DEPCHECK_COLLECTOR_GITHUB_ENABLED", "false")
	t.Setenv("DEPCHECK_COLLECTOR_SECURITY_ENABLED", "false")
	t.Setenv("DEPCHECK_SCHEDULER_RETRY_ATTEMPTS", "0")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	c := New(&stderr, LogInfo)
	root := c.RootCommand()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), err
}

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestCheckCommand(t *testing.T) {
	home := isolate(t)
	project := writeProject(t, map[string]string{
		"requirements.txt": "requests==2.31.0\nfastapi==0.104.0\n",
	})

	out, err := run(t, "check", "--path", project, "--export", "json")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	var report struct {
		TotalDeprecated int `json:"total_deprecated"`
		TotalSafe       int `json:"total_safe"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("report is not JSON: %v\n%s", err, out)
	}
	if report.TotalDeprecated != 1 || report.TotalSafe != 1 {
		t.Errorf("totals = %+v, want 1 deprecated and 1 safe", report)
	}

	// The first run seeds the knowledge base document.
	if _, err := os.Stat(filepath.Join(home, "data", appName, "deprecated_packages.yaml")); err != nil {
		t.Errorf("knowledge base was not seeded: %v", err)
	}
}

func TestCheckCommandOutputs(t *testing.T) {
	isolate(t)
	project := writeProject(t, map[string]string{
		"requirements.txt": "nose>=1.3\npytest\n",
	})
	reportPath := filepath.Join(t.TempDir(), "report.yaml")

	out, err := run(t, "check", "-p", project, "-e", "yaml", "-o", reportPath)
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !strings.Contains(out, reportPath) {
		t.Errorf("output should name the report file: %q", out)
	}
	data, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"deprecated_packages:", "nose", "pytest"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("report missing %q:\n%s", want, data)
		}
	}

	if _, err := run(t, "check", "-p", project, "--fail-on-deprecated"); err == nil {
		t.Error("--fail-on-deprecated should fail when nose is declared")
	}
}

func TestCheckCommandErrors(t *testing.T) {
	isolate(t)
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"unsupported format", []string{"check", "--export", "xml"}, errors.ErrCodeUnsupportedFormat},
		{"missing path", []string{"check", "--path", filepath.Join(t.TempDir(), "absent")}, errors.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestSearchCommand(t *testing.T) {
	isolate(t)
	tests := []struct {
		query string
		want  string
	}{
		{"nose", "pytest"},
		{"NOSE", "pytest"},
		{"beautiful", "No exact match"},
		{"fastapi", "not in the knowledge base"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			out, err := run(t, "search", tt.query)
			if err != nil {
				t.Fatalf("search failed: %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("search %s output missing %q:\n%s", tt.query, tt.want, out)
			}
		})
	}
}

func TestListAndStatsCommands(t *testing.T) {
	isolate(t)
	seed := collector.DefaultManual()

	out, err := run(t, "list-db")
	if err != nil {
		t.Fatalf("list-db failed: %v", err)
	}
	for _, name := range seed.Names() {
		if !strings.Contains(out, name) {
			t.Errorf("list-db output missing %s", name)
		}
	}

	out, err = run(t, "stats")
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	for _, want := range []string{fmt.Sprint(seed.Len()), "file", "manual"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats output missing %q:\n%s", want, out)
		}
	}
}

func TestValidateCommand(t *testing.T) {
	isolate(t)
	out, err := run(t, "validate-db")
	if err != nil {
		t.Fatalf("validate-db failed on the curated list: %v", err)
	}
	if !strings.Contains(out, "valid") {
		t.Errorf("output = %q", out)
	}

	broken := filepath.Join(t.TempDir(), "kb.yaml")
	body := "broken:\n  deprecated_since: yesterday\n  reason: test\n"
	if err := os.WriteFile(broken, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DEPCHECK_DATABASE_PATH", broken)

	out, err = run(t, "validate-db")
	if !errors.Is(err, errors.ErrCodeCorruptDatabase) {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeCorruptDatabase)
	}
	if !strings.Contains(out, "broken") {
		t.Errorf("problems should name the record:\n%s", out)
	}
}

func TestExportCommand(t *testing.T) {
	isolate(t)
	seed := collector.DefaultManual()

	path := filepath.Join(t.TempDir(), "export.yaml")
	if _, err := run(t, "export-db", "--output", path); err != nil {
		t.Fatalf("export-db failed: %v", err)
	}
	snap, err := kb.LoadFile(path)
	if err != nil {
		t.Fatalf("exported document does not load: %v", err)
	}
	if snap.Len() != seed.Len() {
		t.Errorf("exported %d packages, want %d", snap.Len(), seed.Len())
	}

	out, err := run(t, "export-db", "--format", "json")
	if err != nil {
		t.Fatalf("export-db json failed: %v", err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("json export: %v", err)
	}
	if _, ok := doc["packages"]; !ok {
		t.Errorf("json export keys = %v", doc)
	}

	if _, err := run(t, "export-db", "--format", "csv"); !errors.Is(err, errors.ErrCodeUnsupportedFormat) {
		t.Errorf("csv export error = %v", err)
	}
}

func TestUpdateCommand(t *testing.T) {
	home := isolate(t)

	out, err := run(t, "update-db", "--source", "all")
	if err != nil {
		t.Fatalf("update-db failed: %v", err)
	}
	if !strings.Contains(out, "manual") || !strings.Contains(out, "Knowledge base updated") {
		t.Errorf("update output:\n%s", out)
	}

	snap, err := kb.LoadFile(filepath.Join(home, "data", appName, "deprecated_packages.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if snap.Metadata().LastUpdated.IsZero() {
		t.Error("saved snapshot has no last_updated stamp")
	}

	if _, err := run(t, "update-db", "--source", "pypi"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("disabled source error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
}

func TestSchedulerStatusCommand(t *testing.T) {
	isolate(t)
	t.Setenv("DEPCHECK_SCHEDULER_INTERVAL_HOURS", "12")

	out, err := run(t, "scheduler", "status", "--format", "json")
	if err != nil {
		t.Fatalf("scheduler status failed: %v", err)
	}
	var st struct {
		IsRunning bool `json:"is_running"`
		Config    struct {
			IntervalHours float64 `json:"interval_hours"`
		} `json:"config"`
	}
	if err := json.Unmarshal([]byte(out), &st); err != nil {
		t.Fatalf("status is not JSON: %v\n%s", err, out)
	}
	if st.IsRunning || st.Config.IntervalHours != 12 {
		t.Errorf("status = %+v", st)
	}

	out, err = run(t, "scheduler", "status")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "12 hours") || !strings.Contains(out, "not scheduled") {
		t.Errorf("text status:\n%s", out)
	}
}

func TestClearCacheCommand(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	t.Setenv("DEPCHECK_CACHE_BACKEND", "file")
	t.Setenv("DEPCHECK_CACHE_DIR", dir)

	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := fc.Set(context.Background(), "pypi:nose", []byte("{}"), time.Hour); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "clear-cache")
	if err != nil {
		t.Fatalf("clear-cache failed: %v", err)
	}
	if !strings.Contains(out, "Cleared 1 cached entries") {
		t.Errorf("clear-cache output = %q", out)
	}
	if _, ok, _ := fc.Get(context.Background(), "pypi:nose"); ok {
		t.Error("entry survived clear-cache")
	}

	out, err = run(t, "cache", "clear")
	if err != nil || !strings.Contains(out, "Cache is empty") {
		t.Errorf("second clear = %q, %v", out, err)
	}

	out, err = run(t, "cache", "path")
	if err != nil || strings.TrimSpace(out) != dir {
		t.Errorf("cache path = %q, %v; want %s", out, err, dir)
	}
}

func TestVersionAndCompletion(t *testing.T) {
	isolate(t)
	out, err := run(t, "version")
	if err != nil || !strings.Contains(out, "commit:") {
		t.Errorf("version = %q, %v", out, err)
	}

	out, err = run(t, "completion", "bash")
	if err != nil || !strings.Contains(out, appName) {
		t.Errorf("bash completion failed: %v", err)
	}

	if _, err := run(t, "completion", "tcsh"); err == nil {
		t.Error("unknown shell should be rejected")
	}
}

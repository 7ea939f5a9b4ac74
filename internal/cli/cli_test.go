package cli

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/emberview/pkg/errors"
	"github.com/matzehuels/emberview/pkg/pipeline"
)

// isolate points config and cache lookups at empty temp directories and
// returns the absolute path of the test CSV.
func isolate(t *testing.T) fixtures {
	t.Helper()
	// resolved before the chdir below
	fx := fixtures{
		records: fixture(t, "wildfire.csv"),
		geo:     fixture(t, "counties.geojson"),
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("EMBERVIEW_CACHE_DIR", t.TempDir())
	t.Chdir(t.TempDir())
	return fx
}

// fixtures are absolute paths to the dataset test files.
type fixtures struct {
	records string
	geo     string
}

func fixture(t *testing.T, name string) string {
	t.Helper()
	path, err := filepath.Abs(filepath.Join("..", "..", "pkg", "dataset", "testdata", name))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("fixture %s: %v", name, err)
	}
	return path
}

// run executes the root command with args and returns what it printed.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	restore := captureStdout(&out)
	defer restore()

	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, log.InfoLevel).RootCommand()

	want := []string{"render", "summary", "serve", "explore", "config", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("--config flag missing")
	}
}

func TestVerboseEnablesDebug(t *testing.T) {
	isolate(t)
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs([]string{"--verbose", "cache", "path"})
	restore := captureStdout(&bytes.Buffer{})
	defer restore()

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}
	if c.Logger.GetLevel() != log.DebugLevel {
		t.Errorf("level = %v, want debug", c.Logger.GetLevel())
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, ExitOK},
		{fmt.Errorf("render: %w", context.Canceled), ExitInterrupted},
		{errors.New(errors.ErrCodeInvalidChart, "pie"), ExitUsage},
		{errors.New(errors.ErrCodeLoadFailed, "bad csv"), ExitFailure},
		{stderrors.New("boom"), ExitFailure},
	}
	for _, tt := range tests {
		if got := ExitCode(tt.err); got != tt.want {
			t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestParseYears(t *testing.T) {
	tests := []struct {
		in       string
		from, to int
		wantErr  bool
	}{
		{"1960:2005", 1960, 2005, false},
		{" 1960 : 2005 ", 1960, 2005, false},
		{"1950:", 1950, 9999, false},
		{":2000", 0, 2000, false},
		{"2005:1960", 0, 0, true},
		{"1960", 0, 0, true},
		{"abc:2000", 0, 0, true},
	}
	for _, tt := range tests {
		from, to, err := parseYears(tt.in)
		if tt.wantErr {
			if !errors.Is(err, errors.ErrCodeInvalidRange) {
				t.Errorf("parseYears(%q) error = %v, want INVALID_RANGE", tt.in, err)
			}
			continue
		}
		if err != nil || from != tt.from || to != tt.to {
			t.Errorf("parseYears(%q) = %d, %d, %v; want %d, %d", tt.in, from, to, err, tt.from, tt.to)
		}
	}
}

func TestRenderWritesArtifacts(t *testing.T) {
	records := isolate(t).records
	outDir := filepath.Join(t.TempDir(), "out")

	out, err := run(t, "render", records, "-o", outDir, "--no-cache", "--dashboard")
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, name := range []string{"bar.svg", "line.svg", "treemap.svg", pipeline.DashboardFile, pipeline.ManifestFile} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	// no --geo: the scatter map is skipped, not fatal
	if _, err := os.Stat(filepath.Join(outDir, "scatter.svg")); !os.IsNotExist(err) {
		t.Error("scatter.svg should not be written without boundaries")
	}
	if !strings.Contains(out, "scatter skipped") {
		t.Errorf("output should warn about the skipped scatter map:\n%s", out)
	}

	raw, err := os.ReadFile(filepath.Join(outDir, pipeline.ManifestFile))
	if err != nil {
		t.Fatal(err)
	}
	var m pipeline.Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("manifest: %v", err)
	}
	if m.RunID == "" || len(m.Charts) != 4 {
		t.Errorf("manifest = %+v", m)
	}
	for _, c := range m.Charts {
		if c.Kind == "scatter" && c.Code != string(errors.ErrCodeLoadFailed) {
			t.Errorf("scatter code = %q, want LOAD_FAILED", c.Code)
		}
	}
}

func TestRenderSelectsKindsAndYears(t *testing.T) {
	records := isolate(t).records
	outDir := t.TempDir()

	_, err := run(t, "render", records, "-o", outDir, "--no-cache", "-t", "line", "-f", "svg,json", "--years", "1980:2010")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, name := range []string{"line.svg", "line.json"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("missing %s", name)
		}
	}
	if _, err := os.Stat(filepath.Join(outDir, "bar.svg")); !os.IsNotExist(err) {
		t.Error("bar.svg written although only line was requested")
	}
}

func TestRenderRejectsBadFlags(t *testing.T) {
	records := isolate(t).records

	tests := []struct {
		args []string
		code errors.Code
	}{
		{[]string{"render", records, "-t", "pie"}, errors.ErrCodeInvalidChart},
		{[]string{"render", records, "-f", "gif"}, errors.ErrCodeInvalidFormat},
		{[]string{"render", records, "--years", "2000:1990"}, errors.ErrCodeInvalidRange},
		{[]string{"render", "missing.csv", "--no-cache"}, errors.ErrCodeFileNotFound},
		{[]string{"render"}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		_, err := run(t, tt.args...)
		if !errors.Is(err, tt.code) {
			t.Errorf("%v: error = %v, want %s", tt.args, err, tt.code)
		}
	}
}

func TestSummary(t *testing.T) {
	records := isolate(t).records

	out, err := run(t, "summary", records, "--by", "county")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	for _, want := range []string{"Butte", "Lake", "Sonoma", "total", "40.0%"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary output missing %q:\n%s", want, out)
		}
	}

	out, err = run(t, "summary", records, "--by", "Roof Construction", "--top", "1")
	if err != nil {
		t.Fatalf("summary by column: %v", err)
	}
	if !strings.Contains(out, "Asphalt") || !strings.Contains(out, "(2 more)") {
		t.Errorf("summary --top output:\n%s", out)
	}

	_, err = run(t, "summary", records, "--by", "Nope")
	if !errors.Is(err, errors.ErrCodeInvalidField) {
		t.Errorf("unknown column error = %v", err)
	}
}

func TestSummaryMismatches(t *testing.T) {
	fx := isolate(t)
	if !filepath.IsAbs(fx.geo) {
		t.Fatalf("geo fixture should be absolute, got %s", fx.geo)
	}

	out, err := run(t, "summary", fx.records, "--geo", fx.geo)
	if err != nil {
		t.Fatalf("summary --geo: %v", err)
	}
	if !strings.Contains(out, "inside their county") && !strings.Contains(out, "outside their county") {
		t.Errorf("summary --geo should report county placement:\n%s", out)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "emberview.toml")

	if _, err := run(t, "config", "init", "--path", path); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := run(t, "config", "init", "--path", path); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("second init error = %v, want INVALID_PATH", err)
	}
	if _, err := run(t, "config", "init", "--path", path, "--force"); err != nil {
		t.Errorf("init --force: %v", err)
	}

	out, err := run(t, "--config", path, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	for _, want := range []string{path, "[render]", "[cache]", `group = "County"`} {
		if !strings.Contains(out, want) {
			t.Errorf("config show missing %q:\n%s", want, out)
		}
	}
}

func TestCachePathAndClear(t *testing.T) {
	records := isolate(t).records
	dir := os.Getenv("EMBERVIEW_CACHE_DIR")

	out, err := run(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if strings.TrimSpace(out) != dir {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), dir)
	}

	if _, err := run(t, "render", records, "-o", t.TempDir(), "-t", "bar"); err != nil {
		t.Fatalf("render: %v", err)
	}
	out, err = run(t, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "Cleared 1 cached entries") {
		t.Errorf("cache clear output:\n%s", out)
	}
}

func TestCompletion(t *testing.T) {
	out, err := run(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(out, "emberview") {
		t.Error("bash completion should mention the binary name")
	}
}

package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/widgetshare/pkg/config"
	"github.com/matzehuels/widgetshare/pkg/errors"
)

// captureOutput redirects the package's stdout and stderr writers to
// buffers for the duration of the test.
func captureOutput(t *testing.T) (out, errOut *bytes.Buffer) {
	t.Helper()
	out, errOut = &bytes.Buffer{}, &bytes.Buffer{}
	prevOut, prevErr := stdout, stderr
	stdout, stderr = out, errOut
	t.Cleanup(func() { stdout, stderr = prevOut, prevErr })
	return out, errOut
}

// testCLI returns a CLI whose config downloads into a temp dir with the
// cache disabled.
func testCLI(t *testing.T) (*CLI, string) {
	t.Helper()
	for _, k := range []string{config.EnvConfig, config.EnvDownloadDir, config.EnvDownloadMode,
		config.EnvCacheBackend, config.EnvRedisAddr, config.EnvUserAgent, config.EnvLogLevel} {
		t.Setenv(k, "")
	}

	dir := t.TempDir()
	downloads := filepath.Join(dir, "downloads")
	cfg := "[download]\nmode = \"disk\"\ndir = " + quote(downloads) + "\n\n[cache]\nbackend = \"none\"\n"
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(&bytes.Buffer{}, log.InfoLevel)
	c.configPath = path
	return c, downloads
}

func quote(s string) string {
	return `'` + s + `'`
}

func TestRootCommandSubcommands(t *testing.T) {
	root := New(&bytes.Buffer{}, log.InfoLevel).RootCommand()

	want := []string{"widgets", "export", "share", "link", "tui", "cache", "config", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}

	for _, flag := range []string{"config", "dashboard", "verbose"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("persistent flag --%s missing", flag)
		}
	}
}

func TestVerboseFlagSetsDebug(t *testing.T) {
	captureOutput(t)
	c, _ := testCLI(t)
	root := c.RootCommand()
	root.SetArgs([]string{"-v", "config", "path"})

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if c.Logger.GetLevel() != log.DebugLevel {
		t.Errorf("level = %v, want debug", c.Logger.GetLevel())
	}
}

func TestWidgetsCommand(t *testing.T) {
	out, _ := captureOutput(t)
	c, _ := testCLI(t)
	root := c.RootCommand()
	root.SetArgs([]string{"widgets"})

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("execute: %v", err)
	}
	for _, s := range []string{"employee-table", "monthly-sales", "csv, pdf", "8 rows", "10 points"} {
		if !strings.Contains(out.String(), s) {
			t.Errorf("output missing %q:\n%s", s, out.String())
		}
	}
}

func TestExportTableCSV(t *testing.T) {
	out, _ := captureOutput(t)
	c, downloads := testCLI(t)
	ctx := withLogger(context.Background(), c.Logger)

	if err := c.runExport(ctx, exportOptions{widgetID: "employee-table", format: "csv"}); err != nil {
		t.Fatalf("runExport: %v", err)
	}

	files, _ := filepath.Glob(filepath.Join(downloads, "*.csv"))
	if len(files) != 1 {
		t.Fatalf("want 1 csv in %s, got %v", downloads, files)
	}
	data, err := os.ReadFile(files[0])
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("EMP001")) {
		t.Errorf("csv missing sample rows:\n%s", data)
	}
	if !strings.Contains(out.String(), files[0]) {
		t.Errorf("output should name the saved file, got:\n%s", out.String())
	}
}

func TestExportRejects(t *testing.T) {
	captureOutput(t)
	c, downloads := testCLI(t)
	ctx := context.Background()

	tests := []struct {
		name string
		opts exportOptions
		code errors.Code
	}{
		{"unknown format", exportOptions{widgetID: "employee-table", format: "docx"}, errors.ErrCodeInvalidFormat},
		{"format not for kind", exportOptions{widgetID: "employee-table", format: "png"}, errors.ErrCodeInvalidFormat},
		{"unknown widget", exportOptions{widgetID: "nope", format: "pdf"}, errors.ErrCodeWidgetNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.runExport(ctx, tt.opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}

	if files, _ := filepath.Glob(filepath.Join(downloads, "*")); len(files) != 0 {
		t.Errorf("rejected exports wrote files: %v", files)
	}
}

func TestShareRejectsUnknownPlatform(t *testing.T) {
	captureOutput(t)
	c, _ := testCLI(t)

	err := c.runShare(context.Background(), shareOptions{widgetID: "employee-table", platform: "fax"})
	if !errors.Is(err, errors.ErrCodeInvalidPlatform) {
		t.Errorf("err = %v, want INVALID_PLATFORM", err)
	}
}

func TestCacheLocation(t *testing.T) {
	cfg := config.Default()

	cfg.Cache.Backend = config.CacheFile
	cfg.Cache.Dir = "/tmp/ws-cache"
	if got := cacheLocation(cfg); got != "/tmp/ws-cache" {
		t.Errorf("file location = %q", got)
	}

	cfg.Cache.Backend = config.CacheRedis
	cfg.Cache.RedisAddr = "cache:6379"
	cfg.Cache.RedisDB = 3
	if got := cacheLocation(cfg); !strings.HasPrefix(got, "redis://cache:6379/3") {
		t.Errorf("redis location = %q", got)
	}

	cfg.Cache.Backend = config.CacheNone
	if got := cacheLocation(cfg); got != "disabled" {
		t.Errorf("none location = %q", got)
	}
}

func TestClearFileCache(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.Backend = config.CacheFile
	cfg.Cache.Dir = t.TempDir()

	for _, name := range []string{"a", "b"} {
		if err := os.WriteFile(filepath.Join(cfg.Cache.Dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	n, where, err := clearCache(context.Background(), cfg)
	if err != nil {
		t.Fatalf("clearCache: %v", err)
	}
	if n != 2 || where != cfg.Cache.Dir {
		t.Errorf("clearCache = (%d, %q), want (2, %q)", n, where, cfg.Cache.Dir)
	}
}

func TestConfigShow(t *testing.T) {
	out, _ := captureOutput(t)
	c, downloads := testCLI(t)
	root := c.RootCommand()
	root.SetArgs([]string{"config", "show"})

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out.String(), downloads) {
		t.Errorf("config show missing download dir:\n%s", out.String())
	}
	if !strings.Contains(out.String(), `backend = "none"`) {
		t.Errorf("config show missing cache backend:\n%s", out.String())
	}
}

func TestExportTableFiltered(t *testing.T) {
	captureOutput(t)
	c, downloads := testCLI(t)

	opts := exportOptions{widgetID: "employee-table", format: "csv", filters: map[string]string{"department": "finance"}}
	if err := c.runExport(context.Background(), opts); err != nil {
		t.Fatalf("runExport: %v", err)
	}

	files, _ := filepath.Glob(filepath.Join(downloads, "*.csv"))
	if len(files) != 1 {
		t.Fatalf("want 1 csv, got %v", files)
	}
	data, _ := os.ReadFile(files[0])
	if !bytes.Contains(data, []byte("Diana Prince")) || bytes.Contains(data, []byte("John Doe")) {
		t.Errorf("filtered csv has wrong rows:\n%s", data)
	}
}

func TestCompletionCommand(t *testing.T) {
	out, _ := captureOutput(t)
	c, _ := testCLI(t)
	root := c.RootCommand()
	root.SetArgs([]string{"completion", "fish"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out.String(), "complete -c widgetshare") {
		t.Errorf("fish script missing command name:\n%s", out.String())
	}

	root = c.RootCommand()
	root.SetArgs([]string{"completion", "powershell"})
	if err := root.ExecuteContext(context.Background()); err == nil {
		t.Error("expected unsupported shell to fail")
	}
}

func TestCompleteWidgetIDs(t *testing.T) {
	c, _ := testCLI(t)

	ids, dir := c.completeWidgetIDs(nil, nil, "emp")
	if dir != cobra.ShellCompDirectiveNoFileComp {
		t.Errorf("directive = %v", dir)
	}
	if len(ids) != 1 || !strings.HasPrefix(ids[0], "employee-table\t") {
		t.Errorf("ids = %q", ids)
	}

	c.dashboardPath = filepath.Join(t.TempDir(), "absent.toml")
	if _, dir := c.completeWidgetIDs(nil, nil, ""); dir != cobra.ShellCompDirectiveError {
		t.Errorf("missing dashboard directive = %v", dir)
	}
}

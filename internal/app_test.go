package internal

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/valter-silva-au/witag/internal/cli"
	"github.com/valter-silva-au/witag/pkg/models"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func newTestApp(t *testing.T, dir string) *App {
	t.Helper()
	origInit := cli.Init
	t.Cleanup(func() { cli.Init = origInit })

	app, err := NewApp(dir)
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	app.LogOutput = &bytes.Buffer{}
	return app
}

func TestInit_LoadsConfiguredManifests(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".witagrc.yaml", `
manifests:
  - "suites/**/*.yaml"
links:
  REQ: "https://req.example.com/{id}"
log:
  level: debug
`)
	writeFile(t, dir, "suites/base.yaml", `
classes:
  - name: BaseTest
    work_items:
      - { type: FR, id: "1" }
`)
	writeFile(t, dir, "suites/my.yaml", `
classes:
  - name: MyTest
    extends: [BaseTest]
    work_items:
      - { id: "123" }
`)

	app := newTestApp(t, dir)
	if err := app.Init(cli.InitOptions{}); err != nil {
		t.Fatalf("Init: %v", err)
	}

	tags, err := app.Registry.Tags(models.ClassTarget("MyTest"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tags) != 2 || tags[0].Type != models.WorkItemFR || tags[1].Type != models.WorkItemREQ {
		t.Errorf("tags = %+v", tags)
	}
	if got := app.Linker.Link(tags[1]); got != "https://req.example.com/123" {
		t.Errorf("Link = %q", got)
	}
	if cli.Registry != app.Registry {
		t.Error("CLI registry not wired")
	}
	if !strings.Contains(app.LogOutput.(*bytes.Buffer).String(), "Loaded manifest") {
		t.Error("expected debug log for loaded manifest")
	}
}

func TestInit_FlagOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "other.yaml", "classes:\n  - name: A\n    work_items:\n      - { id: \"9\" }\n")

	app := newTestApp(t, dir)
	if err := app.Init(cli.InitOptions{Manifests: []string{"other.yaml"}, LogLevel: "error"}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if len(app.Registry.OwnTags(models.ClassTarget("A"))) != 1 {
		t.Error("manifest from flag not loaded")
	}
	if app.Config.Log.Level != "error" {
		t.Errorf("LogLevel = %q", app.Config.Log.Level)
	}
}

func TestInit_Errors(t *testing.T) {
	dir := t.TempDir()

	app := newTestApp(t, dir)
	if err := app.Init(cli.InitOptions{Manifests: []string{"x.yaml"}, LogLevel: "loud"}); err == nil {
		t.Error("expected error for invalid log level")
	}
	if err := app.Init(cli.InitOptions{ConfigFile: filepath.Join(dir, "missing.yaml")}); err == nil {
		t.Error("expected error for missing explicit config")
	}
	if err := app.Init(cli.InitOptions{Manifests: []string{"x.yaml"}}); err == nil {
		t.Error("expected error for missing explicit manifest")
	}
}

func TestInit_AbsentDefaultManifest(t *testing.T) {
	dir := t.TempDir()

	app := newTestApp(t, dir)
	if err := app.Init(cli.InitOptions{}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if n := len(app.Registry.Targets()); n != 0 {
		t.Errorf("Targets = %d, want 0", n)
	}
	if !strings.Contains(app.LogOutput.(*bytes.Buffer).String(), "No manifests matched") {
		t.Error("expected warning for missing default manifest")
	}
}

func TestResolveBasePath(t *testing.T) {
	t.Setenv("WITAG_HOME", "/custom/home")
	if got := ResolveBasePath(); got != "/custom/home" {
		t.Errorf("ResolveBasePath() = %q", got)
	}

	t.Setenv("WITAG_HOME", "")
	dir := t.TempDir()
	writeFile(t, dir, ".witagrc.yaml", "manifests: [a.yaml]\n")
	nested := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	t.Chdir(nested)

	got, _ := filepath.EvalSymlinks(ResolveBasePath())
	want, _ := filepath.EvalSymlinks(dir)
	if got != want {
		t.Errorf("ResolveBasePath() = %q, want %q", got, want)
	}
}

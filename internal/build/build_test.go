package build

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jml-dev/jml/internal/config"
	"github.com/jml-dev/jml/internal/errors"
	"github.com/jml-dev/jml/pkg/page"
)

// newSite writes files under a temp project with a saved jml.json and
// returns the loaded config and a disk store over its pages.
func newSite(t *testing.T, files map[string]string) (*config.Config, page.Store) {
	t.Helper()
	root := t.TempDir()
	for name, body := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	cfg := config.New()
	cfg.Server.Static = "public"
	if err := cfg.SaveTo(filepath.Join(root, config.ConfigFileName)); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(cfg.PagesPath(), 0o755); err != nil {
		t.Fatal(err)
	}
	store, err := page.NewDiskStore(cfg.PagesPath())
	if err != nil {
		t.Fatal(err)
	}
	return cfg, store
}

func TestNew(t *testing.T) {
	cfg := config.New()
	cfg.Build.Pretty = true

	builder := New(cfg, nil, Options{})
	if !builder.options.Pretty {
		t.Error("Pretty should be true from config")
	}
	if builder.options.Concurrency < 1 {
		t.Errorf("Concurrency = %d", builder.options.Concurrency)
	}
	if builder.options.Logger == nil {
		t.Error("Logger should default")
	}
}

func TestBuild(t *testing.T) {
	cfg, store := newSite(t, map[string]string{
		"pages/index.jml":           `{"title": "Deck", "icon": "/static/logo.png", "h1": "Cards"}`,
		"pages/docs/intro.dom.json": `{"p": "Intro"}`,
		"pages/about.jml.hcl":       "h1 = upper(\"about\")\n",
		"public/logo.png":           "png",
		"public/css/site.css":       "body{}",
	})

	var steps []string
	result, err := New(cfg, store, Options{
		OnProgress: func(s string) { steps = append(steps, s) },
	}).Build(context.Background())
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	if diff := cmp.Diff([]string{"about.html", "docs/intro.html", "index.html"}, result.Pages); diff != "" {
		t.Errorf("Pages mismatch (-want +got):\n%s", diff)
	}

	out := cfg.OutputPath()
	index, err := os.ReadFile(filepath.Join(out, "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"<!DOCTYPE html>", "<title>Deck</title>", "<h1>Cards</h1>"} {
		if !strings.Contains(string(index), want) {
			t.Errorf("index.html missing %q", want)
		}
	}
	about, _ := os.ReadFile(filepath.Join(out, "about.html"))
	if !strings.Contains(string(about), "<h1>ABOUT</h1>") {
		t.Errorf("about.html = %s", about)
	}

	if len(result.Manifest) != 2 {
		t.Fatalf("Manifest = %v", result.Manifest)
	}
	hashed := result.Manifest["css/site.css"]
	if !strings.HasPrefix(hashed, "static/css/site.") || !strings.HasSuffix(hashed, ".css") {
		t.Errorf("hashed css = %q", hashed)
	}
	if _, err := os.Stat(filepath.Join(out, filepath.FromSlash(hashed))); err != nil {
		t.Errorf("hashed asset missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "manifest.json")); err != nil {
		t.Errorf("manifest missing: %v", err)
	}
	if want := `href="/` + result.Manifest["logo.png"] + `"`; !strings.Contains(string(index), want) {
		t.Errorf("index.html should link the fingerprinted icon %s:\n%s", want, index)
	}
	if len(steps) == 0 || steps[0] != "Cleaning output directory..." {
		t.Errorf("progress steps = %v", steps)
	}
}

func TestBuildCleansOutput(t *testing.T) {
	cfg, store := newSite(t, map[string]string{"pages/index.jml": `{"p": "x"}`})
	stale := filepath.Join(cfg.OutputPath(), "stale.html")
	os.MkdirAll(cfg.OutputPath(), 0o755)
	os.WriteFile(stale, []byte("old"), 0o644)

	if _, err := New(cfg, store, Options{}).Build(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale output should be removed")
	}
}

func TestBuildPageErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      map[string]string
		code     string
		wantLine int
	}{
		{"json syntax", map[string]string{"pages/bad.jml": "{\n  \"h1\": \"x\",\n  ]\n}"}, "E121", 3},
		{"hcl syntax", map[string]string{"pages/bad.jml.hcl": "h1 = \n"}, "E122", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, store := newSite(t, tt.src)
			_, err := New(cfg, store, Options{}).Build(context.Background())
			var je *errors.JmlError
			if !stderrors.As(err, &je) {
				t.Fatalf("error %v is not a JmlError", err)
			}
			if je.Code != tt.code {
				t.Errorf("Code = %s, want %s", je.Code, tt.code)
			}
			if je.Location == nil || je.Location.Line != tt.wantLine {
				t.Errorf("Location = %v, want line %d", je.Location, tt.wantLine)
			}
			if !strings.Contains(je.Detail, "bad") {
				t.Errorf("Detail = %q", je.Detail)
			}
		})
	}
}

type listFailStore struct{ page.Store }

func (listFailStore) List(context.Context) ([]string, error) {
	return nil, stderrors.New("bucket unreachable")
}

func TestBuildListError(t *testing.T) {
	cfg, _ := newSite(t, nil)
	_, err := New(cfg, listFailStore{}, Options{}).Build(context.Background())
	var je *errors.JmlError
	if !stderrors.As(err, &je) || je.Code != "E124" {
		t.Errorf("error = %v, want E124", err)
	}
}

func TestHashFile(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "test.txt")
	if err := os.WriteFile(testFile, []byte("hello world"), 0o644); err != nil {
		t.Fatal(err)
	}

	hash, err := hashFile(testFile)
	if err != nil {
		t.Fatalf("hashFile error: %v", err)
	}
	if len(hash) != 64 {
		t.Errorf("Hash length = %d, want 64", len(hash))
	}
	if hash2, _ := hashFile(testFile); hash != hash2 {
		t.Error("Hash should be consistent")
	}
	if _, err := hashFile("/nonexistent/file.txt"); err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	if err := os.WriteFile(src, []byte("test content"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := copyFile(src, dst); err != nil {
		t.Fatalf("copyFile error: %v", err)
	}
	copied, _ := os.ReadFile(dst)
	if string(copied) != "test content" {
		t.Errorf("Content = %q", copied)
	}
	if err := copyFile("/nonexistent/file.txt", dst); err == nil {
		t.Error("Expected error for nonexistent source")
	}
}

func TestBuilderClean(t *testing.T) {
	cfg, store := newSite(t, nil)
	os.MkdirAll(cfg.OutputPath(), 0o755)
	os.WriteFile(filepath.Join(cfg.OutputPath(), "index.html"), []byte("x"), 0o644)

	if err := New(cfg, store, Options{}).Clean(); err != nil {
		t.Fatalf("Clean error: %v", err)
	}
	if _, err := os.Stat(cfg.OutputPath()); !os.IsNotExist(err) {
		t.Error("output directory should be removed")
	}
}

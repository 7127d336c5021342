package build

import (
	"context"
	stderrors "errors"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jml-dev/jml/internal/config"
	"github.com/jml-dev/jml/internal/errors"
	"github.com/jml-dev/jml/pkg/assets"
	"github.com/jml-dev/jml/pkg/dom"
	"github.com/jml-dev/jml/pkg/page"
	"github.com/jml-dev/jml/pkg/render"
	"github.com/jml-dev/jml/pkg/server"
)

// Result contains the build output.
type Result struct {
	// Duration is how long the build took.
	Duration time.Duration

	// Output is the output directory.
	Output string

	// Pages are the written HTML files, relative to Output, sorted.
	Pages []string

	// Manifest is the asset manifest.
	Manifest map[string]string
}

// Options configures the builder.
type Options struct {
	// Pretty enables indented HTML output.
	Pretty bool

	// Concurrency bounds parallel page renders. Default: GOMAXPROCS.
	Concurrency int

	// Logger receives engine diagnostics.
	Logger *slog.Logger

	// OnProgress is called with progress updates.
	OnProgress func(step string)
}

// Builder handles static builds.
type Builder struct {
	config  *config.Config
	store   page.Store
	options Options

	progressMu sync.Mutex
}

// New creates a new builder.
func New(cfg *config.Config, store page.Store, options Options) *Builder {
	if !options.Pretty && cfg.Build.Pretty {
		options.Pretty = true
	}
	if options.Concurrency <= 0 {
		options.Concurrency = runtime.GOMAXPROCS(0)
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	return &Builder{
		config:  cfg,
		store:   store,
		options: options,
	}
}

// Build renders every page and copies static assets. It stops at the first
// page that fails.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	start := time.Now()
	outputDir := b.config.OutputPath()
	result := &Result{Output: outputDir}

	b.progress("Cleaning output directory...")
	if err := os.RemoveAll(outputDir); err != nil {
		return nil, errors.New("E140").Wrap(err)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, errors.New("E140").Wrap(err)
	}

	names, err := b.store.List(ctx)
	if err != nil {
		return nil, errors.New("E124").Wrap(err)
	}

	manifest := assets.NewManifest()
	if static := b.config.StaticPath(); static != "" {
		b.progress("Copying static assets...")
		if err := b.copyAssets(static, filepath.Join(outputDir, "static"), manifest); err != nil {
			return nil, errors.New("E140").Wrap(err)
		}
	}

	b.progress(fmt.Sprintf("Rendering %d pages...", len(names)))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.options.Concurrency)
	for _, name := range names {
		g.Go(func() error {
			file, err := b.buildPage(gctx, name, outputDir, manifest)
			if err != nil {
				return err
			}
			mu.Lock()
			result.Pages = append(result.Pages, file)
			mu.Unlock()
			b.progress("Built " + file)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Strings(result.Pages)

	b.progress("Writing manifest...")
	if err := manifest.Save(filepath.Join(outputDir, "manifest.json")); err != nil {
		return nil, errors.New("E140").Wrap(err)
	}
	result.Manifest = manifest.All()

	result.Duration = time.Since(start)
	return result, nil
}

// buildPage renders one page and returns its output path relative to dir.
// Links under /static/ are pointed at the fingerprinted assets.
func (b *Builder) buildPage(ctx context.Context, name, dir string, manifest *assets.Manifest) (string, error) {
	out, err := server.RenderPage(ctx, b.store, name, server.RenderOptions{
		ComposeOptions: server.ComposeOptions{
			Language: b.config.Server.Lang,
			Logger:   b.options.Logger,
		},
		RendererConfig: render.RendererConfig{
			Pretty: b.options.Pretty,
			Lang:   b.config.Server.Lang,
		},
		Prepare: func(doc *dom.Document) {
			assets.Rewrite(doc.Root, "/static/", manifest)
		},
	})
	if err != nil {
		return "", PageError(err).WithDetail("Page " + name + " was not built.")
	}

	file := filepath.FromSlash(name) + ".html"
	dest := filepath.Join(dir, file)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", errors.New("E140").Wrap(err)
	}
	if err := os.WriteFile(dest, out, 0o644); err != nil {
		return "", errors.New("E140").Wrap(err)
	}
	return filepath.ToSlash(file), nil
}

// PageError maps a page load, decode or construction failure onto a
// coded error.
func PageError(err error) *errors.JmlError {
	var de *page.DecodeError
	var pe *server.PanicError
	var je *errors.JmlError
	switch {
	case stderrors.Is(err, page.ErrNotFound):
		je = errors.New("E120").Wrap(err)
	case stderrors.Is(err, page.ErrUnsupportedFormat):
		je = errors.New("E123").Wrap(err)
	case stderrors.As(err, &de):
		code := "E121"
		if de.Format == "hcl" {
			code = "E122"
		}
		je = errors.New(code).Wrap(de.Err)
		if de.Line > 0 {
			je.WithLocation(de.File, de.Line, de.Column)
		}
	case stderrors.As(err, &pe):
		je = errors.New("E141").Wrap(err)
	default:
		je = errors.FromError(err, "E124")
	}
	return je
}

// copyAssets copies static assets with cache busting.
func (b *Builder) copyAssets(srcDir, destDir string, manifest *assets.Manifest) error {
	if _, err := os.Stat(srcDir); os.IsNotExist(err) {
		return nil
	}

	return filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		hash, err := hashFile(path)
		if err != nil {
			return err
		}
		ext := filepath.Ext(relPath)
		hashedRel := strings.TrimSuffix(relPath, ext) + "." + hash[:8] + ext
		destPath := filepath.Join(destDir, hashedRel)

		if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
			return err
		}
		if err := copyFile(path, destPath); err != nil {
			return err
		}
		manifest.Set(filepath.ToSlash(relPath), "static/"+filepath.ToSlash(hashedRel))
		return nil
	})
}

// progress reports build progress.
func (b *Builder) progress(step string) {
	b.progressMu.Lock()
	defer b.progressMu.Unlock()
	if b.options.OnProgress != nil {
		b.options.OnProgress(step)
	}
}

// hashFile returns the SHA256 hash of a file.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// copyFile copies a file.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

// Clean removes the build output directory.
func (b *Builder) Clean() error {
	return os.RemoveAll(b.config.OutputPath())
}

package dev

import (
	"path/filepath"

	"github.com/jml-dev/jml/internal/config"
)

// CollectWatchPaths returns a normalized list of watch paths for the site:
// the page directory, the static directory, jml.json and dev.watch.
func CollectWatchPaths(cfg *config.Config) []string {
	var paths []string
	if !cfg.UsesBucket() {
		paths = append(paths, cfg.PagesPath())
	}
	if static := cfg.StaticPath(); static != "" {
		paths = append(paths, static)
	}
	if cfg.Path() != "" {
		paths = append(paths, cfg.Path())
	}
	paths = append(paths, cfg.WatchPaths()...)

	unique := make([]string, 0, len(paths))
	seen := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		if path == "" {
			continue
		}
		clean := filepath.Clean(path)
		if _, ok := seen[clean]; ok {
			continue
		}
		seen[clean] = struct{}{}
		unique = append(unique, clean)
	}
	return unique
}

package main

import (
	"path"

	"github.com/jml-dev/jml/internal/config"
	"github.com/jml-dev/jml/internal/errors"
	"github.com/jml-dev/jml/pkg/page"
)

// openStore returns the page store cfg names: an S3 bucket when
// pages.bucket is set, otherwise the pages directory.
func openStore(cfg *config.Config) (page.Store, error) {
	if cfg.UsesBucket() {
		client := page.NewS3Client(page.S3Options{
			Region:    cfg.Pages.Region,
			Endpoint:  cfg.Pages.Endpoint,
			Anonymous: cfg.Pages.Anonymous,
		})
		return page.NewS3Store(client, cfg.Pages.Bucket, cfg.Pages.Prefix), nil
	}
	store, err := page.NewDiskStore(cfg.PagesPath())
	if err != nil {
		return nil, errors.New("E124").Wrap(err).
			WithDetail("The page directory " + cfg.PagesPath() + " could not be opened.").
			WithSuggestion("Create it or point pages.dir in jml.json somewhere else.")
	}
	return store, nil
}

// source describes where pages come from.
func source(cfg *config.Config) string {
	if cfg.UsesBucket() {
		return "s3://" + path.Join(cfg.Pages.Bucket, cfg.Pages.Prefix)
	}
	return cfg.PagesPath()
}

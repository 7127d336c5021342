// Package build renders every page of a site to static HTML.
//
// This package handles:
//   - Rendering each page in the store to <name>.html
//   - Static asset copying with cache busting
//   - Build manifest generation
//
// Each page is composed exactly as the server would compose it, so a built
// page and a served page are byte-identical for the same options.
//
// # Usage
//
//	builder := build.New(cfg, store, build.Options{})
//	result, err := builder.Build(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("Built %d pages in %s\n", len(result.Pages), result.Duration)
//
// # Output Structure
//
//	dist/
//	├── index.html
//	├── docs/
//	│   └── intro.html
//	├── static/          # Static files with hashes
//	└── manifest.json    # Asset manifest
//
// # Manifest
//
// The manifest maps original asset paths to their hashed versions:
//
//	{
//	  "logo.png": "static/logo.g7h8i9.png"
//	}
package build

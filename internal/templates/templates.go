package templates

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/jml-dev/jml/internal/errors"
)

// Config contains template configuration.
type Config struct {
	// SiteName is the name of the site.
	SiteName string

	// Description is a short site description.
	Description string

	// Lang is the default document language.
	Lang string
}

// Template represents a site template.
type Template struct {
	// Name is the template name.
	Name string

	// Description describes the template.
	Description string

	// Files is a map of relative paths to file contents.
	Files map[string]string
}

// Available templates.
var templates = map[string]*Template{
	"minimal": minimalTemplate(),
	"site":    siteTemplate(),
}

// Get returns a template by name.
func Get(name string) (*Template, error) {
	tmpl, ok := templates[name]
	if !ok {
		return nil, errors.New("E181").
			WithDetail("Template '" + name + "' not found").
			WithSuggestion("Available templates: " + strings.Join(List(), ", "))
	}
	return tmpl, nil
}

// List returns all available template names, sorted.
func List() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Paths returns the template's file paths, sorted.
func (t *Template) Paths() []string {
	paths := make([]string, 0, len(t.Files))
	for p := range t.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Create generates a site from the template. It refuses to write into a
// directory that already has a jml.json.
func (t *Template) Create(dir string, cfg Config) error {
	if cfg.Lang == "" {
		cfg.Lang = "en"
	}
	if _, err := os.Stat(filepath.Join(dir, "jml.json")); err == nil {
		return errors.New("E182").
			WithDetail(dir + " already has a jml.json").
			WithSuggestion("Choose an empty directory or remove the existing jml.json")
	}

	for _, relPath := range t.Paths() {
		// Execute template
		tmpl, err := template.New(relPath).Parse(t.Files[relPath])
		if err != nil {
			return errors.Newf(errors.CategoryCLI, "invalid template %s: %v", relPath, err)
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, cfg); err != nil {
			return errors.Newf(errors.CategoryCLI, "template execute error %s: %v", relPath, err)
		}

		// Write file
		fullPath := filepath.Join(dir, filepath.FromSlash(relPath))
		if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
			return err
		}

		if err := os.WriteFile(fullPath, buf.Bytes(), 0o644); err != nil {
			return err
		}
	}

	return nil
}

// minimalTemplate returns the minimal template.
func minimalTemplate() *Template {
	return &Template{
		Name:        "minimal",
		Description: "A config file and one page",
		Files: map[string]string{
			"jml.json": `{
  "name": {{printf "%q" .SiteName}},
  "server": {
    "lang": {{printf "%q" .Lang}}
  },
  "pages": {
    "dir": "pages"
  }
}
`,
			"pages/index.jml": `{
  "title": {{printf "%q" .SiteName}},
  "h1": {{printf "%q" .SiteName}},
  "p": {{printf "%q" .Description}}
}
`,
		},
	}
}

// siteTemplate returns the site template.
func siteTemplate() *Template {
	return &Template{
		Name:        "site",
		Description: "JSON and HCL pages, shared styles and static assets",
		Files: map[string]string{
			"jml.json": `{
  "name": {{printf "%q" .SiteName}},
  "server": {
    "lang": {{printf "%q" .Lang}},
    "static": "public"
  },
  "pages": {
    "dir": "pages"
  },
  "build": {
    "output": "dist"
  },
  "dev": {
    "watch": ["pages", "public"]
  }
}
`,
			"pages/index.jml": `{
  "title": {{printf "%q" .SiteName}},
  "icon": "/static/logo.svg",
  "description": {{printf "%q" .Description}},
  "css": {
    "body": {
      "fontFamily": "system-ui, sans-serif",
      "maxWidth": "800px",
      "margin": "0 auto",
      "padding": "2rem"
    },
    "h1": {
      "color": "#2563eb"
    }
  },
  "h1": {{printf "%q" .SiteName}},
  "p": {{printf "%q" .Description}}
}
`,
			"pages/about.jml.hcl": `title = "About"
icon  = "/static/logo.svg"

h1 = upper("about")
p  = {{printf "%q" .Description}}
`,
			"public/logo.svg": `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 32 32"><rect width="32" height="32" rx="6" fill="#2563eb"/></svg>
`,
		},
	}
}

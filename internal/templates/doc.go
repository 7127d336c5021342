// Package templates provides site scaffolding templates.
//
// # Available Templates
//
//   - minimal: A config file and one page
//   - site: JSON and HCL pages, shared styles and static assets
//
// # Usage
//
//	tmpl, err := templates.Get("site")
//	if err != nil {
//	    return err
//	}
//	if err := tmpl.Create(dir, templates.Config{SiteName: "deck"}); err != nil {
//	    return err
//	}
//
// # Template Variables
//
//	{{.SiteName}}     - Name of the site
//	{{.Description}}  - Site description
//	{{.Lang}}         - Default document language
package templates

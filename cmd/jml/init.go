package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jml-dev/jml/internal/templates"
)

func initCmd() *cobra.Command {
	var (
		template    string
		name        string
		description string
		lang        string
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a new site",
		Long: `Create jml.json and starter pages in dir (default: the current directory).

Templates:
  minimal   A config file and one page
  site      JSON and HCL pages, shared styles and static assets (default)

Examples:
  jml init
  jml init deck --template=minimal
  jml init docs --name="Docs" --lang=es`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			abs, err := filepath.Abs(dir)
			if err != nil {
				return err
			}
			if name == "" {
				name = filepath.Base(abs)
			}
			if description == "" {
				description = "A site built with jml"
			}

			tmpl, err := templates.Get(template)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(abs, 0o755); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			info(out, "Creating site from '%s' template...", template)
			if err := tmpl.Create(abs, templates.Config{
				SiteName:    name,
				Description: description,
				Lang:        lang,
			}); err != nil {
				return err
			}

			fmt.Fprintln(out)
			success(out, "Created %s", abs)
			for _, p := range tmpl.Paths() {
				info(out, "  %s", p)
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, "  Next steps:")
			if dir != "." {
				fmt.Fprintf(out, "    cd %s\n", dir)
			}
			fmt.Fprintln(out, "    jml dev")
			fmt.Fprintln(out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "site", "Site template (minimal, site)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Site name (default: directory name)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Site description")
	cmd.Flags().StringVar(&lang, "lang", "en", "Default document language")

	return cmd
}

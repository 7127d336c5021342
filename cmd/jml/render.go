package main

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jml-dev/jml/internal/build"
	"github.com/jml-dev/jml/internal/errors"
	"github.com/jml-dev/jml/pkg/render"
	"github.com/jml-dev/jml/pkg/server"
)

func renderCmd(flags *globalFlags) *cobra.Command {
	var (
		output string
		pretty bool
		lang   string
		query  string
	)

	cmd := &cobra.Command{
		Use:   "render <page>",
		Short: "Render one page to HTML",
		Long: `Render a single page and write the HTML document to stdout or a file.

Examples:
  jml render index
  jml render blog/first --lang=es-ES
  jml render deck --query="card=3" -o deck.html`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("E180").
					WithDetail("render takes exactly one page name, got " + strconv.Itoa(len(args)) + ".").
					WithExample("jml render index")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			logger, err := newLogger(cmd.ErrOrStderr(), flags)
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			if lang == "" {
				lang = cfg.Server.Lang
			}

			name := server.PageName(args[0])
			html, err := server.RenderPage(cmd.Context(), store, name, server.RenderOptions{
				ComposeOptions: server.ComposeOptions{
					Language: lang,
					Search:   query,
					Logger:   logger,
				},
				RendererConfig: render.RendererConfig{
					Pretty: pretty || cfg.Server.Pretty,
					Lang:   cfg.Server.Lang,
				},
			})
			if err != nil {
				return build.PageError(err)
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(html)
				return err
			}
			if err := os.WriteFile(output, html, 0o644); err != nil {
				return errors.New("E140").Wrap(err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent HTML output")
	cmd.Flags().StringVar(&lang, "lang", "", "Navigator language seen by the page (default from jml.json)")
	cmd.Flags().StringVar(&query, "query", "", "Query string seen by the page")

	return cmd
}

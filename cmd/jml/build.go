package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jml-dev/jml/internal/build"
)

func buildCmd(flags *globalFlags) *cobra.Command {
	var (
		output      string
		pretty      bool
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render every page to a static site",
		Long: `Render every page in the configured page source to HTML.

This command:
  • Cleans the output directory
  • Renders each page to <name>.html
  • Copies static assets with cache busting
  • Writes manifest.json

A page that fails to load or construct stops the build.

Examples:
  jml build
  jml build --output=public
  jml build --pretty --concurrency=4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if output != "" {
				cfg.Build.Output = output
			}
			if err := cfg.Validate(); err != nil {
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

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "  Building static site...")
			fmt.Fprintln(out)

			builder := build.New(cfg, store, build.Options{
				Pretty:      pretty,
				Concurrency: concurrency,
				Logger:      logger,
				OnProgress: func(step string) {
					info(out, "%s", step)
				},
			})

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			result, err := builder.Build(ctx)
			if err != nil {
				return err
			}
			printResult(out, result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output directory (default from jml.json)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent HTML output")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Pages rendered in parallel (default: GOMAXPROCS)")

	return cmd
}

func printResult(w io.Writer, result *build.Result) {
	fmt.Fprintln(w)
	success(w, "Built %d pages in %s", len(result.Pages), result.Duration.Round(time.Millisecond))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Output:")
	fmt.Fprintf(w, "    %s/\n", result.Output)
	for _, p := range result.Pages {
		fmt.Fprintf(w, "    ├── %s\n", p)
	}
	if len(result.Manifest) > 0 {
		fmt.Fprintf(w, "    ├── static/ (%d assets)\n", len(result.Manifest))
	}
	fmt.Fprintln(w, "    └── manifest.json")
	fmt.Fprintln(w)
}

package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jml-dev/jml/internal/dev"
)

func devCmd(flags *globalFlags) *cobra.Command {
	sf := &serverFlags{}
	var noReload bool

	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Serve pages with live reload",
		Long: `Serve pages and reload connected browsers when files change.

The dev server polls the page directory, the static directory and any
dev.watch paths. A page that fails to decode is shown in an error
overlay until it is fixed.

Examples:
  jml dev
  jml dev --port=3000
  jml dev --no-reload`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if noReload {
				off := false
				cfg.Dev.Reload = &off
			}
			if err := sf.apply(cfg); err != nil {
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
			srv := dev.NewServer(cfg, store, dev.Options{
				Logger: logger,
				OnChange: func(c dev.Change) {
					verb := "changed"
					if c.Removed {
						verb = "removed"
					}
					info(out, "%s %s: %s", c.Type, verb, filepath.Base(c.Path))
				},
			})

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			success(out, "Dev server on %s", cfg.URL())
			info(out, "Watching %d paths", len(dev.CollectWatchPaths(cfg)))
			return srv.Start(ctx)
		},
	}

	sf.register(cmd)
	cmd.Flags().BoolVar(&noReload, "no-reload", false, "Do not inject the live reload client")
	return cmd
}

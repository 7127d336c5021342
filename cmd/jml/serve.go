package main

import (
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jml-dev/jml/internal/config"
	"github.com/jml-dev/jml/internal/errors"
	"github.com/jml-dev/jml/pkg/server"
)

// serverFlags override the server section of jml.json.
type serverFlags struct {
	port   int
	host   string
	pretty bool
}

func (f *serverFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.port, "port", "p", 0, "Port to listen on (default from jml.json)")
	cmd.Flags().StringVarP(&f.host, "host", "H", "", "Host to bind to (default from jml.json)")
	cmd.Flags().BoolVar(&f.pretty, "pretty", false, "Indent HTML output")
}

func (f *serverFlags) apply(cfg *config.Config) error {
	if f.port > 0 {
		cfg.Server.Port = f.port
	}
	if f.host != "" {
		cfg.Server.Host = f.host
	}
	if f.pretty {
		cfg.Server.Pretty = true
	}
	return cfg.Validate()
}

func serveCmd(flags *globalFlags) *cobra.Command {
	sf := &serverFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve pages over HTTP",
		Long: `Serve every page in the configured page source over HTTP.

Each request loads the page named by the path ("/" is index, a trailing
.html is optional), builds a fresh document and streams the HTML. The
Accept-Language header sets the document language and the query string
is visible to the page.

Examples:
  jml serve
  jml serve --port=3000
  jml serve --host=0.0.0.0 --pretty`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
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

			srv := server.New(&server.Config{
				Address:        cfg.Address(),
				Store:          store,
				Pretty:         cfg.Server.Pretty,
				Lang:           cfg.Server.Lang,
				StaticDir:      cfg.StaticPath(),
				DisableMetrics: !cfg.MetricsEnabled(),
				Logger:         logger,
			})

			ln, err := net.Listen("tcp", cfg.Address())
			if err != nil {
				return errors.New("E161").Wrap(err).
					WithSuggestion("Pick another port with --port or server.port in jml.json.")
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			success(cmd.OutOrStdout(), "Serving %s on %s", source(cfg), cfg.URL())
			return srv.Serve(ctx, ln)
		},
	}

	sf.register(cmd)
	return cmd
}

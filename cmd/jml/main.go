// Command jml serves, renders and builds jml page descriptions.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jml-dev/jml/internal/config"
	"github.com/jml-dev/jml/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(execute(newRootCmd(), os.Args[1:], os.Stderr))
}

// execute runs cmd with args. A failure is written to stderr in the
// --error-format style and yields exit status 1.
func execute(cmd *cobra.Command, args []string, stderr io.Writer) int {
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err == nil {
		return 0
	}
	style, _ := cmd.PersistentFlags().GetString("error-format")
	if !slices.Contains(errors.Styles, style) {
		style = errors.StylePretty
	}
	errors.WriteError(stderr, err, style)
	return 1
}

// globalFlags are shared by every command.
type globalFlags struct {
	dir         string
	logLevel    string
	noColor     bool
	errorFormat string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "jml",
		Short: "Render declarative page descriptions to HTML",
		Long: `jml turns page descriptions written as JSON (.jml, .dom.json) or
HCL (.jml.hcl) into HTML documents.

Pages can be served on demand, rendered one at a time, or built into a
static site. Configuration is read from jml.json in the project root.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flags.noColor || flags.errorFormat != errors.StylePretty {
				errors.DisableColors()
			}
			if !slices.Contains(errors.Styles, flags.errorFormat) {
				return errors.New("E180").
					WithDetail(fmt.Sprintf("Unknown error format %q.", flags.errorFormat)).
					WithSuggestion("Use one of " + strings.Join(errors.Styles, ", ") + ".")
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.dir, "dir", "C", "", "Project directory (default: nearest directory with jml.json)")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "Disable colored error output")
	rootCmd.PersistentFlags().StringVar(&flags.errorFormat, "error-format", errors.StylePretty, "Error output: "+strings.Join(errors.Styles, ", "))

	rootCmd.AddCommand(
		initCmd(),
		serveCmd(flags),
		devCmd(flags),
		buildCmd(flags),
		renderCmd(flags),
		versionCmd(),
	)
	return rootCmd
}

// loadConfig finds jml.json from --dir or the working directory and
// validates it.
func loadConfig(flags *globalFlags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if flags.dir == "" {
		cfg, err = config.LoadFromWorkingDir()
	} else {
		var root string
		root, err = config.FindProjectRoot(flags.dir)
		if err == nil {
			cfg, err = config.Load(root)
		}
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger returns a text logger on w at the --log-level level.
func newLogger(w io.Writer, flags *globalFlags) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(flags.logLevel)); err != nil {
		return nil, errors.New("E180").Wrap(err).
			WithSuggestion("Use one of debug, info, warn or error.")
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

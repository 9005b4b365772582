package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-colorable"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tgagor/jonah/pkg/cmd"
	"github.com/tgagor/jonah/pkg/config"
	"github.com/tgagor/jonah/pkg/util"
)

var BuildVersion string // Will be set dynamically at build time.
var appName string = "jonah"

// newExecutor is swapped in tests to keep docker and git out of the way.
var newExecutor = func(flags config.Flags) cmd.Executor {
	return &cmd.Shell{Echo: flags.EchoCommands, Verbose: flags.Verbose}
}

func newRootCmd() *cobra.Command {
	var flags config.Flags

	root := &cobra.Command{
		Use:   appName,
		Short: "Builds artifacts inside Docker images and copies them out.",
		Long: `A CLI tool that builds a Docker image per project, creates a container from it
and copies the declared exports to the host. Collections chain many projects,
fetched from local paths or git repositories.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRun: func(c *cobra.Command, args []string) {
			initLogger(flags.Verbose, flags.NoColor)
		},
		RunE: func(c *cobra.Command, args []string) error {
			// If version flag is provided, show the version and exit.
			if flags.PrintVersion {
				fmt.Fprintf(c.OutOrStdout(), "%s version: %s\n", appName, BuildVersion)
				return nil
			}
			return c.Help()
		},
	}

	root.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Increase verbosity of output")
	root.PersistentFlags().BoolVar(&flags.NoColor, "no-color", false, "Disable color output")
	root.Flags().BoolVarP(&flags.PrintVersion, "version", "V", false, "Display the application version and exit")

	root.AddCommand(
		newProjectCmd(&flags),
		newCollectionCmd(&flags),
		newCleanCmd(&flags),
	)
	return root
}

func init() {
	if BuildVersion == "" {
		BuildVersion = "development" // Fallback if not set during build
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		util.FailOnError(err, "Exiting")
	}
}

func initLogger(verbose, noColor bool) {
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        colorable.NewColorableStderr(),
		NoColor:    noColor,
		TimeFormat: "15:04:05",
	})
	// Configure log level
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Avi18971911/endpoint-search/internal/config"
	"github.com/Avi18971911/endpoint-search/internal/search_server/app"
	"github.com/spf13/cobra"
)

var (
	// Version is injected at build time
	Version = "dev"
	// ProgramName is injected at build time
	ProgramName = "search_server"
)

// @title Endpoint Search API
// @version 1.0
// @description Search and autocomplete over deployment endpoints stored in Elasticsearch.

func main() {
	runMain(os.Args, os.Exit)
}

func runMain(args []string, exit func(int)) {
	if err := Execute(Version, ProgramName, args[1:]); err != nil {
		exit(1)
	}
}

// Execute is the entry point for the CLI, extracted for testing
func Execute(version, programName string, args []string) error {
	var bootstrap bool

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve search, autocomplete and reprocess over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.LoadSettingsWithFlags(cmd.Flags())
			if err != nil {
				return fmt.Errorf("failed to load settings: %w", err)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return app.Serve(ctx, settings, bootstrap)
		},
	}
	serveCmd.Flags().BoolVar(&bootstrap, "bootstrap", false, "Reindex from the document source before serving")

	reprocessCmd := &cobra.Command{
		Use:   "reprocess",
		Short: "Rebuild the endpoint index from the document source and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.LoadSettingsWithFlags(cmd.Flags())
			if err != nil {
				return fmt.Errorf("failed to load settings: %w", err)
			}
			result, err := app.Reprocess(cmd.Context(), settings)
			if err != nil {
				return err
			}
			cmd.Printf("Indexing Completed! %d endpoints in %s\n", result.Documents, result.Generation)
			return nil
		},
	}

	rootCmd := &cobra.Command{
		Use:          programName,
		Short:        "Deployment endpoint search",
		Version:      version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         serveCmd.RunE,
	}
	rootCmd.SetVersionTemplate(`{{.Version}}
`)
	config.RegisterFlags(rootCmd.PersistentFlags())
	rootCmd.Flags().BoolVar(&bootstrap, "bootstrap", false, "Reindex from the document source before serving")
	rootCmd.AddCommand(serveCmd, reprocessCmd)
	rootCmd.SetArgs(args)

	return rootCmd.ExecuteContext(context.Background())
}

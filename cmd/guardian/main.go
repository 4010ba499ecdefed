package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version = "dev" // Overwritten at build time
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		// a halted build has already been reported
		if !errors.Is(err, errHalted) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &reviewOptions{}
	rootCmd := &cobra.Command{
		Use:   "guardian",
		Short: "AI review of deployment configuration before a build",
		Long: `guardian reads cloudbuild.yaml, Dockerfile and .gcloudignore, asks the generation
model for a PASS or BLOCK verdict and exits non-zero unless the configuration passes.

Examples:
  # Review the current repository
  guardian

  # Review another checkout and print the record as JSON
  guardian --root ../service -o json

  # Review specific files and archive the record to MinIO
  guardian -f Dockerfile -f cloudbuild.yaml --archive`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReview(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.Flags().StringVar(&opts.root, "root", ".", "Project root holding the configuration files")
	rootCmd.Flags().StringSliceVarP(&opts.files, "file", "f", nil, "Files to review (default cloudbuild.yaml, Dockerfile, .gcloudignore)")
	rootCmd.Flags().StringVar(&opts.configPath, "config", "config.yaml", "Path to config file")
	rootCmd.Flags().StringVar(&opts.model, "model", "", "Generation model (default "+defaultGeminiModel+" for gemini)")
	rootCmd.Flags().StringVarP(&opts.output, "output", "o", "human", "Output format (human, json, yaml)")
	rootCmd.Flags().BoolVar(&opts.archive, "archive", false, "Upload the review record to the configured MinIO bucket")
	rootCmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "guardian version %s\n", version)
		},
	}
}

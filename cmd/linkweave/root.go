package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for LinkWeave.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "linkweave",
		Short: "Internal link analyzer driven by semantic similarity",
		Long: `LinkWeave reads a sitemap, crawls the listed pages and embeds each page
with OpenAI or Google Gemini. Pages with similar meaning that do not link
to each other become link suggestions; pages with few internal inbound
links are reported as orphans.

API keys are read from OPENAI_API_KEY and GEMINI_API_KEY. A .env file in
the current directory is loaded automatically.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")

	cmd.AddCommand(NewAnalyzeCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewProvidersCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

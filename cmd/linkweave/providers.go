package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/linkweave/internal/config"
	"github.com/nao1215/linkweave/internal/embedding"
)

// NewProvidersCmd creates the providers command.
func NewProvidersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "providers",
		Short: "List the supported embedding providers",
		Long: `Providers prints the model, vector size and cost of each embedding
provider and marks the one analyze would use. The active provider comes
from the config file, then EMBEDDING_PROVIDER.`,
		Args: cobra.NoArgs,
		RunE: runProvidersCmd,
	}

	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .linkweave in current or home directory)")

	return cmd
}

func runProvidersCmd(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}

	cfg := config.NewConfig()
	if path := config.FindConfigFile(configFile); path != "" {
		file, err := config.LoadConfigFile(path)
		if err != nil {
			return fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		file.Apply(cfg)
	}
	cfg.ApplyEnv()
	active := strings.ToLower(strings.TrimSpace(cfg.Provider))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "  %-2s %-8s %-16s %-24s %-6s %s\n", "", "NAME", "PROVIDER", "MODEL", "DIMS", "COST / 1K TOKENS")
	for _, name := range embedding.Names() {
		info := embedding.InfoFor(name)
		marker := ""
		if name == active {
			marker = "*"
		}
		fmt.Fprintf(out, "  %-2s %-8s %-16s %-24s %-6d %s\n",
			marker, name, info.Name, info.Model, info.Dimensions, info.CostPer1K)
	}
	return nil
}

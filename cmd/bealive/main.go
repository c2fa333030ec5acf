package main

import (
	"os"

	"github.com/spf13/cobra"
)

const defaultConfigPath = "config.yaml"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "bealive",
		Short:        "BeAlive conversational booking assistant",
		Long:         "BeAlive answers users in natural language and books, reviews and manages activities on their behalf.",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringP("config", "c", defaultConfigPath, "path to the YAML config file")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newSweepCmd())
	cmd.AddCommand(newIngestCmd())
	return cmd
}

func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(newRootCmd()))
}

package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "apiprobe",
	Short: "Explore and test APIs from their artifacts.",
	Long: `apiprobe parses a repository's API artifacts (OpenAPI documents,
GraphQL schemas, Protocol Buffer service definitions, and Postman
collections) into a normalized description, fires individual requests
against any environment, and replays whole collections as batch runs
with iteration, delay, pause/stop, and pass/fail assertions.`,
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(envCmd)
	rootCmd.AddCommand(snippetCmd)
	rootCmd.AddCommand(versionCmd)
}

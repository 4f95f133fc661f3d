package cmd

import (
	"github.com/apiprobe/apiprobe/packages/output"
	"github.com/spf13/cobra"
)

var (
	listKindFlag    string
	listVerboseFlag bool
)

var listCmd = &cobra.Command{
	Use:   "list <artifact>",
	Short: "List the operations of an API artifact",
	Long: `Parse an API artifact and list its operations.

The artifact kind is inferred from the file name and can be overridden
with --kind (openapi, graphql, grpc, postman).

Examples:
  apiprobe list openapi.yaml
  apiprobe list schema.graphql
  apiprobe list service.proto --kind grpc
  apiprobe list orders.postman_collection.json -v`,
	Args: cobra.ExactArgs(1),
	RunE: listCommand,
}

func init() {
	listCmd.Flags().StringVarP(&listKindFlag, "kind", "k", "", "Artifact kind: openapi, graphql, grpc, postman")
	listCmd.Flags().BoolVarP(&listVerboseFlag, "verbose", "v", false, "Show operation summaries")
}

func listCommand(cmd *cobra.Command, args []string) error {
	d, err := loadArtifact(args[0], listKindFlag)
	if err != nil {
		return err
	}

	formatter := output.NewConsoleFormatter(
		output.WithWriter(cmd.OutOrStdout()),
		output.WithVerbose(listVerboseFlag),
	)
	formatter.FormatDescriptor(d)
	return nil
}

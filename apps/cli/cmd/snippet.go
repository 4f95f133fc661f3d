package cmd

import (
	"fmt"
	"strings"

	"github.com/apiprobe/apiprobe/packages/request"
	"github.com/apiprobe/apiprobe/packages/snippet"
	"github.com/spf13/cobra"
)

var (
	snippetKindFlag    string
	snippetOpFlag      int
	snippetEnvFlag     string
	snippetEnvFileFlag string
	snippetConfigFlag  string
	snippetResolveFlag bool
)

var snippetCmd = &cobra.Command{
	Use:   "snippet <language> <artifact>",
	Short: "Generate client code for an artifact operation",
	Long: fmt.Sprintf(`Print a ready-to-run client snippet for one operation of an artifact.

Supported languages: %s

Examples:
  apiprobe snippet curl openapi.yaml --op 0
  apiprobe snippet python api.postman.json --op 2 --resolve --env staging`,
		strings.Join(snippet.Languages(), ", ")),
	Args: cobra.ExactArgs(2),
	RunE: snippetCommand,
}

func init() {
	snippetCmd.Flags().StringVarP(&snippetKindFlag, "kind", "k", "", "Artifact kind: openapi, graphql, grpc, postman")
	snippetCmd.Flags().IntVar(&snippetOpFlag, "op", 0, "Operation index within the artifact")
	snippetCmd.Flags().StringVarP(&snippetEnvFlag, "env", "e", getEnvString("APIPROBE_ENV", ""), "Environment for --resolve (env: APIPROBE_ENV)")
	snippetCmd.Flags().StringVar(&snippetEnvFileFlag, "env-file", "", "Path to .env file with variables")
	snippetCmd.Flags().StringVar(&snippetConfigFlag, "config", getEnvString("APIPROBE_CONFIG", ""), "Path to config file (env: APIPROBE_CONFIG)")
	snippetCmd.Flags().BoolVar(&snippetResolveFlag, "resolve", false, "Substitute {{VAR}} placeholders before generating")
}

func snippetCommand(cmd *cobra.Command, args []string) error {
	language, path := args[0], args[1]

	d, err := loadArtifact(path, snippetKindFlag)
	if err != nil {
		return err
	}
	if snippetOpFlag < 0 || snippetOpFlag >= len(d.Operations) {
		return fmt.Errorf("artifact has %d operations, --op %d is out of range", len(d.Operations), snippetOpFlag)
	}

	req := request.Seed(d.Operations[snippetOpFlag])

	if snippetResolveFlag {
		cfg, err := loadConfigFlag(snippetConfigFlag)
		if err != nil {
			return err
		}
		mgr, err := buildEnvironments(cfg, snippetEnvFlag, snippetEnvFileFlag)
		if err != nil {
			return err
		}
		req.URL = mgr.Resolve(req.URL)
		req.SetBody(mgr.Resolve(req.Body))
		for _, h := range req.Headers() {
			req.SetHeader(h.Key, mgr.Resolve(h.Value))
		}
	}

	code, err := snippet.Generate(language, req)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), code)
	return nil
}

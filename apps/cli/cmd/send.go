package cmd

import (
	"fmt"
	"strings"

	"github.com/apiprobe/apiprobe/packages/descriptor"
	"github.com/apiprobe/apiprobe/packages/history"
	"github.com/apiprobe/apiprobe/packages/output"
	"github.com/apiprobe/apiprobe/packages/request"
	"github.com/spf13/cobra"
)

var (
	sendKindFlag     string
	sendOpFlag       int
	sendMethodFlag   string
	sendURLFlag      string
	sendHeaderFlags  []string
	sendBodyFlag     string
	sendEnvFlag      string
	sendEnvFileFlag  string
	sendConfigFlag   string
	sendSimulateFlag bool
	sendJSONFlag     bool
	sendVerboseFlag  bool
)

var sendCmd = &cobra.Command{
	Use:   "send [artifact]",
	Short: "Build and fire a single request",
	Long: `Fire one request, either seeded from an artifact operation or assembled
entirely from flags. {{VAR}} placeholders in the URL, headers, and body
are resolved against the current environment at dispatch time.

Examples:
  apiprobe send openapi.yaml --op 0 --env staging
  apiprobe send service.proto --op 2 --simulate
  apiprobe send --method POST --url {{BASE_URL}}/users --body '{"name":"x"}'
  apiprobe send api.json --op 1 -H "Authorization: Bearer {{TOKEN}}"`,
	Args: cobra.MaximumNArgs(1),
	RunE: sendCommand,
}

func init() {
	sendCmd.Flags().StringVarP(&sendKindFlag, "kind", "k", "", "Artifact kind: openapi, graphql, grpc, postman")
	sendCmd.Flags().IntVar(&sendOpFlag, "op", 0, "Operation index within the artifact")
	sendCmd.Flags().StringVarP(&sendMethodFlag, "method", "X", "", "Override or set the request method")
	sendCmd.Flags().StringVar(&sendURLFlag, "url", "", "Override or set the request URL")
	sendCmd.Flags().StringArrayVarP(&sendHeaderFlags, "header", "H", nil, "Set a header (key: value); repeatable")
	sendCmd.Flags().StringVar(&sendBodyFlag, "body", "", "Override or set the request body")
	sendCmd.Flags().StringVarP(&sendEnvFlag, "env", "e", getEnvString("APIPROBE_ENV", ""), "Environment to resolve against (env: APIPROBE_ENV)")
	sendCmd.Flags().StringVar(&sendEnvFileFlag, "env-file", "", "Path to .env file with variables")
	sendCmd.Flags().StringVar(&sendConfigFlag, "config", getEnvString("APIPROBE_CONFIG", ""), "Path to config file (env: APIPROBE_CONFIG)")
	sendCmd.Flags().BoolVar(&sendSimulateFlag, "simulate", false, "Use the simulated transport instead of real HTTP")
	sendCmd.Flags().BoolVar(&sendJSONFlag, "json", false, "Emit the execution result as JSON")
	sendCmd.Flags().BoolVarP(&sendVerboseFlag, "verbose", "v", false, "Show response headers")
}

func sendCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigFlag(sendConfigFlag)
	if err != nil {
		return err
	}
	envs, err := buildEnvironments(cfg, sendEnvFlag, sendEnvFileFlag)
	if err != nil {
		return err
	}
	eng := buildEngine(cfg, envs, sendSimulateFlag)

	var req *request.Request
	kind := descriptor.Kind("manual")
	key := "manual"

	if len(args) == 1 {
		d, err := loadArtifact(args[0], sendKindFlag)
		if err != nil {
			return err
		}
		if sendOpFlag < 0 || sendOpFlag >= len(d.Operations) {
			return fmt.Errorf("artifact has %d operations, --op %d is out of range", len(d.Operations), sendOpFlag)
		}
		req = request.Seed(d.Operations[sendOpFlag])
		kind = d.Kind
		key = repoKey(args[0])
	} else {
		if sendURLFlag == "" {
			return fmt.Errorf("either an artifact or --url is required")
		}
		req = request.New("GET", "")
	}

	// Manual edits win over the seeded values, verbatim.
	if sendMethodFlag != "" {
		req.Method = strings.ToUpper(sendMethodFlag)
	}
	if sendURLFlag != "" {
		req.URL = sendURLFlag
	}
	if sendBodyFlag != "" {
		req.SetBody(sendBodyFlag)
	}
	for _, h := range sendHeaderFlags {
		parts := strings.SplitN(h, ":", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid header %q, want \"key: value\"", h)
		}
		req.SetHeader(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]))
	}

	res := eng.Execute(cmd.Context(), req)

	store, closeStore, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	_ = store.Append(key, history.NewEntry(kind, res))

	if sendJSONFlag {
		return output.NewJSONFormatter(cmd.OutOrStdout()).FormatExecution(res)
	}
	formatter := output.NewConsoleFormatter(
		output.WithWriter(cmd.OutOrStdout()),
		output.WithVerbose(sendVerboseFlag),
		output.WithNoColor(cfg.GetNoColor()),
	)
	formatter.FormatExecution(res)
	return nil
}

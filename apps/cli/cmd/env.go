package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var (
	envConfigFlag  string
	envFileFlag    string
	envCurrentFlag string
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Inspect configured environments",
}

var envListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured environments",
	RunE:  envListCommand,
}

var envShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show an environment's variables (default: the current one)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  envShowCommand,
}

func init() {
	envCmd.PersistentFlags().StringVar(&envConfigFlag, "config", getEnvString("APIPROBE_CONFIG", ""), "Path to config file (env: APIPROBE_CONFIG)")
	envCmd.PersistentFlags().StringVar(&envFileFlag, "env-file", "", "Path to .env file with variables")
	envCmd.PersistentFlags().StringVarP(&envCurrentFlag, "env", "e", getEnvString("APIPROBE_ENV", ""), "Environment to treat as current (env: APIPROBE_ENV)")
	envCmd.AddCommand(envListCmd)
	envCmd.AddCommand(envShowCmd)
}

func envListCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigFlag(envConfigFlag)
	if err != nil {
		return err
	}
	mgr, err := buildEnvironments(cfg, envCurrentFlag, envFileFlag)
	if err != nil {
		return err
	}

	names := mgr.List()
	if len(names) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no environments configured")
		return nil
	}

	current := mgr.Current()
	for _, name := range names {
		marker := " "
		if name == current {
			marker = "*"
		}
		e, _ := mgr.Get(name)
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d variables)\n", marker, name, len(e.Variables))
	}
	return nil
}

func envShowCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigFlag(envConfigFlag)
	if err != nil {
		return err
	}
	mgr, err := buildEnvironments(cfg, envCurrentFlag, envFileFlag)
	if err != nil {
		return err
	}

	name := mgr.Current()
	if len(args) == 1 {
		name = args[0]
	}
	if name == "" {
		return fmt.Errorf("no current environment; pass a name or --env")
	}

	e, ok := mgr.Get(name)
	if !ok {
		return fmt.Errorf("unknown environment %q", name)
	}

	keys := make([]string, 0, len(e.Variables))
	for k := range e.Variables {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(cmd.OutOrStdout(), "%s:\n", e.Name)
	for _, k := range keys {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s=%s\n", k, e.Variables[k])
	}
	return nil
}

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	historyConfigFlag string
	historyJSONFlag   bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect stored request history",
}

var historyListCmd = &cobra.Command{
	Use:   "list <artifact>",
	Short: "Show the most recent requests for an artifact, newest first",
	Args:  cobra.ExactArgs(1),
	RunE:  historyListCommand,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear <artifact>",
	Short: "Delete all stored history for an artifact",
	Args:  cobra.ExactArgs(1),
	RunE:  historyClearCommand,
}

func init() {
	historyCmd.PersistentFlags().StringVar(&historyConfigFlag, "config", getEnvString("APIPROBE_CONFIG", ""), "Path to config file (env: APIPROBE_CONFIG)")
	historyListCmd.Flags().BoolVar(&historyJSONFlag, "json", false, "Emit entries as JSON")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyClearCmd)
}

func historyListCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigFlag(historyConfigFlag)
	if err != nil {
		return err
	}
	store, closeStore, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	entries, err := store.List(repoKey(args[0]))
	if err != nil {
		return err
	}

	if historyJSONFlag {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no history")
		return nil
	}
	for _, e := range entries {
		status := fmt.Sprintf("%d", e.StatusCode)
		if e.Error != "" {
			status = "ERR"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %-4s %-7s %s  (%dms)\n",
			e.Timestamp.Format("2006-01-02 15:04:05"), status, e.Method, e.URL, e.DurationMs)
	}
	return nil
}

func historyClearCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigFlag(historyConfigFlag)
	if err != nil {
		return err
	}
	store, closeStore, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := store.Clear(repoKey(args[0])); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "history cleared")
	return nil
}

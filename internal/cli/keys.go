package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/crewboard/crewboard/internal/provider"
	"github.com/crewboard/crewboard/internal/store"
)

var (
	keysCmd = &cobra.Command{
		Use:   "keys",
		Short: "Manage per-user provider API keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	keysSetCmd = &cobra.Command{
		Use:   "set <user-id> <provider> <api-key>",
		Short: "Store and validate a user's provider key",
		Args:  cobra.ExactArgs(3),
		RunE:  runKeysSet,
	}

	keysListCmd = &cobra.Command{
		Use:   "list <user-id>",
		Short: "List a user's stored keys",
		Args:  cobra.ExactArgs(1),
		RunE:  runKeysList,
	}
)

func init() {
	keysCmd.AddCommand(keysSetCmd)
	keysCmd.AddCommand(keysListCmd)
	rootCmd.AddCommand(keysCmd)
}

func parseKind(s string) (provider.Kind, error) {
	switch provider.Kind(s) {
	case provider.KindAnthropic, provider.KindOpenAI:
		return provider.Kind(s), nil
	default:
		return "", fmt.Errorf("unknown provider %q (want %s or %s)", s, provider.KindAnthropic, provider.KindOpenAI)
	}
}

func runKeysSet(cmd *cobra.Command, args []string) error {
	userID := args[0]
	kind, err := parseKind(args[1])
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	rec, err := a.keys.Save(cmd.Context(), userID, kind, args[2])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	switch rec.Status {
	case store.KeyStatusValid:
		fmt.Fprintln(out, color.GreenString("key ...%s saved and validated", rec.Last4))
	case store.KeyStatusInvalid:
		fmt.Fprintln(out, color.RedString("key ...%s saved but rejected: %s", rec.Last4, rec.ErrorText))
	default:
		fmt.Fprintf(out, "key ...%s saved (status %s)\n", rec.Last4, rec.Status)
	}
	return nil
}

func runKeysList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	records, err := a.store.ListApiKeys(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, "No keys stored.")
		return nil
	}
	for _, k := range records {
		line := fmt.Sprintf("%-10s ...%s  %s", k.Provider, k.Last4, k.Status)
		if k.ErrorText != "" {
			line += "  (" + k.ErrorText + ")"
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

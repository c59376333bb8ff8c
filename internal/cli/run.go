package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/crewboard/crewboard/internal/store"
)

var (
	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Execute an agent against a task",
		RunE:  runRun,
	}

	cancelCmd = &cobra.Command{
		Use:   "cancel <run-id>",
		Short: "Cancel an active agent run",
		Args:  cobra.ExactArgs(1),
		RunE:  runCancel,
	}
)

func init() {
	runCmd.Flags().String("agent", "", "Agent name or ID")
	runCmd.Flags().String("task", "", "Task ID")
	runCmd.Flags().String("user", "", "User ID whose API key should be preferred")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(cancelCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	agentRef, _ := cmd.Flags().GetString("agent")
	taskID, _ := cmd.Flags().GetString("task")
	userID, _ := cmd.Flags().GetString("user")
	if agentRef == "" || taskID == "" {
		return fmt.Errorf("--agent and --task are required")
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	profile, err := a.store.GetAgent(agentRef)
	if err != nil {
		// Fall back to a name lookup so "crewboard run --agent Codex" works.
		profile, err = a.store.AgentByName(agentRef)
		if err != nil {
			return fmt.Errorf("agent %q not found", agentRef)
		}
	}

	res, err := a.runner.Run(cmd.Context(), profile.ID, taskID, userID)
	if err != nil {
		return err
	}
	if task, terr := a.store.GetTask(taskID); terr == nil {
		a.notifier.RunFinished(profile.Name, task, res)
	}

	out := cmd.OutOrStdout()
	switch res.Status {
	case store.RunStatusCompleted:
		fmt.Fprintln(out, color.GreenString("run %s completed", res.RunID))
		fmt.Fprintf(out, "tokens: %d in / %d out, cost: $%.4f\n", res.InputTokens, res.OutputTokens, res.CostUSD)
		fmt.Fprintln(out, res.Output)
	case store.RunStatusFailed:
		fmt.Fprintln(out, color.RedString("run %s failed: %s", res.RunID, res.Error))
	default:
		fmt.Fprintf(out, "run %s: %s\n", res.RunID, res.Status)
	}
	return nil
}

func runCancel(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.runner.Cancel(args[0]); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), color.YellowString("run %s cancelled", args[0]))
	return nil
}

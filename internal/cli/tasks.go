package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crewboard/crewboard/internal/store"
)

var (
	tasksCmd = &cobra.Command{
		Use:   "tasks",
		Short: "Inspect and move board tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	tasksAddCmd = &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		RunE:  runTasksAdd,
	}

	tasksMoveCmd = &cobra.Command{
		Use:   "move <task-id> <status>",
		Short: "Move a task to another column",
		Args:  cobra.ExactArgs(2),
		RunE:  runTasksMove,
	}

	tasksRunsCmd = &cobra.Command{
		Use:   "runs <task-id>",
		Short: "Show agent runs for a task",
		Args:  cobra.ExactArgs(1),
		RunE:  runTasksRuns,
	}
)

var taskStatuses = map[string]bool{
	store.TaskStatusBacklog:    true,
	store.TaskStatusTodo:       true,
	store.TaskStatusInProgress: true,
	store.TaskStatusReview:     true,
	store.TaskStatusDone:       true,
}

func init() {
	tasksAddCmd.Flags().String("project", "", "Project ID (a default project is created when omitted)")
	tasksAddCmd.Flags().String("description", "", "Task description")
	tasksAddCmd.Flags().String("assignee", "", "Assignee user ID")
	tasksCmd.AddCommand(tasksAddCmd)
	tasksCmd.AddCommand(tasksMoveCmd)
	tasksCmd.AddCommand(tasksRunsCmd)
	rootCmd.AddCommand(tasksCmd)
}

func runTasksAdd(cmd *cobra.Command, args []string) error {
	projectID, _ := cmd.Flags().GetString("project")
	description, _ := cmd.Flags().GetString("description")
	assignee, _ := cmd.Flags().GetString("assignee")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if projectID == "" {
		projectID, err = a.store.CreateProject("default")
		if err != nil {
			return err
		}
	}
	task := &store.Task{
		ProjectID:   projectID,
		Title:       args[0],
		Description: description,
		Status:      store.TaskStatusTodo,
		AssigneeID:  assignee,
	}
	if err := a.store.CreateTask(task); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created task %s\n", task.ID)
	return nil
}

func runTasksMove(cmd *cobra.Command, args []string) error {
	status := args[1]
	if !taskStatuses[status] {
		return fmt.Errorf("unknown status %q", status)
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.store.UpdateTaskStatus(args[0], status); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "task %s moved to %s\n", args[0], status)
	return nil
}

func runTasksRuns(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	runs, err := a.store.RunsForTask(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(out, "%s  %-10s  %d tokens  $%.4f  %s\n",
			r.ID, r.Status, r.TotalTokens, r.CostUSD, r.StartedAt.Format("2006-01-02 15:04:05"))
		if r.ErrorText != "" {
			fmt.Fprintf(out, "    error: %s\n", r.ErrorText)
		}
	}
	return nil
}

package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var (
	skillsCmd = &cobra.Command{
		Use:   "skills",
		Short: "Inspect loaded skills",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	skillsListCmd = &cobra.Command{
		Use:   "list",
		Short: "List available skills",
		RunE:  runSkillsList,
	}
)

func init() {
	skillsCmd.AddCommand(skillsListCmd)
	rootCmd.AddCommand(skillsCmd)
}

func runSkillsList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	list := a.skills.List()
	out := cmd.OutOrStdout()
	if len(list) == 0 {
		fmt.Fprintf(out, "No skills found under %s.\n", a.cfg.Paths.SkillsDir)
		return nil
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	for _, s := range list {
		fmt.Fprintf(out, "%-20s %s", s.ID, s.Name)
		if s.Description != "" {
			fmt.Fprintf(out, " - %s", s.Description)
		}
		fmt.Fprintln(out)
	}
	return nil
}

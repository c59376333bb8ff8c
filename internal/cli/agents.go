package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/crewboard/crewboard/internal/provider"
	"github.com/crewboard/crewboard/internal/store"
)

var (
	agentsCmd = &cobra.Command{
		Use:   "agents",
		Short: "Manage agent profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	agentsListCmd = &cobra.Command{
		Use:   "list",
		Short: "List agent profiles",
		RunE:  runAgentsList,
	}

	agentsAddCmd = &cobra.Command{
		Use:   "add <name>",
		Short: "Create an agent profile and its bot user",
		Args:  cobra.ExactArgs(1),
		RunE:  runAgentsAdd,
	}
)

func init() {
	agentsAddCmd.Flags().String("model", "claude-sonnet-4-20250514", "Model identifier")
	agentsAddCmd.Flags().String("prompt", "", "Base system prompt")
	agentsAddCmd.Flags().Float64("temperature", 0, "Sampling temperature (0 uses the configured default)")
	agentsAddCmd.Flags().Int("max-tokens", 0, "Max output tokens (0 uses the configured default)")
	agentsAddCmd.Flags().StringSlice("skills", nil, "Skill ids to inject")
	agentsAddCmd.Flags().StringSlice("tools", nil, "Permitted tool names")
	agentsCmd.AddCommand(agentsListCmd)
	agentsCmd.AddCommand(agentsAddCmd)
	rootCmd.AddCommand(agentsCmd)
}

func runAgentsList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	agents, err := a.store.ListAgents()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(agents) == 0 {
		fmt.Fprintln(out, "No agents configured.")
		return nil
	}
	for _, ag := range agents {
		state := color.GreenString("active")
		if !ag.Active {
			state = color.RedString("inactive")
		}
		fmt.Fprintf(out, "%s  %s  %s  [%s]\n", ag.ID, ag.Name, ag.Model, state)
		if len(ag.Tools) > 0 {
			fmt.Fprintf(out, "    tools: %s\n", strings.Join(ag.Tools, ", "))
		}
		if len(ag.Skills) > 0 {
			fmt.Fprintf(out, "    skills: %s\n", strings.Join(ag.Skills, ", "))
		}
	}
	return nil
}

func runAgentsAdd(cmd *cobra.Command, args []string) error {
	name := args[0]
	model, _ := cmd.Flags().GetString("model")
	prompt, _ := cmd.Flags().GetString("prompt")
	temperature, _ := cmd.Flags().GetFloat64("temperature")
	maxTokens, _ := cmd.Flags().GetInt("max-tokens")
	skillIDs, _ := cmd.Flags().GetStringSlice("skills")
	toolNames, _ := cmd.Flags().GetStringSlice("tools")

	if _, err := provider.ResolveKind(model); err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	profile := &store.AgentProfile{
		Name:         name,
		Model:        model,
		SystemPrompt: prompt,
		Temperature:  temperature,
		MaxTokens:    maxTokens,
		Skills:       skillIDs,
		Tools:        toolNames,
		Active:       true,
	}
	if err := a.store.CreateAgent(profile); err != nil {
		return err
	}
	// The bot user is what tasks get assigned to; its name links back to the
	// profile at trigger time.
	bot := &store.User{Name: name, IsBot: true}
	if err := a.store.CreateUser(bot); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created agent %s (%s) with bot user %s\n", profile.ID, name, bot.ID)
	return nil
}

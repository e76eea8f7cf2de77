package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/oksasatya/taskmaster/internal/dashboard"
	"github.com/oksasatya/taskmaster/internal/presenter"
)

// openDetail resolves the task id argument and opens it.
func (a *App) openDetail(cmd *cobra.Command, arg string) (*dashboard.Detail, error) {
	id, err := parseID(arg)
	if err != nil {
		return nil, err
	}
	c, err := a.controller(cmd.Context())
	if err != nil {
		return nil, err
	}
	return c.Open(id)
}

func subtasksCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subtasks",
		Aliases: []string{"sub"},
		Short:   "Manage a task's subtasks",
	}

	add := &cobra.Command{
		Use:   "add <task-id> <title>",
		Short: "Add a subtask",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.openDetail(cmd, args[0])
			if err != nil {
				return err
			}
			if _, err := d.AddSubtask(cmd.Context(), strings.Join(args[1:], " ")); err != nil {
				return err
			}
			presenter.Detail(a.Out, d, dashboard.TabDetails)
			return nil
		},
	}

	toggle := &cobra.Command{
		Use:   "toggle <task-id> <subtask-id>",
		Short: "Check or uncheck a subtask",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.openDetail(cmd, args[0])
			if err != nil {
				return err
			}
			sid, err := parseID(args[1])
			if err != nil {
				return err
			}
			if err := d.ToggleSubtask(cmd.Context(), sid); err != nil {
				return err
			}
			presenter.Detail(a.Out, d, dashboard.TabDetails)
			return nil
		},
	}

	del := &cobra.Command{
		Use:     "delete <task-id> <subtask-id>",
		Aliases: []string{"rm"},
		Short:   "Remove a subtask",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.openDetail(cmd, args[0])
			if err != nil {
				return err
			}
			sid, err := parseID(args[1])
			if err != nil {
				return err
			}
			if err := d.DeleteSubtask(cmd.Context(), sid); err != nil {
				return err
			}
			presenter.Detail(a.Out, d, dashboard.TabDetails)
			return nil
		},
	}

	cmd.AddCommand(add, toggle, del)
	return cmd
}

func rewardCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reward",
		Short: "Set or redeem a task's reward",
	}

	set := &cobra.Command{
		Use:   "set <task-id> <reward>",
		Short: "Set the reward for a pending task",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.openDetail(cmd, args[0])
			if err != nil {
				return err
			}
			if err := d.SetReward(cmd.Context(), strings.Join(args[1:], " ")); err != nil {
				return err
			}
			presenter.Detail(a.Out, d, dashboard.TabReward)
			return nil
		},
	}

	take := &cobra.Command{
		Use:   "take <task-id>",
		Short: "Mark the reward of a completed task as taken (or not)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.openDetail(cmd, args[0])
			if err != nil {
				return err
			}
			if err := d.ToggleRewardTaken(cmd.Context()); err != nil {
				return err
			}
			presenter.Detail(a.Out, d, dashboard.TabReward)
			return nil
		},
	}

	cmd.AddCommand(set, take)
	return cmd
}

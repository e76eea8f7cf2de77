package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oksasatya/taskmaster/internal/dashboard"
	"github.com/oksasatya/taskmaster/internal/presenter"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func tasksCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"t"},
		Short:   "Manage your tasks",
	}
	cmd.AddCommand(
		listCmd(a),
		addCmd(a),
		toggleCmd(a),
		deleteCmd(a),
		showCmd(a),
		editCmd(a),
		importantCmd(a),
	)
	return cmd
}

func listCmd(a *App) *cobra.Command {
	var filter, sortBy string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks through a filter and sort",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := dashboard.ParseFilter(filter)
			if err != nil {
				return err
			}
			mode, err := dashboard.ParseSort(sortBy)
			if err != nil {
				return err
			}
			c, err := a.controller(cmd.Context())
			if err != nil {
				return err
			}
			presenter.Header(a.Out, c.Username(), c.Counts(), f)
			presenter.TaskList(a.Out, c.View(f, mode))
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "all", "all, important, pending or completed")
	cmd.Flags().StringVarP(&sortBy, "sort", "s", "date", "date, alpha or color")
	return cmd
}

func addCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.controller(cmd.Context())
			if err != nil {
				return err
			}
			t, err := c.Add(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(a.Out, presenter.TaskLine(t))
			return nil
		},
	}
}

func toggleCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Mark a task done or pending",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := a.controller(cmd.Context())
			if err != nil {
				return err
			}
			t, err := c.Toggle(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.Out, presenter.TaskLine(t))
			if t.Completed {
				fmt.Fprintln(a.Out)
				presenter.Reward(a.Out, t)
			}
			return nil
		},
	}
}

func deleteCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := a.controller(cmd.Context())
			if err != nil {
				return err
			}
			if err := c.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(a.Out, "Deleted #%d\n", id)
			return nil
		},
	}
}

func showCmd(a *App) *cobra.Command {
	var tab string
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a task's details or reward",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := a.controller(cmd.Context())
			if err != nil {
				return err
			}
			d, err := c.Open(id)
			if err != nil {
				return err
			}
			presenter.Detail(a.Out, d, dashboard.Tab(strings.ToLower(tab)))
			return nil
		},
	}
	cmd.Flags().StringVar(&tab, "tab", string(dashboard.TabDetails), "details or reward")
	return cmd
}

func editCmd(a *App) *cobra.Command {
	var title, description string
	var important bool
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit title, description or importance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := a.controller(cmd.Context())
			if err != nil {
				return err
			}
			d, err := c.Open(id)
			if err != nil {
				return err
			}
			f := cmd.Flags()
			if f.Changed("title") {
				d.Title = title
			}
			if f.Changed("description") {
				d.Description = description
			}
			if f.Changed("important") {
				d.Important = important
			}
			if !d.Dirty() {
				fmt.Fprintln(a.Out, "Nothing to change.")
				return nil
			}
			if err := d.Save(cmd.Context()); err != nil {
				return err
			}
			presenter.Detail(a.Out, d, dashboard.TabDetails)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().BoolVar(&important, "important", false, "mark as important")
	return cmd
}

func importantCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "important <id>",
		Short: "Flip a task's importance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := a.controller(cmd.Context())
			if err != nil {
				return err
			}
			d, err := c.Open(id)
			if err != nil {
				return err
			}
			d.Important = !d.Important
			if err := d.Save(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(a.Out, presenter.TaskLine(d.Task()))
			return nil
		},
	}
}

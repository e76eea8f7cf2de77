// Package presenter renders tasks and forms as plain text for the terminal client.
package presenter

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/oksasatya/taskmaster/internal/client"
	"github.com/oksasatya/taskmaster/internal/dashboard"
	"github.com/oksasatya/taskmaster/internal/domain/entity"
	"github.com/oksasatya/taskmaster/pkg/validation"
)

const (
	EmptyList         = "No tasks yet. Add one above!"
	NoDescription     = "No specific details provided for this task."
	RewardUnlocked    = "Reward Unlocked!"
	DefaultReward     = "Well done! Take a break."
	RewardPrompt      = "Set a reward for yourself when you finish this task:"
	RewardPlaceholder = "e.g., Watch an episode, Eat a cookie..."
)

// TimeLayout formats createdAt in the detail view.
var TimeLayout = "2006-01-02 15:04"

func marker(p entity.Priority) string {
	switch p {
	case entity.PriorityImportant:
		return "!"
	case entity.PriorityCompleted:
		return "✓"
	default:
		return "·"
	}
}

// TaskLine renders one list item: priority marker, checkbox, title, subtask
// progress and the id used by the other commands.
func TaskLine(t entity.Task) string {
	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s", marker(t.Priority()), check, t.Title)
	if done, total := t.SubtaskProgress(); total > 0 {
		fmt.Fprintf(&b, " (%d/%d)", done, total)
	}
	if t.Reward != "" && !t.Completed {
		b.WriteString(" 🎁")
	}
	fmt.Fprintf(&b, "  #%d", t.ID)
	return b.String()
}

// Header is the dashboard title line with the filter badges.
func Header(w io.Writer, username string, counts dashboard.Counts, active dashboard.Filter) {
	fmt.Fprintf(w, "TaskMaster · Welcome, %s\n", username)
	parts := make([]string, 0, len(dashboard.Filters))
	for _, f := range dashboard.Filters {
		label := fmt.Sprintf("%s (%d)", f, counts.Of(f))
		if f == active {
			label = "[" + label + "]"
		}
		parts = append(parts, label)
	}
	fmt.Fprintln(w, strings.Join(parts, "  "))
}

// TaskList renders the derived view or the empty state.
func TaskList(w io.Writer, tasks []entity.Task) {
	fmt.Fprintln(w, "Your Tasks")
	if len(tasks) == 0 {
		fmt.Fprintln(w, "  "+EmptyList)
		return
	}
	for _, t := range tasks {
		fmt.Fprintln(w, "  "+TaskLine(t))
	}
}

func status(t entity.Task) string {
	if t.Completed {
		return "Completed"
	}
	return "Pending"
}

// Detail renders the open task on the given tab.
func Detail(w io.Writer, d *dashboard.Detail, tab dashboard.Tab) {
	t := d.Task()
	title := t.Title
	if t.Important && !t.Completed {
		title = "! " + title
	}
	fmt.Fprintf(w, "%s  [%s]  #%d\n", title, status(t), t.ID)
	if tab == dashboard.TabReward {
		fmt.Fprintln(w, "Details | *Reward*")
		Reward(w, t)
		return
	}
	fmt.Fprintln(w, "*Details* | Reward")
	fmt.Fprintf(w, "Created: %s\n", time.UnixMilli(t.CreatedAt).Format(TimeLayout))
	desc := t.Description
	if strings.TrimSpace(desc) == "" {
		desc = NoDescription
	}
	fmt.Fprintln(w, desc)
	if len(t.Subtasks) > 0 {
		done, total := t.SubtaskProgress()
		fmt.Fprintf(w, "Subtasks (%d/%d)\n", done, total)
		for _, s := range t.Subtasks {
			check := "[ ]"
			if s.Completed {
				check = "[x]"
			}
			fmt.Fprintf(w, "  %s %s  #%d\n", check, s.Title, s.ID)
		}
	}
	if d.Err != "" {
		fmt.Fprintln(w, FormError(errors.New(d.Err)))
	}
}

// Reward renders the locked edit form or the reveal view.
func Reward(w io.Writer, t entity.Task) {
	if !t.Completed {
		fmt.Fprintln(w, RewardPrompt)
		if t.Reward != "" {
			fmt.Fprintf(w, "  %s\n", t.Reward)
		} else {
			fmt.Fprintf(w, "  (%s)\n", RewardPlaceholder)
		}
		return
	}
	fmt.Fprintln(w, "🏆 "+RewardUnlocked)
	reward := t.Reward
	if reward == "" {
		reward = DefaultReward
	}
	fmt.Fprintln(w, "  "+reward)
	taken := "[ ]"
	if t.RewardTaken {
		taken = "[x]"
	}
	fmt.Fprintf(w, "  %s Reward taken\n", taken)
}

// FormError is the inline error line under an auth or task form.
func FormError(err error) string {
	if err == nil {
		return ""
	}
	var ne *client.NetworkError
	if errors.As(err, &ne) {
		return "Error: Unable to reach the server. Please try again."
	}
	if re, ok := validation.AsRuleError(err); ok {
		return "Error: " + re.Message
	}
	return "Error: " + err.Error()
}

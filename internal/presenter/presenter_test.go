package presenter

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/oksasatya/taskmaster/internal/client"
	"github.com/oksasatya/taskmaster/internal/dashboard"
	"github.com/oksasatya/taskmaster/internal/domain/entity"
	"github.com/oksasatya/taskmaster/pkg/storage"
	"github.com/oksasatya/taskmaster/pkg/validation"
)

func TestTaskLine(t *testing.T) {
	cases := []struct {
		name string
		task entity.Task
		want string
	}{
		{"plain", entity.Task{ID: 7, Title: "Buy milk"}, "· [ ] Buy milk  #7"},
		{"important", entity.Task{ID: 8, Title: "Pay rent", Important: true}, "! [ ] Pay rent  #8"},
		{"completed wins", entity.Task{ID: 9, Title: "Done", Important: true, Completed: true}, "✓ [x] Done  #9"},
		{"subtasks", entity.Task{ID: 10, Title: "Trip", Subtasks: []entity.Subtask{{ID: 1, Completed: true}, {ID: 2}}}, "· [ ] Trip (1/2)  #10"},
		{"pending reward", entity.Task{ID: 11, Title: "Run", Reward: "cake"}, "· [ ] Run 🎁  #11"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := TaskLine(tc.task); got != tc.want {
				t.Errorf("Expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestTaskListEmptyState(t *testing.T) {
	var buf bytes.Buffer
	TaskList(&buf, nil)
	if !strings.Contains(buf.String(), EmptyList) {
		t.Errorf("Expected empty state, got %q", buf.String())
	}
}

func TestHeaderMarksActiveFilter(t *testing.T) {
	var buf bytes.Buffer
	Header(&buf, "alice", dashboard.Counts{All: 3, Important: 1, Pending: 2, Completed: 1}, dashboard.FilterPending)
	out := buf.String()
	if !strings.Contains(out, "Welcome, alice") || !strings.Contains(out, "[pending (2)]") || !strings.Contains(out, "all (3)") {
		t.Errorf("Unexpected header %q", out)
	}
}

func TestDetailAndReward(t *testing.T) {
	ctx := context.Background()
	c := dashboard.NewController(ctx, dashboard.NewTaskStore(storage.NewMemory(), nil), "alice")
	task, err := c.Add(ctx, "Run 5k")
	if err != nil {
		t.Fatal(err)
	}
	d, _ := c.Open(task.ID)

	var buf bytes.Buffer
	Detail(&buf, d, dashboard.TabDetails)
	if !strings.Contains(buf.String(), NoDescription) || !strings.Contains(buf.String(), "[Pending]") {
		t.Errorf("Unexpected details view %q", buf.String())
	}

	buf.Reset()
	Detail(&buf, d, dashboard.TabReward)
	if !strings.Contains(buf.String(), RewardPrompt) {
		t.Errorf("Expected the reward form, got %q", buf.String())
	}

	if _, err := c.Toggle(ctx, task.ID); err != nil {
		t.Fatal(err)
	}
	buf.Reset()
	Detail(&buf, d, dashboard.TabReward)
	out := buf.String()
	if !strings.Contains(out, RewardUnlocked) || !strings.Contains(out, DefaultReward) || !strings.Contains(out, "[ ] Reward taken") {
		t.Errorf("Expected the reveal view, got %q", out)
	}
}

func TestFormError(t *testing.T) {
	if FormError(nil) != "" {
		t.Error("Expected no line for nil")
	}
	rule := validation.First(validation.RegisterForm{Username: "ab"}, validation.ClientRegisterRules)
	if got := FormError(rule); got != "Error: Username must be at least 3 characters long" {
		t.Errorf("Unexpected %q", got)
	}
	if got := FormError(&client.NetworkError{Op: "POST", Err: errors.New("refused")}); !strings.Contains(got, "Unable to reach the server") {
		t.Errorf("Unexpected %q", got)
	}
	if got := FormError(&client.APIError{Status: 401, Message: "Invalid credentials"}); got != "Error: Invalid credentials" {
		t.Errorf("Unexpected %q", got)
	}
}

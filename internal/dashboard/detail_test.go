package dashboard

import (
	"context"
	"errors"
	"testing"
)

func TestDetailEditBuffer(t *testing.T) {
	c, store := newController(t)
	ctx := context.Background()
	task, _ := c.Add(ctx, "Write report")

	d, err := c.Open(task.ID)
	if err != nil {
		t.Fatal(err)
	}
	d.Title = "Write quarterly report"
	d.Description = "numbers from finance"
	d.Important = true
	if got, _ := c.Get(task.ID); got.Title != "Write report" {
		t.Fatal("Buffer edits must not reach the collection before Save")
	}
	if !d.Dirty() {
		t.Error("Expected a dirty buffer")
	}

	if err := d.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}
	stored := store.Load(ctx, "alice")[0]
	if stored.Title != "Write quarterly report" || stored.Description != "numbers from finance" || !stored.Important {
		t.Errorf("Unexpected stored task %+v", stored)
	}

	d.Title = "   "
	if err := d.Save(ctx); !errors.Is(err, ErrBlankTitle) {
		t.Fatalf("Expected ErrBlankTitle, got %v", err)
	}
	if d.Err != "Title cannot be empty" {
		t.Errorf("Expected inline error, got %q", d.Err)
	}
	if got, _ := c.Get(task.ID); got.Title != "Write quarterly report" {
		t.Error("A blank title must not be persisted")
	}

	d.Reset()
	if d.Title != "Write quarterly report" || d.Err != "" {
		t.Errorf("Expected Reset to restore the buffer, got %q %q", d.Title, d.Err)
	}
}

func TestDetailToggleRefreshesCopyButKeepsBuffer(t *testing.T) {
	c, _ := newController(t)
	ctx := context.Background()
	task, _ := c.Add(ctx, "t")
	d, _ := c.Open(task.ID)
	d.Title = "unsaved"

	if _, err := c.Toggle(ctx, task.ID); err != nil {
		t.Fatal(err)
	}
	if !d.Task().Completed {
		t.Error("Expected open detail to see the toggle")
	}
	if d.Title != "unsaved" {
		t.Error("Expected unsaved edits to survive a toggle")
	}
}

func TestSubtasksCommitImmediately(t *testing.T) {
	c, store := newController(t)
	ctx := context.Background()
	task, _ := c.Add(ctx, "Move house")
	d, _ := c.Open(task.ID)
	d.Title = "unsaved title"

	s1, err := d.AddSubtask(ctx, "Pack books")
	if err != nil {
		t.Fatal(err)
	}
	s2, _ := d.AddSubtask(ctx, "Book van")
	if s1.ID == s2.ID {
		t.Fatal("Expected distinct subtask ids")
	}
	if _, err := d.AddSubtask(ctx, " "); !errors.Is(err, ErrBlankTitle) {
		t.Errorf("Expected ErrBlankTitle, got %v", err)
	}
	if err := d.ToggleSubtask(ctx, s1.ID); err != nil {
		t.Fatal(err)
	}

	stored := store.Load(ctx, "alice")[0]
	if stored.Title != "Move house" {
		t.Error("Subtask commits must not flush the edit buffer")
	}
	if done, total := stored.SubtaskProgress(); done != 1 || total != 2 {
		t.Errorf("Expected 1/2, got %d/%d", done, total)
	}

	if err := d.DeleteSubtask(ctx, s1.ID); err != nil {
		t.Fatal(err)
	}
	if err := d.DeleteSubtask(ctx, s1.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Expected ErrTaskNotFound, got %v", err)
	}
	stored = store.Load(ctx, "alice")[0]
	if len(stored.Subtasks) != 1 || stored.Subtasks[0].Title != "Book van" {
		t.Errorf("Unexpected subtasks %+v", stored.Subtasks)
	}
}

func TestRewardPanel(t *testing.T) {
	c, _ := newController(t)
	ctx := context.Background()
	task, _ := c.Add(ctx, "Run 5k")
	d, _ := c.Open(task.ID)

	if d.RewardUnlocked() {
		t.Fatal("Reward must be locked while pending")
	}
	if err := d.ToggleRewardTaken(ctx); !errors.Is(err, ErrRewardLocked) {
		t.Errorf("Expected ErrRewardLocked, got %v", err)
	}
	if err := d.SetReward(ctx, "Ice cream"); err != nil {
		t.Fatal(err)
	}

	if _, err := c.Toggle(ctx, task.ID); err != nil {
		t.Fatal(err)
	}
	if !d.RewardUnlocked() {
		t.Fatal("Expected the reveal view after completion")
	}
	if err := d.SetReward(ctx, "Cake"); !errors.Is(err, ErrRewardRevealed) {
		t.Errorf("Expected ErrRewardRevealed, got %v", err)
	}
	if err := d.ToggleRewardTaken(ctx); err != nil {
		t.Fatal(err)
	}
	got, _ := c.Get(task.ID)
	if got.Reward != "Ice cream" || !got.RewardTaken {
		t.Errorf("Unexpected reward state %+v", got)
	}
}

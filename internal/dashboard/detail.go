package dashboard

import (
	"context"
	"strings"

	"github.com/oksasatya/taskmaster/internal/domain/entity"
	"github.com/oksasatya/taskmaster/pkg/validation"
)

type Tab string

const (
	TabDetails Tab = "details"
	TabReward  Tab = "reward"
)

// Detail is the open task editor. Title, Description and Important form an edit
// buffer that only reaches the collection on Save; subtask and reward changes
// commit at once.
type Detail struct {
	c    *Controller
	task entity.Task

	Tab         Tab
	Title       string
	Description string
	Important   bool
	// Err is the inline error of the last failed Save.
	Err string
}

func newDetail(c *Controller, t entity.Task) *Detail {
	d := &Detail{c: c, Tab: TabDetails}
	d.task = t
	d.Reset()
	return d
}

// Task returns the committed task.
func (d *Detail) Task() entity.Task { return d.task.Clone() }

// Reset discards the edit buffer.
func (d *Detail) Reset() {
	d.Title = d.task.Title
	d.Description = d.task.Description
	d.Important = d.task.Important
	d.Err = ""
}

func (d *Detail) Dirty() bool {
	return d.Title != d.task.Title || d.Description != d.task.Description || d.Important != d.task.Important
}

// Save commits the edit buffer. A blank title sets Err and persists nothing.
func (d *Detail) Save(ctx context.Context) error {
	if err := validation.First(d.Title, validation.TitleRules); err != nil {
		d.Err = err.Error()
		return ErrBlankTitle
	}
	t := d.task.Clone()
	t.Title = strings.TrimSpace(d.Title)
	t.Description = d.Description
	t.Important = d.Important
	if err := d.commit(ctx, t); err != nil {
		d.Err = err.Error()
		return err
	}
	d.Reset()
	return nil
}

func (d *Detail) AddSubtask(ctx context.Context, title string) (entity.Subtask, error) {
	if validation.First(title, validation.TitleRules) != nil {
		return entity.Subtask{}, ErrBlankTitle
	}
	t := d.task.Clone()
	id := d.c.now().UnixMilli()
	for subtaskIndex(t.Subtasks, id) >= 0 {
		id++
	}
	s := entity.Subtask{ID: id, Title: strings.TrimSpace(title)}
	t.Subtasks = append(t.Subtasks, s)
	if err := d.commit(ctx, t); err != nil {
		return entity.Subtask{}, err
	}
	return s, nil
}

func (d *Detail) ToggleSubtask(ctx context.Context, id int64) error {
	t := d.task.Clone()
	i := subtaskIndex(t.Subtasks, id)
	if i < 0 {
		return ErrTaskNotFound
	}
	t.Subtasks[i].Completed = !t.Subtasks[i].Completed
	return d.commit(ctx, t)
}

func (d *Detail) DeleteSubtask(ctx context.Context, id int64) error {
	t := d.task.Clone()
	i := subtaskIndex(t.Subtasks, id)
	if i < 0 {
		return ErrTaskNotFound
	}
	t.Subtasks = append(t.Subtasks[:i], t.Subtasks[i+1:]...)
	return d.commit(ctx, t)
}

// RewardUnlocked reports whether the reward panel shows the reveal view.
func (d *Detail) RewardUnlocked() bool { return d.task.Completed }

// SetReward edits the reward while the task is pending.
func (d *Detail) SetReward(ctx context.Context, text string) error {
	if d.task.Completed {
		return ErrRewardRevealed
	}
	t := d.task.Clone()
	t.Reward = text
	return d.commit(ctx, t)
}

// ToggleRewardTaken flips rewardTaken on a completed task.
func (d *Detail) ToggleRewardTaken(ctx context.Context) error {
	if !d.task.Completed {
		return ErrRewardLocked
	}
	t := d.task.Clone()
	t.RewardTaken = !t.RewardTaken
	return d.commit(ctx, t)
}

func (d *Detail) commit(ctx context.Context, t entity.Task) error {
	if err := d.c.Update(ctx, t); err != nil {
		return err
	}
	d.task = t.Clone()
	return nil
}

// refresh swaps in the committed task after a controller write, leaving
// unsaved buffer edits alone.
func (d *Detail) refresh(t entity.Task) { d.task = t }

func subtaskIndex(subs []entity.Subtask, id int64) int {
	for i := range subs {
		if subs[i].ID == id {
			return i
		}
	}
	return -1
}

// Package dashboard owns a user's task collection: mutations, the derived
// filter/sort view, and the task detail editor.
package dashboard

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/oksasatya/taskmaster/internal/domain/entity"
	"github.com/oksasatya/taskmaster/pkg/validation"
)

var (
	ErrBlankTitle     = errors.New("Title cannot be empty")
	ErrTaskNotFound   = errors.New("task not found")
	ErrNoTaskOpen     = errors.New("no task is open")
	ErrRewardLocked   = errors.New("reward is locked until the task is completed")
	ErrRewardRevealed = errors.New("reward can no longer be edited once the task is completed")
)

// Controller holds the in-memory collection and mirrors it to the TaskStore after
// every mutation. A failed write leaves the in-memory state untouched.
type Controller struct {
	store    *TaskStore
	username string
	tasks    []entity.Task
	selected *Detail
	now      func() time.Time
}

type Option func(*Controller)

// WithClock replaces time.Now, which drives ids and createdAt.
func WithClock(now func() time.Time) Option { return func(c *Controller) { c.now = now } }

func NewController(ctx context.Context, store *TaskStore, username string, opts ...Option) *Controller {
	c := &Controller{store: store, username: username, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	c.tasks = store.Load(ctx, username)
	return c
}

func (c *Controller) Username() string { return c.username }

// Tasks returns a copy of the collection in stored order.
func (c *Controller) Tasks() []entity.Task {
	out := make([]entity.Task, len(c.tasks))
	for i, t := range c.tasks {
		out[i] = t.Clone()
	}
	return out
}

func (c *Controller) Get(id int64) (entity.Task, bool) {
	i := c.index(id)
	if i < 0 {
		return entity.Task{}, false
	}
	return c.tasks[i].Clone(), true
}

func (c *Controller) View(f Filter, mode SortMode) []entity.Task { return Derive(c.tasks, f, mode) }

func (c *Controller) Counts() Counts { return CountTasks(c.tasks) }

// Add prepends a new pending task.
func (c *Controller) Add(ctx context.Context, title string) (entity.Task, error) {
	if validation.First(title, validation.TitleRules) != nil {
		return entity.Task{}, ErrBlankTitle
	}
	now := c.now().UnixMilli()
	t := entity.Task{
		ID:        c.nextID(now),
		Title:     strings.TrimSpace(title),
		Subtasks:  []entity.Subtask{},
		CreatedAt: now,
	}
	next := make([]entity.Task, 0, len(c.tasks)+1)
	next = append(next, t)
	next = append(next, c.tasks...)
	if err := c.commit(ctx, next); err != nil {
		return entity.Task{}, err
	}
	return t.Clone(), nil
}

func (c *Controller) Toggle(ctx context.Context, id int64) (entity.Task, error) {
	i := c.index(id)
	if i < 0 {
		return entity.Task{}, ErrTaskNotFound
	}
	t := c.tasks[i].Clone()
	t.Completed = !t.Completed
	return t, c.replace(ctx, i, t)
}

func (c *Controller) Delete(ctx context.Context, id int64) error {
	i := c.index(id)
	if i < 0 {
		return ErrTaskNotFound
	}
	next := make([]entity.Task, 0, len(c.tasks)-1)
	next = append(next, c.tasks[:i]...)
	next = append(next, c.tasks[i+1:]...)
	if err := c.commit(ctx, next); err != nil {
		return err
	}
	if c.selected != nil && c.selected.task.ID == id {
		c.selected = nil
	}
	return nil
}

// Update swaps in a full replacement for the task with the same id.
func (c *Controller) Update(ctx context.Context, t entity.Task) error {
	i := c.index(t.ID)
	if i < 0 {
		return ErrTaskNotFound
	}
	if validation.First(t.Title, validation.TitleRules) != nil {
		return ErrBlankTitle
	}
	return c.replace(ctx, i, t.Clone())
}

// Open starts a detail view on the task; any previous one is closed.
func (c *Controller) Open(id int64) (*Detail, error) {
	i := c.index(id)
	if i < 0 {
		return nil, ErrTaskNotFound
	}
	c.selected = newDetail(c, c.tasks[i].Clone())
	return c.selected, nil
}

func (c *Controller) Close() { c.selected = nil }

func (c *Controller) Selected() *Detail { return c.selected }

func (c *Controller) replace(ctx context.Context, i int, t entity.Task) error {
	next := make([]entity.Task, len(c.tasks))
	copy(next, c.tasks)
	next[i] = t
	if err := c.commit(ctx, next); err != nil {
		return err
	}
	if c.selected != nil && c.selected.task.ID == t.ID {
		c.selected.refresh(t.Clone())
	}
	return nil
}

func (c *Controller) commit(ctx context.Context, next []entity.Task) error {
	if err := c.store.Save(ctx, c.username, next); err != nil {
		c.store.Logger.WithError(err).WithField("username", c.username).Error("save tasks failed")
		return err
	}
	c.tasks = next
	return nil
}

func (c *Controller) index(id int64) int {
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// nextID uses the creation timestamp unless another task already holds it.
func (c *Controller) nextID(now int64) int64 {
	id := now
	for c.index(id) >= 0 {
		id++
	}
	return id
}

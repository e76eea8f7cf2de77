package dashboard

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/taskmaster/internal/domain/entity"
	"github.com/oksasatya/taskmaster/pkg/helpers"
	"github.com/oksasatya/taskmaster/pkg/storage"
)

const keyPrefix = "taskApp_tasks_"

// Key is the storage key of a user's task collection. Users are told apart by
// username only.
func Key(username string) string { return keyPrefix + username }

// TaskStore reads and writes a user's whole task collection as one JSON document.
type TaskStore struct {
	Storage storage.Storage
	Logger  *logrus.Logger
}

func NewTaskStore(s storage.Storage, logger *logrus.Logger) *TaskStore {
	if logger == nil {
		logger = helpers.NewDiscardLogger()
	}
	return &TaskStore{Storage: s, Logger: logger}
}

// Load returns the stored collection. Missing or unreadable data yields an empty
// collection; the cause is logged.
func (s *TaskStore) Load(ctx context.Context, username string) []entity.Task {
	raw, ok, err := s.Storage.Get(ctx, Key(username))
	if err != nil {
		s.Logger.WithError(err).WithField("username", username).Warn("load tasks failed")
		return []entity.Task{}
	}
	if !ok || raw == "" {
		return []entity.Task{}
	}
	var tasks []entity.Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		s.Logger.WithError(err).WithField("username", username).Warn("stored tasks are not valid JSON")
		return []entity.Task{}
	}
	for i := range tasks {
		if tasks[i].Subtasks == nil {
			tasks[i].Subtasks = []entity.Subtask{}
		}
	}
	return tasks
}

// Save overwrites the whole collection.
func (s *TaskStore) Save(ctx context.Context, username string, tasks []entity.Task) error {
	if tasks == nil {
		tasks = []entity.Task{}
	}
	raw, err := json.Marshal(tasks)
	if err != nil {
		return err
	}
	return s.Storage.Set(ctx, Key(username), string(raw))
}

package entity

// Task is a client-owned unit of work. Tasks never reach the server; they are
// persisted as a whole collection in the client key-value store.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	Important   bool      `json:"important"`
	Reward      string    `json:"reward"`
	RewardTaken bool      `json:"rewardTaken"`
	Subtasks    []Subtask `json:"subtasks"`
	CreatedAt   int64     `json:"createdAt"` // epoch milliseconds
}

type Subtask struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Priority is the visual tier of a task: completed wins over important.
type Priority int

const (
	PriorityImportant Priority = 1
	PriorityNormal    Priority = 2
	PriorityCompleted Priority = 3
)

func (p Priority) String() string {
	switch p {
	case PriorityImportant:
		return "important"
	case PriorityCompleted:
		return "completed"
	default:
		return "normal"
	}
}

// Priority returns the weight used by the color sort.
func (t Task) Priority() Priority {
	switch {
	case t.Completed:
		return PriorityCompleted
	case t.Important:
		return PriorityImportant
	default:
		return PriorityNormal
	}
}

// Clone returns a deep copy so callers can edit subtasks without aliasing.
func (t Task) Clone() Task {
	c := t
	if t.Subtasks != nil {
		c.Subtasks = make([]Subtask, len(t.Subtasks))
		copy(c.Subtasks, t.Subtasks)
	} else {
		c.Subtasks = []Subtask{}
	}
	return c
}

// SubtaskProgress returns completed and total subtask counts.
func (t Task) SubtaskProgress() (done, total int) {
	for _, s := range t.Subtasks {
		if s.Completed {
			done++
		}
	}
	return done, len(t.Subtasks)
}

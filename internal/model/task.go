package model

// Task is a concrete unit of work. Lifecycle: Open -> InProgress -> Done
// (or Blocked).
type Task struct {
	EntityBase
	Status      TaskStatus `json:"status" validate:"required"`
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
}

func (t *Task) CurrentStatus() string { return string(t.Status) }

func (t *Task) EntityStatus() string { return string(t.Status) }

func (t *Task) SearchText() string { return t.Title + " " + t.Description }

func (t *Task) CanTransitionTo(next string) bool {
	return t.Status.CanTransitionTo(next)
}

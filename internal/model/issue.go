package model

// Issue records a known problem (bug, regression, design flaw) surfaced
// during research or indexing. Shares the ResearchStatus lifecycle: Open ->
// InProgress -> Resolved (or Blocked).
type Issue struct {
	EntityBase
	Status      ResearchStatus `json:"status" validate:"required"`
	Title       string         `json:"title" validate:"required"`
	Description string         `json:"description"`
	Severity    string         `json:"severity,omitempty" validate:"omitempty,oneof=low medium high critical"`
	Tags        []string       `json:"tags,omitempty"`
}

func (i *Issue) CurrentStatus() string { return string(i.Status) }

func (i *Issue) EntityStatus() string { return string(i.Status) }

func (i *Issue) SearchText() string { return i.Title + " " + i.Description }

func (i *Issue) CanTransitionTo(next string) bool {
	return i.Status.CanTransitionTo(next)
}

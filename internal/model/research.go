package model

// ResearchItem records a unit of open-ended investigation (a question being
// chased down), distinct from a Finding (an answer recorded) or a Task (work
// to be done). Lifecycle: Open -> InProgress -> Resolved (or Blocked).
type ResearchItem struct {
	EntityBase
	Status      ResearchStatus `json:"status" validate:"required"`
	Title       string         `json:"title" validate:"required"`
	Question    string         `json:"question" validate:"required"`
	Conclusion  string         `json:"conclusion,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
}

func (r *ResearchItem) CurrentStatus() string { return string(r.Status) }

func (r *ResearchItem) EntityStatus() string { return string(r.Status) }

func (r *ResearchItem) SearchText() string {
	return r.Title + " " + r.Question + " " + r.Conclusion
}

func (r *ResearchItem) CanTransitionTo(next string) bool {
	return r.Status.CanTransitionTo(next)
}

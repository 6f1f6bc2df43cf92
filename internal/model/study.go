package model

// Study is a longer-running research activity that groups several
// ResearchItem/Finding/Hypothesis/CompatCheck rows under one umbrella (spec
// §C supplement, zen-db/src/spike_studies.rs). Lifecycle mirrors
// ResearchStatus.
type Study struct {
	EntityBase
	Status      StudyStatus `json:"status" validate:"required"`
	Title       string      `json:"title" validate:"required"`
	Goal        string      `json:"goal" validate:"required"`
	Summary     string      `json:"summary,omitempty"`
	Tags        []string    `json:"tags,omitempty"`
}

func (s *Study) CurrentStatus() string { return string(s.Status) }

func (s *Study) EntityStatus() string { return string(s.Status) }

func (s *Study) SearchText() string { return s.Title + " " + s.Goal + " " + s.Summary }

func (s *Study) CanTransitionTo(next string) bool {
	return s.Status.CanTransitionTo(next)
}

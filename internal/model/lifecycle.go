package model

// transitionTable maps a status to the set of statuses it may move to.
// can_transition_to (spec §3, §8.2) is a pure lookup against this table,
// never encoded ad hoc per entity.
type transitionTable map[string][]string

func (t transitionTable) allows(from, to string) bool {
	for _, s := range t[from] {
		if s == to {
			return true
		}
	}
	return false
}

// SessionStatus lifecycle: Active -> WrappedUp, Active -> Abandoned;
// WrappedUp -> Active only via reopen_after_sync_failure (spec §3, S3).
type SessionStatus string

const (
	SessionActive     SessionStatus = "Active"
	SessionWrappedUp  SessionStatus = "WrappedUp"
	SessionAbandoned  SessionStatus = "Abandoned"
)

var sessionTransitions = transitionTable{
	string(SessionActive):    {string(SessionWrappedUp), string(SessionAbandoned)},
	string(SessionWrappedUp): {}, // only reopen_after_sync_failure may move it, via a dedicated op
	string(SessionAbandoned): {},
}

func (s SessionStatus) CanTransitionTo(next string) bool {
	return sessionTransitions.allows(string(s), next)
}

// ResearchStatus lifecycle: Open -> InProgress -> Resolved (or Blocked).
// Shared by ResearchItem, Finding, Issue.
type ResearchStatus string

const (
	ResearchOpen       ResearchStatus = "Open"
	ResearchInProgress ResearchStatus = "InProgress"
	ResearchResolved   ResearchStatus = "Resolved"
	ResearchBlocked    ResearchStatus = "Blocked"
)

var researchTransitions = transitionTable{
	string(ResearchOpen):       {string(ResearchInProgress), string(ResearchBlocked)},
	string(ResearchInProgress): {string(ResearchResolved), string(ResearchBlocked)},
	string(ResearchBlocked):    {string(ResearchOpen), string(ResearchInProgress)},
	string(ResearchResolved):   {},
}

func (s ResearchStatus) CanTransitionTo(next string) bool {
	return researchTransitions.allows(string(s), next)
}

// HypothesisStatus lifecycle: Unverified -> Confirmed | Refuted.
type HypothesisStatus string

const (
	HypothesisUnverified HypothesisStatus = "Unverified"
	HypothesisConfirmed  HypothesisStatus = "Confirmed"
	HypothesisRefuted    HypothesisStatus = "Refuted"
)

var hypothesisTransitions = transitionTable{
	string(HypothesisUnverified): {string(HypothesisConfirmed), string(HypothesisRefuted)},
	string(HypothesisConfirmed):  {},
	string(HypothesisRefuted):    {},
}

func (s HypothesisStatus) CanTransitionTo(next string) bool {
	return hypothesisTransitions.allows(string(s), next)
}

// TaskStatus lifecycle: Open -> InProgress -> Done (or Blocked).
type TaskStatus string

const (
	TaskOpen       TaskStatus = "Open"
	TaskInProgress TaskStatus = "InProgress"
	TaskDone       TaskStatus = "Done"
	TaskBlocked    TaskStatus = "Blocked"
)

var taskTransitions = transitionTable{
	string(TaskOpen):       {string(TaskInProgress), string(TaskBlocked)},
	string(TaskInProgress): {string(TaskDone), string(TaskBlocked)},
	string(TaskBlocked):    {string(TaskOpen), string(TaskInProgress)},
	string(TaskDone):       {},
}

func (s TaskStatus) CanTransitionTo(next string) bool {
	return taskTransitions.allows(string(s), next)
}

// StudyStatus lifecycle mirrors ResearchStatus: a Study is a longer-running
// research activity (spec §4.1 original_source supplement, zen-db
// spike_studies.rs) with the same Open/InProgress/Resolved/Blocked shape.
type StudyStatus string

const (
	StudyOpen       StudyStatus = "Open"
	StudyInProgress StudyStatus = "InProgress"
	StudyResolved   StudyStatus = "Resolved"
	StudyBlocked    StudyStatus = "Blocked"
)

var studyTransitions = transitionTable{
	string(StudyOpen):       {string(StudyInProgress), string(StudyBlocked)},
	string(StudyInProgress): {string(StudyResolved), string(StudyBlocked)},
	string(StudyBlocked):    {string(StudyOpen), string(StudyInProgress)},
	string(StudyResolved):   {},
}

func (s StudyStatus) CanTransitionTo(next string) bool {
	return studyTransitions.allows(string(s), next)
}

// CompatResult is the closed outcome set for a CompatCheck (no status
// lifecycle, a CompatCheck is an immutable recorded result).
type CompatResult string

const (
	CompatCompatible   CompatResult = "Compatible"
	CompatIncompatible CompatResult = "Incompatible"
	CompatUnknown      CompatResult = "Unknown"
)

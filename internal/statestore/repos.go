package statestore

import "github.com/zenith-dev/zenith/internal/model"

// Store bundles one typed Repo per entity kind plus the shared EntityStore
// for link/tag operations that cut across kinds. A service constructs one
// Store from a single *DB and hands the whole thing to its handlers rather
// than passing twelve separate repo arguments around.
type Store struct {
	Entities *EntityStore
	Audit    *AuditStore

	Sessions      *Repo[*model.Session]
	ResearchItems *Repo[*model.ResearchItem]
	Findings      *Repo[*model.Finding]
	Hypotheses    *Repo[*model.Hypothesis]
	Insights      *Repo[*model.Insight]
	Issues        *Repo[*model.Issue]
	Tasks         *Repo[*model.Task]
	ImplLogs      *Repo[*model.ImplLog]
	CompatChecks  *Repo[*model.CompatCheck]
	Studies       *Repo[*model.Study]
	ProjectMeta   *Repo[*model.ProjectMeta]
	Dependencies  *Repo[*model.ProjectDependency]
}

// NewStore wires every typed Repo against one EntityStore backed by db.
func NewStore(db *DB) *Store {
	es := NewEntityStore(db)
	return &Store{
		Entities:      es,
		Audit:         NewAuditStore(db),
		Sessions:      NewRepo[*model.Session](es, model.EntitySession),
		ResearchItems: NewRepo[*model.ResearchItem](es, model.EntityResearchItem),
		Findings:      NewRepo[*model.Finding](es, model.EntityFinding),
		Hypotheses:    NewRepo[*model.Hypothesis](es, model.EntityHypothesis),
		Insights:      NewRepo[*model.Insight](es, model.EntityInsight),
		Issues:        NewRepo[*model.Issue](es, model.EntityIssue),
		Tasks:         NewRepo[*model.Task](es, model.EntityTask),
		ImplLogs:      NewRepo[*model.ImplLog](es, model.EntityImplLog),
		CompatChecks:  NewRepo[*model.CompatCheck](es, model.EntityCompatCheck),
		Studies:       NewRepo[*model.Study](es, model.EntityStudy),
		ProjectMeta:   NewRepo[*model.ProjectMeta](es, model.EntityProjectMeta),
		Dependencies:  NewRepo[*model.ProjectDependency](es, model.EntityProjectDependency),
	}
}

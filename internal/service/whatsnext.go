package service

import (
	"context"
	"sort"

	"github.com/zenith-dev/zenith/internal/model"
)

// NextItem is one entry in the whats-next verb's output: an open or
// blocked piece of work the caller should look at, ranked oldest-first so
// stale work surfaces before work just created.
type NextItem struct {
	Kind      model.EntityKind `json:"kind"`
	ID        string           `json:"id"`
	Status    string           `json:"status"`
	Title     string           `json:"title"`
	CreatedAt int64            `json:"created_at"`
}

// WhatsNext gathers every open Task, ResearchItem, and Issue visible to the
// caller's identity — the CLI's `whats-next` verb (spec §6) — sorted
// oldest-first so the longest-open work is surfaced first.
func (s *Service) WhatsNext(ctx context.Context) ([]NextItem, error) {
	var items []NextItem

	tasks, err := s.Store.Tasks.List(ctx, s.Identity)
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		if t.Status == model.TaskOpen || t.Status == model.TaskInProgress || t.Status == model.TaskBlocked {
			items = append(items, NextItem{Kind: model.EntityTask, ID: t.ID, Status: string(t.Status), Title: t.Title, CreatedAt: t.CreatedAt.Unix()})
		}
	}

	research, err := s.Store.ResearchItems.List(ctx, s.Identity)
	if err != nil {
		return nil, err
	}
	for _, r := range research {
		if r.Status == model.ResearchOpen || r.Status == model.ResearchInProgress || r.Status == model.ResearchBlocked {
			items = append(items, NextItem{Kind: model.EntityResearchItem, ID: r.ID, Status: string(r.Status), Title: r.Title, CreatedAt: r.CreatedAt.Unix()})
		}
	}

	issues, err := s.Store.Issues.List(ctx, s.Identity)
	if err != nil {
		return nil, err
	}
	for _, i := range issues {
		if i.Status == model.ResearchOpen || i.Status == model.ResearchInProgress || i.Status == model.ResearchBlocked {
			items = append(items, NextItem{Kind: model.EntityIssue, ID: i.ID, Status: string(i.Status), Title: i.Title, CreatedAt: i.CreatedAt.Unix()})
		}
	}

	sort.Slice(items, func(a, b int) bool { return items[a].CreatedAt < items[b].CreatedAt })
	return items, nil
}

// WrapUpResult summarizes one wrap-up run: the session that was ended and
// the count of still-open items left behind for next time.
type WrapUpResult struct {
	Session    *model.Session `json:"session"`
	OpenItems  int            `json:"open_items"`
}

// WrapUp ends sessionID with summary and reports how much open work
// remains (spec §6's `wrap-up` verb). auto-commit/--message are CLI-layer
// concerns (git invocation is an out-of-scope external collaborator per
// spec §1) and are not modeled here.
func (s *Service) WrapUp(ctx context.Context, sessionID, summary string) (*WrapUpResult, error) {
	sess, err := s.EndSession(ctx, sessionID, summary)
	if err != nil {
		return nil, err
	}
	next, err := s.WhatsNext(ctx)
	if err != nil {
		return nil, err
	}
	return &WrapUpResult{Session: sess, OpenItems: len(next)}, nil
}

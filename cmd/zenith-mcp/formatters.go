package main

import (
	"fmt"
	"strings"

	"github.com/zenith-dev/zenith/internal/model"
	"github.com/zenith-dev/zenith/internal/search"
)

func formatSearchResults(query string, results []search.Result) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Search results for %q (%d results)\n\n", query, len(results)))
	if len(results) == 0 {
		sb.WriteString("No results found.\n")
		return sb.String()
	}
	for i, r := range results {
		sb.WriteString(fmt.Sprintf("%d. ", i+1))
		switch {
		case r.Entity != nil:
			sb.WriteString(fmt.Sprintf("**%s** (%s, status=%s)\n", r.Entity.ID, r.Entity.Kind, r.Entity.Status))
		case r.Vector != nil:
			sb.WriteString(fmt.Sprintf("**%s** (score=%.3f)\n", r.Vector.ID, r.Vector.Score))
		}
	}
	return sb.String()
}

func formatFinding(f *model.Finding) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", f.Title))
	sb.WriteString(fmt.Sprintf("**ID:** %s\n", f.ID))
	sb.WriteString(fmt.Sprintf("**Status:** %s\n", f.Status))
	if len(f.Tags) > 0 {
		sb.WriteString(fmt.Sprintf("**Tags:** %s\n", strings.Join(f.Tags, ", ")))
	}
	sb.WriteString("\n")
	sb.WriteString(f.Detail)
	sb.WriteString("\n")
	if len(f.SourceRefs) > 0 {
		sb.WriteString("\n**Sources:**\n")
		for _, ref := range f.SourceRefs {
			sb.WriteString(fmt.Sprintf("- %s\n", ref))
		}
	}
	return sb.String()
}

func formatFindingList(findings []*model.Finding) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Findings (%d)\n\n", len(findings)))
	for _, f := range findings {
		sb.WriteString(fmt.Sprintf("- **%s** [%s] %s\n", f.ID, f.Status, f.Title))
	}
	return sb.String()
}

package search

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"

	"github.com/zenith-dev/zenith/internal/model"
	"github.com/zenith-dev/zenith/internal/statestore"
)

// GraphNode is one visible entity in a decision-trace graph (spec §4.7).
type GraphNode struct {
	ID   string          `json:"id"`
	Kind model.EntityKind `json:"kind"`
}

// GraphEdge is one visible link whose endpoints are both in the node set.
type GraphEdge struct {
	FromID   string             `json:"from_id"`
	ToID     string             `json:"to_id"`
	Relation model.LinkRelation `json:"relation"`
}

// Graph is the visibility-filtered entity-link graph spec §4.7 builds for
// operational analytics (centrality/connectivity over findings, hypotheses,
// insights and their links).
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// BuildGraph filters nodes by visibility *before* construction, then drops
// any edge whose endpoints are not both in the visible set, per spec §4.7
// and the invariant in spec §8.5: "for all edges in the output, both
// endpoints are in the visible-node set." Nodes and edges are returned in
// a stable, id-sorted order so two runs over identical inputs produce an
// identical graph (spec §4.7's determinism requirement).
func BuildGraph(ctx context.Context, entities *statestore.EntityStore, kinds []model.EntityKind, identity model.Identity) (Graph, error) {
	visible := map[string]model.EntityKind{}
	for _, k := range kinds {
		recs, err := entities.List(ctx, k, identity)
		if err != nil {
			return Graph{}, err
		}
		for _, r := range recs {
			visible[r.ID] = r.Kind
		}
	}

	links, err := entities.AllLinks(ctx)
	if err != nil {
		return Graph{}, err
	}

	var edges []GraphEdge
	for _, l := range links {
		if _, ok := visible[l.FromID]; !ok {
			continue
		}
		if _, ok := visible[l.ToID]; !ok {
			continue
		}
		edges = append(edges, GraphEdge{FromID: l.FromID, ToID: l.ToID, Relation: l.Relation})
	}

	nodes := make([]GraphNode, 0, len(visible))
	for id, kind := range visible {
		nodes = append(nodes, GraphNode{ID: id, Kind: kind})
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].FromID != edges[j].FromID {
			return edges[i].FromID < edges[j].FromID
		}
		return edges[i].ToID < edges[j].ToID
	})

	return Graph{Nodes: nodes, Edges: edges}, nil
}

// RankingHash computes a deterministic hash of a graph's node/edge order,
// the mechanism spec §4.7/§8.5 uses to check that identical inputs produce
// identical ranking hashes across runs: BuildGraph's sort already makes
// the slice order canonical, so the hash is just a digest of that order.
func (g Graph) RankingHash() string {
	h := sha256.New()
	for _, n := range g.Nodes {
		h.Write([]byte(n.ID))
		h.Write([]byte{0})
	}
	for _, e := range g.Edges {
		h.Write([]byte(e.FromID))
		h.Write([]byte{0})
		h.Write([]byte(e.ToID))
		h.Write([]byte{0})
		h.Write([]byte(e.Relation))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

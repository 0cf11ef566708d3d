package graph

import (
	"context"
	"fmt"
	"time"
)

// QueryEngine answers read queries; every call is one read unit of work
type QueryEngine struct {
	store    Store
	recorder Recorder
}

// NewQueryEngine creates a query engine over store. A nil recorder disables measurements.
func NewQueryEngine(store Store, recorder Recorder) *QueryEngine {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &QueryEngine{store: store, recorder: recorder}
}

// Snapshot returns every node and edge currently in the graph
func (q *QueryEngine) Snapshot(ctx context.Context) (resp *GraphResponse, err error) {
	defer q.observe("snapshot", time.Now(), &err)

	resp = &GraphResponse{Nodes: []GraphNode{}, Edges: []GraphEdge{}}
	err = q.store.Execute(ctx, AccessRead, func(tx Tx) error {
		nodes, err := tx.Nodes(ctx)
		if err != nil {
			return err
		}
		edges, err := tx.Edges(ctx)
		if err != nil {
			return err
		}
		for _, n := range nodes {
			resp.Nodes = append(resp.Nodes, n.View())
		}
		for _, e := range edges {
			resp.Edges = append(resp.Edges, e.View())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch graph snapshot: %w", err)
	}
	return resp, nil
}

// Node looks up a single node. A miss returns (nil, nil).
func (q *QueryEngine) Node(ctx context.Context, id string) (node *GraphNode, err error) {
	defer q.observe("node", time.Now(), &err)

	err = q.store.Execute(ctx, AccessRead, func(tx Tx) error {
		n, err := tx.Node(ctx, id)
		if err != nil || n == nil {
			return err
		}
		v := n.View()
		node = &v
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch node %s: %w", id, err)
	}
	return node, nil
}

// Neighbors returns the node with id, its adjacent nodes and the connecting
// edges in stored direction. A missing center returns (nil, nil).
func (q *QueryEngine) Neighbors(ctx context.Context, id string) (hood *Neighborhood, err error) {
	defer q.observe("neighbors", time.Now(), &err)

	err = q.store.Execute(ctx, AccessRead, func(tx Tx) error {
		center, err := tx.Node(ctx, id)
		if err != nil || center == nil {
			return err
		}
		incident, err := tx.Incident(ctx, id)
		if err != nil {
			return err
		}

		hood = &Neighborhood{
			Center: center.View(),
			Nodes:  make([]GraphNode, 0, len(incident)),
			Edges:  make([]GraphEdge, 0, len(incident)),
		}
		seen := make(map[string]bool, len(incident))
		for _, inc := range incident {
			if !seen[inc.Neighbor.ID] {
				seen[inc.Neighbor.ID] = true
				hood.Nodes = append(hood.Nodes, inc.Neighbor.View())
			}
			hood.Edges = append(hood.Edges, ResolveDirection(id, inc.Neighbor.ID, inc.Relationship, inc.StartID))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch neighbors of %s: %w", id, err)
	}
	return hood, nil
}

func (q *QueryEngine) observe(operation string, start time.Time, err *error) {
	q.recorder.ObserveQuery(operation, *err, time.Since(start))
}

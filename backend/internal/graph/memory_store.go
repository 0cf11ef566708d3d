package graph

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"go.uber.org/zap"

	apperrors "sentigraph/backend/pkg/errors"
	"sentigraph/backend/pkg/logger"
)

type edgeKey struct {
	source, target string
	rel            Relationship
}

// MemoryStore is the in-process graph used when no persistent store is configured.
// Nothing survives a restart. Write units of work hold the exclusive lock for
// their whole duration, so concurrent writers are serialized here.
type MemoryStore struct {
	mu        sync.RWMutex
	nodes     map[string]*Node
	nodeOrder []string
	edges     map[edgeKey]struct{}
	edgeOrder []edgeKey
	closed    bool
	logger    *zap.Logger
}

// NewMemoryStore creates an empty in-memory graph
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nodes:  make(map[string]*Node),
		edges:  make(map[edgeKey]struct{}),
		logger: logger.Get(),
	}
}

func (s *MemoryStore) Backend() string { return "memory" }

// VerifyConnectivity always succeeds until the store is closed
func (s *MemoryStore) VerifyConnectivity(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	return nil
}

// InitSchema is a no-op: key uniqueness is structural in the node map
func (s *MemoryStore) InitSchema(ctx context.Context) error {
	return s.VerifyConnectivity(ctx)
}

func (s *MemoryStore) Execute(ctx context.Context, mode AccessMode, work func(tx Tx) error) error {
	if mode == AccessWrite {
		s.mu.Lock()
		defer s.mu.Unlock()
	} else {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}
	if s.closed {
		return ErrStoreClosed
	}
	if err := ctxErr(ctx, "execute"); err != nil {
		return err
	}
	return work(&memoryTx{store: s, mode: mode})
}

// Close drops all state; later calls fail with ErrStoreClosed
func (s *MemoryStore) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.nodes = nil
	s.edges = nil
	s.nodeOrder = nil
	s.edgeOrder = nil
	s.logger.Debug("Memory graph store closed")
	return nil
}

// memoryTx runs statements against the store while Execute holds its lock
type memoryTx struct {
	store *MemoryStore
	mode  AccessMode
}

// ctxErr reports a finished context the same way the Neo4j store does
func ctxErr(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return apperrors.NewContextCancelled(op, err)
	}
	return nil
}

func (t *memoryTx) writable(ctx context.Context, op string) error {
	if t.mode != AccessWrite {
		return ErrReadOnly
	}
	return ctxErr(ctx, op)
}

func (t *memoryTx) UpsertNode(ctx context.Context, n Node) error {
	if err := t.writable(ctx, "upsert_node"); err != nil {
		return err
	}
	if err := validateNode(n); err != nil {
		return err
	}

	s := t.store
	existing, ok := s.nodes[n.ID]
	if !ok {
		existing = &Node{ID: n.ID, Kind: n.Kind, Properties: make(map[string]any, len(n.Properties))}
		s.nodes[n.ID] = existing
		s.nodeOrder = append(s.nodeOrder, n.ID)
	}
	maps.Copy(existing.Properties, n.Properties)
	return nil
}

func (t *memoryTx) UpsertEdge(ctx context.Context, e Edge) error {
	if err := t.writable(ctx, "upsert_edge"); err != nil {
		return err
	}
	if err := validateEdge(e); err != nil {
		return err
	}

	s := t.store
	if _, ok := s.nodes[e.SourceID]; !ok {
		return fmt.Errorf("%w: %s", ErrDanglingEdge, e.SourceID)
	}
	if _, ok := s.nodes[e.TargetID]; !ok {
		return fmt.Errorf("%w: %s", ErrDanglingEdge, e.TargetID)
	}

	k := edgeKey{source: e.SourceID, target: e.TargetID, rel: e.Relationship}
	if _, ok := s.edges[k]; ok {
		return nil
	}
	s.edges[k] = struct{}{}
	s.edgeOrder = append(s.edgeOrder, k)
	return nil
}

func (t *memoryTx) Clear(ctx context.Context) error {
	if err := t.writable(ctx, "clear_graph"); err != nil {
		return err
	}
	s := t.store
	s.nodes = make(map[string]*Node)
	s.edges = make(map[edgeKey]struct{})
	s.nodeOrder = nil
	s.edgeOrder = nil
	return nil
}

func (t *memoryTx) Nodes(ctx context.Context) ([]Node, error) {
	if err := ctxErr(ctx, "all_nodes"); err != nil {
		return nil, err
	}
	s := t.store
	out := make([]Node, 0, len(s.nodeOrder))
	for _, id := range s.nodeOrder {
		out = append(out, copyNode(s.nodes[id]))
	}
	return out, nil
}

func (t *memoryTx) Edges(ctx context.Context) ([]Edge, error) {
	if err := ctxErr(ctx, "all_edges"); err != nil {
		return nil, err
	}
	s := t.store
	out := make([]Edge, 0, len(s.edgeOrder))
	for _, k := range s.edgeOrder {
		out = append(out, Edge{SourceID: k.source, TargetID: k.target, Relationship: k.rel})
	}
	return out, nil
}

func (t *memoryTx) Node(ctx context.Context, id string) (*Node, error) {
	if err := ctxErr(ctx, "get_node"); err != nil {
		return nil, err
	}
	n, ok := t.store.nodes[id]
	if !ok {
		return nil, nil
	}
	c := copyNode(n)
	return &c, nil
}

func (t *memoryTx) Incident(ctx context.Context, id string) ([]Incidence, error) {
	if err := ctxErr(ctx, "get_incident"); err != nil {
		return nil, err
	}
	s := t.store
	var out []Incidence
	for _, k := range s.edgeOrder {
		var other string
		switch id {
		case k.source:
			other = k.target
		case k.target:
			other = k.source
		default:
			continue
		}
		out = append(out, Incidence{
			Neighbor:     copyNode(s.nodes[other]),
			Relationship: k.rel,
			StartID:      k.source,
		})
	}
	return out, nil
}

// copyNode detaches the returned node from the store's maps
func copyNode(n *Node) Node {
	return Node{ID: n.ID, Kind: n.Kind, Properties: maps.Clone(n.Properties)}
}

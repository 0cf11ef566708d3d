package graph

import (
	"context"
	"errors"
)

// AccessMode declares whether a unit of work reads or writes
type AccessMode int

const (
	AccessRead AccessMode = iota
	AccessWrite
)

var (
	// ErrReadOnly is returned when a write statement runs inside a read unit of work
	ErrReadOnly = errors.New("write statement in read-only unit of work")
	// ErrStoreClosed is returned by a store after Close
	ErrStoreClosed = errors.New("graph store is closed")
	// ErrDanglingEdge is returned when an edge endpoint does not exist
	ErrDanglingEdge = errors.New("edge endpoint does not exist")
)

// Store is the graph backend. Both implementations honor the same contract,
// so the mutator and query engine never know which one they talk to.
type Store interface {
	// Backend names the implementation ("neo4j", "memory")
	Backend() string
	// VerifyConnectivity fails when the backend cannot be reached
	VerifyConnectivity(ctx context.Context) error
	// InitSchema declares one uniqueness constraint per node kind; safe to repeat
	InitSchema(ctx context.Context) error
	// Execute runs work inside one scoped unit of work and always releases it
	Execute(ctx context.Context, mode AccessMode, work func(tx Tx) error) error
	// Close releases every resource held by the store
	Close(ctx context.Context) error
}

// Tx issues statements inside a unit of work. Each statement is atomic on
// its own; a unit of work is not an all-or-nothing transaction.
type Tx interface {
	// UpsertNode creates the node if absent, otherwise overwrites the given properties
	UpsertNode(ctx context.Context, n Node) error
	// UpsertEdge creates the edge if absent; both endpoints must exist
	UpsertEdge(ctx context.Context, e Edge) error
	// Clear deletes every node and edge
	Clear(ctx context.Context) error
	// Nodes returns every node
	Nodes(ctx context.Context) ([]Node, error)
	// Edges returns every edge
	Edges(ctx context.Context) ([]Edge, error)
	// Node returns the node with id, or nil when absent
	Node(ctx context.Context, id string) (*Node, error)
	// Incident returns every relationship touching id, one entry per relationship
	Incident(ctx context.Context, id string) ([]Incidence, error)
}

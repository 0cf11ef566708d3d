package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"sentigraph/backend/pkg/config"
	apperrors "sentigraph/backend/pkg/errors"
	"sentigraph/backend/pkg/logger"
)

// Neo4j status codes treated as "the rule is already there"
var alreadyExistsCodes = map[string]bool{
	"Neo.ClientError.Schema.EquivalentSchemaRuleAlreadyExists": true,
	"Neo.ClientError.Schema.ConstraintAlreadyExists":           true,
	"Neo.ClientError.Schema.IndexAlreadyExists":                true,
}

// Neo4jStore is the persistent graph backend
type Neo4jStore struct {
	driver   neo4j.DriverWithContext
	database string
	uri      string
	logger   *zap.Logger
}

// NewNeo4jStore creates the driver. No connection is made until first use.
func NewNeo4jStore(cfg config.Neo4jConfig) (*Neo4jStore, error) {
	driver, err := neo4j.NewDriverWithContext(
		cfg.URI,
		neo4j.BasicAuth(cfg.User, cfg.Password, ""),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Neo4j driver: %w", err)
	}
	store := NewNeo4jStoreFromDriver(driver, cfg.Database)
	store.uri = cfg.URI
	return store, nil
}

// NewNeo4jStoreFromDriver wraps an existing driver
func NewNeo4jStoreFromDriver(driver neo4j.DriverWithContext, database string) *Neo4jStore {
	return &Neo4jStore{
		driver:   driver,
		database: database,
		logger:   logger.Get(),
	}
}

func (s *Neo4jStore) Backend() string { return "neo4j" }

// VerifyConnectivity checks that the server answers
func (s *Neo4jStore) VerifyConnectivity(ctx context.Context) error {
	if err := s.driver.VerifyConnectivity(ctx); err != nil {
		s.logger.Debug("Neo4j connectivity check failed", zap.String("uri", s.uri), zap.Error(err))
		return apperrors.NewGraphUnreachable(s.Backend(), err)
	}
	return nil
}

// InitSchema creates the uniqueness constraints. Existing constraints are not an error.
func (s *Neo4jStore) InitSchema(ctx context.Context) error {
	return s.withSession(ctx, AccessWrite, func(tx *neo4jTx) error {
		for _, stmt := range constraintStatements {
			err := tx.exec(ctx, "create_constraint", stmt, nil)
			if err == nil {
				continue
			}
			if isAlreadyExists(err) {
				s.logger.Debug("Constraint already exists", zap.String("constraint", stmt))
				continue
			}
			return err
		}
		s.logger.Info("Graph constraints initialized", zap.Int("constraints", len(constraintStatements)))
		return nil
	})
}

// Execute opens one session for the unit of work and closes it on every path
func (s *Neo4jStore) Execute(ctx context.Context, mode AccessMode, work func(tx Tx) error) error {
	return s.withSession(ctx, mode, func(tx *neo4jTx) error {
		return work(tx)
	})
}

func (s *Neo4jStore) withSession(ctx context.Context, mode AccessMode, work func(tx *neo4jTx) error) error {
	accessMode := neo4j.AccessModeRead
	if mode == AccessWrite {
		accessMode = neo4j.AccessModeWrite
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   accessMode,
		DatabaseName: s.database,
	})
	defer func() {
		if err := session.Close(ctx); err != nil {
			s.logger.Warn("Failed to close Neo4j session", zap.Error(err))
		}
	}()

	return work(&neo4jTx{session: session, mode: mode})
}

// Close closes the Neo4j driver connection
func (s *Neo4jStore) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

// neo4jTx runs auto-commit statements on one session. Every MERGE is atomic
// on the server, which is what keeps concurrent ingestion free of duplicates.
type neo4jTx struct {
	session neo4j.SessionWithContext
	mode    AccessMode
}

// exec runs a write statement and waits for the server summary
func (t *neo4jTx) exec(ctx context.Context, name, query string, params map[string]any) error {
	if t.mode != AccessWrite {
		return ErrReadOnly
	}
	result, err := t.session.Run(ctx, query, params)
	if err != nil {
		return classify(name, err)
	}
	if _, err := result.Consume(ctx); err != nil {
		return classify(name, err)
	}
	return nil
}

// collect runs a read statement and hands every record to fn
func (t *neo4jTx) collect(ctx context.Context, name, query string, params map[string]any, fn func(*neo4j.Record)) error {
	result, err := t.session.Run(ctx, query, params)
	if err != nil {
		return classify(name, err)
	}
	for result.Next(ctx) {
		fn(result.Record())
	}
	if err := result.Err(); err != nil {
		return classify(name, err)
	}
	return nil
}

func (t *neo4jTx) UpsertNode(ctx context.Context, n Node) error {
	if t.mode != AccessWrite {
		return ErrReadOnly
	}
	if err := validateNode(n); err != nil {
		return err
	}

	// Label comes from the validated kind, never from input text.
	query := fmt.Sprintf(`
		MERGE (n:%s {id: $id})
		SET n += $props
	`, n.Kind.Label())

	props := n.Properties
	if props == nil {
		props = map[string]any{}
	}
	return t.exec(ctx, "upsert_node", query, map[string]any{
		"id":    n.ID,
		"props": props,
	})
}

func (t *neo4jTx) UpsertEdge(ctx context.Context, e Edge) error {
	if t.mode != AccessWrite {
		return ErrReadOnly
	}
	if err := validateEdge(e); err != nil {
		return err
	}
	src, dst, _ := e.Relationship.Endpoints()

	query := fmt.Sprintf(`
		MATCH (a:%s {id: $source})
		MATCH (b:%s {id: $target})
		MERGE (a)-[r:%s]->(b)
		RETURN count(r) AS linked
	`, src.Label(), dst.Label(), e.Relationship)

	result, err := t.session.Run(ctx, query, map[string]any{
		"source": e.SourceID,
		"target": e.TargetID,
	})
	if err != nil {
		return classify("upsert_edge", err)
	}
	record, err := result.Single(ctx)
	if err != nil {
		return classify("upsert_edge", err)
	}
	if getInt64FromRecord(record, "linked") == 0 {
		return fmt.Errorf("%w: %s -> %s", ErrDanglingEdge, e.SourceID, e.TargetID)
	}
	return nil
}

func (t *neo4jTx) Clear(ctx context.Context) error {
	return t.exec(ctx, "clear_graph", `
		MATCH (n)
		DETACH DELETE n
	`, nil)
}

func (t *neo4jTx) Nodes(ctx context.Context) ([]Node, error) {
	query := `
		MATCH (n)
		RETURN n.id AS id,
		       labels(n)[0] AS kind,
		       properties(n) AS props
	`
	nodes := []Node{}
	err := t.collect(ctx, "all_nodes", query, nil, func(record *neo4j.Record) {
		nodes = append(nodes, nodeFromRecord(record))
	})
	if err != nil {
		return nil, err
	}
	return nodes, nil
}

func (t *neo4jTx) Edges(ctx context.Context) ([]Edge, error) {
	query := `
		MATCH (a)-[r]->(b)
		RETURN a.id AS source, b.id AS target, type(r) AS label
	`
	edges := []Edge{}
	err := t.collect(ctx, "all_edges", query, nil, func(record *neo4j.Record) {
		edges = append(edges, Edge{
			SourceID:     getStringFromRecord(record, "source"),
			TargetID:     getStringFromRecord(record, "target"),
			Relationship: Relationship(getStringFromRecord(record, "label")),
		})
	})
	if err != nil {
		return nil, err
	}
	return edges, nil
}

func (t *neo4jTx) Node(ctx context.Context, id string) (*Node, error) {
	query := fmt.Sprintf(`
		MATCH (n%s {id: $id})
		RETURN n.id AS id,
		       labels(n)[0] AS kind,
		       properties(n) AS props
		LIMIT 1
	`, labelFilter(id))

	var found *Node
	err := t.collect(ctx, "get_node", query, map[string]any{"id": id}, func(record *neo4j.Record) {
		n := nodeFromRecord(record)
		found = &n
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (t *neo4jTx) Incident(ctx context.Context, id string) ([]Incidence, error) {
	query := fmt.Sprintf(`
		MATCH (n%s {id: $id})-[r]-(m)
		RETURN m.id AS id,
		       labels(m)[0] AS kind,
		       properties(m) AS props,
		       type(r) AS rel_type,
		       startNode(r).id AS rel_start
	`, labelFilter(id))

	var out []Incidence
	err := t.collect(ctx, "get_incident", query, map[string]any{"id": id}, func(record *neo4j.Record) {
		out = append(out, Incidence{
			Neighbor:     nodeFromRecord(record),
			Relationship: Relationship(getStringFromRecord(record, "rel_type")),
			StartID:      getStringFromRecord(record, "rel_start"),
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// labelFilter narrows a lookup to the key's kind so the uniqueness constraint index is used
func labelFilter(id string) string {
	if kind := KindOf(id); kind != "" {
		return ":" + kind.Label()
	}
	return ""
}

// classify maps driver errors onto the application error taxonomy
func classify(statement string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewContextCancelled(statement, err)
	}
	if neo4j.IsConnectivityError(err) {
		return apperrors.NewGraphUnreachable("neo4j", err)
	}
	var nerr *neo4j.Neo4jError
	if errors.As(err, &nerr) && nerr.Code == "Neo.TransientError.General.DatabaseUnavailable" {
		return apperrors.NewGraphUnreachable("neo4j", err)
	}
	return apperrors.NewGraphStatementFailed(statement, err)
}

func isAlreadyExists(err error) bool {
	var nerr *neo4j.Neo4jError
	return errors.As(err, &nerr) && alreadyExistsCodes[nerr.Code]
}

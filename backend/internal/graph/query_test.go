package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededService(t *testing.T, rec Recorder) *Service {
	t.Helper()
	svc := NewService(NewMemoryStore(), rec)
	_, err := svc.Ingest(context.Background(), []PostAnalysis{jakartaPost()}, ModeReplace)
	require.NoError(t, err)
	return svc
}

func TestSnapshot_EmptyGraph(t *testing.T) {
	svc := NewService(NewMemoryStore(), nil)

	g, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, g.Nodes)
	assert.NotNil(t, g.Edges)
	assert.Empty(t, g.Nodes)
}

func TestNode(t *testing.T) {
	svc := seededService(t, nil)
	ctx := context.Background()

	n, err := svc.Node(ctx, "entity:GPE:Jakarta")
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, GraphNode{ID: "entity:GPE:Jakarta", Label: "Jakarta", Type: "entity"}, *n)

	n, err = svc.Node(ctx, "user:nobody")
	require.NoError(t, err)
	assert.Nil(t, n)
}

func TestNeighbors_PlatformKeepsStoredDirection(t *testing.T) {
	svc := seededService(t, nil)

	hood, err := svc.Neighbors(context.Background(), "platform:twitter")
	require.NoError(t, err)
	require.NotNil(t, hood)

	assert.Equal(t, GraphNode{ID: "platform:twitter", Label: "twitter", Type: "platform"}, hood.Center)
	assert.Equal(t, []GraphNode{{ID: "post:p1", Label: "Banjir lagi di Jakarta", Type: "post"}}, hood.Nodes)
	assert.Equal(t, []GraphEdge{{Source: "post:p1", Target: "platform:twitter", Label: "ON"}}, hood.Edges)
}

func TestNeighbors_PostSeesEveryRelationship(t *testing.T) {
	svc := seededService(t, nil)

	hood, err := svc.Neighbors(context.Background(), "post:p1")
	require.NoError(t, err)
	require.NotNil(t, hood)

	assert.Len(t, hood.Nodes, 3)
	assert.ElementsMatch(t, []GraphEdge{
		{Source: "user:alice", Target: "post:p1", Label: "POSTED"},
		{Source: "post:p1", Target: "platform:twitter", Label: "ON"},
		{Source: "post:p1", Target: "entity:GPE:Jakarta", Label: "MENTIONS"},
	}, hood.Edges)
}

func TestNeighbors_IsolatedAndMissing(t *testing.T) {
	store := NewMemoryStore()
	svc := NewService(store, nil)
	ctx := context.Background()

	require.NoError(t, store.Execute(ctx, AccessWrite, func(tx Tx) error {
		return tx.UpsertNode(ctx, Node{ID: UserKey("lonely"), Kind: KindUser, Properties: map[string]any{"name": "lonely"}})
	}))

	hood, err := svc.Neighbors(ctx, UserKey("lonely"))
	require.NoError(t, err)
	require.NotNil(t, hood)
	assert.Empty(t, hood.Nodes)
	assert.Empty(t, hood.Edges)

	hood, err = svc.Neighbors(ctx, UserKey("ghost"))
	require.NoError(t, err)
	assert.Nil(t, hood)
}

func TestQueries_AreRecorded(t *testing.T) {
	rec := &recordingRecorder{}
	svc := seededService(t, rec)
	ctx := context.Background()

	_, _ = svc.Snapshot(ctx)
	_, _ = svc.Node(ctx, "post:p1")
	_, _ = svc.Neighbors(ctx, "post:p1")

	assert.Equal(t, []string{"snapshot", "node", "neighbors"}, rec.queries)
	assert.Equal(t, []Mode{ModeReplace}, rec.ingests)
}

func TestQueries_ClosedStore(t *testing.T) {
	store := NewMemoryStore()
	svc := NewService(store, nil)
	require.NoError(t, store.Close(context.Background()))

	_, err := svc.Snapshot(context.Background())
	assert.ErrorIs(t, err, ErrStoreClosed)
	_, err = svc.Node(context.Background(), "post:p1")
	assert.ErrorIs(t, err, ErrStoreClosed)
}

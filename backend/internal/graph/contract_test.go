package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "sentigraph/backend/pkg/errors"
)

// runStoreContract checks the behavior both backends must share. The store
// is cleared before each subtest, so it must point at a disposable graph.
func runStoreContract(t *testing.T, store Store) {
	ctx := context.Background()

	reset := func(t *testing.T) {
		require.NoError(t, store.Execute(ctx, AccessWrite, func(tx Tx) error {
			return tx.Clear(ctx)
		}))
	}
	write := func(t *testing.T, fn func(tx Tx) error) {
		require.NoError(t, store.Execute(ctx, AccessWrite, fn))
	}
	read := func(t *testing.T, fn func(tx Tx) error) {
		require.NoError(t, store.Execute(ctx, AccessRead, fn))
	}

	post := Node{ID: PostKey("p1"), Kind: KindPost, Properties: map[string]any{"text": "hello", "sentiment": "positive", "score": 0.9}}
	user := Node{ID: UserKey("alice"), Kind: KindUser, Properties: map[string]any{"name": "alice"}}

	t.Run("Schema init is repeatable", func(t *testing.T) {
		require.NoError(t, store.VerifyConnectivity(ctx))
		require.NoError(t, store.InitSchema(ctx))
		require.NoError(t, store.InitSchema(ctx))
	})

	t.Run("Upsert node twice keeps one node with last write", func(t *testing.T) {
		reset(t)
		write(t, func(tx Tx) error {
			require.NoError(t, tx.UpsertNode(ctx, post))
			updated := Node{ID: post.ID, Kind: KindPost, Properties: map[string]any{"sentiment": "negative"}}
			return tx.UpsertNode(ctx, updated)
		})

		read(t, func(tx Tx) error {
			nodes, err := tx.Nodes(ctx)
			require.NoError(t, err)
			require.Len(t, nodes, 1)

			n, err := tx.Node(ctx, post.ID)
			require.NoError(t, err)
			require.NotNil(t, n)
			assert.Equal(t, KindPost, n.Kind)
			assert.Equal(t, "negative", n.Properties["sentiment"])
			assert.Equal(t, "hello", n.Properties["text"], "properties not in the update survive")
			assert.NotContains(t, n.Properties, "id")
			return nil
		})
	})

	t.Run("Upsert edge twice keeps one edge", func(t *testing.T) {
		reset(t)
		write(t, func(tx Tx) error {
			require.NoError(t, tx.UpsertNode(ctx, post))
			require.NoError(t, tx.UpsertNode(ctx, user))
			e := Edge{SourceID: user.ID, TargetID: post.ID, Relationship: RelPosted}
			require.NoError(t, tx.UpsertEdge(ctx, e))
			return tx.UpsertEdge(ctx, e)
		})

		read(t, func(tx Tx) error {
			edges, err := tx.Edges(ctx)
			require.NoError(t, err)
			assert.Equal(t, []Edge{{SourceID: user.ID, TargetID: post.ID, Relationship: RelPosted}}, edges)
			return nil
		})
	})

	t.Run("Edge against fixed direction is rejected", func(t *testing.T) {
		reset(t)
		err := store.Execute(ctx, AccessWrite, func(tx Tx) error {
			require.NoError(t, tx.UpsertNode(ctx, post))
			require.NoError(t, tx.UpsertNode(ctx, user))
			return tx.UpsertEdge(ctx, Edge{SourceID: post.ID, TargetID: user.ID, Relationship: RelPosted})
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeValidation))
	})

	t.Run("Edge to missing node is rejected", func(t *testing.T) {
		reset(t)
		err := store.Execute(ctx, AccessWrite, func(tx Tx) error {
			require.NoError(t, tx.UpsertNode(ctx, post))
			return tx.UpsertEdge(ctx, Edge{SourceID: post.ID, TargetID: PlatformKey("twitter"), Relationship: RelOn})
		})
		assert.ErrorIs(t, err, ErrDanglingEdge)
	})

	t.Run("Node with mismatched prefix is rejected", func(t *testing.T) {
		err := store.Execute(ctx, AccessWrite, func(tx Tx) error {
			return tx.UpsertNode(ctx, Node{ID: "alice", Kind: KindUser})
		})
		assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeValidation))
	})

	t.Run("Absent node is nil without error", func(t *testing.T) {
		reset(t)
		read(t, func(tx Tx) error {
			n, err := tx.Node(ctx, "post:does-not-exist")
			assert.NoError(t, err)
			assert.Nil(t, n)
			return nil
		})
	})

	t.Run("Incident reports stored start node", func(t *testing.T) {
		reset(t)
		platform := Node{ID: PlatformKey("twitter"), Kind: KindPlatform, Properties: map[string]any{"name": "twitter"}}
		write(t, func(tx Tx) error {
			require.NoError(t, tx.UpsertNode(ctx, post))
			require.NoError(t, tx.UpsertNode(ctx, user))
			require.NoError(t, tx.UpsertNode(ctx, platform))
			require.NoError(t, tx.UpsertEdge(ctx, Edge{SourceID: user.ID, TargetID: post.ID, Relationship: RelPosted}))
			return tx.UpsertEdge(ctx, Edge{SourceID: post.ID, TargetID: platform.ID, Relationship: RelOn})
		})

		read(t, func(tx Tx) error {
			inc, err := tx.Incident(ctx, post.ID)
			require.NoError(t, err)
			require.Len(t, inc, 2)
			starts := map[Relationship]string{}
			for _, i := range inc {
				starts[i.Relationship] = i.StartID
			}
			assert.Equal(t, user.ID, starts[RelPosted])
			assert.Equal(t, post.ID, starts[RelOn])
			return nil
		})
	})

	t.Run("Write in read unit of work fails", func(t *testing.T) {
		err := store.Execute(ctx, AccessRead, func(tx Tx) error {
			return tx.UpsertNode(ctx, post)
		})
		assert.ErrorIs(t, err, ErrReadOnly)

		err = store.Execute(ctx, AccessRead, func(tx Tx) error {
			return tx.Clear(ctx)
		})
		assert.ErrorIs(t, err, ErrReadOnly)
	})

	t.Run("Clear removes everything", func(t *testing.T) {
		write(t, func(tx Tx) error {
			return tx.UpsertNode(ctx, user)
		})
		reset(t)
		read(t, func(tx Tx) error {
			nodes, err := tx.Nodes(ctx)
			require.NoError(t, err)
			edges, err := tx.Edges(ctx)
			require.NoError(t, err)
			assert.Empty(t, nodes)
			assert.Empty(t, edges)
			return nil
		})
	})
}

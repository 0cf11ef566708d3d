package graph

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "sentigraph/backend/pkg/errors"
)

func TestMemoryStore_Contract(t *testing.T) {
	runStoreContract(t, NewMemoryStore())
}

func TestMemoryStore_ReadsAreDetached(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Execute(ctx, AccessWrite, func(tx Tx) error {
		return tx.UpsertNode(ctx, Node{ID: UserKey("alice"), Kind: KindUser, Properties: map[string]any{"name": "alice"}})
	}))

	require.NoError(t, store.Execute(ctx, AccessRead, func(tx Tx) error {
		n, err := tx.Node(ctx, UserKey("alice"))
		require.NoError(t, err)
		n.Properties["name"] = "mallory"
		return nil
	}))

	require.NoError(t, store.Execute(ctx, AccessRead, func(tx Tx) error {
		n, err := tx.Node(ctx, UserKey("alice"))
		require.NoError(t, err)
		assert.Equal(t, "alice", n.Properties["name"])
		return nil
	}))
}

func TestMemoryStore_ConcurrentWritersDoNotDuplicate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Execute(ctx, AccessWrite, func(tx Tx) error {
				if err := tx.UpsertNode(ctx, Node{ID: PostKey("p1"), Kind: KindPost}); err != nil {
					return err
				}
				if err := tx.UpsertNode(ctx, Node{ID: PlatformKey("twitter"), Kind: KindPlatform}); err != nil {
					return err
				}
				return tx.UpsertEdge(ctx, Edge{SourceID: PostKey("p1"), TargetID: PlatformKey("twitter"), Relationship: RelOn})
			})
		}()
	}
	wg.Wait()

	require.NoError(t, store.Execute(ctx, AccessRead, func(tx Tx) error {
		nodes, _ := tx.Nodes(ctx)
		edges, _ := tx.Edges(ctx)
		assert.Len(t, nodes, 2)
		assert.Len(t, edges, 1)
		return nil
	}))
}

func TestMemoryStore_Close(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Close(ctx))
	require.NoError(t, store.Close(ctx))

	assert.ErrorIs(t, store.VerifyConnectivity(ctx), ErrStoreClosed)
	err := store.Execute(ctx, AccessRead, func(tx Tx) error { return nil })
	assert.ErrorIs(t, err, ErrStoreClosed)
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	store := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := store.Execute(ctx, AccessWrite, func(tx Tx) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeContext))
	assert.False(t, called)
}

func TestMemoryStore_ContextEndsInsideUnitOfWork(t *testing.T) {
	store := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())

	err := store.Execute(ctx, AccessWrite, func(tx Tx) error {
		cancel()
		return tx.UpsertNode(ctx, Node{ID: PostKey("p1"), Kind: KindPost})
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeContext))

	err = store.Execute(context.Background(), AccessRead, func(tx Tx) error {
		_, err := tx.Nodes(ctx)
		return err
	})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeContext))
}

package graph

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "sentigraph/backend/pkg/errors"
	"sentigraph/backend/pkg/logger"
)

// Mutator applies annotated batches to the graph
type Mutator struct {
	store    Store
	recorder Recorder
	logger   *zap.Logger
}

// NewMutator creates a mutator over store. A nil recorder disables measurements.
func NewMutator(store Store, recorder Recorder) *Mutator {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Mutator{
		store:    store,
		recorder: recorder,
		logger:   logger.Get(),
	}
}

// Ingest applies batch in one write unit of work. In replace mode the graph is
// cleared first. The batch is validated up front, so a malformed batch never
// clears anything; a statement failure midway leaves earlier statements applied.
func (m *Mutator) Ingest(ctx context.Context, batch []PostAnalysis, mode Mode) (result *IngestResult, err error) {
	start := time.Now()
	defer func() {
		m.recorder.ObserveIngest(mode, result, err, time.Since(start))
	}()

	if mode != ModeReplace && mode != ModeAccumulate {
		return nil, apperrors.NewValidationFailed("mode", fmt.Sprintf("unknown mode %q", mode))
	}
	if err := ValidateBatch(batch); err != nil {
		return nil, err
	}

	res := &IngestResult{
		Mode:        mode,
		Posts:       len(batch),
		NodesByKind: make(map[NodeKind]int, len(Kinds)),
		Stats:       Summarize(batch),
	}

	err = m.store.Execute(ctx, AccessWrite, func(tx Tx) error {
		if mode == ModeReplace {
			if err := tx.Clear(ctx); err != nil {
				return fmt.Errorf("failed to clear graph: %w", err)
			}
		}
		for _, item := range batch {
			if err := m.applyPost(ctx, tx, item, res); err != nil {
				return fmt.Errorf("failed to ingest post %s: %w", item.PostID, err)
			}
		}
		return nil
	})
	if err != nil {
		m.logger.Error("Graph ingestion failed",
			zap.String("mode", string(mode)),
			zap.Int("posts", len(batch)),
			zap.Int("nodes_applied", res.NodesUpserted),
			zap.Int("edges_applied", res.EdgesUpserted),
			zap.Error(err),
		)
		return nil, err
	}

	m.logger.Info("Graph batch ingested",
		zap.String("mode", string(mode)),
		zap.Int("posts", res.Posts),
		zap.Int("nodes_upserted", res.NodesUpserted),
		zap.Int("edges_upserted", res.EdgesUpserted),
	)
	return res, nil
}

// applyPost upserts the post, its author, platform and entities with their edges
func (m *Mutator) applyPost(ctx context.Context, tx Tx, item PostAnalysis, res *IngestResult) error {
	postID := PostKey(item.PostID)

	upsertNode := func(n Node) error {
		if err := tx.UpsertNode(ctx, n); err != nil {
			return err
		}
		res.NodesUpserted++
		res.NodesByKind[n.Kind]++
		return nil
	}
	upsertEdge := func(source, target string, rel Relationship) error {
		if err := tx.UpsertEdge(ctx, Edge{SourceID: source, TargetID: target, Relationship: rel}); err != nil {
			return err
		}
		res.EdgesUpserted++
		return nil
	}

	if err := upsertNode(Node{
		ID:   postID,
		Kind: KindPost,
		Properties: map[string]any{
			"text":      item.Text,
			"sentiment": item.Sentiment.Label,
			"score":     item.Sentiment.Score,
		},
	}); err != nil {
		return err
	}

	userID := UserKey(item.Author)
	if err := upsertNode(Node{ID: userID, Kind: KindUser, Properties: map[string]any{"name": item.Author}}); err != nil {
		return err
	}
	if err := upsertEdge(userID, postID, RelPosted); err != nil {
		return err
	}

	platformID := PlatformKey(item.Platform)
	if err := upsertNode(Node{ID: platformID, Kind: KindPlatform, Properties: map[string]any{"name": item.Platform}}); err != nil {
		return err
	}
	if err := upsertEdge(postID, platformID, RelOn); err != nil {
		return err
	}

	for _, ent := range item.Entities {
		entityID := EntityKey(ent.Label, ent.Text)
		if err := upsertNode(Node{
			ID:         entityID,
			Kind:       KindEntity,
			Properties: map[string]any{"text": ent.Text, "label": ent.Label},
		}); err != nil {
			return err
		}
		if err := upsertEdge(postID, entityID, RelMentions); err != nil {
			return err
		}
	}
	return nil
}

// ValidateBatch rejects records whose keys would be ambiguous. Empty
// identifiers are accepted and derive keys such as "user:"; an anonymous
// author is a real input, not a malformed one.
func ValidateBatch(batch []PostAnalysis) error {
	for i, item := range batch {
		for j, ent := range item.Entities {
			if strings.Contains(ent.Label, keySeparator) {
				return apperrors.NewValidationFailed(
					fmt.Sprintf("items[%d].entities[%d].label", i, j),
					fmt.Sprintf("must not contain %q", keySeparator),
				)
			}
		}
	}
	return nil
}

// Summarize counts posts per sentiment label; unknown labels only count toward the total
func Summarize(batch []PostAnalysis) SentimentStats {
	stats := SentimentStats{TotalPosts: len(batch)}
	for _, item := range batch {
		switch strings.ToLower(item.Sentiment.Label) {
		case "positive":
			stats.Positive++
		case "neutral":
			stats.Neutral++
		case "negative":
			stats.Negative++
		}
	}
	return stats
}

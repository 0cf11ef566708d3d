package graph

import (
	"fmt"

	apperrors "sentigraph/backend/pkg/errors"
)

// endpoints fixes the direction of every relationship type
var endpoints = map[Relationship][2]NodeKind{
	RelPosted:   {KindUser, KindPost},
	RelOn:       {KindPost, KindPlatform},
	RelMentions: {KindPost, KindEntity},
}

// Endpoints returns the source and target kinds a relationship connects
func (r Relationship) Endpoints() (source, target NodeKind, ok bool) {
	e, ok := endpoints[r]
	return e[0], e[1], ok
}

// constraintStatements declares one uniqueness constraint per node kind
var constraintStatements = func() []string {
	out := make([]string, 0, len(Kinds))
	for _, k := range Kinds {
		out = append(out, fmt.Sprintf(
			"CREATE CONSTRAINT %s_id IF NOT EXISTS FOR (n:%s) REQUIRE n.id IS UNIQUE",
			k, k.Label(),
		))
	}
	return out
}()

// validateNode checks that a node's key and kind agree
func validateNode(n Node) error {
	if !n.Kind.Valid() {
		return apperrors.NewValidationFailed("node.type", fmt.Sprintf("unknown kind %q", n.Kind))
	}
	if KindOf(n.ID) != n.Kind {
		return apperrors.NewValidationFailed("node.id", fmt.Sprintf("key %q does not carry the %s prefix", n.ID, n.Kind))
	}
	return nil
}

// validateEdge checks that an edge runs in its relationship's fixed direction
func validateEdge(e Edge) error {
	src, dst, ok := e.Relationship.Endpoints()
	if !ok {
		return apperrors.NewValidationFailed("edge.label", fmt.Sprintf("unknown relationship %q", e.Relationship))
	}
	if KindOf(e.SourceID) != src || KindOf(e.TargetID) != dst {
		return apperrors.NewValidationFailed("edge",
			fmt.Sprintf("%s must connect %s -> %s, got %s -> %s", e.Relationship, src, dst, e.SourceID, e.TargetID))
	}
	return nil
}

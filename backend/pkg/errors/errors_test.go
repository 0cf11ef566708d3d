package errors

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsErrorType_WalksWrappedChain(t *testing.T) {
	unreachable := NewGraphUnreachable("neo4j", fmt.Errorf("dial tcp: refused"))
	wrapped := fmt.Errorf("ingest batch: %w", unreachable)

	assert.True(t, IsErrorType(wrapped, ErrorTypeGraph))
	assert.False(t, IsErrorType(wrapped, ErrorTypeConfig))
	assert.False(t, IsErrorType(fmt.Errorf("plain"), ErrorTypeGraph))
	assert.False(t, IsErrorType(nil, ErrorTypeGraph))
}

func TestIsErrorType_NestedCategories(t *testing.T) {
	inner := NewContextCancelled("snapshot", context.Canceled)
	outer := NewGraphStatementFailed("MATCH (n) RETURN n", inner)

	assert.True(t, IsErrorType(outer, ErrorTypeGraph))
	assert.True(t, IsErrorType(outer, ErrorTypeContext))
	assert.ErrorIs(t, outer, context.Canceled)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(NewGraphUnreachable("neo4j", nil)))
	assert.False(t, IsRetryable(NewGraphStatementFailed("MERGE", nil)))
	assert.False(t, IsRetryable(NewValidationFailed("post_id", "empty")))
	assert.False(t, IsRetryable(NewContextCancelled("ingest", context.DeadlineExceeded)))
}

func TestBaseError_Message(t *testing.T) {
	err := NewValidationFailed("author", "must not be empty")
	assert.Equal(t, "[validation] invalid author: must not be empty", err.Error())

	withCause := NewGraphUnreachable("neo4j", fmt.Errorf("timeout"))
	assert.Equal(t, "[graph] graph store unreachable: neo4j: timeout", withCause.Error())
}

package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveDirection(t *testing.T) {
	tests := []struct {
		name     string
		center   string
		neighbor string
		rel      Relationship
		start    string
		want     GraphEdge
	}{
		{
			name:     "Center is the stored start",
			center:   "post:p1",
			neighbor: "platform:twitter",
			rel:      RelOn,
			start:    "post:p1",
			want:     GraphEdge{Source: "post:p1", Target: "platform:twitter", Label: "ON"},
		},
		{
			name:     "Neighbor is the stored start",
			center:   "platform:twitter",
			neighbor: "post:p1",
			rel:      RelOn,
			start:    "post:p1",
			want:     GraphEdge{Source: "post:p1", Target: "platform:twitter", Label: "ON"},
		},
		{
			name:     "Author seen from post",
			center:   "post:p1",
			neighbor: "user:alice",
			rel:      RelPosted,
			start:    "user:alice",
			want:     GraphEdge{Source: "user:alice", Target: "post:p1", Label: "POSTED"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveDirection(tt.center, tt.neighbor, tt.rel, tt.start))
		})
	}
}

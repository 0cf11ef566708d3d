package graph

import "strings"

// ============================================================================
// Graph Types
// ============================================================================

// NodeKind is the lower-case type classification of a node
type NodeKind string

const (
	KindUser     NodeKind = "user"
	KindPost     NodeKind = "post"
	KindPlatform NodeKind = "platform"
	KindEntity   NodeKind = "entity"
)

// Kinds lists every node kind the graph stores
var Kinds = []NodeKind{KindUser, KindPost, KindPlatform, KindEntity}

// Label returns the Neo4j node label for the kind ("post" -> "Post")
func (k NodeKind) Label() string {
	if k == "" {
		return ""
	}
	return strings.ToUpper(string(k[:1])) + string(k[1:])
}

// Valid reports whether k is one of the known kinds
func (k NodeKind) Valid() bool {
	switch k {
	case KindUser, KindPost, KindPlatform, KindEntity:
		return true
	}
	return false
}

// kindFromLabel maps a stored node label back to its kind. Labels the
// ingestion path never writes are lower-cased as-is.
func kindFromLabel(label string) NodeKind {
	if label == "" {
		return KindEntity
	}
	return NodeKind(strings.ToLower(label))
}

// Relationship is the upper-case edge label
type Relationship string

const (
	RelPosted   Relationship = "POSTED"
	RelOn       Relationship = "ON"
	RelMentions Relationship = "MENTIONS"
)

// Node is a stored graph node
type Node struct {
	ID         string         `json:"id"`
	Kind       NodeKind       `json:"type"`
	Properties map[string]any `json:"properties,omitempty"`
}

// DisplayLabel resolves the label shown to callers: name, then text, then id
func (n Node) DisplayLabel() string {
	if s, ok := n.Properties["name"].(string); ok && s != "" {
		return s
	}
	if s, ok := n.Properties["text"].(string); ok && s != "" {
		return s
	}
	return n.ID
}

// View converts the stored node into its serializable form
func (n Node) View() GraphNode {
	return GraphNode{ID: n.ID, Label: n.DisplayLabel(), Type: string(n.Kind)}
}

// Edge is a stored directed relationship
type Edge struct {
	SourceID     string       `json:"source"`
	TargetID     string       `json:"target"`
	Relationship Relationship `json:"label"`
}

// View converts the stored edge into its serializable form
func (e Edge) View() GraphEdge {
	return GraphEdge{Source: e.SourceID, Target: e.TargetID, Label: string(e.Relationship)}
}

// Incidence is one stored relationship touching a queried node, as seen from that node
type Incidence struct {
	Neighbor     Node
	Relationship Relationship
	StartID      string // id of the relationship's stored start node
}

// ============================================================================
// Serializable Responses
// ============================================================================

// GraphNode is a node as returned to callers
type GraphNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"` // user | post | platform | entity
}

// GraphEdge is an edge as returned to callers
type GraphEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label"`
}

// GraphResponse is a full or partial graph snapshot
type GraphResponse struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// Neighborhood is a node together with its adjacent nodes and connecting edges
type Neighborhood struct {
	Center GraphNode   `json:"center"`
	Nodes  []GraphNode `json:"nodes"`
	Edges  []GraphEdge `json:"edges"`
}

// ============================================================================
// Ingestion Input
// ============================================================================

// NamedEntity is an entity extracted from a post
type NamedEntity struct {
	Text  string `json:"text" yaml:"text"`
	Label string `json:"label" yaml:"label"`
}

// Sentiment is the classification attached to a post
type Sentiment struct {
	Label string  `json:"label" yaml:"label"` // positive, neutral, negative
	Score float64 `json:"score" yaml:"score"`
}

// PostAnalysis is one annotated post
type PostAnalysis struct {
	PostID    string        `json:"post_id" yaml:"post_id"`
	Platform  string        `json:"platform" yaml:"platform"`
	Author    string        `json:"author" yaml:"author"`
	Text      string        `json:"text" yaml:"text"`
	Sentiment Sentiment     `json:"sentiment" yaml:"sentiment"`
	Entities  []NamedEntity `json:"entities" yaml:"entities"`
}

// Mode selects how a batch is applied
type Mode string

const (
	// ModeReplace wipes the graph before applying the batch
	ModeReplace Mode = "replace"
	// ModeAccumulate applies the batch on top of existing state
	ModeAccumulate Mode = "accumulate"
)

// ModeFor maps the boolean replace flag used at the edges of the system
func ModeFor(replace bool) Mode {
	if replace {
		return ModeReplace
	}
	return ModeAccumulate
}

// SentimentStats counts posts per sentiment label
type SentimentStats struct {
	TotalPosts int `json:"total_posts"`
	Positive   int `json:"positive"`
	Neutral    int `json:"neutral"`
	Negative   int `json:"negative"`
}

// IngestResult summarizes one applied batch
type IngestResult struct {
	Mode          Mode             `json:"mode"`
	Posts         int              `json:"posts"`
	NodesUpserted int              `json:"nodes_upserted"`
	EdgesUpserted int              `json:"edges_upserted"`
	NodesByKind   map[NodeKind]int `json:"nodes_by_kind"`
	Stats         SentimentStats   `json:"stats"`
}

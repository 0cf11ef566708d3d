package graph

// ResolveDirection reports a neighbor edge in the direction it is stored,
// not the direction of the query. When centerID is the relationship's
// stored start node the edge runs center -> neighbor; otherwise it runs
// neighbor -> center.
func ResolveDirection(centerID, neighborID string, rel Relationship, storedStartID string) GraphEdge {
	if storedStartID == centerID {
		return GraphEdge{Source: centerID, Target: neighborID, Label: string(rel)}
	}
	return GraphEdge{Source: neighborID, Target: centerID, Label: string(rel)}
}

package score

import (
	"strings"

	"github.com/grantwell/grantsearch/internal/grants"
)

// DefaultClusterBoost is the reference multiplier applied to each cluster's
// overlap contribution.
const DefaultClusterBoost = 3.0

// Semantic scores topical overlap between query and document through the
// cluster table. For each cluster, it counts phrases appearing as substrings
// of the lowercased query and of the lowercased document text; when both
// counts are positive the cluster contributes
// queryMatches*docMatches/clusterSize scaled by boost. This is a coarse
// table-driven heuristic, not an embedding model.
func Semantic(query string, doc grants.Document, clusters []Cluster, boost float64) float64 {
	if query == "" || len(clusters) == 0 {
		return 0
	}
	queryText := strings.ToLower(query)
	docText := strings.ToLower(doc.CombinedText())
	score := 0.0
	for _, cluster := range clusters {
		if len(cluster.Phrases) == 0 {
			continue
		}
		queryMatches, docMatches := 0, 0
		for _, phrase := range cluster.Phrases {
			phrase = strings.ToLower(phrase)
			if strings.Contains(queryText, phrase) {
				queryMatches++
			}
			if strings.Contains(docText, phrase) {
				docMatches++
			}
		}
		if queryMatches > 0 && docMatches > 0 {
			score += float64(queryMatches*docMatches) / float64(len(cluster.Phrases)) * boost
		}
	}
	return score
}

// ClusterProfile returns per-cluster phrase hit counts for a document's
// text, used by the document detail endpoint to expose a topical breakdown.
func ClusterProfile(doc grants.Document, clusters []Cluster) map[string]int {
	docText := strings.ToLower(doc.CombinedText())
	profile := make(map[string]int)
	for _, cluster := range clusters {
		hits := 0
		for _, phrase := range cluster.Phrases {
			if strings.Contains(docText, strings.ToLower(phrase)) {
				hits++
			}
		}
		if hits > 0 {
			profile[cluster.Name] = hits
		}
	}
	return profile
}

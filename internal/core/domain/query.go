package domain

import "sort"

// Query is a user question together with its paraphrased variants.
// Variants always include the original question as the first entry,
// so retrieval still works when paraphrase generation fails.
type Query struct {
	// Original is the question exactly as the user asked it.
	Original string

	// Variants are the retrieval queries, original first.
	Variants []string
}

// NewQuery creates a query with the original question as its only variant.
func NewQuery(original string) Query {
	return Query{
		Original: original,
		Variants: []string{original},
	}
}

// ScoredChunk is a retrieved chunk with its similarity score.
type ScoredChunk struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Score is the similarity score; higher means more similar.
	Score float64
}

// SortScored orders results by descending score. Ties are broken by
// ascending chunk position so repeated queries return a stable order.
func SortScored(results []ScoredChunk) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Chunk.Position < results[j].Chunk.Position
	})
}

// MergeScored deduplicates results by chunk ID keeping the maximum score
// observed, sorts them, and truncates to limit. A chunk returned by more
// than one query variant is at least as relevant as its best score.
func MergeScored(results []ScoredChunk, limit int) []ScoredChunk {
	best := make(map[string]ScoredChunk, len(results))
	for _, r := range results {
		cur, ok := best[r.Chunk.ID]
		if !ok || r.Score > cur.Score {
			best[r.Chunk.ID] = r
		}
	}

	merged := make([]ScoredChunk, 0, len(best))
	for _, r := range best {
		merged = append(merged, r)
	}
	SortScored(merged)

	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

package textutil

// CosineSimilarity computes the cosine similarity between two fingerprints.
// Returns 0 if either fingerprint is nil or has zero norm.
func CosineSimilarity(a, b *Fingerprint) float64 {
	if a == nil || b == nil || a.norm == 0 || b.norm == 0 {
		return 0
	}
	smaller, larger := a, b
	if len(larger.grams) < len(smaller.grams) {
		smaller, larger = larger, smaller
	}
	var dot float64
	for gram, count := range smaller.grams {
		if other, ok := larger.grams[gram]; ok {
			dot += count * other
		}
	}
	return dot / (a.norm * b.norm)
}

// NameSimilarity fingerprints both names and returns their cosine similarity.
// Identical normalized names score 1.0; disjoint names score 0.
func NameSimilarity(a, b string) float64 {
	return CosineSimilarity(NewFingerprint(a), NewFingerprint(b))
}

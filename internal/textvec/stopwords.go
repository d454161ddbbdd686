package textvec

// stopWords are high-frequency English function words excluded from fitted
// vocabularies. Keeping them would waste feature columns on terms that carry
// no category signal.
var stopWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"a", "about", "after", "again", "all", "am", "an", "and", "any",
		"are", "as", "at", "be", "because", "been", "before", "being",
		"between", "both", "but", "by", "can", "cannot", "could", "did",
		"do", "does", "doing", "during", "each", "few", "for", "from",
		"further", "had", "has", "have", "having", "he", "her", "here",
		"hers", "him", "his", "how", "i", "if", "in", "into", "is", "it",
		"its", "itself", "just", "me", "more", "most", "my", "myself",
		"no", "nor", "not", "now", "of", "off", "on", "once", "only",
		"or", "other", "our", "ours", "out", "over", "own", "same",
		"she", "should", "so", "some", "such", "than", "that", "the",
		"their", "theirs", "them", "then", "there", "these", "they",
		"this", "those", "through", "to", "too", "under", "until", "up",
		"very", "was", "we", "were", "what", "when", "where", "which",
		"while", "who", "whom", "why", "will", "with", "would", "you",
		"your", "yours", "yourself",
	} {
		stopWords[w] = struct{}{}
	}
}

package tokenizer

// stopwordSet is a compact built-in English stopword list, playing the
// role original_source/lib/index/tokenizer/stopwords.txt played for the
// original's Spanish corpus: function words common enough to be useless
// as index terms.
var stopwordSet = buildStopwordSet(
	"a", "an", "and", "are", "as", "at", "be", "been", "but", "by",
	"for", "from", "had", "has", "have", "he", "her", "his", "in",
	"is", "it", "its", "of", "on", "or", "our", "she", "that", "the",
	"their", "there", "this", "to", "was", "we", "were", "will",
	"with", "you", "your",
)

func buildStopwordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

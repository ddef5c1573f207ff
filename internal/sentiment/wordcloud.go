package sentiment

import (
	"slices"
	"strings"
	"unicode"
)

// DefaultWordCloudSize is how many words the cloud panel shows.
const DefaultWordCloudSize = 50

// minWordLength filters out articles and other short tokens before
// counting.
const minWordLength = 3

// WordCount is one entry of the lyric word cloud.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// stopwords covers the most frequent function words of the corpus
// languages (Portuguese, English, Spanish). Lowercase.
var stopwords = map[string]bool{
	// Portuguese
	"que": true, "não": true, "nao": true, "uma": true, "com": true,
	"para": true, "por": true, "mais": true, "meu": true, "minha": true,
	"você": true, "voce": true, "seu": true, "sua": true, "das": true,
	"dos": true, "tem": true, "vou": true, "ser": true, "quando": true,
	// English
	"the": true, "and": true, "you": true, "your": true, "for": true,
	"but": true, "not": true, "all": true, "are": true, "was": true,
	"this": true, "that": true, "with": true, "what": true, "can": true,
	"don": true, "its": true, "it's": true, "i'm": true, "out": true,
	// Spanish
	"los": true, "las": true, "una": true, "del": true, "como": true,
	"pero": true, "cuando": true, "qué": true, "este": true, "esta": true,
}

// WordCloud tokenizes the lyrics of songs, drops stopwords and short
// tokens, and returns the k most frequent words. Counts tie-break
// alphabetically so the cloud is deterministic. A non-positive k falls
// back to DefaultWordCloudSize.
func WordCloud(songs []Song, k int) []WordCount {
	if k <= 0 {
		k = DefaultWordCloudSize
	}
	if len(songs) == 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, s := range songs {
		for _, tok := range tokenize(s.Lyrics) {
			counts[tok]++
		}
	}

	out := make([]WordCount, 0, len(counts))
	for word, count := range counts {
		out = append(out, WordCount{Word: word, Count: count})
	}

	slices.SortFunc(out, func(a, b WordCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return strings.Compare(a.Word, b.Word)
	})

	if len(out) > k {
		out = out[:k]
	}
	return out
}

// tokenize splits lyrics into lowercase word tokens. Apostrophes stay
// inside tokens so contractions survive ("don't", "i'm").
func tokenize(lyrics string) []string {
	fields := strings.FieldsFunc(strings.ToLower(lyrics), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})

	var out []string
	for _, f := range fields {
		f = strings.Trim(f, "'")
		if len([]rune(f)) < minWordLength || stopwords[f] {
			continue
		}
		out = append(out, f)
	}
	return out
}

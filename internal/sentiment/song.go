// Package sentiment implements the filter and aggregation views over the
// precomputed lyric sentiment table.
package sentiment

// Song is one row of the sentiment table. Records are immutable after load;
// every view in this package returns fresh slices and never modifies its
// input.
type Song struct {
	Title            string  `json:"title"`
	Artist           string  `json:"artist"`
	Lyrics           string  `json:"-"`
	DetectedLanguage string  `json:"detected_language"`
	Polarity         float64 `json:"polarity"`
	LyricLength      int     `json:"lyric_length"`
}

// Filter holds the user-selected restriction over the table. Empty Artists
// or Languages means "no restriction" for that dimension. The polarity
// range is a closed interval; an inverted range (Min > Max) matches
// nothing.
type Filter struct {
	Artists     []string `json:"artists"`
	Languages   []string `json:"languages"`
	PolarityMin float64  `json:"polarity_min"`
	PolarityMax float64  `json:"polarity_max"`
}

// ApplyFilters returns the subsequence of songs satisfying every filter
// dimension, preserving input order.
func ApplyFilters(songs []Song, f Filter) []Song {
	artists := toSet(f.Artists)
	languages := toSet(f.Languages)

	var out []Song
	for _, s := range songs {
		if len(artists) > 0 && !artists[s.Artist] {
			continue
		}
		if len(languages) > 0 && !languages[s.DetectedLanguage] {
			continue
		}
		if s.Polarity < f.PolarityMin || s.Polarity > f.PolarityMax {
			continue
		}
		out = append(out, s)
	}
	return out
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

package sentiment

import (
	"math"
	"slices"
)

// Default view sizes, matching the dashboard defaults.
const (
	DefaultTopArtists   = 20
	DefaultExtremes     = 10
	DefaultExcerptChars = 300
)

// excerptMarker is appended to a lyric excerpt when truncation happened.
const excerptMarker = "..."

// Metrics summarizes a (possibly filtered) table. When the table is empty,
// Valid is false and MeanPolarity/MaxPolarity are NaN.
type Metrics struct {
	Count        int
	MeanPolarity float64
	MaxPolarity  float64
	Valid        bool
}

// SummaryMetrics computes count, mean polarity and max polarity over songs.
// An empty table yields Count=0 and NaN aggregates, never a panic.
func SummaryMetrics(songs []Song) Metrics {
	if len(songs) == 0 {
		return Metrics{MeanPolarity: math.NaN(), MaxPolarity: math.NaN()}
	}

	sum := 0.0
	max := songs[0].Polarity
	for _, s := range songs {
		sum += s.Polarity
		if s.Polarity > max {
			max = s.Polarity
		}
	}

	return Metrics{
		Count:        len(songs),
		MeanPolarity: sum / float64(len(songs)),
		MaxPolarity:  max,
		Valid:        true,
	}
}

// ArtistMean is one row of the per-artist ranking.
type ArtistMean struct {
	Artist       string  `json:"artist"`
	MeanPolarity float64 `json:"mean_polarity"`
	Songs        int     `json:"songs"`
}

// TopArtistsByMeanPolarity groups songs by artist, averages polarity per
// group, and returns the k highest averages in descending order. Ties keep
// the first-occurrence order of the artists in the input, which makes the
// ranking deterministic regardless of sort internals. A non-positive k
// falls back to DefaultTopArtists.
func TopArtistsByMeanPolarity(songs []Song, k int) []ArtistMean {
	if k <= 0 {
		k = DefaultTopArtists
	}
	if len(songs) == 0 {
		return nil
	}

	type agg struct {
		sum   float64
		count int
	}
	totals := make(map[string]*agg)
	var order []string
	for _, s := range songs {
		a, ok := totals[s.Artist]
		if !ok {
			a = &agg{}
			totals[s.Artist] = a
			order = append(order, s.Artist)
		}
		a.sum += s.Polarity
		a.count++
	}

	ranked := make([]ArtistMean, 0, len(order))
	for _, artist := range order {
		a := totals[artist]
		ranked = append(ranked, ArtistMean{
			Artist:       artist,
			MeanPolarity: a.sum / float64(a.count),
			Songs:        a.count,
		})
	}

	slices.SortStableFunc(ranked, func(a, b ArtistMean) int {
		switch {
		case a.MeanPolarity > b.MeanPolarity:
			return -1
		case a.MeanPolarity < b.MeanPolarity:
			return 1
		default:
			return 0
		}
	})

	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}

// RankExtremes returns the k most positive songs (descending polarity) and
// the k most negative songs (ascending polarity). Ties keep the original
// table order in both lists. A non-positive k falls back to
// DefaultExtremes.
func RankExtremes(songs []Song, k int) (topPositive, topNegative []Song) {
	if k <= 0 {
		k = DefaultExtremes
	}
	if len(songs) == 0 {
		return nil, nil
	}

	desc := slices.Clone(songs)
	slices.SortStableFunc(desc, func(a, b Song) int {
		switch {
		case a.Polarity > b.Polarity:
			return -1
		case a.Polarity < b.Polarity:
			return 1
		default:
			return 0
		}
	})

	asc := slices.Clone(songs)
	slices.SortStableFunc(asc, func(a, b Song) int {
		switch {
		case a.Polarity < b.Polarity:
			return -1
		case a.Polarity > b.Polarity:
			return 1
		default:
			return 0
		}
	})

	if len(desc) > k {
		desc = desc[:k]
	}
	if len(asc) > k {
		asc = asc[:k]
	}
	return desc, asc
}

// LyricExcerpt returns the first maxChars characters of the song's lyrics
// with a truncation marker. Lyrics that already fit are returned unchanged.
// Truncation counts runes, not bytes, so multi-byte lyrics stay valid.
func LyricExcerpt(s Song, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultExcerptChars
	}

	runes := []rune(s.Lyrics)
	if len(runes) <= maxChars {
		return s.Lyrics
	}
	return string(runes[:maxChars]) + excerptMarker
}

// ScatterPoint is one song positioned by lyric length and polarity, for the
// length-versus-polarity panel.
type ScatterPoint struct {
	LyricLength int     `json:"lyric_length"`
	Polarity    float64 `json:"polarity"`
	Title       string  `json:"title"`
	Artist      string  `json:"artist"`
}

// ScatterPoints projects songs onto (lyric length, polarity) pairs.
func ScatterPoints(songs []Song) []ScatterPoint {
	points := make([]ScatterPoint, len(songs))
	for i, s := range songs {
		points[i] = ScatterPoint{
			LyricLength: s.LyricLength,
			Polarity:    s.Polarity,
			Title:       s.Title,
			Artist:      s.Artist,
		}
	}
	return points
}

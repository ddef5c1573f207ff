package sentiment

// DefaultHistogramBins matches the distribution panel default.
const DefaultHistogramBins = 25

// Bin is one bucket of the polarity distribution. The interval is
// [Low, High), except the last bin which also includes High.
type Bin struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// Histogram splits the polarity range of songs into bins equal-width
// buckets and counts songs per bucket. An empty table yields nil. A table
// where every polarity is identical collapses into a single full bucket.
func Histogram(songs []Song, bins int) []Bin {
	if len(songs) == 0 {
		return nil
	}
	if bins <= 0 {
		bins = DefaultHistogramBins
	}

	min, max := songs[0].Polarity, songs[0].Polarity
	for _, s := range songs {
		if s.Polarity < min {
			min = s.Polarity
		}
		if s.Polarity > max {
			max = s.Polarity
		}
	}

	if min == max {
		return []Bin{{Low: min, High: max, Count: len(songs)}}
	}

	width := (max - min) / float64(bins)
	out := make([]Bin, bins)
	for i := range out {
		out[i].Low = min + float64(i)*width
		out[i].High = min + float64(i+1)*width
	}
	// Pin the last edge so the max lands inside the last bin.
	out[bins-1].High = max

	for _, s := range songs {
		idx := int((s.Polarity - min) / width)
		if idx >= bins {
			idx = bins - 1
		}
		out[idx].Count++
	}
	return out
}

package web

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/elderkiyo/lyricmood/internal/sentiment"
)

// summaryResponse carries the metric cards as JSON. Mean and max are
// omitted for an empty table instead of encoding NaN.
type summaryResponse struct {
	Count        int      `json:"count"`
	MeanPolarity *float64 `json:"mean_polarity,omitempty"`
	MaxPolarity  *float64 `json:"max_polarity,omitempty"`
}

// songResponse is one leaderboard entry as JSON.
type songResponse struct {
	Title            string  `json:"title"`
	Artist           string  `json:"artist"`
	DetectedLanguage string  `json:"detected_language"`
	Polarity         float64 `json:"polarity"`
	LyricLength      int     `json:"lyric_length"`
	Excerpt          string  `json:"excerpt"`
}

// extremesResponse carries both leaderboards.
type extremesResponse struct {
	TopPositive []songResponse `json:"top_positive"`
	TopNegative []songResponse `json:"top_negative"`
}

// Summary serves the metric cards (GET /api/summary).
func (h *Handlers) Summary(w http.ResponseWriter, r *http.Request) {
	h.withFiltered(w, r, func(filtered []sentiment.Song) any {
		m := sentiment.SummaryMetrics(filtered)
		resp := summaryResponse{Count: m.Count}
		if m.Valid {
			resp.MeanPolarity = &m.MeanPolarity
			resp.MaxPolarity = &m.MaxPolarity
		}
		return resp
	})
}

// Artists serves the per-artist ranking (GET /api/artists).
func (h *Handlers) Artists(w http.ResponseWriter, r *http.Request) {
	h.withFiltered(w, r, func(filtered []sentiment.Song) any {
		ranked := sentiment.TopArtistsByMeanPolarity(filtered, h.view.TopArtists)
		if ranked == nil {
			ranked = []sentiment.ArtistMean{}
		}
		return ranked
	})
}

// Histogram serves the polarity distribution (GET /api/histogram).
func (h *Handlers) Histogram(w http.ResponseWriter, r *http.Request) {
	h.withFiltered(w, r, func(filtered []sentiment.Song) any {
		bins := sentiment.Histogram(filtered, h.view.HistogramBins)
		if bins == nil {
			bins = []sentiment.Bin{}
		}
		return bins
	})
}

// Scatter serves the length-versus-polarity points (GET /api/scatter).
func (h *Handlers) Scatter(w http.ResponseWriter, r *http.Request) {
	h.withFiltered(w, r, func(filtered []sentiment.Song) any {
		return sentiment.ScatterPoints(filtered)
	})
}

// Extremes serves the positive/negative leaderboards (GET /api/extremes).
func (h *Handlers) Extremes(w http.ResponseWriter, r *http.Request) {
	h.withFiltered(w, r, func(filtered []sentiment.Song) any {
		positive, negative := sentiment.RankExtremes(filtered, h.view.ExtremeSongs)
		return extremesResponse{
			TopPositive: songResponses(positive, h.view.ExcerptChars),
			TopNegative: songResponses(negative, h.view.ExcerptChars),
		}
	})
}

// Words serves the word-cloud frequencies (GET /api/words).
func (h *Handlers) Words(w http.ResponseWriter, r *http.Request) {
	h.withFiltered(w, r, func(filtered []sentiment.Song) any {
		words := sentiment.WordCloud(filtered, h.view.WordCloudSize)
		if words == nil {
			words = []sentiment.WordCount{}
		}
		return words
	})
}

// withFiltered loads the dataset, applies the session filter, and responds
// with whatever build produces. Data unavailability maps to 503.
func (h *Handlers) withFiltered(w http.ResponseWriter, r *http.Request, build func([]sentiment.Song) any) {
	ds, err := h.data()
	if err != nil {
		slog.Error("dataset unavailable", "file", h.dataFile, "error", err)
		respondError(w, http.StatusServiceUnavailable, "sentiment data unavailable")
		return
	}

	filtered := sentiment.ApplyFilters(ds.Songs, h.currentFilter(r, ds))
	respondJSON(w, http.StatusOK, build(filtered))
}

func songResponses(songs []sentiment.Song, excerptChars int) []songResponse {
	out := make([]songResponse, len(songs))
	for i, s := range songs {
		out[i] = songResponse{
			Title:            s.Title,
			Artist:           s.Artist,
			DetectedLanguage: s.DetectedLanguage,
			Polarity:         s.Polarity,
			LyricLength:      s.LyricLength,
			Excerpt:          sentiment.LyricExcerpt(s, excerptChars),
		}
	}
	return out
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

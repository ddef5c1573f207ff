package web

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/elderkiyo/lyricmood/internal/dataset"
	"github.com/elderkiyo/lyricmood/internal/sentiment"
)

// Handlers contains HTTP handlers for the dashboard.
type Handlers struct {
	cache     *dataset.Cache
	dataFile  string
	view      ViewConfig
	sessions  *SessionStore
	templates *Templates
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(cache *dataset.Cache, dataFile string, view ViewConfig, sessions *SessionStore, templates *Templates) *Handlers {
	return &Handlers{
		cache:     cache,
		dataFile:  dataFile,
		view:      view,
		sessions:  sessions,
		templates: templates,
	}
}

// data fetches the dataset through the process-wide cache.
func (h *Handlers) data() (*dataset.Dataset, error) {
	return h.cache.Get(h.dataFile)
}

// currentFilter returns the session's filter, or the unrestricted filter
// when the visitor has not filtered yet.
func (h *Handlers) currentFilter(r *http.Request, ds *dataset.Dataset) sentiment.Filter {
	if session := h.sessions.GetFromRequest(r); session != nil {
		return session.Filter
	}
	return ds.FullRange()
}

// Dashboard renders the dashboard page (GET /).
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	ds, err := h.data()
	if err != nil {
		slog.Error("dataset unavailable", "file", h.dataFile, "error", err)
		h.renderNoData(w, r)
		return
	}

	filter := h.currentFilter(r, ds)
	filtered := sentiment.ApplyFilters(ds.Songs, filter)

	metrics := sentiment.SummaryMetrics(filtered)
	bins := sentiment.Histogram(filtered, h.view.HistogramBins)
	artists := sentiment.TopArtistsByMeanPolarity(filtered, h.view.TopArtists)
	positive, negative := sentiment.RankExtremes(filtered, h.view.ExtremeSongs)
	words := sentiment.WordCloud(filtered, h.view.WordCloudSize)

	data := DashboardPageData{
		PageData: PageData{
			Title:       "Lyric Sentiment Dashboard",
			CurrentPath: r.URL.Path,
		},
		TotalCount:    len(ds.Songs),
		FilteredCount: len(filtered),
		Metrics: MetricCards{
			Count:        metrics.Count,
			MeanPolarity: metrics.MeanPolarity,
			MaxPolarity:  metrics.MaxPolarity,
			Valid:        metrics.Valid,
		},
		Filter:          filter,
		ArtistOptions:   options(ds.Artists, filter.Artists),
		LanguageOptions: options(ds.Languages, filter.Languages),
		BoundsMin:       ds.MinPolarity,
		BoundsMax:       ds.MaxPolarity,
		Histogram:       histogramBars(bins),
		TopArtists:      artistBars(artists),
		TopPositive:     songViews(positive, h.view.ExcerptChars),
		TopNegative:     songViews(negative, h.view.ExcerptChars),
		Words:           wordViews(words),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.Render(w, "dashboard", data); err != nil {
		slog.Error("rendering dashboard", "error", err)
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
	}
}

// renderNoData renders the blocking "no data" page.
func (h *Handlers) renderNoData(w http.ResponseWriter, r *http.Request) {
	data := NoDataPageData{
		PageData: PageData{
			Title:       "Lyric Sentiment Dashboard",
			CurrentPath: r.URL.Path,
		},
		DataFile: h.dataFile,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusServiceUnavailable)
	if err := h.templates.Render(w, "nodata", data); err != nil {
		slog.Error("rendering no-data page", "error", err)
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
	}
}

// ApplyFilters stores the submitted filter in the session (POST /filters).
func (h *Handlers) ApplyFilters(w http.ResponseWriter, r *http.Request) {
	ds, err := h.data()
	if err != nil {
		h.renderNoData(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	min, err := parsePolarity(r.FormValue("polarity_min"), ds.MinPolarity)
	if err != nil {
		http.Error(w, "Invalid minimum polarity", http.StatusBadRequest)
		return
	}
	max, err := parsePolarity(r.FormValue("polarity_max"), ds.MaxPolarity)
	if err != nil {
		http.Error(w, "Invalid maximum polarity", http.StatusBadRequest)
		return
	}

	filter := sentiment.Filter{
		Artists:     r.Form["artists"],
		Languages:   r.Form["languages"],
		PolarityMin: min,
		PolarityMax: max,
	}

	if session := h.sessions.GetFromRequest(r); session != nil {
		h.sessions.SetFilter(session.ID, filter)
	} else {
		session := h.sessions.Create(filter)
		h.sessions.SetCookie(w, session)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ResetFilters drops the session filter (POST /filters/reset).
func (h *Handlers) ResetFilters(w http.ResponseWriter, r *http.Request) {
	if session := h.sessions.GetFromRequest(r); session != nil {
		h.sessions.Delete(session.ID)
	}
	h.sessions.ClearCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// parsePolarity parses a polarity form value, falling back when the field
// was left empty.
func parsePolarity(value string, fallback float64) (float64, error) {
	if value == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(value, 64)
}

// options marks the selected entries of a filter multi-select.
func options(all, selected []string) []Option {
	chosen := make(map[string]bool, len(selected))
	for _, s := range selected {
		chosen[s] = true
	}

	out := make([]Option, len(all))
	for i, value := range all {
		out[i] = Option{Value: value, Selected: chosen[value]}
	}
	return out
}

// histogramBars converts bins into bars scaled to the tallest bin.
func histogramBars(bins []sentiment.Bin) []BarView {
	maxCount := 0
	for _, b := range bins {
		if b.Count > maxCount {
			maxCount = b.Count
		}
	}

	out := make([]BarView, len(bins))
	for i, b := range bins {
		mid := (b.Low + b.High) / 2
		out[i] = BarView{
			Label:   strconv.FormatFloat(mid, 'f', 2, 64),
			Value:   mid,
			Count:   b.Count,
			Percent: percent(float64(b.Count), float64(maxCount)),
		}
	}
	return out
}

// artistBars converts the artist ranking into bars scaled to the largest
// absolute mean.
func artistBars(ranked []sentiment.ArtistMean) []BarView {
	maxAbs := 0.0
	for _, a := range ranked {
		if abs := math.Abs(a.MeanPolarity); abs > maxAbs {
			maxAbs = abs
		}
	}

	out := make([]BarView, len(ranked))
	for i, a := range ranked {
		out[i] = BarView{
			Label:   a.Artist,
			Value:   a.MeanPolarity,
			Count:   a.Songs,
			Percent: percent(math.Abs(a.MeanPolarity), maxAbs),
		}
	}
	return out
}

// songViews builds leaderboard entries with lyric excerpts.
func songViews(songs []sentiment.Song, excerptChars int) []SongView {
	out := make([]SongView, len(songs))
	for i, s := range songs {
		out[i] = SongView{
			Rank:     i + 1,
			Title:    s.Title,
			Artist:   s.Artist,
			Polarity: s.Polarity,
			Excerpt:  sentiment.LyricExcerpt(s, excerptChars),
		}
	}
	return out
}

// wordViews scales word-cloud font sizes between 12 and 32 px.
func wordViews(words []sentiment.WordCount) []WordView {
	if len(words) == 0 {
		return nil
	}

	minCount, maxCount := words[len(words)-1].Count, words[0].Count
	out := make([]WordView, len(words))
	for i, w := range words {
		size := 12
		if maxCount > minCount {
			size += int(20 * float64(w.Count-minCount) / float64(maxCount-minCount))
		}
		out[i] = WordView{Word: w.Word, Count: w.Count, Size: size}
	}
	return out
}

// percent returns value/total as a percentage, guarding division by zero.
func percent(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return value / total * 100
}

package web

import (
	"encoding/json"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elderkiyo/lyricmood/internal/dataset"
	webfs "github.com/elderkiyo/lyricmood/web"
)

const testCSV = `titulo,artista,letra,idioma_detectado,sent_polarity,tam_letra
Highway Star,Deep Purple,Nobody gonna take my car tonight tonight,en,0.35,312
Evidências,Chitãozinho & Xororó,Quando eu digo que deixei de te amar,pt,-0.12,280
Paint It Black,The Rolling Stones,I see a red door painted painted,en,-0.45,198
Smoke on the Water,Deep Purple,We all came out to Montreux,en,0.10,250
`

func testView() ViewConfig {
	return ViewConfig{
		TopArtists:    20,
		ExtremeSongs:  10,
		HistogramBins: 25,
		WordCloudSize: 50,
		ExcerptChars:  300,
	}
}

func newTestServer(t *testing.T, csv string) *Server {
	t.Helper()

	dataFile := filepath.Join(t.TempDir(), "letras_sentimento.csv")
	if csv != "" {
		require.NoError(t, os.WriteFile(dataFile, []byte(csv), 0o644))
	}

	templates, err := fs.Sub(webfs.TemplatesFS, "templates")
	require.NoError(t, err)
	static, err := fs.Sub(webfs.StaticFS, "static")
	require.NoError(t, err)

	server, err := NewServer(ServerConfig{
		Addr:        DefaultAddr,
		DataFile:    dataFile,
		Cache:       dataset.NewCache(),
		View:        testView(),
		TemplatesFS: templates,
		StaticFS:    static,
	})
	require.NoError(t, err)
	return server
}

func TestDashboard(t *testing.T) {
	server := newTestServer(t, testCSV)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "4</strong> of 4 songs")
	assert.Contains(t, body, "Deep Purple")
	assert.Contains(t, body, "Highway Star")
}

func TestDashboardColorsSurviveEscaping(t *testing.T) {
	server := newTestServer(t, testCSV)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	// The histogram and artist bars carry hsl() backgrounds; if the CSS
	// sanitizer rejected them it would substitute its failsafe token and
	// the bars would render transparent.
	assert.Contains(t, body, "hsl(")
	assert.NotContains(t, body, "ZgotmplZ")
}

func TestDashboardNoData(t *testing.T) {
	server := newTestServer(t, "")

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "No data found")
}

func TestApplyFiltersRoundTrip(t *testing.T) {
	server := newTestServer(t, testCSV)

	form := url.Values{
		"artists":      {"Deep Purple"},
		"polarity_min": {"-1"},
		"polarity_max": {"1"},
	}
	req := httptest.NewRequest(http.MethodPost, "/filters", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	// The filtered dashboard only counts Deep Purple songs.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "2</strong> of 4 songs")
}

func TestApplyFiltersRejectsBadPolarity(t *testing.T) {
	server := newTestServer(t, testCSV)

	form := url.Values{"polarity_min": {"not-a-number"}}
	req := httptest.NewRequest(http.MethodPost, "/filters", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResetFiltersClearsSession(t *testing.T) {
	server := newTestServer(t, testCSV)

	form := url.Values{
		"artists":      {"Deep Purple"},
		"polarity_min": {"-1"},
		"polarity_max": {"1"},
	}
	req := httptest.NewRequest(http.MethodPost, "/filters", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	cookies := rec.Result().Cookies()

	req = httptest.NewRequest(http.MethodPost, "/filters/reset", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	// Back to the unrestricted view.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	assert.Contains(t, rec.Body.String(), "4</strong> of 4 songs")
}

func TestSummaryAPI(t *testing.T) {
	server := newTestServer(t, testCSV)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/summary", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Count        int      `json:"count"`
		MeanPolarity *float64 `json:"mean_polarity"`
		MaxPolarity  *float64 `json:"max_polarity"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Count)
	require.NotNil(t, resp.MeanPolarity)
	require.NotNil(t, resp.MaxPolarity)
	assert.InDelta(t, 0.35, *resp.MaxPolarity, 1e-9)
}

func TestSummaryAPISessionFilter(t *testing.T) {
	server := newTestServer(t, testCSV)

	form := url.Values{
		"languages":    {"pt"},
		"polarity_min": {"-1"},
		"polarity_max": {"1"},
	}
	req := httptest.NewRequest(http.MethodPost, "/filters", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	cookies := rec.Result().Cookies()

	req = httptest.NewRequest(http.MethodGet, "/api/summary", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	var resp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
}

func TestExtremesAPI(t *testing.T) {
	server := newTestServer(t, testCSV)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/extremes", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		TopPositive []struct {
			Title    string  `json:"title"`
			Polarity float64 `json:"polarity"`
		} `json:"top_positive"`
		TopNegative []struct {
			Title string `json:"title"`
		} `json:"top_negative"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.TopPositive)
	require.NotEmpty(t, resp.TopNegative)
	assert.Equal(t, "Highway Star", resp.TopPositive[0].Title)
	assert.Equal(t, "Paint It Black", resp.TopNegative[0].Title)
}

func TestAPIsUnavailableWithoutData(t *testing.T) {
	server := newTestServer(t, "")

	for _, path := range []string{
		"/api/summary", "/api/artists", "/api/histogram",
		"/api/scatter", "/api/extremes", "/api/words",
	} {
		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "error", path)
	}
}

func TestHistogramAPI(t *testing.T) {
	server := newTestServer(t, testCSV)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/histogram", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var bins []struct {
		Low   float64 `json:"low"`
		High  float64 `json:"high"`
		Count int     `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bins))
	require.Len(t, bins, 25)

	total := 0
	for _, b := range bins {
		total += b.Count
	}
	assert.Equal(t, 4, total)
}

func TestWordsAPI(t *testing.T) {
	server := newTestServer(t, testCSV)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/words", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var words []struct {
		Word  string `json:"word"`
		Count int    `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &words))
	require.NotEmpty(t, words)
	// "painted" and "tonight" both appear twice; alphabetical tie-break
	// puts "painted" first.
	assert.Equal(t, "painted", words[0].Word)
	assert.Equal(t, 2, words[0].Count)
}

func TestStaticAssetsServed(t *testing.T) {
	server := newTestServer(t, testCSV)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/style.css", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "dashboard")
}

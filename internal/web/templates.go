package web

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"math"
	"path/filepath"

	"github.com/elderkiyo/lyricmood/internal/sentiment"
)

// Templates manages HTML template rendering.
type Templates struct {
	templates map[string]*template.Template
	funcs     template.FuncMap
}

// NewTemplates creates a new template manager by loading templates from the given filesystem.
func NewTemplates(templatesFS fs.FS) (*Templates, error) {
	t := &Templates{
		templates: make(map[string]*template.Template),
		funcs:     defaultFuncs(),
	}

	if err := t.load(templatesFS); err != nil {
		return nil, err
	}

	return t, nil
}

// Render renders a page template with the given data.
func (t *Templates) Render(w io.Writer, page string, data any) error {
	tmpl, ok := t.templates[page]
	if !ok {
		return fmt.Errorf("template %q not found", page)
	}

	// Execute the "base" template which includes the page content
	return tmpl.ExecuteTemplate(w, "base", data)
}

// load parses all templates from the filesystem.
func (t *Templates) load(templatesFS fs.FS) error {
	layouts, err := fs.Glob(templatesFS, "layouts/*.html")
	if err != nil {
		return fmt.Errorf("finding layouts: %w", err)
	}

	partials, err := fs.Glob(templatesFS, "partials/*.html")
	if err != nil {
		return fmt.Errorf("finding partials: %w", err)
	}

	pages, err := fs.Glob(templatesFS, "pages/*.html")
	if err != nil {
		return fmt.Errorf("finding pages: %w", err)
	}

	// Every page gets the layouts plus the shared partials.
	commonFiles := append(layouts, partials...)

	for _, page := range pages {
		name := filepath.Base(page)
		name = name[:len(name)-len(".html")]

		files := append([]string{page}, commonFiles...)

		tmpl, err := template.New(name).Funcs(t.funcs).ParseFS(templatesFS, files...)
		if err != nil {
			return fmt.Errorf("parsing template %s: %w", name, err)
		}

		t.templates[name] = tmpl
	}

	return nil
}

// defaultFuncs returns the default template functions.
func defaultFuncs() template.FuncMap {
	return template.FuncMap{
		// polarity formats a polarity score with three decimals, the way
		// the metric cards show them. NaN renders as a dash.
		"polarity": func(p float64) string {
			if math.IsNaN(p) {
				return "–"
			}
			return fmt.Sprintf("%.3f", p)
		},

		// polarityColor maps a polarity in [-1, 1] to an HSL color from
		// red (negative) through yellow to green (positive). The value is
		// typed CSS: a plain string with parentheses would be rejected by
		// the style-attribute sanitizer.
		"polarityColor": func(p float64) template.CSS {
			if math.IsNaN(p) {
				return "hsl(0, 0%, 60%)"
			}
			if p < -1 {
				p = -1
			}
			if p > 1 {
				p = 1
			}
			hue := (p + 1) / 2 * 120
			return template.CSS(fmt.Sprintf("hsl(%.0f, 70%%, 45%%)", hue))
		},
	}
}

// PageData contains common data passed to all page templates.
type PageData struct {
	Title       string
	CurrentPath string
}

// Option is one entry of a filter multi-select.
type Option struct {
	Value    string
	Selected bool
}

// MetricCards holds the formatted summary metric row.
type MetricCards struct {
	Count        int
	MeanPolarity float64
	MaxPolarity  float64
	Valid        bool
}

// BarView is one horizontal bar of the histogram or artist chart.
// Percent is the bar width relative to the largest bar.
type BarView struct {
	Label   string
	Value   float64
	Count   int
	Percent float64
}

// SongView is one entry of the positive/negative leaderboards.
type SongView struct {
	Rank     int
	Title    string
	Artist   string
	Polarity float64
	Excerpt  string
}

// WordView is one word of the cloud panel, with a font size scaled by
// frequency.
type WordView struct {
	Word  string
	Count int
	Size  int // px
}

// DashboardPageData contains data for the dashboard page template.
type DashboardPageData struct {
	PageData
	TotalCount      int
	FilteredCount   int
	Metrics         MetricCards
	Filter          sentiment.Filter
	ArtistOptions   []Option
	LanguageOptions []Option
	BoundsMin       float64
	BoundsMax       float64
	Histogram       []BarView
	TopArtists      []BarView
	TopPositive     []SongView
	TopNegative     []SongView
	Words           []WordView
}

// NoDataPageData contains data for the "no data" page template.
type NoDataPageData struct {
	PageData
	DataFile string
}

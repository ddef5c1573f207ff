package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/elderkiyo/lyricmood/internal/sentiment"
)

// Column names as written by the upstream pipeline.
const (
	colTitle    = "titulo"
	colArtist   = "artista"
	colLyrics   = "letra"
	colLanguage = "idioma_detectado"
	colPolarity = "sent_polarity"
	colLength   = "tam_letra"
)

var requiredColumns = []string{colArtist, colTitle, colLyrics, colLanguage, colPolarity, colLength}

// Dataset is the loaded sentiment table plus the derived facts the filter
// sidebar needs. It is read-only after Load returns.
type Dataset struct {
	Songs       []sentiment.Song
	Artists     []string // sorted unique
	Languages   []string // sorted unique
	MinPolarity float64
	MaxPolarity float64
}

// Load reads the sentiment CSV at path. A missing or unreadable file, or a
// file with zero usable rows, yields an error wrapping ErrDataUnavailable.
// A header missing a required column yields a SchemaError. Rows with
// malformed numeric cells are skipped and logged, not fatal.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", ErrDataUnavailable, path, err)
	}
	defer f.Close()

	ds, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ds, nil
}

// Read parses a sentiment CSV from r. See Load for the error contract.
func Read(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // row width validated per record below

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrDataUnavailable)
		}
		return nil, fmt.Errorf("%w: reading header: %v", ErrDataUnavailable, err)
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var songs []sentiment.Song
	for row := 2; ; row++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			slog.Warn("skipping unreadable row", "row", row, "error", err)
			continue
		}

		song, err := parseRow(record, cols)
		if err != nil {
			slog.Warn("skipping malformed row", "row", row, "error", err)
			continue
		}
		songs = append(songs, song)
	}

	if len(songs) == 0 {
		return nil, fmt.Errorf("%w: no usable rows", ErrDataUnavailable)
	}

	return build(songs), nil
}

// mapColumns resolves header names to indexes. The first cell may carry a
// UTF-8 byte-order mark written by the upstream pipeline.
func mapColumns(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\uFEFF")
		}
		cols[strings.TrimSpace(name)] = i
	}

	for _, required := range requiredColumns {
		if _, ok := cols[required]; !ok {
			return nil, &SchemaError{Column: required}
		}
	}
	return cols, nil
}

func parseRow(record []string, cols map[string]int) (sentiment.Song, error) {
	cell := func(name string) (string, error) {
		idx := cols[name]
		if idx >= len(record) {
			return "", fmt.Errorf("row has %d fields, column %q is at %d", len(record), name, idx)
		}
		return record[idx], nil
	}

	var song sentiment.Song
	var err error
	if song.Title, err = cell(colTitle); err != nil {
		return sentiment.Song{}, err
	}
	if song.Artist, err = cell(colArtist); err != nil {
		return sentiment.Song{}, err
	}
	if song.Lyrics, err = cell(colLyrics); err != nil {
		return sentiment.Song{}, err
	}
	if song.DetectedLanguage, err = cell(colLanguage); err != nil {
		return sentiment.Song{}, err
	}

	polarityText, err := cell(colPolarity)
	if err != nil {
		return sentiment.Song{}, err
	}
	song.Polarity, err = strconv.ParseFloat(strings.TrimSpace(polarityText), 64)
	if err != nil {
		return sentiment.Song{}, fmt.Errorf("parsing %s: %w", colPolarity, err)
	}

	lengthText, err := cell(colLength)
	if err != nil {
		return sentiment.Song{}, err
	}
	song.LyricLength, err = strconv.Atoi(strings.TrimSpace(lengthText))
	if err != nil {
		return sentiment.Song{}, fmt.Errorf("parsing %s: %w", colLength, err)
	}

	return song, nil
}

// build derives the sidebar facts from the loaded rows.
func build(songs []sentiment.Song) *Dataset {
	artistSet := make(map[string]bool)
	languageSet := make(map[string]bool)
	min, max := songs[0].Polarity, songs[0].Polarity

	for _, s := range songs {
		artistSet[s.Artist] = true
		languageSet[s.DetectedLanguage] = true
		if s.Polarity < min {
			min = s.Polarity
		}
		if s.Polarity > max {
			max = s.Polarity
		}
	}

	return &Dataset{
		Songs:       songs,
		Artists:     sortedKeys(artistSet),
		Languages:   sortedKeys(languageSet),
		MinPolarity: min,
		MaxPolarity: max,
	}
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FullRange returns the filter that restricts nothing: every artist and
// language, and the table's own polarity bounds.
func (d *Dataset) FullRange() sentiment.Filter {
	return sentiment.Filter{
		PolarityMin: d.MinPolarity,
		PolarityMax: d.MaxPolarity,
	}
}

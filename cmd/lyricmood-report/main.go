// Command lyricmood-report prints the dashboard's summary views to the
// terminal, for quick inspection without starting the web server.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/elderkiyo/lyricmood/internal/config"
	"github.com/elderkiyo/lyricmood/internal/dataset"
	"github.com/elderkiyo/lyricmood/internal/logging"
	"github.com/elderkiyo/lyricmood/internal/sentiment"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logging.Init(cfg.LogLevel, cfg.LogFormat)

	dataFile := flag.String("data", cfg.DataFile, "path to the sentiment CSV")
	flag.Parse()

	ds, err := dataset.Load(*dataFile)
	if err != nil {
		return err
	}

	songs := ds.Songs

	color.Cyan("=== Lyric Sentiment Report ===")
	fmt.Printf("Source: %s\n", *dataFile)

	printSummary(songs)
	printTopArtists(songs, cfg.TopArtists)
	printExtremes(songs, cfg.ExtremeSongs)

	return nil
}

func printSummary(songs []sentiment.Song) {
	m := sentiment.SummaryMetrics(songs)

	color.Yellow("\nSummary")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Songs", "Mean Polarity", "Max Polarity"})
	table.Append([]string{
		strconv.Itoa(m.Count),
		formatPolarity(m.MeanPolarity),
		formatPolarity(m.MaxPolarity),
	})
	table.Render()
}

func printTopArtists(songs []sentiment.Song, k int) {
	ranked := sentiment.TopArtistsByMeanPolarity(songs, k)

	color.Yellow("\nTop %d Artists by Mean Polarity", len(ranked))
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Rank", "Artist", "Mean Polarity", "Songs"})
	for i, a := range ranked {
		table.Append([]string{
			strconv.Itoa(i + 1),
			a.Artist,
			formatPolarity(a.MeanPolarity),
			strconv.Itoa(a.Songs),
		})
	}
	table.Render()
}

func printExtremes(songs []sentiment.Song, k int) {
	positive, negative := sentiment.RankExtremes(songs, k)

	color.Green("\nTop %d Positive Songs", len(positive))
	printSongs(positive)

	color.Red("\nTop %d Negative Songs", len(negative))
	printSongs(negative)
}

func printSongs(songs []sentiment.Song) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Rank", "Title", "Artist", "Language", "Polarity", "Words"})
	for i, s := range songs {
		table.Append([]string{
			strconv.Itoa(i + 1),
			s.Title,
			s.Artist,
			s.DetectedLanguage,
			formatPolarity(s.Polarity),
			strconv.Itoa(s.LyricLength),
		})
	}
	table.Render()
}

func formatPolarity(p float64) string {
	if math.IsNaN(p) {
		return "-"
	}
	return strconv.FormatFloat(p, 'f', 3, 64)
}

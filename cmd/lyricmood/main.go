// Command lyricmood runs the lyric sentiment dashboard web application.
package main

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/elderkiyo/lyricmood/internal/config"
	"github.com/elderkiyo/lyricmood/internal/dataset"
	"github.com/elderkiyo/lyricmood/internal/logging"
	"github.com/elderkiyo/lyricmood/internal/web"
	webfs "github.com/elderkiyo/lyricmood/web"
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

	// Create sub-filesystems for templates and static files
	templates, err := fs.Sub(webfs.TemplatesFS, "templates")
	if err != nil {
		return fmt.Errorf("creating templates filesystem: %w", err)
	}

	static, err := fs.Sub(webfs.StaticFS, "static")
	if err != nil {
		return fmt.Errorf("creating static filesystem: %w", err)
	}

	server, err := web.NewServer(web.ServerConfig{
		Addr:     cfg.Addr,
		DataFile: cfg.DataFile,
		Cache:    dataset.NewCache(),
		View: web.ViewConfig{
			TopArtists:    cfg.TopArtists,
			ExtremeSongs:  cfg.ExtremeSongs,
			HistogramBins: cfg.HistogramBins,
			WordCloudSize: cfg.WordCloudSize,
			ExcerptChars:  cfg.ExcerptChars,
		},
		TemplatesFS: templates,
		StaticFS:    static,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	return server.Run()
}

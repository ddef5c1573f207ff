// Package config loads dashboard configuration from an optional
// lyricmood.yaml, environment variables, and defaults.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	configFileName = "lyricmood"
	configFileType = "yaml"
	envPrefix      = "LYRICMOOD"
)

// Config holds every tunable of the dashboard.
type Config struct {
	Addr          string `mapstructure:"addr"`
	DataFile      string `mapstructure:"data_file"`
	TopArtists    int    `mapstructure:"top_artists"`
	ExtremeSongs  int    `mapstructure:"extreme_songs"`
	HistogramBins int    `mapstructure:"histogram_bins"`
	WordCloudSize int    `mapstructure:"word_cloud_size"`
	ExcerptChars  int    `mapstructure:"excerpt_chars"`
	LogLevel      string `mapstructure:"log_level"`
	LogFormat     string `mapstructure:"log_format"`
}

// Load reads configuration. Precedence: environment variables
// (LYRICMOOD_*), then lyricmood.yaml in the working directory, then
// defaults. A missing config file is not an error.
func Load() (*Config, error) {
	// .env files are a convenience for local runs.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(".")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", "127.0.0.1:8080")
	v.SetDefault("data_file", "analise_sentimento_outputs/letras_sentimento.csv")
	v.SetDefault("top_artists", 20)
	v.SetDefault("extreme_songs", 10)
	v.SetDefault("histogram_bins", 25)
	v.SetDefault("word_cloud_size", 50)
	v.SetDefault("excerpt_chars", 300)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
}

func validate(cfg *Config) error {
	if cfg.Addr == "" {
		return errors.New("addr must not be empty")
	}
	if cfg.DataFile == "" {
		return errors.New("data_file must not be empty")
	}
	for name, value := range map[string]int{
		"top_artists":     cfg.TopArtists,
		"extreme_songs":   cfg.ExtremeSongs,
		"histogram_bins":  cfg.HistogramBins,
		"word_cloud_size": cfg.WordCloudSize,
		"excerpt_chars":   cfg.ExcerptChars,
	} {
		if value <= 0 {
			return fmt.Errorf("%s must be positive, got %d", name, value)
		}
	}
	return nil
}

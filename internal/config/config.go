package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/justin-/privacybadgerfirefox/internal/domain"
)

type Config struct {
	HTTPAddr        string
	ListURL         string        // where to fetch the Public Suffix List
	ListFile        string        // optional local list; disables fetching when set
	RefreshInterval time.Duration // how often to refetch the list
	FixtureURLs     []string      // request URLs always classified third-party
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found, using system environment")
	}

	cfg := Config{
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		ListURL:     getenv("PSL_URL", "https://publicsuffix.org/list/public_suffix_list.dat"),
		ListFile:    getenv("PSL_FILE", ""),
		FixtureURLs: domain.DefaultFixtureURLs,
	}

	intervalStr := getenv("PSL_REFRESH_INTERVAL", "24h")
	d, err := time.ParseDuration(intervalStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid PSL_REFRESH_INTERVAL=%q: %w", intervalStr, err)
	}
	if d < time.Hour {
		return Config{}, fmt.Errorf("PSL_REFRESH_INTERVAL too small (%s), must be >=1h", d)
	}
	if d > 7*24*time.Hour {
		return Config{}, fmt.Errorf("PSL_REFRESH_INTERVAL too large (%s), must be <=168h", d)
	}
	cfg.RefreshInterval = d

	if raw := os.Getenv("FIXTURE_URLS"); raw != "" {
		var urls []string
		for _, u := range strings.Split(raw, ",") {
			if u = strings.TrimSpace(u); u != "" {
				urls = append(urls, u)
			}
		}
		cfg.FixtureURLs = urls
	}

	if cfg.ListURL == "" && cfg.ListFile == "" {
		return Config{}, fmt.Errorf("one of PSL_URL or PSL_FILE must be set")
	}

	return cfg, nil
}

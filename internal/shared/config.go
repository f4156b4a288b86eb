package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv        string
	HTTPAddr      string
	MetricsAddr   string
	MySQLDSN      string
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	ExtractorBase string
	ExtractorKey  string
	ExtractorRPS  int
	Workers       int
	CacheTTL      time.Duration

	// Regenerator inputs: which properties to sweep, and where the room
	// type descriptors live.
	PropertyIDs []string
	RoomsFile   string
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:        env("APP_ENV", "prod"),
		HTTPAddr:      env("HTTP_ADDR", ":8080"),
		MetricsAddr:   env("METRICS_ADDR", ":9100"),
		MySQLDSN:      env("MYSQL_DSN", "root:root@tcp(localhost:3306)/pricing?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:     env("REDIS_ADDR", "localhost:6379"),
		RedisPass:     env("REDIS_PASSWORD", ""),
		RedisDB:       atoi("REDIS_DB", 0),
		ExtractorBase: env("EXTRACTOR_BASE_URL", "https://extract.olympichub.travel/api"),
		ExtractorKey:  env("EXTRACTOR_API_KEY", ""),
		ExtractorRPS:  atoi("EXTRACTOR_RPS", 5),
		Workers:       atoi("REGEN_WORKERS", 8),
		CacheTTL:      time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		RoomsFile:     env("ROOMS_FILE", "rooms.json"),
	}
	if ids := env("PROPERTY_IDS", ""); ids != "" {
		for _, id := range strings.Split(ids, ",") {
			if id = strings.TrimSpace(id); id != "" {
				c.PropertyIDs = append(c.PropertyIDs, id)
			}
		}
	}
	if c.ExtractorKey == "" {
		log.Warn().Msg("EXTRACTOR_API_KEY is empty; the extractor client will refuse to start")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"metrogo/internal/geo"
	"metrogo/internal/mapview"
)

type Config struct {
	HTTPAddr        string
	TickInterval    time.Duration
	VehiclesPerLine int
	Seed            uint64
	NetworkFile     string
	DatabaseURL     string
	NATSURL         string
	SubjectPrefix   string
	PublishInterval time.Duration
	LogNATSSubjects bool
	MetricsAddr     string
	MapCenter       geo.LatLng
	TileBaseURL     string
	PreviewTileURL  string
	ChatReplyDelay  time.Duration
	CORSOrigins     []string
}

func Load() (*Config, error) {
	// Load .env into environment (ignore if missing)
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr:       getenvDefault("HTTP_ADDR", ":8080"),
		NetworkFile:    os.Getenv("NETWORK_FILE"),
		NATSURL:        os.Getenv("NATS_URL"),
		SubjectPrefix:  getenvDefault("NATS_SUBJECT_PREFIX", "vehicles"),
		MetricsAddr:    os.Getenv("METRICS_ADDR"),
		TileBaseURL:    getenvDefault("TILE_BASE_URL", geo.OSMTileBase),
		PreviewTileURL: getenvDefault("PREVIEW_TILE_BASE_URL", geo.CartoDarkTileBase),
		MapCenter:      mapview.DefaultCenter,
	}

	var err error
	if cfg.TickInterval, err = millis("TICK_INTERVAL_MS", 50, false); err != nil {
		return nil, err
	}
	if cfg.PublishInterval, err = millis("PUBLISH_INTERVAL_MS", 1000, false); err != nil {
		return nil, err
	}
	// A zero delay makes the support bot answer synchronously.
	if cfg.ChatReplyDelay, err = millis("CHAT_REPLY_DELAY_MS", 1000, true); err != nil {
		return nil, err
	}

	if v := os.Getenv("VEHICLES_PER_LINE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid VEHICLES_PER_LINE: %q", v)
		}
		cfg.VehiclesPerLine = n
	} else {
		cfg.VehiclesPerLine = 2
	}

	if v := os.Getenv("SIM_SEED"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid SIM_SEED: %q", v)
		}
		cfg.Seed = n
	}

	if cfg.MapCenter.Lat, err = coord("MAP_CENTER_LAT", cfg.MapCenter.Lat, 85); err != nil {
		return nil, err
	}
	if cfg.MapCenter.Lng, err = coord("MAP_CENTER_LNG", cfg.MapCenter.Lng, 180); err != nil {
		return nil, err
	}

	cfg.LogNATSSubjects = parseBool(os.Getenv("LOG_NATS_SUBJECTS"))

	for _, o := range strings.Split(getenvDefault("CORS_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	cfg.DatabaseURL = databaseURL()
	return cfg, nil
}

// databaseURL prefers DATABASE_URL / PG_DSN and otherwise builds a DSN
// from PG* vars. Without PGDATABASE there is no database to load from.
func databaseURL() string {
	if dsn := firstNonEmpty(os.Getenv("DATABASE_URL"), os.Getenv("PG_DSN")); dsn != "" {
		return dsn
	}
	db := os.Getenv("PGDATABASE")
	if db == "" {
		return ""
	}
	host := getenvDefault("PGHOST", "127.0.0.1")
	port := getenvDefault("PGPORT", "5432")
	user := getenvDefault("PGUSER", "postgres")
	pass := os.Getenv("PGPASSWORD")
	sslmode := getenvDefault("PGSSLMODE", "disable")
	if pass != "" {
		return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", urlEscape(user), urlEscape(pass), host, port, db, sslmode)
	}
	return fmt.Sprintf("postgres://%s@%s:%s/%s?sslmode=%s", urlEscape(user), host, port, db, sslmode)
}

func millis(key string, def int, allowZero bool) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return time.Duration(def) * time.Millisecond, nil
	}
	ms, err := strconv.Atoi(v)
	if err != nil || ms < 0 || (ms == 0 && !allowZero) {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

func coord(key string, def, limit float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < -limit || f > limit {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return f, nil
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	}
	return false
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func urlEscape(s string) string {
	// Minimal escape for DSN user/pass with special chars
	r := strings.NewReplacer("@", "%40", ":", "%3A", "/", "%2F", "?", "%3F", "#", "%23")
	return r.Replace(s)
}

package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is immutable after Load returns.
type Config struct {
	SearchKeywords []string
	KnownBikes     []string

	LocationMode string // "restricted" or "anywhere"
	TargetArea   string

	EBayThreshold    float64
	GumtreeThreshold float64

	EnableEBay        bool
	EnableGumtree     bool
	ClearCacheOnStart bool
	EnableDebugLog    bool

	CacheDir    string
	RateLimitMs int
	MaxRetries  int

	CSVOutputPath string
	ChromeBin     string

	MatchDBEnabled   bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		SearchKeywords: getEnvList("SEARCH_KEYWORDS", []string{"bike"}),
		KnownBikes:     getEnvList("KNOWN_BIKES", []string{"Trek", "Carrera", "Specialised"}),

		LocationMode: getEnv("LOCATION_MODE", "restricted"),
		TargetArea:   getEnv("TARGET_AREA", "edinburgh"),

		EBayThreshold:    getEnvFloat("EBAY_RATIO", 0.2),
		GumtreeThreshold: getEnvFloat("GUMTREE_RATIO", 0.05),

		EnableEBay:        getEnvBool("ENABLE_EBAY", true),
		EnableGumtree:     getEnvBool("ENABLE_GUMTREE", true),
		ClearCacheOnStart: getEnvBool("CLEAR_CACHE_ON_START", false),
		EnableDebugLog:    getEnvBool("ENABLE_DEBUG_LOG", false),

		CacheDir:    getEnv("CACHE_DIR", defaultCacheDir()),
		RateLimitMs: getEnvInt("RATE_LIMIT_MS", 2100),
		MaxRetries:  getEnvInt("MAX_RETRIES", 3),

		CSVOutputPath: getEnv("CSV_OUTPUT_PATH", "./output/matches.csv"),
		ChromeBin:     getEnv("CHROME_BIN", ""),

		MatchDBEnabled:   getEnvBool("MATCH_DB_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "bikewatch"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "bikewatch123"),
		PostgresDB:       getEnv("POSTGRES_DB", "bikewatch_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
	}
}

// SeenEBayPath is the JSON set file tracking already-processed eBay listings.
func (c *Config) SeenEBayPath() string {
	return filepath.Join(c.CacheDir, "seen_ebay.json")
}

// SeenGumtreePath is the append-log file tracking already-processed Gumtree listings.
func (c *Config) SeenGumtreePath() string {
	return filepath.Join(c.CacheDir, "seen_gumtree.txt")
}

// DSN returns the PostgreSQL connection string for the match archive.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func defaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return ".cache"
	}
	return filepath.Join(base, "bikewatch")
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

// getEnvList splits a comma-separated value, trimming whitespace and
// dropping empty entries so the matcher never sees a blank keyword.
func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

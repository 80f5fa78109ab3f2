package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all pipeline configuration loaded from environment variables.
// The defaults reproduce the fixed file layout under ./data.
type Config struct {
	RawDir       string
	ProcessedDir string
	CrashFiles   []string
	VehicleFiles []string
	SplitSeed    int64
	TestSize     float64
	LogLevel     string

	PGExport         bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
	PGMaxRetries     int
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current process environment only.
func FromEnv() *Config {
	return &Config{
		RawDir:       getEnv("RAW_DIR", "./data/raw"),
		ProcessedDir: getEnv("PROCESSED_DIR", "./data/processed"),
		CrashFiles: getEnvList("CRASH_FILES",
			[]string{"crashdata2011-2021.csv", "crashdata2022-present.csv"}),
		VehicleFiles: getEnvList("VEHICLE_FILES",
			[]string{"vehiclecrashdata2011-2021.csv", "vehiclecrashdata2022-present.csv"}),
		SplitSeed: int64(getEnvInt("SPLIT_SEED", 42)),
		TestSize:  getEnvFloat("TEST_SIZE", 0.2),
		LogLevel:  getEnv("LOG_LEVEL", "info"),

		PGExport:         getEnvBool("PG_EXPORT", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "crash"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "crash123"),
		PostgresDB:       getEnv("POSTGRES_DB", "crash_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		PGMaxRetries:     getEnvInt("PG_MAX_RETRIES", 5),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// CrashPaths returns the raw crash extracts in concatenation order.
func (c *Config) CrashPaths() []string { return c.rawPaths(c.CrashFiles) }

// VehiclePaths returns the raw vehicle extracts in concatenation order.
func (c *Config) VehiclePaths() []string { return c.rawPaths(c.VehicleFiles) }

func (c *Config) rawPaths(files []string) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = filepath.Join(c.RawDir, f)
	}
	return out
}

// Processed returns the path of a file inside the processed directory.
func (c *Config) Processed(name string) string {
	return filepath.Join(c.ProcessedDir, name)
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

func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

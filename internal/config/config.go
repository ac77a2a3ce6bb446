package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ProjectID string
	Region    string
	LogLevel  string
	LogFile   string
	Port      int

	FirestoreDatabase string
	KMSKeyName        string
	VertexModel       string

	// Alpha Vantage key sources, tried in order: plain text, KMS
	// ciphertext, Secret Manager secret id.
	AlphaVantageKey           string
	AlphaVantageKeyCiphertext string
	AlphaVantageSecret        string
	AlphaVantageURL           string
	AlphaCacheTTLDaily        time.Duration
	AlphaCacheTTLIntraday     time.Duration

	GenerationTTL      time.Duration
	DatasetConcurrency int
}

func New() *Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	return &Config{
		ProjectID:                 os.Getenv("PROJECTID"),
		Region:                    os.Getenv("REGION"),
		LogLevel:                  os.Getenv("LOGLEVEL"),
		LogFile:                   os.Getenv("LOGFILE"),
		Port:                      getEnvInt("PORT", 8080),
		FirestoreDatabase:         os.Getenv("FIRESTOREDATABASE"),
		KMSKeyName:                os.Getenv("KMSKEYNAME"),
		VertexModel:               os.Getenv("VERTEXMODEL"),
		AlphaVantageKey:           os.Getenv("ALPHAVANTAGEKEY"),
		AlphaVantageKeyCiphertext: os.Getenv("ALPHAVANTAGEKEYCIPHERTEXT"),
		AlphaVantageSecret:        os.Getenv("ALPHAVANTAGESECRET"),
		AlphaVantageURL:           os.Getenv("ALPHAVANTAGEURL"),
		AlphaCacheTTLDaily:        getEnvDuration("ALPHACACHETTLDAILY", 6*time.Hour),
		AlphaCacheTTLIntraday:     getEnvDuration("ALPHACACHETTLINTRADAY", 15*time.Minute),
		GenerationTTL:             getEnvDuration("GENERATIONTTL", 30*24*time.Hour),
		DatasetConcurrency:        getEnvInt("DATASETCONCURRENCY", 4),
	}
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// getEnvDuration accepts Go durations ("6h") or a bare number of
// milliseconds.
func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if ms, err := strconv.ParseInt(v, 10, 64); err == nil && ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return def
}

package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	MySQLDSN   string
	RedisURL   string
	JWTSecret  string
	IndexerURL string
	MirrorURL  string
	Port       string

	// CacheEnabled gates the response cache; disabling it changes latency
	// only, never response content.
	CacheEnabled  bool
	CacheTTL      time.Duration
	SpamThreshold uint32
	PageSize      int
	WorkerPool    int
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		if def == "" {
			log.Fatalf("missing env %s", key)
		}
		return def
	}
	return v
}

func getint(key string, def int) int {
	v, err := strconv.Atoi(getenv(key, strconv.Itoa(def)))
	if err != nil {
		log.Fatalf("bad env %s: %v", key, err)
	}
	return v
}

func Load() Config {
	return Config{
		MySQLDSN:      getenv("MYSQL_DSN", "govforum:govforum@tcp(127.0.0.1:3306)/govforum?parseTime=true"),
		RedisURL:      getenv("REDIS_URL", "redis://127.0.0.1:6379/0"),
		JWTSecret:     getenv("JWT_SECRET", "dev-only-secret"),
		IndexerURL:    getenv("INDEXER_URL", "https://squid.subsquid.io/gov/graphql"),
		MirrorURL:     getenv("MIRROR_URL", "https://polkadot.subsquare.io/api"),
		Port:          getenv("PORT", "8080"),
		CacheEnabled:  getenv("CACHE_ENABLED", "true") == "true",
		CacheTTL:      time.Duration(getint("CACHE_TTL_SECONDS", 300)) * time.Second,
		SpamThreshold: uint32(getint("SPAM_THRESHOLD", 50)),
		PageSize:      getint("PAGE_SIZE", 25),
		WorkerPool:    getint("WORKER_POOL", 8),
	}
}

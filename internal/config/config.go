package config

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Config holds application configuration from environment.
type Config struct {
	HTTPPort        string
	APIPrefix       string
	LogLevel        string
	RedisURL        string
	RedisPoolSize   int
	CacheTTL        int // seconds
	KafkaBrokers    []string
	KafkaTopic      string
	KafkaPartitions int
	KafkaGroupID    string
	ServerURL       string
	InstanceID      string
}

var (
	cfg     *Config
	cfgOnce sync.Once
)

// Get returns the application config (loads once from env).
func Get() *Config {
	cfgOnce.Do(func() {
		cfg = Load()
	})
	return cfg
}

// Load reads a fresh config from the environment.
func Load() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		APIPrefix:       normalizePrefix(getEnv("API_PREFIX", "/api")),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		RedisURL:        os.Getenv("REDIS_URL"),
		RedisPoolSize:   getIntEnv("REDIS_POOL_SIZE", 50),
		CacheTTL:        getIntEnv("CACHE_TTL_SEC", 30),
		KafkaBrokers:    getSliceEnv("KAFKA_BROKERS"),
		KafkaTopic:      getEnv("KAFKA_TASK_TOPIC", "task-events"),
		KafkaPartitions: getIntEnv("KAFKA_PARTITIONS", 3),
		KafkaGroupID:    getEnv("KAFKA_GROUP_ID", "task-auditors"),
		ServerURL:       strings.TrimRight(getEnv("TASKBOARD_URL", "http://localhost:8080"), "/"),
		InstanceID:      getEnv("INSTANCE_ID", uuid.NewString()),
	}
}

// CacheEnabled reports whether a redis URL is configured.
func (c *Config) CacheEnabled() bool { return c.RedisURL != "" }

// EventsEnabled reports whether kafka brokers are configured.
func (c *Config) EventsEnabled() bool { return len(c.KafkaBrokers) > 0 }

// normalizePrefix turns "api", "/api/" and "/api" into "/api"; "" and "/" mean no prefix.
func normalizePrefix(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return defaultVal
}

func getSliceEnv(key string) []string {
	var out []string
	for _, s := range strings.Split(os.Getenv(key), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DefaultConfigPath is read when present; every value can be overridden from the environment.
var DefaultConfigPath = filepath.Join("config", "config.json")

// AppConfig holds file and environment driven configuration values.
type AppConfig struct {
	AppPort        string
	AllowedOrigins []string
	// SanitizeHTML strips unsafe markup from title and content before they are stored.
	SanitizeHTML bool
	// Gin framework configuration
	GinMode string
	GinPath string
	// Database: sqlite (default), mysql or postgres
	DBDriver    string
	DatabaseURI string
	DBPath      string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	// Redis backed response cache, off unless CacheEnabled
	CacheEnabled    bool
	CacheTTLSeconds int
	RedisHost       string
	RedisPort       int
	RedisDB         int
	RedisPassword   string
	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
	// Prometheus
	MetricsEnabled bool
	MetricsPath    string
}

// key -> environment variable
var envBindings = map[string]string{
	"app.appport":          "APP_PORT",
	"app.allowedorigins":   "CORS_ALLOWED_ORIGINS",
	"app.sanitizehtml":     "SANITIZE_HTML",
	"gin.mode":             "GIN_MODE",
	"gin.logpath":          "GIN_PATH",
	"database.dbdriver":    "DB_DRIVER",
	"database.databaseuri": "DATABASE_URI",
	"database.dbpath":      "DB_PATH",
	"database.dbhost":      "DB_HOST",
	"database.dbport":      "DB_PORT",
	"database.dbuser":      "DB_USER",
	"database.dbpassword":  "DB_PASSWORD",
	"database.dbname":      "DB_NAME",
	"cache.enabled":        "CACHE_ENABLED",
	"cache.ttlseconds":     "CACHE_TTL_SECONDS",
	"redis.redishost":      "REDIS_HOST",
	"redis.redisport":      "REDIS_PORT",
	"redis.redisdb":        "REDIS_DB",
	"redis.redispassword":  "REDIS_PASSWORD",
	"log.level":            "LOG_LEVEL",
	"log.path":             "LOG_PATH",
	"log.maxsizemb":        "LOG_MAX_SIZE_MB",
	"log.maxbackups":       "LOG_MAX_BACKUPS",
	"log.maxagedays":       "LOG_MAX_AGE_DAYS",
	"log.compress":         "LOG_COMPRESS",
	"metrics.enabled":      "METRICS_ENABLED",
	"metrics.path":         "METRICS_PATH",
}

// Load reads DefaultConfigPath and the environment. It should be called once during boot.
func Load() (AppConfig, error) {
	return LoadFrom(DefaultConfigPath)
}

// LoadFrom applies, in order: the JSON file at path (skipped when missing), defaults for
// anything unset, and environment variable overrides.
func LoadFrom(path string) (AppConfig, error) {
	v := viper.New()
	applyDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return AppConfig{}, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("json")
			if err := v.ReadInConfig(); err != nil {
				return AppConfig{}, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return AppConfig{}, fmt.Errorf("stat config %s: %w", path, err)
		}
	}

	cfg := AppConfig{
		AppPort:         v.GetString("app.appport"),
		AllowedOrigins:  stringList(v.Get("app.allowedorigins")),
		SanitizeHTML:    v.GetBool("app.sanitizehtml"),
		GinMode:         v.GetString("gin.mode"),
		GinPath:         v.GetString("gin.logpath"),
		DBDriver:        strings.ToLower(v.GetString("database.dbdriver")),
		DatabaseURI:     v.GetString("database.databaseuri"),
		DBPath:          v.GetString("database.dbpath"),
		DBHost:          v.GetString("database.dbhost"),
		DBPort:          v.GetString("database.dbport"),
		DBUser:          v.GetString("database.dbuser"),
		DBPassword:      v.GetString("database.dbpassword"),
		DBName:          v.GetString("database.dbname"),
		CacheEnabled:    v.GetBool("cache.enabled"),
		CacheTTLSeconds: v.GetInt("cache.ttlseconds"),
		RedisHost:       v.GetString("redis.redishost"),
		RedisPort:       v.GetInt("redis.redisport"),
		RedisDB:         v.GetInt("redis.redisdb"),
		RedisPassword:   v.GetString("redis.redispassword"),
		LogLevel:        strings.ToLower(v.GetString("log.level")),
		LogPath:         v.GetString("log.path"),
		LogMaxSizeMB:    v.GetInt("log.maxsizemb"),
		LogMaxBackups:   v.GetInt("log.maxbackups"),
		LogMaxAgeDays:   v.GetInt("log.maxagedays"),
		LogCompress:     v.GetBool("log.compress"),
		MetricsEnabled:  v.GetBool("metrics.enabled"),
		MetricsPath:     v.GetString("metrics.path"),
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	return cfg, nil
}

// applyDefaults sets sane defaults for every key.
func applyDefaults(v *viper.Viper) {
	v.SetDefault("app.appport", "8080")
	v.SetDefault("app.allowedorigins", []string{"*"})
	v.SetDefault("app.sanitizehtml", false)
	v.SetDefault("gin.mode", "release")
	v.SetDefault("gin.logpath", "logs/go_gin.log")
	v.SetDefault("database.dbdriver", "sqlite")
	v.SetDefault("database.dbpath", "blogposts.db")
	v.SetDefault("database.dbhost", "127.0.0.1")
	v.SetDefault("database.dbuser", "root")
	v.SetDefault("database.dbname", "blogposts")
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.ttlseconds", 3600)
	v.SetDefault("redis.redishost", "127.0.0.1")
	v.SetDefault("redis.redisport", 6379)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.maxsizemb", 100)
	v.SetDefault("log.maxbackups", 3)
	v.SetDefault("log.maxagedays", 7)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

// stringList accepts a JSON array or a comma separated environment value.
func stringList(raw any) []string {
	items := []string{}
	switch t := raw.(type) {
	case string:
		for _, item := range strings.Split(t, ",") {
			if trimmed := strings.TrimSpace(item); trimmed != "" {
				items = append(items, trimmed)
			}
		}
	case []string:
		for _, item := range t {
			if trimmed := strings.TrimSpace(item); trimmed != "" {
				items = append(items, trimmed)
			}
		}
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				items = append(items, strings.TrimSpace(s))
			}
		}
	}
	return items
}

package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	CORSOrigins       string `mapstructure:"CORS_ORIGINS"`
	TrustedProxies    string `mapstructure:"TRUSTED_PROXIES"`

	// Mongo configuration.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB   int    `mapstructure:"REDIS_CACHE_DB"`
	RedisContextDB int    `mapstructure:"REDIS_CONTEXT_DB"`
	RedisQueueDB   int    `mapstructure:"REDIS_QUEUE_DB"`

	// AI collaborator.
	GeminiAPIKey     string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel      string `mapstructure:"GEMINI_MODEL"`
	AITimeoutSeconds int    `mapstructure:"AI_TIMEOUT_SECONDS"`

	// Calendar engine.
	AnalyticsCacheTTLSeconds int    `mapstructure:"ANALYTICS_CACHE_TTL_SECONDS"`
	AnalyticsCacheSize       int    `mapstructure:"ANALYTICS_CACHE_SIZE"`
	SearchContextTTLMinutes  int    `mapstructure:"SEARCH_CONTEXT_TTL_MINUTES"`
	CalendarTimezone         string `mapstructure:"CALENDAR_TIMEZONE"`
}

var AppConfig Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("TRUSTED_PROXIES", "")
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("DATABASE_NAME", "slotcal")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_CACHE_DB", 0)
	v.SetDefault("REDIS_CONTEXT_DB", 1)
	v.SetDefault("REDIS_QUEUE_DB", 2)
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("AI_TIMEOUT_SECONDS", 8)
	v.SetDefault("ANALYTICS_CACHE_TTL_SECONDS", 300)
	v.SetDefault("ANALYTICS_CACHE_SIZE", 256)
	v.SetDefault("SEARCH_CONTEXT_TTL_MINUTES", 30)
	v.SetDefault("CALENDAR_TIMEZONE", "Local")
}

// Load reads config.yaml (if present) and the environment through v.
func Load(v *viper.Viper) (Config, error) {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	// Automatically use environment variables where available.
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig populates AppConfig from the global viper instance.
func LoadConfig() {
	cfg, err := Load(viper.GetViper())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// Location resolves CALENDAR_TIMEZONE, falling back to time.Local.
func (c Config) Location() *time.Location {
	if c.CalendarTimezone == "" || strings.EqualFold(c.CalendarTimezone, "local") {
		return time.Local
	}
	loc, err := time.LoadLocation(c.CalendarTimezone)
	if err != nil {
		log.Printf("Unknown CALENDAR_TIMEZONE %q, using local time", c.CalendarTimezone)
		return time.Local
	}
	return loc
}

// AnalyticsCacheTTL is the lifetime of a cached analytics snapshot.
func (c Config) AnalyticsCacheTTL() time.Duration {
	return time.Duration(c.AnalyticsCacheTTLSeconds) * time.Second
}

// AITimeout bounds a single AI collaborator call.
func (c Config) AITimeout() time.Duration {
	return time.Duration(c.AITimeoutSeconds) * time.Second
}

// SearchContextTTL is how long a session's last matched keywords are kept.
func (c Config) SearchContextTTL() time.Duration {
	return time.Duration(c.SearchContextTTLMinutes) * time.Minute
}

// AllowedOrigins splits CORS_ORIGINS on commas.
func (c Config) AllowedOrigins() []string {
	return splitList(c.CORSOrigins)
}

// TrustedProxyList splits TRUSTED_PROXIES on commas. Empty means forwarding
// headers are ignored and the peer address is the client.
func (c Config) TrustedProxyList() []string {
	return splitList(c.TrustedProxies)
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	NotionKey            string `validate:"required"`
	NotionDatabaseID     string `validate:"required"`
	NotionBase           string `validate:"required,url"`
	NotionVersion        string
	NotionRPS            int `validate:"gte=1"`
	DefaultProject       string `validate:"required"`
	AcquisitionHealthURL string `validate:"omitempty,url"`
	FixturesPath         string

	LLMProvider  string `validate:"oneof=openai anthropic gemini"`
	LLMModel     string
	LLMBaseURL   string
	LLMMaxTokens int `validate:"gte=1"`
	LLMKey       string

	AllowedOrigins []string

	JobID          string `validate:"required"`
	ScheduleHour   int    `validate:"gte=0,lte=23"`
	ScheduleMinute int    `validate:"gte=0,lte=59"`
	ScheduleTZ     string `validate:"timezone"`
	Workers        int `validate:"gte=1"`

	RedisAddr string
	RedisDB   int
	RedisPass string
	LockTTL   time.Duration

	MySQLDSN string
}

// Load reads the process environment. A .env file in the working directory,
// when present, is applied first without overriding already-set variables.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg(".env loaded")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:               env("APP_ENV", "prod"),
		HTTPAddr:             env("HTTP_ADDR", ":8000"),
		MetricsAddr:          env("METRICS_ADDR", ""),
		NotionKey:            env("NOTION_API_KEY", ""),
		NotionDatabaseID:     env("NOTION_DATABASE_ID", ""),
		NotionBase:           env("NOTION_BASE_URL", "https://api.notion.com/v1"),
		NotionVersion:        env("NOTION_VERSION", "2022-06-28"),
		NotionRPS:            atoi("NOTION_RPS", 3),
		DefaultProject:       env("NOTION_DEFAULT_PROJECT", "vallarta"),
		AcquisitionHealthURL: env("ACQUISITION_HEALTH_URL", env("APOLLO_ENDPOINT", "https://api.apollographql.com")),
		FixturesPath:         env("SOURCE_FIXTURES_PATH", ""),
		LLMProvider:          strings.ToLower(env("LLM_PROVIDER", "openai")),
		LLMModel:             env("LLM_MODEL", ""),
		LLMBaseURL:           env("LLM_BASE_URL", ""),
		LLMMaxTokens:         atoi("LLM_MAX_TOKENS", 150),
		AllowedOrigins:       splitList(env("ALLOWED_ORIGINS", "http://localhost:3000")),
		JobID:                env("SCHEDULE_JOB_ID", "eco-hotel-ingest"),
		ScheduleHour:         atoi("SCHEDULE_HOUR", 6),
		ScheduleMinute:       atoi("SCHEDULE_MINUTE", 0),
		ScheduleTZ:           env("SCHEDULE_TZ", "UTC"),
		Workers:              atoi("INGEST_WORKERS", 4),
		RedisAddr:            env("REDIS_ADDR", ""),
		RedisPass:            env("REDIS_PASSWORD", ""),
		RedisDB:              atoi("REDIS_DB", 0),
		LockTTL:              time.Duration(atoi("LOCK_TTL_SECONDS", 1800)) * time.Second,
		MySQLDSN:             env("MYSQL_DSN", ""),
	}
	switch c.LLMProvider {
	case "anthropic":
		c.LLMKey = env("ANTHROPIC_API_KEY", "")
	case "gemini":
		c.LLMKey = env("GEMINI_API_KEY", "")
	default:
		c.LLMKey = env("OPENAI_API_KEY", "")
	}
	if c.LLMKey == "" {
		log.Warn().Str("provider", c.LLMProvider).Msg("text-generation API key is empty; summaries will fall back to descriptions")
	}
	return c
}

// Validate checks the keys a process cannot run without.
func (c Config) Validate() error {
	return validator.New().Struct(c)
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// internal/config/config.go
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Corphon/DreamLogger/internal/imagegen"
)

// Config holds everything read from the environment at startup.
// Secrets are never compiled in; a missing key only disables the matching provider.
type Config struct {
	// base
	Port         string
	DataDir      string
	StaticDir    string
	TemplatesDir string
	LogDir       string
	DebugMode    bool
	DBPath       string

	// text generation
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	TextTimeout   time.Duration

	// image generation
	HuggingFaceToken   string
	HuggingFaceBaseURL string
	ImageModels        []string
	ImageTimeout       time.Duration
	PlaceholderImage   string

	// sessions
	SessionSecret string
	SessionTTL    time.Duration
	CookieSecure  bool

	// limits
	AnalyzeRatePerMinute int
	AnalyzeBurst         int
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	dataDir := getEnv("DATA_DIR", "data")

	config := &Config{
		Port:         getEnv("PORT", "5000"),
		DataDir:      dataDir,
		StaticDir:    getEnv("STATIC_DIR", "static"),
		TemplatesDir: getEnv("TEMPLATES_DIR", "web/templates"),
		LogDir:       getEnv("LOG_DIR", "logs"),
		DebugMode:    getEnvBool("DEBUG_MODE", false),
		DBPath:       getEnv("DB_PATH", filepath.Join(dataDir, "dreams.db")),

		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiBaseURL: getEnv("GEMINI_BASE_URL", ""),
		TextTimeout:   getEnvDuration("TEXT_TIMEOUT", 30*time.Second),

		HuggingFaceToken:   getEnv("HUGGINGFACE_API_TOKEN", ""),
		HuggingFaceBaseURL: getEnv("HUGGINGFACE_BASE_URL", ""),
		ImageModels:        getEnvList("IMAGE_MODELS", append([]string(nil), imagegen.DefaultModels...)),
		ImageTimeout:       getEnvDuration("IMAGE_TIMEOUT", 60*time.Second),
		PlaceholderImage:   getEnv("PLACEHOLDER_IMAGE_URL", "https://picsum.photos/400/300"),

		SessionSecret: getEnv("SESSION_SECRET", ""),
		SessionTTL:    getEnvDuration("SESSION_TTL", 24*time.Hour),
		CookieSecure:  getEnvBool("COOKIE_SECURE", false),

		AnalyzeRatePerMinute: getEnvInt("ANALYZE_RATE_PER_MINUTE", 10),
		AnalyzeBurst:         getEnvInt("ANALYZE_BURST", 3),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	if config.GeminiAPIKey == "" {
		log.Println("⚠️ GEMINI_API_KEY not set, mood and interpretation will use the local engine")
	}
	if config.HuggingFaceToken == "" {
		log.Println("⚠️ HUGGINGFACE_API_TOKEN not set, dreams will get placeholder images")
	}

	return config, nil
}

// Validate rejects values the server cannot run with.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric: %q", c.Port)
	}
	if c.TextTimeout <= 0 {
		return fmt.Errorf("TEXT_TIMEOUT must be positive")
	}
	if c.ImageTimeout <= 0 {
		return fmt.Errorf("IMAGE_TIMEOUT must be positive")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.AnalyzeRatePerMinute <= 0 || c.AnalyzeBurst <= 0 {
		return fmt.Errorf("ANALYZE_RATE_PER_MINUTE and ANALYZE_BURST must be positive")
	}
	return nil
}

// TextGenerationEnabled reports whether a text provider key is configured.
func (c *Config) TextGenerationEnabled() bool {
	return c.GeminiAPIKey != ""
}

// ImageGenerationEnabled reports whether an image provider token is configured.
func (c *Config) ImageGenerationEnabled() bool {
	return c.HuggingFaceToken != "" && len(c.ImageModels) > 0
}

// GeneratedImageDir is where generated images are written.
func (c *Config) GeneratedImageDir() string {
	return filepath.Join(c.StaticDir, "generated")
}

// getEnv returns the environment value or defaultValue when unset or empty.
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	return value == "true" || value == "1" || value == "yes"
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("⚠️ invalid integer for %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

// getEnvDuration accepts Go durations ("45s") or plain seconds ("45").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	log.Printf("⚠️ invalid duration for %s=%q, using %s", key, value, defaultValue)
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

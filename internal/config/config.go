package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// TempStore: "disk" | "s3"
	TempStore string
	TempDir   string

	MaxUploadSize  int64
	JPEGQuality    int
	RequestTimeout time.Duration
	RateLimit      int

	// OCREngine: "tesseract" | "openai"
	OCREngine    string
	OCRLanguages []string
	OpenAIKey    string
	OpenAIModel  string

	S3 S3Config

	AlertToken  string
	AlertChatID int64
}

type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
}

// Load читает .env (если есть) и переменные окружения.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv собирает конфиг из произвольного источника переменных.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		Port:         get("PORT", "8080"),
		TempStore:    strings.ToLower(get("TEMP_STORE", "disk")),
		TempDir:      get("TEMP_DIR", filepath.Join(os.TempDir(), "image-converter")),
		OCREngine:    strings.ToLower(get("OCR_ENGINE", "tesseract")),
		OCRLanguages: splitList(get("OCR_LANGUAGES", "eng")),
		OpenAIKey:    getenv("OPENAI_API_KEY"),
		OpenAIModel:  get("OPENAI_OCR_MODEL", "gpt-4o-mini"),
		S3: S3Config{
			Endpoint:  getenv("S3_ENDPOINT"),
			AccessKey: getenv("S3_ACCESS_KEY"),
			SecretKey: getenv("S3_SECRET_KEY"),
			Bucket:    getenv("S3_BUCKET"),
			Region:    getenv("S3_REGION"),
		},
		AlertToken: getenv("TELEGRAM_ALERT_TOKEN"),
	}

	size, err := humanize.ParseBytes(get("MAX_UPLOAD_SIZE", "50MB"))
	if err != nil {
		return Config{}, fmt.Errorf("MAX_UPLOAD_SIZE: %w", err)
	}
	if size == 0 {
		return Config{}, fmt.Errorf("MAX_UPLOAD_SIZE must be positive")
	}
	cfg.MaxUploadSize = int64(size)

	cfg.JPEGQuality, err = strconv.Atoi(get("JPEG_QUALITY", "90"))
	if err != nil {
		return Config{}, fmt.Errorf("JPEG_QUALITY: %w", err)
	}
	if cfg.JPEGQuality < 1 || cfg.JPEGQuality > 100 {
		return Config{}, fmt.Errorf("JPEG_QUALITY must be in 1..100, got %d", cfg.JPEGQuality)
	}

	cfg.RequestTimeout, err = time.ParseDuration(get("REQUEST_TIMEOUT", "2m"))
	if err != nil {
		return Config{}, fmt.Errorf("REQUEST_TIMEOUT: %w", err)
	}

	cfg.RateLimit, err = strconv.Atoi(get("RATE_LIMIT_PER_MINUTE", "60"))
	if err != nil {
		return Config{}, fmt.Errorf("RATE_LIMIT_PER_MINUTE: %w", err)
	}

	if chat := getenv("TELEGRAM_ALERT_CHAT_ID"); chat != "" {
		cfg.AlertChatID, err = strconv.ParseInt(chat, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("TELEGRAM_ALERT_CHAT_ID: %w", err)
		}
	}

	switch cfg.TempStore {
	case "disk":
	case "s3":
		if cfg.S3.Endpoint == "" || cfg.S3.Bucket == "" {
			return Config{}, fmt.Errorf("TEMP_STORE=s3 requires S3_ENDPOINT and S3_BUCKET")
		}
	default:
		return Config{}, fmt.Errorf("unknown TEMP_STORE %q", cfg.TempStore)
	}

	switch cfg.OCREngine {
	case "tesseract":
	case "openai":
		if cfg.OpenAIKey == "" {
			return Config{}, fmt.Errorf("OCR_ENGINE=openai requires OPENAI_API_KEY")
		}
	default:
		return Config{}, fmt.Errorf("unknown OCR_ENGINE %q", cfg.OCREngine)
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '+' }) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

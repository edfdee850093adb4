package config

import (
	"strings"
	"testing"
	"time"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envFrom(nil))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.TempStore != "disk" {
		t.Errorf("TempStore = %q, want disk", cfg.TempStore)
	}
	if cfg.MaxUploadSize != 50_000_000 {
		t.Errorf("MaxUploadSize = %d, want 50000000", cfg.MaxUploadSize)
	}
	if cfg.JPEGQuality != 90 {
		t.Errorf("JPEGQuality = %d, want 90", cfg.JPEGQuality)
	}
	if cfg.RequestTimeout != 2*time.Minute {
		t.Errorf("RequestTimeout = %v, want 2m", cfg.RequestTimeout)
	}
	if len(cfg.OCRLanguages) != 1 || cfg.OCRLanguages[0] != "eng" {
		t.Errorf("OCRLanguages = %v, want [eng]", cfg.OCRLanguages)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(envFrom(map[string]string{
		"PORT":                   "9000",
		"MAX_UPLOAD_SIZE":        "2 MiB",
		"JPEG_QUALITY":           "75",
		"REQUEST_TIMEOUT":        "30s",
		"OCR_LANGUAGES":          "eng+rus, deu",
		"TELEGRAM_ALERT_CHAT_ID": "-100123",
	}))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Port != "9000" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.MaxUploadSize != 2<<20 {
		t.Errorf("MaxUploadSize = %d, want %d", cfg.MaxUploadSize, 2<<20)
	}
	if cfg.JPEGQuality != 75 {
		t.Errorf("JPEGQuality = %d", cfg.JPEGQuality)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %v", cfg.RequestTimeout)
	}
	if got := strings.Join(cfg.OCRLanguages, ","); got != "eng,rus,deu" {
		t.Errorf("OCRLanguages = %q", got)
	}
	if cfg.AlertChatID != -100123 {
		t.Errorf("AlertChatID = %d", cfg.AlertChatID)
	}
}

func TestFromEnvRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad size", map[string]string{"MAX_UPLOAD_SIZE": "lots"}},
		{"quality out of range", map[string]string{"JPEG_QUALITY": "101"}},
		{"bad timeout", map[string]string{"REQUEST_TIMEOUT": "soon"}},
		{"unknown store", map[string]string{"TEMP_STORE": "tape"}},
		{"s3 without bucket", map[string]string{"TEMP_STORE": "s3", "S3_ENDPOINT": "s3.local"}},
		{"openai without key", map[string]string{"OCR_ENGINE": "openai"}},
		{"unknown engine", map[string]string{"OCR_ENGINE": "magic"}},
		{"bad chat id", map[string]string{"TELEGRAM_ALERT_CHAT_ID": "admin"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromEnv(envFrom(tt.env)); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

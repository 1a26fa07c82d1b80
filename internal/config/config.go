package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName                string
	AppEnv                 string
	AppPort                string
	DatabaseURL            string
	RedisURL               string
	NATSURL                string
	JWTSecret              string
	TokenTTL               time.Duration
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string
	DetailCacheTTL         time.Duration
	WizardDraftTTL         time.Duration
	GenerateRateLimit      int
	GenerateRateWindow     time.Duration
	MaxUploadMB            int
	OpenAIAPIKey           string
	OpenAIModel            string
	LMSPublishSubject      string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("GRADEGENIE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "GradeGenie API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "3030")
	v.SetDefault("token.ttl", "24h")
	v.SetDefault("cloudinary.folder", "gradegenie/syllabi")
	v.SetDefault("detail.cache_ttl", "5m")
	v.SetDefault("wizard.draft_ttl", "72h")
	v.SetDefault("generate.rate_limit", 3)
	v.SetDefault("generate.rate_window", "10s")
	v.SetDefault("max_upload_mb", 10)
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("lms.publish_subject", "gradegenie.lms.publish")

	tokenTTL, err := time.ParseDuration(v.GetString("token.ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid token ttl: %w", err)
	}

	cacheTTL, err := time.ParseDuration(v.GetString("detail.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid detail cache ttl: %w", err)
	}

	draftTTL, err := time.ParseDuration(v.GetString("wizard.draft_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid wizard draft ttl: %w", err)
	}

	rateWindow, err := time.ParseDuration(v.GetString("generate.rate_window"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid generate rate window: %w", err)
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		DatabaseURL:            v.GetString("database.url"),
		RedisURL:               v.GetString("redis.url"),
		NATSURL:                v.GetString("nats.url"),
		JWTSecret:              v.GetString("jwt.secret"),
		TokenTTL:               tokenTTL,
		CloudinaryCloudName:    v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:       v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:    v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder: v.GetString("cloudinary.folder"),
		DetailCacheTTL:         cacheTTL,
		WizardDraftTTL:         draftTTL,
		GenerateRateLimit:      v.GetInt("generate.rate_limit"),
		GenerateRateWindow:     rateWindow,
		MaxUploadMB:            v.GetInt("max_upload_mb"),
		OpenAIAPIKey:           v.GetString("openai_api_key"),
		OpenAIModel:            v.GetString("openai.model"),
		LMSPublishSubject:      v.GetString("lms.publish_subject"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.GenerateRateLimit <= 0 {
		cfg.GenerateRateLimit = 3
	}

	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = 10
	}

	return cfg, nil
}

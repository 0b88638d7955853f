// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for the admin middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// ProviderConfig provides settings for the text-generation provider chain.
type ProviderConfig interface {
	GetOpenAIAPIKey() string
	GetOpenAIBaseURL() string
	GetOpenAIModel() string
	GetMoonshotAPIKey() string
	GetMoonshotModel() string
	GetGeminiAPIKey() string
	GetGeminiModel() string
	GetProviderTimeout() time.Duration
}

// GateConfig provides settings for the HITL approval gate.
type GateConfig interface {
	GetGateValueThreshold() float64
}

// SessionConfig provides settings for the bounded session store.
type SessionConfig interface {
	GetSessionCapacity() int
}

// RateLimitConfig provides settings for the public endpoint rate limiter.
type RateLimitConfig interface {
	GetPublicRateLimit() int
	GetPublicRateWindow() time.Duration
}

// SchedulerConfig provides settings for the asynq scheduler.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	GetReviewDelay() time.Duration
}

// VoiceConfig provides settings for the outbound voice bridge.
type VoiceConfig interface {
	GetVoiceBridgeURL() string
	GetVoiceBridgeKey() string
	GetVoiceFromNumber() string
	IsVoiceEnabled() bool
}

// EmailConfig provides settings for outbound email actions.
type EmailConfig interface {
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
	IsEmailEnabled() bool
}

// NotificationConfig provides settings for operator notifications.
type NotificationConfig interface {
	GetOperatorEmail() string
}

// CRMConfig provides settings for CRM contact sync actions.
type CRMConfig interface {
	GetCRMBaseURL() string
	GetCRMAPIKey() string
	IsCRMEnabled() bool
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env              string
	HTTPAddr         string
	DatabaseURL      string
	JWTAccessSecret  string
	CORSAllowAll     bool
	CORSOrigins      []string
	CORSAllowCreds   bool
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	OpenAIModel      string
	MoonshotAPIKey   string
	MoonshotModel    string
	GeminiAPIKey     string
	GeminiModel      string
	ProviderTimeout  time.Duration
	GateThreshold    float64
	SessionCapacity  int
	PublicRateLimit  int
	PublicRateWindow time.Duration
	RedisURL         string
	RedisTLSInsecure bool
	AsynqQueueName   string
	AsynqConcurrency int
	ReviewDelay      time.Duration
	VoiceBridgeURL   string
	VoiceBridgeKey   string
	VoiceFromNumber  string
	SMTPHost         string
	SMTPPort         int
	SMTPUsername     string
	SMTPPassword     string
	EmailFromName    string
	EmailFromAddress string
	OperatorEmail    string
	CRMBaseURL       string
	CRMAPIKey        string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// ProviderConfig implementation
func (c *Config) GetOpenAIAPIKey() string           { return c.OpenAIAPIKey }
func (c *Config) GetOpenAIBaseURL() string          { return c.OpenAIBaseURL }
func (c *Config) GetOpenAIModel() string            { return c.OpenAIModel }
func (c *Config) GetMoonshotAPIKey() string         { return c.MoonshotAPIKey }
func (c *Config) GetMoonshotModel() string          { return c.MoonshotModel }
func (c *Config) GetGeminiAPIKey() string           { return c.GeminiAPIKey }
func (c *Config) GetGeminiModel() string            { return c.GeminiModel }
func (c *Config) GetProviderTimeout() time.Duration { return c.ProviderTimeout }

// GateConfig implementation
func (c *Config) GetGateValueThreshold() float64 { return c.GateThreshold }

// SessionConfig implementation
func (c *Config) GetSessionCapacity() int { return c.SessionCapacity }

// RateLimitConfig implementation
func (c *Config) GetPublicRateLimit() int            { return c.PublicRateLimit }
func (c *Config) GetPublicRateWindow() time.Duration { return c.PublicRateWindow }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string           { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool     { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string     { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int      { return c.AsynqConcurrency }
func (c *Config) GetReviewDelay() time.Duration { return c.ReviewDelay }

// VoiceConfig implementation
func (c *Config) GetVoiceBridgeURL() string  { return c.VoiceBridgeURL }
func (c *Config) GetVoiceBridgeKey() string  { return c.VoiceBridgeKey }
func (c *Config) GetVoiceFromNumber() string { return c.VoiceFromNumber }
func (c *Config) IsVoiceEnabled() bool       { return c.VoiceBridgeURL != "" }

// EmailConfig implementation
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }
func (c *Config) IsEmailEnabled() bool        { return c.SMTPHost != "" && c.EmailFromAddress != "" }

// NotificationConfig implementation
func (c *Config) GetOperatorEmail() string { return c.OperatorEmail }

// CRMConfig implementation
func (c *Config) GetCRMBaseURL() string { return c.CRMBaseURL }
func (c *Config) GetCRMAPIKey() string  { return c.CRMAPIKey }
func (c *Config) IsCRMEnabled() bool    { return c.CRMBaseURL != "" }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:              getEnv("APP_ENV", "development"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		JWTAccessSecret:  getEnv("JWT_ACCESS_SECRET", ""),
		CORSAllowAll:     corsAllowAll,
		CORSOrigins:      corsOrigins,
		CORSAllowCreds:   strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:      getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		MoonshotAPIKey:   getEnv("MOONSHOT_API_KEY", ""),
		MoonshotModel:    getEnv("MOONSHOT_MODEL", "kimi-k2-turbo-preview"),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		ProviderTimeout:  mustDuration(getEnv("PROVIDER_TIMEOUT", "20s")),
		GateThreshold:    mustFloat(getEnv("GATE_VALUE_THRESHOLD", "500")),
		SessionCapacity:  mustInt(getEnv("SESSION_CAPACITY", "500")),
		PublicRateLimit:  mustInt(getEnv("PUBLIC_RATE_LIMIT", "60")),
		PublicRateWindow: mustDuration(getEnv("PUBLIC_RATE_WINDOW", "60s")),
		RedisURL:         getEnv("REDIS_URL", ""),
		RedisTLSInsecure: strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:   getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency: mustInt(getEnv("ASYNQ_CONCURRENCY", "10")),
		ReviewDelay:      mustDuration(getEnv("REVIEW_DELAY", "168h")),
		VoiceBridgeURL:   getEnv("VOICE_BRIDGE_URL", ""),
		VoiceBridgeKey:   getEnv("VOICE_BRIDGE_KEY", ""),
		VoiceFromNumber:  getEnv("VOICE_FROM_NUMBER", ""),
		SMTPHost:         getEnv("SMTP_HOST", ""),
		SMTPPort:         mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:     getEnv("SMTP_USERNAME", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
		EmailFromName:    getEnv("EMAIL_FROM_NAME", "Retainly"),
		EmailFromAddress: getEnv("EMAIL_FROM_ADDRESS", ""),
		OperatorEmail:    getEnv("OPERATOR_EMAIL", ""),
		CRMBaseURL:       getEnv("CRM_BASE_URL", ""),
		CRMAPIKey:        getEnv("CRM_API_KEY", ""),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.ProviderTimeout < 15*time.Second || cfg.ProviderTimeout > 30*time.Second {
		return nil, fmt.Errorf("PROVIDER_TIMEOUT must be between 15s and 30s")
	}
	if cfg.GateThreshold <= 0 {
		return nil, fmt.Errorf("GATE_VALUE_THRESHOLD must be positive")
	}
	if cfg.SessionCapacity < 1 {
		return nil, fmt.Errorf("SESSION_CAPACITY must be at least 1")
	}
	if cfg.PublicRateLimit < 1 || cfg.PublicRateWindow <= 0 {
		return nil, fmt.Errorf("PUBLIC_RATE_LIMIT and PUBLIC_RATE_WINDOW must be positive")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}

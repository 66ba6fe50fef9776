package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Email providers understood by EMAIL_PROVIDER.
const (
	EmailProviderSendGrid = "sendgrid"
	EmailProviderSES      = "ses"
	EmailProviderResend   = "resend"
	EmailProviderSMTP     = "smtp"
	EmailProviderStub     = "stub"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	StaticDir          string
	CORSAllowedOrigins []string
	MetricsEnabled     bool
	LambdaMode         bool
	SentryDSN          string

	// Notification identities. EMAIL_USER is the sender, OWNER_EMAIL the
	// fixed recipient of every submission.
	EmailProvider  string
	EmailFrom      string
	EmailFromName  string
	OwnerEmail     string
	NotifyTimezone string
	NotifyTimeout  time.Duration

	// SMTP transport (Gmail by default)
	SMTPHost     string
	SMTPPort     int
	SMTPPassword string

	// Hosted providers
	SendGridAPIKey string
	ResendAPIKey   string

	// AWS (SES)
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "5000"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		StaticDir:          getEnv("STATIC_DIR", ""),
		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		MetricsEnabled:     getEnvAsBool("METRICS_ENABLED", true),
		LambdaMode:         getEnvAsBool("LAMBDA_MODE", os.Getenv("AWS_LAMBDA_RUNTIME_API") != ""),
		SentryDSN:          getEnv("SENTRY_DSN", ""),

		EmailProvider:  strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", ""))),
		EmailFrom:      getEnv("EMAIL_USER", ""),
		EmailFromName:  getEnv("EMAIL_FROM_NAME", "Debt Relief Leads"),
		OwnerEmail:     getEnv("OWNER_EMAIL", ""),
		NotifyTimezone: getEnv("NOTIFY_TIMEZONE", ""),
		NotifyTimeout:  getEnvAsDuration("NOTIFY_TIMEOUT", 30*time.Second),

		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getEnvAsInt("SMTP_PORT", 587),
		SMTPPassword: getEnv("EMAIL_PASS", ""),

		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		ResendAPIKey:   getEnv("RESEND_API_KEY", ""),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),
	}
}

// ResolvedEmailProvider returns EMAIL_PROVIDER when set, otherwise the first
// provider that has credentials configured. SES is never picked implicitly.
func (c *Config) ResolvedEmailProvider() string {
	if c.EmailProvider != "" {
		return c.EmailProvider
	}
	switch {
	case c.SendGridAPIKey != "":
		return EmailProviderSendGrid
	case c.ResendAPIKey != "":
		return EmailProviderResend
	case c.SMTPPassword != "":
		return EmailProviderSMTP
	default:
		return EmailProviderStub
	}
}

// StubRecipient addresses submissions when the stub transport is active and
// OWNER_EMAIL is unset. The stub only logs, so nothing reaches it.
const StubRecipient = "owner@localhost"

// NotifyRecipient returns OWNER_EMAIL, falling back to StubRecipient when the
// stub transport is in use.
func (c *Config) NotifyRecipient() string {
	if owner := strings.TrimSpace(c.OwnerEmail); owner != "" {
		return owner
	}
	if c.ResolvedEmailProvider() == EmailProviderStub {
		return StubRecipient
	}
	return ""
}

// Validate reports configuration that would make every submission fail.
func (c *Config) Validate() error {
	var errs []error
	provider := c.ResolvedEmailProvider()
	switch provider {
	case EmailProviderSendGrid, EmailProviderSES, EmailProviderResend, EmailProviderSMTP, EmailProviderStub:
	default:
		errs = append(errs, fmt.Errorf("config: unknown EMAIL_PROVIDER %q", provider))
	}
	if provider != EmailProviderStub {
		if strings.TrimSpace(c.EmailFrom) == "" {
			errs = append(errs, errors.New("config: EMAIL_USER is required"))
		}
		if strings.TrimSpace(c.OwnerEmail) == "" {
			errs = append(errs, errors.New("config: OWNER_EMAIL is required"))
		}
	}
	if c.NotifyTimezone != "" {
		if _, err := time.LoadLocation(c.NotifyTimezone); err != nil {
			errs = append(errs, fmt.Errorf("config: invalid NOTIFY_TIMEZONE: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Location returns the zone used to stamp notifications.
func (c *Config) Location() *time.Location {
	if c.NotifyTimezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.NotifyTimezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsSlice splits a comma separated variable, dropping blank entries.
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

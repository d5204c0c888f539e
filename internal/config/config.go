package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the server configuration, read from the environment.
type Config struct {
	Env            string
	LogLevel       string
	Port           string
	DatabaseURL    string
	PublicBaseURL  string
	AllowedOrigins []string

	StripeSecretKey     string
	StripeWebhookSecret string
	JWTSecret           string

	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string

	TwilioAccountSID   string
	TwilioAuthToken    string
	TwilioFromNumber   string
	TwilioWhatsAppFrom string

	WhatsAppPhone   string
	WhatsAppMessage string

	ToastTTL              time.Duration
	ToastMax              int
	ToastIdleTimeout      time.Duration
	PendingReservationTTL time.Duration
}

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Env:                 orDefault(getenv("APP_ENV"), "production"),
		LogLevel:            orDefault(getenv("LOG_LEVEL"), "info"),
		Port:                orDefault(getenv("PORT"), "8080"),
		DatabaseURL:         getenv("DATABASE_URL"),
		PublicBaseURL:       strings.TrimRight(orDefault(getenv("PUBLIC_BASE_URL"), "http://localhost:8080"), "/"),
		StripeSecretKey:     getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: getenv("STRIPE_WEBHOOK_SECRET"),
		JWTSecret:           getenv("JWT_SECRET"),
		SendGridAPIKey:      getenv("SENDGRID_API_KEY"),
		SendGridFromEmail:   getenv("SENDGRID_FROM_EMAIL"),
		SendGridFromName:    orDefault(getenv("SENDGRID_FROM_NAME"), "GreenPark"),
		TwilioAccountSID:    getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:     getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromNumber:    getenv("TWILIO_FROM_NUMBER"),
		TwilioWhatsAppFrom:  getenv("TWILIO_WHATSAPP_FROM"),
		WhatsAppPhone:       getenv("WHATSAPP_PHONE"),
		WhatsAppMessage:     getenv("WHATSAPP_MESSAGE"),
	}

	if origins := getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	var err error
	if cfg.ToastTTL, err = duration(getenv, "TOAST_TTL", 0); err != nil {
		return nil, err
	}
	if cfg.ToastIdleTimeout, err = duration(getenv, "TOAST_IDLE_TIMEOUT", 2*time.Hour); err != nil {
		return nil, err
	}
	if cfg.PendingReservationTTL, err = duration(getenv, "PENDING_RESERVATION_TTL", time.Hour); err != nil {
		return nil, err
	}
	if v := getenv("TOAST_MAX"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("TOAST_MAX: invalid value %q", v)
		}
		cfg.ToastMax = n
	}
	return cfg, nil
}

// Validate checks the settings the HTTP server cannot run without.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL not set")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET not set")
	}
	return nil
}

// Development reports whether APP_ENV is development.
func (c *Config) Development() bool {
	return c.Env == "development"
}

func duration(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%s: invalid duration %q", key, v)
	}
	return d, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

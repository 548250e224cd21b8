package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Auth      AuthConfig
	WhatsApp  WhatsAppConfig
	Sheets    SheetsConfig
	Reporting ReportingConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port     string
	LogLevel string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI       string
	DBName    string
	OpTimeout time.Duration
}

// AuthConfig holds token signing settings.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// WhatsAppConfig contains credentials for the Meta WhatsApp Cloud API used for
// farmer and manager notifications. Leaving the token empty disables them.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	BaseURL       string
	APIVersion    string
	ManagerID     string
}

// Enabled reports whether notifications are configured.
func (c WhatsAppConfig) Enabled() bool {
	return c.AccessToken != "" && c.PhoneNumberID != ""
}

// SheetsConfig contains configuration for the Google Sheets report export.
// Leaving the credentials path empty disables the export.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	ReportRange     string
}

// Enabled reports whether the spreadsheet export is configured.
func (c SheetsConfig) Enabled() bool {
	return c.CredentialsPath != "" && c.SpreadsheetID != ""
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	ReportCronSchedule  string
	OverdueCronSchedule string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	opTimeout, err := durationEnv("MONGODB_OP_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	tokenTTL, err := durationEnv("AUTH_TOKEN_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:     getenvWithDefault("APP_PORT", "8080"),
			LogLevel: getenvWithDefault("LOG_LEVEL", "info"),
		},
		MongoDB: MongoDBConfig{
			URI:       getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName:    getenvWithDefault("MONGODB_DB_NAME", "brooder"),
			OpTimeout: opTimeout,
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
			TokenTTL:  tokenTTL,
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			ManagerID:     os.Getenv("WHATSAPP_MANAGER_ID"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
			ReportRange:     getenvWithDefault("GOOGLE_SHEET_REPORT_RANGE", "DailyReports!A:H"),
		},
		Reporting: ReportingConfig{
			ReportCronSchedule:  getenvWithDefault("REPORT_CRON_SCHEDULE", "0 20 * * *"),
			OverdueCronSchedule: getenvWithDefault("OVERDUE_CRON_SCHEDULE", "0 6 * * *"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch {
	case c.MongoDB.URI == "":
		return errors.New("MONGODB_URI must be provided")
	case c.MongoDB.DBName == "":
		return errors.New("MONGODB_DB_NAME must be provided")
	}

	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET must be provided")
	}

	if c.WhatsApp.Enabled() {
		if c.WhatsApp.BaseURL == "" {
			return errors.New("WHATSAPP_BASE_URL must not be empty")
		}
		if c.WhatsApp.APIVersion == "" {
			return errors.New("WHATSAPP_API_VERSION must not be empty")
		}
	}

	if c.Sheets.Enabled() && c.Sheets.ReportRange == "" {
		return errors.New("GOOGLE_SHEET_REPORT_RANGE must not be empty")
	}

	switch {
	case c.Reporting.ReportCronSchedule == "":
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	case c.Reporting.OverdueCronSchedule == "":
		return errors.New("OVERDUE_CRON_SCHEDULE must be provided")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
	}
	return d, nil
}

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const VERSION = "1.2"

// TokenSource selects where Google OAuth tokens are read from and
// persisted to. Exactly one mode is active per deployment, resolved
// once at startup.
type TokenSource string

const (
	TokenSourceDB        TokenSource = "db"
	TokenSourceFile      TokenSource = "file"
	TokenSourceConnector TokenSource = "connector"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Google      GoogleConfig
	Twilio      TwilioConfig
	SMTP        SMTPConfig
	Session     SessionConfig
	Scheduler   SchedulerConfig
	Environment string
	LogLevel    string
	Version     string
	// AdminEmail/AdminPassword seed the root admin account on first boot
	// and receive the new-customer notification mail.
	AdminEmail    string
	AdminPassword string
}

type ServerConfig struct {
	Port int
	Host string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	TokenSource TokenSource
	// TokenFile is the path of the token JSON when TokenSource is "file".
	TokenFile string
	// Connector settings when TokenSource is "connector".
	ConnectorHostname string
	ConnectorToken    string

	// Timeout bounds every Drive/Sheets call so a hung Google API call
	// cannot stall a scheduler tick or a request handler.
	Timeout time.Duration

	RootFolderName string
}

type TwilioConfig struct {
	AccountSID    string
	AuthToken     string
	WhatsAppFrom  string
	WorkshopPhone string
}

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

type SessionConfig struct {
	Secret     string
	CookieName string
	TTL        time.Duration
}

type SchedulerConfig struct {
	Enabled  bool
	Interval time.Duration
}

// LoadOptions contains options for loading configuration
type LoadOptions struct {
	EnvFile string // Optional environment file to load (e.g., ".env", ".env.test")
}

// Load loads the configuration with default options
func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{EnvFile: ".env"})
}

// LoadWithOptions loads the configuration with the specified options
func LoadWithOptions(opts LoadOptions) (*Config, error) {
	v := viper.New()

	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "stitchdesk")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("ENVIRONMENT", "production")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("VERSION", VERSION)

	v.SetDefault("GOOGLE_TOKEN_SOURCE", string(TokenSourceDB))
	v.SetDefault("GOOGLE_TOKEN_FILE", "token.json")
	v.SetDefault("GOOGLE_REDIRECT_URL", "http://localhost:8080/oauth2callback")
	v.SetDefault("GOOGLE_TIMEOUT_SECONDS", 10)
	v.SetDefault("GOOGLE_ROOT_FOLDER", "Customers")

	v.SetDefault("TWILIO_WHATSAPP_NUMBER", "whatsapp:+14155238886")

	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_FROM_NAME", "Stitchdesk")

	v.SetDefault("SESSION_COOKIE_NAME", "stitchdesk_session")
	v.SetDefault("SESSION_TTL_HOURS", 24)

	v.SetDefault("SCHEDULER_ENABLED", true)
	v.SetDefault("SCHEDULER_INTERVAL_MINUTES", 60)

	// Load environment file if specified
	if opts.EnvFile != "" {
		v.SetConfigName(opts.EnvFile)
		v.SetConfigType("env")

		currentPath, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("error getting current directory: %w", err)
		}

		v.AddConfigPath(currentPath)

		if err := v.ReadInConfig(); err != nil {
			// It's okay if config file doesn't exist
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	tokenSource := TokenSource(strings.ToLower(v.GetString("GOOGLE_TOKEN_SOURCE")))
	switch tokenSource {
	case TokenSourceDB, TokenSourceFile, TokenSourceConnector:
	default:
		return nil, fmt.Errorf("invalid GOOGLE_TOKEN_SOURCE %q: must be one of db, file, connector", tokenSource)
	}

	sessionSecret := v.GetString("SESSION_SECRET")
	if sessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is required")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetInt("SERVER_PORT"),
			Host: v.GetString("SERVER_HOST"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Google: GoogleConfig{
			ClientID:          v.GetString("GOOGLE_CLIENT_ID"),
			ClientSecret:      v.GetString("GOOGLE_CLIENT_SECRET"),
			RedirectURL:       v.GetString("GOOGLE_REDIRECT_URL"),
			TokenSource:       tokenSource,
			TokenFile:         v.GetString("GOOGLE_TOKEN_FILE"),
			ConnectorHostname: v.GetString("CONNECTORS_HOSTNAME"),
			ConnectorToken:    v.GetString("CONNECTORS_TOKEN"),
			Timeout:           time.Duration(v.GetInt("GOOGLE_TIMEOUT_SECONDS")) * time.Second,
			RootFolderName:    v.GetString("GOOGLE_ROOT_FOLDER"),
		},
		Twilio: TwilioConfig{
			AccountSID:    v.GetString("TWILIO_ACCOUNT_SID"),
			AuthToken:     v.GetString("TWILIO_AUTH_TOKEN"),
			WhatsAppFrom:  v.GetString("TWILIO_WHATSAPP_NUMBER"),
			WorkshopPhone: v.GetString("WORKSHOP_PHONE"),
		},
		SMTP: SMTPConfig{
			Host:      v.GetString("SMTP_HOST"),
			Port:      v.GetInt("SMTP_PORT"),
			Username:  v.GetString("SMTP_USERNAME"),
			Password:  v.GetString("SMTP_PASSWORD"),
			FromEmail: v.GetString("SMTP_FROM_EMAIL"),
			FromName:  v.GetString("SMTP_FROM_NAME"),
		},
		Session: SessionConfig{
			Secret:     sessionSecret,
			CookieName: v.GetString("SESSION_COOKIE_NAME"),
			TTL:        time.Duration(v.GetInt("SESSION_TTL_HOURS")) * time.Hour,
		},
		Scheduler: SchedulerConfig{
			Enabled:  v.GetBool("SCHEDULER_ENABLED"),
			Interval: time.Duration(v.GetInt("SCHEDULER_INTERVAL_MINUTES")) * time.Minute,
		},
		Environment:   v.GetString("ENVIRONMENT"),
		LogLevel:      v.GetString("LOG_LEVEL"),
		Version:       v.GetString("VERSION"),
		AdminEmail:    v.GetString("ADMIN_EMAIL"),
		AdminPassword: v.GetString("ADMIN_PASSWORD"),
	}

	return cfg, nil
}

// IsDevelopment returns true when running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultBaseURL = "https://app.fakturoid.cz/api/v3"

// DefaultSubject and DefaultBody are the email templates used when the
// config file does not override them. Subject is templated with the invoice
// number, body with the account's display name.
const (
	DefaultSubject = "Faktura č. MM%s"
	DefaultBody    = "Hezký den,\n\nVystavil jsem pro Vás fakturu.\n\nDíky!\n\n%s"
)

// Config holds the two configuration groups the collector needs: the
// Fakturoid API credentials and the outgoing SMTP account.
type Config struct {
	Fakturoid FakturoidConfig `yaml:"fakturoid"`
	Email     EmailConfig     `yaml:"email"`
}

// FakturoidConfig carries the account and application identity used to
// derive both the Basic auth header and the token exchange request.
// Immutable after load.
type FakturoidConfig struct {
	ClientID        string `yaml:"client_id"`
	ClientSecret    string `yaml:"client_secret"`
	ApplicationName string `yaml:"application_name"`
	Email           string `yaml:"email"`
	Account         string `yaml:"account"`
	BaseURL         string `yaml:"base_url,omitempty"`
}

// EmailConfig carries the SMTP endpoint plus the subject/body templates for
// outgoing invoice mail.
type EmailConfig struct {
	SMTPServer   string `yaml:"smtp_server"`
	SMTPPort     int    `yaml:"smtp_port"`
	SMTPUser     string `yaml:"smtp_user"`
	SMTPPassword string `yaml:"smtp_password"`
	Subject      string `yaml:"subject,omitempty"`
	Body         string `yaml:"body,omitempty"`
}

func configDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "money-collector")
}

// Path returns the path to the config file.
func Path() string {
	return filepath.Join(configDir(), "config.yaml")
}

// Exists reports whether a config file is present.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// Load reads the config file, applies environment overrides and validates
// the result. A .env file is honored when present.
func Load() (*Config, error) {
	data, err := os.ReadFile(Path())
	if err != nil {
		return nil, fmt.Errorf("config not found at %s, run `collector setup` first", Path())
	}
	return Parse(data)
}

// Parse decodes raw YAML, applies environment overrides and validates.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Fakturoid.BaseURL == "" {
		c.Fakturoid.BaseURL = DefaultBaseURL
	}
	if c.Email.Subject == "" {
		c.Email.Subject = DefaultSubject
	}
	if c.Email.Body == "" {
		c.Email.Body = DefaultBody
	}
}

func (c *Config) applyEnv() {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString(&c.Fakturoid.ClientID, "FAKTUROID_CLIENT_ID")
	setString(&c.Fakturoid.ClientSecret, "FAKTUROID_CLIENT_SECRET")
	setString(&c.Fakturoid.ApplicationName, "FAKTUROID_APPLICATION_NAME")
	setString(&c.Fakturoid.Email, "FAKTUROID_EMAIL")
	setString(&c.Fakturoid.Account, "FAKTUROID_ACCOUNT")
	setString(&c.Fakturoid.BaseURL, "FAKTUROID_BASE_URL")
	setString(&c.Email.SMTPServer, "SMTP_SERVER")
	setString(&c.Email.SMTPUser, "SMTP_USER")
	setString(&c.Email.SMTPPassword, "SMTP_PASSWORD")
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Email.SMTPPort = port
		}
	}
}

// Validate checks both groups field by field.
func (c *Config) Validate() error {
	if err := c.Fakturoid.Validate(); err != nil {
		return err
	}
	return c.Email.Validate()
}

func (f *FakturoidConfig) Validate() error {
	if f.ClientID == "" {
		return fmt.Errorf("fakturoid.client_id is required")
	}
	if f.ClientSecret == "" {
		return fmt.Errorf("fakturoid.client_secret is required")
	}
	if f.ApplicationName == "" {
		return fmt.Errorf("fakturoid.application_name is required")
	}
	if len(f.ApplicationName) > MaxApplicationNameLength {
		return fmt.Errorf("fakturoid.application_name must be at most %d characters", MaxApplicationNameLength)
	}
	if f.Email == "" {
		return fmt.Errorf("fakturoid.email is required")
	}
	if !ValidEmail(f.Email) {
		return fmt.Errorf("fakturoid.email is not a valid email address")
	}
	if f.Account == "" {
		return fmt.Errorf("fakturoid.account is required")
	}
	if f.BaseURL == "" {
		return fmt.Errorf("fakturoid.base_url is required")
	}
	return nil
}

func (e *EmailConfig) Validate() error {
	if e.SMTPServer == "" {
		return fmt.Errorf("email.smtp_server is required")
	}
	if !ValidPort(e.SMTPPort) {
		return fmt.Errorf("email.smtp_port must be between 1 and 65535")
	}
	if e.SMTPUser == "" {
		return fmt.Errorf("email.smtp_user is required")
	}
	if e.SMTPPassword == "" {
		return fmt.Errorf("email.smtp_password is required")
	}
	return nil
}

// Save writes the config to disk, creating the directory as needed.
func Save(cfg *Config) error {
	if err := os.MkdirAll(configDir(), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(Path(), data, 0o600)
}

package config

import (
	"encoding/json"
	"fmt"
	"time"
)

// Config contains the full service configuration.
type Config struct {
	// Addr is the webhook server listen address.
	Addr string `koanf:"addr"`

	// LogLevel controls console verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFile is the rotating log file path. Empty disables file logging.
	LogFile string `koanf:"log_file"`

	// Timezone is the IANA zone used for timed calendar events when the
	// message itself carries no zone information.
	Timezone string `koanf:"timezone"`

	// EventDuration is the default length of timed calendar events.
	EventDuration time.Duration `koanf:"event_duration"`

	OpenAI   OpenAIConfig   `koanf:"openai"`
	Google   GoogleConfig   `koanf:"google"`
	WhatsApp WhatsAppConfig `koanf:"whatsapp"`
	Meet     MeetConfig     `koanf:"meet"`
	Metrics  MetricsConfig  `koanf:"metrics"`
}

// OpenAIConfig configures the intent-extraction client.
type OpenAIConfig struct {
	// APIKey authenticates against the OpenAI API.
	APIKey string `koanf:"api_key"`

	// Model is the chat-completion model used for classification and
	// extraction.
	Model string `koanf:"model"`
}

// GoogleConfig configures access to Google Calendar and Drive.
type GoogleConfig struct {
	// CredentialsJSON is the minified service-account key blob. Private-key
	// newlines arrive escaped when passed through the environment; the
	// JSON decoder restores them.
	CredentialsJSON string `koanf:"credentials_json"`

	// CalendarID is the calendar events are scheduled into.
	CalendarID string `koanf:"calendar_id"`

	// SharedFolderID is the Drive folder documents are filed into. Empty
	// uploads into the service account's private Drive.
	SharedFolderID string `koanf:"shared_folder_id"`
}

// WhatsAppConfig configures the WhatsApp Business Cloud API client and
// webhook verification.
type WhatsAppConfig struct {
	// AccessToken is the Graph API bearer token.
	AccessToken string `koanf:"access_token"`

	// VerifyToken is the value Meta echoes during the webhook handshake.
	VerifyToken string `koanf:"verify_token"`

	// AppSecret signs webhook deliveries (X-Hub-Signature-256). Empty
	// disables signature verification.
	AppSecret string `koanf:"app_secret"`

	// PhoneNumberID is the sending phone number's Graph object ID.
	PhoneNumberID string `koanf:"phone_number_id"`

	// APIVersion is the Graph API version path segment, e.g. "v21.0".
	APIVersion string `koanf:"api_version"`
}

// MeetConfig configures Meet link provisioning.
type MeetConfig struct {
	// LinksFile is the newline-separated pool of reusable Meet links.
	LinksFile string `koanf:"links_file"`
}

// MetricsConfig configures the dedicated metrics listener.
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Addr:          ":8000",
		LogLevel:      "info",
		LogFile:       "logs/app.log",
		Timezone:      "Asia/Kolkata",
		EventDuration: 30 * time.Minute,
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		WhatsApp: WhatsAppConfig{
			APIVersion: "v21.0",
		},
		Meet: MeetConfig{
			LinksFile: "meet_links.txt",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Addr:    ":9090",
		},
	}
}

// Validate checks that the configuration is complete enough to serve.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("%w: OPENAI_API_KEY is required", ErrInvalidConfig)
	}
	if c.Google.CredentialsJSON == "" {
		return fmt.Errorf("%w: GOOGLE_CALENDAR_CREDENTIALS is required", ErrInvalidConfig)
	}
	if !json.Valid([]byte(c.Google.CredentialsJSON)) {
		return fmt.Errorf("%w: GOOGLE_CALENDAR_CREDENTIALS is not valid JSON", ErrInvalidConfig)
	}
	if c.Google.CalendarID == "" {
		return fmt.Errorf("%w: GOOGLE_CALENDAR_ID is required", ErrInvalidConfig)
	}
	if c.WhatsApp.AccessToken == "" {
		return fmt.Errorf("%w: WhatsApp access token is required", ErrInvalidConfig)
	}
	if c.WhatsApp.VerifyToken == "" {
		return fmt.Errorf("%w: WhatsApp verify token is required", ErrInvalidConfig)
	}
	if c.WhatsApp.PhoneNumberID == "" {
		return fmt.Errorf("%w: WhatsApp phone number ID is required", ErrInvalidConfig)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("%w: unknown timezone %q", ErrInvalidConfig, c.Timezone)
	}
	if c.EventDuration <= 0 {
		return fmt.Errorf("%w: event_duration must be positive", ErrInvalidConfig)
	}
	return nil
}

// Location resolves the configured timezone. Validate must have passed.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

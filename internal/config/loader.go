package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// legacyEnv maps the service's documented environment names to config keys.
// Aliases are listed lowest-precedence first, so e.g. WHATSAPP_ACCESS_TOKEN
// wins over ACCESS_TOKEN when both are set.
var legacyEnv = []struct {
	name string
	key  string
}{
	{"OPENAI_API_KEY", "openai.api_key"},
	{"OPENAI_MODEL", "openai.model"},
	{"GOOGLE_CALENDAR_CREDENTIALS", "google.credentials_json"},
	{"GOOGLE_CALENDAR_ID", "google.calendar_id"},
	{"SHARED_FOLDER_ID", "google.shared_folder_id"},
	{"ACCESS_TOKEN", "whatsapp.access_token"},
	{"WHATSAPP_ACCESS_TOKEN", "whatsapp.access_token"},
	{"VERIFY_TOKEN", "whatsapp.verify_token"},
	{"WHATSAPP_VERIFY_TOKEN", "whatsapp.verify_token"},
	{"APP_SECRET", "whatsapp.app_secret"},
	{"WHATSAPP_APP_SECRET", "whatsapp.app_secret"},
	{"PHONE_NUMBER_ID", "whatsapp.phone_number_id"},
	{"WHATSAPP_PHONE_NUMBER_ID", "whatsapp.phone_number_id"},
	{"VERSION", "whatsapp.api_version"},
	{"GRAPH_API_VERSION", "whatsapp.api_version"},
	{"LOG_LEVEL", "log_level"},
	{"LOG_FILE", "log_file"},
}

// Load builds a Config by layering defaults, an optional YAML file, and
// environment variables. A .env file is read into the environment first
// when present; existing variables are never overridden by it.
//
// Load does not validate: which settings are required depends on the
// command. The webhook server calls Validate; the one-shot upload and
// stdio MCP commands run with a partial configuration.
func Load() (*Config, error) {
	_ = godotenv.Load()

	base := New()
	k := koanf.New(".")

	if path := os.Getenv("WACLERK_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// WACLERK_OPENAI_API_KEY -> openai.api_key. A double underscore is the
	// nesting separator so key names may themselves contain underscores:
	// WACLERK_GOOGLE__CALENDAR_ID -> google.calendar_id.
	envProvider := env.Provider("WACLERK_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "WACLERK_"))
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// The documented plain names take highest precedence.
	for _, e := range legacyEnv {
		if v, ok := os.LookupEnv(e.name); ok && v != "" {
			if err := k.Set(e.key, v); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
			}
		}
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}
	return &cfg, nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the root configuration for hamster, stored in
// ~/.hamster/config.yaml. Every key can be overridden from the environment
// with the HAMSTER_ prefix, e.g. HAMSTER_LOG_LEVEL=debug.
type Config struct {
	// Backend selects the fact store: "file" or "dbus".
	Backend string
	// DataDir is the root of the file backend's day files.
	DataDir string
	Log     LogConfig
	List    ListConfig
	Outlook OutlookConfig
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level       string
	Development bool
}

// ListConfig holds defaults for the activity listing.
type ListConfig struct {
	// SpanDates prints full dates when a listing covers several days.
	SpanDates bool
}

// OutlookConfig holds Microsoft Graph / Outlook calendar import settings.
type OutlookConfig struct {
	// TenantID is the Azure AD tenant. Use "common" for personal/multi-tenant accounts.
	TenantID string
	// ClientID is the Azure app (client) ID for the OAuth2 device code flow.
	ClientID string
	// DefaultCategory is the category assigned to imported Outlook events.
	DefaultCategory string
	// Timezone is the IANA timezone for event times (e.g. "Europe/Berlin"). Empty = UTC.
	Timezone string
}

const (
	BackendFile = "file"
	BackendDBus = "dbus"

	// DefaultTenantID is the Microsoft "common" tenant (supports personal and
	// multi-tenant organisational accounts without additional registration).
	DefaultTenantID = "common"
	// DefaultClientID is the well-known public Azure CLI app ID. It supports
	// device code flow without a client secret.
	DefaultClientID = "04b07795-8542-4c4a-95af-30b2c573d5ab"
	// DefaultCategory is the category used for imported events.
	DefaultCategory = "Meetings"
)

// configTemplate is the annotated config written on first run.
const configTemplate = `# hamster configuration - ~/.hamster/config.yaml
#
# All settings are optional. Any key can be overridden from the environment,
# e.g. HAMSTER_BACKEND=dbus or HAMSTER_LIST_SPAN_DATES=true.

# Where facts are stored:
#   file - JSON day files below data_dir (default)
#   dbus - the running Hamster time tracker (org.gnome.Hamster on the session bus)
backend: file

# Root directory of the file backend. Empty means the directory of this file.
data_dir: ""

log:
  # debug, info, warn or error. Logs go to stderr.
  level: warn
  development: false

list:
  # Print full dates in "list" when the range covers more than one day.
  # Off by default: the listing historically always shows times only.
  span_dates: false

# Microsoft Graph / Outlook calendar import (hamster outlook sync).
outlook:
  tenant_id: common
  # The built-in value is the public Azure CLI app - no app registration needed.
  client_id: "04b07795-8542-4c4a-95af-30b2c573d5ab"
  # Category assigned to imported calendar events.
  default_category: Meetings
  # IANA timezone for event times, e.g. "Europe/Berlin". Empty means UTC.
  timezone: ""
`

// Dir returns the configuration directory (~/.hamster).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".hamster"), nil
}

// Load reads ~/.hamster/config.yaml, creating it with annotated defaults on
// first run.
func Load() (Config, error) {
	dir, err := Dir()
	if err != nil {
		return Config{}, err
	}
	path := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
	}
	return LoadFile(path)
}

// LoadFile reads the config at path. A missing file yields the defaults.
func LoadFile(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("hamster")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}

	cfg := Config{
		Backend: v.GetString("backend"),
		DataDir: v.GetString("data_dir"),
		Log: LogConfig{
			Level:       v.GetString("log.level"),
			Development: v.GetBool("log.development"),
		},
		List: ListConfig{
			SpanDates: v.GetBool("list.span_dates"),
		},
		Outlook: OutlookConfig{
			TenantID:        v.GetString("outlook.tenant_id"),
			ClientID:        v.GetString("outlook.client_id"),
			DefaultCategory: v.GetString("outlook.default_category"),
			Timezone:        v.GetString("outlook.timezone"),
		},
	}
	if cfg.DataDir == "" {
		cfg.DataDir = filepath.Dir(path)
	}

	switch cfg.Backend {
	case BackendFile, BackendDBus:
	default:
		return Config{}, fmt.Errorf("unknown backend %q in %s (want %q or %q)", cfg.Backend, path, BackendFile, BackendDBus)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend", BackendFile)
	v.SetDefault("data_dir", "")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.development", false)
	v.SetDefault("list.span_dates", false)
	v.SetDefault("outlook.tenant_id", DefaultTenantID)
	v.SetDefault("outlook.client_id", DefaultClientID)
	v.SetDefault("outlook.default_category", DefaultCategory)
	v.SetDefault("outlook.timezone", "")
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}

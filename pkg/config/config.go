package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/joho/godotenv"

	"schedulectl/pkg/timetable"
)

const (
	// DefaultBaseURL points at the public timetable site
	DefaultBaseURL = "https://rasp.example-college.ru"
	// DefaultSchedulePath is the page holding the tables of one subject, %s is the escaped subject id
	DefaultSchedulePath = "schedule.html?group=%s"
	// DefaultCacheTTL determines how long schedule data is kept before refreshing
	DefaultCacheTTL = 12 * time.Hour
)

// AppConfig holds all user-defined persistent settings
type AppConfig struct {
	SubjectID    string   `json:"subject_id,omitempty"`
	BaseURL      string   `json:"base_url,omitempty" validate:"omitempty,url"`
	SchedulePath string   `json:"schedule_path,omitempty" validate:"omitempty,contains=%s"`
	AccentColor  string   `json:"accent_color,omitempty" validate:"omitempty,max=7"`
	RestDay      string   `json:"rest_day,omitempty" validate:"omitempty,oneof=sunday monday tuesday wednesday thursday friday saturday"`
	RegularCalls []string `json:"regular_calls,omitempty" validate:"omitempty,len=6,dive,timeslot"`
	RestCalls    []string `json:"rest_calls,omitempty" validate:"omitempty,len=6,dive,timeslot"`
	CacheTTL     string   `json:"cache_ttl,omitempty" validate:"omitempty,cacheduration"`
	RedisAddr    string   `json:"redis_addr,omitempty" validate:"omitempty,hostname_port"`
	LogLevel     string   `json:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`
}

// getConfigPath returns the absolute path to ~/.schedulectl.json
func getConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".schedulectl.json"), nil
}

// Load reads the application configuration from disk.
// Returns an empty struct if the file does not exist.
func Load() (*AppConfig, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, just return an empty default configuration
		if os.IsNotExist(err) {
			return &AppConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// LoadWithEnv reads the config file and then applies SCHEDULECTL_* overrides from the
// environment and from a .env file in the working directory, if present.
func LoadWithEnv() (*AppConfig, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	// A missing .env is the common case
	_ = godotenv.Load()
	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields with the SCHEDULECTL_* environment variables that are set.
func (c *AppConfig) ApplyEnv() {
	overrides := map[string]*string{
		"SCHEDULECTL_SUBJECT":       &c.SubjectID,
		"SCHEDULECTL_BASE_URL":      &c.BaseURL,
		"SCHEDULECTL_SCHEDULE_PATH": &c.SchedulePath,
		"SCHEDULECTL_REST_DAY":      &c.RestDay,
		"SCHEDULECTL_CACHE_TTL":     &c.CacheTTL,
		"SCHEDULECTL_REDIS_ADDR":    &c.RedisAddr,
		"SCHEDULECTL_LOG_LEVEL":     &c.LogLevel,
	}
	for key, field := range overrides {
		if v, ok := os.LookupEnv(key); ok {
			*field = strings.TrimSpace(v)
		}
	}
}

// Save writes the application configuration back to disk.
func Save(cfg *AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	path, err := getConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Update applies change to the settings stored on disk and saves them. Environment overrides
// are not applied, so they never end up in the file.
func Update(change func(cfg *AppConfig)) (*AppConfig, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	change(cfg)
	if err := Save(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("timeslot", func(fl validator.FieldLevel) bool {
		_, err := timetable.ParseTimeSlot(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("cacheduration", func(fl validator.FieldLevel) bool {
		_, err := time.ParseDuration(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks the field formats.
func (c *AppConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// BaseURLOrDefault returns the configured site or the default one.
func (c *AppConfig) BaseURLOrDefault() string {
	if c.BaseURL == "" {
		return DefaultBaseURL
	}
	return strings.TrimRight(c.BaseURL, "/")
}

// SchedulePathOrDefault returns the configured schedule page template or the default one.
func (c *AppConfig) SchedulePathOrDefault() string {
	if c.SchedulePath == "" {
		return DefaultSchedulePath
	}
	return c.SchedulePath
}

// TTL returns the cache lifetime.
func (c *AppConfig) TTL() time.Duration {
	if d, err := time.ParseDuration(c.CacheTTL); err == nil && d > 0 {
		return d
	}
	return DefaultCacheTTL
}

// CallTable builds the bell schedule, filling unset parts with the defaults.
func (c *AppConfig) CallTable() (timetable.CallTable, error) {
	calls := timetable.DefaultCallTable()

	if c.RestDay != "" {
		day, ok := weekdays[strings.ToLower(c.RestDay)]
		if !ok {
			return calls, fmt.Errorf("unknown rest day %q", c.RestDay)
		}
		calls.RestDay = day
	}
	if err := fillSlots(&calls.Regular, c.RegularCalls); err != nil {
		return calls, fmt.Errorf("regular calls: %w", err)
	}
	if err := fillSlots(&calls.Rest, c.RestCalls); err != nil {
		return calls, fmt.Errorf("rest day calls: %w", err)
	}
	return calls, nil
}

func fillSlots(dst *[timetable.SlotsPerDay]timetable.TimeSlot, src []string) error {
	if len(src) == 0 {
		return nil
	}
	if len(src) != timetable.SlotsPerDay {
		return fmt.Errorf("expected %d time slots, got %d", timetable.SlotsPerDay, len(src))
	}
	for i, s := range src {
		slot, err := timetable.ParseTimeSlot(s)
		if err != nil {
			return err
		}
		dst[i] = slot
	}
	return nil
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Upload decoding
	Delimiter      string // one character, or "auto" to sniff
	Encoding       string // "latin1" or "utf8"
	SchemaVariant  string // "minimal" or "extended"
	MaxUploadBytes int64

	// Sessions
	SessionTTL   time.Duration
	SessionLimit int

	// Optional flat-file user registry; empty disables login.
	UsersFile string
}

func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8082"),
		Delimiter:      getEnv("UPLOAD_DELIMITER", ";"),
		Encoding:       getEnv("UPLOAD_ENCODING", "latin1"),
		SchemaVariant:  getEnv("SCHEMA_VARIANT", "extended"),
		MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", 16<<20),
		SessionTTL:     getEnvDuration("SESSION_TTL", 30*time.Minute),
		SessionLimit:   getEnvInt("SESSION_LIMIT", 100),
		UsersFile:      getEnv("USERS_FILE", ""),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.Delimiter != "auto" && len([]rune(c.Delimiter)) != 1 {
		errs = append(errs, fmt.Sprintf("invalid delimiter %q: must be one character or 'auto'", c.Delimiter))
	}

	switch c.Encoding {
	case "latin1", "utf8":
	default:
		errs = append(errs, fmt.Sprintf("invalid encoding '%s': must be 'latin1' or 'utf8'", c.Encoding))
	}

	switch c.SchemaVariant {
	case "minimal", "extended":
	default:
		errs = append(errs, fmt.Sprintf("invalid schema variant '%s': must be 'minimal' or 'extended'", c.SchemaVariant))
	}

	if c.MaxUploadBytes < 1<<10 {
		errs = append(errs, fmt.Sprintf("invalid max upload size %d: must be at least 1KB", c.MaxUploadBytes))
	}

	if c.SessionTTL < time.Minute {
		errs = append(errs, fmt.Sprintf("invalid session TTL %v: must be at least 1 minute", c.SessionTTL))
	}
	if c.SessionLimit < 1 {
		errs = append(errs, fmt.Sprintf("invalid session limit %d: must be at least 1", c.SessionLimit))
	}

	if c.UsersFile != "" {
		if _, err := os.Stat(c.UsersFile); os.IsNotExist(err) {
			errs = append(errs, fmt.Sprintf("users file does not exist: %s", c.UsersFile))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// DelimiterRune converts the configured delimiter to the rune the
// ingest reader expects; 0 means auto-detection.
func (c *Config) DelimiterRune() rune {
	if c.Delimiter == "auto" {
		return 0
	}
	return []rune(c.Delimiter)[0]
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Port:           "8082",
		Delimiter:      ";",
		Encoding:       "latin1",
		SchemaVariant:  "extended",
		MaxUploadBytes: 16 << 20,
		SessionTTL:     30 * time.Minute,
		SessionLimit:   100,
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Port = "nope" }},
		{"port out of range", func(c *Config) { c.Port = "70000" }},
		{"multi-char delimiter", func(c *Config) { c.Delimiter = ";;" }},
		{"bad encoding", func(c *Config) { c.Encoding = "utf16" }},
		{"bad variant", func(c *Config) { c.SchemaVariant = "full" }},
		{"tiny upload limit", func(c *Config) { c.MaxUploadBytes = 10 }},
		{"short ttl", func(c *Config) { c.SessionTTL = time.Second }},
		{"zero session limit", func(c *Config) { c.SessionLimit = 0 }},
		{"missing users file", func(c *Config) { c.UsersFile = "/definitely/not/here.csv" }},
	}
	for _, tc := range cases {
		cfg := validConfig()
		tc.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}

func TestDelimiterRune(t *testing.T) {
	cfg := validConfig()
	if cfg.DelimiterRune() != ';' {
		t.Fatalf("rune = %q", cfg.DelimiterRune())
	}
	cfg.Delimiter = "auto"
	if cfg.DelimiterRune() != 0 {
		t.Fatal("auto should map to 0")
	}
}

package config

import (
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ListenAddr string

	// Base URL of the commerce backend API, e.g. http://localhost:8080/api/v1.
	BackendURL string

	// Path of the local sqlite file holding the admin session and
	// notification read-state.
	StatePath string

	KafkaBrokers []string
	AuditTopic   string

	LogLevel string

	CookieSecure bool
}

// fileConfig mirrors Config for the optional YAML config file. Environment
// variables win over file values.
type fileConfig struct {
	ListenAddr   string   `yaml:"listen_addr"`
	BackendURL   string   `yaml:"backend_url"`
	StatePath    string   `yaml:"state_path"`
	KafkaBrokers []string `yaml:"kafka_brokers"`
	AuditTopic   string   `yaml:"audit_topic"`
	LogLevel     string   `yaml:"log_level"`
	CookieSecure bool     `yaml:"cookie_secure"`
}

func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:   EnvDefault("CONSOLE_ADDR", ":8081"),
		BackendURL:   os.Getenv("BACKEND_URL"),
		StatePath:    EnvDefault("STATE_PATH", "console.db"),
		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
		AuditTopic:   EnvDefault("AUDIT_TOPIC", "admin_activity"),
		LogLevel:     EnvDefault("LOG_LEVEL", "info"),
		CookieSecure: EnvBoolDefault("COOKIE_SECURE", false),
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	MustNonEmpty(cfg.BackendURL, "BACKEND_URL")

	cfg.BackendURL = strings.TrimRight(cfg.BackendURL, "/")

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return err
	}

	if os.Getenv("CONSOLE_ADDR") == "" && fc.ListenAddr != "" {
		c.ListenAddr = fc.ListenAddr
	}
	if c.BackendURL == "" {
		c.BackendURL = fc.BackendURL
	}
	if os.Getenv("STATE_PATH") == "" && fc.StatePath != "" {
		c.StatePath = fc.StatePath
	}
	if len(c.KafkaBrokers) == 0 {
		c.KafkaBrokers = fc.KafkaBrokers
	}
	if os.Getenv("AUDIT_TOPIC") == "" && fc.AuditTopic != "" {
		c.AuditTopic = fc.AuditTopic
	}
	if os.Getenv("LOG_LEVEL") == "" && fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	if os.Getenv("COOKIE_SECURE") == "" && fc.CookieSecure {
		c.CookieSecure = true
	}

	return nil
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if os.Getenv(key) != "" {
		return os.Getenv(key)
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// Package config loads the module configuration from environment variables.
package config

import (
	"fmt"
	"strings"

	pkgconfig "github.com/lruozzi9/SyliusElasticsearchPlugin/pkg/config"
)

// Config holds all configuration for the catalog search service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8010"`

	// Search engine selection (elasticsearch or memory)
	SearchEngine string `env:"SEARCH_ENGINE" envDefault:"elasticsearch"`

	// Elasticsearch
	ElasticsearchURL string `env:"ELASTICSEARCH_URL" envDefault:"http://localhost:9200"`

	// Index name prefix; index names are prefix-channel-doctype.
	IndexPrefix string `env:"INDEX_PREFIX" envDefault:"store"`

	// Channels as CODE:default_locale pairs, e.g. "WEB:en_US,MOBILE:fr_FR".
	Channels       []string `env:"CHANNELS" envDefault:"WEB:en_US" envSeparator:","`
	DefaultChannel string   `env:"DEFAULT_CHANNEL" envDefault:"WEB"`
	DefaultLocale  string   `env:"DEFAULT_LOCALE" envDefault:"en_US"`

	// Catalog service used to fetch products during (re)indexing.
	CatalogServiceURL string `env:"CATALOG_SERVICE_URL" envDefault:"http://localhost:8080"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	KafkaGroupID string   `env:"KAFKA_GROUP_ID" envDefault:"catalog-search"`
	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"true"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load catalog search config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ChannelLocales returns the configured channels as code -> default locale,
// preserving the configured order in the returned code slice.
func (c *Config) ChannelLocales() ([]string, map[string]string, error) {
	codes := make([]string, 0, len(c.Channels))
	locales := make(map[string]string, len(c.Channels))
	for _, entry := range c.Channels {
		code, localeCode, found := strings.Cut(strings.TrimSpace(entry), ":")
		if !found || code == "" || localeCode == "" {
			return nil, nil, fmt.Errorf("invalid channel entry %q, want CODE:locale", entry)
		}
		codes = append(codes, code)
		locales[code] = localeCode
	}
	return codes, locales, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.SearchEngine != "elasticsearch" && c.SearchEngine != "memory" {
		return fmt.Errorf("invalid search engine %q, want elasticsearch or memory", c.SearchEngine)
	}
	if len(c.Channels) == 0 {
		return fmt.Errorf("at least one channel must be configured")
	}
	if _, locales, err := c.ChannelLocales(); err != nil {
		return err
	} else if _, ok := locales[c.DefaultChannel]; !ok {
		return fmt.Errorf("default channel %q is not among the configured channels", c.DefaultChannel)
	}
	if c.CatalogServiceURL == "" {
		return fmt.Errorf("CATALOG_SERVICE_URL is required")
	}
	return nil
}

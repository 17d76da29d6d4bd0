package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent satchel configuration stored as
// config.toml in the .satchel/ directory. The TOML layout uses sections
// for logical grouping. Credentials can also arrive via SATCHEL_* env vars
// through viper, which takes precedence over the file.
type Config struct {
	Version   int             `toml:"version"`
	Storage   StorageConfig   `toml:"storage"`
	S3        S3Config        `toml:"s3"`
	API       APIConfig       `toml:"api"`
	Embedding EmbeddingConfig `toml:"embedding"`
	Search    SearchConfig    `toml:"search"`
}

// StorageConfig addresses the shared remote database file.
type StorageConfig struct {
	RemoteKey string `toml:"remote_key,omitempty"`
}

// S3Config holds the object store connection settings.
type S3Config struct {
	Endpoint  string `toml:"endpoint,omitempty"`
	Region    string `toml:"region,omitempty"`
	Bucket    string `toml:"bucket,omitempty"`
	AccessKey string `toml:"access_key,omitempty"`
	SecretKey string `toml:"secret_key,omitempty"`
	UseSSL    bool   `toml:"use_ssl,omitempty"`
}

// APIConfig holds API server settings.
type APIConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider   string `toml:"provider,omitempty"`
	Target     string `toml:"target,omitempty"`
	Model      string `toml:"model,omitempty"`
	APIKey     string `toml:"api_key,omitempty"`
	Dimensions uint   `toml:"dimensions,omitempty"`
}

// SearchConfig holds search defaults.
type SearchConfig struct {
	Limit    int     `toml:"limit,omitempty"`
	MinScore float64 `toml:"min_score,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"storage.remote_key": {
		get: func(c *Config) string { return c.Storage.RemoteKey },
		set: func(c *Config, v string) error { c.Storage.RemoteKey = v; return nil },
	},
	"s3.endpoint": {
		get: func(c *Config) string { return c.S3.Endpoint },
		set: func(c *Config, v string) error { c.S3.Endpoint = v; return nil },
	},
	"s3.region": {
		get: func(c *Config) string { return c.S3.Region },
		set: func(c *Config, v string) error { c.S3.Region = v; return nil },
	},
	"s3.bucket": {
		get: func(c *Config) string { return c.S3.Bucket },
		set: func(c *Config, v string) error { c.S3.Bucket = v; return nil },
	},
	"s3.access_key": {
		get: func(c *Config) string { return c.S3.AccessKey },
		set: func(c *Config, v string) error { c.S3.AccessKey = v; return nil },
	},
	"s3.secret_key": {
		get: func(c *Config) string { return c.S3.SecretKey },
		set: func(c *Config, v string) error { c.S3.SecretKey = v; return nil },
	},
	"s3.use_ssl": {
		get: func(c *Config) string { return strconv.FormatBool(c.S3.UseSSL) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for s3.use_ssl: %w", err)
			}
			c.S3.UseSSL = b
			return nil
		},
	},
	"api.listen": {
		get: func(c *Config) string { return c.API.Listen },
		set: func(c *Config, v string) error { c.API.Listen = v; return nil },
	},
	"embedding.provider": {
		get: func(c *Config) string { return c.Embedding.Provider },
		set: func(c *Config, v string) error { c.Embedding.Provider = v; return nil },
	},
	"embedding.target": {
		get: func(c *Config) string { return c.Embedding.Target },
		set: func(c *Config, v string) error { c.Embedding.Target = v; return nil },
	},
	"embedding.model": {
		get: func(c *Config) string { return c.Embedding.Model },
		set: func(c *Config, v string) error { c.Embedding.Model = v; return nil },
	},
	"embedding.api_key": {
		get: func(c *Config) string { return c.Embedding.APIKey },
		set: func(c *Config, v string) error { c.Embedding.APIKey = v; return nil },
	},
	"embedding.dimensions": {
		get: func(c *Config) string {
			if c.Embedding.Dimensions == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Embedding.Dimensions), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for embedding.dimensions: %w", err)
			}
			c.Embedding.Dimensions = uint(n)
			return nil
		},
	},
	"search.limit": {
		get: func(c *Config) string {
			if c.Search.Limit == 0 {
				return ""
			}
			return strconv.Itoa(c.Search.Limit)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid value for search.limit: %w", err)
			}
			c.Search.Limit = n
			return nil
		},
	},
	"search.min_score": {
		get: func(c *Config) string {
			if c.Search.MinScore == 0 {
				return ""
			}
			return strconv.FormatFloat(c.Search.MinScore, 'g', -1, 64)
		},
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("invalid value for search.min_score: %w", err)
			}
			c.Search.MinScore = f
			return nil
		},
	},
}

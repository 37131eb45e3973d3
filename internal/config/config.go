package config

import (
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port         int           `yaml:"port" default:"8080"`
		Host         string        `yaml:"host" default:"0.0.0.0"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"30s"`
		IdleTimeout  time.Duration `yaml:"idle_timeout" default:"60s"`
	} `yaml:"server"`

	Aggregation struct {
		ProviderTimeout time.Duration `yaml:"provider_timeout" default:"12s"`
		RequestTimeout  time.Duration `yaml:"request_timeout" default:"30s"`
		MaxPageSize     int           `yaml:"max_page_size" default:"100"`
		DefaultPageSize int           `yaml:"default_page_size" default:"20"`
		RateLimit       int           `yaml:"rate_limit" default:"60"` // requests per minute per provider
		RateBurst       int           `yaml:"rate_burst" default:"10"`
		BreakerFailures int           `yaml:"breaker_failures" default:"5"`
		BreakerReset    time.Duration `yaml:"breaker_reset" default:"60s"`
	} `yaml:"aggregation"`

	Cache struct {
		Backend       string                   `yaml:"backend" default:"redis"` // redis or memory
		SweepInterval time.Duration            `yaml:"sweep_interval" default:"10m"`
		TTL           map[string]time.Duration `yaml:"ttl"`
	} `yaml:"cache"`

	Redis struct {
		URL      string        `yaml:"url" default:"redis://localhost:6379"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db" default:"0"`
		Timeout  time.Duration `yaml:"timeout" default:"5s"`
	} `yaml:"redis"`

	Providers struct {
		JSearch struct {
			Enabled bool   `yaml:"enabled" default:"true"`
			APIKey  string `yaml:"api_key"`
			BaseURL string `yaml:"base_url" default:"https://jsearch.p.rapidapi.com"`
		} `yaml:"jsearch"`

		Remotive struct {
			Enabled bool   `yaml:"enabled" default:"true"`
			BaseURL string `yaml:"base_url" default:"https://remotive.com/api"`
		} `yaml:"remotive"`

		Coursera struct {
			Enabled bool   `yaml:"enabled" default:"true"`
			BaseURL string `yaml:"base_url" default:"https://api.coursera.org/api"`
		} `yaml:"coursera"`

		ClassCentral struct {
			Enabled bool   `yaml:"enabled" default:"true"`
			BaseURL string `yaml:"base_url" default:"https://www.classcentral.com"`
		} `yaml:"classcentral"`
	} `yaml:"providers"`

	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json"`
		Output string `yaml:"output" default:"stdout"`

		Adapters []struct {
			Name    string                 `yaml:"name"`
			Type    string                 `yaml:"type"`
			Enabled bool                   `yaml:"enabled"`
			Options map[string]interface{} `yaml:"options"`
		} `yaml:"adapters"`
	} `yaml:"logging"`
}

// expandEnvVars expands environment variables in a string using ${VAR} or $VAR syntax
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	s = re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	re2 := regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	s = re2.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[1:]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	return s
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	_ = godotenv.Load()

	config := &Config{}
	config.setDefaults()

	// Load from YAML file if it exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			yamlContent := expandEnvVars(string(data))

			if err := yaml.Unmarshal([]byte(yamlContent), config); err != nil {
				return nil, err
			}
		}
	}

	// Override with environment variables
	config.loadFromEnv()

	return config, nil
}

// setDefaults applies the built-in defaults before any file or env override.
func (c *Config) setDefaults() {
	c.Server.Port = 8080
	c.Server.Host = "0.0.0.0"
	c.Server.ReadTimeout = 30 * time.Second
	c.Server.WriteTimeout = 30 * time.Second
	c.Server.IdleTimeout = 60 * time.Second

	c.Aggregation.ProviderTimeout = 12 * time.Second
	c.Aggregation.RequestTimeout = 30 * time.Second
	c.Aggregation.MaxPageSize = 100
	c.Aggregation.DefaultPageSize = 20
	c.Aggregation.RateLimit = 60
	c.Aggregation.RateBurst = 10
	c.Aggregation.BreakerFailures = 5
	c.Aggregation.BreakerReset = 60 * time.Second

	c.Cache.Backend = "redis"
	c.Cache.SweepInterval = 10 * time.Minute
	// Browse-style entries live longest, volatile free listings shortest.
	c.Cache.TTL = map[string]time.Duration{
		"free":            6 * time.Hour,
		"featured":        12 * time.Hour,
		"recommendations": 12 * time.Hour,
		"search":          24 * time.Hour,
		"category":        24 * time.Hour,
		"default":         24 * time.Hour,
	}

	c.Redis.URL = "redis://localhost:6379"
	c.Redis.DB = 0
	c.Redis.Timeout = 5 * time.Second

	c.Providers.JSearch.Enabled = true
	c.Providers.JSearch.BaseURL = "https://jsearch.p.rapidapi.com"
	c.Providers.Remotive.Enabled = true
	c.Providers.Remotive.BaseURL = "https://remotive.com/api"
	c.Providers.Coursera.Enabled = true
	c.Providers.Coursera.BaseURL = "https://api.coursera.org/api"
	c.Providers.ClassCentral.Enabled = true
	c.Providers.ClassCentral.BaseURL = "https://www.classcentral.com"

	c.Logging.Level = "info"
	c.Logging.Format = "json"
	c.Logging.Output = "stdout"
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		c.Server.Host = host
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}

	if backend := os.Getenv("CACHE_BACKEND"); backend != "" {
		c.Cache.Backend = backend
	}

	if sweep := os.Getenv("CACHE_SWEEP_INTERVAL"); sweep != "" {
		if d, err := time.ParseDuration(sweep); err == nil {
			c.Cache.SweepInterval = d
		}
	}

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.URL = redisURL
	}

	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		c.Redis.Password = redisPassword
	}

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		if db, err := strconv.Atoi(redisDB); err == nil {
			c.Redis.DB = db
		}
	}

	if redisTimeout := os.Getenv("REDIS_TIMEOUT"); redisTimeout != "" {
		if timeout, err := time.ParseDuration(redisTimeout); err == nil {
			c.Redis.Timeout = timeout
		}
	}

	if apiKey := os.Getenv("RAPIDAPI_KEY"); apiKey != "" {
		c.Providers.JSearch.APIKey = apiKey
	}

	if apiKey := os.Getenv("JSEARCH_API_KEY"); apiKey != "" {
		c.Providers.JSearch.APIKey = apiKey
	}

	if timeout := os.Getenv("PROVIDER_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.Aggregation.ProviderTimeout = d
		}
	}

	if limit := os.Getenv("PROVIDER_RATE_LIMIT"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil {
			c.Aggregation.RateLimit = n
		}
	}
}

// TTLFor returns the cache TTL for a cache type, falling back to the default
// class when the type is unknown.
func (c *Config) TTLFor(cacheType string) time.Duration {
	if ttl, ok := c.Cache.TTL[cacheType]; ok {
		return ttl
	}
	if ttl, ok := c.Cache.TTL["default"]; ok {
		return ttl
	}
	return 24 * time.Hour
}

package config

import (
	"fmt"
	"os"
	"time"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is loaded when the CONFIG environment variable is unset.
// A missing default file is not an error; a missing explicit one is.
const DefaultConfigFile = "app.yaml"

// Config holds all application configuration. Values are resolved from three
// sources, later sources filling in whatever earlier ones left unset:
//
//	environment variables > config file (app.yaml) > built-in defaults
//
// Environment wins because production deployments configure through the
// environment; the file is the local-development surface.
type Config struct {
	ServerPort string `yaml:"server_port" env:"SERVER_PORT"`
	GinMode    string `yaml:"gin_mode" env:"GIN_MODE"`
	LogLevel   string `yaml:"log_level" env:"LOG_LEVEL"`
	LogFormat  string `yaml:"log_format" env:"LOG_FORMAT"`

	MongoURI      string   `yaml:"mongo_uri" env:"MONGO_URI"`
	MongoDatabase string   `yaml:"mongo_database" env:"MONGO_DATABASE"`
	MongoTimeout  Duration `yaml:"mongo_timeout" env:"MONGO_TIMEOUT"`

	RedisURL string `yaml:"redis_url" env:"REDIS_URL"`

	JWTSecret  string   `yaml:"jwt_secret" env:"JWT_SECRET"`
	JWTExpiry  Duration `yaml:"jwt_expiry" env:"JWT_EXPIRY"`
	BcryptCost int      `yaml:"bcrypt_cost" env:"BCRYPT_COST"`

	// CatalogCacheTTL bounds staleness of Redis-cached catalog documents
	// (course pages, majors listing, rating summaries).
	CatalogCacheTTL Duration `yaml:"catalog_cache_ttl" env:"CATALOG_CACHE_TTL"`

	// AuthRatePerMinute and FeedbackRatePerMinute are per-IP budgets for the
	// login/register group and the rating/comment group respectively.
	AuthRatePerMinute     int `yaml:"auth_rate_per_minute" env:"AUTH_RATE_PER_MINUTE"`
	FeedbackRatePerMinute int `yaml:"feedback_rate_per_minute" env:"FEEDBACK_RATE_PER_MINUTE"`

	// AllowedOrigins controls HTTP CORS and WebSocket origin validation.
	// Empty slice means all origins are permitted (dev default).
	AllowedOrigins []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" envSeparator:","`

	// SocialProviders maps a provider name (e.g. "github") to the endpoint
	// used to verify access tokens. File-only; defaults cover the common two.
	SocialProviders map[string]SocialProvider `yaml:"social_providers" env:"-"`
}

// SocialProvider describes one OAuth identity source.
type SocialProvider struct {
	UserInfoURL string `yaml:"userinfo_url"`
}

// Load resolves the full configuration. A .env file is honored first so that
// local environments behave like deployed ones.
func Load() (*Config, error) {
	_ = godotenv.Load() // .env is optional

	cfg := &Config{}

	envCfg := &Config{}
	if err := env.Parse(envCfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	fileCfg, err := loadFile(os.Getenv("CONFIG"))
	if err != nil {
		return nil, err
	}

	// First non-zero value sticks, so merge highest priority first.
	for _, src := range []*Config{envCfg, fileCfg, defaults()} {
		if src == nil {
			continue
		}
		if err := mergo.Merge(cfg, src); err != nil {
			return nil, fmt.Errorf("merge configuration: %w", err)
		}
	}

	return cfg, nil
}

// loadFile parses the YAML config file. When path is empty the default file
// is tried and silently skipped if absent.
func loadFile(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil, nil
		}
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	fileCfg := &Config{}
	if err := yaml.Unmarshal(raw, fileCfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return fileCfg, nil
}

func defaults() *Config {
	return &Config{
		ServerPort:            "8888",
		GinMode:               "debug",
		LogLevel:              "info",
		LogFormat:             "pretty",
		MongoURI:              "mongodb://localhost:27017",
		MongoDatabase:         "librekpi",
		MongoTimeout:          Duration(10 * time.Second),
		RedisURL:              "redis://localhost:6379/0",
		JWTSecret:             "change-this-to-a-secure-random-string",
		JWTExpiry:             Duration(24 * time.Hour),
		BcryptCost:            10,
		CatalogCacheTTL:       Duration(5 * time.Minute),
		AuthRatePerMinute:     30,
		FeedbackRatePerMinute: 60,
		SocialProviders: map[string]SocialProvider{
			"github": {UserInfoURL: "https://api.github.com/user"},
			"google": {UserInfoURL: "https://www.googleapis.com/oauth2/v3/userinfo"},
		},
	}
}

// Duration wraps time.Duration so that "30s" / "24h" strings work from both
// YAML and environment variables.
type Duration time.Duration

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// UnmarshalText implements encoding.TextUnmarshaler (used by caarlos0/env).
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// UnmarshalYAML accepts either a duration string or a plain number of
// nanoseconds.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var asInt int64
	if err := value.Decode(&asInt); err == nil {
		*d = Duration(asInt)
		return nil
	}

	var asString string
	if err := value.Decode(&asString); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(asString))
}

// MarshalYAML renders the duration back in its string form.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

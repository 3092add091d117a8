package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr          string        `yaml:"addr"`
	JWTSecret     string        `yaml:"jwt_secret"`
	APITimeout    time.Duration `yaml:"timeout"`
	DatabasePath  string        `yaml:"database_path"`
	TokenDuration time.Duration `yaml:"token_duration"`

	// AdminPINHash is the bcrypt hash of the operator PIN. The PIN itself is
	// never stored; verify-pin compares against this hash.
	AdminPINHash       string        `yaml:"admin_pin_hash"`
	AdminTokenDuration time.Duration `yaml:"admin_token_duration"`

	// CallbackSecret authenticates the OAuth glue that mints voter sessions.
	CallbackSecret string `yaml:"callback_secret"`

	GitHub GitHubConfig `yaml:"github"`
}

type GitHubConfig struct {
	BaseURL                 string        `yaml:"base_url"`
	Token                   string        `yaml:"token"`
	Timeout                 time.Duration `yaml:"timeout"`
	Retries                 int           `yaml:"retries"`
	Backoff                 time.Duration `yaml:"backoff"`
	CacheTTL                time.Duration `yaml:"cache_ttl"`
	CircuitFailureThreshold int           `yaml:"circuit_failure_threshold"`
	CircuitReset            time.Duration `yaml:"circuit_reset"`
}

func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Addr:               getEnv("ARENA_ADDR", ":8080"),
		JWTSecret:          getEnv("ARENA_JWT_SECRET", "supersecretkey"),
		APITimeout:         15 * time.Second,
		DatabasePath:       getEnv("ARENA_DATABASE_PATH", "arena.db"),
		TokenDuration:      7 * 24 * time.Hour,
		AdminPINHash:       getEnv("ARENA_ADMIN_PIN_HASH", ""),
		AdminTokenDuration: 24 * time.Hour,
		CallbackSecret:     getEnv("ARENA_CALLBACK_SECRET", ""),
		GitHub: GitHubConfig{
			BaseURL: getEnv("ARENA_GITHUB_BASE_URL", "https://api.github.com"),
			Token:   getEnv("ARENA_GITHUB_TOKEN", ""),
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	cfg.GitHub.applyDefaults()

	return cfg, nil
}

// Validate checks the configuration for values that are unsafe outside of
// development. ARENA_ENV=development relaxes the checks for local runs.
func (c *Config) Validate() error {
	dev := os.Getenv("ARENA_ENV") == "development"

	if c.JWTSecret == "" || (!dev && c.JWTSecret == "supersecretkey") {
		return fmt.Errorf("jwt_secret must be set to a non-default value")
	}
	if !dev && c.AdminPINHash == "" {
		return fmt.Errorf("admin_pin_hash must be configured")
	}
	if !dev && c.CallbackSecret == "" {
		return fmt.Errorf("callback_secret must be configured")
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.GitHub.BaseURL == "" {
		return fmt.Errorf("github.base_url must not be empty")
	}

	return nil
}

func (g *GitHubConfig) applyDefaults() {
	if g.Timeout <= 0 {
		g.Timeout = 10 * time.Second
	}
	if g.Retries <= 0 {
		g.Retries = 2
	}
	if g.Backoff <= 0 {
		g.Backoff = 500 * time.Millisecond
	}
	if g.CacheTTL <= 0 {
		g.CacheTTL = 24 * time.Hour
	}
	if g.CircuitFailureThreshold <= 0 {
		g.CircuitFailureThreshold = 5
	}
	if g.CircuitReset <= 0 {
		g.CircuitReset = 30 * time.Second
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

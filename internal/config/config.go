package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

const (
	HasherBcrypt   = "bcrypt"
	HasherArgon2id = "argon2id"
)

// DevJWTSecret is only accepted outside production.
const DevJWTSecret = "your_jwt_secret"

type Config struct {
	Env      string `env:"APP_ENV,NODE_ENV" env-default:"development"`
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Password PasswordConfig
	CORS     CORSConfig
	Log      LogConfig
	OpenAI   OpenAIConfig
}

type ServerConfig struct {
	Port            string        `env:"PORT" env-default:"5000"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" env-default:"15s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type DatabaseConfig struct {
	URL            string        `env:"DATABASE_URL,MONGO_URI" env-default:"mongodb://localhost:27017/todo-app"`
	Name           string        `env:"DB_NAME" env-default:"todo-app"`
	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" env-default:"10s"`
}

type JWTConfig struct {
	Secret   string   `env:"JWT_SECRET"`
	Lifetime Lifetime `env:"JWT_LIFETIME" env-default:"30d"`
}

type PasswordConfig struct {
	Hasher     string `env:"PASSWORD_HASHER" env-default:"bcrypt"`
	BcryptCost int    `env:"BCRYPT_COST" env-default:"10"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ORIGIN" env-separator:"," env-default:"http://localhost:3000"`
}

type LogConfig struct {
	Level string `env:"LOG_LEVEL"`
}

type OpenAIConfig struct {
	APIKey string `env:"OPENAI_API_KEY"`
	Model  string `env:"OPENAI_MODEL" env-default:"gpt-4o"`
}

// Lifetime is a duration that also accepts a day suffix ("30d") and bare
// seconds ("3600").
type Lifetime time.Duration

// SetValue implements cleanenv.Setter.
func (l *Lifetime) SetValue(s string) error {
	d, err := ParseLifetime(s)
	if err != nil {
		return err
	}
	*l = Lifetime(d)
	return nil
}

func (l Lifetime) Duration() time.Duration {
	return time.Duration(l)
}

// ParseLifetime parses "30d", "12h", "90m" or a number of seconds.
func ParseLifetime(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty lifetime")
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.ParseFloat(days, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid lifetime %q: %w", s, err)
		}
		return time.Duration(n * float64(24*time.Hour)), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid lifetime %q: %w", s, err)
	}
	return d, nil
}

// Load reads optional .env files, then the process environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg := new(Config)
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	if c.Env == "" {
		c.Env = EnvDevelopment
	}
	if c.JWT.Secret == "" && c.Env != EnvProduction {
		c.JWT.Secret = DevJWTSecret
	}
	if c.Log.Level == "" {
		if c.Env == EnvDevelopment {
			c.Log.Level = "debug"
		} else {
			c.Log.Level = "info"
		}
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Env {
	case EnvDevelopment, EnvProduction, EnvTest:
	default:
		return fmt.Errorf("unknown APP_ENV %q", c.Env)
	}

	if c.IsProduction() {
		if c.JWT.Secret == "" {
			return errors.New("JWT_SECRET is required in production")
		}
		if c.JWT.Secret == DevJWTSecret {
			return errors.New("JWT_SECRET must not be the development key in production")
		}
	}
	if c.JWT.Lifetime.Duration() <= 0 {
		return errors.New("JWT_LIFETIME must be positive")
	}

	switch c.Password.Hasher {
	case HasherBcrypt, HasherArgon2id:
	default:
		return fmt.Errorf("unknown PASSWORD_HASHER %q", c.Password.Hasher)
	}

	if strings.TrimSpace(c.Database.URL) == "" {
		return errors.New("DATABASE_URL is required")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// InsecureSecret reports whether the built-in development signing key is in use.
func (c *Config) InsecureSecret() bool {
	return c.JWT.Secret == DevJWTSecret
}

// IsSuggestionsConfigured reports whether todo suggestions can be served.
func (c *Config) IsSuggestionsConfigured() bool {
	return c.OpenAI.APIKey != ""
}

func (c *Config) Addr() string {
	return ":" + c.Server.Port
}

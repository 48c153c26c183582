package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig `validate:"-"`
	Redis    RedisConfig
	Matcher  MatcherConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int `validate:"gt=0,lte=65535"`
	Env          string
	ReadTimeout  time.Duration `validate:"gt=0"`
	WriteTimeout time.Duration `validate:"gt=0"`
}

type DatabaseConfig struct {
	Host     string `validate:"required"`
	Port     int    `validate:"gt=0,lte=65535"`
	User     string `validate:"required"`
	Password string
	DBName   string `validate:"required"`
	SSLMode  string `validate:"oneof=disable require verify-ca verify-full"`
}

// RedisConfig is optional. Without a host, batch checkpoints live in memory.
type RedisConfig struct {
	Host     string
	Port     int `validate:"gte=0,lte=65535"`
	Password string
	DB       int `validate:"gte=0"`
}

type MatcherConfig struct {
	Store           string        `validate:"oneof=postgres memory"`
	ProfilesFile    string        `validate:"required_if=Store memory"`
	Workers         int           `validate:"gte=0,lte=1024"`
	BatchInterval   time.Duration `validate:"gte=0"`
	CheckpointEvery int64         `validate:"gte=0"`
	CheckpointKey   string
	CheckpointTTL   time.Duration `validate:"gte=0"`
	StoreRPS        float64       `validate:"gte=0"`
	StoreBurst      int           `validate:"gte=0"`
	Resume          bool
}

type LoggingConfig struct {
	Debug  bool
	JSON   bool
	Output string `validate:"required"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("ENV", "development")
	v.SetDefault("SERVER_READ_TIMEOUT", 15*time.Second)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 15*time.Second)
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("MATCHER_STORE", StorePostgres)
	v.SetDefault("MATCHER_BATCH_INTERVAL", time.Hour)
	v.SetDefault("MATCHER_CHECKPOINT_EVERY", 1000)
	v.SetDefault("MATCHER_CHECKPOINT_TTL", 24*time.Hour)
	v.SetDefault("LOG_OUTPUT", "stdout")
}

// Load reads configuration from the global viper instance: an env file
// (".env" unless file is set) overlaid by environment variables and any
// flags bound by the CLI.
func Load(file string) (*Config, error) {
	return load(viper.GetViper(), file)
}

func load(v *viper.Viper, file string) (*Config, error) {
	setDefaults(v)

	explicit := file != ""
	if !explicit {
		file = ".env"
	}
	v.SetConfigFile(file)
	v.AutomaticEnv()

	// The default .env is optional, an explicit file is not.
	if err := v.ReadInConfig(); err != nil && explicit {
		return nil, fmt.Errorf("failed to read config %s: %w", file, err)
	}

	config := &Config{
		Server: ServerConfig{
			Host:         v.GetString("SERVER_HOST"),
			Port:         v.GetInt("SERVER_PORT"),
			Env:          v.GetString("ENV"),
			ReadTimeout:  v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("SERVER_WRITE_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSL_MODE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Matcher: MatcherConfig{
			Store:           v.GetString("MATCHER_STORE"),
			ProfilesFile:    v.GetString("MATCHER_PROFILES_FILE"),
			Workers:         v.GetInt("MATCHER_WORKERS"),
			BatchInterval:   v.GetDuration("MATCHER_BATCH_INTERVAL"),
			CheckpointEvery: v.GetInt64("MATCHER_CHECKPOINT_EVERY"),
			CheckpointKey:   v.GetString("MATCHER_CHECKPOINT_KEY"),
			CheckpointTTL:   v.GetDuration("MATCHER_CHECKPOINT_TTL"),
			StoreRPS:        v.GetFloat64("MATCHER_STORE_RPS"),
			StoreBurst:      v.GetInt("MATCHER_STORE_BURST"),
			Resume:          v.GetBool("MATCHER_RESUME"),
		},
		Logging: LoggingConfig{
			Debug:  v.GetBool("LOG_DEBUG"),
			JSON:   v.GetBool("LOG_JSON"),
			Output: v.GetString("LOG_OUTPUT"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks struct tags. Database settings are only required when
// matches are stored in Postgres.
func (c *Config) Validate() error {
	validate := validator.New()

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Matcher.Store == StorePostgres {
		if err := validate.Struct(c.Database); err != nil {
			return fmt.Errorf("invalid database config: %w", err)
		}
	}
	return nil
}

// UsesRedis reports whether batch checkpoints go to Redis.
func (c *Config) UsesRedis() bool {
	return c.Redis.Host != ""
}

// GetDSN returns PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// GetAddr returns Redis address
func (c *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

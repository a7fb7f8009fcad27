package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BackendMySQL = "mysql"
	BackendRedis = "redis"
)

type Config struct {
	Environment string `mapstructure:"APP_ENV"`

	Server   ServerConfig   `mapstructure:",squash"`
	MySQL    MySQLConfig    `mapstructure:",squash"`
	Redis    RedisConfig    `mapstructure:",squash"`
	Sequence SequenceConfig `mapstructure:",squash"`
	Logger   LoggerConfig   `mapstructure:",squash"`
}

type ServerConfig struct {
	HTTPAddr        string        `mapstructure:"HTTP_ADDR" validate:"required"`
	GRPCAddr        string        `mapstructure:"GRPC_ADDR" validate:"required"`
	RequestTimeout  time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
	AllowedOrigins  []string      `mapstructure:"CORS_ALLOWED_ORIGINS"`
}

type MySQLConfig struct {
	DSN             string        `mapstructure:"MYSQL_DSN" validate:"required"`
	MaxOpenConns    int           `mapstructure:"MYSQL_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `mapstructure:"MYSQL_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `mapstructure:"MYSQL_CONN_MAX_LIFETIME"`
}

// RedisConfig backs idempotency tokens and, optionally, the sequence store.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"REDIS_ENABLED"`
	Addr     string `mapstructure:"REDIS_ADDR"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
	PoolSize int    `mapstructure:"REDIS_POOL_SIZE"`
}

type SequenceConfig struct {
	Backend string `mapstructure:"SEQUENCE_BACKEND" validate:"oneof=mysql redis"`
}

type LoggerConfig struct {
	Level    string `mapstructure:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	Encoding string `mapstructure:"LOG_ENCODING" validate:"oneof=json console"`
}

func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "production")

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("GRPC_ADDR", ":50051")
	v.SetDefault("REQUEST_TIMEOUT", 10*time.Second)
	v.SetDefault("SHUTDOWN_TIMEOUT", 5*time.Second)
	v.SetDefault("CORS_ALLOWED_ORIGINS", []string{"*"})

	v.SetDefault("MYSQL_DSN", "root:root@tcp(localhost:3306)/coldstorage?parseTime=true")
	v.SetDefault("MYSQL_MAX_OPEN_CONNS", 50)
	v.SetDefault("MYSQL_MAX_IDLE_CONNS", 25)
	v.SetDefault("MYSQL_CONN_MAX_LIFETIME", 5*time.Minute)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 100)

	v.SetDefault("SEQUENCE_BACKEND", BackendMySQL)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_ENCODING", "json")
}

// LoadConfig layers defaults, an optional app.env in path, a .env file in
// the working directory and finally the process environment.
func LoadConfig(path string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Sequence.Backend == BackendRedis && !c.Redis.Enabled {
		return errors.New("invalid config: SEQUENCE_BACKEND=redis requires REDIS_ENABLED=true")
	}
	return nil
}

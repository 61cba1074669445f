package utils

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Hold      HoldConfig
	AMQP      AMQPConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name           string
	Port           string
	Debug          bool
	LogPath        string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type HoldConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
	MaxSeats      int
}

type AMQPConfig struct {
	URL string
}

type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("ALLOWED_ORIGINS", []string{"http://localhost:3000"})
	viper.SetDefault("HOLD_TTL_SECONDS", 300)
	viper.SetDefault("HOLD_SWEEP_SECONDS", 30)
	viper.SetDefault("HOLD_MAX_SEATS", 10)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("RATE_LIMIT_ENABLED", false)
	viper.SetDefault("RATE_LIMIT_CAPACITY", 50)
	viper.SetDefault("RATE_LIMIT_REFILL_TOKENS", 10)
	viper.SetDefault("RATE_LIMIT_REFILL_SECONDS", 60)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:           viper.GetString("APP_NAME"),
			Port:           viper.GetString("PORT"),
			Debug:          viper.GetBool("DEBUG"),
			LogPath:        viper.GetString("LOG_PATH"),
			AllowedOrigins: viper.GetStringSlice("ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: viper.GetInt("JWT_EXPIRY_HOURS"),
		},
		Hold: HoldConfig{
			TTL:           time.Duration(viper.GetInt("HOLD_TTL_SECONDS")) * time.Second,
			SweepInterval: time.Duration(viper.GetInt("HOLD_SWEEP_SECONDS")) * time.Second,
			MaxSeats:      viper.GetInt("HOLD_MAX_SEATS"),
		},
		AMQP: AMQPConfig{
			URL: viper.GetString("RABBITMQ_URL"),
		},
		RateLimit: RateLimitConfig{
			Enabled:        viper.GetBool("RATE_LIMIT_ENABLED"),
			Capacity:       viper.GetInt("RATE_LIMIT_CAPACITY"),
			RefillTokens:   viper.GetInt("RATE_LIMIT_REFILL_TOKENS"),
			RefillInterval: time.Duration(viper.GetInt("RATE_LIMIT_REFILL_SECONDS")) * time.Second,
		},
	}

	return config, nil
}

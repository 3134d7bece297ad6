package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Storage   StorageConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Messaging MessagingConfig
	Sync      SyncConfig
}

type AppConfig struct {
	Env      string
	LogLevel string
}

// StorageConfig selects the durable store. The sqlite driver keeps everything
// in a single local file; postgres is available for multi-process setups.
type StorageConfig struct {
	Driver   string
	Path     string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Enabled reports whether the cross-context change feed and the session
// revocation store are configured.
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

type JWTConfig struct {
	Secret        string
	SessionExpiry time.Duration
}

type MessagingConfig struct {
	MaxMessageLength   int
	BroadcastRetention int
}

type SyncConfig struct {
	PollInterval time.Duration
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	// The .env file is optional; environment variables and defaults are
	// enough to run against the local sqlite store.
	_ = viper.ReadInConfig()

	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("STORAGE_DRIVER", "sqlite")
	viper.SetDefault("STORAGE_PATH", "careportal.db")
	viper.SetDefault("JWT_SECRET", "careportal-dev-secret")
	viper.SetDefault("JWT_SESSION_EXPIRY", "1h")
	viper.SetDefault("MESSAGING_MAX_LENGTH", 2000)
	viper.SetDefault("BROADCAST_RETENTION", 10)
	viper.SetDefault("POLL_INTERVAL", "2s")

	sessionExpiry, err := time.ParseDuration(viper.GetString("JWT_SESSION_EXPIRY"))
	if err != nil {
		sessionExpiry = time.Hour
	}

	pollInterval, err := time.ParseDuration(viper.GetString("POLL_INTERVAL"))
	if err != nil {
		pollInterval = 2 * time.Second
	}

	config := &Config{
		App: AppConfig{
			Env:      viper.GetString("APP_ENV"),
			LogLevel: viper.GetString("LOG_LEVEL"),
		},
		Storage: StorageConfig{
			Driver:   viper.GetString("STORAGE_DRIVER"),
			Path:     viper.GetString("STORAGE_PATH"),
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			SessionExpiry: sessionExpiry,
		},
		Messaging: MessagingConfig{
			MaxMessageLength:   viper.GetInt("MESSAGING_MAX_LENGTH"),
			BroadcastRetention: viper.GetInt("BROADCAST_RETENTION"),
		},
		Sync: SyncConfig{
			PollInterval: pollInterval,
		},
	}

	return config, nil
}

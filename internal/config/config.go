package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// minJWTSecretLength guards against weak HMAC keys.
const minJWTSecretLength = 32

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

// JWTConfig defines JWT specific configuration.
// Expiration is parsed directly from a duration string ("168h", "60m", ...).
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	// Set the path to look for the config file in
	viper.AddConfigPath(path)
	// Set the name of the config file (without extension)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// --- Environment Variable Handling ---
	viper.AutomaticEnv()
	// Use replacer for nested keys e.g., server.address -> SERVER_ADDRESS,
	// jwt.expiration -> JWT_EXPIRATION
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	// --- Set default values ---
	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("database.uri", "mongodb://localhost:27017")
	viper.SetDefault("database.name", "workout_app")
	// Registering jwt.secret makes JWT_SECRET visible to AutomaticEnv + Unmarshal.
	viper.SetDefault("jwt.secret", "")
	viper.SetDefault("jwt.expiration", "168h") // 7 days

	// --- Read Config File ---
	err = viper.ReadInConfig()
	// If config file not found, continue (might rely solely on env vars).
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return
	}

	// --- Unmarshal Config ---
	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	// --- Validate ---
	if err = config.Validate(); err != nil {
		return
	}

	return config, nil
}

// Validate checks configuration invariants that the process must not
// start without.
func (c Config) Validate() error {
	if len(c.JWT.Secret) < minJWTSecretLength {
		return fmt.Errorf("jwt secret must be at least %d characters", minJWTSecretLength)
	}
	if c.JWT.Expiration <= 0 {
		return fmt.Errorf("jwt expiration must be positive")
	}
	return nil
}

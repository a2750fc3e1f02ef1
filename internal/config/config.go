package config

import (
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	JWT      JWTConfig
	Admin    AdminConfig
	Draw     DrawConfig
	LogLevel string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	AllowedHosts []string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI       string
	Database  string
	UseMemory bool // run against the in-memory store instead of mongod
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int
}

// AdminConfig holds the admin credential configuration
type AdminConfig struct {
	Password     string
	PasswordHash string // optional bcrypt hash; takes precedence over Password
}

// DrawConfig holds the scheduling and draw tuning knobs
type DrawConfig struct {
	DefaultCron        string
	DefaultTimezone    string
	WinnerHistoryLimit int
	RepeatCooldown     int
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("Server.Port", "4000")
	viper.SetDefault("Server.AllowedHosts", []string{"localhost:3000"})
	viper.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	viper.SetDefault("MongoDB.Database", "fortune-wheel")
	viper.SetDefault("MongoDB.UseMemory", false)
	viper.SetDefault("JWT.Secret", "")
	viper.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	viper.SetDefault("Admin.Password", "password")
	viper.SetDefault("Admin.PasswordHash", "")
	viper.SetDefault("Draw.DefaultCron", "0 0 13 * * FRI")
	viper.SetDefault("Draw.DefaultTimezone", "America/Toronto")
	viper.SetDefault("Draw.WinnerHistoryLimit", 40)
	viper.SetDefault("Draw.RepeatCooldown", 3)
	viper.SetDefault("LogLevel", "info")
}

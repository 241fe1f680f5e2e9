// internal/config/config.go
package config

import (
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	App    AppConfig
	Engine EngineConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type AppConfig struct {
	UploadDir   string
	MaxUploadMB int64
}

type EngineConfig struct {
	DefaultGrowthPct    float64
	DefaultHoldingPct   float64
	DefaultOrderingCost float64
	RepairSeed          int64
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 30)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 120)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("APP_UPLOAD_DIR", "./data/uploads")
		viper.SetDefault("APP_MAX_UPLOAD_MB", 50)
		viper.SetDefault("ENGINE_DEFAULT_GROWTH_PCT", 15)
		viper.SetDefault("ENGINE_DEFAULT_HOLDING_PCT", 20)
		viper.SetDefault("ENGINE_DEFAULT_ORDERING_COST", 1500)
		viper.SetDefault("ENGINE_REPAIR_SEED", 42)

		// Read from environment variables
		viper.AutomaticEnv()

		// Ensure the upload directory exists
		ensureDir(viper.GetString("APP_UPLOAD_DIR"))

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			App: AppConfig{
				UploadDir:   viper.GetString("APP_UPLOAD_DIR"),
				MaxUploadMB: viper.GetInt64("APP_MAX_UPLOAD_MB"),
			},
			Engine: EngineConfig{
				DefaultGrowthPct:    viper.GetFloat64("ENGINE_DEFAULT_GROWTH_PCT"),
				DefaultHoldingPct:   viper.GetFloat64("ENGINE_DEFAULT_HOLDING_PCT"),
				DefaultOrderingCost: viper.GetFloat64("ENGINE_DEFAULT_ORDERING_COST"),
				RepairSeed:          viper.GetInt64("ENGINE_REPAIR_SEED"),
			},
		}
	})

	return instance
}

func ensureDir(dir string) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}

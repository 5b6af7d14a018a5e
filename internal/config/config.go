package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the fully resolved application configuration.
type Config struct {
	Env          string
	AppPort      string
	Database     DatabaseConfig
	JWTSecret    string
	TokenTTL     time.Duration
	Storage      StorageConfig
	RabbitMQURL  string
	ShowcaseFile string
}

type DatabaseConfig struct {
	Driver string // "sqlite" or "postgres"
	DSN    string
}

type StorageConfig struct {
	Driver string // "local" or "minio"
	Root   string
	Minio  MinioConfig
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Load reads configuration from the environment. In the dev environment a
// local .env file is loaded first.
func Load() (Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (Config, error) {
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "feira.db")
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("STORAGE_DRIVER", "local")
	v.SetDefault("STORAGE_ROOT", "imagens")
	v.SetDefault("MINIO_BUCKET", "feira")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("SHOWCASE_FILE", "imagens/imagens.json")
	v.AutomaticEnv()

	env := v.GetString("APP_ENV")
	if env == "dev" {
		if err := godotenv.Load(); err != nil {
			log.Printf("No .env file loaded: %v", err)
		}
		v.SetDefault("JWT_SECRET", "dev_jwt_secret")
	}

	cfg := Config{
		Env:     env,
		AppPort: v.GetString("APP_PORT"),
		Database: DatabaseConfig{
			Driver: v.GetString("DB_DRIVER"),
			DSN:    v.GetString("DATABASE_DSN"),
		},
		JWTSecret: v.GetString("JWT_SECRET"),
		TokenTTL:  v.GetDuration("TOKEN_TTL"),
		Storage: StorageConfig{
			Driver: v.GetString("STORAGE_DRIVER"),
			Root:   v.GetString("STORAGE_ROOT"),
			Minio: MinioConfig{
				Endpoint:  v.GetString("MINIO_ENDPOINT"),
				AccessKey: v.GetString("MINIO_ACCESS_KEY"),
				SecretKey: v.GetString("MINIO_SECRET_KEY"),
				Bucket:    v.GetString("MINIO_BUCKET"),
				UseSSL:    v.GetBool("MINIO_USE_SSL"),
			},
		},
		RabbitMQURL:  v.GetString("RABBITMQ_URL"),
		ShowcaseFile: v.GetString("SHOWCASE_FILE"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required outside the dev environment")
	}
	if cfg.TokenTTL <= 0 {
		return Config{}, fmt.Errorf("TOKEN_TTL must be positive, got %q", v.GetString("TOKEN_TTL"))
	}
	switch cfg.Database.Driver {
	case "sqlite", "postgres":
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Database.Driver)
	}
	switch cfg.Storage.Driver {
	case "local", "minio":
	default:
		return Config{}, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.Storage.Driver)
	}
	return cfg, nil
}

package config

import (
	"errors"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds all runtime settings for the engine.
type Config struct {
	Env string

	Data    DataConfig
	Admin   AdminConfig
	Exports ExportsConfig
	Log     LogConfig
}

// DataConfig locates the two JSON collection documents.
type DataConfig struct {
	Dir         string
	UsersFile   string
	CoursesFile string
}

// AdminConfig describes the bootstrap administrator account.
type AdminConfig struct {
	Email    string
	Name     string
	Password string
}

// ExportsConfig controls report and certificate file output.
type ExportsConfig struct {
	Dir string
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from .env and environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")

	cfg.Data = DataConfig{
		Dir:         v.GetString("DATA_DIR"),
		UsersFile:   v.GetString("USERS_FILE"),
		CoursesFile: v.GetString("COURSES_FILE"),
	}

	cfg.Admin = AdminConfig{
		Email:    v.GetString("ADMIN_EMAIL"),
		Name:     v.GetString("ADMIN_NAME"),
		Password: v.GetString("ADMIN_PASSWORD"),
	}

	cfg.Exports = ExportsConfig{Dir: v.GetString("EXPORTS_DIR")}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)

	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("USERS_FILE", "users.json")
	v.SetDefault("COURSES_FILE", "courses.json")

	v.SetDefault("ADMIN_EMAIL", "admin@skillforge.com")
	v.SetDefault("ADMIN_NAME", "Admin")
	v.SetDefault("ADMIN_PASSWORD", "admin123")

	v.SetDefault("EXPORTS_DIR", "./exports")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

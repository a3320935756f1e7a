// Package config loads runtime settings from the environment (and an optional
// .env file) and decides which database the application talks to.
package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultHTTPAddr    = ":8080"
	DefaultInstanceDir = "instance"
	DefaultDBFile      = "app.db"

	// Server timeouts
	ReadTimeout  = 10 * time.Second
	WriteTimeout = 10 * time.Second

	// Redis channel that receives complaint lifecycle events.
	EventsChannel = "complaints"
)

// Config holds everything the server and the admin CLI need at startup.
type Config struct {
	HTTPAddr    string
	DatabaseURL string
	InstanceDir string
	GinMode     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Load reads .env (if present) and then the process environment.
// Missing .env is not an error, only a warning.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("HTTP_ADDR", DefaultHTTPAddr)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("INSTANCE_DIR", DefaultInstanceDir)
	v.SetDefault("GIN_MODE", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.AutomaticEnv()
	return v
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) Config {
	return Config{
		HTTPAddr:      v.GetString("HTTP_ADDR"),
		DatabaseURL:   v.GetString("DATABASE_URL"),
		InstanceDir:   v.GetString("INSTANCE_DIR"),
		GinMode:       v.GetString("GIN_MODE"),
		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),
	}
}

package config

import (
	"errors"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort      string   `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL   string   `env:"DATABASE_URL,required"`
	JWTSecret     string   `env:"JWT_SECRET"`
	JWTTTL        string   `env:"JWT_TTL" envDefault:"15m"`
	UserCacheTTL  string   `env:"USER_CACHE_TTL"`
	RedisAddr     string   `env:"REDIS_ADDR"`
	RedisPassword string   `env:"REDIS_PASSWORD"`
	RedisDB       int      `env:"REDIS_DB" envDefault:"0"`
	CORSOrigins   []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	RunMigrations bool     `env:"RUN_MIGRATIONS" envDefault:"true"`
}

// ErrMissingJWTSecret indica que el proceso no puede firmar ni validar tokens.
var ErrMissingJWTSecret = errors.New("jwt secret not configured")

// LoadConfig carga la configuración desde variables de entorno.
// Un secret ausente es un error de configuración fatal, no un warning.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}
	return &cfg, nil
}

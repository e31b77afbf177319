package config

import (
	"time"

	"github.com/joeshaw/envdecode"
)

// Config agrupa la configuración del proceso.
// JWT_SECRET no tiene default: sin secret el proceso no arranca.
type Config struct {
	Port string `env:"PORT,default=8080"`

	// Si está vacío, el router usa los repos in-memory.
	DBDSN string `env:"DB_DSN"`

	JWTSecret string        `env:"JWT_SECRET,required"`
	JWTExpiry time.Duration `env:"JWT_EXPIRY,default=168h"`

	// Si está definido, la verificación de tokens se delega a un servicio
	// de identidad externo en vez del verificador JWT local.
	AuthVerifyURL string `env:"AUTH_VERIFY_URL"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`
	AppName   string `env:"APP_NAME,default=pet-log"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

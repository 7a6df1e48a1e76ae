package config

import (
	"os"
	"time"
)

var JWTSecret []byte
var JWTExpiration time.Duration

func init() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = defaultJWTSecret
	}
	JWTSecret = []byte(secret)
	JWTExpiration = 24 * time.Hour
}

// SetJWT replaces the signing settings loaded at init with the resolved config.
func SetJWT(cfg JWTConfig) {
	if cfg.Secret != "" {
		JWTSecret = []byte(cfg.Secret)
	}
	if cfg.Expiration > 0 {
		JWTExpiration = cfg.Expiration
	}
}

package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"
)

// Environment names accepted in APP_ENV.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Server holds the process-level configuration.
type Server struct {
	Port        int
	Env         string
	SecretKey   string
	DataFile    string
	ReadTimeout time.Duration
	// WriteTimeout bounds response writes; rate-limited 429s included.
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// LoadServer reads the server configuration from the environment.
//
// SECRET_KEY is generated per process when unset. That is fine in
// development but logs a warning in production, where restarts would rotate
// the key.
func LoadServer() Server {
	cfg := Server{
		Port:            GetEnvInt("PORT", 5000),
		Env:             GetEnvString("APP_ENV", EnvDevelopment),
		SecretKey:       GetEnvString("SECRET_KEY", ""),
		DataFile:        GetEnvString("DATA_FILE", "data/wimbledon.json"),
		ReadTimeout:     GetEnvDuration("SERVER_READ_TIMEOUT", 10*time.Second),
		WriteTimeout:    GetEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		ShutdownTimeout: GetEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if cfg.SecretKey == "" {
		cfg.SecretKey = generateSecretKey()
		if cfg.Env == EnvProduction {
			slog.Warn("SECRET_KEY not set, generated an ephemeral key; set it explicitly in production")
		}
	}
	return cfg
}

// Validate rejects configuration the server cannot start with.
func (s Server) Validate() error {
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("invalid port %d, must be between 1 and 65535", s.Port)
	}
	if s.DataFile == "" {
		return fmt.Errorf("data file path must not be empty")
	}
	for _, d := range []struct {
		name string
		val  time.Duration
	}{
		{"read timeout", s.ReadTimeout},
		{"write timeout", s.WriteTimeout},
		{"shutdown timeout", s.ShutdownTimeout},
	} {
		if err := ValidatePositiveDuration(d.val); err != nil {
			return fmt.Errorf("invalid %s: %w", d.name, err)
		}
	}
	return nil
}

// Addr returns the listen address.
func (s Server) Addr() string { return fmt.Sprintf(":%d", s.Port) }

func generateSecretKey() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the platform is broken.
		panic(fmt.Sprintf("generate secret key: %v", err))
	}
	return hex.EncodeToString(buf)
}

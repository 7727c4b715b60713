// Package config reads the server configuration from the environment.
// A .env file in the working directory is loaded first when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	Port string

	MongoURI string
	DBName   string

	JWTSecret     string
	TokenTTL      time.Duration
	CookieSecure  bool
	BcryptCost    int
	CORSOrigins   []string
	LogLevel      string
	MaxUploadSize int64

	ImageKitPublicKey   string
	ImageKitPrivateKey  string
	ImageKitURLEndpoint string
	ImageKitUploadURL   string
	UploadTimeout       time.Duration

	RedisAddr string
	RedisDB   int

	BackgroundWorkers int
}

// MissingError lists every required variable that was not set.
type MissingError struct {
	Keys []string
}

func (e *MissingError) Error() string {
	return "missing required environment variables: " + strings.Join(e.Keys, ", ")
}

var required = []string{
	"PORT",
	"MONGODB_URI",
	"JWT_SECRET",
	"IMAGEKIT_PUBLIC_KEY",
	"IMAGEKIT_PRIVATE_KEY",
	"IMAGEKIT_URLENDPOINT_KEY",
}

// Load reads config from environment variables, applying defaults for optional ones.
func Load() (*Config, error) {
	// a missing .env is fine; real deployments set the environment directly
	_ = godotenv.Load()

	var missing []string
	for _, key := range required {
		if strings.TrimSpace(os.Getenv(key)) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingError{Keys: missing}
	}

	cfg := &Config{
		Port:                os.Getenv("PORT"),
		MongoURI:            os.Getenv("MONGODB_URI"),
		DBName:              getEnv("DB_NAME", "foodReels"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		TokenTTL:            time.Hour,
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		CORSOrigins:         splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		ImageKitPublicKey:   os.Getenv("IMAGEKIT_PUBLIC_KEY"),
		ImageKitPrivateKey:  os.Getenv("IMAGEKIT_PRIVATE_KEY"),
		ImageKitURLEndpoint: os.Getenv("IMAGEKIT_URLENDPOINT_KEY"),
		ImageKitUploadURL:   getEnv("IMAGEKIT_UPLOAD_URL", "https://upload.imagekit.io/api/v1/files/upload"),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
	}

	var err error
	if cfg.CookieSecure, err = getBool("COOKIE_SECURE", false); err != nil {
		return nil, err
	}
	if cfg.BcryptCost, err = getInt("BCRYPT_COST", 10); err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.BackgroundWorkers, err = getInt("BACKGROUND_WORKERS", 4); err != nil {
		return nil, err
	}
	timeoutMs, err := getInt("UPLOAD_TIMEOUT_MS", 60000)
	if err != nil {
		return nil, err
	}
	cfg.UploadTimeout = time.Duration(timeoutMs) * time.Millisecond
	maxMB, err := getInt("MAX_UPLOAD_MB", 100)
	if err != nil {
		return nil, err
	}
	cfg.MaxUploadSize = int64(maxMB) << 20

	if cfg.UploadTimeout <= 0 {
		return nil, fmt.Errorf("UPLOAD_TIMEOUT_MS must be positive")
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if cfg.BackgroundWorkers < 1 {
		cfg.BackgroundWorkers = 1
	}
	return cfg, nil
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return v, nil
}

func getBool(key string, fallback bool) (bool, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return v, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

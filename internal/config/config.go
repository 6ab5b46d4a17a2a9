package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port            int
	CORSAllowOrigin string

	// Database
	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string

	// Cloudinary (token image uploads)
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	// Notifications
	WebhookURL  string
	ServiceName string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:            envInt("PORT", 5000),
		CORSAllowOrigin: envStr("CORS_ALLOW_ORIGIN", "http://localhost:5173"),

		DBHost:     envStr("DB_HOST", "localhost"),
		DBPort:     envInt("DB_PORT", 5432),
		DBName:     envStr("DB_NAME", "tokenboard"),
		DBUser:     envStr("DB_USER", ""),
		DBPassword: envStr("DB_PASSWORD", ""),

		CloudinaryCloudName: envStr("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    envStr("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: envStr("CLOUDINARY_API_SECRET", ""),

		WebhookURL:  envStr("WEBHOOK_URL", ""),
		ServiceName: envStr("SERVICE_NAME", "TokenboardAPI"),
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []string

	if c.DBUser == "" {
		errs = append(errs, "DB_USER is required")
	}
	if c.DBName == "" {
		errs = append(errs, "DB_NAME is required")
	}
	if c.CloudinaryCloudName == "" || c.CloudinaryAPIKey == "" || c.CloudinaryAPISecret == "" {
		fmt.Println("[WARN] Cloudinary credentials not fully set — token image uploads will fail")
	}
	if c.WebhookURL == "" {
		fmt.Println("[WARN] WEBHOOK_URL not set — new listings will not be announced")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func (c *Config) Print() {
	fmt.Println("=== Tokenboard API Configuration ===")
	fmt.Printf("Port: %d\n", c.Port)
	fmt.Printf("CORS Origin: %s\n", c.CORSAllowOrigin)
	fmt.Println("------------------------------------")
	fmt.Printf("Database: %s:%d/%s\n", c.DBHost, c.DBPort, c.DBName)
	fmt.Printf("Cloudinary: %s\n", boolLabel(c.CloudinaryCloudName != "", "configured ("+c.CloudinaryCloudName+")", "not set"))
	fmt.Printf("Listing Webhook: %s\n", boolLabel(c.WebhookURL != "", "configured", "not set"))
	fmt.Println("====================================")
}

func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// --- helpers ---

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func boolLabel(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

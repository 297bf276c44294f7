package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds all application configuration
type Config struct {
	ServerAddress string       `json:"serverAddress"`
	DatabasePath  string       `json:"databasePath"`
	DatabaseURL   string       `json:"databaseUrl"`
	ImageStorage  ImageStorage `json:"imageStorage"`
	Catalog       Catalog      `json:"catalog"`
	Session       Session      `json:"session"`
	Share         Share        `json:"share"`
	AdminEmails   []string     `json:"adminEmails"`
}

// UsePostgres returns true if PostgreSQL should be used
func (c *Config) UsePostgres() bool {
	return c.DatabaseURL != ""
}

// ImageStorage configures the local card-image cache
type ImageStorage struct {
	BasePath string `json:"basePath"`
}

// Catalog configures the external card database client
type Catalog struct {
	BaseURL string `json:"baseUrl"`
}

// Session configures web session lifetime
type Session struct {
	DurationHours int  `json:"durationHours"`
	SecureCookies bool `json:"secureCookies"`
}

// Share configures public share links
type Share struct {
	BaseURL string `json:"baseUrl"`
}

// Default configuration
func defaultConfig() *Config {
	return &Config{
		ServerAddress: ":5000",
		DatabasePath:  "yugioh.db",
		ImageStorage: ImageStorage{
			BasePath: "./card-images",
		},
		Session: Session{
			DurationHours: 24 * 7,
		},
		Share: Share{
			BaseURL: "http://localhost:5000",
		},
	}
}

// Load loads configuration from file or environment
func Load() (*Config, error) {
	cfg := defaultConfig()

	// Try to load from config file
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.json"
	}

	if data, err := os.ReadFile(configPath); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	// Override from environment variables
	if addr := os.Getenv("SERVER_ADDRESS"); addr != "" {
		cfg.ServerAddress = addr
	}
	if dbPath := os.Getenv("DATABASE_PATH"); dbPath != "" {
		cfg.DatabasePath = dbPath
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.DatabaseURL = dbURL
	}
	if basePath := os.Getenv("IMAGE_STORAGE_PATH"); basePath != "" {
		cfg.ImageStorage.BasePath = basePath
	}
	if baseURL := os.Getenv("CATALOG_BASE_URL"); baseURL != "" {
		cfg.Catalog.BaseURL = baseURL
	}
	if baseURL := os.Getenv("SHARE_BASE_URL"); baseURL != "" {
		cfg.Share.BaseURL = baseURL
	}
	if hours := os.Getenv("SESSION_DURATION_HOURS"); hours != "" {
		if h, err := strconv.Atoi(hours); err == nil && h > 0 {
			cfg.Session.DurationHours = h
		}
	}
	if secure := os.Getenv("SECURE_COOKIES"); secure != "" {
		cfg.Session.SecureCookies = secure == "true" || secure == "1"
	}
	if emails := os.Getenv("ADMIN_EMAILS"); emails != "" {
		cfg.AdminEmails = splitEmails(emails)
	}

	// Ensure image storage directory exists
	if err := os.MkdirAll(cfg.ImageStorage.BasePath, 0755); err != nil {
		return nil, err
	}

	// Make base path absolute
	absPath, err := filepath.Abs(cfg.ImageStorage.BasePath)
	if err != nil {
		return nil, err
	}
	cfg.ImageStorage.BasePath = absPath

	return cfg, nil
}

func splitEmails(raw string) []string {
	parts := strings.Split(raw, ",")
	emails := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			emails = append(emails, p)
		}
	}
	return emails
}

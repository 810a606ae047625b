package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"clubledger/database"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// HTTP configuration
	HTTPAddr   string
	JWTSecret  string
	SessionTTL time.Duration
	AdminEmail string

	// Ledger settings
	StartingBalance int64
	FirstPlacePrize int64

	// Drawing settings
	TicketPrice      int64
	PoolSharePercent int64
	BasePool         int64
	RolloverPercent  int64
	DrawHour         int
	Location         *time.Location

	// NATS, replication is disabled when empty
	NATSServers string

	// Discord, announcements are disabled when either is empty
	DiscordToken     string
	DiscordChannelID string

	// Logging
	LogLevel string

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return instance
	}

	once.Do(func() {
		// A missing .env file is fine; the environment may already be set
		_ = godotenv.Load()

		var err error
		instance, err = Load()
		if err != nil {
			if os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// ReplicationEnabled reports whether mutations are mirrored to NATS
func (c *Config) ReplicationEnabled() bool {
	return c.NATSServers != ""
}

// AnnouncementsEnabled reports whether drawing results are posted to Discord
func (c *Config) AnnouncementsEnabled() bool {
	return c.DiscordToken != "" && c.DiscordChannelID != ""
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	config := &Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		HTTPAddr:   getEnvWithDefault("HTTP_ADDR", ":8080"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		SessionTTL: 24 * time.Hour,
		AdminEmail: strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL"))),

		StartingBalance: 100,
		FirstPlacePrize: 1000,

		TicketPrice:      100,
		PoolSharePercent: 50,
		BasePool:         1000,
		RolloverPercent:  150,
		DrawHour:         20,
		Location:         time.UTC,

		NATSServers: os.Getenv("NATS_SERVERS"),

		DiscordToken:     os.Getenv("DISCORD_TOKEN"),
		DiscordChannelID: os.Getenv("DISCORD_CHANNEL_ID"),

		LogLevel:    getEnvWithDefault("LOG_LEVEL", "info"),
		Environment: os.Getenv("ENVIRONMENT"),
	}

	int64Settings := map[string]*int64{
		"STARTING_BALANCE":   &config.StartingBalance,
		"FIRST_PLACE_PRIZE":  &config.FirstPlacePrize,
		"TICKET_PRICE":       &config.TicketPrice,
		"POOL_SHARE_PERCENT": &config.PoolSharePercent,
		"BASE_POOL":          &config.BasePool,
		"ROLLOVER_PERCENT":   &config.RolloverPercent,
	}
	for key, target := range int64Settings {
		raw := os.Getenv(key)
		if raw == "" {
			continue
		}
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			return nil, fmt.Errorf("%s must be a non-negative integer, got %q", key, raw)
		}
		*target = parsed
	}

	if raw := os.Getenv("DRAW_HOUR"); raw != "" {
		hour, err := strconv.Atoi(raw)
		if err != nil || hour < 0 || hour > 23 {
			return nil, fmt.Errorf("DRAW_HOUR must be between 0 and 23, got %q", raw)
		}
		config.DrawHour = hour
	}

	if raw := os.Getenv("TIMEZONE"); raw != "" {
		loc, err := time.LoadLocation(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid TIMEZONE %q: %w", raw, err)
		}
		config.Location = loc
	}

	if raw := os.Getenv("SESSION_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil || ttl <= 0 {
			return nil, fmt.Errorf("SESSION_TTL must be a positive duration, got %q", raw)
		}
		config.SessionTTL = ttl
	}

	if _, err := log.ParseLevel(config.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", config.LogLevel, err)
	}

	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.JWTSecret == "" {
			return nil, fmt.Errorf("JWT_SECRET is required")
		}
		if config.AdminEmail == "" {
			return nil, fmt.Errorf("ADMIN_EMAIL is required")
		}
	}

	return config, nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:      "test",
		HTTPAddr:         ":0",
		JWTSecret:        "test-secret",
		SessionTTL:       time.Hour,
		AdminEmail:       "admin@example.com",
		StartingBalance:  100,
		FirstPlacePrize:  1000,
		TicketPrice:      100,
		PoolSharePercent: 50,
		BasePool:         1000,
		RolloverPercent:  150,
		DrawHour:         20,
		Location:         time.UTC,
		LogLevel:         "info",
	}
}

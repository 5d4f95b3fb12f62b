package models

import "time"

// Config represents the application configuration
type Config struct {
	Database DatabaseConfig
	Ledger   LedgerConfig
	Server   ServerConfig
	Auth     AuthConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	// Backend is "sqlite" or "memory"
	Backend         string
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
	BusyTimeout     time.Duration
	SeedAccounts    bool
}

// LedgerConfig holds fee and wallet settings
type LedgerConfig struct {
	FeeScheduleFile string
	// WalletFormats lists accepted address formats: "evm", "neo"
	WalletFormats []string
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	ListenAddr      string
	AllowedOrigins  string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	EnableMetrics   bool
}

// AuthConfig holds credential verification settings
type AuthConfig struct {
	JWTSecret string
	Issuer    string
	TokenTTL  time.Duration
}

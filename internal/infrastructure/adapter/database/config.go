package database

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/amirhossein-jamali/points-ledger/internal/infrastructure/config"
)

// Config represents database configuration
type Config struct {
	Host               string
	Port               int
	Username           string
	Password           string
	Database           string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetime    time.Duration
	QueryTimeout       time.Duration
	RetryAttempts      int
	RetryDelay         time.Duration
	SlowQueryThreshold time.Duration
	LogLevel           string
}

// NewConfig builds the adapter configuration from the application config
func NewConfig(db config.DatabaseConfig, logLevel string) *Config {
	return &Config{
		Host:               db.Host,
		Port:               db.Port,
		Username:           db.Username,
		Password:           db.Password,
		Database:           db.Database,
		SSLMode:            db.SSLMode,
		MaxOpenConns:       db.MaxOpenConns,
		MaxIdleConns:       db.MaxIdleConns,
		ConnMaxLifetime:    db.ConnMaxLifetime,
		QueryTimeout:       db.QueryTimeout,
		RetryAttempts:      db.RetryAttempts,
		RetryDelay:         db.RetryDelay,
		SlowQueryThreshold: db.SlowQueryThreshold,
		LogLevel:           logLevel,
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Host == "" {
		return errors.New("database host is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port number: %d", c.Port)
	}
	if c.Username == "" {
		return errors.New("database username is required")
	}
	if c.Database == "" {
		return errors.New("database name is required")
	}

	validSSLModes := map[string]bool{
		"disable":     true,
		"require":     true,
		"verify-ca":   true,
		"verify-full": true,
		"prefer":      true,
	}
	if !validSSLModes[c.SSLMode] {
		return fmt.Errorf("invalid SSL mode: %s", c.SSLMode)
	}

	if c.MaxOpenConns <= 0 {
		return fmt.Errorf("max open connections must be positive, got: %d", c.MaxOpenConns)
	}
	if c.MaxIdleConns <= 0 {
		return fmt.Errorf("max idle connections must be positive, got: %d", c.MaxIdleConns)
	}
	if c.RetryAttempts < 1 {
		return fmt.Errorf("retry attempts must be at least 1, got: %d", c.RetryAttempts)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("retry delay must be non-negative, got: %s", c.RetryDelay)
	}

	return nil
}

// DSN returns the key/value connection string used by the pgx driver
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.Username, c.Password, c.Database, c.SSLMode,
	)
}

// URL returns the connection string in URL form, as golang-migrate expects it
func (c *Config) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Username, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.Database,
		RawQuery: url.Values{"sslmode": []string{c.SSLMode}}.Encode(),
	}
	return u.String()
}

// Package config defines the application's typed configuration and its
// loading from environment variables and optional config files.
package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Mail     MailConfig     `mapstructure:"mail"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	// JWTSecret signs session tokens. Its length is enforced here and
	// again by the JWT service so a misconfigured secret fails fast.
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`

	// TokenLifetimeMinutes bounds how long an issued session token stays
	// valid even if it is never revoked.
	TokenLifetimeMinutes int `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`

	// BcryptCost is the bcrypt work factor for password hashing.
	// 0 selects the library default.
	BcryptCost int `mapstructure:"bcrypt_cost" validate:"gte=0,lte=31"`
}

// MailConfig contains the SMTP settings for transactional notifications.
// The group is optional: when Host is empty the application runs with a
// no-op notification sender.
type MailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"     validate:"omitempty,gt=0,lt=65536"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Sender   string `mapstructure:"sender"   validate:"omitempty,email"`
}

// Enabled reports whether enough SMTP settings are present to send mail.
func (m MailConfig) Enabled() bool {
	return m.Host != "" && m.Sender != ""
}

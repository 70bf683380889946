package internal

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Bot      BotConfig      `mapstructure:"bot"`
	Database DatabaseConfig `mapstructure:"database"`
	Server   ServerConfig   `mapstructure:"admin_server"`
	Security SecurityConfig `mapstructure:"security"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type BotConfig struct {
	// AdminChatID is the destination every submitted receipt is relayed to.
	AdminChatID int64 `mapstructure:"admin_chat_id"`
	// SweepInterval controls how often stale pending payments are purged.
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	// PendingMaxAge is the retention window for never-decided pending payments.
	PendingMaxAge time.Duration `mapstructure:"pending_max_age"`
}

type DatabaseConfig struct {
	// Driver is either "sqlite" or "postgres".
	Driver          string        `mapstructure:"driver"`
	Source          string        `mapstructure:"source"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type SecurityConfig struct {
	// AdminLogin and AdminPasswordHash (bcrypt) gate the admin REST surface.
	AdminLogin        string        `mapstructure:"admin_login"`
	AdminPasswordHash string        `mapstructure:"admin_password_hash"`
	JWTSecret         string        `mapstructure:"jwt_secret"`
	TokenDuration     time.Duration `mapstructure:"token_duration"`
}

type ScheduleConfig struct {
	FilePath string        `mapstructure:"file_path"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ----------------- DEFAULTS -----------------

func (c *Config) ApplyDefaults() {
	if c.Bot.SweepInterval <= 0 {
		c.Bot.SweepInterval = 24 * time.Hour
	}
	if c.Bot.PendingMaxAge <= 0 {
		c.Bot.PendingMaxAge = 7 * 24 * time.Hour
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.Source == "" {
		c.Database.Source = "payments.db"
	}
	if c.Schedule.FilePath == "" {
		c.Schedule.FilePath = "schedule.json"
	}
	if c.Schedule.CacheTTL <= 0 {
		c.Schedule.CacheTTL = 30 * time.Second
	}
	if c.Security.TokenDuration <= 0 {
		c.Security.TokenDuration = 12 * time.Hour
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// LoadConfigFromEnv builds a Config from environment variables for container
// deployments where no config file is mounted.
func LoadConfigFromEnv() *Config {
	cfg := &Config{
		Bot: BotConfig{
			AdminChatID:   getEnvAsInt64("BOT_ADMIN_CHAT_ID", 0),
			SweepInterval: getEnvAsDuration("BOT_SWEEP_INTERVAL", 24*time.Hour),
			PendingMaxAge: getEnvAsDuration("BOT_PENDING_MAX_AGE", 7*24*time.Hour),
		},
		Database: DatabaseConfig{
			Driver:       getEnv("DATABASE_DRIVER", "sqlite"),
			Source:       getEnv("DATABASE_SOURCE", "payments.db"),
			MaxOpenConns: getEnvAsInt("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getEnvAsInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Server: ServerConfig{
			Port:         getEnvAsInt("ADMIN_SERVER_PORT", 8080),
			ReadTimeout:  getEnvAsDuration("ADMIN_SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getEnvAsDuration("ADMIN_SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:  getEnvAsDuration("ADMIN_SERVER_IDLE_TIMEOUT", time.Minute),
		},
		Security: SecurityConfig{
			AdminLogin:        getEnv("SECURITY_ADMIN_LOGIN", ""),
			AdminPasswordHash: getEnv("SECURITY_ADMIN_PASSWORD_HASH", ""),
			JWTSecret:         getEnv("SECURITY_JWT_SECRET", ""),
			TokenDuration:     getEnvAsDuration("SECURITY_TOKEN_DURATION", 12*time.Hour),
		},
		Schedule: ScheduleConfig{
			FilePath: getEnv("SCHEDULE_FILE_PATH", "schedule.json"),
			CacheTTL: getEnvAsDuration("SCHEDULE_CACHE_TTL", 30*time.Second),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsInt64(key string, defaultVal int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Bot.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("bot config: %v", err))
	}
	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}
	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("logging config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func (c *BotConfig) Validate() error {
	if c.AdminChatID == 0 {
		return errors.New("admin_chat_id is required")
	}
	if c.PendingMaxAge < time.Hour {
		return errors.New("pending_max_age must be at least 1h")
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	switch c.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported driver %q", c.Driver)
	}
	if c.Source == "" {
		return errors.New("source is required")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *LoggingConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Level)
	}
	switch c.Format {
	case "json", "text":
	default:
		return fmt.Errorf("unknown log format %q", c.Format)
	}
	return nil
}

// Validate for the security section is only enforced when the admin server
// is started; the bot itself runs without it.
func (c *SecurityConfig) Validate() error {
	if c.AdminLogin == "" || c.AdminPasswordHash == "" {
		return errors.New("admin_login and admin_password_hash are required")
	}
	if len(c.JWTSecret) < 32 {
		return errors.New("jwt_secret must be at least 32 characters")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}

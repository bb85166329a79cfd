package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Booking  BookingConfig  `toml:"booking"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
	AutoMigrate     bool   `toml:"auto_migrate"`
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// BookingConfig параметры записи
type BookingConfig struct {
	DisplayStepMinutes int              `toml:"display_step_minutes"`
	MinLeadMinutes     int              `toml:"min_lead_minutes"`
	CodeMaxAttempts    int              `toml:"code_max_attempts"`
	DefaultOpenTime    types.TimeString `toml:"default_open_time"`
	DefaultCloseTime   types.TimeString `toml:"default_close_time"`
	DefaultDaysAhead   int              `toml:"default_days_ahead"`
	MaxDaysAhead       int              `toml:"max_days_ahead"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// Load читает .env (если есть), затем TOML файл, затем переменные окружения.
// Пустые значения заполняются значениями по умолчанию, результат валидируется.
func Load(path string) (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) error {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("env %s: %w", key, err)
		}
		*dst = n
		return nil
	}

	setString("DB_HOST", &c.Database.Host)
	setString("DB_USER", &c.Database.User)
	setString("DB_PASSWORD", &c.Database.Password)
	setString("DB_NAME", &c.Database.DBName)
	setString("LOG_LEVEL", &c.Logs.Level)

	if err := setInt("DB_PORT", &c.Database.Port); err != nil {
		return err
	}
	return setInt("HTTP_PORT", &c.Server.HTTPPort)
}

func (c *Config) applyDefaults() {
	defaultInt := func(dst *int, v int) {
		if *dst == 0 {
			*dst = v
		}
	}

	defaultInt(&c.Server.HTTPPort, 8080)
	defaultInt(&c.Server.ReadTimeout, 15)
	defaultInt(&c.Server.WriteTimeout, 15)
	defaultInt(&c.Server.IdleTimeout, 60)
	defaultInt(&c.Server.ShutdownTimeout, 10)

	defaultInt(&c.Database.Port, 5432)
	defaultInt(&c.Database.MaxOpenConns, 25)
	defaultInt(&c.Database.MaxIdleConns, 5)
	defaultInt(&c.Database.ConnMaxLifetime, 300)
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "appointment_service"
	}

	defaultInt(&c.Booking.DisplayStepMinutes, 30)
	defaultInt(&c.Booking.MinLeadMinutes, 60)
	defaultInt(&c.Booking.CodeMaxAttempts, 10)
	defaultInt(&c.Booking.DefaultDaysAhead, 30)
	defaultInt(&c.Booking.MaxDaysAhead, 90)
	if c.Booking.DefaultOpenTime == "" {
		c.Booking.DefaultOpenTime = "08:00"
	}
	if c.Booking.DefaultCloseTime == "" {
		c.Booking.DefaultCloseTime = "17:00"
	}
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	var errs []error

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("server.http_port out of range: %d", c.Server.HTTPPort))
	}
	if c.Database.Host == "" {
		errs = append(errs, errors.New("database.host is required"))
	}
	if c.Database.DBName == "" {
		errs = append(errs, errors.New("database.dbname is required"))
	}

	b := c.Booking
	if err := b.DefaultOpenTime.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("booking.default_open_time: %w", err))
	}
	if err := b.DefaultCloseTime.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("booking.default_close_time: %w", err))
	}
	if b.DefaultOpenTime.Validate() == nil && b.DefaultCloseTime.Validate() == nil &&
		!b.DefaultOpenTime.IsBefore(b.DefaultCloseTime) {
		errs = append(errs, errors.New("booking.default_open_time must be before default_close_time"))
	}
	if b.DisplayStepMinutes%15 != 0 {
		errs = append(errs, fmt.Errorf("booking.display_step_minutes must be a multiple of 15: %d", b.DisplayStepMinutes))
	}
	if b.MinLeadMinutes < 0 {
		errs = append(errs, errors.New("booking.min_lead_minutes must not be negative"))
	}
	if b.DefaultDaysAhead > b.MaxDaysAhead {
		errs = append(errs, errors.New("booking.default_days_ahead must not exceed max_days_ahead"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

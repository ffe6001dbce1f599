package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/avdmitr/salon-booking-service/internal/domain"
)

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Telegram TelegramConfig `toml:"telegram"`
	Booking  BookingConfig  `toml:"booking"`
	Admin    AdminConfig    `toml:"admin"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port" validate:"required,min=1,max=65535"`
	ReadTimeout     int `toml:"read_timeout" validate:"min=1"`
	WriteTimeout    int `toml:"write_timeout" validate:"min=1"`
	IdleTimeout     int `toml:"idle_timeout" validate:"min=1"`
	ShutdownTimeout int `toml:"shutdown_timeout" validate:"min=1"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host" validate:"required"`
	Port            int    `toml:"port" validate:"required,min=1,max=65535"`
	User            string `toml:"user" validate:"required"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname" validate:"required"`
	SSLMode         string `toml:"sslmode" validate:"oneof=disable require verify-ca verify-full"`
	MaxOpenConns    int    `toml:"max_open_conns" validate:"min=1"`
	MaxIdleConns    int    `toml:"max_idle_conns" validate:"min=1"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" validate:"min=1"`
}

// DSN собирает строку подключения к PostgreSQL
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file" validate:"required"`
	Level string `toml:"level" validate:"oneof=debug info warn error"`
}

// MetricsConfig настройки Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// TelegramConfig настройки Telegram уведомлений
// Бот отключается, если токен пустой
type TelegramConfig struct {
	BotToken    string `toml:"bot_token"`
	AdminChatID int64  `toml:"admin_chat_id"`
}

// Enabled проверяет, включены ли уведомления
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != ""
}

// BookingConfig бизнес-параметры бронирования
type BookingConfig struct {
	SlotStepMinutes     int `toml:"slot_step_minutes" validate:"min=1"`
	HorizonDays         int `toml:"horizon_days" validate:"min=1"`
	MinNoticeMinutes    int `toml:"min_notice_minutes" validate:"min=0"`
	ModifyCutoffMinutes int `toml:"modify_cutoff_minutes" validate:"min=0"`
}

// Settings конвертирует конфигурацию в доменные настройки бронирования
func (b BookingConfig) Settings() domain.BookingSettings {
	return domain.BookingSettings{
		SlotDurationMinutes:     b.SlotStepMinutes,
		BookingDaysAhead:        b.HorizonDays,
		MinBookingNoticeMinutes: b.MinNoticeMinutes,
		MinModifyNoticeMinutes:  b.ModifyCutoffMinutes,
	}
}

// AdminConfig настройки доступа к администраторскому API
type AdminConfig struct {
	APIToken string `toml:"api_token"`
}

// Load загружает конфигурацию из TOML файла
// Секреты перекрываются переменными окружения (в том числе из .env):
// DB_PASSWORD, TELEGRAM_BOT_TOKEN, TELEGRAM_ADMIN_CHAT_ID, ADMIN_API_TOKEN
func Load(path string) (*Config, error) {
	// .env опционален: в проде секреты приходят из окружения
	_ = godotenv.Load()

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 300
	}
	if cfg.Logs.Level == "" {
		cfg.Logs.Level = "info"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Metrics.ServiceName == "" {
		cfg.Metrics.ServiceName = "salon-booking-service"
	}

	defaults := domain.DefaultBookingSettings()
	if cfg.Booking.SlotStepMinutes == 0 {
		cfg.Booking.SlotStepMinutes = defaults.SlotDurationMinutes
	}
	if cfg.Booking.HorizonDays == 0 {
		cfg.Booking.HorizonDays = defaults.BookingDaysAhead
	}
	if cfg.Booking.ModifyCutoffMinutes == 0 {
		cfg.Booking.ModifyCutoffMinutes = defaults.MinModifyNoticeMinutes
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_ADMIN_CHAT_ID"); v != "" {
		if chatID, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Telegram.AdminChatID = chatID
		}
	}
	if v := os.Getenv("ADMIN_API_TOKEN"); v != "" {
		cfg.Admin.APIToken = v
	}
}

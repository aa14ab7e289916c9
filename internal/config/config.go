package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Push      PushConfig      `mapstructure:"push"`
	OAuth     OAuthConfig     `mapstructure:"oauth"`
	Reports   ReportsConfig   `mapstructure:"reports"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

type SchedulerConfig struct {
	ShutdownGrace  time.Duration        `mapstructure:"shutdown_grace"`
	ReviewReminder ReviewReminderConfig `mapstructure:"review_reminder"`
	QuizReminder   QuizReminderConfig   `mapstructure:"quiz_reminder"`
	TokenRefresh   TokenRefreshConfig   `mapstructure:"token_refresh"`
	TokenCleanup   TokenCleanupConfig   `mapstructure:"token_cleanup"`
	ReportDelivery ReportDeliveryConfig `mapstructure:"report_delivery"`
}

type ReviewReminderConfig struct {
	Cadence    string        `mapstructure:"cadence" validate:"required,cadence"`
	Window     time.Duration `mapstructure:"window"`
	DailyLimit int           `mapstructure:"daily_limit" validate:"min=1"`
}

type QuizReminderConfig struct {
	Cadence string        `mapstructure:"cadence" validate:"required,cadence"`
	Window  time.Duration `mapstructure:"window"`
}

type TokenRefreshConfig struct {
	Cadence   string        `mapstructure:"cadence" validate:"required,cadence"`
	Window    time.Duration `mapstructure:"window"`
	BatchSize int           `mapstructure:"batch_size" validate:"min=1"`
}

type TokenCleanupConfig struct {
	Cadence   string        `mapstructure:"cadence" validate:"required,cadence"`
	Retention time.Duration `mapstructure:"retention"`
}

type ReportDeliveryConfig struct {
	Cadence string `mapstructure:"cadence" validate:"required,cadence"`
}

type PushConfig struct {
	GatewayURL  string        `mapstructure:"gateway_url" validate:"required,url"`
	APIKey      string        `mapstructure:"api_key"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxAttempts uint          `mapstructure:"max_attempts"`
	RetryDelay  time.Duration `mapstructure:"retry_delay"`
}

type OAuthConfig struct {
	TokenURL     string        `mapstructure:"token_url" validate:"omitempty,url"`
	ClientID     string        `mapstructure:"client_id"`
	ClientSecret string        `mapstructure:"client_secret"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

type ReportsConfig struct {
	OutputDirectory string `mapstructure:"output_directory"`
	OutboxDirectory string `mapstructure:"outbox_directory"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/revplan")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "revplan")
	v.SetDefault("database.username", "user")
	v.SetDefault("scheduler.shutdown_grace", "30s")
	v.SetDefault("scheduler.review_reminder.cadence", "15m")
	v.SetDefault("scheduler.review_reminder.window", "24h")
	v.SetDefault("scheduler.review_reminder.daily_limit", 20)
	v.SetDefault("scheduler.quiz_reminder.cadence", "0 8 * * *")
	v.SetDefault("scheduler.quiz_reminder.window", "24h")
	v.SetDefault("scheduler.token_refresh.cadence", "30m")
	v.SetDefault("scheduler.token_refresh.window", "1h")
	v.SetDefault("scheduler.token_refresh.batch_size", 50)
	v.SetDefault("scheduler.token_cleanup.cadence", "24h")
	v.SetDefault("scheduler.token_cleanup.retention", "720h")
	v.SetDefault("scheduler.report_delivery.cadence", "15m")
	v.SetDefault("push.gateway_url", "http://localhost:8081")
	v.SetDefault("push.timeout", "10s")
	v.SetDefault("push.max_attempts", 3)
	v.SetDefault("push.retry_delay", "1s")
	v.SetDefault("oauth.timeout", "10s")
	v.SetDefault("reports.output_directory", filepath.Join("outputs", "reports"))
	v.SetDefault("reports.outbox_directory", filepath.Join("outputs", "outbox"))

	// Bind credentials to environment variables only (not from config file)
	if err := v.BindEnv("push.api_key", "PUSH_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind PUSH_API_KEY environment variable: %w", err)
	}
	if err := v.BindEnv("oauth.client_id", "OAUTH_CLIENT_ID"); err != nil {
		return nil, fmt.Errorf("failed to bind OAUTH_CLIENT_ID environment variable: %w", err)
	}
	if err := v.BindEnv("oauth.client_secret", "OAUTH_CLIENT_SECRET"); err != nil {
		return nil, fmt.Errorf("failed to bind OAUTH_CLIENT_SECRET environment variable: %w", err)
	}
	if err := v.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}

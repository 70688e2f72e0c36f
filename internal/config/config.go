// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Redis struct {
	Addr     string
	Password string
	DB       int
}

type JWT struct {
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type Log struct {
	Level  string
	Format string
}

type Config struct {
	DatabaseURL   string
	HTTPAddr      string
	WorkerCount   int
	Redis         Redis
	JWT           JWT
	SMTP          SMTP
	Log           Log
	SweepInterval time.Duration
	ReminderDays  int
}

// dotenvLoad 載入 .env，測試可覆寫
var dotenvLoad = func() error { return godotenv.Load() }

// Load 讀取 .env、環境變數與選用的 YAML 設定檔
// path 為空字串時只讀環境變數
func Load(path string) (*Config, error) {
	// .env 不存在不是錯誤
	_ = dotenvLoad()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("JWT_ISSUER", "library-api")
	v.SetDefault("JWT_ACCESS_TTL", "15m")
	v.SetDefault("JWT_REFRESH_TTL", "720h")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("WORKER_COUNT", 1)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("MAIL_FROM", "library@example.com")
	v.SetDefault("SWEEP_INTERVAL", "0s")
	v.SetDefault("REMINDER_DAYS", 3)
	// 沒有預設值的 key 也要 bind，設定檔與環境變數才能互相覆蓋
	for _, k := range []string{"DATABASE_URL", "REDIS_ADDR", "REDIS_PASSWORD", "JWT_SECRET",
		"SMTP_HOST", "SMTP_USERNAME", "SMTP_PASSWORD"} {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("bind %s: %w", k, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		DatabaseURL: v.GetString("DATABASE_URL"),
		HTTPAddr:    v.GetString("HTTP_ADDR"),
		WorkerCount: v.GetInt("WORKER_COUNT"),
		Redis: Redis{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWT{
			Secret:     v.GetString("JWT_SECRET"),
			Issuer:     v.GetString("JWT_ISSUER"),
			AccessTTL:  v.GetDuration("JWT_ACCESS_TTL"),
			RefreshTTL: v.GetDuration("JWT_REFRESH_TTL"),
		},
		SMTP: SMTP{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			Username: v.GetString("SMTP_USERNAME"),
			Password: v.GetString("SMTP_PASSWORD"),
			From:     v.GetString("MAIL_FROM"),
		},
		Log: Log{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		SweepInterval: v.GetDuration("SWEEP_INTERVAL"),
		ReminderDays:  v.GetInt("REMINDER_DAYS"),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("環境變數 DATABASE_URL 未設定"))
	}
	if c.Redis.Addr == "" {
		errs = append(errs, errors.New("環境變數 REDIS_ADDR 未設定"))
	}
	if c.Redis.DB < 0 {
		errs = append(errs, fmt.Errorf("無效的 REDIS_DB: %d", c.Redis.DB))
	}
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("環境變數 JWT_SECRET 未設定"))
	}
	if c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0 {
		errs = append(errs, errors.New("JWT_ACCESS_TTL / JWT_REFRESH_TTL 必須大於 0"))
	}
	if c.WorkerCount <= 0 {
		errs = append(errs, fmt.Errorf("無效的 WORKER_COUNT: %d", c.WorkerCount))
	}
	if c.ReminderDays < 0 {
		errs = append(errs, fmt.Errorf("無效的 REMINDER_DAYS: %d", c.ReminderDays))
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("無效的 LOG_FORMAT: %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

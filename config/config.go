package config

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"vendex/logger"
)

type Config struct {
	AppName     string `json:"app_name"`
	ListenIP    string `json:"listen_ip"`
	ListenPort  int    `json:"listen_port"`
	SessionKey  string `json:"session_key"`
	Production  bool   `json:"production"`
	LogLevel    string `json:"log_level"`
	BaseURL     string `json:"base_url"`
	DatabaseDSN string `json:"database_path"`

	QRDir        string `json:"qr_dir"`
	ChartPath    string `json:"chart_path"`
	TemplatesDir string `json:"templates_dir"`
	StaticDir    string `json:"static_dir"`

	SessionMaxAge time.Duration `json:"-"`
	TokenTTL      time.Duration `json:"-"`

	ShelfLifeDays       int `json:"shelf_life_days"`
	InventoryExpiryDays int `json:"inventory_expiry_days"`
	LowStockThreshold   int `json:"low_stock_threshold"`

	RegisterCaptcha bool `json:"register_captcha"`
	SeedDemo        bool `json:"seed_demo"`
}

func Default() Config {
	return Config{
		AppName:             "Vendex",
		ListenIP:            "0.0.0.0",
		ListenPort:          5000,
		LogLevel:            "info",
		DatabaseDSN:         "vendex.db",
		QRDir:               "static/qrcodes",
		ChartPath:           "static/charts/popularity.png",
		TemplatesDir:        "templates",
		StaticDir:           "static",
		SessionMaxAge:       time.Hour,
		TokenTTL:            24 * time.Hour,
		ShelfLifeDays:       3,
		InventoryExpiryDays: 7,
		LowStockThreshold:   10,
		SeedDemo:            true,
	}
}

// Load builds the configuration from defaults, an optional JSON file at path,
// a .env file in the working directory and finally the process environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := json.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return Config{}, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = fmt.Sprintf("http://127.0.0.1:%d", cfg.ListenPort)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if cfg.SessionKey == "" || cfg.SessionKey == "CHANGE_ME_IN_PRODUCTION" {
		if cfg.Production {
			return Config{}, errors.New("SECRET_KEY must be set in production")
		}
		logger.Log.Warn("no SECRET_KEY configured, generating a random key; sessions will not survive a restart")
		randomKey := make([]byte, 32)
		if _, err := rand.Read(randomKey); err != nil {
			return Config{}, err
		}
		cfg.SessionKey = hex.EncodeToString(randomKey)
	}

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.AppName, "APP_NAME")
	setString(&cfg.ListenIP, "LISTEN_IP")
	setString(&cfg.SessionKey, "SECRET_KEY")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.BaseURL, "BASE_URL")
	setString(&cfg.DatabaseDSN, "DATABASE_PATH")
	setString(&cfg.QRDir, "QR_DIR")
	setString(&cfg.ChartPath, "CHART_PATH")
	setString(&cfg.TemplatesDir, "TEMPLATES_DIR")
	setString(&cfg.StaticDir, "STATIC_DIR")

	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Production = strings.EqualFold(v, "production")
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"PORT", &cfg.ListenPort},
		{"SHELF_LIFE_DAYS", &cfg.ShelfLifeDays},
		{"INVENTORY_EXPIRY_DAYS", &cfg.InventoryExpiryDays},
		{"LOW_STOCK_THRESHOLD", &cfg.LowStockThreshold},
	}
	for _, i := range ints {
		if v := os.Getenv(i.key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", i.key, err)
			}
			*i.dst = n
		}
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"SESSION_MAX_AGE", &cfg.SessionMaxAge},
		{"TOKEN_TTL", &cfg.TokenTTL},
	}
	for _, d := range durations {
		if v := os.Getenv(d.key); v != "" {
			dur, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", d.key, err)
			}
			*d.dst = dur
		}
	}

	cfg.RegisterCaptcha = parseBool("REGISTER_CAPTCHA", cfg.RegisterCaptcha)
	// Demo data is never seeded in production unless asked for explicitly.
	cfg.SeedDemo = parseBool("SEED_DEMO", cfg.SeedDemo && !cfg.Production)
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func parseBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			logger.Log.Warnw("invalid boolean, using default", "key", key, "value", v)
			return def
		}
		return b
	}
	return def
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.ListenIP, c.ListenPort)
}

// Package config loads OlympiadQR's configuration from a YAML file with
// environment-variable overrides, mirroring the teacher's layered
// Load/validate/loadFromEnv structure.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/olympiadqr/olympiadqr/internal/opwrap"
)

type ServerConfig struct {
	Port         string        `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type DatabaseConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	User         string `yaml:"user"`
	Password     string `yaml:"password"`
	Database     string `yaml:"database"`
	SSLMode      string `yaml:"ssl_mode"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

type RedisConfig struct {
	URL string `yaml:"url"`
}

type ObjectStoreConfig struct {
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	SheetsBucket    string `yaml:"sheets_bucket"`
	ScansBucket     string `yaml:"scans_bucket"`
	UsePathStyle    bool   `yaml:"use_path_style"`
}

type AuthConfig struct {
	SecretKey         string `yaml:"secret_key"`
	JWTAlgorithm      string `yaml:"jwt_algorithm"`
	JWTExpireMinutes  int    `yaml:"jwt_expire_minutes"`
}

type TokenConfig struct {
	HMACSecretKey          string `yaml:"hmac_secret_key"`
	QRTokenSizeBytes       int    `yaml:"qr_token_size_bytes"`
	EntryTokenExpireHours  int    `yaml:"entry_token_expire_hours"`
}

type QRConfig struct {
	ErrorCorrection string `yaml:"error_correction"`
	BoxSize         int    `yaml:"box_size"`
	Border          int    `yaml:"border"`
}

type OCRConfig struct {
	ScoreFieldXMM        float64 `yaml:"score_field_x_mm"`
	ScoreFieldYMM        float64 `yaml:"score_field_y_mm"`
	ScoreFieldWidthMM    float64 `yaml:"score_field_width_mm"`
	ScoreFieldHeightMM   float64 `yaml:"score_field_height_mm"`
	ConfidenceThreshold  float64 `yaml:"confidence_threshold"`
	UseGPU               bool    `yaml:"use_gpu"`
	DPI                  int     `yaml:"dpi"`
}

type RateLimitConfig struct {
	LoginPerMinute        int `yaml:"login_per_minute"`
	RegistrationPerMinute int `yaml:"registration_per_minute"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Redis       RedisConfig       `yaml:"redis"`
	ObjectStore ObjectStoreConfig `yaml:"object_store"`
	Auth        AuthConfig        `yaml:"auth"`
	Token       TokenConfig       `yaml:"token"`
	QR          QRConfig          `yaml:"qr"`
	OCR         OCRConfig         `yaml:"ocr"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
	Logging     LoggingConfig     `yaml:"logging"`
	CORSOrigins []string          `yaml:"cors_origins"`
}

// Load reads, overrides from environment, validates and returns a Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080", ReadTimeout: 15 * time.Second, WriteTimeout: 15 * time.Second},
		Database: DatabaseConfig{
			Host: "localhost", Port: 5432, User: "olympiadqr", Database: "olympiadqr",
			SSLMode: "disable", MaxOpenConns: 25, MaxIdleConns: 5,
		},
		Auth:  AuthConfig{JWTAlgorithm: "HS256", JWTExpireMinutes: 1440},
		Token: TokenConfig{QRTokenSizeBytes: 32, EntryTokenExpireHours: 24},
		QR:    QRConfig{ErrorCorrection: "H", BoxSize: 8, Border: 2},
		OCR: OCRConfig{
			ConfidenceThreshold: 0.7, DPI: 300,
		},
		RateLimit: RateLimitConfig{LoginPerMinute: 10, RegistrationPerMinute: 5},
		Logging:   LoggingConfig{Level: "info", Format: "json"},
	}
}

func validate(cfg *Config) error {
	var errs []error

	if len(cfg.Token.HMACSecretKey) < 32 {
		errs = append(errs, fmt.Errorf("token.hmac_secret_key must be at least 32 characters"))
	}
	if cfg.Auth.SecretKey == "" {
		errs = append(errs, fmt.Errorf("auth.secret_key is required"))
	}
	if cfg.QR.ErrorCorrection != "L" && cfg.QR.ErrorCorrection != "M" &&
		cfg.QR.ErrorCorrection != "Q" && cfg.QR.ErrorCorrection != "H" {
		errs = append(errs, fmt.Errorf("qr.error_correction must be one of L, M, Q, H"))
	}
	if cfg.OCR.ConfidenceThreshold < 0 || cfg.OCR.ConfidenceThreshold > 1 {
		errs = append(errs, fmt.Errorf("ocr.confidence_threshold must be between 0.0 and 1.0"))
	}
	if cfg.Database.MaxOpenConns <= 0 {
		errs = append(errs, fmt.Errorf("database.max_open_conns must be greater than 0"))
	}

	return opwrap.Chain(errs...)
}

func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		// Connection URL wins over piecemeal host/port overrides; parsed by
		// the database package at connect time, kept verbatim here.
		cfg.Database.Host = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}
	if v := os.Getenv("HMAC_SECRET_KEY"); v != "" {
		cfg.Token.HMACSecretKey = v
	}
	if v := os.Getenv("JWT_SECRET_KEY"); v != "" {
		cfg.Auth.SecretKey = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPAddr       string
	LogLevel       string
	MigrateOnStart bool
	CORSOrigins    []string

	Database DatabaseConfig
	Auth     AuthConfig
	Panel    PanelConfig
	Kafka    KafkaConfig
}

type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type AuthConfig struct {
	JWTSecret    string
	JWTTTL       time.Duration
	CookieDomain string
	CookieSecure bool
	OnlineWindow time.Duration
}

// PanelConfig names the offices shown side by side when the dashboard does
// not ask for specific ones.
type PanelConfig struct {
	OfficeA string
	OfficeB string
}

type KafkaConfig struct {
	Brokers    []string
	AuditTopic string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_ADDR", "0.0.0.0:8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MIGRATE_ON_START", false)
	v.SetDefault("CORS_ORIGINS", "")

	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("POSTGRES_USER", "postgres")
	v.SetDefault("POSTGRES_PASSWORD", "")
	v.SetDefault("POSTGRES_DB", "escrutinio")
	v.SetDefault("POSTGRES_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_TTL", 12*time.Hour)
	v.SetDefault("COOKIE_DOMAIN", "")
	v.SetDefault("COOKIE_SECURE", true)
	v.SetDefault("ONLINE_WINDOW", 15*time.Minute)

	v.SetDefault("PANEL_OFFICE_A", "DIPUTADOS")
	v.SetDefault("PANEL_OFFICE_B", "CONCEJALES")

	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_AUDIT_TOPIC", "escrutinio.audit")
}

// Load reads the given .env files (".env" when none is given), then the
// process environment. A missing .env file is not an error.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		HTTPAddr:       v.GetString("HTTP_ADDR"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		MigrateOnStart: v.GetBool("MIGRATE_ON_START"),
		CORSOrigins:    splitList(v.GetString("CORS_ORIGINS")),
		Database: DatabaseConfig{
			Host:         v.GetString("POSTGRES_HOST"),
			Port:         v.GetString("POSTGRES_PORT"),
			User:         v.GetString("POSTGRES_USER"),
			Password:     v.GetString("POSTGRES_PASSWORD"),
			Name:         v.GetString("POSTGRES_DB"),
			SSLMode:      v.GetString("POSTGRES_SSLMODE"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		},
		Auth: AuthConfig{
			JWTSecret:    v.GetString("JWT_SECRET"),
			JWTTTL:       v.GetDuration("JWT_TTL"),
			CookieDomain: v.GetString("COOKIE_DOMAIN"),
			CookieSecure: v.GetBool("COOKIE_SECURE"),
			OnlineWindow: v.GetDuration("ONLINE_WINDOW"),
		},
		Panel: PanelConfig{
			OfficeA: v.GetString("PANEL_OFFICE_A"),
			OfficeB: v.GetString("PANEL_OFFICE_B"),
		},
		Kafka: KafkaConfig{
			Brokers:    splitList(v.GetString("KAFKA_BROKERS")),
			AuditTopic: v.GetString("KAFKA_AUDIT_TOPIC"),
		},
	}

	if cfg.Auth.JWTTTL <= 0 {
		return nil, fmt.Errorf("JWT_TTL must be positive, got %s", cfg.Auth.JWTTTL)
	}
	if cfg.Auth.OnlineWindow <= 0 {
		return nil, fmt.Errorf("ONLINE_WINDOW must be positive, got %s", cfg.Auth.OnlineWindow)
	}
	return cfg, nil
}

// RequireSecret fails when no JWT secret is configured. Only the API
// server needs one.
func (c *Config) RequireSecret() error {
	if len(c.Auth.JWTSecret) < 16 {
		return errors.New("JWT_SECRET must be set to at least 16 characters")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

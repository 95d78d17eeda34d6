package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "GWG"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv = "GWG_APP_ENV"
	EnvDBDSN  = "GWG_DB_DSN"
	EnvDBHost = "GWG_DB_HOST"
	EnvDBUser = "GWG_DB_USER"
	EnvDBName = "GWG_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	SMTP         SMTPConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"GWG_APP_ENV" required:"true"`
	Port         string `envconfig:"GWG_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"GWG_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GWG_LOG_WARN_STACK" default:"false"`
	BaseURL      string `envconfig:"GWG_APP_BASE_URL" default:"http://localhost:8080"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"GWG_DB_DSN"`
	Driver string `envconfig:"GWG_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"GWG_DB_HOST"`
	LegacyPort     int    `envconfig:"GWG_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GWG_DB_USER"`
	LegacyPassword string `envconfig:"GWG_DB_PASSWORD"`
	LegacyName     string `envconfig:"GWG_DB_NAME"`
	LegacySSLMode  string `envconfig:"GWG_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GWG_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GWG_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GWG_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GWG_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GWG_REDIS_URL" required:"true"`
	Address      string        `envconfig:"GWG_REDIS_ADDR"`
	Password     string        `envconfig:"GWG_REDIS_PASSWORD"`
	DB           int           `envconfig:"GWG_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GWG_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GWG_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GWG_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GWG_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GWG_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"GWG_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"GWG_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"GWG_JWT_EXPIRATION_MINUTES" default:"60"`
}

type SMTPConfig struct {
	Host        string `envconfig:"GWG_SMTP_HOST"`
	Port        int    `envconfig:"GWG_SMTP_PORT" default:"587"`
	Username    string `envconfig:"GWG_SMTP_USERNAME"`
	Password    string `envconfig:"GWG_SMTP_PASSWORD"`
	DefaultFrom string `envconfig:"GWG_SMTP_FROM_EMAIL" default:"no-reply@growwithgreen.ci"`
}

// Enabled reports whether outbound email is configured at all.
func (s SMTPConfig) Enabled() bool {
	return strings.TrimSpace(s.Host) != ""
}

// Addr returns the host:port dial target for the SMTP transport.
func (s SMTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"GWG_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}

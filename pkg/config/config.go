package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix is passed to envconfig; variable names carry the full WARUNG_ prefix.
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Cart          CartConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"WARUNG_APP_ENV" required:"true"`
	Port         string `envconfig:"WARUNG_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"WARUNG_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"WARUNG_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"WARUNG_DB_DSN" required:"true"`

	MaxOpenConns    int           `envconfig:"WARUNG_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"WARUNG_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"WARUNG_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"WARUNG_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"WARUNG_REDIS_URL"`
	Address      string        `envconfig:"WARUNG_REDIS_ADDR"`
	Password     string        `envconfig:"WARUNG_REDIS_PASSWORD"`
	DB           int           `envconfig:"WARUNG_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"WARUNG_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"WARUNG_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"WARUNG_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"WARUNG_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"WARUNG_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"WARUNG_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"WARUNG_JWT_ISSUER" default:"warung-pos"`
	ExpirationMinutes      int    `envconfig:"WARUNG_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"WARUNG_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"WARUNG_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"WARUNG_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"WARUNG_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"WARUNG_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"WARUNG_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"WARUNG_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"WARUNG_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"WARUNG_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"WARUNG_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"WARUNG_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"WARUNG_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"10"`
}

type CartConfig struct {
	TTL time.Duration `envconfig:"WARUNG_CART_TTL" default:"12h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"WARUNG_FEATURE_AUTO_MIGRATE" default:"false"`
}

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every environment variable the service reads.
	EnvPrefix = "UMKM"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv    = "UMKM_APP_ENV"
	EnvPort      = "UMKM_APP_PORT"
	EnvDBDSN     = "UMKM_DB_DSN"
	EnvDBHost    = "UMKM_DB_HOST"
	EnvDBUser    = "UMKM_DB_USER"
	EnvDBName    = "UMKM_DB_NAME"
	EnvRedisURL  = "UMKM_REDIS_URL"
	EnvJWTSecret = "UMKM_JWT_SECRET"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Scheduler    SchedulerConfig
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
	Env          string `envconfig:"UMKM_APP_ENV" required:"true"`
	Port         string `envconfig:"UMKM_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"UMKM_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"UMKM_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"UMKM_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"UMKM_DB_DSN"`
	Driver string `envconfig:"UMKM_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"UMKM_DB_HOST"`
	LegacyPort     int    `envconfig:"UMKM_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"UMKM_DB_USER"`
	LegacyPassword string `envconfig:"UMKM_DB_PASSWORD"`
	LegacyName     string `envconfig:"UMKM_DB_NAME"`
	LegacySSLMode  string `envconfig:"UMKM_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"UMKM_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"UMKM_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"UMKM_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"UMKM_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"UMKM_REDIS_URL" required:"true"`
	Address      string        `envconfig:"UMKM_REDIS_ADDR"`
	Password     string        `envconfig:"UMKM_REDIS_PASSWORD"`
	DB           int           `envconfig:"UMKM_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"UMKM_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"UMKM_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"UMKM_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"UMKM_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"UMKM_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"UMKM_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"UMKM_JWT_ISSUER" default:"umkm-delicious"`
	ExpirationMinutes int    `envconfig:"UMKM_JWT_EXPIRATION_MINUTES" default:"720"`
}

// Expiration returns the access token lifetime.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"UMKM_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"UMKM_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"UMKM_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"UMKM_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"UMKM_ARGON_KEY_LEN" default:"32"`
}

// SchedulerConfig drives the cron worker. The 10s thresholds mirror the demo
// timing of the storefront; production deployments override them.
type SchedulerConfig struct {
	Interval         time.Duration `envconfig:"UMKM_SCHEDULER_INTERVAL" default:"1m"`
	WaitThreshold    time.Duration `envconfig:"UMKM_SCHEDULER_WAIT_THRESHOLD" default:"10s"`
	ProcessThreshold time.Duration `envconfig:"UMKM_SCHEDULER_PROCESS_THRESHOLD" default:"10s"`
	LockTTL          time.Duration `envconfig:"UMKM_SCHEDULER_LOCK_TTL" default:"5m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate   bool `envconfig:"UMKM_AUTO_MIGRATE" default:"false"`
	AllowDemoAuth bool `envconfig:"UMKM_ALLOW_DEMO_AUTH" default:"true"`
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

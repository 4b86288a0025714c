package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv = "ORDERPLUS_APP_ENV"
	EnvDBDSN  = "ORDERPLUS_DB_DSN"
	EnvDBHost = "ORDERPLUS_DB_HOST"
	EnvDBUser = "ORDERPLUS_DB_USER"
	EnvDBName = "ORDERPLUS_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Cart         CartConfig
	FraudCheck   FraudCheckConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
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
	Env          string `envconfig:"ORDERPLUS_APP_ENV" required:"true"`
	Port         string `envconfig:"ORDERPLUS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ORDERPLUS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ORDERPLUS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"ORDERPLUS_DB_DSN"`
	Driver string `envconfig:"ORDERPLUS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ORDERPLUS_DB_HOST"`
	LegacyPort     int    `envconfig:"ORDERPLUS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ORDERPLUS_DB_USER"`
	LegacyPassword string `envconfig:"ORDERPLUS_DB_PASSWORD"`
	LegacyName     string `envconfig:"ORDERPLUS_DB_NAME"`
	LegacySSLMode  string `envconfig:"ORDERPLUS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ORDERPLUS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ORDERPLUS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ORDERPLUS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ORDERPLUS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ORDERPLUS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"ORDERPLUS_REDIS_ADDR"`
	Password     string        `envconfig:"ORDERPLUS_REDIS_PASSWORD"`
	DB           int           `envconfig:"ORDERPLUS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ORDERPLUS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ORDERPLUS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ORDERPLUS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ORDERPLUS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ORDERPLUS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"ORDERPLUS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"ORDERPLUS_JWT_ISSUER" default:"orderplus"`
	ExpirationMinutes int    `envconfig:"ORDERPLUS_JWT_EXPIRATION_MINUTES" default:"720"`
}

// Expiration returns the access token lifetime.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"ORDERPLUS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"ORDERPLUS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"ORDERPLUS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"ORDERPLUS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"ORDERPLUS_ARGON_KEY_LEN" default:"32"`
}

type CartConfig struct {
	TTL time.Duration `envconfig:"ORDERPLUS_CART_TTL" default:"168h"`
}

type FraudCheckConfig struct {
	BaseURL string        `envconfig:"ORDERPLUS_FRAUDCHECK_BASE_URL" default:"https://courier.wporderplus.com/api.php"`
	Timeout time.Duration `envconfig:"ORDERPLUS_FRAUDCHECK_TIMEOUT" default:"10s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"ORDERPLUS_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"ORDERPLUS_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"ORDERPLUS_GCP_PROJECT_ID" required:"true"`
}

type PubSubConfig struct {
	OrdersTopic        string `envconfig:"ORDERPLUS_PUBSUB_ORDERS_TOPIC" default:"orders"`
	OrdersSubscription string `envconfig:"ORDERPLUS_PUBSUB_ORDERS_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"ORDERPLUS_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"ORDERPLUS_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"ORDERPLUS_OUTBOX_MAX_ATTEMPTS" default:"10"`
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

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

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv   = "LOKALIVE_APP_ENV"
	EnvPort     = "LOKALIVE_APP_PORT"
	EnvDBDSN    = "LOKALIVE_DB_DSN"
	EnvDBHost   = "LOKALIVE_DB_HOST"
	EnvDBUser   = "LOKALIVE_DB_USER"
	EnvDBName   = "LOKALIVE_DB_NAME"
	EnvRedisURL = "LOKALIVE_REDIS_URL"

	EnvJWTSecret  = "LOKALIVE_JWT_SECRET"
	EnvJWTIssuer  = "LOKALIVE_JWT_ISSUER"
	EnvJWTExpMins = "LOKALIVE_JWT_EXPIRATION_MINUTES"

	EnvGCPProjectID        = "LOKALIVE_GCP_PROJECT_ID"
	EnvPubSubDomainTopic   = "LOKALIVE_PUBSUB_DOMAIN_TOPIC"
	EnvPubSubDomainSub     = "LOKALIVE_PUBSUB_DOMAIN_SUBSCRIPTION"
	EnvPubSubLiveTopic     = "LOKALIVE_PUBSUB_LIVE_TOPIC"
	EnvPubSubOrdersTopic   = "LOKALIVE_PUBSUB_ORDERS_TOPIC"
	EnvVideoTokenSecret    = "LOKALIVE_VIDEO_TOKEN_SECRET"
	EnvPushServiceEndpoint = "LOKALIVE_PUSH_ENDPOINT"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
	Cron          CronConfig
	Push          PushConfig
	Video         VideoConfig
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
	Env          string `envconfig:"LOKALIVE_APP_ENV" required:"true"`
	Port         string `envconfig:"LOKALIVE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"LOKALIVE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LOKALIVE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"LOKALIVE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"LOKALIVE_DB_DSN"`
	Driver string `envconfig:"LOKALIVE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"LOKALIVE_DB_HOST"`
	LegacyPort     int    `envconfig:"LOKALIVE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"LOKALIVE_DB_USER"`
	LegacyPassword string `envconfig:"LOKALIVE_DB_PASSWORD"`
	LegacyName     string `envconfig:"LOKALIVE_DB_NAME"`
	LegacySSLMode  string `envconfig:"LOKALIVE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LOKALIVE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LOKALIVE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LOKALIVE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LOKALIVE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"LOKALIVE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"LOKALIVE_REDIS_ADDR"`
	Password     string        `envconfig:"LOKALIVE_REDIS_PASSWORD"`
	DB           int           `envconfig:"LOKALIVE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LOKALIVE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LOKALIVE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LOKALIVE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LOKALIVE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LOKALIVE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"LOKALIVE_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"LOKALIVE_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"LOKALIVE_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"LOKALIVE_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"LOKALIVE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"LOKALIVE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"LOKALIVE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"LOKALIVE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"LOKALIVE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"LOKALIVE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"LOKALIVE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"LOKALIVE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"LOKALIVE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"LOKALIVE_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"LOKALIVE_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"LOKALIVE_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"LOKALIVE_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	// DomainTopic carries order/payment/shipment/complaint/admin events; the
	// worker consumes DomainSubscription into the audit log and push dispatch.
	DomainTopic        string `envconfig:"LOKALIVE_PUBSUB_DOMAIN_TOPIC" required:"true"`
	DomainSubscription string `envconfig:"LOKALIVE_PUBSUB_DOMAIN_SUBSCRIPTION" required:"true"`
	// LiveTopic is the channel the admin frontend subscribes to directly for
	// comments and live-order pushes during a stream.
	LiveTopic   string `envconfig:"LOKALIVE_PUBSUB_LIVE_TOPIC" required:"true"`
	OrdersTopic string `envconfig:"LOKALIVE_PUBSUB_ORDERS_TOPIC" required:"true"`
}

type OutboxConfig struct {
	BatchSize      int           `envconfig:"LOKALIVE_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int           `envconfig:"LOKALIVE_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int           `envconfig:"LOKALIVE_OUTBOX_MAX_ATTEMPTS" default:"10"`
	IdempotencyTTL time.Duration `envconfig:"LOKALIVE_OUTBOX_IDEMPOTENCY_TTL" default:"24h"`
}

type CronConfig struct {
	Interval              time.Duration `envconfig:"LOKALIVE_CRON_INTERVAL" default:"24h"`
	LockKey               string        `envconfig:"LOKALIVE_CRON_LOCK_KEY" default:"lokalive:cron:lock"`
	LockTTL               time.Duration `envconfig:"LOKALIVE_CRON_LOCK_TTL" default:"25h"`
	OutboxRetentionDays   int           `envconfig:"LOKALIVE_CRON_OUTBOX_RETENTION_DAYS" default:"30"`
	DLQRetentionDays      int           `envconfig:"LOKALIVE_CRON_DLQ_RETENTION_DAYS" default:"90"`
	SnapshotRetentionDays int           `envconfig:"LOKALIVE_CRON_SNAPSHOT_RETENTION_DAYS" default:"90"`
}

type PushConfig struct {
	Endpoint string        `envconfig:"LOKALIVE_PUSH_ENDPOINT"`
	APIKey   string        `envconfig:"LOKALIVE_PUSH_API_KEY"`
	Timeout  time.Duration `envconfig:"LOKALIVE_PUSH_TIMEOUT" default:"5s"`
}

type VideoConfig struct {
	TokenSecret   string        `envconfig:"LOKALIVE_VIDEO_TOKEN_SECRET"`
	TokenIssuer   string        `envconfig:"LOKALIVE_VIDEO_TOKEN_ISSUER" default:"lokalive"`
	TokenValidity time.Duration `envconfig:"LOKALIVE_VIDEO_TOKEN_VALIDITY" default:"4h"`
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

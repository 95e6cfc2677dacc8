package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "PARTYSNAP"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv                 = "PARTYSNAP_APP_ENV"
	EnvPort                   = "PARTYSNAP_APP_PORT"
	EnvDBDSN                  = "PARTYSNAP_DB_DSN"
	EnvDBHost                 = "PARTYSNAP_DB_HOST"
	EnvDBUser                 = "PARTYSNAP_DB_USER"
	EnvDBName                 = "PARTYSNAP_DB_NAME"
	EnvRedisURL               = "PARTYSNAP_REDIS_URL"
	EnvJWTSecret              = "PARTYSNAP_JWT_SECRET"
	EnvJWTIssuer              = "PARTYSNAP_JWT_ISSUER"
	EnvJWTExpMins             = "PARTYSNAP_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "PARTYSNAP_REFRESH_TOKEN_TTL_MINUTES"
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
	Postmark      PostmarkConfig
	Payments      PaymentsConfig
	Calendar      CalendarConfig
	Cron          CronConfig
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
	Env          string `envconfig:"PARTYSNAP_APP_ENV" required:"true"`
	Port         string `envconfig:"PARTYSNAP_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PARTYSNAP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PARTYSNAP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"PARTYSNAP_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"PARTYSNAP_DB_DSN"`
	Driver string `envconfig:"PARTYSNAP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PARTYSNAP_DB_HOST"`
	LegacyPort     int    `envconfig:"PARTYSNAP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PARTYSNAP_DB_USER"`
	LegacyPassword string `envconfig:"PARTYSNAP_DB_PASSWORD"`
	LegacyName     string `envconfig:"PARTYSNAP_DB_NAME"`
	LegacySSLMode  string `envconfig:"PARTYSNAP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PARTYSNAP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PARTYSNAP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PARTYSNAP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PARTYSNAP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PARTYSNAP_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PARTYSNAP_REDIS_ADDR"`
	Password     string        `envconfig:"PARTYSNAP_REDIS_PASSWORD"`
	DB           int           `envconfig:"PARTYSNAP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PARTYSNAP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PARTYSNAP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PARTYSNAP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PARTYSNAP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PARTYSNAP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"PARTYSNAP_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"PARTYSNAP_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"PARTYSNAP_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"PARTYSNAP_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PARTYSNAP_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PARTYSNAP_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PARTYSNAP_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PARTYSNAP_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PARTYSNAP_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"PARTYSNAP_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"PARTYSNAP_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"PARTYSNAP_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"PARTYSNAP_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"PARTYSNAP_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"PARTYSNAP_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"PARTYSNAP_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"PARTYSNAP_AUTO_MIGRATE" default:"false"`
}

type PostmarkConfig struct {
	ServerToken string `envconfig:"PARTYSNAP_POSTMARK_SERVER_TOKEN"`
	DefaultFrom string `envconfig:"PARTYSNAP_POSTMARK_FROM_EMAIL"`
	BaseURL     string `envconfig:"PARTYSNAP_POSTMARK_BASE_URL" default:"https://api.postmarkapp.com"`
	MaxRetries  int    `envconfig:"PARTYSNAP_POSTMARK_MAX_RETRIES" default:"3"`
}

// PaymentsConfig configures verification of payment processor webhooks. The
// processor itself is hosted; only its callbacks land here.
type PaymentsConfig struct {
	WebhookSecret string `envconfig:"PARTYSNAP_PAYMENTS_WEBHOOK_SECRET"`
}

type CalendarConfig struct {
	RenewalWindow  time.Duration `envconfig:"PARTYSNAP_CALENDAR_RENEWAL_WINDOW" default:"48h"`
	ChannelTTL     time.Duration `envconfig:"PARTYSNAP_CALENDAR_CHANNEL_TTL" default:"168h"`
	SyncBaseURL    string        `envconfig:"PARTYSNAP_CALENDAR_SYNC_BASE_URL"`
	SyncToken      string        `envconfig:"PARTYSNAP_CALENDAR_SYNC_TOKEN"`
	GoogleClientID string        `envconfig:"PARTYSNAP_CALENDAR_GOOGLE_CLIENT_ID"`
	OutlookTenant  string        `envconfig:"PARTYSNAP_CALENDAR_OUTLOOK_TENANT"`
}

type CronConfig struct {
	EnquiryReminderAfter time.Duration `envconfig:"PARTYSNAP_CRON_ENQUIRY_REMINDER_AFTER" default:"48h"`
	LockTTL              time.Duration `envconfig:"PARTYSNAP_CRON_LOCK_TTL" default:"10m"`
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

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	GCP           GCPConfig
	GCS           GCSConfig
	Imports       ImportConfig
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
	Env          string `envconfig:"STOCKNEXUS_APP_ENV" required:"true"`
	Port         string `envconfig:"STOCKNEXUS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"STOCKNEXUS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOCKNEXUS_LOG_WARN_STACK" default:"false"`
	CORSOrigins  string `envconfig:"STOCKNEXUS_CORS_ORIGINS" default:"*"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// CORSAllowedOrigins splits the configured origin list.
func (a AppConfig) CORSAllowedOrigins() []string {
	parts := strings.Split(a.CORSOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

type DBConfig struct {
	DSN    string `envconfig:"STOCKNEXUS_DB_DSN"`
	Driver string `envconfig:"STOCKNEXUS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"STOCKNEXUS_DB_HOST"`
	LegacyPort     int    `envconfig:"STOCKNEXUS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"STOCKNEXUS_DB_USER"`
	LegacyPassword string `envconfig:"STOCKNEXUS_DB_PASSWORD"`
	LegacyName     string `envconfig:"STOCKNEXUS_DB_NAME"`
	LegacySSLMode  string `envconfig:"STOCKNEXUS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"STOCKNEXUS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STOCKNEXUS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STOCKNEXUS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOCKNEXUS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOCKNEXUS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"STOCKNEXUS_REDIS_ADDR"`
	Password     string        `envconfig:"STOCKNEXUS_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOCKNEXUS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOCKNEXUS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOCKNEXUS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOCKNEXUS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOCKNEXUS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOCKNEXUS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"STOCKNEXUS_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"STOCKNEXUS_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"STOCKNEXUS_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"STOCKNEXUS_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"STOCKNEXUS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"STOCKNEXUS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"STOCKNEXUS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"STOCKNEXUS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"STOCKNEXUS_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"STOCKNEXUS_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"STOCKNEXUS_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"STOCKNEXUS_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"STOCKNEXUS_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"STOCKNEXUS_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"STOCKNEXUS_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"STOCKNEXUS_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"STOCKNEXUS_GCP_PROJECT_ID"`
	ApplicationCredentials string `envconfig:"STOCKNEXUS_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName        string        `envconfig:"STOCKNEXUS_GCS_BUCKET_NAME"`
	DownloadURLExpiry time.Duration `envconfig:"STOCKNEXUS_GCS_DOWNLOAD_URL_EXPIRY" default:"15m"`
	MaxUploadMB       int           `envconfig:"STOCKNEXUS_GCS_MAX_UPLOAD_MB" default:"20"`
}

type ImportConfig struct {
	MaxRows int `envconfig:"STOCKNEXUS_IMPORT_MAX_ROWS" default:"1000"`
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

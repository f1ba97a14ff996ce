package config

// EnvPrefix namespaces every StockNexus environment variable.
const EnvPrefix = "STOCKNEXUS"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names shared between Load and the test helpers.
const (
	EnvAppEnv   = "STOCKNEXUS_APP_ENV"
	EnvPort     = "STOCKNEXUS_APP_PORT"
	EnvLogLevel = "STOCKNEXUS_LOG_LEVEL"

	EnvDBDSN      = "STOCKNEXUS_DB_DSN"
	EnvDBHost     = "STOCKNEXUS_DB_HOST"
	EnvDBUser     = "STOCKNEXUS_DB_USER"
	EnvDBName     = "STOCKNEXUS_DB_NAME"
	EnvDBPassword = "STOCKNEXUS_DB_PASSWORD"

	EnvRedisURL = "STOCKNEXUS_REDIS_URL"

	EnvJWTSecret              = "STOCKNEXUS_JWT_SECRET"
	EnvJWTIssuer              = "STOCKNEXUS_JWT_ISSUER"
	EnvJWTExpMins             = "STOCKNEXUS_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "STOCKNEXUS_REFRESH_TOKEN_TTL_MINUTES"

	EnvGCPProjectID = "STOCKNEXUS_GCP_PROJECT_ID"
	EnvGCSBucket    = "STOCKNEXUS_GCS_BUCKET_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

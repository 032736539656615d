package config

const (
	EnvPrefix = "SUPERSHOP"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv       = "SUPERSHOP_APP_ENV"
	EnvPort         = "SUPERSHOP_APP_PORT"
	EnvLogLevel     = "SUPERSHOP_LOG_LEVEL"
	EnvLogFormat    = "SUPERSHOP_LOG_FORMAT"
	EnvLogWarnStack = "SUPERSHOP_LOG_WARN_STACK"

	EnvDBDSN      = "SUPERSHOP_DB_DSN"
	EnvDBDriver   = "SUPERSHOP_DB_DRIVER"
	EnvDBHost     = "SUPERSHOP_DB_HOST"
	EnvDBPort     = "SUPERSHOP_DB_PORT"
	EnvDBUser     = "SUPERSHOP_DB_USER"
	EnvDBPassword = "SUPERSHOP_DB_PASSWORD"
	EnvDBName     = "SUPERSHOP_DB_NAME"
	EnvDBSSLMode  = "SUPERSHOP_DB_SSLMODE"

	EnvRedisURL  = "SUPERSHOP_REDIS_URL"
	EnvRedisAddr = "SUPERSHOP_REDIS_ADDR"

	EnvShopName          = "SUPERSHOP_SHOP_NAME"
	EnvShopInvoicePrefix = "SUPERSHOP_SHOP_INVOICE_PREFIX"

	EnvCheckoutDefaultTill    = "SUPERSHOP_CHECKOUT_DEFAULT_TILL"
	EnvCheckoutIdempotencyTTL = "SUPERSHOP_CHECKOUT_IDEMPOTENCY_TTL"

	EnvUseSQLite   = "SUPERSHOP_USE_SQLITE"
	EnvSQLitePath  = "SUPERSHOP_SQLITE_PATH"
	EnvAutoMigrate = "SUPERSHOP_AUTO_MIGRATE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

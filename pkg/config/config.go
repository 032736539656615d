package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Shop         ShopConfig
	Checkout     CheckoutConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DriverSQLite
		cfg.DB.DSN = cfg.FeatureFlags.SQLitePath
		return &cfg, nil
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SUPERSHOP_APP_ENV" required:"true"`
	Port         string `envconfig:"SUPERSHOP_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SUPERSHOP_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"SUPERSHOP_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"SUPERSHOP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type DBConfig struct {
	DSN    string `envconfig:"SUPERSHOP_DB_DSN"`
	Driver string `envconfig:"SUPERSHOP_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"SUPERSHOP_DB_HOST"`
	Port     int    `envconfig:"SUPERSHOP_DB_PORT" default:"5432"`
	User     string `envconfig:"SUPERSHOP_DB_USER"`
	Password string `envconfig:"SUPERSHOP_DB_PASSWORD"`
	Name     string `envconfig:"SUPERSHOP_DB_NAME"`
	SSLMode  string `envconfig:"SUPERSHOP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SUPERSHOP_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"SUPERSHOP_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"SUPERSHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SUPERSHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SUPERSHOP_REDIS_URL"`
	Address      string        `envconfig:"SUPERSHOP_REDIS_ADDR"`
	Password     string        `envconfig:"SUPERSHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"SUPERSHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SUPERSHOP_REDIS_POOL_SIZE" default:"5"`
	MinIdleConns int           `envconfig:"SUPERSHOP_REDIS_MIN_IDLE_CONNS" default:"1"`
	DialTimeout  time.Duration `envconfig:"SUPERSHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SUPERSHOP_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"SUPERSHOP_REDIS_WRITE_TIMEOUT" default:"3s"`
}

// Enabled reports whether a Redis endpoint was configured at all.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

// ShopConfig holds the header and footer printed on every cash memo.
type ShopConfig struct {
	Name          string   `envconfig:"SUPERSHOP_SHOP_NAME" default:"SARDER SUPER SHOP"`
	Address       string   `envconfig:"SUPERSHOP_SHOP_ADDRESS" default:"Kaligonj Bazar, Kalkini, Madaripur"`
	Mobile        string   `envconfig:"SUPERSHOP_SHOP_MOBILE" default:"01922388130"`
	Email         string   `envconfig:"SUPERSHOP_SHOP_EMAIL" default:"mdarafathossen62@gmail.com"`
	Title         string   `envconfig:"SUPERSHOP_SHOP_RECEIPT_TITLE" default:"CASH MEMO / INVOICE"`
	InvoicePrefix string   `envconfig:"SUPERSHOP_SHOP_INVOICE_PREFIX" default:"SSS"`
	Footer        []string `envconfig:"SUPERSHOP_SHOP_FOOTER" default:"Thank You For Shopping With Us!,Goods once sold are not refundable without receipt.,Powered by Sarder POS System"`
	Timezone      string   `envconfig:"SUPERSHOP_SHOP_TIMEZONE" default:"Asia/Dhaka"`
	ReceiptFont   string   `envconfig:"SUPERSHOP_SHOP_RECEIPT_FONT"`
}

// Location resolves Timezone, falling back to UTC when it is blank.
func (s ShopConfig) Location() (*time.Location, error) {
	if strings.TrimSpace(s.Timezone) == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading shop timezone: %w", err)
	}
	return loc, nil
}

type CheckoutConfig struct {
	DefaultTill    string        `envconfig:"SUPERSHOP_CHECKOUT_DEFAULT_TILL" default:"main"`
	IdempotencyTTL time.Duration `envconfig:"SUPERSHOP_CHECKOUT_IDEMPOTENCY_TTL" default:"24h"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool   `envconfig:"SUPERSHOP_USE_SQLITE" default:"false"`
	SQLitePath  string `envconfig:"SUPERSHOP_SQLITE_PATH" default:"supershop.db"`
	AutoMigrate bool   `envconfig:"SUPERSHOP_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range legacyDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}
	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}

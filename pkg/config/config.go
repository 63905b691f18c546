package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "INVENTORY"

	EnvAppEnv        = "INVENTORY_APP_ENV"
	EnvPort          = "INVENTORY_APP_PORT"
	EnvStoreDriver   = "INVENTORY_STORE_DRIVER"
	EnvMongoURI      = "INVENTORY_MONGO_URI"
	EnvMongoDatabase = "INVENTORY_MONGO_DATABASE"
	EnvDBDSN         = "INVENTORY_DB_DSN"
	EnvRedisURL      = "INVENTORY_REDIS_URL"
	EnvCORSOrigins   = "INVENTORY_CORS_ORIGINS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	App   AppConfig
	Store StoreConfig
	Mongo MongoConfig
	DB    DBConfig
	Redis RedisConfig
	HTTP  HTTPConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	switch c.Store.Driver {
	case DriverMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("%s is required when %s=%s", EnvMongoURI, EnvStoreDriver, DriverMongo)
		}
	case DriverPostgres, DriverSQLite:
		if c.DB.DSN == "" {
			return fmt.Errorf("%s is required when %s=%s", EnvDBDSN, EnvStoreDriver, c.Store.Driver)
		}
	default:
		return fmt.Errorf("unsupported %s %q", EnvStoreDriver, c.Store.Driver)
	}
	return nil
}

type AppConfig struct {
	Env          string `envconfig:"INVENTORY_APP_ENV" default:"dev"`
	Port         string `envconfig:"INVENTORY_APP_PORT" default:"3000"`
	LogLevel     string `envconfig:"INVENTORY_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"INVENTORY_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"INVENTORY_LOG_WARN_STACK" default:"false"`
	AutoMigrate  bool   `envconfig:"INVENTORY_AUTO_MIGRATE" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Driver string `envconfig:"INVENTORY_STORE_DRIVER" default:"mongo"`
}

// IsSQL reports whether the configured backend goes through gorm.
func (s StoreConfig) IsSQL() bool {
	return s.Driver == DriverPostgres || s.Driver == DriverSQLite
}

type MongoConfig struct {
	URI            string        `envconfig:"INVENTORY_MONGO_URI"`
	Database       string        `envconfig:"INVENTORY_MONGO_DATABASE" default:"inventory"`
	Collection     string        `envconfig:"INVENTORY_MONGO_COLLECTION" default:"products"`
	ConnectTimeout time.Duration `envconfig:"INVENTORY_MONGO_CONNECT_TIMEOUT" default:"5s"`
	MaxPoolSize    uint64        `envconfig:"INVENTORY_MONGO_MAX_POOL_SIZE" default:"0"`
}

type DBConfig struct {
	DSN string `envconfig:"INVENTORY_DB_DSN"`

	MaxOpenConns    int           `envconfig:"INVENTORY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"INVENTORY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"INVENTORY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"INVENTORY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL            string        `envconfig:"INVENTORY_REDIS_URL"`
	Address        string        `envconfig:"INVENTORY_REDIS_ADDR"`
	Password       string        `envconfig:"INVENTORY_REDIS_PASSWORD"`
	DB             int           `envconfig:"INVENTORY_REDIS_DB" default:"0"`
	PoolSize       int           `envconfig:"INVENTORY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns   int           `envconfig:"INVENTORY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout    time.Duration `envconfig:"INVENTORY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout    time.Duration `envconfig:"INVENTORY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout   time.Duration `envconfig:"INVENTORY_REDIS_WRITE_TIMEOUT" default:"5s"`
	IdempotencyTTL time.Duration `envconfig:"INVENTORY_IDEMPOTENCY_TTL" default:"24h"`
}

// Enabled reports whether a redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type HTTPConfig struct {
	CORSOrigins       []string      `envconfig:"INVENTORY_CORS_ORIGINS" default:"*"`
	ShutdownTimeout   time.Duration `envconfig:"INVENTORY_SHUTDOWN_TIMEOUT" default:"10s"`
	ReadHeaderTimeout time.Duration `envconfig:"INVENTORY_HTTP_READ_HEADER_TIMEOUT" default:"10s"`
}

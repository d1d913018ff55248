package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Backup       BackupConfig
	Seed         SeedConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SHOPBOT_APP_ENV" required:"true"`
	Port         string `envconfig:"SHOPBOT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SHOPBOT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHOPBOT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	Driver string `envconfig:"SHOPBOT_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"SHOPBOT_DB_DSN" default:"shop.db"`

	MaxOpenConns    int           `envconfig:"SHOPBOT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHOPBOT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHOPBOT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHOPBOT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the store runs on the embedded sqlite driver.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DriverSQLite)
}

func (db *DBConfig) normalize() error {
	driver := strings.ToLower(strings.TrimSpace(db.Driver))
	switch driver {
	case DriverSQLite, DriverPostgres:
		db.Driver = driver
	default:
		return fmt.Errorf("unsupported db driver %q (expected %s or %s)", db.Driver, DriverSQLite, DriverPostgres)
	}
	if db.DSN == "" {
		return fmt.Errorf("%s is required", EnvDBDSN)
	}
	return nil
}

type BackupConfig struct {
	Dir           string        `envconfig:"SHOPBOT_BACKUP_DIR" default:"backups"`
	Interval      time.Duration `envconfig:"SHOPBOT_BACKUP_INTERVAL" default:"24h"`
	RestoreOnBoot bool          `envconfig:"SHOPBOT_BACKUP_RESTORE_ON_BOOT" default:"true"`
}

type SeedConfig struct {
	// AdminIDs mirrors the bot's ADMIN_IDS list; only the first entry seeds
	// an admin user, and 0 disables seeding.
	AdminIDs   []int64  `envconfig:"SHOPBOT_ADMIN_IDS" default:"0"`
	Categories []string `envconfig:"SHOPBOT_SEED_CATEGORIES" default:"Beverages,Snacks,Merchandise,Accessories,Gift Cards"`
}

// FirstAdminID returns the admin to seed at boot, or 0 when seeding is off.
func (s SeedConfig) FirstAdminID() int64 {
	if len(s.AdminIDs) == 0 {
		return 0
	}
	return s.AdminIDs[0]
}

type RedisConfig struct {
	// URL is optional; when empty the backup scheduler falls back to a
	// process-local lock.
	URL          string        `envconfig:"SHOPBOT_REDIS_URL"`
	PoolSize     int           `envconfig:"SHOPBOT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHOPBOT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHOPBOT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHOPBOT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHOPBOT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != ""
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SHOPBOT_AUTO_MIGRATE" default:"false"`
}

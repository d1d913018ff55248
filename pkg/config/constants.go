package config

// EnvPrefix is empty because every variable carries the full SHOPBOT_ name in
// its envconfig tag.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Environment variable names. Tests and error messages reference these
// instead of repeating raw strings; the block doubles as the documented
// configuration surface.
const (
	EnvAppEnv         = "SHOPBOT_APP_ENV"
	EnvAppPort        = "SHOPBOT_APP_PORT"
	EnvLogLevel       = "SHOPBOT_LOG_LEVEL"
	EnvDBDriver       = "SHOPBOT_DB_DRIVER"
	EnvDBDSN          = "SHOPBOT_DB_DSN"
	EnvBackupDir      = "SHOPBOT_BACKUP_DIR"
	EnvBackupInterval = "SHOPBOT_BACKUP_INTERVAL"
	EnvAdminIDs       = "SHOPBOT_ADMIN_IDS"
	EnvSeedCategories = "SHOPBOT_SEED_CATEGORIES"
	EnvRedisURL       = "SHOPBOT_REDIS_URL"
	EnvAutoMigrate    = "SHOPBOT_AUTO_MIGRATE"
)

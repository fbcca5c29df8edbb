package config

import "time"

// Config is the root application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Auth     AuthConfig     `yaml:"auth"`
	Engine   EngineConfig   `yaml:"engine"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	MigrateOnStart  bool          `yaml:"migrate_on_start"   env:"DATABASE_MIGRATE_ON_START"   env-default:"false"`
	MigrationsDir   string        `yaml:"migrations_dir"     env:"DATABASE_MIGRATIONS_DIR"     env-default:""`
	// ApplicationName is reported in pg_stat_activity.
	ApplicationName string        `yaml:"application_name"   env:"DATABASE_APPLICATION_NAME"   env-default:"sharetracker"`
	// LockTimeout bounds how long a participation transition waits on a row
	// lock held by a concurrent transition. Zero leaves the server default.
	LockTimeout     time.Duration `yaml:"lock_timeout"       env:"DATABASE_LOCK_TIMEOUT"       env-default:"5s"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// AuthConfig holds password settings.
type AuthConfig struct {
	BcryptCost        int `yaml:"bcrypt_cost"         env:"AUTH_BCRYPT_COST"          env-default:"12"`
	MinPasswordLength int `yaml:"min_password_length" env:"AUTH_MIN_PASSWORD_LENGTH"  env-default:"8"`
}

// EngineConfig holds lifecycle orchestrator settings.
type EngineConfig struct {
	DefaultRole  string `yaml:"default_role"   env:"ENGINE_DEFAULT_ROLE"   env-default:"user"`
	ListLimit    int    `yaml:"list_limit"     env:"ENGINE_LIST_LIMIT"     env-default:"50"`
	MaxListLimit int    `yaml:"max_list_limit" env:"ENGINE_MAX_LIST_LIMIT" env-default:"200"`
}

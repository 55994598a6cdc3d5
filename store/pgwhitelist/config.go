package pgwhitelist

import "time"

// Config configures the Postgres connection backing the whitelist
// entry store. Field names and defaults follow the teacher's
// integration/database/pg package.
type Config struct {
	ConnectionString string        `env:"PGWHITELIST_CONN_URL,required"`
	MaxOpenConns     int32         `env:"PGWHITELIST_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns     int32         `env:"PGWHITELIST_MAX_IDLE_CONNS" envDefault:"5"`
	MaxConnLifetime  time.Duration `env:"PGWHITELIST_MAX_CONN_LIFETIME" envDefault:"30m"`
	RetryAttempts    int           `env:"PGWHITELIST_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval    time.Duration `env:"PGWHITELIST_RETRY_INTERVAL" envDefault:"5s"`
	MigrationsTable  string        `env:"PGWHITELIST_MIGRATIONS_TABLE" envDefault:"schema_migrations"`
}

package pgaudit

import "time"

// Config configures the Postgres connection backing the audit log.
// Field names and defaults follow the teacher's integration/database/pg
// package.
type Config struct {
	ConnectionString string        `env:"PGAUDIT_CONN_URL,required"`
	MaxOpenConns     int32         `env:"PGAUDIT_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns     int32         `env:"PGAUDIT_MAX_IDLE_CONNS" envDefault:"5"`
	MaxConnLifetime  time.Duration `env:"PGAUDIT_MAX_CONN_LIFETIME" envDefault:"30m"`
	RetryAttempts    int           `env:"PGAUDIT_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval    time.Duration `env:"PGAUDIT_RETRY_INTERVAL" envDefault:"5s"`
	MigrationsTable  string        `env:"PGAUDIT_MIGRATIONS_TABLE" envDefault:"schema_migrations"`
}

package pgwhitelist

import "errors"

var (
	ErrEmptyConnectionString    = errors.New("pgwhitelist: empty postgres connection string")
	ErrFailedToOpenDBConnection = errors.New("pgwhitelist: failed to open db connection")
	ErrHealthcheckFailed        = errors.New("pgwhitelist: healthcheck failed, connection is not available")
	ErrFailedToApplyMigrations  = errors.New("pgwhitelist: failed to apply migrations")
)

package pgaudit

import "errors"

var (
	ErrEmptyConnectionString    = errors.New("pgaudit: empty postgres connection string")
	ErrFailedToOpenDBConnection = errors.New("pgaudit: failed to open db connection")
	ErrHealthcheckFailed        = errors.New("pgaudit: healthcheck failed, connection is not available")
	ErrFailedToApplyMigrations  = errors.New("pgaudit: failed to apply migrations")
)

package mongosession

import "errors"

var (
	ErrFailedToConnectToMongo = errors.New("mongosession: failed to connect to mongodb")
	ErrHealthcheckFailed      = errors.New("mongosession: healthcheck failed, connection is not available")
)

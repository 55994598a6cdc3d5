package searchindex

import "errors"

var (
	ErrConnectionFailed  = errors.New("searchindex: failed to create opensearch client")
	ErrHealthcheckFailed = errors.New("searchindex: cluster unreachable or unhealthy")
	ErrIndexFailed       = errors.New("searchindex: failed to index document")
)

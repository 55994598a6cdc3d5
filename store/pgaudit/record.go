package pgaudit

import "time"

// AuditRecord is the durable, queryable projection of one
// detect.Result, flattened for storage.
type AuditRecord struct {
	CorrelationID  string
	Timestamp      time.Time
	IsSuspicious   bool
	SuspicionScore int
	Confidence     float64
	Country        string
	ReasonSummary  string
}

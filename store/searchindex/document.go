package searchindex

import (
	"time"

	"github.com/botguard/botguard/detect"
)

// DetectionDocument is the JSON shape indexed for each detection
// result, flattened for OpenSearch's term/range queries.
type DetectionDocument struct {
	CorrelationID  string    `json:"correlationId"`
	Timestamp      time.Time `json:"timestamp"`
	IsSuspicious   bool      `json:"isSuspicious"`
	SuspicionScore int       `json:"suspicionScore"`
	Confidence     float64   `json:"confidence"`
	Country        string    `json:"country,omitempty"`
	ASN            string    `json:"asn,omitempty"`
	Fingerprint    string    `json:"fingerprint,omitempty"`
	Reasons        []string  `json:"reasons,omitempty"`
}

// NewDocument flattens a detect.Result into its indexable shape.
func NewDocument(result detect.Result) DetectionDocument {
	doc := DetectionDocument{
		CorrelationID:  result.CorrelationID,
		Timestamp:      result.Metadata.Timestamp,
		IsSuspicious:   result.IsSuspicious,
		SuspicionScore: result.SuspicionScore,
		Confidence:     result.Confidence,
		Fingerprint:    result.Fingerprint,
	}
	if result.Metadata.Geo != nil {
		doc.Country = result.Metadata.Geo.Country
		doc.ASN = result.Metadata.Geo.ASN
	}
	for _, r := range result.Reasons {
		doc.Reasons = append(doc.Reasons, string(r.Category)+":"+r.Description)
	}
	return doc
}

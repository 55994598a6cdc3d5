// Package searchindex indexes detection results into OpenSearch, one
// index request per result,
// for ad-hoc analytics and historical search, subscribing to the
// coordinator's detectionEvent topic rather than sitting on the
// Analyze call path. A down or slow cluster never adds latency to
// detection: indexing failures are logged and dropped.
package searchindex

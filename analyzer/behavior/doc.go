// Package behavior scores the timing, navigation, and diversity
// pattern of a session's request history into a detect.BehaviorMetrics
// record. Every call first tracks the current request against the
// session store, so the returned metrics always reflect the request
// that triggered them.
package behavior

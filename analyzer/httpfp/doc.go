// Package httpfp produces a detect.HTTPFingerprint from a
// detect.RequestView: a DJB2 header-set signature, which required
// headers are missing, which headers look suspicious, a prefix-based
// header-order score against canonical browser order, and any matched
// automation regex tokens.
package httpfp

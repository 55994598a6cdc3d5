// Package mongosession implements core/session.Store against MongoDB,
// so a fleet of botguard instances can share per-IP session history
// instead of each process tracking its own.
package mongosession

// Package pgwhitelist is a Postgres-backed implementation of
// whitelist.EntryStore, for operators who want whitelist entries to
// survive a restart and be managed from outside the process.
//
// The in-memory whitelist.Manager remains the hot path: Check never
// touches the database. Store is a write-behind/read-through
// companion — callers hydrate a Manager from it at startup with
// LoadAll plus Manager.Restore, and write through to it after each
// successful Manager mutation.
package pgwhitelist

package whitelist

import "errors"

// ErrCapacityExceeded is returned by Add* when the manager already holds
// cfg.MaxEntries entries.
var ErrCapacityExceeded = errors.New("whitelist: capacity exceeded")

// ErrInvalidPattern names a User-Agent pattern that fails to compile as a
// regular expression. AddUserAgent never returns it: such a pattern is
// kept and matched as a plain substring instead.
var ErrInvalidPattern = errors.New("whitelist: invalid user-agent pattern")

// ErrNotFound reports that no entry matches a given id. Manager has no
// method that removes an entry by id, and nothing in this package
// returns ErrNotFound.
var ErrNotFound = errors.New("whitelist: entry not found")

package session

import (
	"context"
	"sync"
	"time"
)

// Manager is the session store's public entrypoint: it owns a Store
// and serializes per-IP read-modify-write updates so concurrent
// requests from the same address never lose an update.
type Manager struct {
	store  Store
	config Config

	keyLocks sync.Map // ip string -> *sync.Mutex
	nowFunc  func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithStore overrides the default in-memory Store.
func WithStore(store Store) Option {
	return func(m *Manager) { m.store = store }
}

// WithConfig overrides the default Config.
func WithConfig(cfg Config) Option {
	return func(m *Manager) { m.config = cfg }
}

// New builds a Manager. With no options it uses a MemoryStore sized
// from DefaultConfig.
func New(opts ...Option) *Manager {
	m := &Manager{
		config:  DefaultConfig(),
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.store == nil {
		m.store = NewMemoryStore(m.config)
	}
	return m
}

// lockFor returns the mutex serializing updates to ip, creating it on
// first use. Locks are never removed: the cardinality is bounded by
// the number of distinct IPs ever seen in the process lifetime, which
// in practice tracks the session store's own bounded size.
func (m *Manager) lockFor(ip string) *sync.Mutex {
	v, _ := m.keyLocks.LoadOrStore(ip, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// Track records one request against ip's session, creating the
// session on first sight. It appends log to the rolling request
// history (truncated to the configured maximum), bumps RequestCount
// and LastSeen, and atomically republishes the session. The returned
// Data is a snapshot safe for the caller to read without racing
// further Track calls.
func (m *Manager) Track(ctx context.Context, ip string, log RequestLog) (Data, error) {
	if ip == "" {
		return Data{}, ErrMissingIP
	}

	lock := m.lockFor(ip)
	lock.Lock()
	defer lock.Unlock()

	now := m.nowFunc()
	if log.Timestamp.IsZero() {
		log.Timestamp = now
	}

	data, err := m.store.Get(ctx, ip)
	if err != nil {
		data = newSession(ip, now)
	} else if data.Expired(now, m.config.Timeout) {
		data = newSession(ip, now)
	}

	data.LastSeen = now
	data.RequestCount++
	data.Requests = append(data.Requests, log)
	if max := m.config.MaxRequests; max > 0 && len(data.Requests) > max {
		data.Requests = data.Requests[len(data.Requests)-max:]
	}

	if err := m.store.Save(ctx, data, m.config.Timeout); err != nil {
		return Data{}, err
	}
	return data.clone(), nil
}

// AddFingerprint records digest as observed for ip's session.
func (m *Manager) AddFingerprint(ctx context.Context, ip, digest string) error {
	if ip == "" {
		return ErrMissingIP
	}

	lock := m.lockFor(ip)
	lock.Lock()
	defer lock.Unlock()

	now := m.nowFunc()
	data, err := m.store.Get(ctx, ip)
	if err != nil || data.Expired(now, m.config.Timeout) {
		data = newSession(ip, now)
	}
	data.Fingerprints[digest] = struct{}{}
	return m.store.Save(ctx, data, m.config.Timeout)
}

// RecordSuspicion appends score to ip's suspicion-history trail,
// truncated to the configured maximum.
func (m *Manager) RecordSuspicion(ctx context.Context, ip string, score int) error {
	if ip == "" {
		return ErrMissingIP
	}

	lock := m.lockFor(ip)
	lock.Lock()
	defer lock.Unlock()

	now := m.nowFunc()
	data, err := m.store.Get(ctx, ip)
	if err != nil || data.Expired(now, m.config.Timeout) {
		data = newSession(ip, now)
	}
	data.SuspicionHistory = append(data.SuspicionHistory, score)
	if max := m.config.MaxSuspicionHistory; max > 0 && len(data.SuspicionHistory) > max {
		data.SuspicionHistory = data.SuspicionHistory[len(data.SuspicionHistory)-max:]
	}
	return m.store.Save(ctx, data, m.config.Timeout)
}

// Get returns ip's current session, or ErrNotFound/ErrExpired if none
// is live.
func (m *Manager) Get(ctx context.Context, ip string) (Data, error) {
	if ip == "" {
		return Data{}, ErrMissingIP
	}
	data, err := m.store.Get(ctx, ip)
	if err != nil {
		return Data{}, err
	}
	if data.Expired(m.nowFunc(), m.config.Timeout) {
		return Data{}, ErrExpired
	}
	return data.clone(), nil
}

// Delete removes ip's session entirely.
func (m *Manager) Delete(ctx context.Context, ip string) error {
	return m.store.Delete(ctx, ip)
}

// Sweep evicts every session whose LastSeen is older than the
// configured timeout, returning the count removed. Intended to be
// called periodically by a background ticker.
func (m *Manager) Sweep(ctx context.Context) (int, error) {
	return m.store.DeleteExpired(ctx, m.nowFunc(), m.config.Timeout)
}

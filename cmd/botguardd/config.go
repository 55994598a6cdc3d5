package main

import "time"

// Config is this demo binary's own settings, loaded alongside
// settings.Config via the shared core/config cache.
type Config struct {
	HTTPAddr      string        `env:"BOTGUARDD_HTTP_ADDR" envDefault:":8080"`
	DNSResolver   string        `env:"BOTGUARDD_DNS_RESOLVER_ADDR"`
	ShutdownGrace time.Duration `env:"BOTGUARDD_SHUTDOWN_GRACE" envDefault:"5s"`
}

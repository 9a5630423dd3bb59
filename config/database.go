package config

import "time"

const defaultReceiverCacheTTL = 5 * time.Minute

// DBConfig contains PostgreSQL database configuration.
type DBConfig struct {
	Host     string `env:"HOST"                    envDefault:"localhost"`
	Port     int    `env:"PORT"                    envDefault:"5432"`
	User     string `env:"USER"                    envDefault:"alertnotify"`
	Password string `env:"PASSWORD"                envDefault:"alertnotify"`
	Name     string `env:"NAME"                    envDefault:"alertnotify"`
	SSLMode  string `env:"SSL_MODE"                envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	// RunMigrationsOnStart controls whether the application automatically applies migrations during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	// Enabled turns the receiver cache on. Without Redis every read goes to Postgres.
	Enabled            bool     `env:"ENABLED"              envDefault:"true"`
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
}

// CacheConfig contains receiver cache configuration (Redis-based).
type CacheConfig struct {
	// ReceiverTTL is how long a receiver stays cached after a read.
	ReceiverTTL time.Duration `env:"CACHE_RECEIVER_TTL" envDefault:"5m"`
}

// Sanitize restores the default TTL for non-positive values.
func (c *CacheConfig) Sanitize() {
	if c.ReceiverTTL <= 0 {
		c.ReceiverTTL = defaultReceiverCacheTTL
	}
}

package checkemailuniqueness

import "time"

type Config struct {
	Timeout time.Duration
	// LookupTimeout bounds both table lookups; expiry counts as a failed lookup.
	LookupTimeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout:       10 * time.Second,
		LookupTimeout: 5 * time.Second,
	}
}

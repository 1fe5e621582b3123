package submitbookingrequest

import "time"

type Config struct {
	// Timeout must cover the lookup and submission timeouts of the pipeline.
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}

package filterrecords

import "time"

type Config struct {
	Timeout time.Duration
	// Location is where booking dates are read as calendar days.
	Location *time.Location
}

func LoadConfig() *Config {
	return &Config{
		Timeout:  10 * time.Second,
		Location: time.Local,
	}
}

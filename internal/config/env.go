package config

import "os"

// osLookupEnv is a test seam for os.LookupEnv.
var osLookupEnv = os.LookupEnv

// ApplyEnv overlays recognized environment variables onto c.
func (c *Config) ApplyEnv() {
	c.apply(osLookupEnv)
}

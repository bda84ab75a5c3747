package config

import "github.com/joho/godotenv"

// readSettingsFile parses a simple KEY=VALUE settings file. Blank lines
// and lines beginning with '#' are ignored. The values are returned as a
// map; process environment is left untouched.
func readSettingsFile(path string) (map[string]string, error) {
	return godotenv.Read(path)
}

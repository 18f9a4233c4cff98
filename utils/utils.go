package utils

import "os"

// GetenvDefault returns the environment value for key, or fallback when unset.
func GetenvDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

package config

const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = "8080"

	// DefaultDatabaseURL is empty; must be provided via flag or environment
	// unless the in-memory backend is selected.
	DefaultDatabaseURL = ""
)

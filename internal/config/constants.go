package config

const (
	// DefaultDatabasePath is the default path for the SQLite database
	DefaultDatabasePath = "./library.db"

	DefaultIntegritySweepSchedule = "0 3 * * *"
)

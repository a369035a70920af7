package config

const (
	// DefaultDatabasePath is the default path for the catalog database
	DefaultDatabasePath = "./clipcatalog.db"

	// DefaultExportDir is where show snapshots are written
	DefaultExportDir = "./exports"
)

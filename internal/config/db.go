package config

// DB holds the database configuration settings.
type DB struct {
	// Path is the SQLite database file path, e.g. "./data/kajilog.db".
	Path string
	// SessionPath is the SQLite file backing the HTTP session store.
	SessionPath string
	// Extras are additional SQLite connection parameters.
	Extras string
}

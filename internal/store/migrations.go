package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Settings table - stores tuning values as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Interaction events table - logs every accepted discrete command
		`CREATE TABLE IF NOT EXISTS interaction_events (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL CHECK(source IN ('gesture', 'touch', 'keyboard')),
			kind TEXT NOT NULL CHECK(kind IN ('zoom', 'rotate', 'reset')),
			detail TEXT NOT NULL DEFAULT '{}',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Index for time-ordered event listing
		`CREATE INDEX IF NOT EXISTS idx_interaction_events_created_at ON interaction_events(created_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}

package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS rooms (
			id    TEXT PRIMARY KEY,
			name  TEXT NOT NULL UNIQUE,
			color TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS specialists (
			id    TEXT PRIMARY KEY,
			name  TEXT NOT NULL UNIQUE,
			color TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS patients (
			id   TEXT PRIMARY KEY,
			name TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS meetings (
			id         TEXT PRIMARY KEY,
			date       DATE NOT NULL,
			start_time TIME NOT NULL,
			end_time   TIME NOT NULL,
			room_id    TEXT NOT NULL REFERENCES rooms(id),
			notes      TEXT NOT NULL DEFAULT '',
			status     TEXT DEFAULT 'present' CHECK(status IN ('present', 'absent', 'in_progress', 'cancelled')),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS meeting_specialists (
			meeting_id    TEXT NOT NULL REFERENCES meetings(id) ON DELETE CASCADE,
			specialist_id TEXT NOT NULL REFERENCES specialists(id),
			PRIMARY KEY (meeting_id, specialist_id)
		);

		CREATE TABLE IF NOT EXISTS meeting_patients (
			meeting_id TEXT NOT NULL REFERENCES meetings(id) ON DELETE CASCADE,
			patient_id TEXT NOT NULL REFERENCES patients(id),
			PRIMARY KEY (meeting_id, patient_id)
		);

		CREATE INDEX IF NOT EXISTS idx_meetings_date ON meetings(date);
		CREATE INDEX IF NOT EXISTS idx_meetings_room ON meetings(room_id);
		CREATE INDEX IF NOT EXISTS idx_meetings_status ON meetings(status);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	return nil
}

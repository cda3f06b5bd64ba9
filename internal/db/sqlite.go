// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"careboard/internal/schedule"
)

// SQLite implements schedule.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// CreateMeeting adds a new meeting. The room and every attached specialist are
// re-checked for double bookings inside the insert transaction, so a stale
// in-memory view cannot commit a conflicting meeting.
func (s *SQLite) CreateMeeting(ctx context.Context, m *schedule.Meeting) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := checkConflictsTx(ctx, tx, m, m.Date, m.StartTime, m.EndTime); err != nil {
		return err
	}

	query := `
		INSERT INTO meetings (id, date, start_time, end_time, room_id, notes, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, query,
		m.ID,
		m.Date.Format("2006-01-02"),
		m.StartTime,
		m.EndTime,
		m.RoomID,
		m.Notes,
		m.Status,
		m.CreatedAt.Format(time.RFC3339),
		m.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting meeting: %w", err)
	}

	if err := insertAttachmentsTx(ctx, tx, m); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// GetMeeting retrieves a meeting by ID, or nil if absent.
func (s *SQLite) GetMeeting(ctx context.Context, id string) (*schedule.Meeting, error) {
	query := `
		SELECT id, date, start_time, end_time, room_id, notes, status, created_at, updated_at
		FROM meetings
		WHERE id = ?
	`

	m, err := scanMeeting(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying meeting: %w", err)
	}

	if err := s.loadAttachments(ctx, []*schedule.Meeting{m}); err != nil {
		return nil, err
	}

	return m, nil
}

// UpdateMeetingTimes changes only the start/end of a meeting in place.
// Grid resize and move commits land here; the conflict re-check runs against
// the database state, not the view's cached meetings.
func (s *SQLite) UpdateMeetingTimes(ctx context.Context, id string, upd schedule.TimeUpdate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	m, err := getMeetingTx(ctx, tx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("%w: %s", schedule.ErrMeetingNotFound, id)
	}

	if err := checkConflictsTx(ctx, tx, m, m.Date, upd.StartTime, upd.EndTime); err != nil {
		return err
	}

	query := `UPDATE meetings SET start_time = ?, end_time = ?, updated_at = ? WHERE id = ?`
	_, err = tx.ExecContext(ctx, query, upd.StartTime, upd.EndTime, time.Now().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("updating meeting times: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// UpdateMeeting replaces every editable field of a meeting.
func (s *SQLite) UpdateMeeting(ctx context.Context, m *schedule.Meeting) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	existing, err := getMeetingTx(ctx, tx, m.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("%w: %s", schedule.ErrMeetingNotFound, m.ID)
	}

	if err := checkConflictsTx(ctx, tx, m, m.Date, m.StartTime, m.EndTime); err != nil {
		return err
	}

	query := `
		UPDATE meetings
		SET date = ?, start_time = ?, end_time = ?, room_id = ?, notes = ?, status = ?, updated_at = ?
		WHERE id = ?
	`
	_, err = tx.ExecContext(ctx, query,
		m.Date.Format("2006-01-02"),
		m.StartTime,
		m.EndTime,
		m.RoomID,
		m.Notes,
		m.Status,
		time.Now().Format(time.RFC3339),
		m.ID,
	)
	if err != nil {
		return fmt.Errorf("updating meeting: %w", err)
	}

	// Replace attachments wholesale
	if _, err := tx.ExecContext(ctx, `DELETE FROM meeting_specialists WHERE meeting_id = ?`, m.ID); err != nil {
		return fmt.Errorf("clearing specialists: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM meeting_patients WHERE meeting_id = ?`, m.ID); err != nil {
		return fmt.Errorf("clearing patients: %w", err)
	}
	if err := insertAttachmentsTx(ctx, tx, m); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// CancelMeeting marks a meeting as cancelled. Cancelled meetings stay visible
// but stop occupying their room and specialists.
func (s *SQLite) CancelMeeting(ctx context.Context, id string) error {
	query := `UPDATE meetings SET status = ?, updated_at = ? WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, schedule.StatusCancelled, time.Now().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("cancelling meeting: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: %s", schedule.ErrMeetingNotFound, id)
	}

	return nil
}

// DeleteMeeting removes a meeting permanently.
func (s *SQLite) DeleteMeeting(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM meetings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting meeting: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: %s", schedule.ErrMeetingNotFound, id)
	}

	return nil
}

// ListMeetingsByDateRange returns all meetings with dates in the range (inclusive).
func (s *SQLite) ListMeetingsByDateRange(ctx context.Context, start, end time.Time) ([]*schedule.Meeting, error) {
	query := `
		SELECT id, date, start_time, end_time, room_id, notes, status, created_at, updated_at
		FROM meetings
		WHERE date >= ? AND date <= ?
		ORDER BY date, start_time
	`

	rows, err := s.db.QueryContext(ctx, query, start.Format("2006-01-02"), end.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("querying meetings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var meetings []*schedule.Meeting
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning meeting: %w", err)
		}
		meetings = append(meetings, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating meetings: %w", err)
	}

	if err := s.loadAttachments(ctx, meetings); err != nil {
		return nil, err
	}

	return meetings, nil
}

// ListAllMeetings returns every meeting in the database ordered by date then
// start time. Not part of schedule.Repository; used by the import command.
func (s *SQLite) ListAllMeetings(ctx context.Context) ([]*schedule.Meeting, error) {
	query := `
		SELECT id, date, start_time, end_time, room_id, notes, status, created_at, updated_at
		FROM meetings
		ORDER BY date, start_time
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying meetings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var meetings []*schedule.Meeting
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning meeting: %w", err)
		}
		meetings = append(meetings, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating meetings: %w", err)
	}

	if err := s.loadAttachments(ctx, meetings); err != nil {
		return nil, err
	}

	return meetings, nil
}

// CreateRoom adds a new room.
func (s *SQLite) CreateRoom(ctx context.Context, r *schedule.Room) error {
	if strings.TrimSpace(r.Name) == "" {
		return schedule.ErrEmptyName
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rooms (id, name, color) VALUES (?, ?, ?)`,
		r.ID, r.Name, r.Color)
	if err != nil {
		return fmt.Errorf("inserting room: %w", err)
	}
	return nil
}

// ListRooms returns all rooms ordered by name.
func (s *SQLite) ListRooms(ctx context.Context) ([]*schedule.Room, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, color FROM rooms ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying rooms: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var rooms []*schedule.Room
	for rows.Next() {
		var r schedule.Room
		if err := rows.Scan(&r.ID, &r.Name, &r.Color); err != nil {
			return nil, fmt.Errorf("scanning room: %w", err)
		}
		rooms = append(rooms, &r)
	}
	return rooms, rows.Err()
}

// CreateSpecialist adds a new specialist.
func (s *SQLite) CreateSpecialist(ctx context.Context, sp *schedule.Specialist) error {
	if strings.TrimSpace(sp.Name) == "" {
		return schedule.ErrEmptyName
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO specialists (id, name, color) VALUES (?, ?, ?)`,
		sp.ID, sp.Name, sp.Color)
	if err != nil {
		return fmt.Errorf("inserting specialist: %w", err)
	}
	return nil
}

// ListSpecialists returns all specialists ordered by name.
func (s *SQLite) ListSpecialists(ctx context.Context) ([]*schedule.Specialist, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, color FROM specialists ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying specialists: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var specialists []*schedule.Specialist
	for rows.Next() {
		var sp schedule.Specialist
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.Color); err != nil {
			return nil, fmt.Errorf("scanning specialist: %w", err)
		}
		specialists = append(specialists, &sp)
	}
	return specialists, rows.Err()
}

// CreatePatient adds a new patient.
func (s *SQLite) CreatePatient(ctx context.Context, p *schedule.Patient) error {
	if strings.TrimSpace(p.Name) == "" {
		return schedule.ErrEmptyName
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO patients (id, name) VALUES (?, ?)`,
		p.ID, p.Name)
	if err != nil {
		return fmt.Errorf("inserting patient: %w", err)
	}
	return nil
}

// ListPatients returns all patients ordered by name.
func (s *SQLite) ListPatients(ctx context.Context) ([]*schedule.Patient, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM patients ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying patients: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var patients []*schedule.Patient
	for rows.Next() {
		var p schedule.Patient
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("scanning patient: %w", err)
		}
		patients = append(patients, &p)
	}
	return patients, rows.Err()
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanMeeting scans a meeting row without its attachment lists.
func scanMeeting(row rowScanner) (*schedule.Meeting, error) {
	var (
		m         schedule.Meeting
		date      string
		createdAt string
		updatedAt string
	)

	err := row.Scan(
		&m.ID,
		&date,
		&m.StartTime,
		&m.EndTime,
		&m.RoomID,
		&m.Notes,
		&m.Status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if m.Date, err = parseDate(date); err != nil {
		return nil, fmt.Errorf("parsing date: %w", err)
	}
	if m.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}
	if m.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated at: %w", err)
	}

	return &m, nil
}

// loadAttachments fills SpecialistIDs and PatientIDs for the given meetings.
func (s *SQLite) loadAttachments(ctx context.Context, meetings []*schedule.Meeting) error {
	if len(meetings) == 0 {
		return nil
	}

	byID := make(map[string]*schedule.Meeting, len(meetings))
	ids := make([]any, 0, len(meetings))
	placeholders := make([]string, 0, len(meetings))
	for _, m := range meetings {
		byID[m.ID] = m
		ids = append(ids, m.ID)
		placeholders = append(placeholders, "?")
	}
	in := strings.Join(placeholders, ", ")

	rows, err := s.db.QueryContext(ctx,
		`SELECT meeting_id, specialist_id FROM meeting_specialists WHERE meeting_id IN (`+in+`) ORDER BY specialist_id`,
		ids...)
	if err != nil {
		return fmt.Errorf("querying meeting specialists: %w", err)
	}
	for rows.Next() {
		var meetingID, specID string
		if err := rows.Scan(&meetingID, &specID); err != nil {
			_ = rows.Close()
			return fmt.Errorf("scanning meeting specialist: %w", err)
		}
		if m := byID[meetingID]; m != nil {
			m.SpecialistIDs = append(m.SpecialistIDs, specID)
		}
	}
	if err := rows.Close(); err != nil {
		return fmt.Errorf("closing rows: %w", err)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating meeting specialists: %w", err)
	}

	rows, err = s.db.QueryContext(ctx,
		`SELECT meeting_id, patient_id FROM meeting_patients WHERE meeting_id IN (`+in+`) ORDER BY patient_id`,
		ids...)
	if err != nil {
		return fmt.Errorf("querying meeting patients: %w", err)
	}
	for rows.Next() {
		var meetingID, patientID string
		if err := rows.Scan(&meetingID, &patientID); err != nil {
			_ = rows.Close()
			return fmt.Errorf("scanning meeting patient: %w", err)
		}
		if m := byID[meetingID]; m != nil {
			m.PatientIDs = append(m.PatientIDs, patientID)
		}
	}
	if err := rows.Close(); err != nil {
		return fmt.Errorf("closing rows: %w", err)
	}
	return rows.Err()
}

// insertAttachmentsTx inserts the specialist and patient join rows for a meeting.
func insertAttachmentsTx(ctx context.Context, tx *sql.Tx, m *schedule.Meeting) error {
	for _, specID := range m.SpecialistIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO meeting_specialists (meeting_id, specialist_id) VALUES (?, ?)`,
			m.ID, specID); err != nil {
			return fmt.Errorf("attaching specialist %s: %w", specID, err)
		}
	}
	for _, patientID := range m.PatientIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO meeting_patients (meeting_id, patient_id) VALUES (?, ?)`,
			m.ID, patientID); err != nil {
			return fmt.Errorf("attaching patient %s: %w", patientID, err)
		}
	}
	return nil
}

// getMeetingTx loads a meeting with attachments inside a transaction.
func getMeetingTx(ctx context.Context, tx *sql.Tx, id string) (*schedule.Meeting, error) {
	query := `
		SELECT id, date, start_time, end_time, room_id, notes, status, created_at, updated_at
		FROM meetings
		WHERE id = ?
	`
	m, err := scanMeeting(tx.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying meeting: %w", err)
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT specialist_id FROM meeting_specialists WHERE meeting_id = ? ORDER BY specialist_id`, id)
	if err != nil {
		return nil, fmt.Errorf("querying meeting specialists: %w", err)
	}
	for rows.Next() {
		var specID string
		if err := rows.Scan(&specID); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scanning specialist: %w", err)
		}
		m.SpecialistIDs = append(m.SpecialistIDs, specID)
	}
	if err := rows.Close(); err != nil {
		return nil, fmt.Errorf("closing rows: %w", err)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return m, nil
}

// checkConflictsTx verifies that placing the candidate meeting at
// [start,end) on date double-books neither its room nor any of its
// specialists. Same-day meetings are loaded inside the transaction and
// checked with the shared overlap rules, so the database check and the
// live-drag check can never disagree on boundary cases.
func checkConflictsTx(ctx context.Context, tx *sql.Tx, candidate *schedule.Meeting, date time.Time, start, end string) error {
	query := `
		SELECT id, date, start_time, end_time, room_id, notes, status, created_at, updated_at
		FROM meetings
		WHERE date = ? AND status != ?
	`
	rows, err := tx.QueryContext(ctx, query, date.Format("2006-01-02"), schedule.StatusCancelled)
	if err != nil {
		return fmt.Errorf("querying same-day meetings: %w", err)
	}

	var sameDay []*schedule.Meeting
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			_ = rows.Close()
			return fmt.Errorf("scanning meeting: %w", err)
		}
		sameDay = append(sameDay, m)
	}
	if err := rows.Close(); err != nil {
		return fmt.Errorf("closing rows: %w", err)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating meetings: %w", err)
	}

	for _, m := range sameDay {
		rows, err := tx.QueryContext(ctx,
			`SELECT specialist_id FROM meeting_specialists WHERE meeting_id = ?`, m.ID)
		if err != nil {
			return fmt.Errorf("querying meeting specialists: %w", err)
		}
		for rows.Next() {
			var specID string
			if err := rows.Scan(&specID); err != nil {
				_ = rows.Close()
				return fmt.Errorf("scanning specialist: %w", err)
			}
			m.SpecialistIDs = append(m.SpecialistIDs, specID)
		}
		if err := rows.Close(); err != nil {
			return fmt.Errorf("closing rows: %w", err)
		}
		if err := rows.Err(); err != nil {
			return err
		}
	}

	if blocker := schedule.FindConflict(sameDay, schedule.AxisRoom, candidate.RoomID, date, start, end, candidate.ID); blocker != nil {
		return fmt.Errorf("%w: room occupied by meeting %s (%s-%s)",
			schedule.ErrRoomDoubleBooked, blocker.ID, blocker.StartTime, blocker.EndTime)
	}
	for _, specID := range candidate.SpecialistIDs {
		if blocker := schedule.FindConflict(sameDay, schedule.AxisSpecialist, specID, date, start, end, candidate.ID); blocker != nil {
			return fmt.Errorf("%w: specialist %s busy in meeting %s (%s-%s)",
				schedule.ErrSpecialistDoubleBooked, specID, blocker.ID, blocker.StartTime, blocker.EndTime)
		}
	}

	return nil
}

// parseDate parses a date string in various formats SQLite might return.
// Date-only values (midnight) are parsed in local timezone to match time.Now() behavior.
func parseDate(s string) (time.Time, error) {
	// Date-only format: use local timezone (midnight local, not UTC)
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t, nil
	}

	// SQLite returns DATE columns as "2006-01-02T00:00:00Z" - extract date and parse as local
	if len(s) == 20 && s[10] == 'T' && s[19] == 'Z' {
		dateOnly := s[:10]
		if t, err := time.ParseInLocation("2006-01-02", dateOnly, time.Local); err == nil {
			return t, nil
		}
	}

	formats := []string{
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
		time.RFC3339,
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %s", s)
}

// Package session persists the login session and upload history in a local
// SQLite database. The stored bearer token is handed to the API client
// through an explicit provider function; nothing else reads it.
package session

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/marsisca/travelog/internal/models"
)

type Store struct {
	conn *sql.DB
}

func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	store := &Store{conn: conn}
	if err := store.initSchema(); err != nil {
		conn.Close()
		return nil, err
	}

	return store, nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS session (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		user_id INTEGER,
		username TEXT,
		email TEXT,
		token TEXT,
		created_at TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS uploads (
		id TEXT PRIMARY KEY,
		endpoint TEXT,
		photo_count INTEGER,
		outcome TEXT,
		trip_id INTEGER,
		message TEXT,
		created_at TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_uploads_created ON uploads(created_at);
	`

	_, err := s.conn.Exec(schema)
	return err
}

// SaveSession stores the logged-in user and token, replacing any previous
// session.
func (s *Store) SaveSession(user models.User, token string) error {
	_, err := s.conn.Exec(`
		INSERT INTO session (id, user_id, username, email, token, created_at)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			username = excluded.username,
			email = excluded.email,
			token = excluded.token,
			created_at = excluded.created_at`,
		user.ID, user.Username, user.Email, token, time.Now())
	return err
}

// CurrentSession returns the stored user and token, or (nil, "") when nobody
// is logged in.
func (s *Store) CurrentSession() (*models.User, string, error) {
	row := s.conn.QueryRow(`SELECT user_id, username, email, token FROM session WHERE id = 1`)

	var user models.User
	var token string
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &token); err != nil {
		if err == sql.ErrNoRows {
			return nil, "", nil
		}
		return nil, "", err
	}
	return &user, token, nil
}

// ClearSession logs out by deleting the stored session.
func (s *Store) ClearSession() error {
	_, err := s.conn.Exec(`DELETE FROM session WHERE id = 1`)
	return err
}

// TokenProvider returns a function the API client can call to fetch the
// current bearer token. The token is read per call, so a re-login is picked
// up without rebuilding the client.
func (s *Store) TokenProvider() func() (string, bool) {
	return func() (string, bool) {
		_, token, err := s.CurrentSession()
		if err != nil || token == "" {
			return "", false
		}
		return token, true
	}
}

// RecordUpload appends one upload attempt to the history.
func (s *Store) RecordUpload(record models.UploadRecord) error {
	_, err := s.conn.Exec(`
		INSERT INTO uploads (id, endpoint, photo_count, outcome, trip_id, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.Endpoint, record.PhotoCount, record.Outcome,
		record.TripID, record.Message, record.CreatedAt)
	return err
}

// ListUploads returns the upload history, newest first.
func (s *Store) ListUploads() ([]models.UploadRecord, error) {
	rows, err := s.conn.Query(`
		SELECT id, endpoint, photo_count, outcome, trip_id, message, created_at
		FROM uploads ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.UploadRecord
	for rows.Next() {
		var record models.UploadRecord
		if err := rows.Scan(&record.ID, &record.Endpoint, &record.PhotoCount,
			&record.Outcome, &record.TripID, &record.Message, &record.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

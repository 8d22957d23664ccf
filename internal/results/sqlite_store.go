package results

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fmuoria/interview-coach/internal/models"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore keeps records in a SQLite database
type SQLiteStore struct {
	conn *sql.DB
}

// NewSQLiteStore opens the database at dbPath and creates the schema if needed
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open results database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to results database: %w", err)
	}

	if err := createTables(conn); err != nil {
		conn.Close()
		return nil, err
	}

	return &SQLiteStore{conn: conn}, nil
}

// createTables creates the records table if it doesn't exist
func createTables(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS interview_records (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			title TEXT NOT NULL,
			score INTEGER NOT NULL,
			created_at INTEGER NOT NULL,
			data TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create interview_records table: %w", err)
	}

	_, err = conn.Exec(`CREATE INDEX IF NOT EXISTS idx_interview_records_created_at ON interview_records(created_at)`)
	if err != nil {
		return fmt.Errorf("failed to create created_at index: %w", err)
	}

	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

// Save inserts or replaces the record
func (s *SQLiteStore) Save(ctx context.Context, rec models.InterviewRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	_, err = s.conn.ExecContext(ctx, `
		INSERT INTO interview_records (id, type, title, score, created_at, data)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type = excluded.type,
			title = excluded.title,
			score = excluded.score,
			created_at = excluded.created_at,
			data = excluded.data
	`, rec.ID.String(), rec.Type, rec.Title, rec.Score, rec.CreatedAt.UnixNano(), string(data))
	if err != nil {
		return fmt.Errorf("failed to save record %s: %w", rec.ID, err)
	}

	return nil
}

// Get loads the record with the given id
func (s *SQLiteStore) Get(ctx context.Context, id uuid.UUID) (models.InterviewRecord, error) {
	var data string
	err := s.conn.QueryRowContext(ctx, `SELECT data FROM interview_records WHERE id = ?`, id.String()).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.InterviewRecord{}, ErrNotFound
		}
		return models.InterviewRecord{}, fmt.Errorf("failed to load record %s: %w", id, err)
	}

	return decodeRecord(data)
}

// List loads all records, newest first
func (s *SQLiteStore) List(ctx context.Context) ([]models.InterviewRecord, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT data FROM interview_records ORDER BY created_at DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	list := []models.InterviewRecord{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		rec, err := decodeRecord(data)
		if err != nil {
			return nil, err
		}
		list = append(list, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}

	return list, nil
}

// Delete removes the record with the given id
func (s *SQLiteStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM interview_records WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete record %s: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	return nil
}

func decodeRecord(data string) (models.InterviewRecord, error) {
	var rec models.InterviewRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return models.InterviewRecord{}, fmt.Errorf("failed to decode record: %w", err)
	}
	return rec, nil
}

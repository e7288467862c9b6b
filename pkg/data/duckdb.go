package data

import (
	"database/sql"
	"time"

	_ "github.com/marcboeker/go-duckdb/v2"
)

const createUploadsTable = `
CREATE TABLE IF NOT EXISTS uploads (
	chapter_key VARCHAR NOT NULL,
	number      VARCHAR NOT NULL,
	title       VARCHAR,
	outcome     VARCHAR NOT NULL,
	error       VARCHAR,
	uploaded_at TIMESTAMP NOT NULL
)`

// InitDuckDB opens (or creates) the journal database at path.
func InitDuckDB(path string) (*sql.DB, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(createUploadsTable); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Repository is the upload journal: one row per terminal chapter outcome,
// kept across runs so past uploads can be reviewed.
type Repository struct {
	db *sql.DB
}

func NewRepository(path string) (*Repository, error) {
	db, err := InitDuckDB(path)
	if err != nil {
		return nil, err
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// UploadRecord is one journal row.
type UploadRecord struct {
	ChapterKey string
	Number     string
	Title      string
	Outcome    string
	Error      string
	UploadedAt time.Time
}

// RecordOutcome appends a terminal outcome for the given chapter.
func (r *Repository) RecordOutcome(chapter *Chapter, outcome UploadOutcome) error {
	_, err := r.db.Exec(
		`INSERT INTO uploads (chapter_key, number, title, outcome, error, uploaded_at) VALUES (?, ?, ?, ?, ?, ?)`,
		chapter.Key, chapter.Number, chapter.Title, string(outcome.Kind), outcome.Err, time.Now(),
	)
	return err
}

// History returns the most recent journal rows, newest first.
func (r *Repository) History(limit int) ([]UploadRecord, error) {
	rows, err := r.db.Query(
		`SELECT chapter_key, number, title, outcome, error, uploaded_at FROM uploads ORDER BY uploaded_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []UploadRecord
	for rows.Next() {
		var rec UploadRecord
		if err := rows.Scan(&rec.ChapterKey, &rec.Number, &rec.Title, &rec.Outcome, &rec.Error, &rec.UploadedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Package store persists analyzed resumes in a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/spigell/resume-fixer/internal/logger"
	"github.com/spigell/resume-fixer/internal/resume"
)

var ErrNotFound = errors.New("resume not found")

const (
	driverName  = "sqlite"
	memoryPath  = ":memory:"
	busyTimeout = 10_000
)

const schema = `
CREATE TABLE IF NOT EXISTS resumes (
	id              TEXT PRIMARY KEY,
	company_name    TEXT NOT NULL DEFAULT '',
	job_title       TEXT NOT NULL DEFAULT '',
	job_description TEXT NOT NULL DEFAULT '',
	pdf             BLOB,
	page_count      INTEGER NOT NULL DEFAULT 0,
	feedback        TEXT,
	parsed_text     TEXT NOT NULL DEFAULT '',
	created_at      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS resumes_created_at ON resumes (created_at);
`

type Store struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
	newID  func() (uuid.UUID, error)
}

// Open opens or creates the database at path, creating parent directories as needed.
func Open(path string, logger *zap.Logger) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("database path is required")
	}

	if path != memoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open(driverName, dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Every connection to :memory: is a separate database.
	if path == memoryPath {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	logger.Debug("resume store opened", zap.String("path", path))

	return &Store{
		db:     db,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewV7,
	}, nil
}

// OpenMemory opens an empty in-memory store.
func OpenMemory(logger *zap.Logger) (*Store, error) {
	return Open(memoryPath, logger)
}

// dsn applies the pragmas on every pooled connection rather than the first one only.
func dsn(path string) string {
	params := url.Values{}
	params.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busyTimeout))
	params.Add("_pragma", "foreign_keys(1)")
	params.Add("_pragma", "synchronous(NORMAL)")
	if path != memoryPath {
		params.Add("_pragma", "journal_mode(WAL)")
	}
	return "file:" + path + "?" + params.Encode()
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts record or replaces the stored copy with the same ID. A missing
// ID and creation time are filled in on record.
func (s *Store) Save(ctx context.Context, record *resume.Record) error {
	if record == nil {
		return errors.New("record is required")
	}

	if record.ID == "" {
		id, err := s.newID()
		if err != nil {
			return fmt.Errorf("generate record id: %w", err)
		}
		record.ID = id.String()
	}

	if record.CreatedAt.IsZero() {
		record.CreatedAt = s.now()
	}

	feedback, err := marshalFeedback(record.Feedback)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO resumes (id, company_name, job_title, job_description, pdf, page_count, feedback, parsed_text, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
	company_name = excluded.company_name,
	job_title = excluded.job_title,
	job_description = excluded.job_description,
	pdf = excluded.pdf,
	page_count = excluded.page_count,
	feedback = excluded.feedback,
	parsed_text = excluded.parsed_text,
	created_at = excluded.created_at`,
		record.ID,
		record.CompanyName,
		record.JobTitle,
		record.JobDescription,
		record.PDF,
		record.PageCount,
		feedback,
		record.ParsedText,
		record.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("save resume %s: %w", record.ID, err)
	}

	s.logger.Debug("resume saved", logger.RecordID(record.ID))
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*resume.Record, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, company_name, job_title, job_description, pdf, page_count, feedback, parsed_text, created_at
FROM resumes WHERE id = ?`, id)

	record, err := scanRecord(row.Scan, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get resume %s: %w", id, err)
	}

	return record, nil
}

// List returns every record, newest first. PDF payloads are not loaded.
func (s *Store) List(ctx context.Context) ([]*resume.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, company_name, job_title, job_description, NULL, page_count, feedback, parsed_text, created_at
FROM resumes ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}
	defer rows.Close()

	var records []*resume.Record
	for rows.Next() {
		record, err := scanRecord(rows.Scan, false)
		if err != nil {
			return nil, fmt.Errorf("list resumes: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}

	return records, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM resumes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete resume %s: %w", id, err)
	}
	return expectOne(res, id)
}

// UpdateFeedback stores new feedback. parsedText, or the feedback's own
// reconstruction when parsedText is empty, replaces the stored text; when both
// are empty the stored text is kept.
func (s *Store) UpdateFeedback(ctx context.Context, id string, feedback *resume.Feedback, parsedText string) error {
	payload, err := marshalFeedback(feedback)
	if err != nil {
		return err
	}

	text := parsedText
	if text == "" && feedback != nil {
		text = feedback.ParsedText
	}

	res, err := s.db.ExecContext(ctx, `
UPDATE resumes SET
	feedback = ?,
	parsed_text = CASE WHEN ? = '' THEN parsed_text ELSE ? END
WHERE id = ?`, payload, text, text, id)
	if err != nil {
		return fmt.Errorf("update feedback for %s: %w", id, err)
	}

	return expectOne(res, id)
}

// UpdateParsedText replaces the editable resume text of a record.
func (s *Store) UpdateParsedText(ctx context.Context, id, text string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE resumes SET parsed_text = ? WHERE id = ?`, text, id)
	if err != nil {
		return fmt.Errorf("update text for %s: %w", id, err)
	}

	if err := expectOne(res, id); err != nil {
		return err
	}

	s.logger.Debug("resume text updated", logger.RecordID(id))
	return nil
}

// Clear removes every record and reports how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM resumes`)
	if err != nil {
		return 0, fmt.Errorf("clear resumes: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear resumes: %w", err)
	}

	return n, nil
}

func expectOne(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func marshalFeedback(feedback *resume.Feedback) (sql.NullString, error) {
	if feedback == nil {
		return sql.NullString{}, nil
	}

	data, err := json.Marshal(feedback)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("marshal feedback: %w", err)
	}

	return sql.NullString{String: string(data), Valid: true}, nil
}

func scanRecord(scan func(dest ...any) error, withPDF bool) (*resume.Record, error) {
	var (
		record    resume.Record
		pdf       []byte
		feedback  sql.NullString
		createdAt int64
	)

	if err := scan(
		&record.ID,
		&record.CompanyName,
		&record.JobTitle,
		&record.JobDescription,
		&pdf,
		&record.PageCount,
		&feedback,
		&record.ParsedText,
		&createdAt,
	); err != nil {
		return nil, err
	}

	if withPDF {
		record.PDF = pdf
	}

	if feedback.Valid && feedback.String != "" {
		var fb resume.Feedback
		if err := json.Unmarshal([]byte(feedback.String), &fb); err != nil {
			return nil, fmt.Errorf("decode feedback of %s: %w", record.ID, err)
		}
		record.Feedback = &fb
	}

	record.CreatedAt = time.Unix(0, createdAt)
	return &record, nil
}

// Package history persists validation runs in SQLite so past results can be
// listed and replayed through the HTTP API.
package history

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/raysh454/sentaku/internal/logging"
)

//go:embed schema.sql
var schemaFS embed.FS

var ErrRunNotFound = errors.New("run not found")

// Run is one persisted validation pass.
type Run struct {
	ID        string          `json:"run_id"`
	CreatedAt time.Time       `json:"created_at"`
	AllValid  bool            `json:"all_valid"`
	Result    json.RawMessage `json:"result"`
}

// Store keeps validation runs in a SQLite database under the storage root.
type Store struct {
	db     *sql.DB
	logger logging.Logger
}

// NewStore opens (creating if needed) the run database under storagePath and
// applies the schema.
func NewStore(storagePath string, logger logging.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	dbPath := filepath.Join(storagePath, "sentaku.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	logger.Info("run history store initialized",
		logging.Field{Key: "db_path", Value: dbPath})

	return &Store{db: db, logger: logger}, nil
}

func applySchema(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema.sql: %w", err)
	}
	if _, err := db.Exec(string(schemaSQL)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// SaveRun persists a marshaled result and returns the generated run ID.
func (s *Store) SaveRun(ctx context.Context, result json.RawMessage, allValid bool) (string, error) {
	id := uuid.NewString()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, all_valid, result) VALUES (?, ?, ?, ?)`,
		id, now.Unix(), boolToInt(allValid), string(result))
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	s.logger.Debug("saved validation run",
		logging.Field{Key: "run_id", Value: id},
		logging.Field{Key: "all_valid", Value: allValid})
	return id, nil
}

// GetRun returns one run by ID, or ErrRunNotFound.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	var (
		run       Run
		createdAt int64
		allValid  int
		result    string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, all_valid, result FROM runs WHERE id = ?`, id).
		Scan(&run.ID, &createdAt, &allValid, &result)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run %q: %w", id, err)
	}

	run.CreatedAt = time.Unix(createdAt, 0).UTC()
	run.AllValid = allValid != 0
	run.Result = json.RawMessage(result)
	return &run, nil
}

// ListRuns returns the most recent runs, newest first. limit <= 0 means the
// default of 50.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, all_valid, result FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var (
			run       Run
			createdAt int64
			allValid  int
			result    string
		)
		if err := rows.Scan(&run.ID, &createdAt, &allValid, &result); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		run.CreatedAt = time.Unix(createdAt, 0).UTC()
		run.AllValid = allValid != 0
		run.Result = json.RawMessage(result)
		runs = append(runs, &run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate run rows: %w", err)
	}
	return runs, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Package session persists finished and in-flight runs so past
// conversations can be listed and replayed from the CLI.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Sn1r/shannon/internal/message"
)

// DB is a SQLite-backed run store.
type DB struct {
	mu   sync.Mutex
	db   *sql.DB
	path string
}

// Run is one recorded conversation run.
type Run struct {
	ID           string
	Prompt       string
	Model        string
	Backend      string
	Status       string // "running", "done", "failed"
	Subtype      string
	Error        string
	Turns        int
	CostUSD      float64
	Duration     time.Duration
	InputTokens  int
	OutputTokens int
	CreatedAt    time.Time
}

// Open opens (or creates) the run database under dataDir.
func Open(dataDir string) (*DB, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, "runs.db")
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Single connection for writes, WAL allows concurrent reads
	db.SetMaxOpenConns(2)

	s := &DB{db: db, path: dbPath}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *DB) migrate() error {
	ddl := `
	CREATE TABLE IF NOT EXISTS runs (
		id            TEXT PRIMARY KEY,
		prompt        TEXT NOT NULL,
		model         TEXT NOT NULL,
		backend       TEXT NOT NULL,
		status        TEXT NOT NULL DEFAULT 'running',
		subtype       TEXT,
		error         TEXT,
		turns         INTEGER DEFAULT 0,
		cost_usd      REAL DEFAULT 0,
		duration_ms   INTEGER DEFAULT 0,
		input_tokens  INTEGER DEFAULT 0,
		output_tokens INTEGER DEFAULT 0,
		created_at    TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS messages (
		run_id     TEXT NOT NULL,
		seq        INTEGER NOT NULL,
		role       TEXT NOT NULL,
		content    TEXT NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (run_id, seq),
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);
	CREATE INDEX IF NOT EXISTS idx_messages_run ON messages(run_id);

	CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT
	);
	`
	_, err := s.db.Exec(ddl)
	return err
}

// Close closes the underlying database.
func (s *DB) Close() error {
	return s.db.Close()
}

// CreateRun records the start of a run.
func (s *DB) CreateRun(ctx context.Context, id, prompt, model, backendName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, prompt, model, backend, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, prompt, model, backendName, time.Now().UTC().Format(time.RFC3339))
	return err
}

// FinishRun records a run's terminal outcome.
func (s *DB) FinishRun(ctx context.Context, id, subtype, errText string, success bool,
	turns int, costUSD float64, duration time.Duration, usage message.Usage) error {

	status := "done"
	if !success {
		status = "failed"
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, subtype = ?, error = ?, turns = ?, cost_usd = ?,
		 duration_ms = ?, input_tokens = ?, output_tokens = ? WHERE id = ?`,
		status, subtype, errText, turns, costUSD,
		duration.Milliseconds(), usage.InputTokens, usage.OutputTokens, id)
	return err
}

// AppendMessage stores one transcript message at the given sequence.
func (s *DB) AppendMessage(ctx context.Context, runID string, seq int, m message.Message) error {
	content, err := json.Marshal(m.Content)
	if err != nil {
		return fmt.Errorf("marshal content: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO messages (run_id, seq, role, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		runID, seq, string(m.Role), string(content), time.Now().UTC().Format(time.RFC3339))
	return err
}

// GetRun loads one run by id.
func (s *DB) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, prompt, model, backend, status, COALESCE(subtype, ''), COALESCE(error, ''),
		 turns, cost_usd, duration_ms, input_tokens, output_tokens, created_at
		 FROM runs WHERE id = ?`, id)
	return scanRun(row)
}

// ListRuns returns the most recent runs, newest first.
func (s *DB) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, prompt, model, backend, status, COALESCE(subtype, ''), COALESCE(error, ''),
		 turns, cost_usd, duration_ms, input_tokens, output_tokens, created_at
		 FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Messages loads a run's transcript in order.
func (s *DB) Messages(ctx context.Context, runID string) ([]message.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT role, content FROM messages WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []message.Message
	for rows.Next() {
		var role, content string
		if err := rows.Scan(&role, &content); err != nil {
			return nil, err
		}
		m := message.Message{Role: message.Role(role)}
		if err := json.Unmarshal([]byte(content), &m.Content); err != nil {
			return nil, fmt.Errorf("unmarshal content: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// SetKV stores an arbitrary key/value pair.
func (s *DB) SetKV(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO kv (key, value) VALUES (?, ?)`, key, value)
	return err
}

// GetKV loads a value; missing keys return "".
func (s *DB) GetKV(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

type scannable interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scannable) (*Run, error) {
	var run Run
	var durationMS int64
	var createdAt string
	err := row.Scan(&run.ID, &run.Prompt, &run.Model, &run.Backend, &run.Status,
		&run.Subtype, &run.Error, &run.Turns, &run.CostUSD, &durationMS,
		&run.InputTokens, &run.OutputTokens, &createdAt)
	if err != nil {
		return nil, err
	}
	run.Duration = time.Duration(durationMS) * time.Millisecond
	run.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &run, nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

var ErrNotFound = errors.New("store: result not found")

// Result is one won game.
type Result struct {
	ID         uuid.UUID `json:"id"`
	Code       string    `json:"code"`
	Moves      int       `json:"moves"`
	Seconds    int       `json:"seconds"`
	Stars      int       `json:"stars"`
	FinishedAt time.Time `json:"finished_at"`
}

type Store struct {
	db *sql.DB
}

// Open opens/creates a SQLite database at path and runs migrations.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite is not concurrent for writes
	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS results (
			id TEXT PRIMARY KEY,
			code TEXT NOT NULL,
			moves INTEGER NOT NULL,
			seconds INTEGER NOT NULL,
			stars INTEGER NOT NULL,
			finished_at TIMESTAMP NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_results_rank ON results(stars DESC, moves ASC, seconds ASC);`,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, q := range stmts {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// SaveResult stores r under a fresh id and returns the stored row.
func (s *Store) SaveResult(ctx context.Context, r Result) (Result, error) {
	r.ID = uuid.New()
	if r.FinishedAt.IsZero() {
		r.FinishedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO results(id, code, moves, seconds, stars, finished_at) VALUES(?, ?, ?, ?, ?, ?)`,
		r.ID.String(), r.Code, r.Moves, r.Seconds, r.Stars, r.FinishedAt)
	if err != nil {
		return Result{}, fmt.Errorf("save result: %w", err)
	}
	return r, nil
}

func (s *Store) GetResult(ctx context.Context, id uuid.UUID) (Result, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, code, moves, seconds, stars, finished_at FROM results WHERE id=?`, id.String())
	r, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Result{}, ErrNotFound
	}
	if err != nil {
		return Result{}, fmt.Errorf("get result: %w", err)
	}
	return r, nil
}

// Leaderboard returns the best results: most stars, then fewest moves, then fastest.
func (s *Store) Leaderboard(ctx context.Context, limit int) ([]Result, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, code, moves, seconds, stars, finished_at
		FROM results
		ORDER BY stars DESC, moves ASC, seconds ASC, finished_at ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	defer rows.Close()

	out := make([]Result, 0, limit)
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("leaderboard: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(sc scanner) (Result, error) {
	var (
		r  Result
		id string
	)
	if err := sc.Scan(&id, &r.Code, &r.Moves, &r.Seconds, &r.Stars, &r.FinishedAt); err != nil {
		return Result{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return Result{}, fmt.Errorf("parse id %q: %w", id, err)
	}
	r.ID = parsed
	return r, nil
}

// Package storage persists draw history and archived predictions in a local
// SQLite database. The database is opened with WAL journaling and a
// single-connection pool; writes are atomic per transaction.
//
// Draws keep their file position so the history can be reloaded in the exact
// order it was supplied. The repeats-from-previous statistic depends on that
// order, not on contest numbering.
package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lotoscope/lotoscope/internal/models"
)

//go:embed schema.sql
var schemaFS embed.FS

// Storage wraps the SQLite database handle.
type Storage struct {
	db *sql.DB
}

// New opens (creating if needed) the SQLite database at dbPath and applies the
// schema. If dbPath is empty, an OS-appropriate tmp location is used.
func New(ctx context.Context, dbPath string) (*Storage, error) {
	if dbPath == "" {
		dbPath = filepath.Join(os.TempDir(), "lotoscope", "lotoscope.db")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_synchronous=normal", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// modernc sqlite is not safe for concurrent writers on one file.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	schemaBytes, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("read schema: %w", err)
	}
	if _, err := db.ExecContext(ctx, string(schemaBytes)); err != nil {
		db.Close()
		return nil, fmt.Errorf("execute schema: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close releases the database handle.
func (s *Storage) Close() error {
	return s.db.Close()
}

// SaveDraws upserts the supplied draws, recording each draw's position in the
// input sequence. Re-importing the same file is idempotent.
func (s *Storage) SaveDraws(ctx context.Context, draws []models.Draw) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO draws (contest, date, numbers, position)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(contest) DO UPDATE SET
			date = excluded.date,
			numbers = excluded.numbers,
			position = excluded.position
	`)
	if err != nil {
		return fmt.Errorf("prepare draw upsert: %w", err)
	}
	defer stmt.Close()

	for i, draw := range draws {
		if err := draw.Validate(); err != nil {
			return fmt.Errorf("invalid draw: %w", err)
		}
		numbersJSON, err := json.Marshal(draw.Numbers)
		if err != nil {
			return fmt.Errorf("marshal numbers: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, draw.Contest, draw.Date, string(numbersJSON), i); err != nil {
			return fmt.Errorf("save draw %d: %w", draw.Contest, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit draws: %w", err)
	}
	return nil
}

// LoadDraws returns all stored draws in their original input order.
func (s *Storage) LoadDraws(ctx context.Context) ([]models.Draw, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT contest, date, numbers
		FROM draws
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("query draws: %w", err)
	}
	defer rows.Close()

	var draws []models.Draw
	for rows.Next() {
		var draw models.Draw
		var numbersJSON string
		if err := rows.Scan(&draw.Contest, &draw.Date, &numbersJSON); err != nil {
			return nil, fmt.Errorf("scan draw: %w", err)
		}
		if err := json.Unmarshal([]byte(numbersJSON), &draw.Numbers); err != nil {
			return nil, fmt.Errorf("unmarshal numbers for draw %d: %w", draw.Contest, err)
		}
		draws = append(draws, draw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate draws: %w", err)
	}
	return draws, nil
}

// CountDraws returns the number of stored draws.
func (s *Storage) CountDraws(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM draws`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count draws: %w", err)
	}
	return count, nil
}

// SavePrediction archives a prediction.
func (s *Storage) SavePrediction(ctx context.Context, p *models.Prediction) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("invalid prediction: %w", err)
	}

	numbersJSON, err := json.Marshal(p.Numbers)
	if err != nil {
		return fmt.Errorf("marshal numbers: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO predictions (id, numbers, source, created_at)
		VALUES (?, ?, ?, ?)
	`, p.ID, string(numbersJSON), p.Source, p.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save prediction: %w", err)
	}
	return nil
}

// ListPredictions returns all archived predictions, oldest first.
func (s *Storage) ListPredictions(ctx context.Context) ([]models.Prediction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, numbers, source, created_at
		FROM predictions
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("query predictions: %w", err)
	}
	defer rows.Close()

	var predictions []models.Prediction
	for rows.Next() {
		var p models.Prediction
		var numbersJSON, createdAt string
		if err := rows.Scan(&p.ID, &numbersJSON, &p.Source, &createdAt); err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		if err := json.Unmarshal([]byte(numbersJSON), &p.Numbers); err != nil {
			return nil, fmt.Errorf("unmarshal numbers for prediction %s: %w", p.ID, err)
		}
		t, err := time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at for prediction %s: %w", p.ID, err)
		}
		p.CreatedAt = t
		predictions = append(predictions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate predictions: %w", err)
	}
	return predictions, nil
}

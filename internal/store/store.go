// Package store handles SQLite persistence of practice attempts.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/bolo/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout is fixed width so created_at text sorts chronologically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for attempt data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS attempts (
			id INTEGER PRIMARY KEY,
			ref TEXT NOT NULL UNIQUE,
			created_at TEXT NOT NULL,
			prompt TEXT NOT NULL,
			expected TEXT NOT NULL,
			threshold REAL NOT NULL,
			matched INTEGER NOT NULL,
			missed INTEGER NOT NULL,
			confidence_sum REAL NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS attempt_vowel_stats (
			attempt_id INTEGER NOT NULL,
			vowel TEXT NOT NULL,
			matched INTEGER NOT NULL,
			missed INTEGER NOT NULL,
			confidence_sum REAL NOT NULL,
			assessed INTEGER NOT NULL,
			deviation_sum_ms REAL NOT NULL,
			deviation_count INTEGER NOT NULL,
			PRIMARY KEY (attempt_id, vowel)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_created_at ON attempts(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_attempt_vowel_stats_vowel ON attempt_vowel_stats(vowel);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
	}
	return nil
}

// InsertAttempt stores an attempt and its per-vowel stats. An empty Ref is
// filled with a new UUID. It returns the row id and the ref used.
func (s *Store) InsertAttempt(ctx context.Context, attempt model.AttemptStats, vowels []model.VowelStats) (id int64, ref string, err error) {
	ref = attempt.Ref
	if ref == "" {
		ref = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, "", err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO attempts (ref, created_at, prompt, expected, threshold, matched, missed, confidence_sum, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ref,
		attempt.CreatedAt.UTC().Format(timeLayout),
		attempt.Prompt,
		strings.Join(attempt.Expected, " "),
		attempt.Threshold,
		attempt.Matched,
		attempt.Missed,
		attempt.ConfidenceSum,
		attempt.DurationMs,
	)
	if err != nil {
		return 0, "", err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, "", err
	}

	if len(vowels) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO attempt_vowel_stats (attempt_id, vowel, matched, missed, confidence_sum, assessed, deviation_sum_ms, deviation_count)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return 0, "", err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, vs := range vowels {
			if _, err = stmt.ExecContext(ctx, id, vs.Vowel, vs.Matched, vs.Missed, vs.ConfidenceSum, vs.Assessed, vs.DeviationSumMs, vs.DeviationCount); err != nil {
				return 0, "", err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, "", err
	}
	return id, ref, nil
}

// GetWeakVowels aggregates vowel stats over the most recent attempts.
func (s *Store) GetWeakVowels(ctx context.Context, window int) ([]model.VowelAggregate, error) {
	if window <= 0 {
		return nil, nil
	}
	query := `WITH recent_attempts AS (
		SELECT id FROM attempts
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	)
	SELECT vs.vowel, SUM(vs.matched), SUM(vs.missed), SUM(vs.confidence_sum),
		SUM(vs.assessed), SUM(vs.deviation_sum_ms), SUM(vs.deviation_count)
	FROM attempt_vowel_stats vs
	JOIN recent_attempts r ON r.id = vs.attempt_id
	GROUP BY vs.vowel`

	rows, err := s.db.QueryContext(ctx, query, window)
	if err != nil {
		return nil, err
	}
	return scanAggregates(rows)
}

// ListAttempts returns attempt aggregates filtered by stats config, oldest first.
func (s *Store) ListAttempts(ctx context.Context, cfg model.StatsConfig) ([]model.AttemptAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Since != nil {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, cfg.Since.UTC().Format(timeLayout))
	}
	query := fmt.Sprintf(`SELECT id, ref, created_at, matched, missed, confidence_sum, duration_ms
		FROM attempts
		WHERE %s
		ORDER BY created_at ASC, id ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var attempts []model.AttemptAggregate
	for rows.Next() {
		var agg model.AttemptAggregate
		var createdAt string
		if err := rows.Scan(&agg.AttemptID, &agg.Ref, &createdAt, &agg.Matched, &agg.Missed, &agg.ConfidenceSum, &agg.DurationMs); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, err
		}
		agg.CreatedAt = parsed
		attempts = append(attempts, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return attempts, nil
}

// ListVowelAggregatesForAttempts aggregates per-vowel stats across attempts.
func (s *Store) ListVowelAggregatesForAttempts(ctx context.Context, attemptIDs []int64) ([]model.VowelAggregate, error) {
	if len(attemptIDs) == 0 {
		return nil, nil
	}
	placeholders, args := inClause(attemptIDs)
	query := fmt.Sprintf(`SELECT vowel, SUM(matched), SUM(missed), SUM(confidence_sum),
		SUM(assessed), SUM(deviation_sum_ms), SUM(deviation_count)
		FROM attempt_vowel_stats
		WHERE attempt_id IN (%s)
		GROUP BY vowel`, placeholders)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanAggregates(rows)
}

// ListVowelStatsForAttempts returns per-attempt stats for selected vowels.
func (s *Store) ListVowelStatsForAttempts(ctx context.Context, attemptIDs []int64, vowels []string) (map[int64]map[string]model.VowelAggregate, error) {
	if len(attemptIDs) == 0 || len(vowels) == 0 {
		return map[int64]map[string]model.VowelAggregate{}, nil
	}
	idPlaceholders, args := inClause(attemptIDs)
	vowelPlaceholders := make([]string, len(vowels))
	for i, v := range vowels {
		vowelPlaceholders[i] = "?"
		args = append(args, v)
	}

	query := fmt.Sprintf(`SELECT attempt_id, vowel, matched, missed, confidence_sum, assessed, deviation_sum_ms, deviation_count
		FROM attempt_vowel_stats
		WHERE attempt_id IN (%s) AND vowel IN (%s)`, idPlaceholders, strings.Join(vowelPlaceholders, ","))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	result := map[int64]map[string]model.VowelAggregate{}
	for rows.Next() {
		var attemptID int64
		var agg model.VowelAggregate
		if err := rows.Scan(&attemptID, &agg.Vowel, &agg.Matched, &agg.Missed, &agg.ConfidenceSum, &agg.Assessed, &agg.DeviationSumMs, &agg.DeviationCount); err != nil {
			return nil, err
		}
		if _, ok := result[attemptID]; !ok {
			result[attemptID] = map[string]model.VowelAggregate{}
		}
		result[attemptID][agg.Vowel] = agg
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func inClause(ids []int64) (string, []any) {
	placeholders := make([]string, len(ids))
	args := make([]any, 0, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args = append(args, id)
	}
	return strings.Join(placeholders, ","), args
}

func scanAggregates(rows *sql.Rows) ([]model.VowelAggregate, error) {
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.VowelAggregate
	for rows.Next() {
		var agg model.VowelAggregate
		if err := rows.Scan(&agg.Vowel, &agg.Matched, &agg.Missed, &agg.ConfidenceSum, &agg.Assessed, &agg.DeviationSumMs, &agg.DeviationCount); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

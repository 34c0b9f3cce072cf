package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"bikewatch/models"
)

// PostgresWriter archives reported matches in PostgreSQL. Unlike the seen
// stores it accumulates across runs: the unique constraint on url makes
// re-archiving the same match a no-op.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS matches (
			id         SERIAL PRIMARY KEY,
			source     VARCHAR(50) NOT NULL,
			title      TEXT        NOT NULL,
			url        TEXT        UNIQUE NOT NULL,
			matched_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_matches_source     ON matches(source);
		CREATE INDEX IF NOT EXISTS idx_matches_matched_at ON matches(matched_at);
	`)
	return err
}

// Write batch-inserts matches, ignoring any url already archived.
func (pw *PostgresWriter) Write(matches []models.Match) error {
	if len(matches) == 0 {
		return nil
	}

	const batchSize = 50
	for i := 0; i < len(matches); i += batchSize {
		end := i + batchSize
		if end > len(matches) {
			end = len(matches)
		}
		if err := pw.insertBatch(matches[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(batch []models.Match) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*4)

	for idx, m := range batch {
		base := idx * 4
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d)", base+1, base+2, base+3, base+4))
		valueArgs = append(valueArgs,
			string(m.Source), m.Title, m.Identity, m.MatchedAt)
	}

	query := fmt.Sprintf(`
		INSERT INTO matches (source, title, url, matched_at)
		VALUES %s
		ON CONFLICT (url) DO NOTHING
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

// FetchRecent retrieves the most recently archived matches — used for the
// end-of-run report.
func (pw *PostgresWriter) FetchRecent(limit int) ([]models.Match, error) {
	rows, err := pw.db.Query(`
		SELECT source, title, url, matched_at
		FROM matches
		ORDER BY matched_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch recent: %w", err)
	}
	defer rows.Close()

	var matches []models.Match
	for rows.Next() {
		var m models.Match
		var source string
		if err := rows.Scan(&source, &m.Title, &m.Identity, &m.MatchedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		m.Source = models.Source(source)
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

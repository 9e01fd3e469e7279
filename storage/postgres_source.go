package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"rental-pipeline/frame"
	"rental-pipeline/models"
	"rental-pipeline/utils"
)

// PostgresSource reads raw listings from a PostgreSQL table. It only ever
// reads; cleaned output stays on disk.
type PostgresSource struct {
	db    *sqlx.DB
	table string
}

// NewPostgresSource opens a connection, waits for the server to answer and
// returns a ready-to-use PostgresSource.
func NewPostgresSource(ctx context.Context, dsn, table string, retry *utils.RetryConfig) (*PostgresSource, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if retry == nil {
		retry = &utils.RetryConfig{MaxAttempts: 1}
	}
	if err := retry.Do(ctx, "postgres ping", db.PingContext); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}
	return NewPostgresSourceFromDB(db, table), nil
}

// NewPostgresSourceFromDB wraps an existing connection pool.
func NewPostgresSourceFromDB(db *sqlx.DB, table string) *PostgresSource {
	return &PostgresSource{db: db, table: table}
}

// DefaultRetry is the ping policy used when connecting from the CLI.
func DefaultRetry(attempts int, logger *utils.Logger) *utils.RetryConfig {
	return &utils.RetryConfig{MaxAttempts: attempts, BaseDelay: 2 * time.Second, Logger: logger}
}

// ReadRaw selects the required listing columns as text and loads them the
// same way a CSV file would be loaded.
func (s *PostgresSource) ReadRaw(ctx context.Context) (dataframe.DataFrame, error) {
	cols := make([]string, len(models.RequiredColumns))
	for i, c := range models.RequiredColumns {
		q := pq.QuoteIdentifier(c)
		cols[i] = q + "::text AS " + q
	}
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), quoteTable(s.table))

	var rows []models.RawListing
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("postgres: select raw listings: %w", err)
	}

	records := make([][]string, 0, len(rows)+1)
	records = append(records, append([]string(nil), models.RequiredColumns...))
	for i := range rows {
		records = append(records, rows[i].Record())
	}
	return frame.FromRecords(records)
}

// Close closes the connection pool.
func (s *PostgresSource) Close() error {
	return s.db.Close()
}

// quoteTable quotes every part of a possibly schema-qualified table name.
func quoteTable(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = pq.QuoteIdentifier(p)
	}
	return strings.Join(parts, ".")
}

package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
)

// PostgresSource loads the first column of the first row returned by Query.
// The column may be json, jsonb or text holding JSON.
type PostgresSource struct {
	DSN     string
	Query   string
	Timeout time.Duration
}

// NewPostgresSource returns a source running query against dsn
func NewPostgresSource(dsn, query string) *PostgresSource {
	return &PostgresSource{DSN: dsn, Query: query, Timeout: 30 * time.Second}
}

func (s *PostgresSource) Name() string {
	return "postgres"
}

// Load connects, runs the query and parses the result. Every Load opens a
// short-lived pool so a reload sees fresh data.
func (s *PostgresSource) Load(ctx context.Context) (jsondoc.Value, error) {
	if s.Query == "" {
		return jsondoc.Value{}, errors.New("postgres source needs a query")
	}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	pool, err := newPool(ctx, s.DSN)
	if err != nil {
		return jsondoc.Value{}, err
	}
	defer pool.Close()

	var raw []byte
	if err := pool.QueryRow(ctx, s.Query).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return jsondoc.Value{}, errors.New("query returned no rows")
		}
		return jsondoc.Value{}, fmt.Errorf("failed to execute query: %w", err)
	}

	// SQL NULL
	if raw == nil {
		return jsondoc.Null(), nil
	}

	v, err := jsondoc.Parse(raw)
	if err != nil {
		return jsondoc.Value{}, fmt.Errorf("query result is not JSON: %w", err)
	}
	log.WithField("bytes", len(raw)).Debug("document loaded from postgres")
	return v, nil
}

func newPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %w", err)
	}

	poolConfig.MaxConns = 1
	poolConfig.MaxConnIdleTime = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

package connectors

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/diavgeia-watch/diavgeia/core/domain"
	"github.com/diavgeia-watch/diavgeia/core/domain/interfaces"
	"github.com/diavgeia-watch/diavgeia/core/infrastructure/logging"
)

// DefaultStatementTimeout bounds every statement run through Execute.
const DefaultStatementTimeout = 10 * time.Second

const findOrganizationSQL = `SELECT uid, label, similarity(lower(label), $1) AS sim
FROM organizations
WHERE lower(label) % $1
ORDER BY sim DESC
LIMIT 1`

// PostgresOptions tunes the pool and the per-statement limits.
type PostgresOptions struct {
	MaxConns         int32
	StatementTimeout time.Duration
	// Params are appended to the connection string (e.g. sslmode).
	Params map[string]string
}

// PostgresStore is the read-only PostgreSQL store backed by pgx/v5.
type PostgresStore struct {
	pool             *pgxpool.Pool
	statementTimeout time.Duration
}

var (
	_ interfaces.Store         = (*PostgresStore)(nil)
	_ interfaces.OrgFinder     = (*PostgresStore)(nil)
	_ interfaces.StatsProvider = (*PostgresStore)(nil)
)

// NewPostgresStore opens a pgx pool and verifies it with a ping.
func NewPostgresStore(ctx context.Context, connectionString string, opts PostgresOptions) (*PostgresStore, error) {
	connectionString, err := withParams(connectionString, opts.Params)
	if err != nil {
		return nil, err
	}

	log := logging.New("connector:postgres")
	log.Debugf("Opening PostgreSQL connection pool (pgx/v5)")

	config, err := pgxpool.ParseConfig(connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres connection string: %w", err)
	}
	if opts.MaxConns > 0 {
		config.MaxConns = opts.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres connection pool: %w", err)
	}

	log.Debugf("Testing connection with ping")
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres database: %w", err)
	}

	timeout := opts.StatementTimeout
	if timeout <= 0 {
		timeout = DefaultStatementTimeout
	}

	log.Debugf("PostgreSQL connection pool opened successfully")
	return &PostgresStore{pool: pool, statementTimeout: timeout}, nil
}

func withParams(connectionString string, params map[string]string) (string, error) {
	if len(params) == 0 {
		return connectionString, nil
	}
	if strings.HasPrefix(connectionString, "postgres://") || strings.HasPrefix(connectionString, "postgresql://") {
		parsedURL, err := url.Parse(connectionString)
		if err != nil {
			return "", fmt.Errorf("failed to parse postgres connection string: %w", err)
		}
		query := parsedURL.Query()
		for key, value := range params {
			query.Set(key, value)
		}
		parsedURL.RawQuery = query.Encode()
		return parsedURL.String(), nil
	}

	parts := []string{strings.TrimSpace(connectionString)}
	for key, value := range params {
		parts = append(parts, fmt.Sprintf("%s=%s", key, value))
	}
	return strings.Join(parts, " "), nil
}

// Execute runs one statement inside a read-only transaction with a local
// statement timeout. Column order follows the result description.
func (p *PostgresStore) Execute(ctx context.Context, statement string, args ...any) (*domain.ResultSet, error) {
	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("failed to begin read-only transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL statement_timeout = %d", p.statementTimeout.Milliseconds())); err != nil {
		return nil, fmt.Errorf("failed to set statement timeout: %w", err)
	}

	rows, err := tx.Query(ctx, statement, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	fieldDescriptions := rows.FieldDescriptions()
	columns := make([]string, len(fieldDescriptions))
	for i, fd := range fieldDescriptions {
		columns[i] = fd.Name
	}
	columns = UniqueColumnNames(columns)

	result := &domain.ResultSet{Columns: columns, Rows: []map[string]any{}}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to get row values: %w", err)
		}

		rowMap := make(map[string]any, len(columns))
		for i, col := range columns {
			if i < len(values) {
				rowMap[col] = NormalizeValue(values[i])
			}
		}
		result.Rows = append(result.Rows, rowMap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return result, nil
}

// FindOrganization returns the directory entry whose label is most similar
// to name by trigram similarity, or nil when none passes the pg_trgm cutoff.
func (p *PostgresStore) FindOrganization(ctx context.Context, name string) (*domain.OrgCandidate, error) {
	var c domain.OrgCandidate
	err := p.pool.QueryRow(ctx, findOrganizationSQL, strings.ToLower(name)).Scan(&c.UID, &c.Label, &c.Similarity)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to search organizations: %w", err)
	}
	return &c, nil
}

// Stats runs the overview counts concurrently.
func (p *PostgresStore) Stats(ctx context.Context) (*domain.Stats, error) {
	var (
		s        domain.Stats
		from, to *time.Time
	)

	g, gctx := errgroup.WithContext(ctx)
	count := func(target *int64, sql string) {
		g.Go(func() error {
			return p.pool.QueryRow(gctx, sql).Scan(target)
		})
	}
	count(&s.TotalDecisions, "SELECT COUNT(*) FROM decisions")
	count(&s.TotalExpenseItems, "SELECT COUNT(*) FROM expense_items")
	count(&s.UniqueOrganizations, "SELECT COUNT(DISTINCT org_id) FROM decisions")
	count(&s.UniqueContractors, "SELECT COUNT(DISTINCT contractor_afm) FROM expense_items WHERE contractor_afm IS NOT NULL")
	g.Go(func() error {
		return p.pool.QueryRow(gctx, "SELECT COALESCE(SUM(amount), 0)::float8 FROM expense_items").Scan(&s.TotalAmount)
	})
	g.Go(func() error {
		return p.pool.QueryRow(gctx, "SELECT MIN(issue_date)::timestamp, MAX(issue_date)::timestamp FROM decisions").Scan(&from, &to)
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to collect stats: %w", err)
	}

	if from != nil {
		s.DateRange.From = from.Format(time.DateOnly)
	}
	if to != nil {
		s.DateRange.To = to.Format(time.DateOnly)
	}
	return &s, nil
}

// Ping verifies the pool can reach the database.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close closes the connection pool.
func (p *PostgresStore) Close() error {
	if p.pool != nil {
		log := logging.New("connector:postgres")
		log.Debugf("Closing PostgreSQL connection pool")
		p.pool.Close()
		log.Debugf("PostgreSQL connection pool closed")
	}
	return nil
}

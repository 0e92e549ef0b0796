package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dryfruto/storefront/internal/config"
	"dryfruto/storefront/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

type txKey struct{}

// postgresStore keeps every collection as a table of JSONB documents.
type postgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore connects to PostgreSQL and creates the document tables.
func NewPostgresStore(ctx context.Context, cfg config.PostgresConfig, timeout time.Duration) (Store, error) {
	db, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	store := &postgresStore{db: db}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		db.Close()
		return nil, err
	}

	if err := store.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	log.Infof("✅ Connected to PostgreSQL %s:%d/%s", cfg.Host, cfg.Port, cfg.Name)
	return store, nil
}

// EnsureSchema creates the collection tables and slug uniqueness indexes.
func (s *postgresStore) EnsureSchema(ctx context.Context) error {
	collections := make([]domain.Collection, 0, len(domain.CatalogCollections)+1)
	collections = append(collections, domain.CatalogCollections...)
	collections = append(collections, domain.CollectionSiteSettings)

	for _, c := range collections {
		query := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		seq BIGSERIAL,
		id TEXT PRIMARY KEY,
		data JSONB NOT NULL
	)`, pgx.Identifier{c.String()}.Sanitize())
		if _, err := s.db.Exec(ctx, query); err != nil {
			return classifyPostgres("create table "+c.String(), err)
		}
	}

	for _, c := range []domain.Collection{domain.CollectionCategories, domain.CollectionProducts} {
		query := fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s ((data->>'slug'))`,
			pgx.Identifier{c.String() + "_slug_key"}.Sanitize(),
			pgx.Identifier{c.String()}.Sanitize())
		if _, err := s.db.Exec(ctx, query); err != nil {
			return classifyPostgres("create slug index on "+c.String(), err)
		}
	}
	return nil
}

func (s *postgresStore) q(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return s.db
}

func (s *postgresStore) Ping(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		return domain.StoreUnavailable("ping postgres", err)
	}
	return nil
}

func (s *postgresStore) Close(ctx context.Context) error {
	s.db.Close()
	return nil
}

func (s *postgresStore) SupportsTransactions() bool {
	return true
}

func (s *postgresStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return classifyPostgres("begin transaction", err)
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			log.Errorf("❌ Failed to roll back transaction: %v", rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return classifyPostgres("commit transaction", err)
	}
	return nil
}

func (s *postgresStore) Count(ctx context.Context, c domain.Collection) (int64, error) {
	if err := checkCollection(c); err != nil {
		return 0, err
	}
	query := fmt.Sprintf(`SELECT count(*) FROM %s`, pgx.Identifier{c.String()}.Sanitize())

	var n int64
	if err := s.q(ctx).QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, classifyPostgres("count "+c.String(), err)
	}
	return n, nil
}

func (s *postgresStore) InsertMany(ctx context.Context, c domain.Collection, docs []any) (int, error) {
	if err := checkCollection(c); err != nil {
		return 0, err
	}
	ids, payloads, err := encodeDocuments(docs)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf(`INSERT INTO %s (id, data) VALUES ($1, $2::jsonb)`, pgx.Identifier{c.String()}.Sanitize())
	batch := &pgx.Batch{}
	for i := range ids {
		batch.Queue(query, ids[i], string(payloads[i]))
	}

	results := s.q(ctx).SendBatch(ctx, batch)
	written := 0
	for range ids {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return written, classifyPostgres("insert into "+c.String(), err)
		}
		written++
	}
	if err := results.Close(); err != nil {
		return written, classifyPostgres("insert into "+c.String(), err)
	}
	return written, nil
}

func (s *postgresStore) FindAll(ctx context.Context, c domain.Collection, out any) error {
	if err := checkCollection(c); err != nil {
		return err
	}
	query := fmt.Sprintf(`SELECT data FROM %s ORDER BY COALESCE((data->>'order')::int, 0), seq`,
		pgx.Identifier{c.String()}.Sanitize())

	rows, err := s.q(ctx).Query(ctx, query)
	if err != nil {
		return classifyPostgres("find "+c.String(), err)
	}
	payloads, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) ([]byte, error) {
		var data []byte
		err := row.Scan(&data)
		return data, err
	})
	if err != nil {
		return classifyPostgres("read "+c.String(), err)
	}

	return decodeDocuments(payloads, out)
}

func (s *postgresStore) GetSettings(ctx context.Context) (domain.SiteSettings, bool, error) {
	var data []byte
	err := s.q(ctx).QueryRow(ctx, `SELECT data FROM site_settings WHERE id = $1`, domain.SiteSettingsID).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, classifyPostgres("get site settings", err)
	}

	settings, err := decodeSettings(data)
	if err != nil {
		return nil, false, err
	}
	return settings, true, nil
}

// MergeSettings relies on the JSONB concatenation operator, which replaces
// only the top-level keys present in the right operand, inside a single upsert.
func (s *postgresStore) MergeSettings(ctx context.Context, defaults, partial domain.SiteSettings) (domain.SiteSettings, error) {
	defaultsJSON, err := settingsJSON(defaults)
	if err != nil {
		return nil, err
	}
	partialJSON, err := settingsJSON(partial)
	if err != nil {
		return nil, err
	}

	query := `
	INSERT INTO site_settings (id, data)
	VALUES ($1, $2::jsonb || $3::jsonb)
	ON CONFLICT (id)
	DO UPDATE SET data = site_settings.data || $3::jsonb
	RETURNING data`

	var data []byte
	if err := s.q(ctx).QueryRow(ctx, query, domain.SiteSettingsID, defaultsJSON, partialJSON).Scan(&data); err != nil {
		return nil, classifyPostgres("merge site settings", err)
	}
	return decodeSettings(data)
}

// classifyPostgres separates server-side errors from connectivity failures.
func classifyPostgres(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	return domain.StoreUnavailable(op, err)
}

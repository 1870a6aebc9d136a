package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/amplify-platform/ampauth/internal/core/domain"
	"github.com/amplify-platform/ampauth/internal/storage"
)

// Store implements storage.TokenStore on PostgreSQL.
type Store struct {
	db *sql.DB
}

var _ storage.TokenStore = (*Store)(nil)

// New wraps an open database handle. The caller owns the handle's
// lifecycle and pool settings.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open dials PostgreSQL through the pgx stdlib driver and verifies the
// connection.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, domain.ErrStoreUnavailable.WithCause(err)
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, domain.ErrStoreUnavailable.WithCause(err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying pool.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Insert(ctx context.Context, rec *domain.TokenRecord) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO tokens (token_id, token_hash, name, created_at, expires_at, revoked_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			rec.ID, rec.SecretHash, rec.Name, rec.CreatedAt, rec.ExpiresAt, rec.RevokedAt)
		if err != nil {
			return fmt.Errorf("insert token row: %w", err)
		}
		for _, scope := range rec.Scopes {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO token_scopes (token_id, scope) VALUES ($1, $2)`,
				rec.ID, scope); err != nil {
				return fmt.Errorf("insert scope %q: %w", scope, err)
			}
		}
		return nil
	})
}

func (s *Store) FindByHash(ctx context.Context, digest string) (*domain.TokenRecord, error) {
	return s.findOne(ctx,
		`SELECT token_id, token_hash, name, created_at, expires_at, revoked_at
		   FROM tokens WHERE token_hash = $1`, digest)
}

func (s *Store) FindByID(ctx context.Context, id string) (*domain.TokenRecord, error) {
	return s.findOne(ctx,
		`SELECT token_id, token_hash, name, created_at, expires_at, revoked_at
		   FROM tokens WHERE token_id = $1`, id)
}

func (s *Store) Revoke(ctx context.Context, id string, at time.Time) (*domain.TokenRecord, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE tokens SET revoked_at = $2 WHERE token_id = $1 AND revoked_at IS NULL`,
		id, at)
	if err != nil {
		return nil, domain.ErrStoreUnavailable.WithCause(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, domain.ErrStoreUnavailable.WithCause(err)
	}
	if n == 0 {
		// Either the token is unknown or it was revoked earlier.
		rec, err := s.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if rec.RevokedAt != nil {
			return nil, domain.ErrAlreadyRevoked
		}
		return nil, domain.ErrInternal.WithDetails("revoke raced for " + id)
	}
	return s.FindByID(ctx, id)
}

func (s *Store) Extend(ctx context.Context, id string, ttlDays int, now time.Time) (*domain.TokenRecord, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE tokens
		    SET expires_at = GREATEST(COALESCE(expires_at, $3::timestamptz), $3::timestamptz) + make_interval(days => $2)
		  WHERE token_id = $1 AND revoked_at IS NULL`,
		id, ttlDays, now)
	if err != nil {
		return nil, domain.ErrStoreUnavailable.WithCause(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, domain.ErrStoreUnavailable.WithCause(err)
	}
	if n == 0 {
		rec, err := s.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if rec.RevokedAt != nil {
			return nil, domain.ErrAlreadyRevoked
		}
		return nil, domain.ErrInternal.WithDetails("extend raced for " + id)
	}
	return s.FindByID(ctx, id)
}

func (s *Store) List(ctx context.Context, includeRevoked bool) ([]*domain.TokenRecord, error) {
	q := `SELECT token_id, token_hash, name, created_at, expires_at, revoked_at
	        FROM tokens`
	if !includeRevoked {
		q += ` WHERE revoked_at IS NULL`
	}
	q += ` ORDER BY created_at DESC`

	return s.findAll(ctx, q)
}

func (s *Store) ListActive(ctx context.Context, now time.Time) ([]*domain.TokenRecord, error) {
	return s.findAll(ctx,
		`SELECT token_id, token_hash, name, created_at, expires_at, revoked_at
		   FROM tokens
		  WHERE revoked_at IS NULL AND (expires_at IS NULL OR expires_at > $1)
		  ORDER BY created_at DESC`, now)
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return domain.ErrStoreUnavailable.WithCause(err)
	}
	return nil
}

func (s *Store) findOne(ctx context.Context, query string, arg any) (*domain.TokenRecord, error) {
	rec := &domain.TokenRecord{}
	var expiresAt, revokedAt sql.NullTime
	err := s.db.QueryRowContext(ctx, query, arg).
		Scan(&rec.ID, &rec.SecretHash, &rec.Name, &rec.CreatedAt, &expiresAt, &revokedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, domain.ErrTokenNotFound
	case err != nil:
		return nil, domain.ErrStoreUnavailable.WithCause(err)
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		rec.ExpiresAt = &t
	}
	if revokedAt.Valid {
		t := revokedAt.Time
		rec.RevokedAt = &t
	}
	if !domain.ValidTokenID(rec.ID) || rec.SecretHash == "" {
		return nil, domain.ErrCorruptRecord.WithDetails("token " + rec.ID)
	}

	rec.Scopes, err = s.scopesFor(ctx, rec.ID)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Store) findAll(ctx context.Context, query string, args ...any) ([]*domain.TokenRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.ErrStoreUnavailable.WithCause(err)
	}
	defer rows.Close()

	var recs []*domain.TokenRecord
	ids := make([]string, 0)
	for rows.Next() {
		rec := &domain.TokenRecord{}
		var expiresAt, revokedAt sql.NullTime
		if err := rows.Scan(&rec.ID, &rec.SecretHash, &rec.Name, &rec.CreatedAt, &expiresAt, &revokedAt); err != nil {
			return nil, domain.ErrStoreUnavailable.WithCause(err)
		}
		if expiresAt.Valid {
			t := expiresAt.Time
			rec.ExpiresAt = &t
		}
		if revokedAt.Valid {
			t := revokedAt.Time
			rec.RevokedAt = &t
		}
		recs = append(recs, rec)
		ids = append(ids, rec.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrStoreUnavailable.WithCause(err)
	}
	if len(recs) == 0 {
		return recs, nil
	}

	scopes, err := s.scopesForAll(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		rec.Scopes = scopes[rec.ID]
	}
	return recs, nil
}

func (s *Store) scopesFor(ctx context.Context, id string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT scope FROM token_scopes WHERE token_id = $1 ORDER BY scope`, id)
	if err != nil {
		return nil, domain.ErrStoreUnavailable.WithCause(err)
	}
	defer rows.Close()

	var scopes []string
	for rows.Next() {
		var scope string
		if err := rows.Scan(&scope); err != nil {
			return nil, domain.ErrStoreUnavailable.WithCause(err)
		}
		scopes = append(scopes, scope)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrStoreUnavailable.WithCause(err)
	}
	return scopes, nil
}

func (s *Store) scopesForAll(ctx context.Context, ids []string) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT token_id, scope FROM token_scopes WHERE token_id = ANY($1) ORDER BY scope`, ids)
	if err != nil {
		return nil, domain.ErrStoreUnavailable.WithCause(err)
	}
	defer rows.Close()

	out := make(map[string][]string, len(ids))
	for rows.Next() {
		var id, scope string
		if err := rows.Scan(&id, &scope); err != nil {
			return nil, domain.ErrStoreUnavailable.WithCause(err)
		}
		out[id] = append(out[id], scope)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrStoreUnavailable.WithCause(err)
	}
	return out, nil
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.ErrStoreUnavailable.WithCause(err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			err = errors.Join(err, rbErr)
		}
		return domain.ErrStoreUnavailable.WithCause(err)
	}
	if err := tx.Commit(); err != nil {
		return domain.ErrStoreUnavailable.WithCause(err)
	}
	return nil
}

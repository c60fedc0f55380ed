package tokenstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createTokensTable = `
CREATE TABLE IF NOT EXISTS portal_tokens (
	domain          TEXT PRIMARY KEY,
	access_token    TEXT NOT NULL DEFAULT '',
	refresh_token   TEXT NOT NULL DEFAULT '',
	client_endpoint TEXT NOT NULL DEFAULT '',
	expires         TEXT NOT NULL DEFAULT '',
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Empty values never overwrite stored ones.
const upsertTokens = `
INSERT INTO portal_tokens (domain, access_token, refresh_token, client_endpoint, expires)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (domain) DO UPDATE SET
	access_token    = COALESCE(NULLIF(EXCLUDED.access_token, ''), portal_tokens.access_token),
	refresh_token   = COALESCE(NULLIF(EXCLUDED.refresh_token, ''), portal_tokens.refresh_token),
	client_endpoint = COALESCE(NULLIF(EXCLUDED.client_endpoint, ''), portal_tokens.client_endpoint),
	expires         = COALESCE(NULLIF(EXCLUDED.expires, ''), portal_tokens.expires),
	updated_at      = now()`

const selectTokens = `
SELECT access_token, refresh_token, client_endpoint, expires
FROM portal_tokens WHERE domain = $1`

// PGStore keeps tokens in the portal_tokens table.
type PGStore struct {
	Pool *pgxpool.Pool
}

// NewPGStore connects to connString and creates the table if needed.
func NewPGStore(ctx context.Context, connString string) (*PGStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	s := &PGStore{Pool: pool}
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PGStore) Migrate(ctx context.Context) error {
	if _, err := s.Pool.Exec(ctx, createTokensTable); err != nil {
		return fmt.Errorf("create portal_tokens: %w", err)
	}
	return nil
}

func (s *PGStore) Save(ctx context.Context, domain string, t Tokens) error {
	if err := checkDomain(domain); err != nil {
		return err
	}
	_, err := s.Pool.Exec(ctx, upsertTokens, domain, t.AccessToken, t.RefreshToken, t.ClientEndpoint, t.Expires)
	if err != nil {
		return fmt.Errorf("upsert tokens: %w", err)
	}
	return nil
}

func (s *PGStore) Load(ctx context.Context, domain string) (Tokens, error) {
	var t Tokens
	err := s.Pool.QueryRow(ctx, selectTokens, domain).
		Scan(&t.AccessToken, &t.RefreshToken, &t.ClientEndpoint, &t.Expires)
	if errors.Is(err, pgx.ErrNoRows) {
		return Tokens{}, ErrNotFound
	}
	if err != nil {
		return Tokens{}, fmt.Errorf("select tokens: %w", err)
	}
	return t, nil
}

func (s *PGStore) Close() {
	s.Pool.Close()
}

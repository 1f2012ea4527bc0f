package store

import (
	"context"
	"fmt"
	"time"

	"github.com/erazemk/popis/internal/db"
)

// RevokeToken blocks a token id until expiresAt. Revocations of tokens
// that have since expired are pruned on the way.
func (s *Store) RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error {
	now := time.Now().UTC()
	return s.db.WithTx(ctx, func(tx *db.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO revoked_tokens (jti, expires_at) VALUES (?, ?) ON CONFLICT (jti) DO NOTHING`,
			jti, expiresAt.UTC(),
		); err != nil {
			return fmt.Errorf("revoking token %s: %w", jti, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM revoked_tokens WHERE expires_at < ?`, now); err != nil {
			return fmt.Errorf("pruning revoked tokens: %w", err)
		}
		return nil
	})
}

// IsTokenRevoked reports whether jti is on the revocation list.
func (s *Store) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	var revoked bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = ?)`, jti,
	).Scan(&revoked); err != nil {
		return false, fmt.Errorf("checking revocation of %s: %w", jti, err)
	}
	return revoked, nil
}

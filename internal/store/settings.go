package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/erazemk/popis/internal/db"
)

const jwtSecretKey = "jwt_secret"

// GetJWTSecret returns the key used to sign session tokens. A random key is
// stored the first time; after that the stored one always wins.
func (s *Store) GetJWTSecret(ctx context.Context) (string, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("reading random key: %w", err)
	}
	return s.settingOrDefault(ctx, jwtSecretKey, hex.EncodeToString(key))
}

// settingOrDefault returns the value stored under name, saving fallback
// first if nothing is stored yet.
func (s *Store) settingOrDefault(ctx context.Context, name, fallback string) (string, error) {
	var value string
	err := s.db.WithTx(ctx, func(tx *db.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT (key) DO NOTHING`,
			name, fallback,
		); err != nil {
			return fmt.Errorf("saving setting %s: %w", name, err)
		}
		if err := tx.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, name).Scan(&value); err != nil {
			return fmt.Errorf("reading setting %s: %w", name, err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return value, nil
}

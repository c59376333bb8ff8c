package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// UpsertApiKey inserts or replaces the credential for a (user, provider)
// pair. A re-saved key resets to PENDING until revalidated.
func (s *Store) UpsertApiKey(k *ApiKey) error {
	now := time.Now().UTC()
	if k.Status == "" {
		k.Status = KeyStatusPending
	}
	_, err := s.db.Exec(`
		INSERT INTO api_keys (user_id, provider, encrypted_key, last4, status, error_text, last_checked_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, provider) DO UPDATE SET
			encrypted_key = excluded.encrypted_key,
			last4 = excluded.last4,
			status = excluded.status,
			error_text = excluded.error_text,
			last_checked_at = excluded.last_checked_at,
			updated_at = excluded.updated_at`,
		k.UserID, k.Provider, k.EncryptedKey, k.Last4, k.Status,
		nullable(k.ErrorText), k.LastCheckedAt, now, now)
	if err != nil {
		return fmt.Errorf("upsert api key: %w", err)
	}
	return nil
}

// GetApiKey loads the credential row for a (user, provider) pair.
func (s *Store) GetApiKey(userID, provider string) (*ApiKey, error) {
	row := s.db.QueryRow(`
		SELECT user_id, provider, encrypted_key, last4, status, COALESCE(error_text, ''),
		       last_checked_at, created_at, updated_at
		FROM api_keys WHERE user_id = ? AND provider = ?`, userID, provider)
	var k ApiKey
	err := row.Scan(&k.UserID, &k.Provider, &k.EncryptedKey, &k.Last4, &k.Status,
		&k.ErrorText, &k.LastCheckedAt, &k.CreatedAt, &k.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan api key: %w", err)
	}
	return &k, nil
}

// SetApiKeyStatus records a validation outcome. The upstream error message is
// stored verbatim for user-facing diagnostics.
func (s *Store) SetApiKeyStatus(userID, provider, status, errorText string) error {
	now := time.Now().UTC()
	res, err := s.db.Exec(`
		UPDATE api_keys SET status = ?, error_text = ?, last_checked_at = ?, updated_at = ?
		WHERE user_id = ? AND provider = ?`,
		status, nullable(errorText), now, now, userID, provider)
	if err != nil {
		return fmt.Errorf("set api key status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListApiKeys returns all credential rows for a user.
func (s *Store) ListApiKeys(userID string) ([]*ApiKey, error) {
	rows, err := s.db.Query(`
		SELECT user_id, provider, encrypted_key, last4, status, COALESCE(error_text, ''),
		       last_checked_at, created_at, updated_at
		FROM api_keys WHERE user_id = ? ORDER BY provider`, userID)
	if err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}
	defer rows.Close()
	var out []*ApiKey
	for rows.Next() {
		var k ApiKey
		if err := rows.Scan(&k.UserID, &k.Provider, &k.EncryptedKey, &k.Last4, &k.Status,
			&k.ErrorText, &k.LastCheckedAt, &k.CreatedAt, &k.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan api key: %w", err)
		}
		out = append(out, &k)
	}
	return out, rows.Err()
}

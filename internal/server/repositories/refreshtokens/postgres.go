package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"taskboard/internal/dbx"
)

// PostgresRepository implements Repository over dbx.DBTX (satisfied by
// *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, userID, tokenHash, deviceInfo, ip string, validity time.Duration) error {
	query := `
		INSERT INTO refresh_tokens (user_id, token_hash, device_info, ip_address, expires_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5)
	`
	if _, err := r.db.ExecContext(ctx, query, userID, tokenHash, deviceInfo, ip, time.Now().Add(validity)); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Consume claims the record with a single conditional update, never a
// read-then-write pair. Of two concurrent calls on the same hash, exactly
// one gets the row back; the other goes down the replay path.
func (r *PostgresRepository) Consume(ctx context.Context, tokenHash string) (*ConsumeResult, error) {
	claim := `
		UPDATE refresh_tokens
		SET is_revoked = TRUE
		WHERE token_hash = $1 AND is_revoked = FALSE
		RETURNING user_id, expires_at
	`

	var (
		userID    string
		expiresAt time.Time
	)
	err := r.db.QueryRowContext(ctx, claim, tokenHash).Scan(&userID, &expiresAt)
	switch {
	case err == nil:
		if expiresAt.Before(time.Now()) {
			return &ConsumeResult{Status: StatusExpired, UserID: userID}, nil
		}
		return &ConsumeResult{Status: StatusOK, UserID: userID}, nil
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("db error: %w", err)
	}

	// No live row claimed: the hash is either unknown or already consumed.
	lookup := `
		SELECT user_id, expires_at
		FROM refresh_tokens
		WHERE token_hash = $1
	`
	err = r.db.QueryRowContext(ctx, lookup, tokenHash).Scan(&userID, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return &ConsumeResult{Status: StatusNotFound}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	// A record revoked by its own expiry is not replay evidence; repeated
	// presentation stays a plain failure with no further state change.
	if expiresAt.Before(time.Now()) {
		return &ConsumeResult{Status: StatusExpired, UserID: userID}, nil
	}

	// Replay of a consumed, still-unexpired token: treat as theft and
	// terminate the whole session family of the owner.
	revoked, err := r.RevokeAllForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ConsumeResult{Status: StatusReused, UserID: userID, RevokedCount: revoked}, nil
}

func (r *PostgresRepository) Revoke(ctx context.Context, tokenHash string) (bool, error) {
	query := `
		UPDATE refresh_tokens
		SET is_revoked = TRUE
		WHERE token_hash = $1 AND is_revoked = FALSE
	`
	res, err := r.db.ExecContext(ctx, query, tokenHash)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func (r *PostgresRepository) RevokeAllForUser(ctx context.Context, userID string) (int64, error) {
	query := `
		UPDATE refresh_tokens
		SET is_revoked = TRUE
		WHERE user_id = $1 AND is_revoked = FALSE
	`
	res, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"clubledger/database"
	"clubledger/domain/entities"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// CredentialRepository implements the CredentialRepository interface
type CredentialRepository struct {
	q queryable
}

// NewCredentialRepository creates a new credential repository
func NewCredentialRepository(db *database.DB) *CredentialRepository {
	return &CredentialRepository{q: db.Pool}
}

// Create stores a new credential. The administrator has no member id.
func (r *CredentialRepository) Create(ctx context.Context, credential *entities.Credential) error {
	query := `
		INSERT INTO credentials (email, member_id, password_hash, created_at)
		VALUES ($1, NULLIF($2, ''), $3, $4)
	`
	_, err := r.q.Exec(ctx, query,
		credential.Email,
		credential.MemberID,
		credential.PasswordHash,
		credential.CreatedAt.UTC(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return entities.ErrEmailRegistered
		}
		return fmt.Errorf("failed to create credential: %w", err)
	}
	return nil
}

// GetByEmail retrieves a credential, or nil when none exists
func (r *CredentialRepository) GetByEmail(ctx context.Context, email string) (*entities.Credential, error) {
	query := `
		SELECT email, COALESCE(member_id, ''), password_hash, created_at
		FROM credentials
		WHERE email = $1
	`
	var credential entities.Credential
	err := r.q.QueryRow(ctx, query, email).Scan(
		&credential.Email,
		&credential.MemberID,
		&credential.PasswordHash,
		&credential.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}
	return &credential, nil
}

// DeleteByMemberID removes the credential belonging to a member
func (r *CredentialRepository) DeleteByMemberID(ctx context.Context, memberID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM credentials WHERE member_id = $1`, memberID); err != nil {
		return fmt.Errorf("failed to delete credential for member %s: %w", memberID, err)
	}
	return nil
}

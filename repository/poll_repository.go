package repository

import (
	"context"
	"fmt"

	"clubledger/database"
)

// PollRepository persists poll votes
type PollRepository struct {
	q queryable
}

// NewPollRepository creates a new poll repository
func NewPollRepository(db *database.DB) *PollRepository {
	return &PollRepository{q: db.Pool}
}

// newPollRepositoryWithTx creates a new poll repository with a transaction
func newPollRepositoryWithTx(tx queryable) *PollRepository {
	return &PollRepository{q: tx}
}

// CastVote stores a member's vote, replacing any earlier one
func (r *PollRepository) CastVote(ctx context.Context, memberID, option string) error {
	query := `
		INSERT INTO poll_votes (member_id, option)
		VALUES ($1, $2)
		ON CONFLICT (member_id) DO UPDATE SET option = EXCLUDED.option
	`
	if _, err := r.q.Exec(ctx, query, memberID, option); err != nil {
		return fmt.Errorf("failed to cast vote for member %s: %w", memberID, err)
	}
	return nil
}

// ClearVotes removes every vote
func (r *PollRepository) ClearVotes(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM poll_votes`); err != nil {
		return fmt.Errorf("failed to clear votes: %w", err)
	}
	return nil
}

// GetVotes returns the current votes keyed by member id
func (r *PollRepository) GetVotes(ctx context.Context) (map[string]string, error) {
	rows, err := r.q.Query(ctx, `SELECT member_id, option FROM poll_votes`)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	votes := make(map[string]string)
	for rows.Next() {
		var memberID, option string
		if err := rows.Scan(&memberID, &option); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes[memberID] = option
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read votes: %w", err)
	}
	return votes, nil
}

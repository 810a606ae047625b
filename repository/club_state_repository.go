package repository

import (
	"context"
	"fmt"
	"time"

	"clubledger/database"
)

// ClubSettings is the singleton row holding pool, poll and prize settings
type ClubSettings struct {
	PoolBalance     int64
	NextDrawAt      time.Time
	PollOptions     []string
	NextPollResetAt time.Time
	FirstPlacePrize int64
}

// ClubStateRepository persists the club_state singleton row
type ClubStateRepository struct {
	q queryable
}

// NewClubStateRepository creates a new club state repository
func NewClubStateRepository(db *database.DB) *ClubStateRepository {
	return &ClubStateRepository{q: db.Pool}
}

// newClubStateRepositoryWithTx creates a new club state repository with a transaction
func newClubStateRepositoryWithTx(tx queryable) *ClubStateRepository {
	return &ClubStateRepository{q: tx}
}

// Get retrieves the settings row
func (r *ClubStateRepository) Get(ctx context.Context) (*ClubSettings, error) {
	query := `
		SELECT pool_balance, next_draw_at, poll_options, next_poll_reset_at, first_place_prize
		FROM club_state
		WHERE id = 1
	`
	var settings ClubSettings
	var nextDraw, nextReset *time.Time
	err := r.q.QueryRow(ctx, query).Scan(
		&settings.PoolBalance,
		&nextDraw,
		&settings.PollOptions,
		&nextReset,
		&settings.FirstPlacePrize,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get club state: %w", err)
	}
	settings.NextDrawAt = fromNullTime(nextDraw)
	settings.NextPollResetAt = fromNullTime(nextReset)
	return &settings, nil
}

// UpdatePool stores the pool value and the next draw time
func (r *ClubStateRepository) UpdatePool(ctx context.Context, balance int64, nextDrawAt time.Time) error {
	query := `UPDATE club_state SET pool_balance = $1, next_draw_at = $2 WHERE id = 1`
	if _, err := r.q.Exec(ctx, query, balance, nullTime(nextDrawAt)); err != nil {
		return fmt.Errorf("failed to update pool: %w", err)
	}
	return nil
}

// UpdatePoolBalance stores the pool value only
func (r *ClubStateRepository) UpdatePoolBalance(ctx context.Context, balance int64) error {
	if _, err := r.q.Exec(ctx, `UPDATE club_state SET pool_balance = $1 WHERE id = 1`, balance); err != nil {
		return fmt.Errorf("failed to update pool balance: %w", err)
	}
	return nil
}

// UpdatePoll stores the poll options and the next reset time
func (r *ClubStateRepository) UpdatePoll(ctx context.Context, options []string, nextResetAt time.Time) error {
	if options == nil {
		options = []string{}
	}
	query := `UPDATE club_state SET poll_options = $1, next_poll_reset_at = $2 WHERE id = 1`
	if _, err := r.q.Exec(ctx, query, options, nullTime(nextResetAt)); err != nil {
		return fmt.Errorf("failed to update poll: %w", err)
	}
	return nil
}

// UpdateFirstPlacePrize stores the prize amount
func (r *ClubStateRepository) UpdateFirstPlacePrize(ctx context.Context, amount int64) error {
	if _, err := r.q.Exec(ctx, `UPDATE club_state SET first_place_prize = $1 WHERE id = 1`, amount); err != nil {
		return fmt.Errorf("failed to update first place prize: %w", err)
	}
	return nil
}

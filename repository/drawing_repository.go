package repository

import (
	"context"
	"fmt"

	"clubledger/database"
	"clubledger/domain/entities"

	"github.com/jackc/pgx/v5"
)

// DrawingRepository persists tickets and drawing results
type DrawingRepository struct {
	q queryable
}

// NewDrawingRepository creates a new drawing repository
func NewDrawingRepository(db *database.DB) *DrawingRepository {
	return &DrawingRepository{q: db.Pool}
}

// newDrawingRepositoryWithTx creates a new drawing repository with a transaction
func newDrawingRepositoryWithTx(tx queryable) *DrawingRepository {
	return &DrawingRepository{q: tx}
}

// AddTicket stores a ticket in the current round
func (r *DrawingRepository) AddTicket(ctx context.Context, ticket entities.DrawingTicket) error {
	query := `
		INSERT INTO drawing_tickets (member_id, code, purchased_at)
		VALUES ($1, $2, $3)
	`
	if _, err := r.q.Exec(ctx, query, ticket.MemberID, ticket.Code, ticket.PurchasedAt.UTC()); err != nil {
		return fmt.Errorf("failed to add ticket for member %s: %w", ticket.MemberID, err)
	}
	return nil
}

// ClearTickets removes every ticket in the current round
func (r *DrawingRepository) ClearTickets(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM drawing_tickets`); err != nil {
		return fmt.Errorf("failed to clear tickets: %w", err)
	}
	return nil
}

// GetTickets returns the current round's tickets in purchase order
func (r *DrawingRepository) GetTickets(ctx context.Context) ([]entities.DrawingTicket, error) {
	rows, err := r.q.Query(ctx, `
		SELECT member_id, code, purchased_at
		FROM drawing_tickets
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tickets: %w", err)
	}
	tickets, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.DrawingTicket, error) {
		var t entities.DrawingTicket
		err := row.Scan(&t.MemberID, &t.Code, &t.PurchasedAt)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan tickets: %w", err)
	}
	return tickets, nil
}

// RecordResult stores a completed drawing
func (r *DrawingRepository) RecordResult(ctx context.Context, result entities.DrawResult) error {
	query := `
		INSERT INTO drawing_results
		(winning_code, winner_id, payout, pool_before, pool_after, ticket_count, rolled_over, drawn_at, next_draw_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	var winner *string
	if result.HasWinner() {
		winner = &result.WinnerID
	}
	_, err := r.q.Exec(ctx, query,
		result.WinningCode,
		winner,
		result.Payout,
		result.PoolBefore,
		result.PoolAfter,
		result.TicketCount,
		result.RolledOver,
		result.DrawnAt.UTC(),
		result.NextDrawAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record drawing result: %w", err)
	}
	return nil
}

// GetLatestResult returns the most recent drawing, or nil before the first one
func (r *DrawingRepository) GetLatestResult(ctx context.Context) (*entities.DrawResult, error) {
	query := `
		SELECT winning_code, winner_id, payout, pool_before, pool_after, ticket_count, rolled_over, drawn_at, next_draw_at
		FROM drawing_results
		ORDER BY id DESC
		LIMIT 1
	`
	var result entities.DrawResult
	var winner *string
	err := r.q.QueryRow(ctx, query).Scan(
		&result.WinningCode,
		&winner,
		&result.Payout,
		&result.PoolBefore,
		&result.PoolAfter,
		&result.TicketCount,
		&result.RolledOver,
		&result.DrawnAt,
		&result.NextDrawAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest drawing result: %w", err)
	}
	if winner != nil {
		result.WinnerID = *winner
	}
	return &result, nil
}

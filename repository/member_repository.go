package repository

import (
	"context"
	"fmt"
	"time"

	"clubledger/database"
	"clubledger/domain/entities"

	"github.com/jackc/pgx/v5"
)

// MemberRepository persists members and their ledger history
type MemberRepository struct {
	q queryable
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *database.DB) *MemberRepository {
	return &MemberRepository{q: db.Pool}
}

// newMemberRepositoryWithTx creates a new member repository with a transaction
func newMemberRepositoryWithTx(tx queryable) *MemberRepository {
	return &MemberRepository{q: tx}
}

// Create inserts a new member at the end of the signup order
func (r *MemberRepository) Create(ctx context.Context, id, name, email string, balance int64, createdAt time.Time) error {
	query := `
		INSERT INTO members (id, name, email, balance, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.q.Exec(ctx, query, id, name, email, balance, createdAt.UTC()); err != nil {
		return fmt.Errorf("failed to create member %s: %w", id, err)
	}
	return nil
}

// Delete removes a member; history, tickets and votes cascade
func (r *MemberRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM members WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete member %s: %w", id, err)
	}
	return nil
}

// RecordTransaction appends a ledger entry and stores the resulting balance
func (r *MemberRepository) RecordTransaction(ctx context.Context, memberID string, balanceAfter int64, tx entities.Transaction) error {
	_, err := r.q.Exec(ctx, `UPDATE members SET balance = $2 WHERE id = $1`, memberID, balanceAfter)
	if err != nil {
		return fmt.Errorf("failed to update balance for member %s: %w", memberID, err)
	}

	query := `
		INSERT INTO member_transactions (member_id, amount, applied, reason, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = r.q.Exec(ctx, query, memberID, tx.Amount, tx.Applied, tx.Reason, tx.Timestamp.UTC())
	if err != nil {
		return fmt.Errorf("failed to record transaction for member %s: %w", memberID, err)
	}
	return nil
}

// UnlockAchievement stores an earned badge. Unlocking twice is a no-op.
func (r *MemberRepository) UnlockAchievement(ctx context.Context, memberID string, id entities.AchievementID, unlockedAt time.Time) error {
	query := `
		INSERT INTO member_achievements (member_id, achievement_id, unlocked_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (member_id, achievement_id) DO NOTHING
	`
	if _, err := r.q.Exec(ctx, query, memberID, string(id), unlockedAt.UTC()); err != nil {
		return fmt.Errorf("failed to unlock achievement %s for member %s: %w", id, memberID, err)
	}
	return nil
}

// RecordGamePlay stores the start of a game cooldown
func (r *MemberRepository) RecordGamePlay(ctx context.Context, memberID string, gameID entities.GameID, playedAt time.Time) error {
	query := `
		INSERT INTO member_game_plays (member_id, game_id, last_played_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (member_id, game_id) DO UPDATE SET last_played_at = EXCLUDED.last_played_at
	`
	if _, err := r.q.Exec(ctx, query, memberID, string(gameID), playedAt.UTC()); err != nil {
		return fmt.Errorf("failed to record game play for member %s: %w", memberID, err)
	}
	return nil
}

// GetAll loads every member with full history, in signup order
func (r *MemberRepository) GetAll(ctx context.Context) ([]*entities.Member, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, name, email, balance, created_at
		FROM members
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	members, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entities.Member, error) {
		var m entities.Member
		if err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Balance, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.LastPlayed = make(map[entities.GameID]time.Time)
		return &m, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan members: %w", err)
	}

	byID := make(map[string]*entities.Member, len(members))
	for _, m := range members {
		byID[m.ID] = m
	}

	if err := r.loadTransactions(ctx, byID); err != nil {
		return nil, err
	}
	if err := r.loadAchievements(ctx, byID); err != nil {
		return nil, err
	}
	if err := r.loadGamePlays(ctx, byID); err != nil {
		return nil, err
	}
	return members, nil
}

func (r *MemberRepository) loadTransactions(ctx context.Context, byID map[string]*entities.Member) error {
	rows, err := r.q.Query(ctx, `
		SELECT member_id, amount, applied, reason, created_at
		FROM member_transactions
		ORDER BY id
	`)
	if err != nil {
		return fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var memberID string
		var tx entities.Transaction
		if err := rows.Scan(&memberID, &tx.Amount, &tx.Applied, &tx.Reason, &tx.Timestamp); err != nil {
			return fmt.Errorf("failed to scan transaction: %w", err)
		}
		if m, ok := byID[memberID]; ok {
			m.Transactions = append(m.Transactions, tx)
		}
	}
	return rows.Err()
}

func (r *MemberRepository) loadAchievements(ctx context.Context, byID map[string]*entities.Member) error {
	rows, err := r.q.Query(ctx, `
		SELECT member_id, achievement_id
		FROM member_achievements
		ORDER BY unlocked_at, achievement_id
	`)
	if err != nil {
		return fmt.Errorf("failed to query achievements: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var memberID, achievementID string
		if err := rows.Scan(&memberID, &achievementID); err != nil {
			return fmt.Errorf("failed to scan achievement: %w", err)
		}
		if m, ok := byID[memberID]; ok {
			m.Achievements = append(m.Achievements, entities.AchievementID(achievementID))
		}
	}
	return rows.Err()
}

func (r *MemberRepository) loadGamePlays(ctx context.Context, byID map[string]*entities.Member) error {
	rows, err := r.q.Query(ctx, `SELECT member_id, game_id, last_played_at FROM member_game_plays`)
	if err != nil {
		return fmt.Errorf("failed to query game plays: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var memberID, gameID string
		var playedAt time.Time
		if err := rows.Scan(&memberID, &gameID, &playedAt); err != nil {
			return fmt.Errorf("failed to scan game play: %w", err)
		}
		if m, ok := byID[memberID]; ok {
			m.LastPlayed[entities.GameID(gameID)] = playedAt
		}
	}
	return rows.Err()
}

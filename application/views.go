package application

import (
	"time"

	"clubledger/domain/entities"
)

// LeaderboardEntry is one ranked member
type LeaderboardEntry struct {
	Rank         int                      `json:"rank"`
	MemberID     string                   `json:"member_id"`
	Name         string                   `json:"name"`
	Balance      int64                    `json:"balance"`
	Achievements []entities.AchievementID `json:"achievements"`
}

// DrawingInfo is the public view of the current drawing round
type DrawingInfo struct {
	PoolBalance int64                    `json:"pool_balance"`
	TicketPrice int64                    `json:"ticket_price"`
	TicketCount int                      `json:"ticket_count"`
	NextDrawAt  time.Time                `json:"next_draw_at"`
	MyTickets   []entities.DrawingTicket `json:"my_tickets"`
	LastResult  *entities.DrawResult     `json:"last_result,omitempty"`
}

// PollView is the public view of the poll
type PollView struct {
	Options     []string             `json:"options"`
	Tally       []entities.PollTally `json:"tally"`
	MyVote      string               `json:"my_vote,omitempty"`
	TotalVotes  int                  `json:"total_votes"`
	NextResetAt time.Time            `json:"next_reset_at"`
}

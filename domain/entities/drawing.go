package entities

import (
	"strings"
	"time"
)

// Random is the source of chance used by games and drawings
type Random interface {
	Float64() float64
	IntN(n int) int
}

// Drawing code format: two uppercase letters then four digits, e.g. "AB1234"
const (
	CodeLetters = 2
	CodeDigits  = 4
)

// GenerateCode draws a fresh ticket code from the shared alphabet
func GenerateCode(r Random) string {
	var b strings.Builder
	b.Grow(CodeLetters + CodeDigits)
	for i := 0; i < CodeLetters; i++ {
		b.WriteByte(byte('A' + r.IntN(26)))
	}
	for i := 0; i < CodeDigits; i++ {
		b.WriteByte(byte('0' + r.IntN(10)))
	}
	return b.String()
}

// IsValidCode checks a code against the ticket format
func IsValidCode(code string) bool {
	if len(code) != CodeLetters+CodeDigits {
		return false
	}
	for i := 0; i < len(code); i++ {
		c := code[i]
		if i < CodeLetters {
			if c < 'A' || c > 'Z' {
				return false
			}
		} else if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// DrawingTicket is one entry into the current drawing round
type DrawingTicket struct {
	MemberID    string    `json:"member_id"`
	Code        string    `json:"code"`
	PurchasedAt time.Time `json:"purchased_at"`
}

// Pool is the shared jackpot and the tickets entered for the current round
type Pool struct {
	Balance    int64           `json:"balance"`
	Tickets    []DrawingTicket `json:"tickets"`
	NextDrawAt time.Time       `json:"next_draw_at"`
}

// IsDue returns true once wall-clock time reaches the scheduled draw
func (p *Pool) IsDue(now time.Time) bool {
	return !p.NextDrawAt.IsZero() && !now.Before(p.NextDrawAt)
}

// MatchTicket returns the first ticket, in purchase order, holding the code
func (p *Pool) MatchTicket(code string) (DrawingTicket, bool) {
	for _, t := range p.Tickets {
		if t.Code == code {
			return t, true
		}
	}
	return DrawingTicket{}, false
}

// TicketsFor returns the member's tickets in the current round
func (p *Pool) TicketsFor(memberID string) []DrawingTicket {
	var out []DrawingTicket
	for _, t := range p.Tickets {
		if t.MemberID == memberID {
			out = append(out, t)
		}
	}
	return out
}

// RemoveTicketsFor drops every ticket owned by the member
func (p *Pool) RemoveTicketsFor(memberID string) int {
	kept := p.Tickets[:0]
	removed := 0
	for _, t := range p.Tickets {
		if t.MemberID == memberID {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	p.Tickets = kept
	return removed
}

// DrawResult describes a completed drawing
type DrawResult struct {
	WinningCode string    `json:"winning_code"`
	WinnerID    string    `json:"winner_id,omitempty"`
	Payout      int64     `json:"payout"`
	PoolBefore  int64     `json:"pool_before"`
	PoolAfter   int64     `json:"pool_after"`
	TicketCount int       `json:"ticket_count"`
	RolledOver  bool      `json:"rolled_over"`
	DrawnAt     time.Time `json:"drawn_at"`
	NextDrawAt  time.Time `json:"next_draw_at"`
}

// HasWinner returns true if a ticket matched the winning code
func (r *DrawResult) HasWinner() bool {
	return r.WinnerID != ""
}

// FirstDrawTime returns today's draw hour if it is still ahead, otherwise tomorrow's
func FirstDrawTime(now time.Time, hour int, loc *time.Location) time.Time {
	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), hour, 0, 0, 0, loc)
	if today.After(now) {
		return today
	}
	return today.AddDate(0, 0, 1)
}

// NextDrawTime returns the draw hour on the day following t
func NextDrawTime(t time.Time, hour int, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day()+1, hour, 0, 0, 0, loc)
}

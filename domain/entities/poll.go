package entities

import "time"

// DefaultPollOptions seeds a fresh poll
var DefaultPollOptions = []string{"Math Quiz", "Spelling Bee", "Science Trivia"}

// PollState holds the recurring poll: its options, one vote per member, and the next reset
type PollState struct {
	Options     []string          `json:"options"`
	Votes       map[string]string `json:"votes"` // member id -> option
	NextResetAt time.Time         `json:"next_reset_at"`
}

// PollTally is the vote count for one option
type PollTally struct {
	Option string `json:"option"`
	Votes  int    `json:"votes"`
}

// HasOption checks membership in the current option set
func (p *PollState) HasOption(option string) bool {
	for _, o := range p.Options {
		if o == option {
			return true
		}
	}
	return false
}

// IsDue returns true once wall-clock time reaches the scheduled reset
func (p *PollState) IsDue(now time.Time) bool {
	return !p.NextResetAt.IsZero() && !now.Before(p.NextResetAt)
}

// Tally counts votes per option in option order. Computed on demand.
func (p *PollState) Tally() []PollTally {
	counts := make(map[string]int, len(p.Options))
	for _, option := range p.Votes {
		counts[option]++
	}
	tally := make([]PollTally, 0, len(p.Options))
	for _, o := range p.Options {
		tally = append(tally, PollTally{Option: o, Votes: counts[o]})
	}
	return tally
}

// NextMidnight returns the first local midnight strictly after t
func NextMidnight(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, loc)
}

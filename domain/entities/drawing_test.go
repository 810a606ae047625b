package entities

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fixedInts struct {
	values []int
	pos    int
}

func (f *fixedInts) Float64() float64 { return 0 }

func (f *fixedInts) IntN(n int) int {
	v := f.values[f.pos%len(f.values)]
	f.pos++
	return v % n
}

func TestGenerateCode(t *testing.T) {
	t.Parallel()

	code := GenerateCode(&fixedInts{values: []int{0, 1, 1, 2, 3, 4}})
	assert.Equal(t, "AB1234", code)

	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 200; i++ {
		assert.True(t, IsValidCode(GenerateCode(rng)))
	}
}

func TestIsValidCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code  string
		valid bool
	}{
		{"AB1234", true},
		{"ZZ0000", true},
		{"ab1234", false},
		{"A11234", false},
		{"AB123", false},
		{"AB12345", false},
		{"ABCDEF", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.valid, IsValidCode(tt.code), tt.code)
	}
}

func TestPool_MatchAndRemoveTickets(t *testing.T) {
	t.Parallel()

	pool := Pool{Tickets: []DrawingTicket{
		{MemberID: "a", Code: "AA0001"},
		{MemberID: "b", Code: "BB0002"},
		{MemberID: "a", Code: "BB0002"},
	}}

	ticket, ok := pool.MatchTicket("BB0002")
	assert.True(t, ok)
	assert.Equal(t, "b", ticket.MemberID)

	_, ok = pool.MatchTicket("CC0003")
	assert.False(t, ok)

	assert.Len(t, pool.TicketsFor("a"), 2)
	assert.Equal(t, 2, pool.RemoveTicketsFor("a"))
	assert.Equal(t, []DrawingTicket{{MemberID: "b", Code: "BB0002"}}, pool.Tickets)
}

func TestPool_IsDue(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)
	pool := Pool{NextDrawAt: at}

	assert.False(t, pool.IsDue(at.Add(-time.Second)))
	assert.True(t, pool.IsDue(at))
	assert.True(t, pool.IsDue(at.Add(time.Hour)))
	assert.False(t, (&Pool{}).IsDue(at), "unscheduled pool is never due")
}

func TestDrawTimes(t *testing.T) {
	t.Parallel()

	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skip("tzdata unavailable")
	}

	tests := []struct {
		name          string
		now           time.Time
		loc           *time.Location
		expectedFirst time.Time
		expectedNext  time.Time
	}{
		{
			name:          "morning",
			now:           time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC),
			loc:           time.UTC,
			expectedFirst: time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC),
			expectedNext:  time.Date(2024, 3, 11, 20, 0, 0, 0, time.UTC),
		},
		{
			name:          "exactly at draw hour",
			now:           time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC),
			loc:           time.UTC,
			expectedFirst: time.Date(2024, 3, 11, 20, 0, 0, 0, time.UTC),
			expectedNext:  time.Date(2024, 3, 11, 20, 0, 0, 0, time.UTC),
		},
		{
			name:          "month boundary",
			now:           time.Date(2024, 1, 31, 21, 0, 0, 0, time.UTC),
			loc:           time.UTC,
			expectedFirst: time.Date(2024, 2, 1, 20, 0, 0, 0, time.UTC),
			expectedNext:  time.Date(2024, 2, 1, 20, 0, 0, 0, time.UTC),
		},
		{
			name:          "local zone",
			now:           time.Date(2024, 3, 10, 19, 30, 0, 0, time.UTC),
			loc:           berlin,
			expectedFirst: time.Date(2024, 3, 11, 20, 0, 0, 0, berlin),
			expectedNext:  time.Date(2024, 3, 11, 20, 0, 0, 0, berlin),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.True(t, tt.expectedFirst.Equal(FirstDrawTime(tt.now, 20, tt.loc)))
			assert.True(t, tt.expectedNext.Equal(NextDrawTime(tt.now, 20, tt.loc)))
		})
	}
}

package api

import (
	"context"

	"clubledger/application"
	"clubledger/domain/entities"

	"github.com/stretchr/testify/mock"
)

type mockEngine struct {
	mock.Mock
}

func (m *mockEngine) SignUp(ctx context.Context, name, email, password string) (*application.Session, error) {
	args := m.Called(ctx, name, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.Session), args.Error(1)
}

func (m *mockEngine) Login(ctx context.Context, email, password string) (*application.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.Session), args.Error(1)
}

func (m *mockEngine) Member(memberID string) (*entities.Member, error) {
	args := m.Called(memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Member), args.Error(1)
}

func (m *mockEngine) Rank(memberID string) (int, error) {
	args := m.Called(memberID)
	return args.Int(0), args.Error(1)
}

func (m *mockEngine) Leaderboard() ([]application.LeaderboardEntry, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]application.LeaderboardEntry), args.Error(1)
}

func (m *mockEngine) PlaceBet(memberID string, gameID entities.GameID, stake int64) (*entities.BetOutcome, error) {
	args := m.Called(memberID, gameID, stake)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.BetOutcome), args.Error(1)
}

func (m *mockEngine) BuyTicket(memberID string) (*entities.DrawingTicket, error) {
	args := m.Called(memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.DrawingTicket), args.Error(1)
}

func (m *mockEngine) DrawingInfo(memberID string) (*application.DrawingInfo, error) {
	args := m.Called(memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.DrawingInfo), args.Error(1)
}

func (m *mockEngine) Vote(memberID, option string) error {
	return m.Called(memberID, option).Error(0)
}

func (m *mockEngine) Poll(memberID string) (*application.PollView, error) {
	args := m.Called(memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.PollView), args.Error(1)
}

func (m *mockEngine) AdjustBalance(memberID string, amount int64) (*entities.Member, error) {
	args := m.Called(memberID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Member), args.Error(1)
}

func (m *mockEngine) ResetBalance(memberID string) (*entities.Member, error) {
	args := m.Called(memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Member), args.Error(1)
}

func (m *mockEngine) GrantBonus(memberID string, amount int64) (*entities.Member, error) {
	args := m.Called(memberID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Member), args.Error(1)
}

func (m *mockEngine) DeleteMember(ctx context.Context, memberID string) error {
	return m.Called(ctx, memberID).Error(0)
}

func (m *mockEngine) ForceDraw() (*entities.DrawResult, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.DrawResult), args.Error(1)
}

func (m *mockEngine) AdjustPool(amount int64) (int64, error) {
	args := m.Called(amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockEngine) SetPollOptions(options []string) error {
	return m.Called(options).Error(0)
}

func (m *mockEngine) SetFirstPlacePrize(amount int64) error {
	return m.Called(amount).Error(0)
}

func (m *mockEngine) FirstPlacePrize() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockEngine) AwardFirstPlacePrize() (*entities.Member, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Member), args.Error(1)
}

package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"clubledger/domain/entities"
	"clubledger/domain/interfaces"
	"clubledger/domain/services"
	"clubledger/events"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
)

var (
	// ErrCollaboratorFailure is returned when the identity or persistence collaborator fails
	ErrCollaboratorFailure = errors.New("service temporarily unavailable")
	// ErrInconsistentState is returned for an authenticated identity with no member record
	ErrInconsistentState = errors.New("account has no member record")
	// ErrNotInitialized is returned by operations called before Init
	ErrNotInitialized = errors.New("club engine not initialized")
)

// Config holds the engine settings
type Config struct {
	StartingBalance int64
	FirstPlacePrize int64 // used when the stored prize is unset
	Drawing         services.DrawingConfig
}

// DefaultConfig returns the standard club settings
func DefaultConfig() Config {
	return Config{
		StartingBalance: 100,
		FirstPlacePrize: 1000,
		Drawing:         services.DefaultDrawingConfig(),
	}
}

// Session is the result of a successful login or signup.
// Member is nil for the administrator.
type Session struct {
	Identity entities.Identity
	Member   *entities.Member
}

// Club is the ledger and drawing engine. All state lives in memory and every
// public operation runs inside one global critical section; persistence and
// replication happen downstream through the event bus.
type Club struct {
	config    Config
	loader    interfaces.StateLoader
	identity  interfaces.IdentityService
	bus       *events.Bus
	clock     clockwork.Clock
	random    entities.Random
	evaluator *services.AchievementEvaluator

	mu    sync.Mutex
	state *entities.ClubState

	lifecycle   sync.Mutex
	drawWorker  *DeadlineWorker
	pollWorker  *DeadlineWorker
	stopWorkers []func()
}

// NewClub creates an engine. Call Init before use.
func NewClub(config Config, loader interfaces.StateLoader, identity interfaces.IdentityService, bus *events.Bus, clock clockwork.Clock, random entities.Random) *Club {
	if config.Drawing.Location == nil {
		config.Drawing.Location = time.UTC
	}
	c := &Club{
		config:    config,
		loader:    loader,
		identity:  identity,
		bus:       bus,
		clock:     clock,
		random:    random,
		evaluator: services.NewAchievementEvaluator(entities.Achievements),
	}
	c.drawWorker = NewDeadlineWorker("drawing", clock, c.nextDrawAt, c.runDueDrawing)
	c.pollWorker = NewDeadlineWorker("poll-reset", clock, c.nextPollResetAt, c.runDuePollReset)
	return c
}

// Init loads the persisted state, fills in missing schedules and starts the
// drawing and poll-reset timers.
func (c *Club) Init(ctx context.Context) error {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	if len(c.stopWorkers) > 0 {
		return errors.New("club engine already started")
	}

	state, err := c.loader.LoadState(ctx)
	if err != nil {
		return fmt.Errorf("failed to load club state: %w", err)
	}
	if state == nil {
		state = entities.NewClubState()
	}
	if state.Poll.Votes == nil {
		state.Poll.Votes = make(map[string]string)
	}

	c.mu.Lock()
	c.state = state
	c.mu.Unlock()

	uow, err := c.begin()
	if err != nil {
		return err
	}
	uow.drawing.EnsureSchedule(&uow.state.Pool)
	uow.poll.EnsureSchedule(&uow.state.Poll)
	if uow.state.FirstPlacePrize <= 0 {
		uow.state.FirstPlacePrize = c.config.FirstPlacePrize
		_ = uow.EventBus().Publish(events.PrizeChangedEvent{Amount: uow.state.FirstPlacePrize})
	}
	memberCount := len(uow.state.Members)
	nextDraw := uow.state.Pool.NextDrawAt
	nextReset := uow.state.Poll.NextResetAt
	uow.Commit()

	c.stopWorkers = []func(){
		c.drawWorker.Start(ctx),
		c.pollWorker.Start(ctx),
	}

	log.WithFields(log.Fields{
		"members":         memberCount,
		"nextDrawAt":      nextDraw,
		"nextPollResetAt": nextReset,
	}).Info("Club engine initialized")
	return nil
}

// Teardown stops the scheduled timers. State stays readable.
func (c *Club) Teardown() {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	for _, stop := range c.stopWorkers {
		stop()
	}
	c.stopWorkers = nil
	log.Info("Club engine stopped")
}

func (c *Club) nextDrawAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == nil {
		return time.Time{}
	}
	return c.state.Pool.NextDrawAt
}

func (c *Club) nextPollResetAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == nil {
		return time.Time{}
	}
	return c.state.Poll.NextResetAt
}

func (c *Club) runDueDrawing(ctx context.Context) {
	uow, err := c.begin()
	if err != nil {
		log.WithError(err).Warn("Skipping scheduled drawing")
		return
	}
	defer uow.Rollback()

	if !uow.state.Pool.IsDue(c.clock.Now()) {
		return
	}
	uow.drawing.Draw(uow.state)
	uow.Commit()
}

func (c *Club) runDuePollReset(ctx context.Context) {
	uow, err := c.begin()
	if err != nil {
		log.WithError(err).Warn("Skipping scheduled poll reset")
		return
	}
	defer uow.Rollback()

	if uow.poll.ResetIfDue(&uow.state.Poll) {
		uow.Commit()
	}
}

// SignUp registers a new account. The administrator account gets a session
// without a member record; everyone else starts with the starting balance.
func (c *Club) SignUp(ctx context.Context, name, email, password string) (*Session, error) {
	identity, err := c.identity.Register(ctx, name, email, password)
	if err != nil {
		return nil, c.collaboratorError("register account", err)
	}
	if identity.IsAdmin {
		return &Session{Identity: *identity}, nil
	}

	uow, err := c.begin()
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	member := entities.NewMember(identity.MemberID, identity.Name, identity.Email, c.config.StartingBalance, c.clock.Now())
	uow.state.AddMember(member)
	_ = uow.EventBus().Publish(events.MemberCreatedEvent{
		MemberID:  member.ID,
		Name:      member.Name,
		Email:     member.Email,
		Balance:   member.Balance,
		CreatedAt: member.CreatedAt,
	})
	snapshot := member.Clone()
	uow.Commit()

	log.WithFields(log.Fields{
		"memberID": member.ID,
		"email":    member.Email,
	}).Info("Member signed up")

	return &Session{Identity: *identity, Member: snapshot}, nil
}

// Login resolves credentials to a session. An authenticated member without a
// member record is refused with ErrInconsistentState.
func (c *Club) Login(ctx context.Context, email, password string) (*Session, error) {
	identity, err := c.identity.Authenticate(ctx, email, password)
	if err != nil {
		return nil, c.collaboratorError("authenticate", err)
	}
	if identity.IsAdmin {
		return &Session{Identity: *identity}, nil
	}

	member, err := c.Member(identity.MemberID)
	if err != nil {
		if errors.Is(err, entities.ErrMemberNotFound) {
			log.WithFields(log.Fields{
				"memberID": identity.MemberID,
				"email":    identity.Email,
			}).Error("Authenticated identity has no member record")
			return nil, ErrInconsistentState
		}
		return nil, err
	}
	identity.Name = member.Name
	return &Session{Identity: *identity, Member: member}, nil
}

// collaboratorError passes rejections through and masks everything else
func (c *Club) collaboratorError(op string, err error) error {
	if entities.IsRejection(err) {
		return err
	}
	log.WithError(err).WithField("operation", op).Error("Collaborator call failed")
	return fmt.Errorf("%s: %w", op, ErrCollaboratorFailure)
}

// read runs fn under the engine lock without a unit of work
func (c *Club) read(fn func(state *entities.ClubState) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == nil {
		return ErrNotInitialized
	}
	return fn(c.state)
}

func memberNotFound(id string) error {
	return entities.Reject(entities.ErrMemberNotFound, "Member %s not found.", id)
}

// Member returns a copy of one member
func (c *Club) Member(memberID string) (*entities.Member, error) {
	var out *entities.Member
	err := c.read(func(state *entities.ClubState) error {
		m, ok := state.Member(memberID)
		if !ok {
			return memberNotFound(memberID)
		}
		out = m.Clone()
		return nil
	})
	return out, err
}

// Members returns copies of all members in signup order
func (c *Club) Members() ([]*entities.Member, error) {
	var out []*entities.Member
	err := c.read(func(state *entities.ClubState) error {
		out = make([]*entities.Member, 0, len(state.Members))
		for _, m := range state.Members {
			out = append(out, m.Clone())
		}
		return nil
	})
	return out, err
}

// Rank returns the member's 1-based leaderboard position
func (c *Club) Rank(memberID string) (int, error) {
	var rank int
	err := c.read(func(state *entities.ClubState) error {
		rank = services.Rank(memberID, state.Members)
		if rank == 0 {
			return memberNotFound(memberID)
		}
		return nil
	})
	return rank, err
}

// Leaderboard returns every member ranked by descending balance
func (c *Club) Leaderboard() ([]LeaderboardEntry, error) {
	var out []LeaderboardEntry
	err := c.read(func(state *entities.ClubState) error {
		sorted := services.Leaderboard(state.Members)
		out = make([]LeaderboardEntry, len(sorted))
		for i, m := range sorted {
			out[i] = LeaderboardEntry{
				Rank:         i + 1,
				MemberID:     m.ID,
				Name:         m.Name,
				Balance:      m.Balance,
				Achievements: append([]entities.AchievementID(nil), m.Achievements...),
			}
		}
		return nil
	})
	return out, err
}

// PlaceBet resolves one play of a game
func (c *Club) PlaceBet(memberID string, gameID entities.GameID, stake int64) (*entities.BetOutcome, error) {
	game, ok := entities.LookupGame(gameID)
	if !ok {
		return nil, entities.Reject(entities.ErrUnknownGame, "Unknown game %q.", gameID)
	}

	uow, err := c.begin()
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	member, ok := uow.state.Member(memberID)
	if !ok {
		return nil, memberNotFound(memberID)
	}
	outcome, err := uow.games.ResolveBet(member, game, stake)
	if err != nil {
		return nil, err
	}
	uow.Commit()
	return outcome, nil
}

// BuyTicket enters the member into the current drawing
func (c *Club) BuyTicket(memberID string) (*entities.DrawingTicket, error) {
	uow, err := c.begin()
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	member, ok := uow.state.Member(memberID)
	if !ok {
		return nil, memberNotFound(memberID)
	}
	ticket, err := uow.drawing.BuyTicket(member, &uow.state.Pool)
	if err != nil {
		return nil, err
	}
	uow.Commit()
	return ticket, nil
}

// DrawingInfo describes the current round. memberID may be empty.
func (c *Club) DrawingInfo(memberID string) (*DrawingInfo, error) {
	var info *DrawingInfo
	err := c.read(func(state *entities.ClubState) error {
		info = &DrawingInfo{
			PoolBalance: state.Pool.Balance,
			TicketPrice: c.config.Drawing.TicketPrice,
			TicketCount: len(state.Pool.Tickets),
			NextDrawAt:  state.Pool.NextDrawAt,
			MyTickets:   state.Pool.TicketsFor(memberID),
		}
		if state.LastDraw != nil {
			last := *state.LastDraw
			info.LastResult = &last
		}
		return nil
	})
	return info, err
}

// Vote records the member's poll choice
func (c *Club) Vote(memberID, option string) error {
	uow, err := c.begin()
	if err != nil {
		return err
	}
	defer uow.Rollback()

	if _, ok := uow.state.Member(memberID); !ok {
		return memberNotFound(memberID)
	}
	if err := uow.poll.Vote(&uow.state.Poll, memberID, option); err != nil {
		return err
	}
	uow.Commit()
	return nil
}

// Poll returns the current options and tally. memberID may be empty.
func (c *Club) Poll(memberID string) (*PollView, error) {
	var view *PollView
	err := c.read(func(state *entities.ClubState) error {
		view = &PollView{
			Options:     append([]string(nil), state.Poll.Options...),
			Tally:       state.Poll.Tally(),
			MyVote:      state.Poll.Votes[memberID],
			TotalVotes:  len(state.Poll.Votes),
			NextResetAt: state.Poll.NextResetAt,
		}
		return nil
	})
	return view, err
}

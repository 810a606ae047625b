package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"clubledger/application"
	"clubledger/domain/entities"
	"clubledger/metrics"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// Engine is the part of the club engine the HTTP surface drives
type Engine interface {
	SignUp(ctx context.Context, name, email, password string) (*application.Session, error)
	Login(ctx context.Context, email, password string) (*application.Session, error)
	Member(memberID string) (*entities.Member, error)
	Rank(memberID string) (int, error)
	Leaderboard() ([]application.LeaderboardEntry, error)
	PlaceBet(memberID string, gameID entities.GameID, stake int64) (*entities.BetOutcome, error)
	BuyTicket(memberID string) (*entities.DrawingTicket, error)
	DrawingInfo(memberID string) (*application.DrawingInfo, error)
	Vote(memberID, option string) error
	Poll(memberID string) (*application.PollView, error)

	AdjustBalance(memberID string, amount int64) (*entities.Member, error)
	ResetBalance(memberID string) (*entities.Member, error)
	GrantBonus(memberID string, amount int64) (*entities.Member, error)
	DeleteMember(ctx context.Context, memberID string) error
	ForceDraw() (*entities.DrawResult, error)
	AdjustPool(amount int64) (int64, error)
	SetPollOptions(options []string) error
	SetFirstPlacePrize(amount int64) error
	FirstPlacePrize() (int64, error)
	AwardFirstPlacePrize() (*entities.Member, error)
}

var _ Engine = (*application.Club)(nil)

// Server is the club's JSON HTTP API
type Server struct {
	engine   Engine
	sessions *SessionManager
	router   *mux.Router
}

// NewServer builds the router
func NewServer(engine Engine, sessions *SessionManager) *Server {
	s := &Server{
		engine:   engine,
		sessions: sessions,
		router:   mux.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := s.router
	r.Use(metrics.InstrumentHandler)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeFailure(w, http.StatusNotFound, "not found")
	})

	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/signup", s.handleSignUp).Methods(http.MethodPost)
	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/games", s.handleGames).Methods(http.MethodGet)
	r.HandleFunc("/leaderboard", s.handleLeaderboard).Methods(http.MethodGet)

	authed := r.NewRoute().Subrouter()
	authed.Use(s.requireSession)
	authed.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)
	authed.HandleFunc("/me", s.handleMe).Methods(http.MethodGet)
	authed.HandleFunc("/drawing", s.handleDrawingInfo).Methods(http.MethodGet)
	authed.HandleFunc("/poll", s.handlePoll).Methods(http.MethodGet)

	member := authed.NewRoute().Subrouter()
	member.Use(requireMember)
	member.HandleFunc("/me/transactions", s.handleTransactions).Methods(http.MethodGet)
	member.HandleFunc("/games/{id}/bets", s.handlePlaceBet).Methods(http.MethodPost)
	member.HandleFunc("/drawing/tickets", s.handleBuyTicket).Methods(http.MethodPost)
	member.HandleFunc("/poll/votes", s.handleVote).Methods(http.MethodPost)

	admin := authed.PathPrefix("/admin").Subrouter()
	admin.Use(requireAdmin)
	admin.HandleFunc("/members/{id}/adjust", s.handleAdjustBalance).Methods(http.MethodPost)
	admin.HandleFunc("/members/{id}/reset", s.handleResetBalance).Methods(http.MethodPost)
	admin.HandleFunc("/members/{id}/bonus", s.handleGrantBonus).Methods(http.MethodPost)
	admin.HandleFunc("/members/{id}", s.handleDeleteMember).Methods(http.MethodDelete)
	admin.HandleFunc("/pool", s.handleAdjustPool).Methods(http.MethodPost)
	admin.HandleFunc("/drawing", s.handleForceDraw).Methods(http.MethodPost)
	admin.HandleFunc("/poll/options", s.handleSetPollOptions).Methods(http.MethodPut)
	admin.HandleFunc("/prize", s.handleGetPrize).Methods(http.MethodGet)
	admin.HandleFunc("/prize", s.handleSetPrize).Methods(http.MethodPut)
	admin.HandleFunc("/prize/award", s.handleAwardPrize).Methods(http.MethodPost)
}

// ListenAndServe runs the server until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("Shutting down HTTP server...")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, map[string]string{"status": "ok"})
}

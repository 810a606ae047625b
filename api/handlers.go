package api

import (
	"net/http"
	"time"

	"clubledger/application"
	"clubledger/domain/entities"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type signUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expires_at"`
	Identity  entities.Identity `json:"identity"`
	Member    *memberResponse   `json:"member,omitempty"`
}

type memberResponse struct {
	ID           string                   `json:"id"`
	Name         string                   `json:"name"`
	Email        string                   `json:"email"`
	Balance      int64                    `json:"balance"`
	Rank         int                      `json:"rank,omitempty"`
	Achievements []entities.AchievementID `json:"achievements"`
	CreatedAt    time.Time                `json:"created_at"`
}

type betRequest struct {
	Stake int64 `json:"stake"`
}

type voteRequest struct {
	Option string `json:"option"`
}

const recentTransactionCount = 10

func toMemberResponse(m *entities.Member, rank int) *memberResponse {
	achievements := m.Achievements
	if achievements == nil {
		achievements = []entities.AchievementID{}
	}
	return &memberResponse{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		Balance:      m.Balance,
		Rank:         rank,
		Achievements: achievements,
		CreatedAt:    m.CreatedAt,
	}
}

func (s *Server) startSession(w http.ResponseWriter, status int, session *application.Session) {
	token, expiresAt, err := s.sessions.Issue(session.Identity)
	if err != nil {
		log.WithError(err).Error("Failed to issue session")
		writeFailure(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp := sessionResponse{Token: token, ExpiresAt: expiresAt, Identity: session.Identity}
	if session.Member != nil {
		resp.Member = toMemberResponse(session.Member, 0)
	}
	writeData(w, status, resp)
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if !decodeBody(w, r, &req) {
		return
	}

	session, err := s.engine.SignUp(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.startSession(w, http.StatusCreated, session)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	session, err := s.engine.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.startSession(w, http.StatusOK, session)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.Revoke(claimsFrom(r.Context()))
	writeData(w, http.StatusOK, nil)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	if claims.MemberID == "" {
		writeData(w, http.StatusOK, map[string]any{"identity": claims.Identity()})
		return
	}

	member, err := s.engine.Member(claims.MemberID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rank, err := s.engine.Rank(claims.MemberID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, map[string]any{
		"identity":            claims.Identity(),
		"member":              toMemberResponse(member, rank),
		"recent_transactions": member.RecentTransactions(recentTransactionCount),
	})
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	member, err := s.engine.Member(claimsFrom(r.Context()).MemberID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	// Newest first
	txs := make([]entities.Transaction, len(member.Transactions))
	for i, tx := range member.Transactions {
		txs[len(txs)-1-i] = tx
	}
	writeData(w, http.StatusOK, txs)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	board, err := s.engine.Leaderboard()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, board)
}

func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, entities.Games)
}

func (s *Server) handlePlaceBet(w http.ResponseWriter, r *http.Request) {
	var req betRequest
	if !decodeBody(w, r, &req) {
		return
	}

	gameID := entities.GameID(mux.Vars(r)["id"])
	outcome, err := s.engine.PlaceBet(claimsFrom(r.Context()).MemberID, gameID, req.Stake)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, outcome)
}

func (s *Server) handleDrawingInfo(w http.ResponseWriter, r *http.Request) {
	info, err := s.engine.DrawingInfo(claimsFrom(r.Context()).MemberID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, info)
}

func (s *Server) handleBuyTicket(w http.ResponseWriter, r *http.Request) {
	ticket, err := s.engine.BuyTicket(claimsFrom(r.Context()).MemberID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, ticket)
}

func (s *Server) handlePoll(w http.ResponseWriter, r *http.Request) {
	view, err := s.engine.Poll(claimsFrom(r.Context()).MemberID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, view)
}

func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	var req voteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	memberID := claimsFrom(r.Context()).MemberID
	if err := s.engine.Vote(memberID, req.Option); err != nil {
		writeError(w, r, err)
		return
	}

	view, err := s.engine.Poll(memberID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, view)
}

package api

import (
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type amountRequest struct {
	Amount int64 `json:"amount"`
}

type pollOptionsRequest struct {
	Options []string `json:"options"`
}

// decodeOptionalAmount accepts an empty body as a zero amount
func decodeOptionalAmount(w http.ResponseWriter, r *http.Request) (int64, bool) {
	var req amountRequest
	if r.ContentLength == 0 {
		return 0, true
	}
	if !decodeBody(w, r, &req) {
		return 0, false
	}
	return req.Amount, true
}

func (s *Server) handleAdjustBalance(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if !decodeBody(w, r, &req) {
		return
	}

	member, err := s.engine.AdjustBalance(mux.Vars(r)["id"], req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, toMemberResponse(member, 0))
}

func (s *Server) handleResetBalance(w http.ResponseWriter, r *http.Request) {
	member, err := s.engine.ResetBalance(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, toMemberResponse(member, 0))
}

func (s *Server) handleGrantBonus(w http.ResponseWriter, r *http.Request) {
	amount, ok := decodeOptionalAmount(w, r)
	if !ok {
		return
	}

	member, err := s.engine.GrantBonus(mux.Vars(r)["id"], amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, toMemberResponse(member, 0))
}

func (s *Server) handleDeleteMember(w http.ResponseWriter, r *http.Request) {
	memberID := mux.Vars(r)["id"]
	if err := s.engine.DeleteMember(r.Context(), memberID); err != nil {
		writeError(w, r, err)
		return
	}

	log.WithFields(log.Fields{
		"memberID": memberID,
		"admin":    claimsFrom(r.Context()).Email,
	}).Info("Admin deleted member")
	writeData(w, http.StatusOK, nil)
}

func (s *Server) handleAdjustPool(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if !decodeBody(w, r, &req) {
		return
	}

	balance, err := s.engine.AdjustPool(req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]int64{"pool_balance": balance})
}

func (s *Server) handleForceDraw(w http.ResponseWriter, r *http.Request) {
	result, err := s.engine.ForceDraw()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, result)
}

func (s *Server) handleSetPollOptions(w http.ResponseWriter, r *http.Request) {
	var req pollOptionsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := s.engine.SetPollOptions(req.Options); err != nil {
		writeError(w, r, err)
		return
	}

	view, err := s.engine.Poll("")
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, view)
}

func (s *Server) handleGetPrize(w http.ResponseWriter, r *http.Request) {
	prize, err := s.engine.FirstPlacePrize()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]int64{"amount": prize})
}

func (s *Server) handleSetPrize(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := s.engine.SetFirstPlacePrize(req.Amount); err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]int64{"amount": req.Amount})
}

func (s *Server) handleAwardPrize(w http.ResponseWriter, r *http.Request) {
	winner, err := s.engine.AwardFirstPlacePrize()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, toMemberResponse(winner, 1))
}

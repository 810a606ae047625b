package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"clubledger/application"
	"clubledger/domain/entities"

	log "github.com/sirupsen/logrus"
)

type contextKey int

const claimsKey contextKey = iota

func claimsFrom(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsKey).(*Claims)
	return claims
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// requireSession rejects requests without a valid session token. A member
// session whose member no longer exists is revoked.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.sessions.Parse(bearerToken(r))
		if err != nil {
			writeFailure(w, http.StatusUnauthorized, err.Error())
			return
		}

		if claims.MemberID != "" {
			if _, err := s.engine.Member(claims.MemberID); err != nil {
				if errors.Is(err, entities.ErrMemberNotFound) {
					s.sessions.Revoke(claims)
					log.WithFields(log.Fields{
						"memberID": claims.MemberID,
						"email":    claims.Email,
					}).Warn("Session refers to a missing member, forcing logout")
					err = application.ErrInconsistentState
				}
				writeError(w, r, err)
				return
			}
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	})
}

// requireMember rejects the administrator on member-only routes
func requireMember(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFrom(r.Context())
		if claims == nil || claims.MemberID == "" {
			writeFailure(w, http.StatusForbidden, "a member account is required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireAdmin rejects everyone but the administrator
func requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFrom(r.Context())
		if claims == nil || !claims.IsAdmin {
			writeFailure(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

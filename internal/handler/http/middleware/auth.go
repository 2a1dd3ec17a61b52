package middleware

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/hrm-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired rejects requests without a valid, unrevoked access token and
// stores the session it was issued for on the request context. It expects
// jwtauth.Verifier to have run first.
func AuthRequired(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if jwtService.IsTokenRevoked(jwtauth.TokenFromHeader(r)) {
				response.HandleError(w, auth.ErrTokenRevoked)
				return
			}

			session, err := jwtService.SessionFromClaims(claims)
			if err != nil {
				slog.Warn("rejecting token with unusable claims", "error", err)
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		}
		return http.HandlerFunc(hfn)
	}
}

package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrm-backend-go/internal/handler/http/response"
)

type sessionKey struct{}

// WithSession returns a copy of ctx carrying session.
func WithSession(ctx context.Context, session user.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFromContext returns the session AuthRequired stored on the request.
func SessionFromContext(ctx context.Context) (user.Session, bool) {
	session, ok := ctx.Value(sessionKey{}).(user.Session)
	return session, ok && !session.IsZero()
}

// GetSession writes 401 and returns false when the request carries no session.
func GetSession(w http.ResponseWriter, r *http.Request) (user.Session, bool) {
	session, ok := SessionFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return user.Session{}, false
	}
	return session, true
}

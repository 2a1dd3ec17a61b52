package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/activitylog"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrm-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hrm-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/jwt"
	"github.com/goccy/go-json"
)

// ActivityLogHandler defines the activity log handler interface
type ActivityLogHandler interface {
	List(w http.ResponseWriter, r *http.Request)

	// SSE
	GetStreamToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type activityLogHandlerImpl struct {
	logService activitylog.ActivityLogService
	jwtService jwt.Service
	loc        *time.Location
	keepalive  time.Duration
}

// NewActivityLogHandler creates a new activity log handler. Entry times are rendered in loc.
func NewActivityLogHandler(logService activitylog.ActivityLogService, jwtService jwt.Service, loc *time.Location) ActivityLogHandler {
	return &activityLogHandlerImpl{
		logService: logService,
		jwtService: jwtService,
		loc:        loc,
		keepalive:  30 * time.Second,
	}
}

// List returns every entry, newest first
func (h *activityLogHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.logService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, activitylog.NewEntryResponses(entries, h.loc), &response.Meta{TotalItems: len(entries)})
}

// GetStreamToken generates a short-lived token for SSE connections
func (h *activityLogHandlerImpl) GetStreamToken(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(w, r)
	if !ok {
		return
	}

	token, expiresIn, err := h.jwtService.GenerateSSEToken(session)
	if err != nil {
		slog.Error("GenerateSSEToken error", "error", err)
		response.InternalServerError(w, "Failed to generate SSE token")
		return
	}

	response.Success(w, auth.SSETokenResponse{
		Token:     token,
		ExpiresIn: expiresIn,
	})
}

// Stream pushes new entries to an admin as they are recorded
func (h *activityLogHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	// Get token from query parameter (SSE doesn't support custom headers)
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		response.Unauthorized(w, "Missing token")
		return
	}

	session, err := h.jwtService.ValidateSSEToken(tokenStr)
	if err != nil {
		response.Unauthorized(w, "Invalid token")
		return
	}
	if !session.Can(user.PermissionActivityLogView) {
		response.HandleError(w, user.ErrAdminPrivilegeRequired)
		return
	}

	// Check if streaming is supported
	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.logService.Subscribe(r.Context())
	defer cleanup()

	// Send initial connection event
	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"user_id\":%q}\n\n", session.ID)
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				slog.Error("activity stream encode error", "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

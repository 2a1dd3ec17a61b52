package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrm-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hrm-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
	"github.com/goccy/go-json"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
	UpdateProfile(w http.ResponseWriter, r *http.Request)
	Navigation(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	authService auth.AuthService
}

func NewAuthHandler(authService auth.AuthService) AuthHandler {
	return &AuthHandlerImpl{
		authService: authService,
	}
}

// Login implements AuthHandler.
func (a *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq auth.LoginRequest

	// 1. Decode JSON
	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		slog.Error("Login decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	// Validate DTO
	if err := loginReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	// Call service
	tokenResponse, err := a.authService.Login(r.Context(), loginReq)
	if err != nil {
		slog.Warn("Login service error", "username", loginReq.Username, "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("User logged in successfully", "user_id", tokenResponse.User.ID)
	response.SuccessWithMessage(w, "User logged in successfully", tokenResponse)
}

// Register implements AuthHandler.
func (a *AuthHandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	var registerReq auth.RegisterRequest

	// 1. Decode JSON
	if err := json.NewDecoder(r.Body).Decode(&registerReq); err != nil {
		slog.Error("Register decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	// Validate DTO
	if err := registerReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	// Call service
	tokenResponse, err := a.authService.Register(r.Context(), registerReq)
	if err != nil {
		slog.Error("Register service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("User registered successfully", "user_id", tokenResponse.User.ID)
	response.Created(w, "User registered successfully", tokenResponse)
}

// Logout implements AuthHandler.
func (a *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.authService.Logout(r.Context(), jwtauth.TokenFromHeader(r)); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Logged out successfully", map[string]string{
		"storage_key": auth.SessionStorageKey,
	})
}

// Me implements AuthHandler.
func (a *AuthHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(w, r)
	if !ok {
		return
	}

	profile, err := a.authService.Me(r.Context(), session)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, profile)
}

// UpdateProfile implements AuthHandler.
func (a *AuthHandlerImpl) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(w, r)
	if !ok {
		return
	}

	var req user.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	profile, err := a.authService.UpdateProfile(r.Context(), session, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Profile updated successfully", profile)
}

// Navigation implements AuthHandler.
func (a *AuthHandlerImpl) Navigation(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(w, r)
	if !ok {
		return
	}

	response.Success(w, a.authService.Navigation(session))
}

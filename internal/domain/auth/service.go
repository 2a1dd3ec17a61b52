package auth

import (
	"context"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/user"
)

// SessionStorageKey is the fixed key under which clients persist the session.
const SessionStorageKey = "authUser"

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (TokenResponse, error)
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context, session user.Session) (user.UserResponse, error)
	UpdateProfile(ctx context.Context, session user.Session, req user.UpdateProfileRequest) (user.UserResponse, error)
	Navigation(session user.Session) user.NavigationResponse
	// EnsureAdmin creates the administrator account unless the username is taken.
	EnsureAdmin(ctx context.Context, req BootstrapAdminRequest) (created bool, err error)
}

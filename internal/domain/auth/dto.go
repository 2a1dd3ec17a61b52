package auth

import (
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/validator"
)

const MinPasswordLength = 6

type RegisterRequest struct {
	FullName     string `json:"full_name"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	Email        string `json:"email"`
	DepartmentID string `json:"department_id,omitempty"`
	PositionID   string `json:"position_id,omitempty"`
}

func (r *RegisterRequest) Validate() error {
	var errs validator.ValidationErrors

	// Full name
	if validator.IsEmpty(r.FullName) {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name is required",
		})
	} else if validator.ExceedsLength(r.FullName, 255) {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name must not exceed 255 characters",
		})
	}

	// Username
	if validator.IsEmpty(r.Username) {
		errs = append(errs, validator.ValidationError{
			Field:   "username",
			Message: "username is required",
		})
	} else if !validator.IsValidUsername(r.Username) {
		errs = append(errs, validator.ValidationError{
			Field:   "username",
			Message: "username must be 3-50 characters of letters, numbers, dots, underscores, and hyphens",
		})
	}

	// Email
	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid email address",
		})
	}

	// Password
	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	} else if len(r.Password) < MinPasswordLength {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at least 6 characters long",
		})
	} else if len(r.Password) > 72 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must not exceed 72 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// BootstrapAdminRequest describes the administrator created at startup.
type BootstrapAdminRequest struct {
	FullName string
	Username string
	Password string
	Email    string
}

// Validate applies the registration rules.
func (r *BootstrapAdminRequest) Validate() error {
	reg := RegisterRequest{FullName: r.FullName, Username: r.Username, Password: r.Password, Email: r.Email}
	return reg.Validate()
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Username) {
		errs = append(errs, validator.ValidationError{
			Field:   "username",
			Message: "username is required",
		})
	}
	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type TokenResponse struct {
	AccessToken string                  `json:"access_token"`
	ExpiresAt   int64                   `json:"expires_at"`
	StorageKey  string                  `json:"storage_key"`
	User        user.UserResponse       `json:"user"`
	Navigation  user.NavigationResponse `json:"navigation"`
}

type SSETokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

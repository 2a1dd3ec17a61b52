package user

import (
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/validator"
)

// UserResponse represents account data in API responses. The password hash never leaves the service.
type UserResponse struct {
	ID            string  `json:"id"`
	Username      string  `json:"username"`
	FullName      string  `json:"full_name"`
	Role          string  `json:"role"`
	Email         string  `json:"email"`
	AccountStatus string  `json:"account_status"`
	Position      string  `json:"position,omitempty"`
	Department    string  `json:"department,omitempty"`
	StartDate     *string `json:"start_date,omitempty"`
	WorkingStatus string  `json:"working_status,omitempty"`
}

func NewUserResponse(u User) UserResponse {
	resp := UserResponse{
		ID:            u.ID,
		Username:      u.Username,
		FullName:      u.FullName,
		Role:          string(u.Role),
		Email:         u.Email,
		AccountStatus: u.AccountStatus,
		Position:      u.Position,
		Department:    u.Department,
		WorkingStatus: u.WorkingStatus,
	}
	if u.StartDate != nil {
		s := u.StartDate.Format("2006-01-02")
		resp.StartDate = &s
	}
	return resp
}

// UpdateProfileRequest changes the caller's own email and, optionally, password
type UpdateProfileRequest struct {
	Email           string  `json:"email"`
	Password        *string `json:"password,omitempty"`
	ConfirmPassword *string `json:"confirm_password,omitempty"`
}

func (r *UpdateProfileRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "invalid email format",
		})
	}

	if r.Password != nil && *r.Password != "" {
		if len(*r.Password) < 6 {
			errs = append(errs, validator.ValidationError{
				Field:   "password",
				Message: "password must be at least 6 characters",
			})
		}
		if r.ConfirmPassword == nil || *r.ConfirmPassword != *r.Password {
			errs = append(errs, validator.ValidationError{
				Field:   "confirm_password",
				Message: "confirm_password does not match password",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type MenuItemResponse struct {
	Key  string `json:"key"`
	Path string `json:"path"`
}

type NavigationResponse struct {
	Role    string             `json:"role"`
	Landing string             `json:"landing"`
	Items   []MenuItemResponse `json:"items"`
}

func NewNavigationResponse(role Role) NavigationResponse {
	items := Navigation(role)
	resp := NavigationResponse{
		Role:    string(role),
		Landing: LandingPath(role),
		Items:   make([]MenuItemResponse, 0, len(items)),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, MenuItemResponse{Key: item.Key, Path: item.Path})
	}
	return resp
}

package user

import "time"

type Role string

const (
	RoleAdmin Role = "admin" // Full access, decides requests
	RoleUser  Role = "user"  // Regular employee
)

const AccountStatusActive = "active"

type User struct {
	ID            string
	Username      string
	PasswordHash  string
	FullName      string
	Role          Role
	Email         string
	AccountStatus string
	Position      string
	Department    string
	StartDate     *time.Time
	WorkingStatus string
}

// IsAdmin checks if the account holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsActive checks if the account may log in
func (u *User) IsActive() bool {
	return u.AccountStatus == AccountStatusActive
}

// Session returns the identity carried by this account's access token
func (u *User) Session() Session {
	return Session{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Role:     u.Role,
		Email:    u.Email,
	}
}

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleUser
}

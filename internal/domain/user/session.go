package user

// Session is the authenticated identity an engine acts on behalf of.
// It is rebuilt from the access token on every request and passed explicitly.
type Session struct {
	ID       string
	Username string
	FullName string
	Role     Role
	Email    string
}

func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// Owns reports whether the record owned by employeeID belongs to this session.
func (s Session) Owns(employeeID string) bool {
	return s.ID != "" && s.ID == employeeID
}

func (s Session) Can(permission Permission) bool {
	return HasPermission(s.Role, permission)
}

func (s Session) IsZero() bool {
	return s.ID == ""
}

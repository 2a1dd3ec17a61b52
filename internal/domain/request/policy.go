package request

import "github.com/cmlabs-hris/hrm-backend-go/internal/domain/user"

// CanView reports whether session may read f.
func CanView(session user.Session, f Form) bool {
	return session.Can(user.PermissionRequestViewAll) || session.Owns(f.EmployeeID)
}

// CanMutate checks that session may edit or withdraw f: only the owner, and
// only while the request is pending.
func CanMutate(session user.Session, f Form) error {
	if !session.Owns(f.EmployeeID) {
		return ErrForbidden
	}
	if !f.IsPending() {
		return ErrRequestAlreadyProcessed
	}
	return nil
}

// CanDecide checks that session may approve or reject f: an admin, and only
// while the request is pending.
func CanDecide(session user.Session, f Form) error {
	if !session.Can(user.PermissionRequestDecide) {
		return ErrForbidden
	}
	if !f.IsPending() {
		return ErrRequestAlreadyProcessed
	}
	return nil
}

package activitylog

import "time"

type Type string

// Canonical activity types. Entries with other tags are still stored verbatim.
const (
	TypeAdd      Type = "Add"
	TypeUpdate   Type = "Update"
	TypeDelete   Type = "Delete"
	TypeApprove  Type = "Approve"
	TypeReject   Type = "Reject"
	TypeLogin    Type = "Login"
	TypeRegister Type = "Register"
)

var canonicalTypes = []Type{TypeAdd, TypeUpdate, TypeDelete, TypeApprove, TypeReject, TypeLogin, TypeRegister}

func (t Type) IsCanonical() bool {
	for _, c := range canonicalTypes {
		if c == t {
			return true
		}
	}
	return false
}

// TimeLayout is how entry times are rendered and how the REST store keeps them.
const TimeLayout = "2006-01-02 15:04:05"

// Entry is one append-only audit record.
type Entry struct {
	ID      string
	Name    string
	Type    Type
	Time    time.Time
	Details string
}

package request

import "strings"

// Filter narrows a request list. Empty fields match everything and the
// remaining ones compose with AND, case-insensitively.
type Filter struct {
	Status string
	Type   string
	Search string
}

func (f Filter) Match(form Form) bool {
	if f.Status != "" && !strings.EqualFold(strings.TrimSpace(f.Status), string(form.Status)) {
		return false
	}
	if f.Type != "" && !strings.EqualFold(strings.TrimSpace(f.Type), form.Type) {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(form.EmployeeName), q) &&
			!strings.Contains(strings.ToLower(form.Content), q) &&
			!strings.Contains(strings.ToLower(form.Type), q) {
			return false
		}
	}
	return true
}

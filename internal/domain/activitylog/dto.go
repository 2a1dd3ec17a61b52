package activitylog

import "time"

type EntryResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ActivityType string `json:"activity_type"`
	Time         string `json:"time"`
	Details      string `json:"details"`
}

// NewEntryResponse renders e with its time in loc.
func NewEntryResponse(e Entry, loc *time.Location) EntryResponse {
	if loc == nil {
		loc = time.UTC
	}
	return EntryResponse{
		ID:           e.ID,
		Name:         e.Name,
		ActivityType: string(e.Type),
		Time:         e.Time.In(loc).Format(TimeLayout),
		Details:      e.Details,
	}
}

func NewEntryResponses(entries []Entry, loc *time.Location) []EntryResponse {
	out := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, NewEntryResponse(e, loc))
	}
	return out
}

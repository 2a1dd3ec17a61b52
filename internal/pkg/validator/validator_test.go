package validator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty(" \t\n"))
	assert.False(t, IsEmpty("Khác"))
	assert.False(t, IsEmpty("  Tăng ca "))
}

func TestExceedsLength(t *testing.T) {
	cases := []struct {
		input string
		max   int
		want  bool
	}{
		{"Nghỉ phép", 9, false},
		{"Nghỉ phép", 8, true},
		{"Công tác Hà Nội", 15, false},
		{"", 0, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ExceedsLength(c.input, c.max), "ExceedsLength(%q, %d)", c.input, c.max)
	}
}

func TestIsValidEmail(t *testing.T) {
	for _, email := range []string{"admin@example.com", "nguyen.van.a+hr@congty.vn", "a@b.cd"} {
		assert.True(t, IsValidEmail(email), email)
	}
	for _, email := range []string{"admin@", "@congty.vn", "a@.vn", "a@vn", "a b@congty.vn", ""} {
		assert.False(t, IsValidEmail(email), email)
	}
}

func TestIsValidDate(t *testing.T) {
	date, ok := IsValidDate("2024-01-10")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), date)

	for _, s := range []string{"2024-02-30", "10/01/2024", "2024-1-10", "2024-01-10T08:30:00Z", ""} {
		_, ok := IsValidDate(s)
		assert.False(t, ok, s)
	}
}

func TestIsValidUsername(t *testing.T) {
	for _, s := range []string{"admin", "nguyen.van_a", "nv-01"} {
		assert.True(t, IsValidUsername(s), s)
	}
	for _, s := range []string{"nv", "nguyen van a", "quản.trị", ""} {
		assert.False(t, IsValidUsername(s), s)
	}
}

func TestIsInSlice(t *testing.T) {
	statuses := []string{"probation", "working", "on_leave"}
	assert.True(t, IsInSlice("working", statuses))
	assert.False(t, IsInSlice("Working", statuses))
	assert.False(t, IsInSlice("resigned", statuses))
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "date", Message: "date must be in YYYY-MM-DD format"},
		{Field: "content", Message: "content is required"},
	}

	assert.Equal(t, "date: date must be in YYYY-MM-DD format; content: content is required", errs.Error())
	assert.Equal(t, map[string]string{
		"date":    "date must be in YYYY-MM-DD format",
		"content": "content is required",
	}, errs.ToMap())
}

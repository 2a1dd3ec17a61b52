package attendance

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-10")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2024, Month: time.January, Day: 10}, d)
	assert.Equal(t, "2024-01-10", d.String())

	_, err = ParseDate("10/01/2024")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestDateOf_UsesLocation(t *testing.T) {
	hcm := time.FixedZone("ICT", 7*3600)
	// 20:00 UTC on the 9th is already the 10th in Ho Chi Minh City.
	ts := time.Date(2024, 1, 9, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024-01-09", DateOf(ts).String())
	assert.Equal(t, "2024-01-10", DateOf(ts.In(hcm)).String())
}

func TestDate_JSON(t *testing.T) {
	type wrapper struct {
		Date Date `json:"date"`
	}

	data, err := json.Marshal(wrapper{Date: Date{Year: 2024, Month: time.March, Day: 5}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-03-05"}`, string(data))

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-12-31"}`), &w))
	assert.Equal(t, Date{Year: 2024, Month: time.December, Day: 31}, w.Date)

	assert.Error(t, json.Unmarshal([]byte(`{"date":"31-12-2024"}`), &w))
}

func TestKey_String(t *testing.T) {
	k := Key{UserID: "1712345678901", Date: Date{Year: 2024, Month: time.January, Day: 10}}
	assert.Equal(t, "1712345678901-2024-01-10", k.String())
}

func TestStateOf(t *testing.T) {
	now := time.Now()

	assert.Equal(t, StateNoRecord, StateOf(nil))
	assert.Equal(t, StateNoRecord, StateOf(&Attendance{}))
	assert.Equal(t, StateCheckedIn, StateOf(&Attendance{CheckIn: &now}))
	assert.Equal(t, StateCheckedOut, StateOf(&Attendance{CheckIn: &now, CheckOut: &now}))
}

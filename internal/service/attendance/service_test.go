package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/activitylog"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hrm-backend-go/internal/repository"
	"github.com/cmlabs-hris/hrm-backend-go/internal/repository/memory"
	activityLogService "github.com/cmlabs-hris/hrm-backend-go/internal/service/activitylog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hcm = time.FixedZone("ICT", 7*3600)

type fixture struct {
	svc     attendance.AttendanceService
	repo    attendance.AttendanceRepository
	logs    activitylog.ActivityLogService
	clock   *clock.Fixed
	today   attendance.Date
	session user.Session
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := memory.NewStore()
	clk := clock.NewFixed(time.Date(2024, 1, 10, 8, 30, 0, 0, hcm))
	repo := memory.NewAttendanceRepository(store)
	logs := activityLogService.NewActivityLogService(memory.NewActivityLogRepository(store), sse.NewHub(), clk)

	return fixture{
		svc:     NewAttendanceService(repository.NoTx{}, repo, logs, clk),
		repo:    repo,
		logs:    logs,
		clock:   clk,
		today:   attendance.Date{Year: 2024, Month: time.January, Day: 10},
		session: user.Session{ID: "u1", FullName: "Nguyen Van A", Role: user.RoleUser},
	}
}

func (f fixture) logCount(t *testing.T) int {
	t.Helper()
	entries, err := f.logs.List(context.Background())
	require.NoError(t, err)
	return len(entries)
}

func TestCheckIn_CreatesRecordAndLog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rec, err := f.svc.CheckIn(ctx, f.session, f.today)
	require.NoError(t, err)

	assert.Equal(t, "u1-2024-01-10", rec.ID)
	assert.Equal(t, "u1", rec.UserID)
	assert.Equal(t, attendance.StatusPresent, rec.Status)
	require.NotNil(t, rec.CheckIn)
	assert.Equal(t, f.clock.Now(), *rec.CheckIn)
	assert.Nil(t, rec.CheckOut)

	entries, err := f.logs.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, activitylog.TypeAdd, entries[0].Type)
	assert.Equal(t, "Nguyen Van A", entries[0].Name)
	assert.Equal(t, "Check-in lúc 08:30:00 ngày 10/01/2024", entries[0].Details)
}

func TestCheckIn_RejectsOtherDays(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, d := range []attendance.Date{
		{Year: 2024, Month: time.January, Day: 9},
		{Year: 2024, Month: time.January, Day: 11},
	} {
		_, err := f.svc.CheckIn(ctx, f.session, d)
		assert.ErrorIs(t, err, attendance.ErrNotToday)

		_, err = f.svc.CheckOut(ctx, f.session, d)
		assert.ErrorIs(t, err, attendance.ErrNotToday)
	}

	all, err := f.repo.List(ctx, attendance.Filter{})
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Equal(t, 0, f.logCount(t))
}

func TestCheckIn_TodayFollowsBusinessTimezone(t *testing.T) {
	f := newFixture(t)
	// 18:00 UTC on the 9th is 01:00 on the 10th in Ho Chi Minh City.
	f.clock.Set(time.Date(2024, 1, 9, 18, 0, 0, 0, time.UTC).In(hcm))

	_, err := f.svc.CheckIn(context.Background(), f.session, f.today)
	assert.NoError(t, err)
}

func TestCheckIn_TwiceKeepsOriginalTimestamp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.CheckIn(ctx, f.session, f.today)
	require.NoError(t, err)

	f.clock.Advance(10 * time.Minute)
	_, err = f.svc.CheckIn(ctx, f.session, f.today)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

	stored, err := f.repo.GetByKey(ctx, attendance.Key{UserID: "u1", Date: f.today})
	require.NoError(t, err)
	assert.Equal(t, *first.CheckIn, *stored.CheckIn)
	assert.Equal(t, 1, stored.Version)
	assert.Equal(t, 1, f.logCount(t))
}

func TestCheckIn_FillsRecordWithoutCheckIn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	note := "imported"
	_, err := f.repo.Create(ctx, attendance.Attendance{UserID: "u1", Date: f.today, Status: attendance.StatusPresent, Note: &note})
	require.NoError(t, err)

	rec, err := f.svc.CheckIn(ctx, f.session, f.today)
	require.NoError(t, err)
	require.NotNil(t, rec.CheckIn)
	assert.Equal(t, &note, rec.Note)
	assert.Equal(t, 2, rec.Version)

	all, err := f.repo.List(ctx, attendance.Filter{UserID: "u1"})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCheckOut_BeforeCheckIn(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CheckOut(context.Background(), f.session, f.today)
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)
	assert.Equal(t, 0, f.logCount(t))
}

func TestCheckOut_AfterCheckIn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in, err := f.svc.CheckIn(ctx, f.session, f.today)
	require.NoError(t, err)

	f.clock.Advance(9 * time.Hour)
	out, err := f.svc.CheckOut(ctx, f.session, f.today)
	require.NoError(t, err)

	assert.Equal(t, *in.CheckIn, *out.CheckIn)
	require.NotNil(t, out.CheckOut)
	assert.Equal(t, f.clock.Now(), *out.CheckOut)
	assert.Equal(t, attendance.StatusPresent, out.Status)
	assert.Equal(t, attendance.StateCheckedOut, attendance.StateOf(&out))

	all, err := f.repo.List(ctx, attendance.Filter{UserID: "u1", Date: &f.today})
	require.NoError(t, err)
	assert.Len(t, all, 1)

	entries, err := f.logs.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, activitylog.TypeUpdate, entries[0].Type)
	assert.Equal(t, "Check-out lúc 17:30:00 ngày 10/01/2024", entries[0].Details)

	_, err = f.svc.CheckOut(ctx, f.session, f.today)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
	_, err = f.svc.CheckIn(ctx, f.session, f.today)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
	assert.Equal(t, 2, f.logCount(t))
}

// staleRepository serves an old version on read so the conditional write loses.
type staleRepository struct {
	attendance.AttendanceRepository
}

func (s staleRepository) GetByKey(ctx context.Context, key attendance.Key) (attendance.Attendance, error) {
	rec, err := s.AttendanceRepository.GetByKey(ctx, key)
	rec.Version--
	return rec, err
}

func TestCheckOut_StaleVersionConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in, err := f.svc.CheckIn(ctx, f.session, f.today)
	require.NoError(t, err)

	f.clock.Advance(8 * time.Hour)
	svc := NewAttendanceService(repository.NoTx{}, staleRepository{f.repo}, f.logs, f.clock)
	_, err = svc.CheckOut(ctx, f.session, f.today)
	assert.ErrorIs(t, err, repository.ErrConflict)

	stored, err := f.repo.GetByKey(ctx, in.Key())
	require.NoError(t, err)
	assert.Nil(t, stored.CheckOut)
	assert.Equal(t, in.Version, stored.Version)
	assert.Equal(t, 1, f.logCount(t))
}

func TestCheckOut_RejectsOtherDaysAfterCheckIn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in, err := f.svc.CheckIn(ctx, f.session, f.today)
	require.NoError(t, err)

	// Still checked in on the 10th when the clock rolls over to the 11th.
	f.clock.Advance(16 * time.Hour)
	_, err = f.svc.CheckOut(ctx, f.session, f.today)
	assert.ErrorIs(t, err, attendance.ErrNotToday)

	stored, err := f.repo.GetByKey(ctx, in.Key())
	require.NoError(t, err)
	assert.Nil(t, stored.CheckOut)
	assert.Equal(t, 1, f.logCount(t))
}

func TestListAttendance_ScopesNonAdmins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	other := user.Session{ID: "u2", FullName: "Tran Thi B", Role: user.RoleUser}
	admin := user.Session{ID: "a1", FullName: "Admin", Role: user.RoleAdmin}

	_, err := f.svc.CheckIn(ctx, f.session, f.today)
	require.NoError(t, err)
	_, err = f.svc.CheckIn(ctx, other, f.today)
	require.NoError(t, err)

	mine, err := f.svc.ListAttendance(ctx, f.session, f.today, "u2")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "u1", mine[0].UserID)

	theirs, err := f.svc.ListAttendance(ctx, admin, f.today, "u2")
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.Equal(t, "u2", theirs[0].UserID)

	yesterday := attendance.Date{Year: 2024, Month: time.January, Day: 9}
	none, err := f.svc.ListAttendance(ctx, admin, yesterday, "u2")
	require.NoError(t, err)
	assert.Empty(t, none)
}

package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/request"
	"github.com/cmlabs-hris/hrm-backend-go/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttendanceRepository_CreateIsUniquePerKey(t *testing.T) {
	ctx := context.Background()
	repo := NewAttendanceRepository(NewStore())
	now := time.Now()
	day := attendance.DateOf(now)

	var wg sync.WaitGroup
	results := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(ctx, attendance.Attendance{UserID: "u1", Date: day, CheckIn: &now, Status: attendance.StatusPresent})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	created, conflicts := 0, 0
	for err := range results {
		switch {
		case err == nil:
			created++
		case assert.ErrorIs(t, err, repository.ErrConflict):
			conflicts++
		}
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, 9, conflicts)

	records, err := repo.List(ctx, attendance.Filter{UserID: "u1", Date: &day})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "u1-"+day.String(), records[0].ID)
	assert.Equal(t, 1, records[0].Version)
}

func TestAttendanceRepository_PatchIsConditional(t *testing.T) {
	ctx := context.Background()
	repo := NewAttendanceRepository(NewStore())
	now := time.Now()
	key := attendance.Key{UserID: "u1", Date: attendance.DateOf(now)}

	_, err := repo.Create(ctx, attendance.Attendance{UserID: key.UserID, Date: key.Date, CheckIn: &now, Status: attendance.StatusPresent})
	require.NoError(t, err)

	out := now.Add(8 * time.Hour)
	updated, err := repo.Patch(ctx, key, 1, attendance.Patch{CheckOut: &out})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)
	assert.Equal(t, now, *updated.CheckIn)

	_, err = repo.Patch(ctx, key, 1, attendance.Patch{CheckOut: &out})
	assert.ErrorIs(t, err, repository.ErrConflict)

	_, err = repo.Patch(ctx, attendance.Key{UserID: "nobody", Date: key.Date}, 1, attendance.Patch{CheckOut: &out})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRequestRepository_VersionedWrites(t *testing.T) {
	ctx := context.Background()
	repo := NewRequestRepository(NewStore())

	created, err := repo.Create(ctx, request.Form{EmployeeID: "u1", Type: request.TypeLeave, Status: request.StatusPending})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 1, created.Version)

	stale := created
	created.Status = request.StatusApproved
	updated, err := repo.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)

	stale.Content = "edited"
	_, err = repo.Update(ctx, stale)
	assert.ErrorIs(t, err, repository.ErrConflict)

	assert.ErrorIs(t, repo.Delete(ctx, created.ID, 1), repository.ErrConflict)
	assert.NoError(t, repo.Delete(ctx, created.ID, 2))
	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRequestRepository_ListByEmployee(t *testing.T) {
	ctx := context.Background()
	repo := NewRequestRepository(NewStore())

	_, _ = repo.Create(ctx, request.Form{EmployeeID: "u1"})
	_, _ = repo.Create(ctx, request.Form{EmployeeID: "u2"})
	_, _ = repo.Create(ctx, request.Form{EmployeeID: "u1"})

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

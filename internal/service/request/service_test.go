package request

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/activitylog"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/request"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hrm-backend-go/internal/repository"
	"github.com/cmlabs-hris/hrm-backend-go/internal/repository/memory"
	activityLogService "github.com/cmlabs-hris/hrm-backend-go/internal/service/activitylog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	employeeA = user.Session{ID: "u1", FullName: "Nguyen Van A", Role: user.RoleUser}
	employeeB = user.Session{ID: "u2", FullName: "Tran Thi B", Role: user.RoleUser}
	admin     = user.Session{ID: "a1", FullName: "Le Quan Tri", Role: user.RoleAdmin}
)

type fixture struct {
	svc   request.RequestService
	repo  request.RequestRepository
	logs  activitylog.ActivityLogService
	clock *clock.Fixed
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := memory.NewStore()
	clk := clock.NewFixed(time.Date(2024, 1, 10, 9, 0, 0, 0, time.FixedZone("ICT", 7*3600)))
	repo := memory.NewRequestRepository(store)
	logs := activityLogService.NewActivityLogService(memory.NewActivityLogRepository(store), sse.NewHub(), clk)

	return fixture{
		svc:   NewRequestService(repository.NoTx{}, repo, logs, clk),
		repo:  repo,
		logs:  logs,
		clock: clk,
	}
}

func leaveInput() request.FormInput {
	return request.FormInput{
		Type:      request.TypeLeave,
		Content:   "Về quê",
		StartDate: "2024-01-15",
		EndDate:   "2024-01-16",
	}
}

func (f fixture) create(t *testing.T, s user.Session, in request.FormInput) request.Form {
	t.Helper()
	form, err := f.svc.CreateRequest(context.Background(), s, request.CreateRequestRequest{FormInput: in})
	require.NoError(t, err)
	return form
}

func (f fixture) entries(t *testing.T) []activitylog.Entry {
	t.Helper()
	entries, err := f.logs.List(context.Background())
	require.NoError(t, err)
	return entries
}

func TestCreateRequest(t *testing.T) {
	f := newFixture(t)

	form := f.create(t, employeeA, leaveInput())

	assert.NotEmpty(t, form.ID)
	assert.Equal(t, "u1", form.EmployeeID)
	assert.Equal(t, "Nguyen Van A", form.EmployeeName)
	assert.Equal(t, request.StatusPending, form.Status)
	assert.Equal(t, "15/01/2024 - 16/01/2024", form.Time)
	assert.Equal(t, f.clock.Now(), form.SubmissionDate)
	assert.Nil(t, form.ApprovedBy)
	assert.Equal(t, 1, form.Version)

	entries := f.entries(t)
	require.Len(t, entries, 1)
	assert.Equal(t, activitylog.TypeAdd, entries[0].Type)
	assert.Contains(t, entries[0].Details, request.TypeLeave)
}

func TestCreateRequest_OtherUsesCustomType(t *testing.T) {
	f := newFixture(t)

	in := leaveInput()
	in.Type = request.TypeOtherEN
	in.CustomType = "  Đi học  "
	form := f.create(t, employeeA, in)
	assert.Equal(t, "Đi học", form.Type)

	in.CustomType = ""
	_, err := f.svc.CreateRequest(context.Background(), employeeA, request.CreateRequestRequest{FormInput: in})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestCreateRequest_InvalidInputWritesNothing(t *testing.T) {
	f := newFixture(t)

	in := leaveInput()
	in.EndDate = "2024-01-14"
	_, err := f.svc.CreateRequest(context.Background(), employeeA, request.CreateRequestRequest{FormInput: in})
	require.Error(t, err)

	all, err := f.repo.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Empty(t, f.entries(t))
}

func TestListRequests_ScopedAndSorted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.create(t, employeeA, leaveInput())
	f.clock.Advance(time.Hour)
	overtime := leaveInput()
	overtime.Type = request.TypeOvertime
	overtime.Content = "Chạy dự án"
	second := f.create(t, employeeA, overtime)
	f.clock.Advance(time.Hour)
	other := f.create(t, employeeB, leaveInput())

	mine, err := f.svc.ListRequests(ctx, employeeA, request.Filter{})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID)
	assert.Equal(t, first.ID, mine[1].ID)

	all, err := f.svc.ListRequests(ctx, admin, request.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, other.ID, all[0].ID)

	filtered, err := f.svc.ListRequests(ctx, admin, request.Filter{Search: "dự án"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, second.ID, filtered[0].ID)
}

func TestGetRequest_Visibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	form := f.create(t, employeeA, leaveInput())

	_, err := f.svc.GetRequest(ctx, employeeA, form.ID)
	assert.NoError(t, err)
	_, err = f.svc.GetRequest(ctx, admin, form.ID)
	assert.NoError(t, err)
	_, err = f.svc.GetRequest(ctx, employeeB, form.ID)
	assert.ErrorIs(t, err, request.ErrForbidden)
	_, err = f.svc.GetRequest(ctx, admin, "missing")
	assert.ErrorIs(t, err, request.ErrRequestNotFound)
}

func TestUpdateRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	form := f.create(t, employeeA, leaveInput())

	in := leaveInput()
	in.Type = request.TypeBusinessTrip
	in.Content = "Gặp khách hàng"
	in.EndDate = "2024-01-20"

	f.clock.Advance(time.Hour)
	updated, err := f.svc.UpdateRequest(ctx, employeeA, form.ID, request.UpdateRequestRequest{FormInput: in})
	require.NoError(t, err)

	assert.Equal(t, form.ID, updated.ID)
	assert.Equal(t, request.TypeBusinessTrip, updated.Type)
	assert.Equal(t, "15/01/2024 - 20/01/2024", updated.Time)
	assert.Equal(t, form.SubmissionDate, updated.SubmissionDate)
	assert.Equal(t, request.StatusPending, updated.Status)
	assert.Equal(t, form.Version+1, updated.Version)

	_, err = f.svc.UpdateRequest(ctx, employeeB, form.ID, request.UpdateRequestRequest{FormInput: in})
	assert.ErrorIs(t, err, request.ErrForbidden)
	_, err = f.svc.UpdateRequest(ctx, admin, form.ID, request.UpdateRequestRequest{FormInput: in})
	assert.ErrorIs(t, err, request.ErrForbidden)
	_, err = f.svc.UpdateRequest(ctx, employeeA, "missing", request.UpdateRequestRequest{FormInput: in})
	assert.ErrorIs(t, err, request.ErrRequestNotFound)

	entries := f.entries(t)
	require.Len(t, entries, 2)
	assert.Equal(t, activitylog.TypeUpdate, entries[0].Type)
}

func TestApprove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	form := f.create(t, employeeA, leaveInput())

	_, err := f.svc.Approve(ctx, employeeA, form.ID, true, "")
	assert.ErrorIs(t, err, request.ErrForbidden)

	f.clock.Advance(2 * time.Hour)
	decided, err := f.svc.Approve(ctx, admin, form.ID, true, "Đồng ý")
	require.NoError(t, err)

	assert.Equal(t, request.StatusApproved, decided.Status)
	require.NotNil(t, decided.ApprovedBy)
	assert.Equal(t, "Le Quan Tri", *decided.ApprovedBy)
	require.NotNil(t, decided.ApprovalDate)
	assert.Equal(t, f.clock.Now(), *decided.ApprovalDate)
	require.NotNil(t, decided.ApprovalNote)
	assert.Equal(t, "Đồng ý", *decided.ApprovalNote)
	assert.Equal(t, form.Content, decided.Content)
	assert.Equal(t, form.SubmissionDate, decided.SubmissionDate)

	entries := f.entries(t)
	require.Len(t, entries, 2)
	assert.Equal(t, activitylog.TypeApprove, entries[0].Type)
	assert.Equal(t, "Le Quan Tri", entries[0].Name)
	assert.Contains(t, entries[0].Details, "Nguyen Van A")
	assert.Contains(t, entries[0].Details, request.TypeLeave)
	assert.Contains(t, entries[0].Details, "Đồng ý")

	_, err = f.svc.Approve(ctx, admin, form.ID, false, "")
	assert.ErrorIs(t, err, request.ErrRequestAlreadyProcessed)
	_, err = f.svc.UpdateRequest(ctx, employeeA, form.ID, request.UpdateRequestRequest{FormInput: leaveInput()})
	assert.ErrorIs(t, err, request.ErrRequestAlreadyProcessed)
	err = f.svc.DeleteRequest(ctx, employeeA, form.ID)
	assert.ErrorIs(t, err, request.ErrRequestAlreadyProcessed)
	assert.Len(t, f.entries(t), 2)
}

func TestReject_EmptyNoteOmitted(t *testing.T) {
	f := newFixture(t)
	form := f.create(t, employeeA, leaveInput())

	decided, err := f.svc.Approve(context.Background(), admin, form.ID, false, "   ")
	require.NoError(t, err)
	assert.Equal(t, request.StatusRejected, decided.Status)
	assert.Nil(t, decided.ApprovalNote)

	entries := f.entries(t)
	assert.Equal(t, activitylog.TypeReject, entries[0].Type)
}

func TestDeleteRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	form := f.create(t, employeeA, leaveInput())

	assert.ErrorIs(t, f.svc.DeleteRequest(ctx, employeeB, form.ID), request.ErrForbidden)
	require.NoError(t, f.svc.DeleteRequest(ctx, employeeA, form.ID))

	_, err := f.svc.GetRequest(ctx, employeeA, form.ID)
	assert.ErrorIs(t, err, request.ErrRequestNotFound)
	assert.ErrorIs(t, f.svc.DeleteRequest(ctx, employeeA, form.ID), request.ErrRequestNotFound)

	entries := f.entries(t)
	require.Len(t, entries, 2)
	assert.Equal(t, activitylog.TypeDelete, entries[0].Type)
}

// staleRepository serves an old version on read so the conditional write loses.
type staleRepository struct {
	request.RequestRepository
}

func (s staleRepository) GetByID(ctx context.Context, id string) (request.Form, error) {
	form, err := s.RequestRepository.GetByID(ctx, id)
	form.Version--
	return form, err
}

func TestApprove_ConflictOnStaleVersion(t *testing.T) {
	f := newFixture(t)
	form := f.create(t, employeeA, leaveInput())

	svc := NewRequestService(repository.NoTx{}, staleRepository{f.repo}, f.logs, f.clock)
	_, err := svc.Approve(context.Background(), admin, form.ID, true, "")
	assert.ErrorIs(t, err, repository.ErrConflict)

	stored, err := f.repo.GetByID(context.Background(), form.ID)
	require.NoError(t, err)
	assert.Equal(t, request.StatusPending, stored.Status)
	assert.Len(t, f.entries(t), 1)
}

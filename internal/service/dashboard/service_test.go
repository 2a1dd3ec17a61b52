package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/master/department"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/master/position"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/request"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrm-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var admin = user.Session{ID: "a1", FullName: "Le Quan Tri", Role: user.RoleAdmin}

func TestGetDashboard(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	employees := memory.NewEmployeeRepository(store)
	departments := memory.NewDepartmentRepository(store)
	positions := memory.NewPositionRepository(store)
	requests := memory.NewRequestRepository(store)

	sales, err := departments.Create(ctx, department.Department{Name: "Kinh doanh"})
	require.NoError(t, err)
	hr, err := departments.Create(ctx, department.Department{Name: "Nhân sự"})
	require.NoError(t, err)
	_, err = positions.Create(ctx, position.Position{Name: "Trưởng phòng"})
	require.NoError(t, err)

	for _, e := range []employee.Employee{
		{Name: "A", DepartmentID: sales.ID, Status: employee.StatusWorking},
		{Name: "B", DepartmentID: sales.ID, Status: employee.StatusProbation},
		{Name: "C", DepartmentID: sales.ID, Status: employee.StatusOnLeave},
		{Name: "D", Status: employee.StatusWorking},
	} {
		_, err := employees.Create(ctx, e)
		require.NoError(t, err)
	}

	_, err = requests.Create(ctx, request.Form{EmployeeID: "u1", Status: request.StatusPending})
	require.NoError(t, err)
	_, err = requests.Create(ctx, request.Form{EmployeeID: "u1", Status: request.StatusApproved})
	require.NoError(t, err)

	svc := NewDashboardService(employees, departments, positions, requests)
	resp, err := svc.GetDashboard(ctx, admin)
	require.NoError(t, err)

	assert.Equal(t, 4, resp.TotalEmployees)
	assert.Equal(t, 2, resp.TotalDepartments)
	assert.Equal(t, 1, resp.TotalPositions)
	assert.Equal(t, 1, resp.PendingRequests)
	assert.Equal(t, 1, resp.Status.Probation)
	assert.Equal(t, 2, resp.Status.Working)
	assert.Equal(t, 1, resp.Status.OnLeave)

	require.Len(t, resp.ByDepartment, 2)
	assert.Equal(t, "Kinh doanh", resp.ByDepartment[0].Name)
	assert.Equal(t, 3, resp.ByDepartment[0].Employees)
	assert.Equal(t, hr.ID, resp.ByDepartment[1].DepartmentID)
	assert.Equal(t, 0, resp.ByDepartment[1].Employees)
	assert.Len(t, resp.RecentEmployees, 4)
}

func TestGetDashboard_RecentEmployees(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	employees := memory.NewEmployeeRepository(store)

	day := func(d int) *time.Time {
		joined := time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
		return &joined
	}
	for _, e := range []employee.Employee{
		{Name: "Undated", Status: employee.StatusWorking},
		{Name: "Jan 03", StartDate: day(3), Status: employee.StatusWorking},
		{Name: "Jan 20", StartDate: day(20), Status: employee.StatusProbation},
		{Name: "Jan 01", StartDate: day(1), Status: employee.StatusWorking},
		{Name: "Jan 15", StartDate: day(15), Status: employee.StatusWorking},
		{Name: "Jan 10", StartDate: day(10), Status: employee.StatusWorking},
	} {
		_, err := employees.Create(ctx, e)
		require.NoError(t, err)
	}

	svc := NewDashboardService(employees, memory.NewDepartmentRepository(store), memory.NewPositionRepository(store), memory.NewRequestRepository(store))
	resp, err := svc.GetDashboard(ctx, admin)
	require.NoError(t, err)

	names := make([]string, 0, len(resp.RecentEmployees))
	for _, e := range resp.RecentEmployees {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"Jan 20", "Jan 15", "Jan 10", "Jan 03", "Jan 01"}, names)
	require.NotNil(t, resp.RecentEmployees[0].StartDate)
	assert.Equal(t, "2024-01-20", *resp.RecentEmployees[0].StartDate)
}

func TestGetDashboard_RecentEmployees_UndatedLast(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	employees := memory.NewEmployeeRepository(store)

	joined := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	for _, e := range []employee.Employee{
		{Name: "Undated"},
		{Name: "Dated", StartDate: &joined},
	} {
		_, err := employees.Create(ctx, e)
		require.NoError(t, err)
	}

	svc := NewDashboardService(employees, memory.NewDepartmentRepository(store), memory.NewPositionRepository(store), memory.NewRequestRepository(store))
	resp, err := svc.GetDashboard(ctx, admin)
	require.NoError(t, err)

	require.Len(t, resp.RecentEmployees, 2)
	assert.Equal(t, "Dated", resp.RecentEmployees[0].Name)
	assert.Equal(t, "Undated", resp.RecentEmployees[1].Name)
}

func TestGetDashboard_RequiresAdmin(t *testing.T) {
	store := memory.NewStore()
	svc := NewDashboardService(
		memory.NewEmployeeRepository(store),
		memory.NewDepartmentRepository(store),
		memory.NewPositionRepository(store),
		memory.NewRequestRepository(store),
	)

	_, err := svc.GetDashboard(context.Background(), user.Session{ID: "u1", Role: user.RoleUser})
	assert.ErrorIs(t, err, user.ErrAdminPrivilegeRequired)
}

type failingPositions struct {
	position.PositionRepository
}

func (failingPositions) List(ctx context.Context) ([]position.Position, error) {
	return nil, errors.New("store down")
}

func TestGetDashboard_PropagatesStoreFailure(t *testing.T) {
	store := memory.NewStore()
	svc := NewDashboardService(
		memory.NewEmployeeRepository(store),
		memory.NewDepartmentRepository(store),
		failingPositions{},
		memory.NewRequestRepository(store),
	)

	_, err := svc.GetDashboard(context.Background(), admin)
	assert.ErrorContains(t, err, "store down")
}

package dashboard

import (
	"context"
	"fmt"
	"sort"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/master/department"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/master/position"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/request"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/user"
	"golang.org/x/sync/errgroup"
)

type DashboardServiceImpl struct {
	employeeRepo   employee.EmployeeRepository
	departmentRepo department.DepartmentRepository
	positionRepo   position.PositionRepository
	requestRepo    request.RequestRepository
}

func NewDashboardService(
	employeeRepo employee.EmployeeRepository,
	departmentRepo department.DepartmentRepository,
	positionRepo position.PositionRepository,
	requestRepo request.RequestRepository,
) dashboard.DashboardService {
	return &DashboardServiceImpl{
		employeeRepo:   employeeRepo,
		departmentRepo: departmentRepo,
		positionRepo:   positionRepo,
		requestRepo:    requestRepo,
	}
}

// GetDashboard implements dashboard.DashboardService.
func (s *DashboardServiceImpl) GetDashboard(ctx context.Context, session user.Session) (*dashboard.DashboardResponse, error) {
	if !session.Can(user.PermissionDashboardView) {
		return nil, user.ErrAdminPrivilegeRequired
	}

	var (
		employees   []employee.Employee
		departments []department.Department
		positions   []position.Position
		forms       []request.Form
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		employees, err = s.employeeRepo.List(gCtx, employee.Filter{})
		if err != nil {
			return fmt.Errorf("failed to list employees: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		departments, err = s.departmentRepo.List(gCtx)
		if err != nil {
			return fmt.Errorf("failed to list departments: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		positions, err = s.positionRepo.List(gCtx)
		if err != nil {
			return fmt.Errorf("failed to list positions: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		forms, err = s.requestRepo.List(gCtx, "")
		if err != nil {
			return fmt.Errorf("failed to list requests: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	resp := &dashboard.DashboardResponse{
		TotalEmployees:   len(employees),
		TotalDepartments: len(departments),
		TotalPositions:   len(positions),
		ByDepartment:     make([]dashboard.DepartmentHeadcount, 0, len(departments)),
	}

	for _, f := range forms {
		if f.IsPending() {
			resp.PendingRequests++
		}
	}

	headcount := make(map[string]int, len(departments))
	for _, e := range employees {
		switch e.Status {
		case employee.StatusProbation:
			resp.Status.Probation++
		case employee.StatusWorking:
			resp.Status.Working++
		case employee.StatusOnLeave:
			resp.Status.OnLeave++
		}
		headcount[e.DepartmentID]++
	}

	// Departments without employees still get a bar.
	for _, d := range departments {
		resp.ByDepartment = append(resp.ByDepartment, dashboard.DepartmentHeadcount{
			DepartmentID: d.ID,
			Name:         d.Name,
			Employees:    headcount[d.ID],
		})
	}

	resp.RecentEmployees = employee.NewEmployeeResponses(recentlyJoined(employees, dashboard.RecentEmployeesLimit))

	return resp, nil
}

// recentlyJoined returns up to limit employees, latest start date first.
func recentlyJoined(employees []employee.Employee, limit int) []employee.Employee {
	sorted := make([]employee.Employee, len(employees))
	copy(sorted, employees)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].StartDate, sorted[j].StartDate
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		return a.After(*b)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

package employee

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/activitylog"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/master/department"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/master/position"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hrm-backend-go/internal/repository"
)

type EmployeeServiceImpl struct {
	tx             repository.TxManager
	employeeRepo   employee.EmployeeRepository
	departmentRepo department.DepartmentRepository
	positionRepo   position.PositionRepository
	logs           activitylog.Recorder
}

func NewEmployeeService(
	tx repository.TxManager,
	employeeRepo employee.EmployeeRepository,
	departmentRepo department.DepartmentRepository,
	positionRepo position.PositionRepository,
	logs activitylog.Recorder,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		tx:             tx,
		employeeRepo:   employeeRepo,
		departmentRepo: departmentRepo,
		positionRepo:   positionRepo,
		logs:           logs,
	}
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, session user.Session, filter employee.EmployeeFilter) ([]employee.Employee, error) {
	if !session.Can(user.PermissionEmployeeManage) {
		return nil, user.ErrAdminPrivilegeRequired
	}

	list, err := s.employeeRepo.List(ctx, employee.Filter{DepartmentID: filter.DepartmentID})
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	departmentNames, positionNames, err := s.names(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]employee.Employee, 0, len(list))
	for _, e := range list {
		resolveNames(&e, departmentNames, positionNames)
		if filter.Match(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, session user.Session, id string) (employee.Employee, error) {
	if !session.Can(user.PermissionEmployeeManage) {
		return employee.Employee{}, user.ErrAdminPrivilegeRequired
	}

	e, err := s.get(ctx, id)
	if err != nil {
		return employee.Employee{}, err
	}

	departmentNames, positionNames, err := s.names(ctx)
	if err != nil {
		return employee.Employee{}, err
	}
	resolveNames(&e, departmentNames, positionNames)
	return e, nil
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, session user.Session, req employee.CreateEmployeeRequest) (employee.Employee, error) {
	if !session.Can(user.PermissionEmployeeManage) {
		return employee.Employee{}, user.ErrAdminPrivilegeRequired
	}
	if err := req.Validate(); err != nil {
		return employee.Employee{}, err
	}

	newEmployee, err := s.build(ctx, "", req.Name, req.Email, req.DepartmentID, req.PositionID, req.Status, req.StartDate)
	if err != nil {
		return employee.Employee{}, err
	}

	var created employee.Employee
	err = repository.Transact(ctx, s.tx, func(ctx context.Context) error {
		created, err = s.employeeRepo.Create(ctx, newEmployee)
		if err != nil {
			return fmt.Errorf("failed to create employee: %w", err)
		}
		_, err = s.logs.Record(ctx, session.FullName, activitylog.TypeAdd, "Thêm nhân viên mới "+created.Name)
		return err
	})
	if err != nil {
		return employee.Employee{}, err
	}

	return created, nil
}

// UpdateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, session user.Session, req employee.UpdateEmployeeRequest) (employee.Employee, error) {
	if !session.Can(user.PermissionEmployeeManage) {
		return employee.Employee{}, user.ErrAdminPrivilegeRequired
	}
	if err := req.Validate(); err != nil {
		return employee.Employee{}, err
	}

	existing, err := s.get(ctx, req.ID)
	if err != nil {
		return employee.Employee{}, err
	}

	status := req.Status
	if status == "" {
		status = existing.Status
	}
	changed, err := s.build(ctx, existing.ID, req.Name, req.Email, req.DepartmentID, req.PositionID, status, req.StartDate)
	if err != nil {
		return employee.Employee{}, err
	}

	var updated employee.Employee
	err = repository.Transact(ctx, s.tx, func(ctx context.Context) error {
		updated, err = s.employeeRepo.Update(ctx, changed)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return employee.ErrEmployeeNotFound
			}
			return fmt.Errorf("failed to update employee: %w", err)
		}
		_, err = s.logs.Record(ctx, session.FullName, activitylog.TypeUpdate, "Cập nhật thông tin nhân viên "+updated.Name)
		return err
	})
	if err != nil {
		return employee.Employee{}, err
	}

	return updated, nil
}

// DeleteEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, session user.Session, id string) error {
	if !session.Can(user.PermissionEmployeeManage) {
		return user.ErrAdminPrivilegeRequired
	}

	existing, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	return repository.Transact(ctx, s.tx, func(ctx context.Context) error {
		if err := s.employeeRepo.Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return employee.ErrEmployeeNotFound
			}
			return fmt.Errorf("failed to delete employee: %w", err)
		}
		_, err := s.logs.Record(ctx, session.FullName, activitylog.TypeDelete, "Xóa nhân viên "+existing.Name)
		return err
	})
}

func (s *EmployeeServiceImpl) get(ctx context.Context, id string) (employee.Employee, error) {
	e, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return e, nil
}

// build validates references and the email, then assembles the record to store.
func (s *EmployeeServiceImpl) build(ctx context.Context, id, name, email, departmentID, positionID, status, startDate string) (employee.Employee, error) {
	e := employee.Employee{
		ID:     id,
		Name:   strings.TrimSpace(name),
		Email:  strings.ToLower(strings.TrimSpace(email)),
		Status: status,
	}
	if e.Status == "" {
		e.Status = employee.StatusProbation
	}
	if start, ok := validator.IsValidDate(startDate); ok {
		e.StartDate = &start
	}

	if departmentID != "" {
		d, err := s.departmentRepo.GetByID(ctx, departmentID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return employee.Employee{}, employee.ErrDepartmentNotFound
			}
			return employee.Employee{}, fmt.Errorf("failed to get department: %w", err)
		}
		e.DepartmentID, e.Department = d.ID, d.Name
	}
	if positionID != "" {
		p, err := s.positionRepo.GetByID(ctx, positionID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return employee.Employee{}, employee.ErrPositionNotFound
			}
			return employee.Employee{}, fmt.Errorf("failed to get position: %w", err)
		}
		e.PositionID, e.Position = p.ID, p.Name
	}

	if e.Email != "" {
		all, err := s.employeeRepo.List(ctx, employee.Filter{})
		if err != nil {
			return employee.Employee{}, fmt.Errorf("failed to list employees: %w", err)
		}
		for _, other := range all {
			if other.ID != id && strings.EqualFold(other.Email, e.Email) {
				return employee.Employee{}, employee.ErrEmailExists
			}
		}
	}

	return e, nil
}

// names maps department and position ids to their current names.
func (s *EmployeeServiceImpl) names(ctx context.Context) (map[string]string, map[string]string, error) {
	departments, err := s.departmentRepo.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list departments: %w", err)
	}
	positions, err := s.positionRepo.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list positions: %w", err)
	}

	departmentNames := make(map[string]string, len(departments))
	for _, d := range departments {
		departmentNames[d.ID] = d.Name
	}
	positionNames := make(map[string]string, len(positions))
	for _, p := range positions {
		positionNames[p.ID] = p.Name
	}
	return departmentNames, positionNames, nil
}

// resolveNames replaces the stored name snapshots with current names. Ids that
// no longer resolve keep their snapshot.
func resolveNames(e *employee.Employee, departmentNames, positionNames map[string]string) {
	if name, ok := departmentNames[e.DepartmentID]; ok {
		e.Department = name
	}
	if name, ok := positionNames[e.PositionID]; ok {
		e.Position = name
	}
}

package master

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
	"github.com/cmlabs-hris/hrm-backend-go/internal/repository"
)

type MasterService interface {
	// Department operations
	ListDepartments(ctx context.Context, session user.Session, search string) ([]department.DepartmentResponse, error)
	GetDepartment(ctx context.Context, session user.Session, id string) (department.DepartmentResponse, error)
	CreateDepartment(ctx context.Context, session user.Session, req department.CreateDepartmentRequest) (department.DepartmentResponse, error)
	UpdateDepartment(ctx context.Context, session user.Session, req department.UpdateDepartmentRequest) (department.DepartmentResponse, error)
	DeleteDepartment(ctx context.Context, session user.Session, id string) error

	// Position operations
	ListPositions(ctx context.Context, session user.Session, search string) ([]position.PositionResponse, error)
	GetPosition(ctx context.Context, session user.Session, id string) (position.PositionResponse, error)
	CreatePosition(ctx context.Context, session user.Session, req position.CreatePositionRequest) (position.PositionResponse, error)
	UpdatePosition(ctx context.Context, session user.Session, req position.UpdatePositionRequest) (position.PositionResponse, error)
	DeletePosition(ctx context.Context, session user.Session, id string) error
}

type masterServiceImpl struct {
	tx             repository.TxManager
	departmentRepo department.DepartmentRepository
	positionRepo   position.PositionRepository
	employeeRepo   employee.EmployeeRepository
	logs           activitylog.Recorder
}

func NewMasterService(
	tx repository.TxManager,
	departmentRepo department.DepartmentRepository,
	positionRepo position.PositionRepository,
	employeeRepo employee.EmployeeRepository,
	logs activitylog.Recorder,
) MasterService {
	return &masterServiceImpl{
		tx:             tx,
		departmentRepo: departmentRepo,
		positionRepo:   positionRepo,
		employeeRepo:   employeeRepo,
		logs:           logs,
	}
}

// ==================== DEPARTMENT OPERATIONS ====================

func (s *masterServiceImpl) ListDepartments(ctx context.Context, session user.Session, search string) ([]department.DepartmentResponse, error) {
	if !session.Can(user.PermissionDepartmentManage) {
		return nil, user.ErrAdminPrivilegeRequired
	}

	list, err := s.departmentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}

	responses := make([]department.DepartmentResponse, 0, len(list))
	for _, d := range list {
		if department.Matches(d, search) {
			responses = append(responses, department.NewDepartmentResponse(d))
		}
	}
	return responses, nil
}

func (s *masterServiceImpl) GetDepartment(ctx context.Context, session user.Session, id string) (department.DepartmentResponse, error) {
	if !session.Can(user.PermissionDepartmentManage) {
		return department.DepartmentResponse{}, user.ErrAdminPrivilegeRequired
	}

	d, err := s.getDepartment(ctx, id)
	if err != nil {
		return department.DepartmentResponse{}, err
	}
	return department.NewDepartmentResponse(d), nil
}

func (s *masterServiceImpl) CreateDepartment(ctx context.Context, session user.Session, req department.CreateDepartmentRequest) (department.DepartmentResponse, error) {
	if !session.Can(user.PermissionDepartmentManage) {
		return department.DepartmentResponse{}, user.ErrAdminPrivilegeRequired
	}
	if err := req.Validate(); err != nil {
		return department.DepartmentResponse{}, err
	}
	if err := s.checkDepartmentName(ctx, "", req.Name); err != nil {
		return department.DepartmentResponse{}, err
	}

	var created department.Department
	err := repository.Transact(ctx, s.tx, func(ctx context.Context) error {
		var err error
		created, err = s.departmentRepo.Create(ctx, department.Department{
			Name:        strings.TrimSpace(req.Name),
			Description: strings.TrimSpace(req.Description),
		})
		if err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return department.ErrDepartmentNameExists
			}
			return fmt.Errorf("failed to create department: %w", err)
		}
		_, err = s.logs.Record(ctx, session.FullName, activitylog.TypeAdd, "Thêm phòng ban mới "+created.Name)
		return err
	})
	if err != nil {
		return department.DepartmentResponse{}, err
	}

	return department.NewDepartmentResponse(created), nil
}

func (s *masterServiceImpl) UpdateDepartment(ctx context.Context, session user.Session, req department.UpdateDepartmentRequest) (department.DepartmentResponse, error) {
	if !session.Can(user.PermissionDepartmentManage) {
		return department.DepartmentResponse{}, user.ErrAdminPrivilegeRequired
	}
	if err := req.Validate(); err != nil {
		return department.DepartmentResponse{}, err
	}

	existing, err := s.getDepartment(ctx, req.ID)
	if err != nil {
		return department.DepartmentResponse{}, err
	}
	if err := s.checkDepartmentName(ctx, req.ID, req.Name); err != nil {
		return department.DepartmentResponse{}, err
	}

	existing.Name = strings.TrimSpace(req.Name)
	existing.Description = strings.TrimSpace(req.Description)

	var updated department.Department
	err = repository.Transact(ctx, s.tx, func(ctx context.Context) error {
		var err error
		updated, err = s.departmentRepo.Update(ctx, existing)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return department.ErrDepartmentNotFound
			}
			return fmt.Errorf("failed to update department: %w", err)
		}
		_, err = s.logs.Record(ctx, session.FullName, activitylog.TypeUpdate, "Cập nhật phòng ban "+updated.Name)
		return err
	})
	if err != nil {
		return department.DepartmentResponse{}, err
	}

	return department.NewDepartmentResponse(updated), nil
}

func (s *masterServiceImpl) DeleteDepartment(ctx context.Context, session user.Session, id string) error {
	if !session.Can(user.PermissionDepartmentManage) {
		return user.ErrAdminPrivilegeRequired
	}

	existing, err := s.getDepartment(ctx, id)
	if err != nil {
		return err
	}

	assigned, err := s.employeeRepo.List(ctx, employee.Filter{DepartmentID: id})
	if err != nil {
		return fmt.Errorf("failed to list employees of department: %w", err)
	}
	if len(assigned) > 0 {
		return department.ErrDepartmentInUse
	}

	return repository.Transact(ctx, s.tx, func(ctx context.Context) error {
		if err := s.departmentRepo.Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return department.ErrDepartmentNotFound
			}
			return fmt.Errorf("failed to delete department: %w", err)
		}
		_, err := s.logs.Record(ctx, session.FullName, activitylog.TypeDelete, "Xóa phòng ban "+existing.Name)
		return err
	})
}

func (s *masterServiceImpl) getDepartment(ctx context.Context, id string) (department.Department, error) {
	d, err := s.departmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return department.Department{}, department.ErrDepartmentNotFound
		}
		return department.Department{}, fmt.Errorf("failed to get department: %w", err)
	}
	return d, nil
}

// checkDepartmentName rejects a name already used by a department other than selfID.
func (s *masterServiceImpl) checkDepartmentName(ctx context.Context, selfID, name string) error {
	list, err := s.departmentRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list departments: %w", err)
	}
	for _, d := range list {
		if d.ID != selfID && department.SameName(d.Name, name) {
			return department.ErrDepartmentNameExists
		}
	}
	return nil
}

// ==================== POSITION OPERATIONS ====================

func (s *masterServiceImpl) ListPositions(ctx context.Context, session user.Session, search string) ([]position.PositionResponse, error) {
	if !session.Can(user.PermissionPositionManage) {
		return nil, user.ErrAdminPrivilegeRequired
	}

	list, err := s.positionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}

	responses := make([]position.PositionResponse, 0, len(list))
	for _, p := range list {
		if position.Matches(p, search) {
			responses = append(responses, position.NewPositionResponse(p))
		}
	}
	return responses, nil
}

func (s *masterServiceImpl) GetPosition(ctx context.Context, session user.Session, id string) (position.PositionResponse, error) {
	if !session.Can(user.PermissionPositionManage) {
		return position.PositionResponse{}, user.ErrAdminPrivilegeRequired
	}

	p, err := s.getPosition(ctx, id)
	if err != nil {
		return position.PositionResponse{}, err
	}
	return position.NewPositionResponse(p), nil
}

func (s *masterServiceImpl) CreatePosition(ctx context.Context, session user.Session, req position.CreatePositionRequest) (position.PositionResponse, error) {
	if !session.Can(user.PermissionPositionManage) {
		return position.PositionResponse{}, user.ErrAdminPrivilegeRequired
	}
	if err := req.Validate(); err != nil {
		return position.PositionResponse{}, err
	}
	if err := s.checkPositionName(ctx, "", req.Name); err != nil {
		return position.PositionResponse{}, err
	}

	var created position.Position
	err := repository.Transact(ctx, s.tx, func(ctx context.Context) error {
		var err error
		created, err = s.positionRepo.Create(ctx, position.Position{
			Name:        strings.TrimSpace(req.Name),
			Description: strings.TrimSpace(req.Description),
		})
		if err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return position.ErrPositionNameExists
			}
			return fmt.Errorf("failed to create position: %w", err)
		}
		_, err = s.logs.Record(ctx, session.FullName, activitylog.TypeAdd, "Thêm chức vụ mới "+created.Name)
		return err
	})
	if err != nil {
		return position.PositionResponse{}, err
	}

	return position.NewPositionResponse(created), nil
}

func (s *masterServiceImpl) UpdatePosition(ctx context.Context, session user.Session, req position.UpdatePositionRequest) (position.PositionResponse, error) {
	if !session.Can(user.PermissionPositionManage) {
		return position.PositionResponse{}, user.ErrAdminPrivilegeRequired
	}
	if err := req.Validate(); err != nil {
		return position.PositionResponse{}, err
	}

	existing, err := s.getPosition(ctx, req.ID)
	if err != nil {
		return position.PositionResponse{}, err
	}
	if err := s.checkPositionName(ctx, req.ID, req.Name); err != nil {
		return position.PositionResponse{}, err
	}

	existing.Name = strings.TrimSpace(req.Name)
	existing.Description = strings.TrimSpace(req.Description)

	var updated position.Position
	err = repository.Transact(ctx, s.tx, func(ctx context.Context) error {
		var err error
		updated, err = s.positionRepo.Update(ctx, existing)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return position.ErrPositionNotFound
			}
			return fmt.Errorf("failed to update position: %w", err)
		}
		_, err = s.logs.Record(ctx, session.FullName, activitylog.TypeUpdate, "Cập nhật chức vụ "+updated.Name)
		return err
	})
	if err != nil {
		return position.PositionResponse{}, err
	}

	return position.NewPositionResponse(updated), nil
}

func (s *masterServiceImpl) DeletePosition(ctx context.Context, session user.Session, id string) error {
	if !session.Can(user.PermissionPositionManage) {
		return user.ErrAdminPrivilegeRequired
	}

	existing, err := s.getPosition(ctx, id)
	if err != nil {
		return err
	}

	assigned, err := s.employeeRepo.List(ctx, employee.Filter{PositionID: id})
	if err != nil {
		return fmt.Errorf("failed to list employees of position: %w", err)
	}
	if len(assigned) > 0 {
		return position.ErrPositionInUse
	}

	return repository.Transact(ctx, s.tx, func(ctx context.Context) error {
		if err := s.positionRepo.Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return position.ErrPositionNotFound
			}
			return fmt.Errorf("failed to delete position: %w", err)
		}
		_, err := s.logs.Record(ctx, session.FullName, activitylog.TypeDelete, "Xóa chức vụ "+existing.Name)
		return err
	})
}

func (s *masterServiceImpl) getPosition(ctx context.Context, id string) (position.Position, error) {
	p, err := s.positionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return position.Position{}, position.ErrPositionNotFound
		}
		return position.Position{}, fmt.Errorf("failed to get position: %w", err)
	}
	return p, nil
}

// checkPositionName rejects a name already used by a position other than selfID.
func (s *masterServiceImpl) checkPositionName(ctx context.Context, selfID, name string) error {
	list, err := s.positionRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list positions: %w", err)
	}
	for _, p := range list {
		if p.ID != selfID && position.SameName(p.Name, name) {
			return position.ErrPositionNameExists
		}
	}
	return nil
}

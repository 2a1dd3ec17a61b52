package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/activitylog"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/master/department"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/master/position"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hrm-backend-go/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	tx repository.TxManager
	user.UserRepository
	employees   employee.EmployeeRepository
	departments department.DepartmentRepository
	positions   position.PositionRepository
	jwt.Service
	logs  activitylog.Recorder
	clock clock.Clock
}

func NewAuthService(
	tx repository.TxManager,
	userRepository user.UserRepository,
	employeeRepository employee.EmployeeRepository,
	departmentRepository department.DepartmentRepository,
	positionRepository position.PositionRepository,
	jwtService jwt.Service,
	logs activitylog.Recorder,
	clk clock.Clock,
) auth.AuthService {
	return &AuthServiceImpl{
		tx:             tx,
		UserRepository: userRepository,
		employees:      employeeRepository,
		departments:    departmentRepository,
		positions:      positionRepository,
		Service:        jwtService,
		logs:           logs,
		clock:          clk,
	}
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// isBcryptHash reports whether stored was produced by bcrypt. Accounts written
// by the legacy front end keep the password as entered.
func isBcryptHash(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$")
}

func checkPassword(stored, password string) bool {
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
}

// upgradePassword replaces a legacy plaintext password with its bcrypt hash.
// Failure leaves the account as it was; the next login tries again.
func (a *AuthServiceImpl) upgradePassword(ctx context.Context, u user.User, password string) {
	hashedPassword, err := a.hashPassword(password)
	if err != nil {
		slog.Warn("failed to hash legacy password", "user_id", u.ID, "error", err)
		return
	}
	u.PasswordHash = hashedPassword
	if _, err := a.UserRepository.Update(ctx, u); err != nil {
		slog.Warn("failed to upgrade legacy password", "user_id", u.ID, "error", err)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, loginReq auth.LoginRequest) (auth.TokenResponse, error) {
	if err := loginReq.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	userData, err := a.UserRepository.GetByUsername(ctx, strings.TrimSpace(loginReq.Username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by username: %w", err)
	}

	if !userData.IsActive() || userData.PasswordHash == "" {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if !checkPassword(userData.PasswordHash, loginReq.Password) {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if !isBcryptHash(userData.PasswordHash) {
		a.upgradePassword(ctx, userData, loginReq.Password)
	}

	var tokenResponse auth.TokenResponse
	err = repository.Transact(ctx, a.tx, func(ctx context.Context) error {
		tokenResponse, err = a.issueToken(userData)
		if err != nil {
			return err
		}
		_, err = a.logs.Record(ctx, userData.FullName, activitylog.TypeLogin, "Đăng nhập hệ thống")
		return err
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	return tokenResponse, nil
}

// Register implements auth.AuthService.
func (a *AuthServiceImpl) Register(ctx context.Context, registerReq auth.RegisterRequest) (auth.TokenResponse, error) {
	if err := registerReq.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	email := normalizeEmail(registerReq.Email)
	username := strings.TrimSpace(registerReq.Username)
	fullName := strings.TrimSpace(registerReq.FullName)

	if _, err := a.UserRepository.GetByEmail(ctx, email); err == nil {
		return auth.TokenResponse{}, auth.ErrEmailExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return auth.TokenResponse{}, fmt.Errorf("failed to get user data by email: %w", err)
	}
	if _, err := a.UserRepository.GetByUsername(ctx, username); err == nil {
		return auth.TokenResponse{}, auth.ErrUsernameExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return auth.TokenResponse{}, fmt.Errorf("failed to get user data by username: %w", err)
	}

	var dept department.Department
	if registerReq.DepartmentID != "" {
		d, err := a.departments.GetByID(ctx, registerReq.DepartmentID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return auth.TokenResponse{}, employee.ErrDepartmentNotFound
			}
			return auth.TokenResponse{}, fmt.Errorf("failed to get department: %w", err)
		}
		dept = d
	}
	var pos position.Position
	if registerReq.PositionID != "" {
		p, err := a.positions.GetByID(ctx, registerReq.PositionID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return auth.TokenResponse{}, employee.ErrPositionNotFound
			}
			return auth.TokenResponse{}, fmt.Errorf("failed to get position: %w", err)
		}
		pos = p
	}

	hashedPassword, err := a.hashPassword(registerReq.Password)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate id: %w", err)
	}

	now := a.clock.Now().In(a.clock.Location())
	startDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, a.clock.Location())

	// The employee row comes first; the account shares its id.
	newEmployee := employee.Employee{
		ID:           id.String(),
		Name:         fullName,
		Email:        email,
		DepartmentID: dept.ID,
		Department:   dept.Name,
		PositionID:   pos.ID,
		Position:     pos.Name,
		Status:       employee.StatusProbation,
		StartDate:    &startDate,
	}
	newUser := user.User{
		ID:            id.String(),
		Username:      username,
		PasswordHash:  hashedPassword,
		FullName:      fullName,
		Role:          user.RoleUser,
		Email:         email,
		AccountStatus: user.AccountStatusActive,
		Department:    dept.Name,
		Position:      pos.Name,
		StartDate:     &startDate,
		WorkingStatus: employee.StatusProbation,
	}

	var tokenResponse auth.TokenResponse
	err = repository.Transact(ctx, a.tx, func(ctx context.Context) error {
		if _, err := a.employees.Create(ctx, newEmployee); err != nil {
			return fmt.Errorf("failed to create employee: %w", err)
		}
		created, err := a.UserRepository.Create(ctx, newUser)
		if err != nil {
			slog.Error("account write failed after employee write", "id", newEmployee.ID, "error", err)
			return fmt.Errorf("failed to create user: %w", err)
		}

		tokenResponse, err = a.issueToken(created)
		if err != nil {
			return err
		}

		_, err = a.logs.Record(ctx, created.FullName, activitylog.TypeRegister,
			fmt.Sprintf("Đăng ký tài khoản %s", created.Username))
		return err
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	return tokenResponse, nil
}

func (a *AuthServiceImpl) issueToken(u user.User) (auth.TokenResponse, error) {
	accessToken, expiresAt, err := a.Service.GenerateAccessToken(u.Session())
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	return auth.TokenResponse{
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
		StorageKey:  auth.SessionStorageKey,
		User:        user.NewUserResponse(u),
		Navigation:  user.NewNavigationResponse(u.Role),
	}, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	if token == "" {
		return auth.ErrInvalidToken
	}
	if !a.Service.IsTokenRevoked(token) {
		a.Service.RevokeToken(token)
	}
	return nil
}

// Me implements auth.AuthService.
func (a *AuthServiceImpl) Me(ctx context.Context, session user.Session) (user.UserResponse, error) {
	userData, err := a.profile(ctx, session.ID)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.NewUserResponse(userData), nil
}

// profile loads the account and overlays the employee record it shares an id with.
func (a *AuthServiceImpl) profile(ctx context.Context, id string) (user.User, error) {
	userData, err := a.UserRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	emp, err := a.employees.GetByID(ctx, id)
	switch {
	case err == nil:
		userData.Department = emp.Department
		userData.Position = emp.Position
		userData.WorkingStatus = emp.Status
		userData.StartDate = emp.StartDate
	case errors.Is(err, repository.ErrNotFound):
	default:
		return user.User{}, fmt.Errorf("failed to get employee by id: %w", err)
	}
	return userData, nil
}

// UpdateProfile implements auth.AuthService.
func (a *AuthServiceImpl) UpdateProfile(ctx context.Context, session user.Session, req user.UpdateProfileRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	userData, err := a.UserRepository.GetByID(ctx, session.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return user.UserResponse{}, user.ErrUserNotFound
		}
		return user.UserResponse{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	email := normalizeEmail(req.Email)
	if email != userData.Email {
		existing, err := a.UserRepository.GetByEmail(ctx, email)
		if err == nil && existing.ID != userData.ID {
			return user.UserResponse{}, auth.ErrEmailExists
		}
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return user.UserResponse{}, fmt.Errorf("failed to get user data by email: %w", err)
		}
		userData.Email = email
	}

	changes := []string{"email"}
	if req.Password != nil && *req.Password != "" {
		hashedPassword, err := a.hashPassword(*req.Password)
		if err != nil {
			return user.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
		}
		userData.PasswordHash = hashedPassword
		changes = append(changes, "mật khẩu")
	}

	err = repository.Transact(ctx, a.tx, func(ctx context.Context) error {
		if _, err := a.UserRepository.Update(ctx, userData); err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
		_, err := a.logs.Record(ctx, userData.FullName, activitylog.TypeUpdate,
			fmt.Sprintf("Cập nhật thông tin cá nhân (%s)", strings.Join(changes, ", ")))
		return err
	})
	if err != nil {
		return user.UserResponse{}, err
	}

	return a.Me(ctx, session)
}

// EnsureAdmin implements auth.AuthService.
func (a *AuthServiceImpl) EnsureAdmin(ctx context.Context, req auth.BootstrapAdminRequest) (bool, error) {
	if err := req.Validate(); err != nil {
		return false, err
	}

	username := strings.TrimSpace(req.Username)
	if _, err := a.UserRepository.GetByUsername(ctx, username); err == nil {
		return false, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return false, fmt.Errorf("failed to get user data by username: %w", err)
	}

	hashedPassword, err := a.hashPassword(req.Password)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}
	id, err := uuid.NewV7()
	if err != nil {
		return false, fmt.Errorf("failed to generate id: %w", err)
	}

	now := a.clock.Now().In(a.clock.Location())
	startDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, a.clock.Location())
	fullName := strings.TrimSpace(req.FullName)
	email := normalizeEmail(req.Email)

	err = repository.Transact(ctx, a.tx, func(ctx context.Context) error {
		if _, err := a.employees.Create(ctx, employee.Employee{
			ID:        id.String(),
			Name:      fullName,
			Email:     email,
			Status:    employee.StatusWorking,
			StartDate: &startDate,
		}); err != nil {
			return fmt.Errorf("failed to create employee: %w", err)
		}
		if _, err := a.UserRepository.Create(ctx, user.User{
			ID:            id.String(),
			Username:      username,
			PasswordHash:  hashedPassword,
			FullName:      fullName,
			Role:          user.RoleAdmin,
			Email:         email,
			AccountStatus: user.AccountStatusActive,
			StartDate:     &startDate,
			WorkingStatus: employee.StatusWorking,
		}); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		_, err := a.logs.Record(ctx, fullName, activitylog.TypeAdd,
			fmt.Sprintf("Khởi tạo tài khoản quản trị %s", username))
		return err
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// Navigation implements auth.AuthService.
func (a *AuthServiceImpl) Navigation(session user.Session) user.NavigationResponse {
	return user.NewNavigationResponse(session.Role)
}

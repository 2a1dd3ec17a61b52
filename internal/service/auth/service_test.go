package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/activitylog"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/master/department"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hrm-backend-go/internal/repository"
	"github.com/cmlabs-hris/hrm-backend-go/internal/repository/memory"
	activityLogService "github.com/cmlabs-hris/hrm-backend-go/internal/service/activitylog"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAccessExp = "1h"
	testSecret    = "test-secret-key-for-jwt"
)

type fixture struct {
	svc         auth.AuthService
	users       user.UserRepository
	employees   employee.EmployeeRepository
	departments department.DepartmentRepository
	logs        activitylog.ActivityLogService
	jwt         jwt.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := memory.NewStore()
	clk := clock.NewFixed(time.Date(2024, 1, 10, 23, 30, 0, 0, time.FixedZone("ICT", 7*3600)))

	f := fixture{
		users:       memory.NewUserRepository(store),
		employees:   memory.NewEmployeeRepository(store),
		departments: memory.NewDepartmentRepository(store),
		logs:        activityLogService.NewActivityLogService(memory.NewActivityLogRepository(store), sse.NewHub(), clk),
		jwt:         jwt.NewJWTService(testSecret, testAccessExp),
	}
	f.svc = NewAuthService(repository.NoTx{}, f.users, f.employees, f.departments, memory.NewPositionRepository(store), f.jwt, f.logs, clk)
	return f
}

func (f fixture) seedUser(t *testing.T, username, password, status string, role user.Role) user.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u, err := f.users.Create(context.Background(), user.User{
		Username:      username,
		PasswordHash:  string(hash),
		FullName:      "Nguyen Van " + username,
		Role:          role,
		Email:         username + "@example.com",
		AccountStatus: status,
	})
	require.NoError(t, err)
	return u
}

func TestAuthService_Login_LegacyPlaintextPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	legacy, err := f.users.Create(ctx, user.User{
		Username:      "admin",
		PasswordHash:  "123456",
		FullName:      "Quản trị viên",
		Role:          user.RoleAdmin,
		Email:         "admin@example.com",
		AccountStatus: user.AccountStatusActive,
	})
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, auth.LoginRequest{Username: "admin", Password: "1234567"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	resp, err := f.svc.Login(ctx, auth.LoginRequest{Username: "admin", Password: "123456"})
	require.NoError(t, err)
	assert.Equal(t, legacy.ID, resp.User.ID)

	stored, err := f.users.GetByID(ctx, legacy.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stored.PasswordHash, "$2"))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("123456")))

	_, err = f.svc.Login(ctx, auth.LoginRequest{Username: "admin", Password: "123456"})
	assert.NoError(t, err)
}

func validRegister() auth.RegisterRequest {
	return auth.RegisterRequest{
		FullName: "Tran Thi B",
		Username: "tranthib",
		Password: "secret123",
		Email:    "B@Example.com",
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	f := newFixture(t)
	seeded := f.seedUser(t, "admin", "password123", user.AccountStatusActive, user.RoleAdmin)

	resp, err := f.svc.Login(context.Background(), auth.LoginRequest{Username: "admin", Password: "password123"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.Greater(t, resp.ExpiresAt, int64(0))
	assert.Equal(t, auth.SessionStorageKey, resp.StorageKey)
	assert.Equal(t, seeded.ID, resp.User.ID)
	assert.Equal(t, "/dashboard", resp.Navigation.Landing)

	token, err := jwtauth.VerifyToken(f.jwt.JWTAuth(), resp.AccessToken)
	require.NoError(t, err)
	claims, err := token.AsMap(context.Background())
	require.NoError(t, err)
	session, err := f.jwt.SessionFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, session.ID)
	assert.True(t, session.IsAdmin())

	entries, err := f.logs.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, activitylog.TypeLogin, entries[0].Type)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "active", "password123", user.AccountStatusActive, user.RoleUser)
	f.seedUser(t, "locked", "password123", "locked", user.RoleUser)

	cases := []auth.LoginRequest{
		{Username: "active", Password: "wrong-password"},
		{Username: "missing", Password: "password123"},
		{Username: "locked", Password: "password123"},
	}
	for _, c := range cases {
		_, err := f.svc.Login(context.Background(), c)
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials, c.Username)
	}

	entries, err := f.logs.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAuthService_Register_Success(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dept, err := f.departments.Create(ctx, department.Department{Name: "Kỹ thuật"})
	require.NoError(t, err)

	req := validRegister()
	req.DepartmentID = dept.ID
	resp, err := f.svc.Register(ctx, req)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	account, err := f.users.GetByUsername(ctx, "tranthib")
	require.NoError(t, err)
	assert.Equal(t, "b@example.com", account.Email)
	assert.Equal(t, user.RoleUser, account.Role)
	assert.Equal(t, user.AccountStatusActive, account.AccountStatus)
	assert.NotEqual(t, "secret123", account.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte("secret123")))

	emp, err := f.employees.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tran Thi B", emp.Name)
	assert.Equal(t, employee.StatusProbation, emp.Status)
	assert.Equal(t, "Kỹ thuật", emp.Department)
	require.NotNil(t, emp.StartDate)
	assert.Equal(t, "2024-01-10", emp.StartDate.Format("2006-01-02"))

	entries, err := f.logs.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, activitylog.TypeRegister, entries[0].Type)
}

func TestAuthService_Register_Duplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, validRegister())
	require.NoError(t, err)

	sameEmail := validRegister()
	sameEmail.Username = "someoneelse"
	sameEmail.Email = "b@example.com"
	_, err = f.svc.Register(ctx, sameEmail)
	assert.ErrorIs(t, err, auth.ErrEmailExists)

	sameUsername := validRegister()
	sameUsername.Email = "other@example.com"
	_, err = f.svc.Register(ctx, sameUsername)
	assert.ErrorIs(t, err, auth.ErrUsernameExists)

	all, err := f.employees.List(ctx, employee.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestAuthService_Register_UnknownDepartment(t *testing.T) {
	f := newFixture(t)

	req := validRegister()
	req.DepartmentID = "missing"
	_, err := f.svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, employee.ErrDepartmentNotFound)
}

func TestAuthService_Logout(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "user1", "password123", user.AccountStatusActive, user.RoleUser)

	resp, err := f.svc.Login(context.Background(), auth.LoginRequest{Username: "user1", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(context.Background(), resp.AccessToken))
	assert.True(t, f.jwt.IsTokenRevoked(resp.AccessToken))
	assert.NoError(t, f.svc.Logout(context.Background(), resp.AccessToken))
	assert.ErrorIs(t, f.svc.Logout(context.Background(), ""), auth.ErrInvalidToken)
}

func TestAuthService_MeAndUpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, validRegister())
	require.NoError(t, err)
	account, err := f.users.GetByUsername(ctx, "tranthib")
	require.NoError(t, err)
	session := account.Session()

	me, err := f.svc.Me(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, employee.StatusProbation, me.WorkingStatus)
	require.NotNil(t, me.StartDate)

	other := f.seedUser(t, "taken", "password123", user.AccountStatusActive, user.RoleUser)
	_, err = f.svc.UpdateProfile(ctx, session, user.UpdateProfileRequest{Email: other.Email})
	assert.ErrorIs(t, err, auth.ErrEmailExists)

	before, err := f.logs.List(ctx)
	require.NoError(t, err)

	newPassword := "newsecret"
	updated, err := f.svc.UpdateProfile(ctx, session, user.UpdateProfileRequest{
		Email:           "b.new@example.com",
		Password:        &newPassword,
		ConfirmPassword: &newPassword,
	})
	require.NoError(t, err)
	assert.Equal(t, "b.new@example.com", updated.Email)

	after, err := f.logs.List(ctx)
	require.NoError(t, err)
	require.Len(t, after, len(before)+1)
	assert.Equal(t, activitylog.TypeUpdate, after[0].Type)
	assert.Equal(t, "Tran Thi B", after[0].Name)
	assert.Contains(t, after[0].Details, "mật khẩu")

	_, err = f.svc.Login(ctx, auth.LoginRequest{Username: "tranthib", Password: "newsecret"})
	assert.NoError(t, err)

	_, err = f.svc.Me(ctx, user.Session{ID: "missing"})
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := auth.BootstrapAdminRequest{
		FullName: "Quản trị viên",
		Username: "admin",
		Password: "changeme",
		Email:    "Admin@HRM.local",
	}

	created, err := f.svc.EnsureAdmin(ctx, req)
	require.NoError(t, err)
	assert.True(t, created)

	resp, err := f.svc.Login(ctx, auth.LoginRequest{Username: "admin", Password: "changeme"})
	require.NoError(t, err)
	assert.Equal(t, string(user.RoleAdmin), resp.User.Role)
	assert.Equal(t, "admin@hrm.local", resp.User.Email)

	emp, err := f.employees.GetByID(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Quản trị viên", emp.Name)

	req.Password = "another-password"
	created, err = f.svc.EnsureAdmin(ctx, req)
	require.NoError(t, err)
	assert.False(t, created)

	_, err = f.svc.Login(ctx, auth.LoginRequest{Username: "admin", Password: "changeme"})
	assert.NoError(t, err)

	_, err = f.svc.EnsureAdmin(ctx, auth.BootstrapAdminRequest{Username: "root", Password: "x"})
	assert.Error(t, err)
}

func TestAuthService_Navigation(t *testing.T) {
	f := newFixture(t)

	nav := f.svc.Navigation(user.Session{ID: "u1", Role: user.RoleUser})
	keys := make([]string, 0, len(nav.Items))
	for _, item := range nav.Items {
		keys = append(keys, item.Key)
	}
	assert.Equal(t, []string{"requests", "attendance"}, keys)
}

package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hrm-backend-go/internal/repository"
	"github.com/cmlabs-hris/hrm-backend-go/internal/repository/memory"
	activityLogService "github.com/cmlabs-hris/hrm-backend-go/internal/service/activitylog"
	attendanceService "github.com/cmlabs-hris/hrm-backend-go/internal/service/attendance"
	authService "github.com/cmlabs-hris/hrm-backend-go/internal/service/auth"
	dashboardService "github.com/cmlabs-hris/hrm-backend-go/internal/service/dashboard"
	employeeService "github.com/cmlabs-hris/hrm-backend-go/internal/service/employee"
	"github.com/cmlabs-hris/hrm-backend-go/internal/service/master"
	requestService "github.com/cmlabs-hris/hrm-backend-go/internal/service/request"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	handlerTestAccessExp = "1h"
	handlerTestSecret    = "test-secret-key-for-jwt"
	handlerTestPassword  = "secret123"
)

var handlerTestZone = time.FixedZone("ICT", 7*3600)

type testApp struct {
	router http.Handler
	clock  *clock.Fixed
	users  user.UserRepository
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
	Meta *struct {
		TotalItems int `json:"total_items"`
	} `json:"meta"`
}

// newTestApp wires every handler over the memory store, with the clock at
// 2024-01-10 08:30 ICT and an active admin account "admin".
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	return newTestAppWithLoginLimit(t, 1000)
}

func newTestAppWithLoginLimit(t *testing.T, loginPerMinute int) *testApp {
	t.Helper()

	clk := clock.NewFixed(time.Date(2024, 1, 10, 8, 30, 0, 0, handlerTestZone))
	store := memory.NewStore()
	tx := repository.NoTx{}

	userRepo := memory.NewUserRepository(store)
	employeeRepo := memory.NewEmployeeRepository(store)
	departmentRepo := memory.NewDepartmentRepository(store)
	positionRepo := memory.NewPositionRepository(store)
	attendanceRepo := memory.NewAttendanceRepository(store)
	requestRepo := memory.NewRequestRepository(store)
	logRepo := memory.NewActivityLogRepository(store)

	JWTService := jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp)
	logs := activityLogService.NewActivityLogService(logRepo, sse.NewHub(), clk)

	handlers := Handlers{
		Auth:        NewAuthHandler(authService.NewAuthService(tx, userRepo, employeeRepo, departmentRepo, positionRepo, JWTService, logs, clk)),
		Attendance:  NewAttendanceHandler(attendanceService.NewAttendanceService(tx, attendanceRepo, logs, clk)),
		Request:     NewRequestHandler(requestService.NewRequestService(tx, requestRepo, logs, clk)),
		ActivityLog: NewActivityLogHandler(logs, JWTService, handlerTestZone),
		Master:      NewMasterHandler(master.NewMasterService(tx, departmentRepo, positionRepo, employeeRepo, logs)),
		Employee:    NewEmployeeHandler(employeeService.NewEmployeeService(tx, employeeRepo, departmentRepo, positionRepo, logs)),
		Dashboard:   NewDashboardHandler(dashboardService.NewDashboardService(employeeRepo, departmentRepo, positionRepo, requestRepo)),
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(handlerTestPassword), bcrypt.MinCost)
	require.NoError(t, err)
	_, err = userRepo.Create(context.Background(), user.User{
		ID:            "admin-1",
		Username:      "admin",
		PasswordHash:  string(hash),
		FullName:      "Quản trị viên",
		Role:          user.RoleAdmin,
		Email:         "admin@example.com",
		AccountStatus: user.AccountStatusActive,
	})
	require.NoError(t, err)

	router := NewRouter(RouterOptions{
		AllowedOrigins: []string{"http://localhost:3000"},
		LoginPerMinute: loginPerMinute,
	}, JWTService, handlers)

	return &testApp{router: router, clock: clk, users: userRepo}
}

func (a *testApp) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func (a *testApp) login(t *testing.T, username string) string {
	t.Helper()
	rec, env := a.do(t, http.MethodPost, "/api/v1/auth/login", "", auth.LoginRequest{Username: username, Password: handlerTestPassword})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var token auth.TokenResponse
	require.NoError(t, json.Unmarshal(env.Data, &token))
	require.NotEmpty(t, token.AccessToken)
	return token.AccessToken
}

// register creates a regular employee account and returns its id and token.
func (a *testApp) register(t *testing.T, username, fullName string) (string, string) {
	t.Helper()
	rec, env := a.do(t, http.MethodPost, "/api/v1/auth/register", "", auth.RegisterRequest{
		FullName: fullName,
		Username: username,
		Password: handlerTestPassword,
		Email:    username + "@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var token auth.TokenResponse
	require.NoError(t, json.Unmarshal(env.Data, &token))
	return token.User.ID, token.AccessToken
}

func TestAuthHandler_Login(t *testing.T) {
	app := newTestApp(t)

	t.Run("success returns token, storage key and navigation", func(t *testing.T) {
		rec, env := app.do(t, http.MethodPost, "/api/v1/auth/login", "", auth.LoginRequest{Username: "admin", Password: handlerTestPassword})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.True(t, env.Success)

		var token auth.TokenResponse
		require.NoError(t, json.Unmarshal(env.Data, &token))
		assert.NotEmpty(t, token.AccessToken)
		assert.Equal(t, auth.SessionStorageKey, token.StorageKey)
		assert.Equal(t, "admin", token.User.Role)
		assert.Equal(t, "/dashboard", token.Navigation.Landing)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec, env := app.do(t, http.MethodPost, "/api/v1/auth/login", "", auth.LoginRequest{Username: "admin", Password: "wrong-password"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		rec, env := app.do(t, http.MethodPost, "/api/v1/auth/login", "", auth.LoginRequest{})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		require.NotNil(t, env.Error)
		assert.Contains(t, env.Error.Details, "username")
		assert.Contains(t, env.Error.Details, "password")
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString("{"))
		rec := httptest.NewRecorder()
		app.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthHandler_LoginRateLimited(t *testing.T) {
	app := newTestAppWithLoginLimit(t, 2)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString("{"))
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		app.router.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusBadRequest, http.StatusBadRequest, http.StatusTooManyRequests}, codes)
}

func TestAuthHandler_Register(t *testing.T) {
	app := newTestApp(t)

	id, token := app.register(t, "nva", "Nguyen Van A")
	assert.NotEmpty(t, id)
	assert.NotEmpty(t, token)

	t.Run("duplicate username", func(t *testing.T) {
		rec, env := app.do(t, http.MethodPost, "/api/v1/auth/register", "", auth.RegisterRequest{
			FullName: "Someone", Username: "nva", Password: handlerTestPassword, Email: "other@example.com",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "USERNAME_EXISTS", env.Error.Code)
	})

	t.Run("duplicate email", func(t *testing.T) {
		rec, env := app.do(t, http.MethodPost, "/api/v1/auth/register", "", auth.RegisterRequest{
			FullName: "Someone", Username: "someone", Password: handlerTestPassword, Email: "NVA@example.com",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "EMAIL_EXISTS", env.Error.Code)
	})

	t.Run("new account can log in", func(t *testing.T) {
		assert.NotEmpty(t, app.login(t, "nva"))
	})
}

func TestAuthHandler_MeAndNavigation(t *testing.T) {
	app := newTestApp(t)
	_, token := app.register(t, "nva", "Nguyen Van A")

	rec, env := app.do(t, http.MethodGet, "/api/v1/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var profile user.UserResponse
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, "nva", profile.Username)
	assert.Equal(t, "user", profile.Role)

	rec, env = app.do(t, http.MethodGet, "/api/v1/me/navigation", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var nav user.NavigationResponse
	require.NoError(t, json.Unmarshal(env.Data, &nav))
	assert.Equal(t, "/requests", nav.Landing)
	keys := make([]string, 0, len(nav.Items))
	for _, item := range nav.Items {
		keys = append(keys, item.Key)
	}
	assert.Equal(t, []string{"requests", "attendance"}, keys)

	rec, env = app.do(t, http.MethodPut, "/api/v1/me", token, user.UpdateProfileRequest{Email: "new@example.com"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, "new@example.com", profile.Email)
}

func TestAuthHandler_Logout(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t, "admin")

	rec, _ := app.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, env := app.do(t, http.MethodGet, "/api/v1/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "Token revoked", env.Error.Message)
}

func TestRouter_RequiresToken(t *testing.T) {
	app := newTestApp(t)

	rec, _ := app.do(t, http.MethodGet, "/api/v1/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = app.do(t, http.MethodGet, "/api/v1/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hrm-backend-go/internal/config"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/activitylog"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/master/department"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/master/position"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/request"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/user"
	appHTTP "github.com/cmlabs-hris/hrm-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hrm-backend-go/internal/repository"
	"github.com/cmlabs-hris/hrm-backend-go/internal/repository/memory"
	"github.com/cmlabs-hris/hrm-backend-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/hrm-backend-go/internal/repository/rest"
	activityLogService "github.com/cmlabs-hris/hrm-backend-go/internal/service/activitylog"
	attendanceService "github.com/cmlabs-hris/hrm-backend-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/hrm-backend-go/internal/service/auth"
	dashboardService "github.com/cmlabs-hris/hrm-backend-go/internal/service/dashboard"
	employeeService "github.com/cmlabs-hris/hrm-backend-go/internal/service/employee"
	"github.com/cmlabs-hris/hrm-backend-go/internal/service/master"
	requestService "github.com/cmlabs-hris/hrm-backend-go/internal/service/request"
	"github.com/go-chi/httplog/v3"
)

// repositories is the set of stores one driver provides.
type repositories struct {
	tx          repository.TxManager
	users       user.UserRepository
	employees   employee.EmployeeRepository
	departments department.DepartmentRepository
	positions   position.PositionRepository
	attendance  attendance.AttendanceRepository
	requests    request.RequestRepository
	logs        activitylog.ActivityLogRepository
	close       func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc := cfg.Location()
	clk := clock.System(loc)

	repos, err := openStore(ctx, cfg, loc)
	if err != nil {
		logger.Error("Failed to open record store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	defer repos.close()

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	logService := activityLogService.NewActivityLogService(repos.logs, sse.NewHub(), clk)

	authSvc := serviceAuth.NewAuthService(repos.tx, repos.users, repos.employees, repos.departments, repos.positions, JWTService, logService, clk)
	attendanceSvc := attendanceService.NewAttendanceService(repos.tx, repos.attendance, logService, clk)
	requestSvc := requestService.NewRequestService(repos.tx, repos.requests, logService, clk)
	masterSvc := master.NewMasterService(repos.tx, repos.departments, repos.positions, repos.employees, logService)
	employeeSvc := employeeService.NewEmployeeService(repos.tx, repos.employees, repos.departments, repos.positions, logService)
	dashboardSvc := dashboardService.NewDashboardService(repos.employees, repos.departments, repos.positions, repos.requests)

	if cfg.Admin.Password != "" {
		created, err := authSvc.EnsureAdmin(ctx, auth.BootstrapAdminRequest{
			FullName: cfg.Admin.FullName,
			Username: cfg.Admin.Username,
			Password: cfg.Admin.Password,
			Email:    cfg.Admin.Email,
		})
		if err != nil {
			logger.Error("Failed to create administrator account", "username", cfg.Admin.Username, "error", err)
			os.Exit(1)
		}
		if created {
			logger.Info("Administrator account created", "username", cfg.Admin.Username)
		}
	}

	router := appHTTP.NewRouter(appHTTP.RouterOptions{
		Logger:         logger,
		AllowedOrigins: []string{cfg.App.FrontendURL},
		LoginPerMinute: cfg.RateLimit.LoginPerMinute,
	}, JWTService, appHTTP.Handlers{
		Auth:        appHTTP.NewAuthHandler(authSvc),
		Attendance:  appHTTP.NewAttendanceHandler(attendanceSvc),
		Request:     appHTTP.NewRequestHandler(requestSvc),
		ActivityLog: appHTTP.NewActivityLogHandler(logService, JWTService, loc),
		Master:      appHTTP.NewMasterHandler(masterSvc),
		Employee:    appHTTP.NewEmployeeHandler(employeeSvc),
		Dashboard:   appHTTP.NewDashboardHandler(dashboardSvc),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server running", "addr", server.Addr, "driver", cfg.Store.Driver, "timezone", loc.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	// Open activity streams hold their connections until the client leaves.
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Graceful shutdown timed out", "error", err)
		_ = server.Close()
	}
	logger.Info("Server stopped")
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(cfg.App.LogLevel))); err != nil {
		level = slog.LevelInfo
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env == "development")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hrm-cmlabs"),
		slog.String("env", cfg.App.Env),
	)
}

func openStore(ctx context.Context, cfg *config.Config, loc *time.Location) (*repositories, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return nil, err
		}
		return &repositories{
			tx:          postgresql.NewTxManager(db),
			users:       postgresql.NewUserRepository(db),
			employees:   postgresql.NewEmployeeRepository(db),
			departments: postgresql.NewDepartmentRepository(db),
			positions:   postgresql.NewPositionRepository(db),
			attendance:  postgresql.NewAttendanceRepository(db),
			requests:    postgresql.NewRequestRepository(db),
			logs:        postgresql.NewActivityLogRepository(db),
			close:       db.Close,
		}, nil

	case config.StoreDriverREST:
		client := rest.NewClient(cfg.Store.BaseURL, cfg.Store.Timeout,
			rest.WithLocation(loc),
			rest.WithPositionsCollection(cfg.Store.PositionsCollection),
		)
		return &repositories{
			tx:          repository.NoTx{},
			users:       rest.NewUserRepository(client),
			employees:   rest.NewEmployeeRepository(client),
			departments: rest.NewDepartmentRepository(client),
			positions:   rest.NewPositionRepository(client),
			attendance:  rest.NewAttendanceRepository(client),
			requests:    rest.NewRequestRepository(client),
			logs:        rest.NewActivityLogRepository(client),
			close:       func() {},
		}, nil

	case config.StoreDriverMemory:
		store := memory.NewStore()
		return &repositories{
			tx:          repository.NoTx{},
			users:       memory.NewUserRepository(store),
			employees:   memory.NewEmployeeRepository(store),
			departments: memory.NewDepartmentRepository(store),
			positions:   memory.NewPositionRepository(store),
			attendance:  memory.NewAttendanceRepository(store),
			requests:    memory.NewRequestRepository(store),
			logs:        memory.NewActivityLogRepository(store),
			close:       func() {},
		}, nil
	}
	return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
}

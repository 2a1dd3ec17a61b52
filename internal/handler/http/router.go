package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrm-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hrm-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/httprate"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterOptions carries the knobs NewRouter reads from configuration.
type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	LoginPerMinute int
}

// Handlers groups every handler the router mounts.
type Handlers struct {
	Auth        AuthHandler
	Attendance  AttendanceHandler
	Request     RequestHandler
	ActivityLog ActivityLogHandler
	Master      MasterHandler
	Employee    EmployeeHandler
	Dashboard   DashboardHandler
}

func NewRouter(opts RouterOptions, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Handle("/metrics", promhttp.Handler())

	loginLimiter := httprate.Limit(
		opts.LoginPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			response.TooManyRequests(w, "Too many attempts, try again later")
		}),
	)

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(loginLimiter)
				r.Post("/login", h.Auth.Login)
				r.Post("/register", h.Auth.Register)
			})

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
				r.Use(middleware.AuthRequired(JWTService))
				r.Post("/logout", h.Auth.Logout)
			})
		})

		r.Route("/activity-logs", func(r chi.Router) {
			// The stream authenticates with a short-lived token in the query string
			r.Get("/stream", h.ActivityLog.Stream)

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
				r.Use(middleware.AuthRequired(JWTService))
				r.Use(middleware.AdminOnly)
				r.Get("/", h.ActivityLog.List)
				r.Post("/stream-token", h.ActivityLog.GetStreamToken)
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Route("/me", func(r chi.Router) {
				r.Get("/", h.Auth.Me)
				r.Put("/", h.Auth.UpdateProfile)
				r.Get("/navigation", h.Auth.Navigation)
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Get("/", h.Attendance.List)
				r.Post("/check-in", h.Attendance.CheckIn)
				r.Post("/check-out", h.Attendance.CheckOut)
			})

			r.Route("/requests", func(r chi.Router) {
				r.Get("/", h.Request.List)
				r.Post("/", h.Request.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Request.Get)
					r.Put("/", h.Request.Update)
					r.Delete("/", h.Request.Delete)
					r.With(middleware.RequirePermission(user.PermissionRequestDecide)).Post("/approve", h.Request.Approve)
				})
			})

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminOnly)

				r.Route("/departments", func(r chi.Router) {
					r.Get("/", h.Master.ListDepartments)
					r.Post("/", h.Master.CreateDepartment)
					r.Get("/{id}", h.Master.GetDepartment)
					r.Put("/{id}", h.Master.UpdateDepartment)
					r.Delete("/{id}", h.Master.DeleteDepartment)
				})

				r.Route("/positions", func(r chi.Router) {
					r.Get("/", h.Master.ListPositions)
					r.Post("/", h.Master.CreatePosition)
					r.Get("/{id}", h.Master.GetPosition)
					r.Put("/{id}", h.Master.UpdatePosition)
					r.Delete("/{id}", h.Master.DeletePosition)
				})

				r.Route("/employees", func(r chi.Router) {
					r.Get("/", h.Employee.ListEmployees)
					r.Post("/", h.Employee.CreateEmployee)
					r.Get("/{id}", h.Employee.GetEmployee)
					r.Put("/{id}", h.Employee.UpdateEmployee)
					r.Delete("/{id}", h.Employee.DeleteEmployee)
				})

				r.Get("/dashboard", h.Dashboard.GetDashboard)
			})
		})
	})
	return r
}

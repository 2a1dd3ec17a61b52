package http

import (
	"net/http"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hrm-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
)

type EmployeeHandler interface {
	ListEmployees(w http.ResponseWriter, r *http.Request)
	GetEmployee(w http.ResponseWriter, r *http.Request)
	CreateEmployee(w http.ResponseWriter, r *http.Request)
	UpdateEmployee(w http.ResponseWriter, r *http.Request)
	DeleteEmployee(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService employee.EmployeeService
}

func NewEmployeeHandler(employeeService employee.EmployeeService) EmployeeHandler {
	return &employeeHandlerImpl{
		employeeService: employeeService,
	}
}

// ListEmployees supports ?search= over name, department and position and ?department_id=.
func (h *employeeHandlerImpl) ListEmployees(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(w, r)
	if !ok {
		return
	}

	filter := employee.EmployeeFilter{
		Search:       r.URL.Query().Get("search"),
		DepartmentID: r.URL.Query().Get("department_id"),
	}

	employees, err := h.employeeService.ListEmployees(r.Context(), session, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, employee.NewEmployeeResponses(employees), &response.Meta{TotalItems: len(employees)})
}

func (h *employeeHandlerImpl) GetEmployee(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(w, r)
	if !ok {
		return
	}

	result, err := h.employeeService.GetEmployee(r.Context(), session, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, employee.NewEmployeeResponse(result))
}

func (h *employeeHandlerImpl) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(w, r)
	if !ok {
		return
	}

	var req employee.CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.employeeService.CreateEmployee(r.Context(), session, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Employee created successfully", employee.NewEmployeeResponse(result))
}

func (h *employeeHandlerImpl) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(w, r)
	if !ok {
		return
	}

	var req employee.UpdateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.employeeService.UpdateEmployee(r.Context(), session, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee updated successfully", employee.NewEmployeeResponse(result))
}

func (h *employeeHandlerImpl) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(w, r)
	if !ok {
		return
	}

	if err := h.employeeService.DeleteEmployee(r.Context(), session, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee deleted successfully", nil)
}

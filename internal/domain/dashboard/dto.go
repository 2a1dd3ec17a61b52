package dashboard

import "github.com/cmlabs-hris/hrm-backend-go/internal/domain/employee"

// RecentEmployeesLimit caps the recently joined panel
const RecentEmployeesLimit = 5

// DepartmentHeadcount is one bar of the employees-per-department chart
type DepartmentHeadcount struct {
	DepartmentID string `json:"department_id"`
	Name         string `json:"name"`
	Employees    int    `json:"employees"`
}

// StatusSummary counts employees by working status
type StatusSummary struct {
	Probation int `json:"probation"`
	Working   int `json:"working"`
	OnLeave   int `json:"on_leave"`
}

// DashboardResponse is the admin overview
type DashboardResponse struct {
	TotalEmployees   int                   `json:"total_employees"`
	TotalDepartments int                   `json:"total_departments"`
	TotalPositions   int                   `json:"total_positions"`
	PendingRequests  int                   `json:"pending_requests"`
	Status           StatusSummary         `json:"status"`
	ByDepartment     []DepartmentHeadcount `json:"by_department"`
	// RecentEmployees lists the latest joiners by start date; undated employees come last
	RecentEmployees []employee.EmployeeResponse `json:"recent_employees"`
}

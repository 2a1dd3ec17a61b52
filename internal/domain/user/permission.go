package user

type Permission string

const (
	// Self Management
	PermissionViewOwnProfile Permission = "profile.view_own"
	PermissionEditOwnProfile Permission = "profile.edit_own"

	// Request Management
	PermissionRequestViewOwn Permission = "request.view_own"
	PermissionRequestCreate  Permission = "request.create"
	PermissionRequestViewAll Permission = "request.view_all"
	PermissionRequestDecide  Permission = "request.decide"

	// Attendance Management
	PermissionAttendanceViewOwn Permission = "attendance.view_own"
	PermissionAttendanceCheckIn Permission = "attendance.check_in"
	PermissionAttendanceViewAll Permission = "attendance.view_all"

	// Organisation
	PermissionEmployeeManage   Permission = "employee.manage"
	PermissionDepartmentManage Permission = "department.manage"
	PermissionPositionManage   Permission = "position.manage"

	// Oversight
	PermissionDashboardView   Permission = "dashboard.view"
	PermissionActivityLogView Permission = "activity_log.view"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionViewOwnProfile,
		PermissionEditOwnProfile,
		PermissionRequestViewOwn,
		PermissionRequestCreate,
		PermissionRequestViewAll,
		PermissionRequestDecide,
		PermissionAttendanceViewOwn,
		PermissionAttendanceCheckIn,
		PermissionAttendanceViewAll,
		PermissionEmployeeManage,
		PermissionDepartmentManage,
		PermissionPositionManage,
		PermissionDashboardView,
		PermissionActivityLogView,
	},
	RoleUser: {
		PermissionViewOwnProfile,
		PermissionEditOwnProfile,
		PermissionRequestViewOwn,
		PermissionRequestCreate,
		PermissionAttendanceViewOwn,
		PermissionAttendanceCheckIn,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}

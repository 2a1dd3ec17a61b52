package user

// MenuItem is one entry of the role-gated navigation menu.
type MenuItem struct {
	Key        string
	Path       string
	Permission Permission
}

// Menu lists every page in display order with the permission that unlocks it.
var Menu = []MenuItem{
	{Key: "dashboard", Path: "/dashboard", Permission: PermissionDashboardView},
	{Key: "requests", Path: "/requests", Permission: PermissionRequestViewOwn},
	{Key: "employees", Path: "/employees", Permission: PermissionEmployeeManage},
	{Key: "attendance", Path: "/attendance", Permission: PermissionAttendanceViewOwn},
	{Key: "departments", Path: "/departments", Permission: PermissionDepartmentManage},
	{Key: "positions", Path: "/positions", Permission: PermissionPositionManage},
	{Key: "activity-log", Path: "/activity-log", Permission: PermissionActivityLogView},
}

// Navigation returns the menu entries role may open.
func Navigation(role Role) []MenuItem {
	items := make([]MenuItem, 0, len(Menu))
	for _, item := range Menu {
		if HasPermission(role, item.Permission) {
			items = append(items, item)
		}
	}
	return items
}

// LandingPath is where a session lands after login or when it opens a page its role cannot see.
func LandingPath(role Role) string {
	items := Navigation(role)
	if len(items) == 0 {
		return "/login"
	}
	return items[0].Path
}

package dashboard

import (
	"context"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/user"
)

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// GetDashboard loads every collection it needs in parallel
	GetDashboard(ctx context.Context, session user.Session) (*DashboardResponse, error)
}

package request

import (
	"context"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/user"
)

type RequestService interface {
	ListRequests(ctx context.Context, session user.Session, filter Filter) ([]Form, error)
	GetRequest(ctx context.Context, session user.Session, id string) (Form, error)
	CreateRequest(ctx context.Context, session user.Session, req CreateRequestRequest) (Form, error)
	UpdateRequest(ctx context.Context, session user.Session, id string, req UpdateRequestRequest) (Form, error)
	DeleteRequest(ctx context.Context, session user.Session, id string) error
	Approve(ctx context.Context, session user.Session, id string, approved bool, note string) (Form, error)
}

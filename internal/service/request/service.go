package request

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/activitylog"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/request"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/hrm-backend-go/internal/repository"
)

const (
	actionCreate  = "create"
	actionUpdate  = "update"
	actionDelete  = "delete"
	actionApprove = "approve"
	actionReject  = "reject"
)

type RequestServiceImpl struct {
	tx repository.TxManager
	request.RequestRepository
	logs  activitylog.Recorder
	clock clock.Clock
}

func NewRequestService(
	tx repository.TxManager,
	requestRepo request.RequestRepository,
	logs activitylog.Recorder,
	clk clock.Clock,
) request.RequestService {
	return &RequestServiceImpl{
		tx:                tx,
		RequestRepository: requestRepo,
		logs:              logs,
		clock:             clk,
	}
}

// ListRequests implements request.RequestService.
func (r *RequestServiceImpl) ListRequests(ctx context.Context, session user.Session, filter request.Filter) ([]request.Form, error) {
	employeeID := ""
	if !session.Can(user.PermissionRequestViewAll) {
		employeeID = session.ID
	}

	forms, err := r.RequestRepository.List(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}

	out := make([]request.Form, 0, len(forms))
	for _, f := range forms {
		if filter.Match(f) {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SubmissionDate.After(out[j].SubmissionDate)
	})
	return out, nil
}

// GetRequest implements request.RequestService.
func (r *RequestServiceImpl) GetRequest(ctx context.Context, session user.Session, id string) (request.Form, error) {
	form, err := r.get(ctx, id)
	if err != nil {
		return request.Form{}, err
	}
	if !request.CanView(session, form) {
		return request.Form{}, request.ErrForbidden
	}
	return form, nil
}

// CreateRequest implements request.RequestService.
func (r *RequestServiceImpl) CreateRequest(ctx context.Context, session user.Session, req request.CreateRequestRequest) (request.Form, error) {
	if err := req.Validate(); err != nil {
		return request.Form{}, err
	}

	start, end := req.Range()
	var created request.Form

	err := repository.Transact(ctx, r.tx, func(ctx context.Context) error {
		var err error
		created, err = r.RequestRepository.Create(ctx, request.Form{
			EmployeeID:     session.ID,
			EmployeeName:   session.FullName,
			Type:           req.ResolvedType(),
			Content:        strings.TrimSpace(req.Content),
			Time:           request.SummarizeRange(start, end),
			StartDate:      &start,
			EndDate:        &end,
			SubmissionDate: r.clock.Now(),
			Status:         request.StatusPending,
		})
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		_, err = r.logs.Record(ctx, session.FullName, activitylog.TypeAdd,
			fmt.Sprintf("Tạo đơn %s (%s)", created.Type, created.Time))
		return err
	})
	if err != nil {
		return request.Form{}, err
	}

	metrics.RecordRequestTransition(actionCreate)
	return created, nil
}

// UpdateRequest implements request.RequestService.
func (r *RequestServiceImpl) UpdateRequest(ctx context.Context, session user.Session, id string, req request.UpdateRequestRequest) (request.Form, error) {
	if err := req.Validate(); err != nil {
		return request.Form{}, err
	}

	start, end := req.Range()
	var updated request.Form

	err := repository.Transact(ctx, r.tx, func(ctx context.Context) error {
		form, err := r.get(ctx, id)
		if err != nil {
			return err
		}
		if err := request.CanMutate(session, form); err != nil {
			return err
		}

		form.Type = req.ResolvedType()
		form.Content = strings.TrimSpace(req.Content)
		form.StartDate = &start
		form.EndDate = &end
		form.Time = request.SummarizeRange(start, end)

		updated, err = r.RequestRepository.Update(ctx, form)
		if err != nil {
			return r.storeError("update request", id, err)
		}

		_, err = r.logs.Record(ctx, session.FullName, activitylog.TypeUpdate,
			fmt.Sprintf("Cập nhật đơn %s (%s)", updated.Type, updated.Time))
		return err
	})
	if err != nil {
		return request.Form{}, err
	}

	metrics.RecordRequestTransition(actionUpdate)
	return updated, nil
}

// DeleteRequest implements request.RequestService.
func (r *RequestServiceImpl) DeleteRequest(ctx context.Context, session user.Session, id string) error {
	err := repository.Transact(ctx, r.tx, func(ctx context.Context) error {
		form, err := r.get(ctx, id)
		if err != nil {
			return err
		}
		if err := request.CanMutate(session, form); err != nil {
			return err
		}

		if err := r.RequestRepository.Delete(ctx, id, form.Version); err != nil {
			return r.storeError("delete request", id, err)
		}

		_, err = r.logs.Record(ctx, session.FullName, activitylog.TypeDelete,
			fmt.Sprintf("Xóa đơn %s (%s)", form.Type, form.Time))
		return err
	})
	if err != nil {
		return err
	}

	metrics.RecordRequestTransition(actionDelete)
	return nil
}

// Approve implements request.RequestService.
func (r *RequestServiceImpl) Approve(ctx context.Context, session user.Session, id string, approved bool, note string) (request.Form, error) {
	if !session.Can(user.PermissionRequestDecide) {
		return request.Form{}, request.ErrForbidden
	}

	status, logType, action, verb := request.StatusRejected, activitylog.TypeReject, actionReject, "Từ chối"
	if approved {
		status, logType, action, verb = request.StatusApproved, activitylog.TypeApprove, actionApprove, "Duyệt"
	}

	var decided request.Form

	err := repository.Transact(ctx, r.tx, func(ctx context.Context) error {
		form, err := r.get(ctx, id)
		if err != nil {
			return err
		}
		if err := request.CanDecide(session, form); err != nil {
			return err
		}

		now := r.clock.Now()
		approver := session.FullName
		form.Status = status
		form.ApprovedBy = &approver
		form.ApprovalDate = &now
		form.ApprovalNote = nil
		if n := strings.TrimSpace(note); n != "" {
			form.ApprovalNote = &n
		}

		decided, err = r.RequestRepository.Update(ctx, form)
		if err != nil {
			return r.storeError("decide request", id, err)
		}

		details := fmt.Sprintf("%s đơn %s của %s", verb, decided.Type, decided.EmployeeName)
		if decided.ApprovalNote != nil {
			details += ": " + *decided.ApprovalNote
		}
		_, err = r.logs.Record(ctx, session.FullName, logType, details)
		return err
	})
	if err != nil {
		return request.Form{}, err
	}

	metrics.RecordRequestTransition(action)
	return decided, nil
}

func (r *RequestServiceImpl) get(ctx context.Context, id string) (request.Form, error) {
	form, err := r.RequestRepository.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return request.Form{}, request.ErrRequestNotFound
	}
	if err != nil {
		return request.Form{}, fmt.Errorf("get request %s: %w", id, err)
	}
	return form, nil
}

// storeError translates a failed conditional write. A vanished form reads as
// not found; a moved version is reported as a conflict for the caller to reload.
func (r *RequestServiceImpl) storeError(op, id string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return request.ErrRequestNotFound
	case errors.Is(err, repository.ErrConflict):
		metrics.RecordStoreConflict("requestForms")
		slog.Warn("request form changed concurrently", "id", id, "op", op)
		return fmt.Errorf("%s %s: %w", op, id, err)
	default:
		return fmt.Errorf("%s %s: %w", op, id, err)
	}
}

package http

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrm-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hrm-backend-go/internal/handler/http/response"
	"github.com/goccy/go-json"
)

type AttendanceHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(w, r)
	if !ok {
		return
	}

	query := attendance.ListAttendanceQuery{
		Date:   r.URL.Query().Get("date"),
		UserID: r.URL.Query().Get("user_id"),
	}
	if err := query.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	date, err := attendance.ParseDate(query.Date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	records, err := h.attendanceService.ListAttendance(r.Context(), session, date, query.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, attendance.NewAttendanceResponses(records), &response.Meta{TotalItems: len(records)})
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	h.check(w, r, h.attendanceService.CheckIn, "Checked in successfully")
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	h.check(w, r, h.attendanceService.CheckOut, "Checked out successfully")
}

type checkFunc func(ctx context.Context, session user.Session, date attendance.Date) (attendance.Attendance, error)

func (h *attendanceHandlerImpl) check(w http.ResponseWriter, r *http.Request, fn checkFunc, message string) {
	session, ok := middleware.GetSession(w, r)
	if !ok {
		return
	}

	var req attendance.CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	date, err := attendance.ParseDate(req.Date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	record, err := fn(r.Context(), session, date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, message, attendance.NewAttendanceResponse(record))
}

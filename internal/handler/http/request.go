package http

import (
	"net/http"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/request"
	"github.com/cmlabs-hris/hrm-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hrm-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
)

type RequestHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
}

type requestHandlerImpl struct {
	requestService request.RequestService
}

func NewRequestHandler(requestService request.RequestService) RequestHandler {
	return &requestHandlerImpl{
		requestService: requestService,
	}
}

// List implements RequestHandler.
func (h *requestHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(w, r)
	if !ok {
		return
	}

	filter := request.Filter{
		Status: r.URL.Query().Get("status"),
		Type:   r.URL.Query().Get("type"),
		Search: r.URL.Query().Get("search"),
	}

	forms, err := h.requestService.ListRequests(r.Context(), session, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, request.NewRequestResponses(forms), &response.Meta{TotalItems: len(forms)})
}

// Get implements RequestHandler.
func (h *requestHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(w, r)
	if !ok {
		return
	}

	form, err := h.requestService.GetRequest(r.Context(), session, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, request.NewRequestResponse(form))
}

// Create implements RequestHandler.
func (h *requestHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(w, r)
	if !ok {
		return
	}

	var req request.CreateRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	form, err := h.requestService.CreateRequest(r.Context(), session, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Request created successfully", request.NewRequestResponse(form))
}

// Update implements RequestHandler.
func (h *requestHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(w, r)
	if !ok {
		return
	}

	var req request.UpdateRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	form, err := h.requestService.UpdateRequest(r.Context(), session, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Request updated successfully", request.NewRequestResponse(form))
}

// Delete implements RequestHandler.
func (h *requestHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(w, r)
	if !ok {
		return
	}

	if err := h.requestService.DeleteRequest(r.Context(), session, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Request deleted successfully", nil)
}

// Approve implements RequestHandler. The body decides between approval and rejection.
func (h *requestHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(w, r)
	if !ok {
		return
	}

	var req request.ApproveRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	form, err := h.requestService.Approve(r.Context(), session, chi.URLParam(r, "id"), *req.Approved, req.Note)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	message := "Request rejected"
	if *req.Approved {
		message = "Request approved"
	}
	response.SuccessWithMessage(w, message, request.NewRequestResponse(form))
}

package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type DepartmentHandler interface {
	ListRates(w http.ResponseWriter, r *http.Request)
	SetRate(w http.ResponseWriter, r *http.Request)
	DeactivateRate(w http.ResponseWriter, r *http.Request)
}

type departmentHandlerImpl struct {
	departmentService department.DepartmentService
}

func NewDepartmentHandler(departmentService department.DepartmentService) DepartmentHandler {
	return &departmentHandlerImpl{
		departmentService: departmentService,
	}
}

// ListRates implements DepartmentHandler.
func (h *departmentHandlerImpl) ListRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.departmentService.ListRates(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, rates)
}

// SetRate implements DepartmentHandler.
func (h *departmentHandlerImpl) SetRate(w http.ResponseWriter, r *http.Request) {
	var req department.SetRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	rate, err := h.departmentService.SetRate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Department rate saved", rate)
}

// DeactivateRate implements DepartmentHandler.
func (h *departmentHandlerImpl) DeactivateRate(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	departmentID := chi.URLParam(r, "departmentID")

	if err := h.departmentService.DeactivateRate(r.Context(), employeeID, departmentID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Department rate deactivated", nil)
}

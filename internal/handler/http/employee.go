package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
)

type EmployeeHandler interface {
	EnrollFace(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService employee.EmployeeService
}

func NewEmployeeHandler(employeeService employee.EmployeeService) EmployeeHandler {
	return &employeeHandlerImpl{
		employeeService: employeeService,
	}
}

// EnrollFace implements EmployeeHandler.
func (h *employeeHandlerImpl) EnrollFace(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := requireEmployeeID(w, r)
	if !ok {
		return
	}

	photo, filename, ok := parsePhotoForm(w, r, nil)
	if !ok {
		return
	}

	result, err := h.employeeService.EnrollFace(r.Context(), employee.EnrollFaceRequest{
		EmployeeID: employeeID,
		Image:      photo,
		Filename:   filename,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Face reference enrolled", result)
}

package employee

import (
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type EnrollFaceRequest struct {
	EmployeeID string `json:"-"`
	Image      []byte `json:"-"`
	Filename   string `json:"-"`
}

func (r *EnrollFaceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	if len(r.Image) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "photo",
			Message: "face photo is required",
		})
	} else if !validator.IsImageFilename(r.Filename) {
		errs = append(errs, validator.ValidationError{
			Field:   "photo",
			Message: "invalid file type: only jpg, jpeg, png allowed",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EnrollFaceResponse struct {
	EmployeeID       string `json:"employee_id"`
	FaceReferenceURL string `json:"face_reference_url"`
}

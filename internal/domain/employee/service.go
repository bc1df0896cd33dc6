package employee

import "context"

// MediaStore stores enrollment images.
type MediaStore interface {
	UploadFaceReference(ctx context.Context, employeeID string, image []byte) (string, error)
	DeleteFile(ctx context.Context, url string) error
}

type EmployeeService interface {
	// EnrollFace replaces the employee's face reference image.
	EnrollFace(ctx context.Context, req EnrollFaceRequest) (EnrollFaceResponse, error)
}

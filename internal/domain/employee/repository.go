package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	UpdateFaceReference(ctx context.Context, id string, url string) error
}

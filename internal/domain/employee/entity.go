package employee

import (
	"time"
)

type Employee struct {
	ID               string
	UserID           *string
	FullName         string
	OrganizationID   *string
	FaceReferenceURL *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        *time.Time
}

// HasFaceReference reports whether a reference image is enrolled.
func (e Employee) HasFaceReference() bool {
	return e.FaceReferenceURL != nil && *e.FaceReferenceURL != ""
}

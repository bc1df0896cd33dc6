package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/notification"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	mediaStore   employee.MediaStore
	notifier     notification.Notifier
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository, mediaStore employee.MediaStore, notifier notification.Notifier) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
		mediaStore:   mediaStore,
		notifier:     notifier,
	}
}

// EnrollFace implements employee.EmployeeService. The previous reference
// image is deleted only after the new one is stored; a failed delete is
// logged and ignored.
func (s *EmployeeServiceImpl) EnrollFace(ctx context.Context, req employee.EnrollFaceRequest) (employee.EnrollFaceResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EnrollFaceResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.EnrollFaceResponse{}, err
		}
		return employee.EnrollFaceResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	url, err := s.mediaStore.UploadFaceReference(ctx, emp.ID, req.Image)
	if err != nil {
		return employee.EnrollFaceResponse{}, fmt.Errorf("failed to upload face reference: %w", err)
	}

	if err := s.employeeRepo.UpdateFaceReference(ctx, emp.ID, url); err != nil {
		if delErr := s.mediaStore.DeleteFile(context.WithoutCancel(ctx), url); delErr != nil {
			slog.Warn("Failed to delete orphaned face reference", "url", url, "error", delErr)
		}
		return employee.EnrollFaceResponse{}, fmt.Errorf("failed to update face reference: %w", err)
	}

	if emp.HasFaceReference() && *emp.FaceReferenceURL != url {
		if err := s.mediaStore.DeleteFile(ctx, *emp.FaceReferenceURL); err != nil {
			slog.Warn("Failed to delete previous face reference",
				"employee_id", emp.ID,
				"url", *emp.FaceReferenceURL,
				"error", err,
			)
		}
	}

	if s.notifier != nil {
		err := s.notifier.Notify(ctx, notification.Notification{
			Recipients: []string{emp.ID},
			Type:       notification.TypeFaceEnrolled,
			Title:      "Face reference updated",
			Body:       "Your face reference image was updated",
		})
		if err != nil {
			slog.Warn("Failed to deliver enrollment notification", "employee_id", emp.ID, "error", err)
		}
	}

	return employee.EnrollFaceResponse{
		EmployeeID:       emp.ID,
		FaceReferenceURL: url,
	}, nil
}

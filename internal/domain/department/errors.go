package department

import "errors"

var (
	ErrRateNotFound      = errors.New("no hourly rate could be resolved for this employee")
	ErrDepartmentIDEmpty = errors.New("department_id is required")
)

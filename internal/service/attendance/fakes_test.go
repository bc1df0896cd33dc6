package attendance

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/notification"
	"github.com/shopspring/decimal"
)

var wib = time.FixedZone("WIB", 7*60*60)

// fakeAttendanceRepo serializes Modify with a mutex, like the row lock does.
type fakeAttendanceRepo struct {
	mu        sync.Mutex
	days      map[string]attendance.AttendanceDay
	modifyErr error
	seq       int
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{days: make(map[string]attendance.AttendanceDay)}
}

func dayKey(employeeID, workDate string) string { return employeeID + "|" + workDate }

func cloneDay(d attendance.AttendanceDay) attendance.AttendanceDay {
	d.CheckIns = append([]attendance.SessionEvent(nil), d.CheckIns...)
	d.CheckOuts = append([]attendance.SessionEvent(nil), d.CheckOuts...)
	return d
}

func (r *fakeAttendanceRepo) put(d attendance.AttendanceDay) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d.ID == "" {
		r.seq++
		d.ID = fmt.Sprintf("day-%d", r.seq)
	}
	r.days[dayKey(d.EmployeeID, d.WorkDate)] = cloneDay(d)
}

func (r *fakeAttendanceRepo) get(employeeID, workDate string) (attendance.AttendanceDay, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.days[dayKey(employeeID, workDate)]
	return cloneDay(d), ok
}

func (r *fakeAttendanceRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, workDate string) (*attendance.AttendanceDay, error) {
	d, ok := r.get(employeeID, workDate)
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r *fakeAttendanceRepo) list(employeeID string) []attendance.AttendanceDay {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []attendance.AttendanceDay
	for _, d := range r.days {
		if d.EmployeeID == employeeID {
			out = append(out, cloneDay(d))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WorkDate < out[j].WorkDate })
	return out
}

func (r *fakeAttendanceRepo) ListByRange(ctx context.Context, employeeID string, startDate, endDate string) ([]attendance.AttendanceDay, error) {
	var out []attendance.AttendanceDay
	for _, d := range r.list(employeeID) {
		if d.WorkDate >= startDate && d.WorkDate <= endDate {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeAttendanceRepo) ListHistory(ctx context.Context, employeeID string, limit, offset int) ([]attendance.AttendanceDay, int64, error) {
	all := r.list(employeeID)
	sort.Slice(all, func(i, j int) bool { return all[i].WorkDate > all[j].WorkDate })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], total, nil
}

func (r *fakeAttendanceRepo) Modify(ctx context.Context, employeeID string, workDate string, fn func(day *attendance.AttendanceDay) error) (attendance.AttendanceDay, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.modifyErr != nil {
		return attendance.AttendanceDay{}, r.modifyErr
	}

	d, ok := r.days[dayKey(employeeID, workDate)]
	if !ok {
		r.seq++
		d = attendance.AttendanceDay{
			ID:         fmt.Sprintf("day-%d", r.seq),
			EmployeeID: employeeID,
			WorkDate:   workDate,
			Status:     attendance.StatusPresent,
			TotalHours: "--",
			Overtime:   "--",
		}
	}
	d = cloneDay(d)
	if err := fn(&d); err != nil {
		return attendance.AttendanceDay{}, err
	}
	r.days[dayKey(employeeID, workDate)] = cloneDay(d)
	return d, nil
}

func (r *fakeAttendanceRepo) ListOpenSessions(ctx context.Context, workDate string) ([]attendance.AttendanceDay, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []attendance.AttendanceDay
	for _, d := range r.days {
		if d.WorkDate == workDate && d.HasOpenSession() {
			out = append(out, cloneDay(d))
		}
	}
	return out, nil
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func (r *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	e, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *fakeEmployeeRepo) UpdateFaceReference(ctx context.Context, id string, url string) error {
	e, ok := r.employees[id]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	e.FaceReferenceURL = &url
	r.employees[id] = e
	return nil
}

type fakeVerifier struct {
	mu    sync.Mutex
	match bool
	err   error
	calls int
}

func (v *fakeVerifier) Verify(ctx context.Context, capturedImageURL, referenceImageURL string) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.calls++
	return v.match, v.err
}

type fakeMediaStore struct {
	mu        sync.Mutex
	seq       int
	uploaded  []string
	deleted   []string
	uploadErr error
}

func (m *fakeMediaStore) UploadAttendanceProof(ctx context.Context, employeeID string, workDate string, image []byte, kind string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	m.seq++
	url := fmt.Sprintf("http://media.test/attendance/%s/%s-%s-%d.jpg", workDate, employeeID, kind, m.seq)
	m.uploaded = append(m.uploaded, url)
	return url, nil
}

func (m *fakeMediaStore) DeleteFile(ctx context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, url)
	return nil
}

func (m *fakeMediaStore) counts() (uploaded, deleted int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.uploaded), len(m.deleted)
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []notification.Notification
	err  error
}

func (n *fakeNotifier) Notify(ctx context.Context, msg notification.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, msg)
	return nil
}

type fakeRateResolver struct {
	rates map[string]decimal.Decimal
	err   error
}

func (f *fakeRateResolver) ResolveRate(ctx context.Context, employeeID string, departmentID *string) (department.ResolvedRate, error) {
	if f.err != nil {
		return department.ResolvedRate{}, f.err
	}
	if departmentID != nil {
		if rate, ok := f.rates[*departmentID]; ok {
			return department.ResolvedRate{DepartmentID: departmentID, HourlyRate: rate, Source: department.SourceDepartment}, nil
		}
	}
	return department.ResolvedRate{}, department.ErrRateNotFound
}

type testDeps struct {
	repo      *fakeAttendanceRepo
	employees *fakeEmployeeRepo
	verifier  *fakeVerifier
	media     *fakeMediaStore
	notifier  *fakeNotifier
	rates     *fakeRateResolver
	clock     *testClock
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

const testEmployeeID = "emp-1"

func newTestService(t *testing.T) (*AttendanceServiceImpl, *testDeps) {
	t.Helper()

	ref := "http://media.test/faces/emp-1/ref.jpg"
	deps := &testDeps{
		repo: newFakeAttendanceRepo(),
		employees: &fakeEmployeeRepo{employees: map[string]employee.Employee{
			testEmployeeID: {ID: testEmployeeID, FullName: "Ayu Lestari", FaceReferenceURL: &ref},
			"emp-noface":   {ID: "emp-noface", FullName: "Budi"},
		}},
		verifier: &fakeVerifier{match: true},
		media:    &fakeMediaStore{},
		notifier: &fakeNotifier{},
		rates:    &fakeRateResolver{rates: map[string]decimal.Decimal{}},
		clock:    &testClock{now: at(2026, 10, 15, 9, 0)},
	}

	svc := newAttendanceService(
		deps.repo,
		deps.employees,
		deps.rates,
		deps.verifier,
		deps.media,
		deps.notifier,
		config.AttendanceConfig{StandardHours: 8, LateAfter: "09:05"},
		wib,
	)
	svc.now = deps.clock.Now
	return svc, deps
}

// at builds a WIB wall clock time.
func at(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, wib)
}

func checkInReq(employeeID string) attendance.CheckInRequest {
	return attendance.CheckInRequest{
		EmployeeID: employeeID,
		Latitude:   -6.2,
		Longitude:  106.8,
		Address:    "Jl. Sudirman 1",
		Image:      []byte("jpeg-bytes"),
		Filename:   "capture.jpg",
	}
}

func checkOutReq(employeeID string) attendance.CheckOutRequest {
	return attendance.CheckOutRequest{
		EmployeeID: employeeID,
		Latitude:   -6.2,
		Longitude:  106.8,
		Address:    "Jl. Sudirman 1",
		Image:      []byte("jpeg-bytes"),
		Filename:   "capture.jpg",
	}
}

// event builds a stored session event at a WIB wall clock time.
func event(t time.Time) attendance.SessionEvent {
	return attendance.SessionEvent{
		Time:     t,
		ImageURL: "http://media.test/" + t.Format("150405") + ".jpg",
		Location: attendance.Location{Address: "Office", Coordinates: [2]float64{106.8, -6.2}},
	}
}

var errStorage = errors.New("storage down")

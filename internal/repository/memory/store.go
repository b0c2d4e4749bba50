// Package memory keeps every repository in process memory. Service tests use
// it in place of PostgreSQL; it enforces the same uniqueness and
// compare-and-set rules as the SQL schema.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/anpk/attendance-backend-go/internal/domain/attendance"
	"github.com/anpk/attendance-backend-go/internal/domain/correction"
	"github.com/anpk/attendance-backend-go/internal/domain/employee"
	"github.com/anpk/attendance-backend-go/internal/domain/site"
	"github.com/anpk/attendance-backend-go/internal/pkg/database"
)

type Store struct {
	mu sync.Mutex

	employees   map[string]employee.Employee
	sites       map[string]site.Site
	assignments map[string]map[string]time.Time
	attendances map[string]attendance.Attendance
	corrections map[string]correction.CorrectionRequest
}

func NewStore() *Store {
	return &Store{
		employees:   make(map[string]employee.Employee),
		sites:       make(map[string]site.Site),
		assignments: make(map[string]map[string]time.Time),
		attendances: make(map[string]attendance.Attendance),
		corrections: make(map[string]correction.CorrectionRequest),
	}
}

func (s *Store) Employees() employee.EmployeeRepository { return &employeeRepo{s} }
func (s *Store) Sites() site.SiteRepository { return &siteRepo{s} }
func (s *Store) Assignments() site.AssignmentRepository { return &assignmentRepo{s} }
func (s *Store) Attendances() attendance.AttendanceRepository { return &attendanceRepo{s} }
func (s *Store) Corrections() correction.CorrectionRequestRepository { return &correctionRepo{s} }

// Transactor runs fn directly. Each repository call is atomic on its own.
func (s *Store) Transactor() database.Transactor { return transactor{} }

type transactor struct{}

func (transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (transactor) WithinReadOnlyTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// ========================================
// EMPLOYEES
// ========================================

type employeeRepo struct{ s *Store }

func (r *employeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *employeeRepo) GetByCode(ctx context.Context, code string) (employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, e := range r.s.employees {
		if e.EmployeeCode == code {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *employeeRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	_, err := r.GetByCode(ctx, code)
	return err == nil, nil
}

func (r *employeeRepo) List(ctx context.Context) ([]employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []employee.Employee
	for _, e := range r.s.employees {
		out = append(out, e)
	}
	sortEmployees(out)
	return out, nil
}

func (r *employeeRepo) ListBySiteIDs(ctx context.Context, siteIDs []string, role *employee.Role) ([]employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	wanted := toSet(siteIDs)
	var out []employee.Employee
	for _, e := range r.s.employees {
		if !wanted[e.SiteID] {
			continue
		}
		if role != nil && e.Role != *role {
			continue
		}
		out = append(out, e)
	}
	sortEmployees(out)
	return out, nil
}

func (r *employeeRepo) ListActiveIDsBySite(ctx context.Context, siteID string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var ids []string
	for _, e := range r.s.employees {
		if e.SiteID == siteID && e.Active {
			ids = append(ids, e.ID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *employeeRepo) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.employees {
		if existing.EmployeeCode == e.EmployeeCode {
			return employee.Employee{}, employee.ErrEmployeeCodeExists
		}
	}
	now := time.Now()
	e.CreatedAt, e.UpdatedAt = now, now
	r.s.employees[e.ID] = e
	return e, nil
}

func (r *employeeRepo) Update(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.employees[e.ID]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	current.Name = e.Name
	current.Active = e.Active
	current.SiteID = e.SiteID
	current.UpdatedAt = time.Now()
	r.s.employees[e.ID] = current
	return current, nil
}

func sortEmployees(list []employee.Employee) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].EmployeeCode < list[j].EmployeeCode
	})
}

// ========================================
// SITES AND ASSIGNMENTS
// ========================================

type siteRepo struct{ s *Store }

func (r *siteRepo) GetByID(ctx context.Context, id string) (site.Site, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	st, ok := r.s.sites[id]
	if !ok {
		return site.Site{}, site.ErrSiteNotFound
	}
	return st, nil
}

func (r *siteRepo) Exists(ctx context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, ok := r.s.sites[id]
	return ok, nil
}

func (r *siteRepo) List(ctx context.Context) ([]site.Site, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []site.Site
	for _, st := range r.s.sites {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *siteRepo) ListByIDs(ctx context.Context, ids []string) ([]site.Site, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []site.Site
	for _, id := range ids {
		if st, ok := r.s.sites[id]; ok {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *siteRepo) Create(ctx context.Context, st site.Site) (site.Site, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now()
	st.CreatedAt, st.UpdatedAt = now, now
	r.s.sites[st.ID] = st
	return st, nil
}

func (r *siteRepo) Update(ctx context.Context, st site.Site) (site.Site, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.sites[st.ID]
	if !ok {
		return site.Site{}, site.ErrSiteNotFound
	}
	current.Name = st.Name
	current.Active = st.Active
	current.UpdatedAt = time.Now()
	r.s.sites[st.ID] = current
	return current, nil
}

type assignmentRepo struct{ s *Store }

func (r *assignmentRepo) Assign(ctx context.Context, managerID, siteID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sites, ok := r.s.assignments[managerID]
	if !ok {
		sites = make(map[string]time.Time)
		r.s.assignments[managerID] = sites
	}
	if _, ok := sites[siteID]; !ok {
		sites[siteID] = time.Now()
	}
	return nil
}

func (r *assignmentRepo) Unassign(ctx context.Context, managerID, siteID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.assignments[managerID], siteID)
	return nil
}

func (r *assignmentRepo) IsAssigned(ctx context.Context, managerID, siteID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, ok := r.s.assignments[managerID][siteID]
	return ok, nil
}

func (r *assignmentRepo) ListSiteIDs(ctx context.Context, managerID string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var ids []string
	for id := range r.s.assignments[managerID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// ========================================
// ATTENDANCES
// ========================================

type attendanceRepo struct{ s *Store }

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func dateKey(t time.Time) string {
	return t.Format(attendance.DateLayout)
}

func (r *attendanceRepo) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.attendances {
		if existing.UserID == a.UserID && sameDate(existing.WorkDate, a.WorkDate) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
	}
	now := time.Now()
	a.CreatedAt, a.UpdatedAt = now, now
	r.s.attendances[a.ID] = a
	return a, nil
}

func (r *attendanceRepo) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.attendances[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return a, nil
}

func (r *attendanceRepo) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, a := range r.s.attendances {
		if a.UserID == userID && sameDate(a.WorkDate, date) {
			found := a
			return &found, nil
		}
	}
	return nil, nil
}

func (r *attendanceRepo) GetByPhotoPath(ctx context.Context, path string) (attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, a := range r.s.attendances {
		if a.PhotoPath != nil && *a.PhotoPath == path {
			return a, nil
		}
	}
	return attendance.Attendance{}, attendance.ErrPhotoNotFound
}

func (r *attendanceRepo) ListByUserInDateRange(ctx context.Context, userID string, from, to time.Time) ([]attendance.Attendance, error) {
	return r.ListByUsersInDateRange(ctx, []string{userID}, from, to)
}

func (r *attendanceRepo) ListByUsersInDateRange(ctx context.Context, userIDs []string, from, to time.Time) ([]attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	users := toSet(userIDs)
	lo, hi := dateKey(from), dateKey(to)
	var out []attendance.Attendance
	for _, a := range r.s.attendances {
		key := dateKey(a.WorkDate)
		if users[a.UserID] && key >= lo && key <= hi {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ki, kj := dateKey(out[i].WorkDate), dateKey(out[j].WorkDate)
		if ki != kj {
			return ki < kj
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}

func (r *attendanceRepo) CloseCheckOut(ctx context.Context, id string, at time.Time) (attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.attendances[id]
	if !ok || a.CheckOutAt != nil {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
	}
	a.CheckOutAt = &at
	a.UpdatedAt = time.Now()
	r.s.attendances[id] = a
	return a, nil
}

// ========================================
// CORRECTION REQUESTS
// ========================================

type correctionRepo struct{ s *Store }

func (r *correctionRepo) Create(ctx context.Context, c correction.CorrectionRequest) (correction.CorrectionRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.corrections {
		if existing.AttendanceID == c.AttendanceID && existing.IsPending() {
			return correction.CorrectionRequest{}, correction.ErrPendingRequestExists
		}
	}
	r.s.corrections[c.ID] = c
	return c, nil
}

func (r *correctionRepo) GetByID(ctx context.Context, id string) (correction.CorrectionRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.corrections[id]
	if !ok {
		return correction.CorrectionRequest{}, correction.ErrCorrectionRequestNotFound
	}
	return c, nil
}

func (r *correctionRepo) ExistsPendingByAttendanceID(ctx context.Context, attendanceID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, c := range r.s.corrections {
		if c.AttendanceID == attendanceID && c.IsPending() {
			return true, nil
		}
	}
	return false, nil
}

func (r *correctionRepo) page(match func(correction.CorrectionRequest) bool, page, size int) ([]correction.CorrectionRequest, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var all []correction.CorrectionRequest
	for _, c := range r.s.corrections {
		if match(c) {
			all = append(all, c)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].RequestedAt.Equal(all[j].RequestedAt) {
			return all[i].RequestedAt.After(all[j].RequestedAt)
		}
		return all[i].ID > all[j].ID
	})

	total := int64(len(all))
	start := (page - 1) * size
	if start >= len(all) {
		return []correction.CorrectionRequest{}, total, nil
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *correctionRepo) ListByRequester(ctx context.Context, requesterID string, status *correction.Status, page, size int) ([]correction.CorrectionRequest, int64, error) {
	return r.page(func(c correction.CorrectionRequest) bool {
		return c.RequestedBy == requesterID && (status == nil || c.Status == *status)
	}, page, size)
}

func (r *correctionRepo) ListByStatus(ctx context.Context, status correction.Status, page, size int) ([]correction.CorrectionRequest, int64, error) {
	return r.page(func(c correction.CorrectionRequest) bool {
		return c.Status == status
	}, page, size)
}

func (r *correctionRepo) ListByRequestersAndStatus(ctx context.Context, requesterIDs []string, status correction.Status, page, size int) ([]correction.CorrectionRequest, int64, error) {
	requesters := toSet(requesterIDs)
	return r.page(func(c correction.CorrectionRequest) bool {
		return requesters[c.RequestedBy] && c.Status == status
	}, page, size)
}

func (r *correctionRepo) approvedFor(attendanceID string) []correction.CorrectionRequest {
	var out []correction.CorrectionRequest
	for _, c := range r.s.corrections {
		if c.AttendanceID == attendanceID && c.Status == correction.StatusApproved {
			out = append(out, c)
		}
	}
	return out
}

func (r *correctionRepo) FindLatestApproved(ctx context.Context, attendanceID string) (*correction.CorrectionRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return correction.LatestApproved(r.approvedFor(attendanceID)), nil
}

func (r *correctionRepo) FindLatestApprovedByAttendanceIDs(ctx context.Context, attendanceIDs []string) (map[string]correction.CorrectionRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	latest := make(map[string]correction.CorrectionRequest)
	for _, id := range attendanceIDs {
		if c := correction.LatestApproved(r.approvedFor(id)); c != nil {
			latest[id] = *c
		}
	}
	return latest, nil
}

func (r *correctionRepo) PendingAttendanceIDs(ctx context.Context, attendanceIDs []string) (map[string]bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	wanted := toSet(attendanceIDs)
	pending := make(map[string]bool)
	for _, c := range r.s.corrections {
		if wanted[c.AttendanceID] && c.IsPending() {
			pending[c.AttendanceID] = true
		}
	}
	return pending, nil
}

func (r *correctionRepo) SaveResolution(ctx context.Context, c correction.CorrectionRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.corrections[c.ID]
	if !ok || !current.IsPending() {
		return correction.ErrInvalidStatusTransition
	}
	r.s.corrections[c.ID] = c
	return nil
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

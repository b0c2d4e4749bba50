package correction

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/anpk/attendance-backend-go/internal/domain/access"
	"github.com/anpk/attendance-backend-go/internal/domain/attendance"
	"github.com/anpk/attendance-backend-go/internal/domain/common"
	"github.com/anpk/attendance-backend-go/internal/domain/correction"
	"github.com/anpk/attendance-backend-go/internal/domain/employee"
	"github.com/anpk/attendance-backend-go/internal/domain/site"
	"github.com/anpk/attendance-backend-go/internal/pkg/clock"
	"github.com/anpk/attendance-backend-go/internal/pkg/validator"
	"github.com/anpk/attendance-backend-go/internal/repository/memory"
	accessservice "github.com/anpk/attendance-backend-go/internal/service/access"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	siteA = "site-a"
	siteB = "site-b"

	empID      = "emp-1"
	otherEmpID = "emp-2"
	mgrID      = "mgr-1"
	adminID    = "admin-1"
	retiredID  = "emp-retired"
)

type fixture struct {
	ctx     context.Context
	loc     *time.Location
	clock   *clock.FixedClock
	store   *memory.Store
	service correction.CorrectionService
	final   correction.FinalSynthesizer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	loc, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)

	f := &fixture{
		ctx:   context.Background(),
		loc:   loc,
		clock: clock.NewFixedClock(time.Date(2025, 1, 20, 10, 0, 0, 0, loc), loc),
		store: memory.NewStore(),
	}

	for _, s := range []site.Site{{ID: siteA, Name: "Seoul HQ", Active: true}, {ID: siteB, Name: "Busan", Active: true}} {
		_, err := f.store.Sites().Create(f.ctx, s)
		require.NoError(t, err)
	}

	employees := []employee.Employee{
		{ID: empID, EmployeeCode: "E001", Name: "Kim", Role: employee.RoleEmployee, Active: true, SiteID: siteA},
		{ID: otherEmpID, EmployeeCode: "E002", Name: "Lee", Role: employee.RoleEmployee, Active: true, SiteID: siteB},
		{ID: mgrID, EmployeeCode: "M001", Name: "Park", Role: employee.RoleManager, Active: true, SiteID: siteA},
		{ID: adminID, EmployeeCode: "A001", Name: "Choi", Role: employee.RoleAdmin, Active: true, SiteID: siteA},
		{ID: retiredID, EmployeeCode: "E003", Name: "Jung", Role: employee.RoleEmployee, Active: false, SiteID: siteA},
	}
	for _, e := range employees {
		_, err := f.store.Employees().Create(f.ctx, e)
		require.NoError(t, err)
	}
	require.NoError(t, f.store.Assignments().Assign(f.ctx, mgrID, siteA))

	policy := accessservice.NewPolicy(f.store.Employees(), f.store.Assignments())
	f.final = NewFinalSynthesizer(f.store.Corrections())
	f.service = NewCorrectionService(
		f.store.Transactor(),
		f.clock,
		policy,
		f.final,
		f.store.Attendances(),
		f.store.Corrections(),
		f.store.Employees(),
		f.store.Assignments(),
	)
	return f
}

func (f *fixture) at(day, hour, minute int) time.Time {
	return time.Date(2025, 1, day, hour, minute, 0, 0, f.loc)
}

// seedAttendance stores a record the way PostgreSQL returns it: the work
// date at UTC midnight and instants in UTC.
func (f *fixture) seedAttendance(t *testing.T, id, userID string, workDate time.Time, in, out *time.Time) attendance.Attendance {
	t.Helper()

	a := attendance.Attendance{
		ID:         id,
		UserID:     userID,
		WorkDate:   time.Date(workDate.Year(), workDate.Month(), workDate.Day(), 0, 0, 0, 0, time.UTC),
		CheckInAt:  utc(in),
		CheckOutAt: utc(out),
	}
	created, err := f.store.Attendances().Create(f.ctx, a)
	require.NoError(t, err)
	return created
}

// seedWorkday stores 2025-01-10 09:00-18:00 for userID.
func (f *fixture) seedWorkday(t *testing.T, id, userID string) attendance.Attendance {
	in, out := f.at(10, 9, 0), f.at(10, 18, 0)
	return f.seedAttendance(t, id, userID, f.at(10, 0, 0), &in, &out)
}

func (f *fixture) createCheckIn(t *testing.T, actorID, attendanceID string, proposed time.Time) correction.CorrectionResponse {
	t.Helper()

	res, err := f.service.Create(f.ctx, actorID, correction.CreateCorrectionRequest{
		AttendanceID:      attendanceID,
		ProposedCheckInAt: &proposed,
		Reason:            "traffic",
	})
	require.NoError(t, err)
	return res
}

func ptr(t time.Time) *time.Time { return &t }

func strPtr(s string) *string { return &s }

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	return ptr(t.UTC())
}

func assertSameInstant(t *testing.T, want time.Time, got *time.Time) {
	t.Helper()
	require.NotNil(t, got)
	assert.True(t, want.Equal(*got), "want %s, got %s", want, *got)
}

func TestCreateAndApprove_FinalReflectsCorrection(t *testing.T) {
	f := newFixture(t)
	a := f.seedWorkday(t, "att-1", empID)

	created := f.createCheckIn(t, empID, a.ID, f.at(10, 8, 45))

	assert.Equal(t, correction.StatusPending, created.Status)
	assert.Equal(t, correction.TypeCheckIn, created.Type)
	assert.Equal(t, empID, created.RequestedBy)
	assert.Equal(t, "traffic", created.Reason)
	assert.Nil(t, created.ProposedCheckOutAt)
	assert.True(t, f.clock.Now().Equal(created.RequestedAt))

	approved, err := f.service.Approve(f.ctx, mgrID, created.ID, correction.ApproveRequest{Comment: strPtr("  ok  ")})
	require.NoError(t, err)
	assert.Equal(t, correction.StatusApproved, approved.Status)
	require.NotNil(t, approved.ProcessedBy)
	assert.Equal(t, mgrID, *approved.ProcessedBy)
	require.NotNil(t, approved.ApproveComment)
	assert.Equal(t, "ok", *approved.ApproveComment)
	assert.Nil(t, approved.RejectReason)

	snap, err := f.final.Compute(f.ctx, a)
	require.NoError(t, err)
	assertSameInstant(t, f.at(10, 8, 45), snap.CheckInAt)
	assertSameInstant(t, f.at(10, 18, 0), snap.CheckOutAt)
	assert.True(t, snap.IsCorrected)
	require.NotNil(t, snap.AppliedCorrectionRequestID)
	assert.Equal(t, created.ID, *snap.AppliedCorrectionRequestID)

	raw, err := f.store.Attendances().GetByID(f.ctx, a.ID)
	require.NoError(t, err)
	assertSameInstant(t, f.at(10, 9, 0), raw.CheckInAt)
}

func TestCreate_ThenReadRequestedByMe(t *testing.T) {
	f := newFixture(t)
	a := f.seedWorkday(t, "att-1", empID)

	in, out := f.at(10, 8, 30), f.at(10, 17, 30)
	created, err := f.service.Create(f.ctx, empID, correction.CreateCorrectionRequest{
		AttendanceID:       a.ID,
		ProposedCheckInAt:  &in,
		ProposedCheckOutAt: &out,
		Reason:             "badge reader offline",
	})
	require.NoError(t, err)
	assert.Equal(t, correction.TypeBoth, created.Type)

	detail, err := f.service.Get(f.ctx, empID, created.ID, correction.ScopeRequestedByMe)
	require.NoError(t, err)

	assert.Equal(t, correction.StatusPending, detail.Status)
	assertSameInstant(t, in, detail.ProposedCheckInAt)
	assertSameInstant(t, out, detail.ProposedCheckOutAt)
	assert.Equal(t, "2025-01-10", detail.WorkDate)
	assertSameInstant(t, f.at(10, 9, 0), detail.OriginalCheckInAt)
	// A pending request does not change the current values.
	assertSameInstant(t, f.at(10, 9, 0), detail.CurrentCheckInAt)
	assertSameInstant(t, f.at(10, 18, 0), detail.CurrentCheckOutAt)
	assert.False(t, detail.IsCorrected)
	assert.Equal(t, f.loc, detail.CurrentCheckInAt.Location())
}

func TestCreate_SecondPendingRequestConflicts(t *testing.T) {
	f := newFixture(t)
	a := f.seedWorkday(t, "att-1", empID)
	f.createCheckIn(t, empID, a.ID, f.at(10, 8, 45))

	for _, actor := range []string{empID, mgrID, adminID} {
		in := f.at(10, 8, 50)
		_, err := f.service.Create(f.ctx, actor, correction.CreateCorrectionRequest{
			AttendanceID:      a.ID,
			ProposedCheckInAt: &in,
			Reason:            "again",
		})
		assert.ErrorIs(t, err, correction.ErrPendingRequestExists, "actor %s", actor)
	}
}

func TestCreate_AfterResolutionANewRequestIsAllowed(t *testing.T) {
	f := newFixture(t)
	a := f.seedWorkday(t, "att-1", empID)
	first := f.createCheckIn(t, empID, a.ID, f.at(10, 8, 45))

	_, err := f.service.Cancel(f.ctx, empID, first.ID)
	require.NoError(t, err)

	second := f.createCheckIn(t, empID, a.ID, f.at(10, 8, 40))
	assert.NotEqual(t, first.ID, second.ID)
}

func TestCreate_ValidationOrder(t *testing.T) {
	f := newFixture(t)
	current := f.seedWorkday(t, "att-1", empID)

	decIn, decOut := time.Date(2024, 12, 31, 9, 0, 0, 0, f.loc), time.Date(2024, 12, 31, 18, 0, 0, 0, f.loc)
	december := f.seedAttendance(t, "att-dec", empID, decIn, &decIn, &decOut)

	openIn := f.at(15, 9, 0)
	open := f.seedAttendance(t, "att-open", empID, openIn, &openIn, nil)

	retiredIn, retiredOut := f.at(10, 9, 0), f.at(10, 18, 0)
	retired := f.seedAttendance(t, "att-retired", retiredID, retiredIn, &retiredIn, &retiredOut)

	tests := []struct {
		name    string
		actorID string
		req       correction.CreateCorrectionRequest
		wantErr   error
		wantField string
	}{
		{
			name:      "missing attendance id",
			actorID:   empID,
			req:       correction.CreateCorrectionRequest{Reason: "x"},
			wantField: "attendance_id",
		},
		{
			name:    "unknown attendance",
			actorID: empID,
			req:     correction.CreateCorrectionRequest{AttendanceID: "missing", Reason: "x"},
			wantErr: attendance.ErrAttendanceNotFound,
		},
		{
			name:    "authorization is checked before the window",
			actorID: otherEmpID,
			req:     correction.CreateCorrectionRequest{AttendanceID: december.ID, ProposedCheckInAt: ptr(decIn), Reason: "x"},
			wantErr: access.ErrForbidden,
		},
		{
			name:    "inactive actor",
			actorID: retiredID,
			req:     correction.CreateCorrectionRequest{AttendanceID: retired.ID, ProposedCheckInAt: ptr(f.at(10, 8, 0)), Reason: "x"},
			wantErr: employee.ErrEmployeeInactive,
		},
		{
			name:    "prior month is out of window",
			actorID: empID,
			req:     correction.CreateCorrectionRequest{AttendanceID: december.ID, ProposedCheckInAt: ptr(decIn), Reason: "x"},
			wantErr: correction.ErrOutOfCorrectionWindow,
		},
		{
			name:    "type cannot be resolved",
			actorID: empID,
			req:     correction.CreateCorrectionRequest{AttendanceID: current.ID, Reason: "x"},
			wantErr: correction.ErrTypeUnresolvable,
		},
		{
			name:    "unknown type",
			actorID: empID,
			req:     correction.CreateCorrectionRequest{AttendanceID: current.ID, Type: strPtr("LUNCH"), Reason: "x"},
			wantErr: correction.ErrInvalidType,
		},
		{
			name:    "blank reason",
			actorID: empID,
			req:     correction.CreateCorrectionRequest{AttendanceID: current.ID, ProposedCheckInAt: ptr(f.at(10, 8, 0)), Reason: "   "},
			wantErr: correction.ErrReasonRequired,
		},
		{
			name:    "type needs its field",
			actorID: empID,
			req:     correction.CreateCorrectionRequest{AttendanceID: current.ID, Type: strPtr("check_out"), ProposedCheckInAt: ptr(f.at(10, 8, 0)), Reason: "x"},
			wantErr: correction.ErrProposedOutRequired,
		},
		{
			name:    "open record needs a check-out",
			actorID: empID,
			req:     correction.CreateCorrectionRequest{AttendanceID: open.ID, ProposedCheckInAt: ptr(f.at(15, 8, 0)), Reason: "x"},
			wantErr: correction.ErrIncompleteFinalPair,
		},
		{
			name:    "check-in after existing check-out",
			actorID: empID,
			req:     correction.CreateCorrectionRequest{AttendanceID: current.ID, ProposedCheckInAt: ptr(f.at(10, 20, 0)), Reason: "x"},
			wantErr: correction.ErrInvalidTimeOrder,
		},
		{
			name:    "span longer than a day",
			actorID: empID,
			req: correction.CreateCorrectionRequest{
				AttendanceID:       current.ID,
				ProposedCheckInAt:  ptr(f.at(10, 0, 0)),
				ProposedCheckOutAt: ptr(f.at(11, 1, 0)),
				Reason:             "x",
			},
			wantErr: correction.ErrExceedsMaxWorkDuration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Create(f.ctx, tt.actorID, tt.req)
			require.Error(t, err)
			if tt.wantField != "" {
				var verrs validator.ValidationErrors
				require.ErrorAs(t, err, &verrs)
				require.Len(t, verrs, 1)
				assert.Equal(t, tt.wantField, verrs[0].Field)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreate_OnBehalfOfOthers(t *testing.T) {
	f := newFixture(t)
	mine := f.seedWorkday(t, "att-1", empID)
	other := f.seedWorkday(t, "att-2", otherEmpID)

	// Manager covers site A only.
	f.createCheckIn(t, mgrID, mine.ID, f.at(10, 8, 45))

	in := f.at(10, 8, 45)
	_, err := f.service.Create(f.ctx, mgrID, correction.CreateCorrectionRequest{AttendanceID: other.ID, ProposedCheckInAt: &in, Reason: "x"})
	assert.ErrorIs(t, err, access.ErrForbidden)
	assert.ErrorIs(t, err, access.ErrSiteOutOfScope)

	// Admin is unconditional.
	f.createCheckIn(t, adminID, other.ID, f.at(10, 8, 45))
}

func TestApproveReject_MakerChecker(t *testing.T) {
	f := newFixture(t)

	for _, approverID := range []string{mgrID, adminID} {
		t.Run(approverID, func(t *testing.T) {
			a := f.seedWorkday(t, "att-"+approverID, approverID)
			created := f.createCheckIn(t, approverID, a.ID, f.at(10, 8, 45))

			_, err := f.service.Approve(f.ctx, approverID, created.ID, correction.ApproveRequest{})
			assert.ErrorIs(t, err, access.ErrForbidden)
			assert.ErrorIs(t, err, access.ErrSelfApproval)

			_, err = f.service.Reject(f.ctx, approverID, created.ID, correction.RejectRequest{Reason: "no"})
			assert.ErrorIs(t, err, access.ErrSelfApproval)

			stored, err := f.store.Corrections().GetByID(f.ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, correction.StatusPending, stored.Status)
		})
	}
}

func TestApprove_EmployeeIsNeverAnApprover(t *testing.T) {
	f := newFixture(t)
	a := f.seedWorkday(t, "att-1", otherEmpID)
	created := f.createCheckIn(t, otherEmpID, a.ID, f.at(10, 8, 45))

	_, err := f.service.Approve(f.ctx, empID, created.ID, correction.ApproveRequest{})
	assert.ErrorIs(t, err, access.ErrForbidden)
	assert.ErrorIs(t, err, access.ErrRoleNotAllowed)
}

func TestApprove_ManagerScopeFollowsAssignments(t *testing.T) {
	f := newFixture(t)
	a := f.seedWorkday(t, "att-1", empID)
	created := f.createCheckIn(t, empID, a.ID, f.at(10, 8, 45))

	list, err := f.service.List(f.ctx, mgrID, correction.ListFilter{Scope: correction.ScopeApprovable})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, created.ID, list.Items[0].ID)

	_, err = f.service.Get(f.ctx, mgrID, created.ID, correction.ScopeApprovable)
	require.NoError(t, err)

	require.NoError(t, f.store.Assignments().Unassign(f.ctx, mgrID, siteA))

	_, err = f.service.Approve(f.ctx, mgrID, created.ID, correction.ApproveRequest{})
	assert.ErrorIs(t, err, access.ErrForbidden)
	assert.ErrorIs(t, err, access.ErrSiteOutOfScope)

	_, err = f.service.Get(f.ctx, mgrID, created.ID, correction.ScopeApprovable)
	assert.ErrorIs(t, err, access.ErrForbidden)

	list, err = f.service.List(f.ctx, mgrID, correction.ListFilter{Scope: correction.ScopeApprovable})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
	assert.Zero(t, list.TotalItems)

	require.NoError(t, f.store.Assignments().Assign(f.ctx, mgrID, siteA))
	_, err = f.service.Approve(f.ctx, mgrID, created.ID, correction.ApproveRequest{})
	assert.NoError(t, err)
}

func TestTransitions_FromTerminalStatesFail(t *testing.T) {
	f := newFixture(t)

	terminal := map[correction.Status]func(id string) error{
		correction.StatusApproved: func(id string) error {
			_, err := f.service.Approve(f.ctx, mgrID, id, correction.ApproveRequest{})
			return err
		},
		correction.StatusRejected: func(id string) error {
			_, err := f.service.Reject(f.ctx, mgrID, id, correction.RejectRequest{Reason: "not justified"})
			return err
		},
		correction.StatusCanceled: func(id string) error {
			_, err := f.service.Cancel(f.ctx, empID, id)
			return err
		},
	}

	day := 10
	for status, resolve := range terminal {
		t.Run(string(status), func(t *testing.T) {
			in, out := f.at(day, 9, 0), f.at(day, 18, 0)
			a := f.seedAttendance(t, "att-"+string(status), empID, in, &in, &out)
			created := f.createCheckIn(t, empID, a.ID, f.at(day, 8, 45))
			day++

			require.NoError(t, resolve(created.ID))

			stored, err := f.store.Corrections().GetByID(f.ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, status, stored.Status)

			for next, again := range terminal {
				assert.ErrorIs(t, again(created.ID), correction.ErrInvalidStatusTransition, "%s after %s", next, status)
			}

			after, err := f.store.Corrections().GetByID(f.ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, stored, after)
		})
	}
}

func TestReject(t *testing.T) {
	f := newFixture(t)
	a := f.seedWorkday(t, "att-1", empID)
	created := f.createCheckIn(t, empID, a.ID, f.at(10, 8, 45))

	_, err := f.service.Reject(f.ctx, adminID, created.ID, correction.RejectRequest{Reason: "  "})
	assert.ErrorIs(t, err, correction.ErrRejectReasonRequired)
	assert.ErrorIs(t, err, common.ErrInvalidPayload)

	rejected, err := f.service.Reject(f.ctx, adminID, created.ID, correction.RejectRequest{Reason: " no evidence "})
	require.NoError(t, err)
	assert.Equal(t, correction.StatusRejected, rejected.Status)
	require.NotNil(t, rejected.RejectReason)
	assert.Equal(t, "no evidence", *rejected.RejectReason)
	assert.Nil(t, rejected.ApproveComment)

	snap, err := f.final.Compute(f.ctx, a)
	require.NoError(t, err)
	assert.False(t, snap.IsCorrected)
}

func TestCancel_OnlyByRequester(t *testing.T) {
	f := newFixture(t)
	a := f.seedWorkday(t, "att-1", empID)
	created := f.createCheckIn(t, empID, a.ID, f.at(10, 8, 45))

	_, err := f.service.Cancel(f.ctx, adminID, created.ID)
	assert.ErrorIs(t, err, access.ErrForbidden)
	assert.ErrorIs(t, err, access.ErrNotOwner)

	canceled, err := f.service.Cancel(f.ctx, empID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, correction.StatusCanceled, canceled.Status)
	assertSameInstant(t, f.clock.Now(), canceled.CanceledAt)
	assert.Nil(t, canceled.ProcessedBy)

	_, err = f.service.Cancel(f.ctx, empID, "missing")
	assert.ErrorIs(t, err, correction.ErrCorrectionRequestNotFound)
}

func TestApprove_ConcurrentApproversOnlyOneWins(t *testing.T) {
	f := newFixture(t)
	a := f.seedWorkday(t, "att-1", empID)
	created := f.createCheckIn(t, empID, a.ID, f.at(10, 8, 45))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, approver := range []string{mgrID, adminID} {
		wg.Add(1)
		go func(i int, approver string) {
			defer wg.Done()
			_, errs[i] = f.service.Approve(f.ctx, approver, created.ID, correction.ApproveRequest{})
		}(i, approver)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, correction.ErrInvalidStatusTransition)
	}
	assert.Equal(t, 1, wins)
}

func TestList(t *testing.T) {
	f := newFixture(t)

	var ids []string
	for day := 6; day <= 9; day++ {
		in, out := f.at(day, 9, 0), f.at(day, 18, 0)
		a := f.seedAttendance(t, "att-"+in.Format("02"), empID, in, &in, &out)
		f.clock.Set(f.at(20, 10, day))
		ids = append(ids, f.createCheckIn(t, empID, a.ID, f.at(day, 8, 45)).ID)
	}
	_, err := f.service.Cancel(f.ctx, empID, ids[0])
	require.NoError(t, err)

	otherIn, otherOut := f.at(10, 9, 0), f.at(10, 18, 0)
	other := f.seedAttendance(t, "att-other", otherEmpID, otherIn, &otherIn, &otherOut)
	f.createCheckIn(t, otherEmpID, other.ID, f.at(10, 8, 45))

	mgrIn, mgrOut := f.at(11, 9, 0), f.at(11, 18, 0)
	mgrAttendance := f.seedAttendance(t, "att-mgr", mgrID, mgrIn, &mgrIn, &mgrOut)
	f.createCheckIn(t, mgrID, mgrAttendance.ID, f.at(11, 8, 45))

	t.Run("requested by me is newest first and paged", func(t *testing.T) {
		res, err := f.service.List(f.ctx, empID, correction.ListFilter{Scope: correction.ScopeRequestedByMe, Page: 1, Size: 3})
		require.NoError(t, err)
		assert.EqualValues(t, 4, res.TotalItems)
		assert.Equal(t, 2, res.TotalPages)
		require.Len(t, res.Items, 3)
		assert.Equal(t, ids[3], res.Items[0].ID)
		assert.Equal(t, ids[1], res.Items[2].ID)

		res, err = f.service.List(f.ctx, empID, correction.ListFilter{Scope: correction.ScopeRequestedByMe, Page: 2, Size: 3})
		require.NoError(t, err)
		require.Len(t, res.Items, 1)
		assert.Equal(t, ids[0], res.Items[0].ID)
	})

	t.Run("status filter", func(t *testing.T) {
		res, err := f.service.List(f.ctx, empID, correction.ListFilter{Scope: correction.ScopeRequestedByMe, Status: "canceled"})
		require.NoError(t, err)
		require.Len(t, res.Items, 1)
		assert.Equal(t, ids[0], res.Items[0].ID)

		_, err = f.service.List(f.ctx, empID, correction.ListFilter{Scope: correction.ScopeRequestedByMe, Status: "DONE"})
		assert.ErrorIs(t, err, correction.ErrInvalidStatus)
	})

	t.Run("defaults", func(t *testing.T) {
		res, err := f.service.List(f.ctx, empID, correction.ListFilter{Scope: correction.ScopeRequestedByMe, Page: -1, Size: 0})
		require.NoError(t, err)
		assert.Equal(t, 1, res.Page)
		assert.Equal(t, 20, res.Size)
	})

	t.Run("manager inbox excludes own and other sites", func(t *testing.T) {
		res, err := f.service.List(f.ctx, mgrID, correction.ListFilter{Scope: correction.ScopeApprovable, Status: "CANCELED"})
		require.NoError(t, err)
		assert.EqualValues(t, 3, res.TotalItems)
		for _, item := range res.Items {
			assert.Equal(t, empID, item.RequestedBy)
			assert.Equal(t, correction.StatusPending, item.Status)
		}
	})

	t.Run("admin inbox sees every pending request", func(t *testing.T) {
		res, err := f.service.List(f.ctx, adminID, correction.ListFilter{Scope: correction.ScopeApprovable})
		require.NoError(t, err)
		assert.EqualValues(t, 5, res.TotalItems)
	})

	t.Run("employee has no inbox", func(t *testing.T) {
		_, err := f.service.List(f.ctx, empID, correction.ListFilter{Scope: correction.ScopeApprovable})
		assert.ErrorIs(t, err, access.ErrForbidden)
	})

	t.Run("bad scope", func(t *testing.T) {
		_, err := f.service.List(f.ctx, empID, correction.ListFilter{})
		assert.ErrorIs(t, err, common.ErrMissingRequiredParam)

		_, err = f.service.List(f.ctx, empID, correction.ListFilter{Scope: "everything"})
		assert.ErrorIs(t, err, correction.ErrInvalidScope)
	})
}

func TestList_InactiveManagerHasNoInbox(t *testing.T) {
	f := newFixture(t)
	mgr, err := f.store.Employees().GetByID(f.ctx, mgrID)
	require.NoError(t, err)
	mgr.Active = false
	_, err = f.store.Employees().Update(f.ctx, mgr)
	require.NoError(t, err)

	_, err = f.service.List(f.ctx, mgrID, correction.ListFilter{Scope: correction.ScopeApprovable})
	assert.ErrorIs(t, err, access.ErrForbidden)
	assert.ErrorIs(t, err, access.ErrActorInactive)
}

func TestGet_Scopes(t *testing.T) {
	f := newFixture(t)
	a := f.seedWorkday(t, "att-1", empID)
	created := f.createCheckIn(t, empID, a.ID, f.at(10, 8, 45))

	_, err := f.service.Get(f.ctx, mgrID, created.ID, correction.ScopeRequestedByMe)
	assert.ErrorIs(t, err, access.ErrNotOwner)

	_, err = f.service.Get(f.ctx, empID, created.ID, correction.ScopeApprovable)
	assert.ErrorIs(t, err, access.ErrForbidden)

	_, err = f.service.Get(f.ctx, otherEmpID, created.ID, "")
	assert.ErrorIs(t, err, access.ErrForbidden)

	_, err = f.service.Get(f.ctx, empID, created.ID, "mine")
	assert.ErrorIs(t, err, correction.ErrInvalidScope)

	for _, actor := range []string{empID, mgrID, adminID} {
		_, err := f.service.Get(f.ctx, actor, created.ID, "")
		assert.NoError(t, err, actor)
	}

	_, err = f.service.Approve(f.ctx, adminID, created.ID, correction.ApproveRequest{})
	require.NoError(t, err)

	_, err = f.service.Get(f.ctx, mgrID, created.ID, correction.ScopeApprovable)
	assert.ErrorIs(t, err, access.ErrRequestNotOpen)

	detail, err := f.service.Get(f.ctx, mgrID, created.ID, "")
	require.NoError(t, err)
	assert.True(t, detail.IsCorrected)
	assertSameInstant(t, f.at(10, 8, 45), detail.CurrentCheckInAt)
	assertSameInstant(t, f.at(10, 9, 0), detail.OriginalCheckInAt)
}

func TestFinal_OnlyLatestApprovalApplies(t *testing.T) {
	f := newFixture(t)
	a := f.seedWorkday(t, "att-1", empID)

	first, err := f.service.Create(f.ctx, empID, correction.CreateCorrectionRequest{
		AttendanceID:       a.ID,
		ProposedCheckInAt:  ptr(f.at(10, 8, 0)),
		ProposedCheckOutAt: ptr(f.at(10, 19, 0)),
		Reason:             "first",
	})
	require.NoError(t, err)
	_, err = f.service.Approve(f.ctx, mgrID, first.ID, correction.ApproveRequest{})
	require.NoError(t, err)

	f.clock.Set(f.at(21, 10, 0))
	second := f.createCheckIn(t, empID, a.ID, f.at(10, 8, 30))
	_, err = f.service.Approve(f.ctx, mgrID, second.ID, correction.ApproveRequest{})
	require.NoError(t, err)

	snapshots, err := f.final.ComputeAll(f.ctx, []attendance.Attendance{a})
	require.NoError(t, err)
	snap := snapshots[a.ID]

	// The second request only touched check-in, so check-out falls back to
	// the raw value instead of the first approval.
	assertSameInstant(t, f.at(10, 8, 30), snap.CheckInAt)
	assertSameInstant(t, f.at(10, 18, 0), snap.CheckOutAt)
	require.NotNil(t, snap.AppliedCorrectionRequestID)
	assert.Equal(t, second.ID, *snap.AppliedCorrectionRequestID)
}

func TestFinal_ComputeAllWithoutCorrections(t *testing.T) {
	f := newFixture(t)
	a := f.seedWorkday(t, "att-1", empID)

	snapshots, err := f.final.ComputeAll(f.ctx, []attendance.Attendance{a})
	require.NoError(t, err)
	require.Contains(t, snapshots, a.ID)
	assert.False(t, snapshots[a.ID].IsCorrected)
	assert.Equal(t, a.CheckInAt, snapshots[a.ID].CheckInAt)

	empty, err := f.final.ComputeAll(f.ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

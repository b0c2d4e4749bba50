package access

import (
	"context"
	"testing"

	"github.com/anpk/attendance-backend-go/internal/domain/access"
	"github.com/anpk/attendance-backend-go/internal/domain/employee"
	"github.com/anpk/attendance-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPolicy(t *testing.T) (access.Policy, *memory.Store) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	employees := []employee.Employee{
		{ID: "emp-a", EmployeeCode: "E001", Name: "Kim", Role: employee.RoleEmployee, Active: true, SiteID: "site-a"},
		{ID: "emp-b", EmployeeCode: "E002", Name: "Lee", Role: employee.RoleEmployee, Active: true, SiteID: "site-b"},
		{ID: "emp-off", EmployeeCode: "E003", Name: "Jung", Role: employee.RoleEmployee, Active: false, SiteID: "site-a"},
		{ID: "mgr-a", EmployeeCode: "M001", Name: "Park", Role: employee.RoleManager, Active: true, SiteID: "site-a"},
		{ID: "mgr-a2", EmployeeCode: "M002", Name: "Han", Role: employee.RoleManager, Active: true, SiteID: "site-a"},
		{ID: "mgr-off", EmployeeCode: "M003", Name: "Yoon", Role: employee.RoleManager, Active: false, SiteID: "site-a"},
		{ID: "admin", EmployeeCode: "A001", Name: "Choi", Role: employee.RoleAdmin, Active: true, SiteID: "site-a"},
	}
	for _, e := range employees {
		_, err := store.Employees().Create(ctx, e)
		require.NoError(t, err)
	}
	require.NoError(t, store.Assignments().Assign(ctx, "mgr-a", "site-a"))
	require.NoError(t, store.Assignments().Assign(ctx, "mgr-off", "site-a"))

	return NewPolicy(store.Employees(), store.Assignments()), store
}

func TestAuthorizeCreate(t *testing.T) {
	policy, _ := newTestPolicy(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		actor   string
		owner   string
		wantErr error
		reason  error
	}{
		{name: "owner", actor: "emp-a", owner: "emp-a"},
		{name: "admin for anyone", actor: "admin", owner: "emp-b"},
		{name: "manager in assigned site", actor: "mgr-a", owner: "emp-a"},
		{name: "manager outside assigned site", actor: "mgr-a", owner: "emp-b", wantErr: access.ErrForbidden, reason: access.ErrSiteOutOfScope},
		{name: "employee for someone else", actor: "emp-a", owner: "emp-b", wantErr: access.ErrForbidden, reason: access.ErrRoleNotAllowed},
		{name: "inactive owner acting for self", actor: "emp-off", owner: "emp-off", wantErr: employee.ErrEmployeeInactive},
		{name: "unknown actor", actor: "ghost", owner: "emp-a", wantErr: access.ErrForbidden, reason: access.ErrActorNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := policy.AuthorizeCreate(ctx, tt.actor, tt.owner)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.reason != nil {
				assert.ErrorIs(t, err, tt.reason)
			}
		})
	}
}

func TestAuthorizeCreate_InactiveIsNotPlainForbidden(t *testing.T) {
	policy, _ := newTestPolicy(t)

	err := policy.AuthorizeCreate(context.Background(), "mgr-off", "emp-a")
	assert.ErrorIs(t, err, employee.ErrEmployeeInactive)
	assert.NotErrorIs(t, err, access.ErrForbidden)
}

func TestAuthorizeApprover(t *testing.T) {
	policy, _ := newTestPolicy(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		approver  string
		requester string
		reason    error
	}{
		{name: "admin", approver: "admin", requester: "emp-b"},
		{name: "manager in site", approver: "mgr-a", requester: "emp-a"},
		{name: "manager approving a manager in site", approver: "mgr-a", requester: "mgr-a2"},
		{name: "self approval as admin", approver: "admin", requester: "admin", reason: access.ErrSelfApproval},
		{name: "self approval as manager", approver: "mgr-a", requester: "mgr-a", reason: access.ErrSelfApproval},
		{name: "manager outside site", approver: "mgr-a", requester: "emp-b", reason: access.ErrSiteOutOfScope},
		{name: "manager without assignment", approver: "mgr-a2", requester: "emp-a", reason: access.ErrSiteOutOfScope},
		{name: "inactive requester", approver: "mgr-a", requester: "emp-off", reason: access.ErrTargetForbidden},
		{name: "employee", approver: "emp-a", requester: "emp-b", reason: access.ErrRoleNotAllowed},
		{name: "inactive manager", approver: "mgr-off", requester: "emp-a", reason: access.ErrActorInactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := policy.AuthorizeApprover(ctx, tt.approver, tt.requester)
			if tt.reason == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, access.ErrForbidden)
			assert.ErrorIs(t, err, tt.reason)
		})
	}
}

func TestAuthorizeApprover_RevocationIsImmediate(t *testing.T) {
	policy, store := newTestPolicy(t)
	ctx := context.Background()

	require.NoError(t, policy.AuthorizeApprover(ctx, "mgr-a", "emp-a"))
	require.NoError(t, store.Assignments().Unassign(ctx, "mgr-a", "site-a"))
	assert.ErrorIs(t, policy.AuthorizeApprover(ctx, "mgr-a", "emp-a"), access.ErrSiteOutOfScope)
}

func TestRequireAdminOrManager(t *testing.T) {
	policy, _ := newTestPolicy(t)
	ctx := context.Background()

	actor, err := policy.RequireAdminOrManager(ctx, "mgr-a")
	require.NoError(t, err)
	assert.Equal(t, employee.RoleManager, actor.Role)

	_, err = policy.RequireAdminOrManager(ctx, "emp-a")
	assert.ErrorIs(t, err, access.ErrForbidden)

	_, err = policy.RequireAdminOrManager(ctx, "mgr-off")
	assert.ErrorIs(t, err, employee.ErrEmployeeInactive)

	_, err = policy.RequireAdmin(ctx, "mgr-a")
	assert.ErrorIs(t, err, access.ErrRoleNotAllowed)

	_, err = policy.RequireAdmin(ctx, "admin")
	assert.NoError(t, err)
}

func TestAuthorizeEmployeeUpdate(t *testing.T) {
	policy, store := newTestPolicy(t)
	ctx := context.Background()

	admin, _ := store.Employees().GetByID(ctx, "admin")
	manager, _ := store.Employees().GetByID(ctx, "mgr-a")
	inSite, _ := store.Employees().GetByID(ctx, "emp-a")
	outSite, _ := store.Employees().GetByID(ctx, "emp-b")
	peer, _ := store.Employees().GetByID(ctx, "mgr-a2")

	siteA, siteB := "site-a", "site-b"

	assert.NoError(t, policy.AuthorizeEmployeeUpdate(ctx, admin, outSite, &siteA))
	assert.NoError(t, policy.AuthorizeEmployeeUpdate(ctx, manager, inSite, nil))
	assert.NoError(t, policy.AuthorizeEmployeeUpdate(ctx, manager, inSite, &siteA))

	assert.ErrorIs(t, policy.AuthorizeEmployeeUpdate(ctx, manager, inSite, &siteB), access.ErrSiteOutOfScope)
	assert.ErrorIs(t, policy.AuthorizeEmployeeUpdate(ctx, manager, outSite, nil), access.ErrSiteOutOfScope)
	assert.ErrorIs(t, policy.AuthorizeEmployeeUpdate(ctx, manager, peer, nil), access.ErrTargetForbidden)
	assert.ErrorIs(t, policy.AuthorizeEmployeeUpdate(ctx, inSite, outSite, nil), access.ErrRoleNotAllowed)
}

func TestAuthorizeSite(t *testing.T) {
	policy, store := newTestPolicy(t)
	ctx := context.Background()

	admin, _ := store.Employees().GetByID(ctx, "admin")
	manager, _ := store.Employees().GetByID(ctx, "mgr-a")

	assert.NoError(t, policy.AuthorizeSite(ctx, admin, "site-b"))
	assert.NoError(t, policy.AuthorizeSite(ctx, manager, "site-a"))
	assert.ErrorIs(t, policy.AuthorizeSite(ctx, manager, "site-b"), access.ErrForbidden)
}

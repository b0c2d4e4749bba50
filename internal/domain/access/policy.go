package access

import (
	"context"

	"github.com/anpk/attendance-backend-go/internal/domain/employee"
)

// Policy decides who may act on attendance data, correction requests and
// administration resources. All lookups go to the live employee directory and
// the manager-site assignments, so revoking an assignment takes effect on the
// next call.
type Policy interface {
	// AuthorizeCreate checks that actorID may file a correction for ownerID's attendance.
	// Inactive actors fail with employee.ErrEmployeeInactive.
	AuthorizeCreate(ctx context.Context, actorID, ownerID string) error

	// AuthorizeApprover checks that approverID may process or view, through the
	// approvable scope, a request filed by requesterID.
	AuthorizeApprover(ctx context.Context, approverID, requesterID string) error

	// RequireApprover loads an active MANAGER or ADMIN, or fails with ErrForbidden.
	RequireApprover(ctx context.Context, actorID string) (employee.Employee, error)

	// RequireAdminOrManager loads an active MANAGER or ADMIN for administration
	// endpoints. Inactive actors fail with employee.ErrEmployeeInactive.
	RequireAdminOrManager(ctx context.Context, actorID string) (employee.Employee, error)

	// RequireAdmin is RequireAdminOrManager restricted to ADMIN.
	RequireAdmin(ctx context.Context, actorID string) (employee.Employee, error)

	// AuthorizeSite checks that actor may administer siteID.
	AuthorizeSite(ctx context.Context, actor employee.Employee, siteID string) error

	// AuthorizeEmployeeUpdate checks that actor may modify target and, when
	// newSiteID is set, move target to that site.
	AuthorizeEmployeeUpdate(ctx context.Context, actor employee.Employee, target employee.Employee, newSiteID *string) error
}

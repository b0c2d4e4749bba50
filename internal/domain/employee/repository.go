package employee

import "context"

type EmployeeRepository interface {
	// GetByID returns ErrEmployeeNotFound when no row matches.
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByCode(ctx context.Context, code string) (Employee, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)

	List(ctx context.Context) ([]Employee, error)
	// ListBySiteIDs lists employees of the given sites, optionally restricted to one role.
	ListBySiteIDs(ctx context.Context, siteIDs []string, role *Role) ([]Employee, error)
	// ListActiveIDsBySite returns ids of active employees whose site is siteID.
	ListActiveIDsBySite(ctx context.Context, siteID string) ([]string, error)

	Create(ctx context.Context, e Employee) (Employee, error)
	Update(ctx context.Context, e Employee) (Employee, error)
}

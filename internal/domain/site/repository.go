package site

import "context"

type SiteRepository interface {
	// GetByID returns ErrSiteNotFound when no row matches.
	GetByID(ctx context.Context, id string) (Site, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]Site, error)
	ListByIDs(ctx context.Context, ids []string) ([]Site, error)
	Create(ctx context.Context, s Site) (Site, error)
	Update(ctx context.Context, s Site) (Site, error)
}

// AssignmentRepository stores the manager to site many-to-many relation.
type AssignmentRepository interface {
	// Assign is idempotent.
	Assign(ctx context.Context, managerID, siteID string) error
	Unassign(ctx context.Context, managerID, siteID string) error
	IsAssigned(ctx context.Context, managerID, siteID string) (bool, error)
	ListSiteIDs(ctx context.Context, managerID string) ([]string, error)
}

package site

import "context"

type SiteService interface {
	List(ctx context.Context, actorID string) ([]SiteResponse, error)
	Create(ctx context.Context, actorID string, req CreateSiteRequest) (SiteResponse, error)
	Update(ctx context.Context, actorID string, siteID string, req UpdateSiteRequest) (SiteResponse, error)

	AssignManager(ctx context.Context, actorID, managerID, siteID string) error
	UnassignManager(ctx context.Context, actorID, managerID, siteID string) error
	ListManagerSites(ctx context.Context, actorID, managerID string) (ManagerSitesResponse, error)
}

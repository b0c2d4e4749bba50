package site

import (
	"context"
	"fmt"
	"strings"

	"github.com/anpk/attendance-backend-go/internal/domain/access"
	"github.com/anpk/attendance-backend-go/internal/domain/employee"
	"github.com/anpk/attendance-backend-go/internal/domain/site"
	"github.com/google/uuid"
)

type SiteServiceImpl struct {
	policy access.Policy
	site.SiteRepository
	site.AssignmentRepository
	employee.EmployeeRepository
}

func NewSiteService(policy access.Policy, siteRepo site.SiteRepository, assignmentRepo site.AssignmentRepository, employeeRepo employee.EmployeeRepository) site.SiteService {
	return &SiteServiceImpl{
		policy:               policy,
		SiteRepository:       siteRepo,
		AssignmentRepository: assignmentRepo,
		EmployeeRepository:   employeeRepo,
	}
}

func toResponses(sites []site.Site) []site.SiteResponse {
	out := make([]site.SiteResponse, 0, len(sites))
	for _, st := range sites {
		out = append(out, site.NewSiteResponse(st))
	}
	return out
}

// List implements site.SiteService.
func (s *SiteServiceImpl) List(ctx context.Context, actorID string) ([]site.SiteResponse, error) {
	actor, err := s.policy.RequireAdminOrManager(ctx, actorID)
	if err != nil {
		return nil, err
	}

	var sites []site.Site
	if actor.Role == employee.RoleAdmin {
		sites, err = s.SiteRepository.List(ctx)
	} else {
		var ids []string
		ids, err = s.AssignmentRepository.ListSiteIDs(ctx, actor.ID)
		if err == nil {
			sites, err = s.SiteRepository.ListByIDs(ctx, ids)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}

	return toResponses(sites), nil
}

// Create implements site.SiteService.
func (s *SiteServiceImpl) Create(ctx context.Context, actorID string, req site.CreateSiteRequest) (site.SiteResponse, error) {
	if _, err := s.policy.RequireAdmin(ctx, actorID); err != nil {
		return site.SiteResponse{}, err
	}

	req.Name = strings.TrimSpace(req.Name)
	if err := req.Validate(); err != nil {
		return site.SiteResponse{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return site.SiteResponse{}, fmt.Errorf("failed to generate site id: %w", err)
	}

	created, err := s.SiteRepository.Create(ctx, site.Site{ID: id.String(), Name: req.Name, Active: true})
	if err != nil {
		return site.SiteResponse{}, fmt.Errorf("failed to create site: %w", err)
	}
	return site.NewSiteResponse(created), nil
}

// Update implements site.SiteService.
func (s *SiteServiceImpl) Update(ctx context.Context, actorID string, siteID string, req site.UpdateSiteRequest) (site.SiteResponse, error) {
	actor, err := s.policy.RequireAdminOrManager(ctx, actorID)
	if err != nil {
		return site.SiteResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return site.SiteResponse{}, err
	}

	existing, err := s.SiteRepository.GetByID(ctx, siteID)
	if err != nil {
		return site.SiteResponse{}, err
	}

	if err := s.policy.AuthorizeSite(ctx, actor, existing.ID); err != nil {
		return site.SiteResponse{}, err
	}

	if req.Name != nil {
		existing.Name = strings.TrimSpace(*req.Name)
	}
	if req.Active != nil {
		existing.Active = *req.Active
	}

	updated, err := s.SiteRepository.Update(ctx, existing)
	if err != nil {
		return site.SiteResponse{}, err
	}
	return site.NewSiteResponse(updated), nil
}

// AssignManager implements site.SiteService.
func (s *SiteServiceImpl) AssignManager(ctx context.Context, actorID, managerID, siteID string) error {
	if _, err := s.policy.RequireAdmin(ctx, actorID); err != nil {
		return err
	}

	manager, err := s.EmployeeRepository.GetByID(ctx, managerID)
	if err != nil {
		return err
	}
	if manager.Role != employee.RoleManager {
		return site.ErrAssigneeNotManager
	}

	if _, err := s.SiteRepository.GetByID(ctx, siteID); err != nil {
		return err
	}

	if err := s.AssignmentRepository.Assign(ctx, managerID, siteID); err != nil {
		return fmt.Errorf("failed to assign manager to site: %w", err)
	}
	return nil
}

// UnassignManager implements site.SiteService.
func (s *SiteServiceImpl) UnassignManager(ctx context.Context, actorID, managerID, siteID string) error {
	if _, err := s.policy.RequireAdmin(ctx, actorID); err != nil {
		return err
	}

	if err := s.AssignmentRepository.Unassign(ctx, managerID, siteID); err != nil {
		return fmt.Errorf("failed to unassign manager from site: %w", err)
	}
	return nil
}

// ListManagerSites implements site.SiteService.
func (s *SiteServiceImpl) ListManagerSites(ctx context.Context, actorID, managerID string) (site.ManagerSitesResponse, error) {
	if _, err := s.policy.RequireAdmin(ctx, actorID); err != nil {
		return site.ManagerSitesResponse{}, err
	}

	if _, err := s.EmployeeRepository.GetByID(ctx, managerID); err != nil {
		return site.ManagerSitesResponse{}, err
	}

	ids, err := s.AssignmentRepository.ListSiteIDs(ctx, managerID)
	if err != nil {
		return site.ManagerSitesResponse{}, fmt.Errorf("failed to list manager sites: %w", err)
	}

	sites, err := s.SiteRepository.ListByIDs(ctx, ids)
	if err != nil {
		return site.ManagerSitesResponse{}, fmt.Errorf("failed to load manager sites: %w", err)
	}

	return site.ManagerSitesResponse{
		ManagerUserID: managerID,
		Sites:         toResponses(sites),
	}, nil
}

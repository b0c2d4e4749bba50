package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/anpk/attendance-backend-go/internal/domain/access"
	"github.com/anpk/attendance-backend-go/internal/domain/employee"
	"github.com/anpk/attendance-backend-go/internal/domain/site"
)

type PolicyImpl struct {
	employee.EmployeeRepository
	site.AssignmentRepository
}

// loadActor resolves actorID against the live directory. An unknown actor is
// a denial, never a not-found.
func (p *PolicyImpl) loadActor(ctx context.Context, actorID string) (employee.Employee, error) {
	actor, err := p.EmployeeRepository.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, access.Deny(access.ErrActorNotFound)
		}
		return employee.Employee{}, fmt.Errorf("failed to load actor %s: %w", actorID, err)
	}
	return actor, nil
}

func (p *PolicyImpl) coversSite(ctx context.Context, managerID, siteID string) error {
	assigned, err := p.AssignmentRepository.IsAssigned(ctx, managerID, siteID)
	if err != nil {
		return fmt.Errorf("failed to check manager site assignment: %w", err)
	}
	if !assigned {
		return access.Deny(access.ErrSiteOutOfScope)
	}
	return nil
}

// AuthorizeCreate implements access.Policy.
func (p *PolicyImpl) AuthorizeCreate(ctx context.Context, actorID, ownerID string) error {
	actor, err := p.loadActor(ctx, actorID)
	if err != nil {
		return err
	}
	if !actor.Active {
		return employee.ErrEmployeeInactive
	}

	if actor.ID == ownerID {
		return nil
	}

	switch actor.Role {
	case employee.RoleAdmin:
		return nil
	case employee.RoleManager:
		owner, err := p.EmployeeRepository.GetByID(ctx, ownerID)
		if err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				return employee.ErrEmployeeNotFound
			}
			return fmt.Errorf("failed to load attendance owner %s: %w", ownerID, err)
		}
		return p.coversSite(ctx, actor.ID, owner.SiteID)
	default:
		return access.Deny(access.ErrRoleNotAllowed)
	}
}

// AuthorizeApprover implements access.Policy.
func (p *PolicyImpl) AuthorizeApprover(ctx context.Context, approverID, requesterID string) error {
	// Maker-checker applies to every role.
	if approverID == requesterID {
		return access.Deny(access.ErrSelfApproval)
	}

	approver, err := p.RequireApprover(ctx, approverID)
	if err != nil {
		return err
	}
	if approver.Role == employee.RoleAdmin {
		return nil
	}

	requester, err := p.EmployeeRepository.GetByID(ctx, requesterID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return access.Deny(access.ErrTargetForbidden)
		}
		return fmt.Errorf("failed to load requester %s: %w", requesterID, err)
	}
	if !requester.Active {
		return access.Deny(access.ErrTargetForbidden)
	}
	return p.coversSite(ctx, approver.ID, requester.SiteID)
}

// RequireApprover implements access.Policy.
func (p *PolicyImpl) RequireApprover(ctx context.Context, actorID string) (employee.Employee, error) {
	actor, err := p.loadActor(ctx, actorID)
	if err != nil {
		return employee.Employee{}, err
	}
	if !actor.Active {
		return employee.Employee{}, access.Deny(access.ErrActorInactive)
	}
	if !actor.Role.CanApprove() {
		return employee.Employee{}, access.Deny(access.ErrRoleNotAllowed)
	}
	return actor, nil
}

// RequireAdminOrManager implements access.Policy.
func (p *PolicyImpl) RequireAdminOrManager(ctx context.Context, actorID string) (employee.Employee, error) {
	actor, err := p.loadActor(ctx, actorID)
	if err != nil {
		return employee.Employee{}, err
	}
	if !actor.Active {
		return employee.Employee{}, employee.ErrEmployeeInactive
	}
	if actor.Role != employee.RoleAdmin && actor.Role != employee.RoleManager {
		return employee.Employee{}, access.Deny(access.ErrRoleNotAllowed)
	}
	return actor, nil
}

// RequireAdmin implements access.Policy.
func (p *PolicyImpl) RequireAdmin(ctx context.Context, actorID string) (employee.Employee, error) {
	actor, err := p.RequireAdminOrManager(ctx, actorID)
	if err != nil {
		return employee.Employee{}, err
	}
	if actor.Role != employee.RoleAdmin {
		return employee.Employee{}, access.Deny(access.ErrRoleNotAllowed)
	}
	return actor, nil
}

// AuthorizeSite implements access.Policy.
func (p *PolicyImpl) AuthorizeSite(ctx context.Context, actor employee.Employee, siteID string) error {
	switch actor.Role {
	case employee.RoleAdmin:
		return nil
	case employee.RoleManager:
		return p.coversSite(ctx, actor.ID, siteID)
	default:
		return access.Deny(access.ErrRoleNotAllowed)
	}
}

// AuthorizeEmployeeUpdate implements access.Policy.
func (p *PolicyImpl) AuthorizeEmployeeUpdate(ctx context.Context, actor employee.Employee, target employee.Employee, newSiteID *string) error {
	switch actor.Role {
	case employee.RoleAdmin:
		return nil
	case employee.RoleManager:
		if target.Role != employee.RoleEmployee {
			return access.Deny(access.ErrTargetForbidden)
		}
		if err := p.coversSite(ctx, actor.ID, target.SiteID); err != nil {
			return err
		}
		if newSiteID != nil && *newSiteID != target.SiteID {
			return p.coversSite(ctx, actor.ID, *newSiteID)
		}
		return nil
	default:
		return access.Deny(access.ErrRoleNotAllowed)
	}
}

func NewPolicy(employeeRepo employee.EmployeeRepository, assignmentRepo site.AssignmentRepository) access.Policy {
	return &PolicyImpl{
		EmployeeRepository:   employeeRepo,
		AssignmentRepository: assignmentRepo,
	}
}

package employee

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anpk/attendance-backend-go/internal/domain/access"
	"github.com/anpk/attendance-backend-go/internal/domain/employee"
	"github.com/anpk/attendance-backend-go/internal/domain/site"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type EmployeeServiceImpl struct {
	policy         access.Policy
	employeeRepo   employee.EmployeeRepository
	siteRepo       site.SiteRepository
	assignmentRepo site.AssignmentRepository
}

func NewEmployeeService(
	policy access.Policy,
	employeeRepo employee.EmployeeRepository,
	siteRepo site.SiteRepository,
	assignmentRepo site.AssignmentRepository,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		policy:         policy,
		employeeRepo:   employeeRepo,
		siteRepo:       siteRepo,
		assignmentRepo: assignmentRepo,
	}
}

func mapEmployeesToResponse(employees []employee.Employee) []employee.EmployeeResponse {
	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		responses = append(responses, employee.NewEmployeeResponse(e))
	}
	return responses
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context, actorID string) ([]employee.EmployeeResponse, error) {
	actor, err := s.policy.RequireAdminOrManager(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if actor.Role == employee.RoleAdmin {
		employees, err := s.employeeRepo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list employees: %w", err)
		}
		return mapEmployeesToResponse(employees), nil
	}

	siteIDs, err := s.assignmentRepo.ListSiteIDs(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list manager sites: %w", err)
	}
	if len(siteIDs) == 0 {
		return []employee.EmployeeResponse{}, nil
	}

	role := employee.RoleEmployee
	employees, err := s.employeeRepo.ListBySiteIDs(ctx, siteIDs, &role)
	if err != nil {
		return nil, fmt.Errorf("failed to list site employees: %w", err)
	}
	return mapEmployeesToResponse(employees), nil
}

// Create implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Create(ctx context.Context, actorID string, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if _, err := s.policy.RequireAdmin(ctx, actorID); err != nil {
		return employee.EmployeeResponse{}, err
	}

	req.EmployeeCode = strings.TrimSpace(req.EmployeeCode)
	req.Name = strings.TrimSpace(req.Name)
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if req.Role == employee.RoleAdmin {
		return employee.EmployeeResponse{}, employee.ErrAdminCreation
	}

	if err := s.requireSite(ctx, req.SiteID); err != nil {
		return employee.EmployeeResponse{}, err
	}

	exists, err := s.employeeRepo.ExistsByCode(ctx, req.EmployeeCode)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to check employee code existence: %w", err)
	}
	if exists {
		return employee.EmployeeResponse{}, employee.ErrEmployeeCodeExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to generate employee id: %w", err)
	}

	created, err := s.employeeRepo.Create(ctx, employee.Employee{
		ID:           id.String(),
		EmployeeCode: req.EmployeeCode,
		Name:         req.Name,
		PasswordHash: string(hash),
		Role:         req.Role,
		Active:       true,
		SiteID:       req.SiteID,
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	return employee.NewEmployeeResponse(created), nil
}

// Update implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Update(ctx context.Context, actorID string, targetID string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	actor, err := s.policy.RequireAdminOrManager(ctx, actorID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	target, err := s.employeeRepo.GetByID(ctx, targetID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if req.SiteID != nil {
		trimmed := strings.TrimSpace(*req.SiteID)
		req.SiteID = &trimmed
	}

	if err := s.policy.AuthorizeEmployeeUpdate(ctx, actor, target, req.SiteID); err != nil {
		return employee.EmployeeResponse{}, err
	}

	if req.Name != nil {
		target.Name = strings.TrimSpace(*req.Name)
	}
	if req.Active != nil {
		target.Active = *req.Active
	}
	if req.SiteID != nil && *req.SiteID != target.SiteID {
		if err := s.requireSite(ctx, *req.SiteID); err != nil {
			return employee.EmployeeResponse{}, err
		}
		target.SiteID = *req.SiteID
	}

	updated, err := s.employeeRepo.Update(ctx, target)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	return employee.NewEmployeeResponse(updated), nil
}

// GetProfile implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetProfile(ctx context.Context, userID string) (employee.EmployeeResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, userID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(emp), nil
}

// requireSite reports a missing site as a bad request parameter.
func (s *EmployeeServiceImpl) requireSite(ctx context.Context, siteID string) error {
	_, err := s.siteRepo.GetByID(ctx, siteID)
	if errors.Is(err, site.ErrSiteNotFound) {
		return employee.ErrUnknownSite
	}
	if err != nil {
		return fmt.Errorf("failed to load site: %w", err)
	}
	return nil
}

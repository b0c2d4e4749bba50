package employee

import "context"

type EmployeeService interface {
	// List returns every employee for ADMIN and site-scoped EMPLOYEE-role staff for MANAGER.
	List(ctx context.Context, actorID string) ([]EmployeeResponse, error)
	Create(ctx context.Context, actorID string, req CreateEmployeeRequest) (EmployeeResponse, error)
	Update(ctx context.Context, actorID string, targetID string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	GetProfile(ctx context.Context, userID string) (EmployeeResponse, error)
}

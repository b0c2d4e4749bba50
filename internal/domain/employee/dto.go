package employee

import (
	"time"

	"github.com/anpk/attendance-backend-go/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	EmployeeCode string `json:"employee_code" validate:"required,employee_code"`
	Name         string `json:"name" validate:"notblank,max=100"`
	Password     string `json:"password" validate:"required,min=8,max=72"`
	Role         Role   `json:"role" validate:"required,oneof=EMPLOYEE MANAGER ADMIN"`
	SiteID       string `json:"site_id" validate:"required"`
}

func (r *CreateEmployeeRequest) Validate() error {
	return validator.Struct(r)
}

// UpdateEmployeeRequest is a partial update; nil fields are left unchanged.
type UpdateEmployeeRequest struct {
	Name   *string `json:"name" validate:"omitnil,notblank,max=100"`
	Active *bool   `json:"active"`
	SiteID *string `json:"site_id" validate:"omitnil,notblank"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	return validator.Struct(r)
}

type EmployeeResponse struct {
	ID           string    `json:"id"`
	EmployeeCode string    `json:"employee_code"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	Active       bool      `json:"active"`
	SiteID       string    `json:"site_id"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:           e.ID,
		EmployeeCode: e.EmployeeCode,
		Name:         e.Name,
		Role:         e.Role,
		Active:       e.Active,
		SiteID:       e.SiteID,
		CreatedAt:    e.CreatedAt,
	}
}

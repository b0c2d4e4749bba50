package employee

import "time"

type Role string

const (
	RoleEmployee Role = "EMPLOYEE"
	RoleManager  Role = "MANAGER"
	RoleAdmin    Role = "ADMIN"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleEmployee, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// CanApprove reports whether the role may act on correction requests at all.
func (r Role) CanApprove() bool {
	return r == RoleManager || r == RoleAdmin
}

type Employee struct {
	ID           string
	EmployeeCode string
	Name         string
	PasswordHash string
	Role         Role
	Active       bool
	SiteID       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

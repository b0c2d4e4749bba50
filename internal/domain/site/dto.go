package site

import (
	"time"

	"github.com/anpk/attendance-backend-go/internal/pkg/validator"
)

type CreateSiteRequest struct {
	Name string `json:"name" validate:"notblank,max=100"`
}

func (r *CreateSiteRequest) Validate() error {
	return validator.Struct(r)
}

type UpdateSiteRequest struct {
	Name   *string `json:"name" validate:"omitnil,notblank,max=100"`
	Active *bool   `json:"active"`
}

func (r *UpdateSiteRequest) Validate() error {
	return validator.Struct(r)
}

type SiteResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

func NewSiteResponse(s Site) SiteResponse {
	return SiteResponse{
		ID:        s.ID,
		Name:      s.Name,
		Active:    s.Active,
		CreatedAt: s.CreatedAt,
	}
}

type ManagerSitesResponse struct {
	ManagerUserID string         `json:"manager_user_id"`
	Sites         []SiteResponse `json:"sites"`
}

package site

import "time"

type Site struct {
	ID        string
	Name      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ManagerSiteAssignment grants a MANAGER authority over one site.
type ManagerSiteAssignment struct {
	ID            string
	ManagerUserID string
	SiteID        string
	CreatedAt     time.Time
}

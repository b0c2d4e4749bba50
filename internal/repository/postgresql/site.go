package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/anpk/attendance-backend-go/internal/domain/site"
	"github.com/anpk/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const siteColumns = `id, name, active, created_at, updated_at`

type siteRepositoryImpl struct {
	db *database.DB
}

func NewSiteRepository(db *database.DB) site.SiteRepository {
	return &siteRepositoryImpl{db: db}
}

func scanSite(row pgx.Row) (site.Site, error) {
	var s site.Site
	err := row.Scan(&s.ID, &s.Name, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func collectSites(rows pgx.Rows) ([]site.Site, error) {
	defer rows.Close()

	var sites []site.Site
	for rows.Next() {
		s, err := scanSite(rows)
		if err != nil {
			return nil, err
		}
		sites = append(sites, s)
	}
	return sites, rows.Err()
}

// GetByID implements site.SiteRepository.
func (r *siteRepositoryImpl) GetByID(ctx context.Context, id string) (site.Site, error) {
	if !isUUID(id) {
		return site.Site{}, site.ErrSiteNotFound
	}
	q := GetQuerier(ctx, r.db)

	s, err := scanSite(q.QueryRow(ctx, `SELECT `+siteColumns+` FROM sites WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return site.Site{}, site.ErrSiteNotFound
		}
		return site.Site{}, fmt.Errorf("failed to get site %s: %w", id, err)
	}
	return s, nil
}

// Exists implements site.SiteRepository.
func (r *siteRepositoryImpl) Exists(ctx context.Context, id string) (bool, error) {
	if !isUUID(id) {
		return false, nil
	}
	q := GetQuerier(ctx, r.db)

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM sites WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check site %s: %w", id, err)
	}
	return exists, nil
}

// List implements site.SiteRepository.
func (r *siteRepositoryImpl) List(ctx context.Context) ([]site.Site, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+siteColumns+` FROM sites ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	return collectSites(rows)
}

// ListByIDs implements site.SiteRepository.
func (r *siteRepositoryImpl) ListByIDs(ctx context.Context, ids []string) ([]site.Site, error) {
	ids = onlyUUIDs(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+siteColumns+` FROM sites WHERE id = ANY($1) ORDER BY name`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites by ids: %w", err)
	}
	return collectSites(rows)
}

// Create implements site.SiteRepository.
func (r *siteRepositoryImpl) Create(ctx context.Context, s site.Site) (site.Site, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO sites (id, name, active, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING ` + siteColumns

	created, err := scanSite(q.QueryRow(ctx, query, s.ID, s.Name, s.Active))
	if err != nil {
		return site.Site{}, fmt.Errorf("failed to create site: %w", err)
	}
	return created, nil
}

// Update implements site.SiteRepository.
func (r *siteRepositoryImpl) Update(ctx context.Context, s site.Site) (site.Site, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE sites
		SET name = $2, active = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + siteColumns

	updated, err := scanSite(q.QueryRow(ctx, query, s.ID, s.Name, s.Active))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return site.Site{}, site.ErrSiteNotFound
		}
		return site.Site{}, fmt.Errorf("failed to update site %s: %w", s.ID, err)
	}
	return updated, nil
}

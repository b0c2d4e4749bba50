package postgresql

import (
	"context"
	"fmt"

	"github.com/anpk/attendance-backend-go/internal/domain/site"
	"github.com/anpk/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
)

type assignmentRepositoryImpl struct {
	db *database.DB
}

func NewAssignmentRepository(db *database.DB) site.AssignmentRepository {
	return &assignmentRepositoryImpl{db: db}
}

// Assign implements site.AssignmentRepository.
func (r *assignmentRepositoryImpl) Assign(ctx context.Context, managerID, siteID string) error {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate assignment id: %w", err)
	}

	query := `
		INSERT INTO manager_site_assignments (id, manager_user_id, site_id, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT ON CONSTRAINT uk_manager_site DO NOTHING
	`
	if _, err := q.Exec(ctx, query, id.String(), managerID, siteID); err != nil {
		return fmt.Errorf("failed to assign manager %s to site %s: %w", managerID, siteID, err)
	}
	return nil
}

// Unassign implements site.AssignmentRepository.
func (r *assignmentRepositoryImpl) Unassign(ctx context.Context, managerID, siteID string) error {
	if !isUUID(managerID) || !isUUID(siteID) {
		return nil
	}
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM manager_site_assignments WHERE manager_user_id = $1 AND site_id = $2`
	if _, err := q.Exec(ctx, query, managerID, siteID); err != nil {
		return fmt.Errorf("failed to unassign manager %s from site %s: %w", managerID, siteID, err)
	}
	return nil
}

// IsAssigned implements site.AssignmentRepository.
func (r *assignmentRepositoryImpl) IsAssigned(ctx context.Context, managerID, siteID string) (bool, error) {
	if !isUUID(managerID) || !isUUID(siteID) {
		return false, nil
	}
	q := GetQuerier(ctx, r.db)

	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM manager_site_assignments WHERE manager_user_id = $1 AND site_id = $2)`
	if err := q.QueryRow(ctx, query, managerID, siteID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check assignment: %w", err)
	}
	return exists, nil
}

// ListSiteIDs implements site.AssignmentRepository.
func (r *assignmentRepositoryImpl) ListSiteIDs(ctx context.Context, managerID string) ([]string, error) {
	if !isUUID(managerID) {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT site_id FROM manager_site_assignments WHERE manager_user_id = $1 ORDER BY created_at`, managerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites of manager %s: %w", managerID, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

package repo

import (
	"context"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// ProjectRepositoryPG reads project history. The generation pipeline never
// writes projects; persistence of accepted drafts is the caller's concern.
type ProjectRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewProjectRepository creates a new ProjectRepositoryPG.
func NewProjectRepository(sql infra.SQLExecutor) *ProjectRepositoryPG {
	return &ProjectRepositoryPG{sql: sql}
}

// Recent returns up to limit project summaries for the profile, newest first.
func (r *ProjectRepositoryPG) Recent(ctx context.Context, profileID string, limit int) ([]domain.ProjectSummary, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QSelectRecentProjects, profileID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var projects []domain.ProjectSummary
	for rows.Next() {
		var p domain.ProjectSummary
		if err := rows.Scan(&p.ID, &p.Title, &p.Platform, &p.Summary, &p.CreatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// CountByUser returns the user's total project count for plan snapshots.
func (r *ProjectRepositoryPG) CountByUser(ctx context.Context, userID string) (int, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QCountProjects, userID)
	var total int
	if err := row.Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

package drawings

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"sitedeck/internal/domain"
	"sitedeck/internal/domain/models/drawings"
	drawingsRepo "sitedeck/internal/domain/repositories/drawings"
	"sitedeck/internal/repository/postgres"
)

// DrawingRepository implements the DrawingRepository interface over
// PostgreSQL.
type DrawingRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewDrawingRepository creates a new drawing repository
func NewDrawingRepository(config *postgres.RepositoryConfig) drawingsRepo.DrawingRepository {
	return &DrawingRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const drawingColumns = "id, project_id, set_id, number, title, discipline, status, current_revision_id, created_at, updated_at"

func scanDrawing(row interface{ Scan(...any) error }, d *drawings.Drawing) error {
	return row.Scan(
		&d.ID,
		&d.ProjectID,
		&d.SetID,
		&d.Number,
		&d.Title,
		&d.Discipline,
		&d.Status,
		&d.CurrentRevisionID,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
}

// Create inserts a new drawing header
func (r *DrawingRepository) Create(ctx context.Context, drawing *drawings.Drawing) error {
	if drawing.ID == "" {
		drawing.ID = uuid.New().String()
	}
	now := time.Now()
	if drawing.CreatedAt.IsZero() {
		drawing.CreatedAt = now
	}
	drawing.UpdatedAt = now

	query := fmt.Sprintf(`
		INSERT INTO %s (id, project_id, set_id, number, title, discipline, status, current_revision_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, r.tables.Drawings)

	exec := postgres.GetExecutor(ctx, r.pool)
	_, err := exec.Exec(ctx, query,
		drawing.ID,
		drawing.ProjectID,
		drawing.SetID,
		drawing.Number,
		drawing.Title,
		drawing.Discipline,
		drawing.Status,
		drawing.CurrentRevisionID,
		drawing.CreatedAt,
		drawing.UpdatedAt,
	)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("drawing %s already exists", drawing.ID),
				ResourceType: "drawing",
				ResourceID:   drawing.ID,
			}
		}
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("drawing set: %w", domain.ErrInvalidParent)
		}
		return fmt.Errorf("create drawing: %w", err)
	}

	return nil
}

// GetByID retrieves a drawing by ID within a project
func (r *DrawingRepository) GetByID(ctx context.Context, id, projectID string) (*drawings.Drawing, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND project_id = $2
	`, drawingColumns, r.tables.Drawings)

	exec := postgres.GetExecutor(ctx, r.pool)
	var drawing drawings.Drawing
	if err := scanDrawing(exec.QueryRow(ctx, query, id, projectID), &drawing); err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("drawing %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get drawing: %w", err)
	}

	return &drawing, nil
}

// Update persists set_id, title, discipline, and status changes
func (r *DrawingRepository) Update(ctx context.Context, drawing *drawings.Drawing) error {
	drawing.UpdatedAt = time.Now()

	query := fmt.Sprintf(`
		UPDATE %s
		SET set_id = $1, number = $2, title = $3, discipline = $4, status = $5, updated_at = $6
		WHERE id = $7 AND project_id = $8
	`, r.tables.Drawings)

	exec := postgres.GetExecutor(ctx, r.pool)
	result, err := exec.Exec(ctx, query,
		drawing.SetID,
		drawing.Number,
		drawing.Title,
		drawing.Discipline,
		drawing.Status,
		drawing.UpdatedAt,
		drawing.ID,
		drawing.ProjectID,
	)
	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("drawing set: %w", domain.ErrInvalidParent)
		}
		return fmt.Errorf("update drawing: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("drawing %s: %w", drawing.ID, domain.ErrNotFound)
	}

	return nil
}

// SetCurrentRevision atomically points the drawing at a revision
func (r *DrawingRepository) SetCurrentRevision(ctx context.Context, drawingID, revisionID string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET current_revision_id = $1, updated_at = $2
		WHERE id = $3
	`, r.tables.Drawings)

	exec := postgres.GetExecutor(ctx, r.pool)
	result, err := exec.Exec(ctx, query, revisionID, time.Now(), drawingID)
	if err != nil {
		return fmt.Errorf("set current revision: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("drawing %s: %w", drawingID, domain.ErrNotFound)
	}

	return nil
}

// List retrieves a project's drawings matching the filters
func (r *DrawingRepository) List(ctx context.Context, projectID string, filters drawings.ListFilters) ([]drawings.Drawing, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE project_id = $1
	`, drawingColumns, r.tables.Drawings)
	args := []interface{}{projectID}

	if filters.Discipline != "" {
		args = append(args, filters.Discipline)
		query += fmt.Sprintf(" AND discipline = $%d", len(args))
	}
	if filters.Status != "" {
		args = append(args, filters.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filters.SetID != nil {
		args = append(args, *filters.SetID)
		query += fmt.Sprintf(" AND set_id = $%d", len(args))
	}
	if filters.Number != "" {
		args = append(args, filters.Number)
		query += fmt.Sprintf(" AND number = $%d", len(args))
	}

	query += " ORDER BY number ASC, title ASC"

	exec := postgres.GetExecutor(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list drawings: %w", err)
	}
	defer rows.Close()

	var result []drawings.Drawing
	for rows.Next() {
		var drawing drawings.Drawing
		if err := scanDrawing(rows, &drawing); err != nil {
			return nil, fmt.Errorf("scan drawing: %w", err)
		}
		result = append(result, drawing)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate drawings: %w", err)
	}

	return result, nil
}

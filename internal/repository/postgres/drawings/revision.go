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

// RevisionRepository implements the RevisionRepository interface over
// PostgreSQL. Revisions are append-only; there is no update or delete
// statement in this file on purpose.
type RevisionRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewRevisionRepository creates a new revision repository
func NewRevisionRepository(config *postgres.RepositoryConfig) drawingsRepo.RevisionRepository {
	return &RevisionRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const revisionColumns = "id, drawing_id, version_label, artifact_ref, file_name, file_size, content_type, change_notes, created_at, created_by"

func scanRevision(row interface{ Scan(...any) error }, rev *drawings.Revision) error {
	return row.Scan(
		&rev.ID,
		&rev.DrawingID,
		&rev.VersionLabel,
		&rev.ArtifactRef,
		&rev.Artifact.FileName,
		&rev.Artifact.FileSize,
		&rev.Artifact.ContentType,
		&rev.ChangeNotes,
		&rev.CreatedAt,
		&rev.CreatedBy,
	)
}

// Create inserts a new revision
func (r *RevisionRepository) Create(ctx context.Context, revision *drawings.Revision) error {
	if revision.ID == "" {
		revision.ID = uuid.New().String()
	}
	if revision.CreatedAt.IsZero() {
		revision.CreatedAt = time.Now()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, drawing_id, version_label, artifact_ref, file_name, file_size, content_type, change_notes, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, r.tables.Revisions)

	exec := postgres.GetExecutor(ctx, r.pool)
	_, err := exec.Exec(ctx, query,
		revision.ID,
		revision.DrawingID,
		revision.VersionLabel,
		revision.ArtifactRef,
		revision.Artifact.FileName,
		revision.Artifact.FileSize,
		revision.Artifact.ContentType,
		revision.ChangeNotes,
		revision.CreatedAt,
		revision.CreatedBy,
	)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("revision %s already exists", revision.ID),
				ResourceType: "revision",
				ResourceID:   revision.ID,
			}
		}
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("revision drawing: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("create revision: %w", err)
	}

	return nil
}

// GetByID retrieves a revision by ID
func (r *RevisionRepository) GetByID(ctx context.Context, id string) (*drawings.Revision, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, revisionColumns, r.tables.Revisions)

	exec := postgres.GetExecutor(ctx, r.pool)
	var revision drawings.Revision
	if err := scanRevision(exec.QueryRow(ctx, query, id), &revision); err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("revision %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get revision: %w", err)
	}

	return &revision, nil
}

// ListByDrawing retrieves a drawing's revisions ordered by (created_at, id)
func (r *RevisionRepository) ListByDrawing(ctx context.Context, drawingID string) ([]drawings.Revision, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE drawing_id = $1
		ORDER BY created_at ASC, id ASC
	`, revisionColumns, r.tables.Revisions)

	exec := postgres.GetExecutor(ctx, r.pool)
	rows, err := exec.Query(ctx, query, drawingID)
	if err != nil {
		return nil, fmt.Errorf("list revisions: %w", err)
	}
	defer rows.Close()

	var revisions []drawings.Revision
	for rows.Next() {
		var revision drawings.Revision
		if err := scanRevision(rows, &revision); err != nil {
			return nil, fmt.Errorf("scan revision: %w", err)
		}
		revisions = append(revisions, revision)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate revisions: %w", err)
	}

	return revisions, nil
}

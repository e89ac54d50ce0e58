package hierarchy

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"sitedeck/internal/domain"
	"sitedeck/internal/domain/models/hierarchy"
	hierarchyRepo "sitedeck/internal/domain/repositories/hierarchy"
	"sitedeck/internal/repository/postgres"
)

// NodeRepository implements the hierarchy NodeRepository interface over
// PostgreSQL. All queries go through postgres.GetExecutor so they join an
// enclosing transaction when one is present in the context.
type NodeRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewNodeRepository creates a new node repository
func NewNodeRepository(config *postgres.RepositoryConfig) hierarchyRepo.NodeRepository {
	return &NodeRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const nodeColumns = "id, project_id, name, parent_id, kind, description, sort_order, created_at, updated_at"

func scanNode(row interface{ Scan(...any) error }, node *hierarchy.Node) error {
	return row.Scan(
		&node.ID,
		&node.ProjectID,
		&node.Name,
		&node.ParentID,
		&node.Kind,
		&node.Description,
		&node.SortOrder,
		&node.CreatedAt,
		&node.UpdatedAt,
	)
}

// Create inserts a new node
func (r *NodeRepository) Create(ctx context.Context, node *hierarchy.Node) error {
	if node.ID == "" {
		node.ID = uuid.New().String()
	}
	now := time.Now()
	if node.CreatedAt.IsZero() {
		node.CreatedAt = now
	}
	node.UpdatedAt = now

	query := fmt.Sprintf(`
		INSERT INTO %s (id, project_id, name, parent_id, kind, description, sort_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, r.tables.Nodes)

	exec := postgres.GetExecutor(ctx, r.pool)
	_, err := exec.Exec(ctx, query,
		node.ID,
		node.ProjectID,
		node.Name,
		node.ParentID,
		node.Kind,
		node.Description,
		node.SortOrder,
		node.CreatedAt,
		node.UpdatedAt,
	)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("node %s already exists", node.ID),
				ResourceType: "node",
				ResourceID:   node.ID,
			}
		}
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("node parent: %w", domain.ErrInvalidParent)
		}
		return fmt.Errorf("create node: %w", err)
	}

	return nil
}

// GetByID retrieves a node by ID within a project
func (r *NodeRepository) GetByID(ctx context.Context, id, projectID string) (*hierarchy.Node, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND project_id = $2
	`, nodeColumns, r.tables.Nodes)

	exec := postgres.GetExecutor(ctx, r.pool)
	var node hierarchy.Node
	if err := scanNode(exec.QueryRow(ctx, query, id, projectID), &node); err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("node %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get node: %w", err)
	}

	return &node, nil
}

// GetByIDOnly retrieves a node by ID without project scoping
func (r *NodeRepository) GetByIDOnly(ctx context.Context, id string) (*hierarchy.Node, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, nodeColumns, r.tables.Nodes)

	exec := postgres.GetExecutor(ctx, r.pool)
	var node hierarchy.Node
	if err := scanNode(exec.QueryRow(ctx, query, id), &node); err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("node %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get node: %w", err)
	}

	return &node, nil
}

// Update updates a node
func (r *NodeRepository) Update(ctx context.Context, node *hierarchy.Node) error {
	node.UpdatedAt = time.Now()

	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, parent_id = $2, kind = $3, description = $4, sort_order = $5, updated_at = $6
		WHERE id = $7 AND project_id = $8
	`, r.tables.Nodes)

	exec := postgres.GetExecutor(ctx, r.pool)
	result, err := exec.Exec(ctx, query,
		node.Name,
		node.ParentID,
		node.Kind,
		node.Description,
		node.SortOrder,
		node.UpdatedAt,
		node.ID,
		node.ProjectID,
	)
	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("node parent: %w", domain.ErrInvalidParent)
		}
		return fmt.Errorf("update node: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("node %s: %w", node.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete deletes a node
func (r *NodeRepository) Delete(ctx context.Context, id, projectID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND project_id = $2
	`, r.tables.Nodes)

	exec := postgres.GetExecutor(ctx, r.pool)
	result, err := exec.Exec(ctx, query, id, projectID)
	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			// The parent_id RESTRICT constraint backs up the service-level
			// childless check.
			return fmt.Errorf("node %s: %w", id, domain.ErrHasChildren)
		}
		return fmt.Errorf("delete node: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("node %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListChildren lists immediate children ordered by (sort_order, name)
func (r *NodeRepository) ListChildren(ctx context.Context, parentID *string, projectID string) ([]hierarchy.Node, error) {
	var query string
	var args []interface{}

	if parentID == nil {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE project_id = $1 AND parent_id IS NULL
			ORDER BY sort_order ASC, name ASC
		`, nodeColumns, r.tables.Nodes)
		args = append(args, projectID)
	} else {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE project_id = $1 AND parent_id = $2
			ORDER BY sort_order ASC, name ASC
		`, nodeColumns, r.tables.Nodes)
		args = append(args, projectID, *parentID)
	}

	exec := postgres.GetExecutor(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list node children: %w", err)
	}
	defer rows.Close()

	var nodes []hierarchy.Node
	for rows.Next() {
		var node hierarchy.Node
		if err := scanNode(rows, &node); err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}
		nodes = append(nodes, node)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate nodes: %w", err)
	}

	return nodes, nil
}

// HasChildren reports whether any node has the given node as parent
func (r *NodeRepository) HasChildren(ctx context.Context, id, projectID string) (bool, error) {
	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM %s WHERE project_id = $1 AND parent_id = $2
		)
	`, r.tables.Nodes)

	exec := postgres.GetExecutor(ctx, r.pool)
	var exists bool
	if err := exec.QueryRow(ctx, query, projectID, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check node children: %w", err)
	}

	return exists, nil
}

// GetAllByProject retrieves all nodes in a project (flat list)
func (r *NodeRepository) GetAllByProject(ctx context.Context, projectID string) ([]hierarchy.Node, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE project_id = $1
		ORDER BY sort_order ASC, name ASC
	`, nodeColumns, r.tables.Nodes)

	exec := postgres.GetExecutor(ctx, r.pool)
	rows, err := exec.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("get all nodes: %w", err)
	}
	defer rows.Close()

	var nodes []hierarchy.Node
	for rows.Next() {
		var node hierarchy.Node
		if err := scanNode(rows, &node); err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}
		nodes = append(nodes, node)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate nodes: %w", err)
	}

	return nodes, nil
}

package hierarchy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"sitedeck/internal/config"
	"sitedeck/internal/domain"
	"sitedeck/internal/domain/models/hierarchy"
	"sitedeck/internal/domain/repositories"
	hierarchyRepo "sitedeck/internal/domain/repositories/hierarchy"
	hierarchySvc "sitedeck/internal/domain/services/hierarchy"
	"sitedeck/internal/metrics"
)

type nodeService struct {
	nodeRepo  hierarchyRepo.NodeRepository
	resolver  hierarchySvc.PathResolver
	txManager repositories.TransactionManager
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewNodeService creates a new node service
func NewNodeService(
	nodeRepo hierarchyRepo.NodeRepository,
	resolver hierarchySvc.PathResolver,
	txManager repositories.TransactionManager,
	m *metrics.Metrics,
	logger *slog.Logger,
) hierarchySvc.NodeService {
	return &nodeService{
		nodeRepo:  nodeRepo,
		resolver:  resolver,
		txManager: txManager,
		metrics:   m,
		logger:    logger,
	}
}

// CreateNode creates a new node, optionally under a parent. A freshly
// created node has no descendants, so only the parent reference needs
// validating; cycles are only reachable through reparenting.
func (s *nodeService) CreateNode(ctx context.Context, req *hierarchySvc.CreateNodeRequest) (node *hierarchy.Node, err error) {
	defer func() { s.metrics.RecordNodeMutation("create", err) }()

	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("node name: %w", domain.ErrEmptyName)
	}

	sortOrder := 0
	if req.SortOrder != nil {
		sortOrder = *req.SortOrder
	}

	node = &hierarchy.Node{
		ProjectID:   req.ProjectID,
		Name:        name,
		ParentID:    req.ParentID,
		Kind:        req.Kind,
		Description: req.Description,
		SortOrder:   sortOrder,
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if req.ParentID != nil {
			if err := s.validateParent(txCtx, req.ProjectID, *req.ParentID); err != nil {
				return err
			}
		}
		return s.nodeRepo.Create(txCtx, node)
	})
	if err != nil {
		return nil, err
	}

	s.decoratePath(ctx, node)

	s.logger.Info("node created",
		"id", node.ID,
		"name", node.Name,
		"project_id", node.ProjectID,
		"parent_id", node.ParentID,
		"kind", node.Kind,
	)

	return node, nil
}

// GetNode retrieves a node with its computed display path
func (s *nodeService) GetNode(ctx context.Context, id, projectID string) (*hierarchy.Node, error) {
	node, err := s.nodeRepo.GetByID(ctx, id, projectID)
	if err != nil {
		return nil, err
	}

	s.decoratePath(ctx, node)
	return node, nil
}

// UpdateNode renames, reparents, or reorders a node. Validation and the
// write run under one transaction so a concurrent edit cannot slip a cycle
// past the ancestor check.
func (s *nodeService) UpdateNode(ctx context.Context, id string, req *hierarchySvc.UpdateNodeRequest) (node *hierarchy.Node, err error) {
	defer func() { s.metrics.RecordNodeMutation("update", err) }()

	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		node, err = s.nodeRepo.GetByID(txCtx, id, req.ProjectID)
		if err != nil {
			return err
		}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return fmt.Errorf("node name: %w", domain.ErrEmptyName)
			}
			node.Name = name
		}

		if req.Description != nil {
			node.Description = *req.Description
		}

		if req.SortOrder != nil {
			node.SortOrder = *req.SortOrder
		}

		// Tri-state: only reparent if the field was present in the request
		if req.ParentID.Present {
			if req.ParentID.Value != nil {
				if err := s.validateReparent(txCtx, node, *req.ParentID.Value); err != nil {
					return err
				}
				node.ParentID = req.ParentID.Value
				s.logger.Debug("moving node to new parent",
					"node_id", id,
					"new_parent_id", *req.ParentID.Value,
				)
			} else {
				// null = move to root
				node.ParentID = nil
				s.logger.Debug("moving node to root", "node_id", id)
			}
		}

		return s.nodeRepo.Update(txCtx, node)
	})
	if err != nil {
		return nil, err
	}

	s.decoratePath(ctx, node)

	s.logger.Info("node updated",
		"id", node.ID,
		"name", node.Name,
		"parent_id", node.ParentID,
	)

	return node, nil
}

// DeleteNode deletes a node. A node with children cannot be deleted; the
// caller must move or delete the children first. Deletion never cascades.
func (s *nodeService) DeleteNode(ctx context.Context, id, projectID string) (err error) {
	defer func() { s.metrics.RecordNodeMutation("delete", err) }()

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		node, err := s.nodeRepo.GetByID(txCtx, id, projectID)
		if err != nil {
			return err
		}

		hasChildren, err := s.nodeRepo.HasChildren(txCtx, id, projectID)
		if err != nil {
			return err
		}
		if hasChildren {
			return fmt.Errorf("node %q: %w", node.Name, domain.ErrHasChildren)
		}

		return s.nodeRepo.Delete(txCtx, id, projectID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("node deleted", "id", id, "project_id", projectID)
	return nil
}

// ListChildren lists immediate children ordered by (sort_order, name)
func (s *nodeService) ListChildren(ctx context.Context, parentID *string, projectID string) ([]hierarchy.Node, error) {
	if parentID != nil {
		if _, err := s.nodeRepo.GetByID(ctx, *parentID, projectID); err != nil {
			return nil, err
		}
	}
	return s.nodeRepo.ListChildren(ctx, parentID, projectID)
}

// validateParent checks that a parent reference resolves to a node in the
// same project.
func (s *nodeService) validateParent(ctx context.Context, projectID, parentID string) error {
	parent, err := s.nodeRepo.GetByIDOnly(ctx, parentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("parent %s: %w", parentID, domain.ErrInvalidParent)
		}
		return err
	}
	if parent.ProjectID != projectID {
		return fmt.Errorf("parent %s: %w", parentID, domain.ErrCrossOwner)
	}
	return nil
}

// validateReparent ensures moving the node under newParentID keeps the
// project's forest acyclic. It re-reads the tree inside the enclosing
// transaction and walks the ancestor chain of the new parent; the walk is
// bounded by the project's node count so corrupt data fails instead of
// looping forever.
func (s *nodeService) validateReparent(ctx context.Context, node *hierarchy.Node, newParentID string) error {
	if newParentID == node.ID {
		return fmt.Errorf("node cannot be its own parent: %w", domain.ErrCycle)
	}

	if err := s.validateParent(ctx, node.ProjectID, newParentID); err != nil {
		return err
	}

	all, err := s.nodeRepo.GetAllByProject(ctx, node.ProjectID)
	if err != nil {
		return err
	}
	byID := make(map[string]*hierarchy.Node, len(all))
	for i := range all {
		byID[all[i].ID] = &all[i]
	}

	currentID := newParentID
	for steps := 0; ; steps++ {
		if steps > len(all) {
			return fmt.Errorf("ancestor chain of %s exceeds node count: %w", newParentID, domain.ErrCorruptHierarchy)
		}

		current, ok := byID[currentID]
		if !ok {
			return fmt.Errorf("ancestor %s missing: %w", currentID, domain.ErrCorruptHierarchy)
		}
		if current.ID == node.ID {
			return fmt.Errorf("node %s is an ancestor of %s: %w", node.ID, newParentID, domain.ErrCycle)
		}
		if current.ParentID == nil {
			return nil
		}
		currentID = *current.ParentID
	}
}

// decoratePath fills in the display path, falling back to the bare name if
// resolution fails.
func (s *nodeService) decoratePath(ctx context.Context, node *hierarchy.Node) {
	label, err := s.resolver.DisplayLabel(ctx, node.ID, node.ProjectID)
	if err != nil {
		s.logger.Warn("failed to compute path", "node_id", node.ID, "error", err)
		node.Path = node.Name
		return
	}
	node.Path = label
}

// validateCreateRequest validates a node creation request
func (s *nodeService) validateCreateRequest(req *hierarchySvc.CreateNodeRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.ProjectID, validation.Required),
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxNodeNameLength)),
		validation.Field(&req.Description, validation.Length(0, config.MaxDescriptionLength)),
	)
}

// validateUpdateRequest validates a node update request
func (s *nodeService) validateUpdateRequest(req *hierarchySvc.UpdateNodeRequest) error {
	if req.Name == nil && !req.ParentID.Present && req.Description == nil && req.SortOrder == nil {
		return fmt.Errorf("at least one field must be provided")
	}

	rules := []*validation.FieldRules{
		validation.Field(&req.ProjectID, validation.Required),
	}

	if req.Name != nil {
		rules = append(rules,
			validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxNodeNameLength)),
		)
	}
	if req.Description != nil {
		rules = append(rules,
			validation.Field(&req.Description, validation.Length(0, config.MaxDescriptionLength)),
		)
	}

	return validation.ValidateStruct(req, rules...)
}

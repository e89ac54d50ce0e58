package drawings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"sitedeck/internal/config"
	"sitedeck/internal/disciplines"
	"sitedeck/internal/domain"
	"sitedeck/internal/domain/models/drawings"
	"sitedeck/internal/domain/repositories"
	drawingsRepo "sitedeck/internal/domain/repositories/drawings"
	hierarchyRepo "sitedeck/internal/domain/repositories/hierarchy"
	drawingsSvc "sitedeck/internal/domain/services/drawings"
	"sitedeck/internal/metrics"
)

type registryService struct {
	drawingRepo   drawingsRepo.DrawingRepository
	revisionRepo  drawingsRepo.RevisionRepository
	nodeRepo      hierarchyRepo.NodeRepository
	disciplineReg *disciplines.Registry
	txManager     repositories.TransactionManager
	metrics       *metrics.Metrics
	logger        *slog.Logger
}

// NewDrawingRegistry creates a new drawing registry service
func NewDrawingRegistry(
	drawingRepo drawingsRepo.DrawingRepository,
	revisionRepo drawingsRepo.RevisionRepository,
	nodeRepo hierarchyRepo.NodeRepository,
	disciplineReg *disciplines.Registry,
	txManager repositories.TransactionManager,
	m *metrics.Metrics,
	logger *slog.Logger,
) drawingsSvc.DrawingRegistry {
	return &registryService{
		drawingRepo:   drawingRepo,
		revisionRepo:  revisionRepo,
		nodeRepo:      nodeRepo,
		disciplineReg: disciplineReg,
		txManager:     txManager,
		metrics:       m,
		logger:        logger,
	}
}

// CreateWithFirstRevision creates a drawing and its first revision as one
// transactional unit. If anything fails - set validation, the revision
// insert, or the promotion - the whole operation rolls back and no drawing
// row is left behind. A drawing with zero revisions is never persisted.
func (s *registryService) CreateWithFirstRevision(ctx context.Context, req *drawingsSvc.CreateDrawingRequest) (*drawings.Drawing, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if err := validateRevisionInput(req.FirstRevision); err != nil {
		return nil, fmt.Errorf("%w: first revision: %v", domain.ErrValidation, err)
	}

	drawing := &drawings.Drawing{
		ProjectID:  req.ProjectID,
		SetID:      req.SetID,
		Number:     strings.TrimSpace(req.Number),
		Title:      strings.TrimSpace(req.Title),
		Discipline: req.Discipline,
		Status:     req.Status,
	}

	revision := &drawings.Revision{
		VersionLabel: req.FirstRevision.VersionLabel,
		ArtifactRef:  req.FirstRevision.ArtifactRef,
		Artifact:     req.FirstRevision.Artifact,
		ChangeNotes:  req.FirstRevision.ChangeNotes,
		CreatedBy:    req.FirstRevision.CreatedBy,
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if req.SetID != nil {
			if err := s.validateSet(txCtx, req.ProjectID, *req.SetID); err != nil {
				return err
			}
		}

		if err := s.drawingRepo.Create(txCtx, drawing); err != nil {
			return err
		}

		revision.DrawingID = drawing.ID
		if err := s.revisionRepo.Create(txCtx, revision); err != nil {
			return err
		}

		if err := s.drawingRepo.SetCurrentRevision(txCtx, drawing.ID, revision.ID); err != nil {
			return err
		}
		drawing.CurrentRevisionID = &revision.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.DrawingCreations.Inc()
	s.metrics.RevisionPromotions.Inc()
	s.logger.Info("drawing created",
		"id", drawing.ID,
		"number", drawing.Number,
		"project_id", drawing.ProjectID,
		"revision_id", revision.ID,
		"version_label", revision.VersionLabel,
	)

	return drawing, nil
}

// AddRevision delegates to the ledger's append-and-promote and returns the
// drawing with its updated current pointer.
func (s *registryService) AddRevision(ctx context.Context, drawingID, projectID string, input *drawingsSvc.RevisionInput) (*drawings.Drawing, error) {
	if err := validateRevisionInput(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	revision := &drawings.Revision{
		DrawingID:    drawingID,
		VersionLabel: input.VersionLabel,
		ArtifactRef:  input.ArtifactRef,
		Artifact:     input.Artifact,
		ChangeNotes:  input.ChangeNotes,
		CreatedBy:    input.CreatedBy,
	}

	var drawing *drawings.Drawing
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		drawing, err = s.drawingRepo.GetByID(txCtx, drawingID, projectID)
		if err != nil {
			return err
		}
		if err := s.revisionRepo.Create(txCtx, revision); err != nil {
			return err
		}
		if err := s.drawingRepo.SetCurrentRevision(txCtx, drawingID, revision.ID); err != nil {
			return err
		}
		drawing.CurrentRevisionID = &revision.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RevisionPromotions.Inc()
	s.logger.Info("revision added",
		"drawing_id", drawingID,
		"revision_id", revision.ID,
		"version_label", revision.VersionLabel,
	)

	return drawing, nil
}

// GetDrawing retrieves a drawing header
func (s *registryService) GetDrawing(ctx context.Context, id, projectID string) (*drawings.Drawing, error) {
	return s.drawingRepo.GetByID(ctx, id, projectID)
}

// UpdateDrawing edits the header: title, status, and the set it is filed
// under.
func (s *registryService) UpdateDrawing(ctx context.Context, id string, req *drawingsSvc.UpdateDrawingRequest) (*drawings.Drawing, error) {
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	var drawing *drawings.Drawing
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		drawing, err = s.drawingRepo.GetByID(txCtx, id, req.ProjectID)
		if err != nil {
			return err
		}

		if req.Title != nil {
			drawing.Title = strings.TrimSpace(*req.Title)
		}
		if req.Status != nil {
			drawing.Status = *req.Status
		}

		// Tri-state: only refile if the field was present in the request
		if req.SetID.Present {
			if req.SetID.Value != nil {
				if err := s.validateSet(txCtx, drawing.ProjectID, *req.SetID.Value); err != nil {
					return err
				}
				drawing.SetID = req.SetID.Value
			} else {
				// null = unfile from any set
				drawing.SetID = nil
			}
		}

		return s.drawingRepo.Update(txCtx, drawing)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("drawing updated",
		"id", drawing.ID,
		"number", drawing.Number,
		"set_id", drawing.SetID,
		"status", drawing.Status,
	)

	return drawing, nil
}

// validateSet checks that a set reference resolves to a node in the same
// project. A set in another project is rejected the same way as a missing
// one.
func (s *registryService) validateSet(ctx context.Context, projectID, setID string) error {
	node, err := s.nodeRepo.GetByIDOnly(ctx, setID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("set %s: %w", setID, domain.ErrInvalidParent)
		}
		return err
	}
	if node.ProjectID != projectID {
		return fmt.Errorf("set %s: %w", setID, domain.ErrInvalidParent)
	}
	return nil
}

// validateCreateRequest validates a drawing creation request. Sheet-number
// uniqueness within a project is intentionally not checked.
func (s *registryService) validateCreateRequest(req *drawingsSvc.CreateDrawingRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.ProjectID, validation.Required),
		validation.Field(&req.Number, validation.Required, validation.Length(1, config.MaxNumberLength)),
		validation.Field(&req.Title, validation.Required, validation.Length(1, config.MaxTitleLength)),
		validation.Field(&req.Discipline, validation.Required, validation.By(s.disciplineRule)),
		validation.Field(&req.Status, validation.Required, validation.By(statusRule)),
	)
}

// validateUpdateRequest validates a drawing header update request
func (s *registryService) validateUpdateRequest(req *drawingsSvc.UpdateDrawingRequest) error {
	if req.Title == nil && req.Status == nil && !req.SetID.Present {
		return fmt.Errorf("at least one field must be provided")
	}

	rules := []*validation.FieldRules{
		validation.Field(&req.ProjectID, validation.Required),
	}

	if req.Title != nil {
		rules = append(rules,
			validation.Field(&req.Title, validation.Required, validation.Length(1, config.MaxTitleLength)),
		)
	}
	if req.Status != nil {
		rules = append(rules,
			validation.Field(&req.Status, validation.By(statusRule)),
		)
	}

	return validation.ValidateStruct(req, rules...)
}

func (s *registryService) disciplineRule(value interface{}) error {
	code, _ := value.(string)
	if !s.disciplineReg.Valid(code) {
		return fmt.Errorf("unknown discipline %q", code)
	}
	return nil
}

func statusRule(value interface{}) error {
	switch v := value.(type) {
	case string:
		if !drawings.ValidStatus(v) {
			return fmt.Errorf("unknown status %q", v)
		}
	case *string:
		if v != nil && !drawings.ValidStatus(*v) {
			return fmt.Errorf("unknown status %q", *v)
		}
	}
	return nil
}

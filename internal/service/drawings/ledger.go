package drawings

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"sitedeck/internal/config"
	"sitedeck/internal/domain"
	"sitedeck/internal/domain/models/drawings"
	"sitedeck/internal/domain/repositories"
	drawingsRepo "sitedeck/internal/domain/repositories/drawings"
	drawingsSvc "sitedeck/internal/domain/services/drawings"
	"sitedeck/internal/metrics"
)

type ledgerService struct {
	drawingRepo  drawingsRepo.DrawingRepository
	revisionRepo drawingsRepo.RevisionRepository
	txManager    repositories.TransactionManager
	metrics      *metrics.Metrics
	logger       *slog.Logger
}

// NewVersionLedger creates a new version ledger service
func NewVersionLedger(
	drawingRepo drawingsRepo.DrawingRepository,
	revisionRepo drawingsRepo.RevisionRepository,
	txManager repositories.TransactionManager,
	m *metrics.Metrics,
	logger *slog.Logger,
) drawingsSvc.VersionLedger {
	return &ledgerService{
		drawingRepo:  drawingRepo,
		revisionRepo: revisionRepo,
		txManager:    txManager,
		metrics:      m,
		logger:       logger,
	}
}

// AppendRevision appends a revision and atomically promotes it to current.
// Insert and promotion share one transaction: if promotion fails the
// revision row is rolled back, so an appended-but-unpromoted revision is
// never observable.
func (s *ledgerService) AppendRevision(ctx context.Context, drawingID, projectID string, input *drawingsSvc.RevisionInput) (*drawings.Revision, error) {
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

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if _, err := s.drawingRepo.GetByID(txCtx, drawingID, projectID); err != nil {
			return err
		}
		if err := s.revisionRepo.Create(txCtx, revision); err != nil {
			return err
		}
		return s.drawingRepo.SetCurrentRevision(txCtx, drawingID, revision.ID)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RevisionPromotions.Inc()
	s.logger.Info("revision appended",
		"drawing_id", drawingID,
		"revision_id", revision.ID,
		"version_label", revision.VersionLabel,
		"created_by", revision.CreatedBy,
	)

	return revision, nil
}

// History returns a drawing's revisions ordered by created_at ascending
func (s *ledgerService) History(ctx context.Context, drawingID, projectID string) ([]drawings.Revision, error) {
	if _, err := s.drawingRepo.GetByID(ctx, drawingID, projectID); err != nil {
		return nil, err
	}
	return s.revisionRepo.ListByDrawing(ctx, drawingID)
}

// Current returns the drawing's current revision. A nil pointer means the
// drawing was persisted without a revision, which the registry's creation
// contract makes unreachable - fail loudly rather than return nil.
func (s *ledgerService) Current(ctx context.Context, drawingID, projectID string) (*drawings.Revision, error) {
	drawing, err := s.drawingRepo.GetByID(ctx, drawingID, projectID)
	if err != nil {
		return nil, err
	}

	if drawing.CurrentRevisionID == nil {
		s.logger.Error("drawing has no current revision",
			"drawing_id", drawingID,
			"project_id", projectID,
		)
		return nil, fmt.Errorf("drawing %s: %w", drawingID, domain.ErrNoRevisions)
	}

	revision, err := s.revisionRepo.GetByID(ctx, *drawing.CurrentRevisionID)
	if err != nil {
		return nil, err
	}
	if revision.DrawingID != drawingID {
		return nil, fmt.Errorf("current revision %s belongs to drawing %s, not %s",
			revision.ID, revision.DrawingID, drawingID)
	}

	return revision, nil
}

// GetRevision retrieves one revision by ID
func (s *ledgerService) GetRevision(ctx context.Context, revisionID string) (*drawings.Revision, error) {
	return s.revisionRepo.GetByID(ctx, revisionID)
}

// validateRevisionInput validates the caller-supplied revision fields.
// VersionLabel is free-form on purpose: "1", "A", and "Rev 2" are all
// valid, and no monotonicity is implied.
func validateRevisionInput(input *drawingsSvc.RevisionInput) error {
	if input == nil {
		return fmt.Errorf("revision input is required")
	}
	return validation.ValidateStruct(input,
		validation.Field(&input.VersionLabel, validation.Required, validation.Length(1, config.MaxVersionLabelLength)),
		validation.Field(&input.ArtifactRef, validation.Required),
		validation.Field(&input.ChangeNotes, validation.Length(0, config.MaxChangeNotesLength)),
		validation.Field(&input.CreatedBy, validation.Required),
	)
}

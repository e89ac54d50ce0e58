package drawings

import (
	"context"
	"log/slog"

	"sitedeck/internal/domain/models/drawings"
	drawingsRepo "sitedeck/internal/domain/repositories/drawings"
	drawingsSvc "sitedeck/internal/domain/services/drawings"
	"sitedeck/internal/metrics"
)

type listingService struct {
	drawingRepo  drawingsRepo.DrawingRepository
	revisionRepo drawingsRepo.RevisionRepository
	metrics      *metrics.Metrics
	logger       *slog.Logger
}

// NewListingService creates a new drawing listing service
func NewListingService(
	drawingRepo drawingsRepo.DrawingRepository,
	revisionRepo drawingsRepo.RevisionRepository,
	m *metrics.Metrics,
	logger *slog.Logger,
) drawingsSvc.ListingService {
	return &listingService{
		drawingRepo:  drawingRepo,
		revisionRepo: revisionRepo,
		metrics:      m,
		logger:       logger,
	}
}

// ListDrawings joins each drawing to its current revision's metadata for
// list rendering. This is the one place partial failure is tolerated: a
// drawing whose current revision cannot be resolved becomes an inline row
// error instead of failing the whole listing.
func (s *listingService) ListDrawings(ctx context.Context, projectID string, filters drawings.ListFilters) ([]drawings.ListRow, error) {
	s.metrics.ListingQueries.Inc()

	headers, err := s.drawingRepo.List(ctx, projectID, filters)
	if err != nil {
		return nil, err
	}

	rows := make([]drawings.ListRow, 0, len(headers))
	for _, drawing := range headers {
		row := drawings.ListRow{Drawing: drawing}

		if drawing.CurrentRevisionID == nil {
			s.rowError(&row, drawing.ID, "drawing has no current revision")
			rows = append(rows, row)
			continue
		}

		revision, err := s.revisionRepo.GetByID(ctx, *drawing.CurrentRevisionID)
		if err != nil {
			s.logger.Error("current revision lookup failed",
				"drawing_id", drawing.ID,
				"revision_id", *drawing.CurrentRevisionID,
				"error", err,
			)
			s.rowError(&row, drawing.ID, "current revision could not be resolved")
			rows = append(rows, row)
			continue
		}

		row.CurrentRevision = revision
		rows = append(rows, row)
	}

	return rows, nil
}

func (s *listingService) rowError(row *drawings.ListRow, drawingID, message string) {
	s.metrics.ListingRowErrors.Inc()
	row.Err = &drawings.ListRowError{
		DrawingID: drawingID,
		Message:   message,
	}
}

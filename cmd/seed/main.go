// Command seed populates a demo project: a small location tree, a drawing
// set, and a few sheets with revision history. Intended for local
// development against an empty database.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"sitedeck/internal/blob"
	"sitedeck/internal/config"
	"sitedeck/internal/disciplines"
	"sitedeck/internal/domain/models/drawings"
	"sitedeck/internal/domain/models/hierarchy"
	drawingsSvc "sitedeck/internal/domain/services/drawings"
	hierarchySvc "sitedeck/internal/domain/services/hierarchy"
	"sitedeck/internal/metrics"
	"sitedeck/internal/repository/postgres"
	postgresDrawings "sitedeck/internal/repository/postgres/drawings"
	postgresHierarchy "sitedeck/internal/repository/postgres/hierarchy"
	serviceDrawings "sitedeck/internal/service/drawings"
	serviceHierarchy "sitedeck/internal/service/hierarchy"
)

const seedActor = "seed-script"

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	if err := postgres.RunMigrations(cfg.DatabaseURL, logger); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(""),
		Logger: logger,
	}
	nodeRepo := postgresHierarchy.NewNodeRepository(repoConfig)
	drawingRepo := postgresDrawings.NewDrawingRepository(repoConfig)
	revisionRepo := postgresDrawings.NewRevisionRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	blobs, err := blob.NewFSStore(cfg.BlobDir)
	if err != nil {
		log.Fatalf("Failed to create blob store: %v", err)
	}

	disciplineRegistry, err := disciplines.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize discipline registry: %v", err)
	}

	m := metrics.New(prometheus.NewRegistry())
	pathResolver := serviceHierarchy.NewPathResolver(nodeRepo, m, logger)
	nodeService := serviceHierarchy.NewNodeService(nodeRepo, pathResolver, txManager, m, logger)
	registry := serviceDrawings.NewDrawingRegistry(drawingRepo, revisionRepo, nodeRepo, disciplineRegistry, txManager, m, logger)
	ledger := serviceDrawings.NewVersionLedger(drawingRepo, revisionRepo, txManager, m, logger)

	projectID := uuid.New().String()
	logger.Info("seeding demo project", "project_id", projectID)

	building, err := nodeService.CreateNode(ctx, &hierarchySvc.CreateNodeRequest{
		ProjectID: projectID,
		Name:      "Building A",
		Kind:      hierarchy.KindLocation,
	})
	if err != nil {
		log.Fatalf("Failed to create building: %v", err)
	}

	floor, err := nodeService.CreateNode(ctx, &hierarchySvc.CreateNodeRequest{
		ProjectID: projectID,
		Name:      "Floor 2",
		ParentID:  &building.ID,
		Kind:      hierarchy.KindLocation,
	})
	if err != nil {
		log.Fatalf("Failed to create floor: %v", err)
	}

	if _, err := nodeService.CreateNode(ctx, &hierarchySvc.CreateNodeRequest{
		ProjectID: projectID,
		Name:      "Mechanical Room 201",
		ParentID:  &floor.ID,
		Kind:      hierarchy.KindLocation,
	}); err != nil {
		log.Fatalf("Failed to create room: %v", err)
	}

	set, err := nodeService.CreateNode(ctx, &hierarchySvc.CreateNodeRequest{
		ProjectID:   projectID,
		Name:        "Permit Set",
		Kind:        hierarchy.KindSet,
		Description: "Issued for permit, spring cycle",
	})
	if err != nil {
		log.Fatalf("Failed to create drawing set: %v", err)
	}

	sheets := []struct {
		number     string
		title      string
		discipline string
	}{
		{"A-101", "Floor Plan - Level 2", "A"},
		{"S-201", "Framing Plan - Level 2", "S"},
		{"M-301", "Mechanical Plan - Level 2", "M"},
	}

	for _, sheet := range sheets {
		firstRef, err := seedArtifact(ctx, blobs, sheet.number, "1")
		if err != nil {
			log.Fatalf("Failed to store artifact: %v", err)
		}

		drawing, err := registry.CreateWithFirstRevision(ctx, &drawingsSvc.CreateDrawingRequest{
			ProjectID:  projectID,
			Number:     sheet.number,
			Title:      sheet.title,
			Discipline: sheet.discipline,
			Status:     drawings.StatusDraft,
			SetID:      &set.ID,
			FirstRevision: &drawingsSvc.RevisionInput{
				VersionLabel: "1",
				ArtifactRef:  firstRef,
				Artifact: drawings.ArtifactMeta{
					FileName:    fmt.Sprintf("%s Rev1.pdf", sheet.number),
					FileSize:    int64(len(sheet.number)) + 32,
					ContentType: "application/pdf",
				},
				ChangeNotes: "Initial issue",
				CreatedBy:   seedActor,
			},
		})
		if err != nil {
			log.Fatalf("Failed to create drawing %s: %v", sheet.number, err)
		}

		secondRef, err := seedArtifact(ctx, blobs, sheet.number, "2")
		if err != nil {
			log.Fatalf("Failed to store artifact: %v", err)
		}

		if _, err := ledger.AppendRevision(ctx, drawing.ID, projectID, &drawingsSvc.RevisionInput{
			VersionLabel: "2",
			ArtifactRef:  secondRef,
			Artifact: drawings.ArtifactMeta{
				FileName:    fmt.Sprintf("%s Rev2.pdf", sheet.number),
				FileSize:    int64(len(sheet.number)) + 48,
				ContentType: "application/pdf",
			},
			ChangeNotes: "Addendum 1 markups",
			CreatedBy:   seedActor,
		}); err != nil {
			log.Fatalf("Failed to append revision to %s: %v", sheet.number, err)
		}

		logger.Info("seeded sheet", "number", sheet.number, "drawing_id", drawing.ID)
	}

	logger.Info("seed complete", "project_id", projectID)
}

// seedArtifact stores a small placeholder blob standing in for a PDF.
func seedArtifact(ctx context.Context, blobs blob.Store, number, rev string) (string, error) {
	data := []byte(fmt.Sprintf("placeholder drawing artifact %s rev %s", number, rev))
	return blobs.Put(ctx, data, "application/pdf")
}

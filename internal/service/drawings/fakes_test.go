package drawings

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"sitedeck/internal/disciplines"
	"sitedeck/internal/domain"
	"sitedeck/internal/domain/models/drawings"
	"sitedeck/internal/domain/models/hierarchy"
	"sitedeck/internal/domain/repositories"
	"sitedeck/internal/metrics"
)

// memDrawingRepo is an in-memory DrawingRepository for service tests.
type memDrawingRepo struct {
	mu       sync.Mutex
	drawings map[string]drawings.Drawing

	// Fault injection
	failSetCurrent error
	failCreate     error
}

func newMemDrawingRepo() *memDrawingRepo {
	return &memDrawingRepo{drawings: make(map[string]drawings.Drawing)}
}

func (r *memDrawingRepo) snapshot() map[string]drawings.Drawing {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]drawings.Drawing, len(r.drawings))
	for id, d := range r.drawings {
		out[id] = d
	}
	return out
}

func (r *memDrawingRepo) restore(snap map[string]drawings.Drawing) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drawings = snap
}

func (r *memDrawingRepo) Create(_ context.Context, drawing *drawings.Drawing) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if drawing.ID == "" {
		drawing.ID = uuid.New().String()
	}
	drawing.CreatedAt = time.Now()
	drawing.UpdatedAt = drawing.CreatedAt
	r.drawings[drawing.ID] = *drawing
	return nil
}

func (r *memDrawingRepo) GetByID(_ context.Context, id, projectID string) (*drawings.Drawing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drawings[id]
	if !ok || d.ProjectID != projectID {
		return nil, fmt.Errorf("drawing %s: %w", id, domain.ErrNotFound)
	}
	out := d
	return &out, nil
}

func (r *memDrawingRepo) Update(_ context.Context, drawing *drawings.Drawing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.drawings[drawing.ID]; !ok {
		return fmt.Errorf("drawing %s: %w", drawing.ID, domain.ErrNotFound)
	}
	drawing.UpdatedAt = time.Now()
	r.drawings[drawing.ID] = *drawing
	return nil
}

func (r *memDrawingRepo) SetCurrentRevision(_ context.Context, drawingID, revisionID string) error {
	if r.failSetCurrent != nil {
		return r.failSetCurrent
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drawings[drawingID]
	if !ok {
		return fmt.Errorf("drawing %s: %w", drawingID, domain.ErrNotFound)
	}
	d.CurrentRevisionID = &revisionID
	d.UpdatedAt = time.Now()
	r.drawings[drawingID] = d
	return nil
}

func (r *memDrawingRepo) List(_ context.Context, projectID string, filters drawings.ListFilters) ([]drawings.Drawing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []drawings.Drawing
	for _, d := range r.drawings {
		if d.ProjectID != projectID {
			continue
		}
		if filters.Discipline != "" && d.Discipline != filters.Discipline {
			continue
		}
		if filters.Status != "" && d.Status != filters.Status {
			continue
		}
		if filters.Number != "" && d.Number != filters.Number {
			continue
		}
		if filters.SetID != nil && (d.SetID == nil || *d.SetID != *filters.SetID) {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Number != out[j].Number {
			return out[i].Number < out[j].Number
		}
		return out[i].Title < out[j].Title
	})
	return out, nil
}

// corruptCurrent points a drawing's current pointer anywhere, bypassing the
// ledger, to simulate corrupt data.
func (r *memDrawingRepo) corruptCurrent(drawingID string, revisionID *string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := r.drawings[drawingID]
	d.CurrentRevisionID = revisionID
	r.drawings[drawingID] = d
}

// memRevisionRepo is an in-memory RevisionRepository. Insert order is
// preserved so ListByDrawing can mirror the (created_at, id) ordering even
// when two revisions land in the same wall-clock instant.
type memRevisionRepo struct {
	mu        sync.Mutex
	revisions map[string]drawings.Revision
	order     []string

	failCreate error
}

func newMemRevisionRepo() *memRevisionRepo {
	return &memRevisionRepo{revisions: make(map[string]drawings.Revision)}
}

func (r *memRevisionRepo) snapshot() (map[string]drawings.Revision, []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	revs := make(map[string]drawings.Revision, len(r.revisions))
	for id, rev := range r.revisions {
		revs[id] = rev
	}
	order := make([]string, len(r.order))
	copy(order, r.order)
	return revs, order
}

func (r *memRevisionRepo) restore(revs map[string]drawings.Revision, order []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revisions = revs
	r.order = order
}

func (r *memRevisionRepo) Create(_ context.Context, revision *drawings.Revision) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if revision.ID == "" {
		revision.ID = uuid.New().String()
	}
	revision.CreatedAt = time.Now()
	r.revisions[revision.ID] = *revision
	r.order = append(r.order, revision.ID)
	return nil
}

func (r *memRevisionRepo) GetByID(_ context.Context, id string) (*drawings.Revision, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rev, ok := r.revisions[id]
	if !ok {
		return nil, fmt.Errorf("revision %s: %w", id, domain.ErrNotFound)
	}
	out := rev
	return &out, nil
}

func (r *memRevisionRepo) ListByDrawing(_ context.Context, drawingID string) ([]drawings.Revision, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []drawings.Revision
	for _, id := range r.order {
		if rev := r.revisions[id]; rev.DrawingID == drawingID {
			out = append(out, rev)
		}
	}
	return out, nil
}

// memNodeRepo is a minimal in-memory node repository backing set
// validation. Only the methods the registry touches are meaningful.
type memNodeRepo struct {
	mu    sync.Mutex
	nodes map[string]hierarchy.Node
}

func newMemNodeRepo() *memNodeRepo {
	return &memNodeRepo{nodes: make(map[string]hierarchy.Node)}
}

func (r *memNodeRepo) addSet(projectID, name string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.New().String()
	r.nodes[id] = hierarchy.Node{
		ID:        id,
		ProjectID: projectID,
		Name:      name,
		Kind:      hierarchy.KindSet,
	}
	return id
}

func (r *memNodeRepo) Create(_ context.Context, node *hierarchy.Node) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if node.ID == "" {
		node.ID = uuid.New().String()
	}
	r.nodes[node.ID] = *node
	return nil
}

func (r *memNodeRepo) GetByID(_ context.Context, id, projectID string) (*hierarchy.Node, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.nodes[id]
	if !ok || n.ProjectID != projectID {
		return nil, fmt.Errorf("node %s: %w", id, domain.ErrNotFound)
	}
	out := n
	return &out, nil
}

func (r *memNodeRepo) GetByIDOnly(_ context.Context, id string) (*hierarchy.Node, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node %s: %w", id, domain.ErrNotFound)
	}
	out := n
	return &out, nil
}

func (r *memNodeRepo) Update(_ context.Context, node *hierarchy.Node) error { return nil }

func (r *memNodeRepo) Delete(_ context.Context, id, projectID string) error { return nil }

func (r *memNodeRepo) ListChildren(_ context.Context, parentID *string, projectID string) ([]hierarchy.Node, error) {
	return nil, nil
}

func (r *memNodeRepo) HasChildren(_ context.Context, id, projectID string) (bool, error) {
	return false, nil
}

func (r *memNodeRepo) GetAllByProject(_ context.Context, projectID string) ([]hierarchy.Node, error) {
	return nil, nil
}

// fakeTxManager runs the function directly and restores repo snapshots on
// error, mimicking rollback.
type fakeTxManager struct {
	drawingRepo  *memDrawingRepo
	revisionRepo *memRevisionRepo
}

func (m *fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	drawSnap := m.drawingRepo.snapshot()
	revSnap, orderSnap := m.revisionRepo.snapshot()
	if err := fn(ctx); err != nil {
		m.drawingRepo.restore(drawSnap)
		m.revisionRepo.restore(revSnap, orderSnap)
		return err
	}
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testMetrics() *metrics.Metrics {
	return metrics.New(prometheus.NewRegistry())
}

// testEnv bundles the fakes and services under test.
type testEnv struct {
	drawingRepo  *memDrawingRepo
	revisionRepo *memRevisionRepo
	nodeRepo     *memNodeRepo
	registry     *registryService
	ledger       *ledgerService
	listing      *listingService
}

func newTestEnv(t interface{ Fatalf(string, ...interface{}) }) *testEnv {
	disciplineReg, err := disciplines.NewRegistry()
	if err != nil {
		t.Fatalf("disciplines.NewRegistry: %v", err)
	}

	drawingRepo := newMemDrawingRepo()
	revisionRepo := newMemRevisionRepo()
	nodeRepo := newMemNodeRepo()
	txManager := &fakeTxManager{drawingRepo: drawingRepo, revisionRepo: revisionRepo}
	logger := testLogger()
	m := testMetrics()

	return &testEnv{
		drawingRepo:  drawingRepo,
		revisionRepo: revisionRepo,
		nodeRepo:     nodeRepo,
		registry: &registryService{
			drawingRepo:   drawingRepo,
			revisionRepo:  revisionRepo,
			nodeRepo:      nodeRepo,
			disciplineReg: disciplineReg,
			txManager:     txManager,
			metrics:       m,
			logger:        logger,
		},
		ledger: &ledgerService{
			drawingRepo:  drawingRepo,
			revisionRepo: revisionRepo,
			txManager:    txManager,
			metrics:      m,
			logger:       logger,
		},
		listing: &listingService{
			drawingRepo:  drawingRepo,
			revisionRepo: revisionRepo,
			metrics:      m,
			logger:       logger,
		},
	}
}

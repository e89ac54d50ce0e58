package hierarchy

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

	"sitedeck/internal/domain"
	"sitedeck/internal/domain/models/hierarchy"
	"sitedeck/internal/domain/repositories"
	"sitedeck/internal/metrics"
)

// memNodeRepo is an in-memory NodeRepository for service tests.
type memNodeRepo struct {
	mu    sync.Mutex
	nodes map[string]hierarchy.Node

	// Optional fault injection
	failCreate error
	failUpdate error
}

func newMemNodeRepo() *memNodeRepo {
	return &memNodeRepo{nodes: make(map[string]hierarchy.Node)}
}

func (r *memNodeRepo) snapshot() map[string]hierarchy.Node {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]hierarchy.Node, len(r.nodes))
	for id, n := range r.nodes {
		out[id] = n
	}
	return out
}

func (r *memNodeRepo) restore(snap map[string]hierarchy.Node) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nodes = snap
}

func (r *memNodeRepo) Create(_ context.Context, node *hierarchy.Node) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if node.ID == "" {
		node.ID = uuid.New().String()
	}
	node.CreatedAt = time.Now()
	node.UpdatedAt = node.CreatedAt
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

func (r *memNodeRepo) Update(_ context.Context, node *hierarchy.Node) error {
	if r.failUpdate != nil {
		return r.failUpdate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.nodes[node.ID]; !ok {
		return fmt.Errorf("node %s: %w", node.ID, domain.ErrNotFound)
	}
	node.UpdatedAt = time.Now()
	r.nodes[node.ID] = *node
	return nil
}

func (r *memNodeRepo) Delete(_ context.Context, id, projectID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.nodes[id]
	if !ok || n.ProjectID != projectID {
		return fmt.Errorf("node %s: %w", id, domain.ErrNotFound)
	}
	delete(r.nodes, id)
	return nil
}

func (r *memNodeRepo) ListChildren(_ context.Context, parentID *string, projectID string) ([]hierarchy.Node, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []hierarchy.Node
	for _, n := range r.nodes {
		if n.ProjectID != projectID {
			continue
		}
		switch {
		case parentID == nil && n.ParentID == nil:
			out = append(out, n)
		case parentID != nil && n.ParentID != nil && *n.ParentID == *parentID:
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *memNodeRepo) HasChildren(_ context.Context, id, projectID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.nodes {
		if n.ProjectID == projectID && n.ParentID != nil && *n.ParentID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *memNodeRepo) GetAllByProject(_ context.Context, projectID string) ([]hierarchy.Node, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []hierarchy.Node
	for _, n := range r.nodes {
		if n.ProjectID == projectID {
			out = append(out, n)
		}
	}
	return out, nil
}

// corruptParent rewires a node's parent directly, bypassing the service's
// validation, to simulate corrupt data.
func (r *memNodeRepo) corruptParent(id string, parentID *string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := r.nodes[id]
	n.ParentID = parentID
	r.nodes[id] = n
}

// fakeTxManager runs the function directly and restores the repo snapshot
// on error, mimicking rollback.
type fakeTxManager struct {
	repo *memNodeRepo
}

func (m *fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	snap := m.repo.snapshot()
	if err := fn(ctx); err != nil {
		m.repo.restore(snap)
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

// newTestServices wires a node service and path resolver over one in-memory
// repository.
func newTestServices(repo *memNodeRepo) (nodeSvc *nodeService, resolver *pathResolverService) {
	logger := testLogger()
	m := testMetrics()
	resolver = &pathResolverService{nodeRepo: repo, metrics: m, logger: logger}
	nodeSvc = &nodeService{
		nodeRepo:  repo,
		resolver:  resolver,
		txManager: &fakeTxManager{repo: repo},
		metrics:   m,
		logger:    logger,
	}
	return nodeSvc, resolver
}

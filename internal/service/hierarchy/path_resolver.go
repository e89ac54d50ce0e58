package hierarchy

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"sitedeck/internal/domain"
	"sitedeck/internal/domain/models/hierarchy"
	hierarchyRepo "sitedeck/internal/domain/repositories/hierarchy"
	hierarchySvc "sitedeck/internal/domain/services/hierarchy"
	"sitedeck/internal/metrics"
)

type pathResolverService struct {
	nodeRepo hierarchyRepo.NodeRepository
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewPathResolver creates a new path resolver service
func NewPathResolver(
	nodeRepo hierarchyRepo.NodeRepository,
	m *metrics.Metrics,
	logger *slog.Logger,
) hierarchySvc.PathResolver {
	return &pathResolverService{
		nodeRepo: nodeRepo,
		metrics:  m,
		logger:   logger,
	}
}

// ResolvePath returns the chain from root to the node, inclusive. The walk
// up the parent references is bounded by the project's total node count:
// exceeding it means the acyclicity invariant was violated somewhere, and
// the resolver fails with domain.ErrCorruptHierarchy instead of looping.
func (s *pathResolverService) ResolvePath(ctx context.Context, id, projectID string) ([]hierarchy.Node, error) {
	s.metrics.PathResolutions.Inc()

	all, err := s.nodeRepo.GetAllByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*hierarchy.Node, len(all))
	for i := range all {
		byID[all[i].ID] = &all[i]
	}

	start, ok := byID[id]
	if !ok {
		return nil, fmt.Errorf("node %s: %w", id, domain.ErrNotFound)
	}

	// Collect leaf-to-root, then reverse
	var chain []hierarchy.Node
	current := start
	for steps := 0; ; steps++ {
		if steps > len(all) {
			s.logger.Error("hierarchy cycle detected while resolving path",
				"node_id", id,
				"project_id", projectID,
			)
			return nil, fmt.Errorf("path of node %s: %w", id, domain.ErrCorruptHierarchy)
		}

		chain = append(chain, *current)
		if current.ParentID == nil {
			break
		}

		parent, ok := byID[*current.ParentID]
		if !ok {
			s.logger.Error("dangling parent reference",
				"node_id", current.ID,
				"parent_id", *current.ParentID,
				"project_id", projectID,
			)
			return nil, fmt.Errorf("parent of node %s: %w", current.ID, domain.ErrCorruptHierarchy)
		}
		current = parent
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}

	return chain, nil
}

// DisplayLabel renders the path as "Root > Child > Grandchild"
func (s *pathResolverService) DisplayLabel(ctx context.Context, id, projectID string) (string, error) {
	chain, err := s.ResolvePath(ctx, id, projectID)
	if err != nil {
		return "", err
	}

	names := make([]string, len(chain))
	for i, node := range chain {
		names[i] = node.Name
	}

	return strings.Join(names, hierarchy.PathSeparator), nil
}

// Flatten returns the project's forest in depth-first, sibling-ordered
// traversal: a parent immediately followed by all its descendants before
// the next sibling, siblings ordered by (sort_order, name). This is the
// shape hierarchical selectors consume.
func (s *pathResolverService) Flatten(ctx context.Context, projectID string) ([]hierarchy.FlatNode, error) {
	s.metrics.SelectorQueries.Inc()

	all, err := s.nodeRepo.GetAllByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return []hierarchy.FlatNode{}, nil
	}

	// Build the adjacency map parent -> ordered children
	children := make(map[string][]*hierarchy.Node)
	var roots []*hierarchy.Node
	for i := range all {
		node := &all[i]
		if node.ParentID == nil {
			roots = append(roots, node)
		} else {
			children[*node.ParentID] = append(children[*node.ParentID], node)
		}
	}
	sortSiblings(roots)
	for _, siblings := range children {
		sortSiblings(siblings)
	}

	flat := make([]hierarchy.FlatNode, 0, len(all))
	visited := make(map[string]bool, len(all))

	var walk func(node *hierarchy.Node, depth int, prefix string) error
	walk = func(node *hierarchy.Node, depth int, prefix string) error {
		if visited[node.ID] {
			return fmt.Errorf("node %s visited twice: %w", node.ID, domain.ErrCorruptHierarchy)
		}
		visited[node.ID] = true

		label := node.Name
		if prefix != "" {
			label = prefix + hierarchy.PathSeparator + node.Name
		}

		decorated := *node
		decorated.Path = label
		flat = append(flat, hierarchy.FlatNode{
			Node:         decorated,
			Depth:        depth,
			DisplayLabel: label,
		})

		for _, child := range children[node.ID] {
			if err := walk(child, depth+1, label); err != nil {
				return err
			}
		}
		return nil
	}

	for _, root := range roots {
		if err := walk(root, 0, ""); err != nil {
			return nil, err
		}
	}

	// Nodes not reachable from any root sit on a detached cycle or under a
	// dangling parent.
	if len(flat) != len(all) {
		s.logger.Error("unreachable nodes in hierarchy",
			"project_id", projectID,
			"total", len(all),
			"reachable", len(flat),
		)
		return nil, fmt.Errorf("project %s has unreachable nodes: %w", projectID, domain.ErrCorruptHierarchy)
	}

	return flat, nil
}

// sortSiblings orders nodes by (sort_order, name) ascending
func sortSiblings(nodes []*hierarchy.Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].SortOrder != nodes[j].SortOrder {
			return nodes[i].SortOrder < nodes[j].SortOrder
		}
		return nodes[i].Name < nodes[j].Name
	})
}

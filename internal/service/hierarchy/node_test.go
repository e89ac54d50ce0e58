package hierarchy

import (
	"context"
	"errors"
	"testing"

	"sitedeck/internal/domain"
	"sitedeck/internal/domain/models/hierarchy"
	hierarchySvc "sitedeck/internal/domain/services/hierarchy"
	"sitedeck/internal/httputil"
)

const testProject = "proj-1"

func mustCreate(t *testing.T, svc *nodeService, name string, parentID *string) *hierarchy.Node {
	t.Helper()
	node, err := svc.CreateNode(context.Background(), &hierarchySvc.CreateNodeRequest{
		ProjectID: testProject,
		Name:      name,
		ParentID:  parentID,
		Kind:      hierarchy.KindLocation,
	})
	if err != nil {
		t.Fatalf("CreateNode(%q): %v", name, err)
	}
	return node
}

func TestCreateNode(t *testing.T) {
	ctx := context.Background()

	t.Run("root node", func(t *testing.T) {
		svc, _ := newTestServices(newMemNodeRepo())

		node, err := svc.CreateNode(ctx, &hierarchySvc.CreateNodeRequest{
			ProjectID: testProject,
			Name:      "Building A",
		})
		if err != nil {
			t.Fatalf("CreateNode: %v", err)
		}
		if node.ID == "" {
			t.Error("expected generated ID")
		}
		if node.ParentID != nil {
			t.Errorf("expected nil parent, got %v", *node.ParentID)
		}
		if node.Path != "Building A" {
			t.Errorf("expected path 'Building A', got %q", node.Path)
		}
	})

	t.Run("child under parent", func(t *testing.T) {
		svc, _ := newTestServices(newMemNodeRepo())
		building := mustCreate(t, svc, "Building A", nil)

		floor, err := svc.CreateNode(ctx, &hierarchySvc.CreateNodeRequest{
			ProjectID: testProject,
			Name:      "Floor 2",
			ParentID:  &building.ID,
		})
		if err != nil {
			t.Fatalf("CreateNode: %v", err)
		}
		if floor.Path != "Building A > Floor 2" {
			t.Errorf("expected decorated path, got %q", floor.Path)
		}
	})

	t.Run("name is trimmed", func(t *testing.T) {
		svc, _ := newTestServices(newMemNodeRepo())

		node, err := svc.CreateNode(ctx, &hierarchySvc.CreateNodeRequest{
			ProjectID: testProject,
			Name:      "  Floor 1  ",
		})
		if err != nil {
			t.Fatalf("CreateNode: %v", err)
		}
		if node.Name != "Floor 1" {
			t.Errorf("expected trimmed name, got %q", node.Name)
		}
	})

	t.Run("whitespace-only name rejected", func(t *testing.T) {
		svc, _ := newTestServices(newMemNodeRepo())

		_, err := svc.CreateNode(ctx, &hierarchySvc.CreateNodeRequest{
			ProjectID: testProject,
			Name:      "   ",
		})
		if !errors.Is(err, domain.ErrEmptyName) {
			t.Errorf("expected ErrEmptyName, got %v", err)
		}
	})

	t.Run("missing parent rejected", func(t *testing.T) {
		svc, _ := newTestServices(newMemNodeRepo())
		ghost := "no-such-node"

		_, err := svc.CreateNode(ctx, &hierarchySvc.CreateNodeRequest{
			ProjectID: testProject,
			Name:      "Floor 1",
			ParentID:  &ghost,
		})
		if !errors.Is(err, domain.ErrInvalidParent) {
			t.Errorf("expected ErrInvalidParent, got %v", err)
		}
	})

	t.Run("parent in another project rejected", func(t *testing.T) {
		repo := newMemNodeRepo()
		svc, _ := newTestServices(repo)

		other := &hierarchy.Node{ProjectID: "other-project", Name: "Their Building"}
		if err := repo.Create(ctx, other); err != nil {
			t.Fatal(err)
		}

		_, err := svc.CreateNode(ctx, &hierarchySvc.CreateNodeRequest{
			ProjectID: testProject,
			Name:      "Floor 1",
			ParentID:  &other.ID,
		})
		if !errors.Is(err, domain.ErrCrossOwner) {
			t.Errorf("expected ErrCrossOwner, got %v", err)
		}
	})
}

func TestUpdateNode_Reparent(t *testing.T) {
	ctx := context.Background()

	present := func(id *string) httputil.OptionalString {
		return httputil.OptionalString{Present: true, Value: id}
	}

	t.Run("move under sibling", func(t *testing.T) {
		svc, _ := newTestServices(newMemNodeRepo())
		a := mustCreate(t, svc, "Building A", nil)
		b := mustCreate(t, svc, "Building B", nil)

		updated, err := svc.UpdateNode(ctx, b.ID, &hierarchySvc.UpdateNodeRequest{
			ProjectID: testProject,
			ParentID:  present(&a.ID),
		})
		if err != nil {
			t.Fatalf("UpdateNode: %v", err)
		}
		if updated.ParentID == nil || *updated.ParentID != a.ID {
			t.Errorf("expected parent %s, got %v", a.ID, updated.ParentID)
		}
		if updated.Path != "Building A > Building B" {
			t.Errorf("expected updated path, got %q", updated.Path)
		}
	})

	t.Run("null moves to root", func(t *testing.T) {
		svc, _ := newTestServices(newMemNodeRepo())
		a := mustCreate(t, svc, "Building A", nil)
		floor := mustCreate(t, svc, "Floor 2", &a.ID)

		updated, err := svc.UpdateNode(ctx, floor.ID, &hierarchySvc.UpdateNodeRequest{
			ProjectID: testProject,
			ParentID:  present(nil),
		})
		if err != nil {
			t.Fatalf("UpdateNode: %v", err)
		}
		if updated.ParentID != nil {
			t.Errorf("expected root node, got parent %v", *updated.ParentID)
		}
	})

	t.Run("absent parent field keeps parent", func(t *testing.T) {
		svc, _ := newTestServices(newMemNodeRepo())
		a := mustCreate(t, svc, "Building A", nil)
		floor := mustCreate(t, svc, "Floor 2", &a.ID)

		name := "Level 2"
		updated, err := svc.UpdateNode(ctx, floor.ID, &hierarchySvc.UpdateNodeRequest{
			ProjectID: testProject,
			Name:      &name,
		})
		if err != nil {
			t.Fatalf("UpdateNode: %v", err)
		}
		if updated.ParentID == nil || *updated.ParentID != a.ID {
			t.Error("rename must not touch the parent")
		}
		if updated.Name != "Level 2" {
			t.Errorf("expected renamed node, got %q", updated.Name)
		}
	})

	t.Run("self-parent rejected", func(t *testing.T) {
		svc, _ := newTestServices(newMemNodeRepo())
		a := mustCreate(t, svc, "Building A", nil)

		_, err := svc.UpdateNode(ctx, a.ID, &hierarchySvc.UpdateNodeRequest{
			ProjectID: testProject,
			ParentID:  present(&a.ID),
		})
		if !errors.Is(err, domain.ErrCycle) {
			t.Errorf("expected ErrCycle, got %v", err)
		}
	})

	t.Run("descendant parent rejected", func(t *testing.T) {
		svc, _ := newTestServices(newMemNodeRepo())
		a := mustCreate(t, svc, "Building A", nil)
		floor := mustCreate(t, svc, "Floor 2", &a.ID)
		room := mustCreate(t, svc, "Room 201", &floor.ID)

		// Moving the building under its grandchild would close a loop
		_, err := svc.UpdateNode(ctx, a.ID, &hierarchySvc.UpdateNodeRequest{
			ProjectID: testProject,
			ParentID:  present(&room.ID),
		})
		if !errors.Is(err, domain.ErrCycle) {
			t.Errorf("expected ErrCycle, got %v", err)
		}

		// The failed move must leave the tree untouched
		got, err := svc.GetNode(ctx, a.ID, testProject)
		if err != nil {
			t.Fatal(err)
		}
		if got.ParentID != nil {
			t.Error("rejected reparent must not modify the node")
		}
	})

	t.Run("empty rename rejected", func(t *testing.T) {
		svc, _ := newTestServices(newMemNodeRepo())
		a := mustCreate(t, svc, "Building A", nil)

		empty := "   "
		_, err := svc.UpdateNode(ctx, a.ID, &hierarchySvc.UpdateNodeRequest{
			ProjectID: testProject,
			Name:      &empty,
		})
		if !errors.Is(err, domain.ErrEmptyName) {
			t.Errorf("expected ErrEmptyName, got %v", err)
		}

		got, err := svc.GetNode(ctx, a.ID, testProject)
		if err != nil {
			t.Fatal(err)
		}
		if got.Name != "Building A" {
			t.Errorf("rejected rename must keep the name, got %q", got.Name)
		}
	})

	t.Run("no fields rejected", func(t *testing.T) {
		svc, _ := newTestServices(newMemNodeRepo())
		a := mustCreate(t, svc, "Building A", nil)

		_, err := svc.UpdateNode(ctx, a.ID, &hierarchySvc.UpdateNodeRequest{
			ProjectID: testProject,
		})
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})
}

func TestDeleteNode(t *testing.T) {
	ctx := context.Background()

	t.Run("leaf deleted", func(t *testing.T) {
		svc, _ := newTestServices(newMemNodeRepo())
		a := mustCreate(t, svc, "Building A", nil)
		floor := mustCreate(t, svc, "Floor 2", &a.ID)

		if err := svc.DeleteNode(ctx, floor.ID, testProject); err != nil {
			t.Fatalf("DeleteNode: %v", err)
		}
		if _, err := svc.GetNode(ctx, floor.ID, testProject); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
	})

	t.Run("node with children rejected", func(t *testing.T) {
		svc, _ := newTestServices(newMemNodeRepo())
		a := mustCreate(t, svc, "Building A", nil)
		floor := mustCreate(t, svc, "Floor 2", &a.ID)

		err := svc.DeleteNode(ctx, a.ID, testProject)
		if !errors.Is(err, domain.ErrHasChildren) {
			t.Errorf("expected ErrHasChildren, got %v", err)
		}

		// Neither the parent nor the child may be gone
		if _, err := svc.GetNode(ctx, a.ID, testProject); err != nil {
			t.Errorf("parent must survive rejected delete: %v", err)
		}
		if _, err := svc.GetNode(ctx, floor.ID, testProject); err != nil {
			t.Errorf("child must survive rejected delete: %v", err)
		}
	})

	t.Run("missing node", func(t *testing.T) {
		svc, _ := newTestServices(newMemNodeRepo())

		err := svc.DeleteNode(ctx, "no-such-node", testProject)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestListChildren(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestServices(newMemNodeRepo())

	a := mustCreate(t, svc, "Building A", nil)
	mustCreate(t, svc, "Building B", nil)

	// Children with explicit sort orders, plus a name tiebreak
	two := 2
	one := 1
	if _, err := svc.CreateNode(ctx, &hierarchySvc.CreateNodeRequest{
		ProjectID: testProject, Name: "Floor 2", ParentID: &a.ID, SortOrder: &two,
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateNode(ctx, &hierarchySvc.CreateNodeRequest{
		ProjectID: testProject, Name: "Floor 1", ParentID: &a.ID, SortOrder: &one,
	}); err != nil {
		t.Fatal(err)
	}

	t.Run("roots when parent absent", func(t *testing.T) {
		roots, err := svc.ListChildren(ctx, nil, testProject)
		if err != nil {
			t.Fatalf("ListChildren: %v", err)
		}
		if len(roots) != 2 {
			t.Fatalf("expected 2 roots, got %d", len(roots))
		}
		if roots[0].Name != "Building A" || roots[1].Name != "Building B" {
			t.Errorf("unexpected root order: %s, %s", roots[0].Name, roots[1].Name)
		}
	})

	t.Run("children ordered by sort_order", func(t *testing.T) {
		kids, err := svc.ListChildren(ctx, &a.ID, testProject)
		if err != nil {
			t.Fatalf("ListChildren: %v", err)
		}
		if len(kids) != 2 {
			t.Fatalf("expected 2 children, got %d", len(kids))
		}
		if kids[0].Name != "Floor 1" || kids[1].Name != "Floor 2" {
			t.Errorf("unexpected child order: %s, %s", kids[0].Name, kids[1].Name)
		}
	})

	t.Run("missing parent rejected", func(t *testing.T) {
		ghost := "no-such-node"
		_, err := svc.ListChildren(ctx, &ghost, testProject)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

package family

import (
	"encoding/json"
	"testing"

	"github.com/hartono/familytree/internal/models"
)

func TestBuildTreeRootCouplesWithSharedChild(t *testing.T) {
	// A and B are roots married to each other; C is the child of both.
	members := []models.Member{
		{ID: 1, Name: "A", Gender: models.GenderMale, SpouseID: ptrUint(2)},
		{ID: 2, Name: "B", Gender: models.GenderFemale, SpouseID: ptrUint(1)},
		{ID: 3, Name: "C", FatherID: ptrUint(1), MotherID: ptrUint(2), BirthDate: ptrString("2010-01-01")},
	}

	tree := BuildTree(members)

	if len(tree.Roots) != 2 {
		t.Fatalf("got %d roots, want 2", len(tree.Roots))
	}
	for _, root := range tree.Roots {
		if len(root.Children) != 1 || root.Children[0].ID != 3 {
			t.Errorf("root %s: children = %v, want exactly C", root.Name, root.Children)
		}
	}

	var c *TreeNode
	for _, n := range tree.Members {
		if n.ID == 3 {
			c = n
		}
	}
	if c == nil {
		t.Fatal("C missing from members")
	}
	if c.ChildOrder == nil || *c.ChildOrder != 1 {
		t.Errorf("C child_order = %v, want 1", c.ChildOrder)
	}
}

func TestBuildTreeChildNotDuplicatedUnderOneParent(t *testing.T) {
	members := []models.Member{
		{ID: 1, Name: "P"},
		{ID: 2, Name: "Q", FatherID: ptrUint(1), MotherID: ptrUint(1)},
	}

	tree := BuildTree(members)
	if len(tree.Roots) != 1 {
		t.Fatalf("got %d roots, want 1", len(tree.Roots))
	}
	if len(tree.Roots[0].Children) != 1 {
		t.Errorf("child attached %d times under one parent, want once", len(tree.Roots[0].Children))
	}
}

func TestBuildTreeRootsNeverAppearAsChildren(t *testing.T) {
	members := []models.Member{
		{ID: 1, Name: "A"},
		{ID: 2, Name: "B"},
		{ID: 3, Name: "C", FatherID: ptrUint(1)},
	}

	tree := BuildTree(members)
	for _, n := range tree.Members {
		for _, child := range n.Children {
			if child.ID == 1 || child.ID == 2 {
				t.Errorf("root %d appeared in children of %d", child.ID, n.ID)
			}
		}
	}
}

func TestBuildTreeSortsChildren(t *testing.T) {
	father := ptrUint(1)
	members := []models.Member{
		{ID: 1, Name: "P"},
		{ID: 4, Name: "late", FatherID: father, BirthDate: ptrString("2012-01-01")},
		{ID: 3, Name: "first", FatherID: father, ChildOrder: ptrInt(1)},
		{ID: 5, Name: "early", FatherID: father, BirthDate: ptrString("2005-01-01")},
	}

	tree := BuildTree(members)
	children := tree.Roots[0].Children
	wantOrder := []uint{3, 5, 4}
	if len(children) != len(wantOrder) {
		t.Fatalf("got %d children, want %d", len(children), len(wantOrder))
	}
	for i, id := range wantOrder {
		if children[i].ID != id {
			t.Errorf("child position %d: got %d, want %d", i, children[i].ID, id)
		}
	}
}

func TestBuildTreeParentOutsideSetMakesNoAttachment(t *testing.T) {
	// Father id points at a member not in the assembled set; the child is
	// still not a root.
	members := []models.Member{
		{ID: 2, Name: "Q", FatherID: ptrUint(99)},
	}

	tree := BuildTree(members)
	if len(tree.Roots) != 0 {
		t.Errorf("got %d roots, want 0", len(tree.Roots))
	}
	if len(tree.Members) != 1 {
		t.Errorf("got %d members, want 1", len(tree.Members))
	}
}

func TestBuildTreeSerializesWithoutCycles(t *testing.T) {
	members := []models.Member{
		{ID: 1, Name: "A", Gender: models.GenderMale, SpouseID: ptrUint(2)},
		{ID: 2, Name: "B", Gender: models.GenderFemale, SpouseID: ptrUint(1)},
		{ID: 3, Name: "C", FatherID: ptrUint(1), MotherID: ptrUint(2)},
		{ID: 4, Name: "D", FatherID: ptrUint(3)},
	}

	tree := BuildTree(members)
	if _, err := json.Marshal(tree); err != nil {
		t.Fatalf("tree failed to serialize: %v", err)
	}
}

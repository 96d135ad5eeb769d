package family

import (
	"sort"

	"github.com/hartono/familytree/internal/models"
)

// TreeNode is a member plus its sorted children. Nodes are plain values with
// downward links only, so serialization never meets a reference cycle. The
// embedded member's ChildOrder carries the projected rank, not the stored one.
type TreeNode struct {
	models.Member
	Children []*TreeNode `json:"children"`
}

// Tree is the assembled forest for one family.
type Tree struct {
	Roots   []*TreeNode `json:"roots"`
	Members []*TreeNode `json:"members"`
}

// BuildTree assembles the forest from the full member set: members with
// neither parent are roots; every other member is attached under both its
// father and its mother when those nodes are present. A member may appear
// under two different parents; within a single parent's child list it appears
// once. Children are sorted by projected order, then birth date, then id.
func BuildTree(members []models.Member) *Tree {
	orders := ComputeChildOrder(members)

	nodes := make(map[uint]*TreeNode, len(members))
	all := make([]*TreeNode, 0, len(members))
	for _, m := range members {
		n := &TreeNode{Member: m, Children: []*TreeNode{}}
		if rank, ok := orders[m.ID]; ok {
			r := rank
			n.ChildOrder = &r
		} else {
			n.ChildOrder = nil
		}
		nodes[m.ID] = n
		all = append(all, n)
	}

	var roots []*TreeNode
	seenRoot := make(map[uint]bool)
	for _, m := range members {
		node := nodes[m.ID]

		if m.FatherID != nil {
			if father, ok := nodes[*m.FatherID]; ok {
				attachChild(father, node)
			}
		}
		if m.MotherID != nil {
			if mother, ok := nodes[*m.MotherID]; ok {
				attachChild(mother, node)
			}
		}

		if m.IsRoot() && !seenRoot[m.ID] {
			seenRoot[m.ID] = true
			roots = append(roots, node)
		}
	}

	// Shared nodes appear in two parents' lists; sorting over the flat node
	// set sorts each child list exactly once.
	for _, n := range all {
		sortChildren(n.Children)
	}

	return &Tree{Roots: roots, Members: all}
}

func attachChild(parent, child *TreeNode) {
	for _, c := range parent.Children {
		if c.ID == child.ID {
			return
		}
	}
	parent.Children = append(parent.Children, child)
}

func sortChildren(children []*TreeNode) {
	sort.SliceStable(children, func(i, j int) bool {
		return siblingLess(&children[i].Member, &children[j].Member)
	})
}

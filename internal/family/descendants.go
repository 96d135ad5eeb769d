package family

import "github.com/hartono/familytree/internal/models"

// CollectDescendants gathers every descendant of rootID in breadth-first
// discovery order. The order matters: cloning processes the result
// sequentially and a parent's new id must be in the remap table before any
// child referencing it is cloned. The visited set keeps malformed data with
// parent cycles from looping.
func CollectDescendants(rootID uint, members []models.Member) []models.Member {
	byFather := make(map[uint][]*models.Member)
	byMother := make(map[uint][]*models.Member)
	for i := range members {
		m := &members[i]
		if m.FatherID != nil {
			byFather[*m.FatherID] = append(byFather[*m.FatherID], m)
		}
		if m.MotherID != nil {
			byMother[*m.MotherID] = append(byMother[*m.MotherID], m)
		}
	}

	var descendants []models.Member
	queue := []uint{rootID}
	visited := map[uint]bool{rootID: true}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		children := append(append([]*models.Member{}, byFather[current]...), byMother[current]...)
		for _, child := range children {
			if visited[child.ID] {
				continue
			}
			visited[child.ID] = true
			descendants = append(descendants, *child)
			queue = append(queue, child.ID)
		}
	}

	return descendants
}

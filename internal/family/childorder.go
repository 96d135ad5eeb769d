package family

import (
	"sort"

	"github.com/hartono/familytree/internal/models"
)

// parentKey identifies a full sibling group: the exact (father_id, mother_id)
// pair. Zero means the slot is unset; real ids start at 1.
type parentKey struct {
	Father uint
	Mother uint
}

func keyOf(m *models.Member) parentKey {
	var k parentKey
	if m.FatherID != nil {
		k.Father = *m.FatherID
	}
	if m.MotherID != nil {
		k.Mother = *m.MotherID
	}
	return k
}

// siblingLess orders members within a sibling group: stored child_order
// ascending (missing last), then birth date ascending (missing last), then id.
func siblingLess(a, b *models.Member) bool {
	ao, bo := orderOrMax(a.ChildOrder), orderOrMax(b.ChildOrder)
	if ao != bo {
		return ao < bo
	}
	ad, bd := dateOrMax(a.BirthDate), dateOrMax(b.BirthDate)
	if ad != bd {
		return ad < bd
	}
	return a.ID < b.ID
}

func orderOrMax(o *int) int {
	if o == nil {
		return int(^uint(0) >> 1)
	}
	return *o
}

// dateOrMax maps a missing birth date after every real one. ISO date strings
// compare correctly as plain strings.
func dateOrMax(d *string) string {
	if d == nil || *d == "" {
		return "￿"
	}
	return *d
}

// ComputeChildOrder derives the sibling rank for every member that has at
// least one parent. Members with an explicit stored child_order keep that
// value verbatim; only the gaps receive the 1-based position from the sorted
// group. Ranks are a read-time projection and are never persisted.
func ComputeChildOrder(members []models.Member) map[uint]int {
	orders := make(map[uint]int)
	groups := make(map[parentKey][]*models.Member)

	for i := range members {
		m := &members[i]
		if m.IsRoot() {
			continue
		}
		k := keyOf(m)
		groups[k] = append(groups[k], m)
	}

	for _, group := range groups {
		sort.SliceStable(group, func(i, j int) bool {
			return siblingLess(group[i], group[j])
		})
		for idx, m := range group {
			if m.ChildOrder != nil {
				orders[m.ID] = *m.ChildOrder
			} else {
				orders[m.ID] = idx + 1
			}
		}
	}

	return orders
}

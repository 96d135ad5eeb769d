package family

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hartono/familytree/internal/models"
)

// ListMembers returns the family's members newest first, with the child-order
// projection applied over the full list.
func (e *Engine) ListMembers(ctx context.Context, familyID uint) ([]models.Member, error) {
	var members []models.Member
	if err := e.db.WithContext(ctx).
		Where("family_id = ?", familyID).
		Order("created_at DESC").
		Find(&members).Error; err != nil {
		return nil, err
	}

	orders := ComputeChildOrder(members)
	for i := range members {
		if rank, ok := orders[members[i].ID]; ok {
			r := rank
			members[i].ChildOrder = &r
		} else {
			members[i].ChildOrder = nil
		}
	}
	return members, nil
}

// GetMember returns one member scoped to the family.
func (e *Engine) GetMember(ctx context.Context, familyID, memberID uint) (*models.Member, error) {
	var member models.Member
	if err := e.db.WithContext(ctx).
		Where("id = ? AND family_id = ?", memberID, familyID).
		First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &member, nil
}

// AssembleTree builds the family forest. Cross-family spouses and any
// children hanging off them are pulled in so the rendered tree is
// structurally complete without the viewer belonging to the spouse's family;
// those extra rows are presented under the viewing family's id.
func (e *Engine) AssembleTree(ctx context.Context, familyID uint) (*Tree, error) {
	db := e.db.WithContext(ctx)

	var members []models.Member
	if err := db.
		Where("family_id = ?", familyID).
		Order("birth_date ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}

	memberIDs := make([]uint, 0, len(members))
	var spouseIDs []uint
	for _, m := range members {
		memberIDs = append(memberIDs, m.ID)
		if m.SpouseID != nil {
			spouseIDs = append(spouseIDs, *m.SpouseID)
		}
	}

	all := members
	if len(spouseIDs) > 0 {
		var externalSpouses []models.Member
		if err := db.
			Where("id IN ? AND family_id <> ?", spouseIDs, familyID).
			Find(&externalSpouses).Error; err != nil {
			return nil, err
		}

		parentIDs := append(append([]uint{}, memberIDs...), spouseIDs...)
		var relatedChildren []models.Member
		if err := db.
			Where("father_id IN ? OR mother_id IN ?", parentIDs, parentIDs).
			Find(&relatedChildren).Error; err != nil {
			return nil, err
		}

		seen := make(map[uint]bool, len(all))
		for _, m := range all {
			seen[m.ID] = true
		}
		for _, m := range append(externalSpouses, relatedChildren...) {
			if seen[m.ID] {
				continue
			}
			seen[m.ID] = true
			m.FamilyID = familyID
			all = append(all, m)
		}
	}

	return BuildTree(all), nil
}

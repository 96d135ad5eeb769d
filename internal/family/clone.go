package family

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/hartono/familytree/internal/models"
)

// cloneOrigin records where a clone came from. A nil origin means the source
// row already belongs to the target family and no provenance is written.
type cloneOrigin struct {
	FamilyID uint
	MemberID uint
}

// cloneIntoFamily copies one member into the target family as a new row with
// a fresh globally unique member code. Parent and spouse slots are set to
// exactly what the caller passes; clones are spousal imports and never
// inherit blood relations implicitly.
func cloneIntoFamily(tx *gorm.DB, source *models.Member, targetFamilyID uint, fatherID, motherID, spouseID *uint, origin *cloneOrigin) (*models.Member, error) {
	code, err := generateMemberCode(tx)
	if err != nil {
		return nil, fmt.Errorf("generate member code: %w", err)
	}

	clone := models.Member{
		FamilyID:   targetFamilyID,
		MemberCode: code,
		Name:       source.Name,
		Gender:     source.Gender,
		BirthDate:  source.BirthDate,
		DeathDate:  source.DeathDate,
		FatherID:   fatherID,
		MotherID:   motherID,
		SpouseID:   spouseID,
		ChildOrder: source.ChildOrder,
		Phone:      source.Phone,
		Address:    source.Address,
		Email:      source.Email,
		PhotoURL:   source.PhotoURL,
		Notes:      source.Notes,
	}
	if origin != nil {
		famID, memID := origin.FamilyID, origin.MemberID
		clone.ClonedFromFamilyID = &famID
		clone.ClonedFromMemberID = &memID
	}

	if err := tx.Create(&clone).Error; err != nil {
		return nil, fmt.Errorf("insert clone of member %d: %w", source.ID, err)
	}
	return &clone, nil
}

// cloneSpouseLine copies every descendant of the cloned spouse into the
// adopter's family, remapping parent ids through an old-id to new-id table
// filled as rows are cloned. BFS order from CollectDescendants guarantees a
// parent's new id exists before any of its children are processed.
//
// A descendant whose original parent was the spouse itself is adopted: the
// parent slot matching the adopter's gender is pointed at the adopter when
// the remap left it empty. Descendants already belonging to the target
// family are still copied as new rows, without provenance.
func cloneSpouseLine(tx *gorm.DB, spouse *models.Member, spouseCloneID uint, adopter *models.Member) error {
	var sourceMembers []models.Member
	if err := tx.Where("family_id = ?", spouse.FamilyID).Find(&sourceMembers).Error; err != nil {
		return fmt.Errorf("load source family %d: %w", spouse.FamilyID, err)
	}

	descendants := CollectDescendants(spouse.ID, sourceMembers)
	idMap := map[uint]uint{spouse.ID: spouseCloneID}

	for i := range descendants {
		member := &descendants[i]

		fatherID := remap(idMap, member.FatherID)
		motherID := remap(idMap, member.MotherID)

		if parentIs(member, spouse.ID) {
			if adopter.Gender == models.GenderMale {
				if fatherID == nil {
					fatherID = &adopter.ID
				}
			} else {
				if motherID == nil {
					motherID = &adopter.ID
				}
			}
		}

		var origin *cloneOrigin
		if member.FamilyID != adopter.FamilyID {
			origin = &cloneOrigin{FamilyID: member.FamilyID, MemberID: member.ID}
		}

		clone, err := cloneIntoFamily(tx, member, adopter.FamilyID, fatherID, motherID, nil, origin)
		if err != nil {
			return err
		}
		idMap[member.ID] = clone.ID
	}

	return nil
}

func remap(idMap map[uint]uint, id *uint) *uint {
	if id == nil {
		return nil
	}
	if mapped, ok := idMap[*id]; ok {
		m := mapped
		return &m
	}
	return nil
}

func parentIs(m *models.Member, id uint) bool {
	return (m.FatherID != nil && *m.FatherID == id) || (m.MotherID != nil && *m.MotherID == id)
}

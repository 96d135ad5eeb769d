// Package family owns mutation of the member graph: member CRUD, cross-family
// spouse linking with subtree cloning, bidirectional spouse maintenance,
// child-order projection, descendant traversal and tree assembly.
package family

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/hartono/familytree/internal/audit"
	"github.com/hartono/familytree/internal/calendar"
	"github.com/hartono/familytree/internal/models"
	"github.com/hartono/familytree/internal/repository"
)

// Engine applies member mutations. Every top-level mutation runs in a single
// transaction; the audit trail and birthday synchronization run after commit
// and are best-effort.
type Engine struct {
	db       *gorm.DB
	audit    *audit.Recorder
	calendar *calendar.Syncer
}

func NewEngine(db *gorm.DB, recorder *audit.Recorder, syncer *calendar.Syncer) *Engine {
	return &Engine{db: db, audit: recorder, calendar: syncer}
}

// MemberInput carries the full member payload for create and update. Updates
// are full replacements: an absent optional field clears the stored value.
// SpouseID and SpouseCode are mutually exclusive; SpouseID wins when both are
// present.
type MemberInput struct {
	Name       string        `json:"name"`
	Gender     models.Gender `json:"gender"`
	BirthDate  *string       `json:"birth_date"`
	DeathDate  *string       `json:"death_date"`
	FatherID   *uint         `json:"father_id"`
	MotherID   *uint         `json:"mother_id"`
	SpouseID   *uint         `json:"spouse_id"`
	SpouseCode string        `json:"spouse_code"`
	ChildOrder *int          `json:"child_order"`
	Phone      *string       `json:"phone"`
	Address    *string       `json:"address"`
	Email      *string       `json:"email"`
	PhotoURL   *string       `json:"photo_url"`
	Notes      *string       `json:"notes"`
}

var datePartRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// normalizeDate trims an ISO timestamp down to its date part. Values that do
// not carry a YYYY-MM-DD prefix are dropped.
func normalizeDate(value *string) *string {
	if value == nil {
		return nil
	}
	s := *value
	if i := strings.IndexAny(s, "T "); i >= 0 {
		s = s[:i]
	}
	if !datePartRe.MatchString(s) {
		return nil
	}
	return &s
}

func (in *MemberInput) validate() error {
	if in.Name == "" || (in.Gender != models.GenderMale && in.Gender != models.GenderFemale) {
		return ErrNameGenderRequired
	}
	return nil
}

// spouseResolution is the outcome of resolving SpouseID/SpouseCode. Clone and
// Source are set only when a cross-family spouse was materialized; the
// descendant propagation and back-link steps key off them.
type spouseResolution struct {
	FinalID *uint
	Clone   *models.Member
	Source  *models.Member
}

// resolveSpouse implements the spouse contract: a direct spouse_id is taken
// as-is (spouse_code ignored outright); a spouse_code resolving into the same
// family links directly; a spouse_code resolving into another family clones
// that member into familyID.
func resolveSpouse(tx *gorm.DB, familyID uint, in MemberInput) (spouseResolution, error) {
	if in.SpouseID != nil {
		return spouseResolution{FinalID: in.SpouseID}, nil
	}
	if in.SpouseCode == "" {
		return spouseResolution{}, nil
	}

	source, err := MemberByCode(tx, in.SpouseCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return spouseResolution{}, ErrSpouseCodeNotFound
		}
		return spouseResolution{}, err
	}

	if source.FamilyID == familyID {
		id := source.ID
		return spouseResolution{FinalID: &id}, nil
	}

	clone, err := cloneIntoFamily(tx, source, familyID, nil, nil, nil,
		&cloneOrigin{FamilyID: source.FamilyID, MemberID: source.ID})
	if err != nil {
		return spouseResolution{}, err
	}
	id := clone.ID
	return spouseResolution{FinalID: &id, Clone: clone, Source: source}, nil
}

// validateParents enforces that father and mother, when set, belong to the
// member's own family. Spouses may live elsewhere; parents may not.
func validateParents(tx *gorm.DB, familyID uint, fatherID, motherID *uint) error {
	var ids []uint
	if fatherID != nil {
		ids = append(ids, *fatherID)
	}
	if motherID != nil {
		ids = append(ids, *motherID)
	}
	if len(ids) == 0 {
		return nil
	}

	var count int64
	if err := tx.Model(&models.Member{}).
		Where("id IN ? AND family_id = ?", ids, familyID).
		Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return ErrParentsNotInFamily
	}
	return nil
}

// CreateMember creates a member inside the actor's family, resolving the
// spouse reference (cloning a cross-family spouse and their descendant line
// when needed) and maintaining the reverse spouse pointer within the family.
func (e *Engine) CreateMember(ctx context.Context, familyID uint, actorID *uint, in MemberInput) (*models.Member, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var created models.Member
	err := repository.WithTransaction(e.db.WithContext(ctx), func(tx *gorm.DB) error {
		res, err := resolveSpouse(tx, familyID, in)
		if err != nil {
			return err
		}
		if err := validateParents(tx, familyID, in.FatherID, in.MotherID); err != nil {
			return err
		}

		code, err := generateMemberCode(tx)
		if err != nil {
			return err
		}

		member := models.Member{
			FamilyID:   familyID,
			MemberCode: code,
			Name:       in.Name,
			Gender:     in.Gender,
			BirthDate:  normalizeDate(in.BirthDate),
			DeathDate:  normalizeDate(in.DeathDate),
			FatherID:   in.FatherID,
			MotherID:   in.MotherID,
			SpouseID:   res.FinalID,
			ChildOrder: in.ChildOrder,
			Phone:      in.Phone,
			Address:    in.Address,
			Email:      in.Email,
			PhotoURL:   in.PhotoURL,
			Notes:      in.Notes,
		}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}

		if res.Clone != nil {
			if err := tx.Model(&models.Member{}).
				Where("id = ?", res.Clone.ID).
				Update("spouse_id", member.ID).Error; err != nil {
				return err
			}
			if err := cloneSpouseLine(tx, res.Source, res.Clone.ID, &member); err != nil {
				return err
			}
		} else if res.FinalID != nil {
			if err := linkReverseSpouse(tx, familyID, *res.FinalID, member.ID); err != nil {
				return err
			}
		}

		return tx.First(&created, member.ID).Error
	})
	if err != nil {
		return nil, err
	}

	e.audit.MemberChange(audit.Entry{
		MemberID:  created.ID,
		Action:    models.AuditCreate,
		ChangedBy: actorID,
		NewValues: audit.Snapshot(&created),
	})
	if created.BirthDate != nil {
		e.calendar.SyncMemberBirthdays(familyID, created.ID, created.Name, created.BirthDate, actorID, "")
	}

	return &created, nil
}

// UpdateMember replaces a member's fields and reconciles the spouse graph:
// cross-family codes clone, removed links unlink (deleting a cloned partner),
// changed links detach the previous spouse, and same-family links stay
// bidirectional. Birthday events follow name and birth-date changes.
func (e *Engine) UpdateMember(ctx context.Context, familyID uint, actorID *uint, memberID uint, in MemberInput) (*models.Member, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var old models.Member
	if err := e.db.WithContext(ctx).
		Where("id = ? AND family_id = ?", memberID, familyID).
		First(&old).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	oldSnapshot := audit.Snapshot(&old)
	oldSpouseID := old.SpouseID

	var updated models.Member
	err := repository.WithTransaction(e.db.WithContext(ctx), func(tx *gorm.DB) error {
		res, err := resolveSpouse(tx, familyID, in)
		if err != nil {
			return err
		}
		if err := validateParents(tx, familyID, in.FatherID, in.MotherID); err != nil {
			return err
		}

		member := old
		member.Name = in.Name
		member.Gender = in.Gender
		member.BirthDate = normalizeDate(in.BirthDate)
		member.DeathDate = normalizeDate(in.DeathDate)
		member.FatherID = in.FatherID
		member.MotherID = in.MotherID
		member.SpouseID = res.FinalID
		member.ChildOrder = in.ChildOrder
		member.Phone = in.Phone
		member.Address = in.Address
		member.Email = in.Email
		member.PhotoURL = in.PhotoURL
		member.Notes = in.Notes
		if err := tx.Save(&member).Error; err != nil {
			return err
		}

		if res.Clone != nil {
			if err := tx.Model(&models.Member{}).
				Where("id = ?", res.Clone.ID).
				Update("spouse_id", member.ID).Error; err != nil {
				return err
			}
			if err := cloneSpouseLine(tx, res.Source, res.Clone.ID, &member); err != nil {
				return err
			}
		}

		if oldSpouseID != nil && res.FinalID == nil {
			if err := unlinkOldSpouse(tx, familyID, *oldSpouseID, member.ID); err != nil {
				return err
			}
		}
		if oldSpouseID != nil && res.FinalID != nil && *oldSpouseID != *res.FinalID {
			if err := detachReverseSpouse(tx, *oldSpouseID, member.ID); err != nil {
				return err
			}
		}
		if res.FinalID != nil && res.Clone == nil {
			if err := linkReverseSpouse(tx, familyID, *res.FinalID, member.ID); err != nil {
				return err
			}
		}

		return tx.First(&updated, member.ID).Error
	})
	if err != nil {
		return nil, err
	}

	newSnapshot := audit.Snapshot(&updated)
	if changed := audit.ChangedFields(oldSnapshot, newSnapshot); len(changed) > 0 {
		oldValues := make(map[string]any, len(changed))
		newValues := make(map[string]any, len(changed))
		for _, f := range changed {
			oldValues[f] = oldSnapshot[f]
			newValues[f] = newSnapshot[f]
		}
		e.audit.MemberChange(audit.Entry{
			MemberID:      updated.ID,
			Action:        models.AuditUpdate,
			ChangedBy:     actorID,
			ChangedFields: changed,
			OldValues:     oldValues,
			NewValues:     newValues,
		})
	}

	// System-generated events, so no creator attribution.
	e.calendar.SyncMemberBirthdays(familyID, updated.ID, updated.Name, updated.BirthDate, nil, old.Name)

	return &updated, nil
}

// DeleteMember removes a member after recording the audit entry. Reverse
// spouse pointers inside the family are nulled, and children referencing the
// deleted member as father or mother are orphaned at that slot rather than
// left dangling.
func (e *Engine) DeleteMember(ctx context.Context, familyID uint, actorID *uint, memberID uint) error {
	var member models.Member
	if err := e.db.WithContext(ctx).
		Where("id = ? AND family_id = ?", memberID, familyID).
		First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	e.audit.MemberChange(audit.Entry{
		MemberID:  member.ID,
		Action:    models.AuditDelete,
		ChangedBy: actorID,
		OldValues: audit.Snapshot(&member),
	})

	return repository.WithTransaction(e.db.WithContext(ctx), func(tx *gorm.DB) error {
		if err := tx.Model(&models.Member{}).
			Where("spouse_id = ? AND family_id = ?", member.ID, familyID).
			Update("spouse_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Member{}).
			Where("father_id = ?", member.ID).
			Update("father_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Member{}).
			Where("mother_id = ?", member.ID).
			Update("mother_id", nil).Error; err != nil {
			return err
		}
		return tx.Where("id = ? AND family_id = ?", member.ID, familyID).
			Delete(&models.Member{}).Error
	})
}

// linkReverseSpouse sets the spouse's back-pointer, but only when the spouse
// lives in the same family. Cross-family records are never mutated.
func linkReverseSpouse(tx *gorm.DB, familyID, spouseID, memberID uint) error {
	var spouse models.Member
	if err := tx.First(&spouse, spouseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if spouse.FamilyID != familyID {
		return nil
	}
	return tx.Model(&models.Member{}).
		Where("id = ?", spouseID).
		Update("spouse_id", memberID).Error
}

// detachReverseSpouse nulls the old spouse's back-pointer if it still points
// at the member.
func detachReverseSpouse(tx *gorm.DB, oldSpouseID, memberID uint) error {
	var spouse models.Member
	if err := tx.First(&spouse, oldSpouseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if spouse.SpouseID == nil || *spouse.SpouseID != memberID {
		return nil
	}
	return tx.Model(&models.Member{}).
		Where("id = ?", oldSpouseID).
		Update("spouse_id", nil).Error
}

// unlinkOldSpouse handles a removed spousal link. The back-pointer is nulled
// when it still points at the member; if the old spouse is a clone inside
// this family, the clone row is deleted and its children are orphaned at the
// corresponding parent slot. Descendants are never cascade-deleted.
func unlinkOldSpouse(tx *gorm.DB, familyID, oldSpouseID, memberID uint) error {
	var spouse models.Member
	if err := tx.First(&spouse, oldSpouseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	if spouse.SpouseID != nil && *spouse.SpouseID == memberID {
		if err := tx.Model(&models.Member{}).
			Where("id = ?", oldSpouseID).
			Update("spouse_id", nil).Error; err != nil {
			return err
		}
	}

	if !spouse.IsClone() || spouse.FamilyID != familyID {
		return nil
	}

	if err := tx.Model(&models.Member{}).
		Where("family_id = ? AND father_id = ?", familyID, oldSpouseID).
		Update("father_id", nil).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.Member{}).
		Where("family_id = ? AND mother_id = ?", familyID, oldSpouseID).
		Update("mother_id", nil).Error; err != nil {
		return err
	}
	return tx.Where("id = ? AND family_id = ?", oldSpouseID, familyID).
		Delete(&models.Member{}).Error
}

// Package audit keeps an append-only record of member mutations. Appends are
// best-effort: the member change is the source of truth and a failed audit
// write is logged, never propagated.
package audit

import (
	"encoding/json"
	"log"
	"reflect"
	"sort"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/hartono/familytree/internal/models"
)

// Entry describes one mutation to one member.
type Entry struct {
	MemberID      uint
	Action        models.AuditAction
	ChangedBy     *uint
	ChangedFields []string
	OldValues     map[string]any
	NewValues     map[string]any
}

// Recorder appends audit entries to the store.
type Recorder struct {
	db *gorm.DB
}

func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db}
}

// MemberChange appends one entry. Errors are swallowed after logging.
func (r *Recorder) MemberChange(e Entry) {
	row := models.MemberAuditLog{
		MemberID:      e.MemberID,
		Action:        e.Action,
		ChangedBy:     e.ChangedBy,
		ChangedFields: marshalJSON(e.ChangedFields),
		OldValues:     marshalJSON(e.OldValues),
		NewValues:     marshalJSON(e.NewValues),
	}
	if err := r.db.Create(&row).Error; err != nil {
		log.Printf("[audit] failed to record %s for member %d: %v", e.Action, e.MemberID, err)
	}
}

func marshalJSON(v any) datatypes.JSON {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("[audit] failed to marshal values: %v", err)
		return nil
	}
	return datatypes.JSON(data)
}

// Snapshot flattens a member into the field map recorded in old/new values.
func Snapshot(m *models.Member) map[string]any {
	return map[string]any{
		"family_id":             m.FamilyID,
		"member_code":           m.MemberCode,
		"name":                  m.Name,
		"gender":                string(m.Gender),
		"birth_date":            strVal(m.BirthDate),
		"death_date":            strVal(m.DeathDate),
		"father_id":             uintVal(m.FatherID),
		"mother_id":             uintVal(m.MotherID),
		"spouse_id":             uintVal(m.SpouseID),
		"child_order":           intVal(m.ChildOrder),
		"phone":                 strVal(m.Phone),
		"address":               strVal(m.Address),
		"email":                 strVal(m.Email),
		"photo_url":             strVal(m.PhotoURL),
		"notes":                 strVal(m.Notes),
		"cloned_from_family_id": uintVal(m.ClonedFromFamilyID),
		"cloned_from_member_id": uintVal(m.ClonedFromMemberID),
	}
}

// ChangedFields returns the sorted names of fields whose values differ
// between the two snapshots.
func ChangedFields(oldValues, newValues map[string]any) []string {
	keys := make(map[string]bool, len(oldValues))
	for k := range oldValues {
		keys[k] = true
	}
	for k := range newValues {
		keys[k] = true
	}

	var changed []string
	for k := range keys {
		if !reflect.DeepEqual(oldValues[k], newValues[k]) {
			changed = append(changed, k)
		}
	}
	sort.Strings(changed)
	return changed
}

func strVal(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func uintVal(u *uint) any {
	if u == nil {
		return nil
	}
	return *u
}

func intVal(i *int) any {
	if i == nil {
		return nil
	}
	return *i
}

package models

import "time"

// Gender drives the father/mother role assignment when a member adopts a
// cloned spousal line.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Member is one node in a family's genealogical graph. Relationship fields
// are plain id references; traversal always goes through an index built from
// the full member list, never through preloaded object graphs.
type Member struct {
	ID         uint    `json:"id" gorm:"primaryKey"`
	FamilyID   uint    `json:"family_id" gorm:"not null;index:idx_members_family"`
	MemberCode string  `json:"member_code" gorm:"size:50;uniqueIndex:idx_members_code"`
	Name       string  `json:"name" gorm:"size:255;not null"`
	Gender     Gender  `json:"gender" gorm:"size:10;not null"`
	BirthDate  *string `json:"birth_date" gorm:"size:10"`
	DeathDate  *string `json:"death_date" gorm:"size:10"`
	FatherID   *uint   `json:"father_id" gorm:"index:idx_members_father"`
	MotherID   *uint   `json:"mother_id" gorm:"index:idx_members_mother"`
	SpouseID   *uint   `json:"spouse_id" gorm:"index:idx_members_spouse"`
	ChildOrder *int    `json:"child_order"`
	Phone      *string `json:"phone" gorm:"size:50"`
	Address    *string `json:"address"`
	Email      *string `json:"email" gorm:"size:255"`
	PhotoURL   *string `json:"photo_url" gorm:"size:500"`
	Notes      *string `json:"notes"`

	// Clone provenance. Set only on rows materialized from a spouse in
	// another family; both are nil for authoritative records.
	ClonedFromFamilyID *uint `json:"cloned_from_family_id,omitempty" gorm:"index:idx_members_cloned_from"`
	ClonedFromMemberID *uint `json:"cloned_from_member_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsClone reports whether the member row was materialized from another
// family's record.
func (m *Member) IsClone() bool {
	return m.ClonedFromMemberID != nil
}

// IsRoot reports whether the member has neither parent recorded.
func (m *Member) IsRoot() bool {
	return m.FatherID == nil && m.MotherID == nil
}

// TableName keeps the table name aligned with the original schema.
func (Member) TableName() string {
	return "family_members"
}

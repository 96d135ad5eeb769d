package models

import "time"

// Role of an authenticated account.
type Role string

const (
	RoleMember     Role = "member"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// Status is the account approval state.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// User is an authenticated account, optionally linked to a family scope and
// to the member record representing that person in the tree.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"size:100;not null;uniqueIndex:idx_users_username"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"`
	Name         string    `json:"name" gorm:"size:255;not null"`
	Role         Role      `json:"role" gorm:"size:20;not null"`
	Status       Status    `json:"status" gorm:"size:20;not null;index:idx_users_status"`
	FamilyID     *uint     `json:"family_id" gorm:"index:idx_users_family"`
	MemberID     *uint     `json:"member_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Family *Family `json:"family,omitempty" gorm:"foreignKey:FamilyID"`
	Member *Member `json:"member,omitempty" gorm:"foreignKey:MemberID"`
}

func (User) TableName() string {
	return "users"
}

package models

import "time"

// Session is a server-side login session. The cookie carries only the opaque
// token; everything else is looked up per request.
type Session struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Token     string    `json:"-" gorm:"size:64;not null;uniqueIndex:idx_sessions_token"`
	UserID    uint      `json:"user_id" gorm:"not null;index:idx_sessions_user"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`

	User *User `json:"-" gorm:"foreignKey:UserID"`
}

func (Session) TableName() string {
	return "sessions"
}

package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hartono/familytree/internal/models"
)

// ErrNoSession is returned when the token is unknown or expired.
var ErrNoSession = errors.New("no active session")

// SessionManager stores login sessions in the database and hands out opaque
// tokens for the cookie.
type SessionManager struct {
	db  *gorm.DB
	ttl time.Duration
}

func NewSessionManager(db *gorm.DB, ttl time.Duration) *SessionManager {
	return &SessionManager{db: db, ttl: ttl}
}

// TTL is the configured session lifetime.
func (s *SessionManager) TTL() time.Duration {
	return s.ttl
}

// Create opens a session for the user and returns it with a fresh token.
func (s *SessionManager) Create(userID uint) (*models.Session, error) {
	session := models.Session{
		Token:     strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", ""),
		UserID:    userID,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	if err := s.db.Create(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// Lookup resolves a token to its user, with family and member preloaded.
// Expired sessions are deleted on sight.
func (s *SessionManager) Lookup(token string) (*models.User, error) {
	if token == "" {
		return nil, ErrNoSession
	}

	var session models.Session
	if err := s.db.Where("token = ?", token).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	if time.Now().After(session.ExpiresAt) {
		s.db.Delete(&session)
		return nil, ErrNoSession
	}

	var user models.User
	if err := s.db.Preload("Family").Preload("Member").First(&user, session.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	return &user, nil
}

// Destroy removes the session behind a token. Unknown tokens are a no-op.
func (s *SessionManager) Destroy(token string) error {
	if token == "" {
		return nil
	}
	return s.db.Where("token = ?", token).Delete(&models.Session{}).Error
}

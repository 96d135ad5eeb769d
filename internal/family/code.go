package family

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hartono/familytree/internal/models"
)

const (
	memberCodePrefix   = "MEM"
	codeAttempts       = 10
	codeSuffixLen      = 6
	codeFallbackSuffix = 10
)

// randomSuffix returns n uppercase hex characters of fresh randomness.
func randomSuffix(n int) string {
	s := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	if n > len(s) {
		n = len(s)
	}
	return s[:n]
}

// generateMemberCode produces a globally unique member code of the form
// MEM<unix-millis><random>. Collisions are retried a bounded number of times
// before falling back to a longer random suffix.
func generateMemberCode(tx *gorm.DB) (string, error) {
	for attempt := 0; attempt < codeAttempts; attempt++ {
		code := fmt.Sprintf("%s%d%s", memberCodePrefix, time.Now().UnixMilli(), randomSuffix(codeSuffixLen))
		var count int64
		if err := tx.Model(&models.Member{}).Where("member_code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
	return fmt.Sprintf("%s%d%s", memberCodePrefix, time.Now().UnixMilli(), randomSuffix(codeFallbackSuffix)), nil
}

// MemberByCode looks up a member by its code, case-insensitively and across
// all families. Returns gorm.ErrRecordNotFound when no member carries the
// code.
func MemberByCode(db *gorm.DB, code string) (*models.Member, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	var m models.Member
	if err := db.Where("UPPER(member_code) = ?", normalized).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

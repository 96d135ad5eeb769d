// Package calendar owns family events, in particular the system-generated
// birthday events derived from member birth dates. Synchronization is a
// side effect of member mutations and must never fail them: every error here
// is logged and swallowed.
package calendar

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/hartono/familytree/internal/models"
)

// YearsAhead is the rolling window of birthday events kept per member,
// anchored at the current calendar year.
const YearsAhead = 10

const birthdayTitlePrefix = "Birthday "

// isoDate matches the stored YYYY-MM-DD date part. Month and day substrings
// are reused verbatim; running them through time.Date could shift the day
// across timezones.
var isoDate = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})`)

// Syncer regenerates birthday events.
type Syncer struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSyncer(db *gorm.DB) *Syncer {
	return &Syncer{db: db, now: time.Now}
}

// BirthdayTitle is the deterministic title of a member's birthday events.
func BirthdayTitle(name string) string {
	return birthdayTitlePrefix + name
}

// SyncMemberBirthdays brings one member's birthday events in line with the
// member's current name and birth date:
//
//   - an update (oldName set) first drops every event carrying the previous
//     name, so renames and birth-date corrections replace rather than
//     accumulate;
//   - a removed birth date drops the events and generates nothing;
//   - otherwise one event per year in [now, now+YearsAhead) is verified or
//     created, idempotently.
func (s *Syncer) SyncMemberBirthdays(familyID, memberID uint, name string, birthDate *string, createdBy *uint, oldName string) {
	if oldName != "" {
		s.deleteBirthdayEvents(familyID, oldName)
	}

	if birthDate == nil || *birthDate == "" {
		s.deleteBirthdayEvents(familyID, name)
		return
	}

	currentYear := s.now().Year()
	for year := currentYear; year < currentYear+YearsAhead; year++ {
		s.createBirthdayEvent(familyID, name, *birthDate, year, createdBy)
	}
}

// SyncFamilyBirthdays runs the window sync for every member of the family
// that has a birth date recorded.
func (s *Syncer) SyncFamilyBirthdays(familyID uint, createdBy *uint) {
	var members []models.Member
	if err := s.db.
		Where("family_id = ? AND birth_date IS NOT NULL", familyID).
		Find(&members).Error; err != nil {
		log.Printf("[birthday-event] failed to list members for family %d: %v", familyID, err)
		return
	}

	for _, m := range members {
		s.SyncMemberBirthdays(familyID, m.ID, m.Name, m.BirthDate, createdBy, "")
	}
}

// birthdayForYear projects the stored month/day onto the target year.
func birthdayForYear(birthDate string, year int) (string, bool) {
	match := isoDate.FindStringSubmatch(birthDate)
	if match == nil {
		return "", false
	}
	return fmt.Sprintf("%d-%s-%s", year, match[2], match[3]), true
}

// birthYearOf extracts the year component of the stored birth date.
func birthYearOf(birthDate string) (int, bool) {
	match := isoDate.FindStringSubmatch(birthDate)
	if match == nil {
		return 0, false
	}
	y, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return y, true
}

func (s *Syncer) createBirthdayEvent(familyID uint, name, birthDate string, targetYear int, createdBy *uint) {
	eventDate, ok := birthdayForYear(birthDate, targetYear)
	if !ok {
		log.Printf("[birthday-event] skipping %q: invalid birth date %q", name, birthDate)
		return
	}

	title := BirthdayTitle(name)

	var count int64
	err := s.db.Model(&models.Event{}).
		Where("family_id = ? AND event_date = ? AND (title = ? OR title LIKE ?)",
			familyID, eventDate, title, "%"+title+"%").
		Count(&count).Error
	if err != nil {
		log.Printf("[birthday-event] lookup failed for %q on %s: %v", name, eventDate, err)
		return
	}
	if count > 0 {
		return
	}

	birthYear, ok := birthYearOf(birthDate)
	if !ok {
		return
	}
	age := targetYear - birthYear
	description := fmt.Sprintf("%s turns %d", name, age)

	event := models.Event{
		FamilyID:    familyID,
		Title:       title,
		Description: &description,
		EventDate:   eventDate,
		CreatedBy:   createdBy,
	}
	if err := s.db.Create(&event).Error; err != nil {
		log.Printf("[birthday-event] failed to create event for %q on %s: %v", name, eventDate, err)
	}
}

func (s *Syncer) deleteBirthdayEvents(familyID uint, name string) {
	err := s.db.
		Where("family_id = ? AND title LIKE ?", familyID, "%"+BirthdayTitle(name)+"%").
		Delete(&models.Event{}).Error
	if err != nil {
		log.Printf("[birthday-event] failed to delete events for %q: %v", name, err)
	}
}

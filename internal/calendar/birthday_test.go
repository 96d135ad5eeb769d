package calendar

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hartono/familytree/internal/models"
)

func newTestSyncer(t *testing.T) (*Syncer, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.Family{}, &models.Member{}, &models.Event{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	s := NewSyncer(db)
	s.now = func() time.Time { return time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC) }
	return s, db
}

func listEvents(t *testing.T, db *gorm.DB, familyID uint) []models.Event {
	t.Helper()
	var events []models.Event
	if err := db.Where("family_id = ?", familyID).Order("event_date ASC").Find(&events).Error; err != nil {
		t.Fatalf("list events: %v", err)
	}
	return events
}

func strPtr(s string) *string { return &s }

func TestSyncMemberBirthdaysGeneratesWindow(t *testing.T) {
	s, db := newTestSyncer(t)

	s.SyncMemberBirthdays(1, 1, "Ali", strPtr("1990-03-15"), nil, "")

	events := listEvents(t, db, 1)
	if len(events) != YearsAhead {
		t.Fatalf("events = %d, want %d", len(events), YearsAhead)
	}
	for i, ev := range events {
		year := 2024 + i
		if want := fmt.Sprintf("%d-03-15", year); ev.EventDate != want {
			t.Errorf("event %d date = %s, want %s", i, ev.EventDate, want)
		}
		if ev.Title != "Birthday Ali" {
			t.Errorf("event %d title = %q", i, ev.Title)
		}
		if want := fmt.Sprintf("Ali turns %d", year-1990); ev.Description == nil || *ev.Description != want {
			t.Errorf("event %d description = %v, want %q", i, ev.Description, want)
		}
	}
}

func TestSyncMemberBirthdaysIsIdempotent(t *testing.T) {
	s, db := newTestSyncer(t)

	s.SyncMemberBirthdays(1, 1, "Ali", strPtr("1990-03-15"), nil, "")
	s.SyncMemberBirthdays(1, 1, "Ali", strPtr("1990-03-15"), nil, "")

	if events := listEvents(t, db, 1); len(events) != YearsAhead {
		t.Fatalf("events after rerun = %d, want %d", len(events), YearsAhead)
	}
}

func TestSyncMemberBirthdaysRenameReplacesEvents(t *testing.T) {
	s, db := newTestSyncer(t)

	s.SyncMemberBirthdays(1, 1, "Ali", strPtr("1990-03-15"), nil, "")
	s.SyncMemberBirthdays(1, 1, "Ali Rahman", strPtr("1990-03-15"), nil, "Ali")

	events := listEvents(t, db, 1)
	if len(events) != YearsAhead {
		t.Fatalf("events after rename = %d, want %d", len(events), YearsAhead)
	}
	for _, ev := range events {
		if ev.Title != "Birthday Ali Rahman" {
			t.Errorf("stale title survived rename: %q", ev.Title)
		}
	}
}

func TestSyncMemberBirthdaysDateChangeReplacesEvents(t *testing.T) {
	s, db := newTestSyncer(t)

	s.SyncMemberBirthdays(1, 1, "Ali", strPtr("1990-03-15"), nil, "")
	s.SyncMemberBirthdays(1, 1, "Ali", strPtr("1991-04-20"), nil, "Ali")

	events := listEvents(t, db, 1)
	if len(events) != YearsAhead {
		t.Fatalf("events after date change = %d, want %d", len(events), YearsAhead)
	}
	for _, ev := range events {
		if ev.EventDate[5:] != "04-20" {
			t.Errorf("stale event date survived: %s", ev.EventDate)
		}
	}
}

func TestSyncMemberBirthdaysClearedDateDeletesEvents(t *testing.T) {
	s, db := newTestSyncer(t)

	s.SyncMemberBirthdays(1, 1, "Ali", strPtr("1990-03-15"), nil, "")
	s.SyncMemberBirthdays(1, 1, "Ali", nil, nil, "")

	if events := listEvents(t, db, 1); len(events) != 0 {
		t.Fatalf("events after clearing birth date = %d, want 0", len(events))
	}
}

func TestSyncMemberBirthdaysScopedToFamily(t *testing.T) {
	s, db := newTestSyncer(t)

	s.SyncMemberBirthdays(1, 1, "Ali", strPtr("1990-03-15"), nil, "")
	s.SyncMemberBirthdays(2, 2, "Ali", strPtr("1985-07-01"), nil, "")
	s.SyncMemberBirthdays(1, 1, "Ali", nil, nil, "")

	if events := listEvents(t, db, 2); len(events) != YearsAhead {
		t.Fatalf("neighbor family events = %d, want %d", len(events), YearsAhead)
	}
}

func TestSyncMemberBirthdaysInvalidDateCreatesNothing(t *testing.T) {
	s, db := newTestSyncer(t)

	s.SyncMemberBirthdays(1, 1, "Ali", strPtr("sometime in spring"), nil, "")

	if events := listEvents(t, db, 1); len(events) != 0 {
		t.Fatalf("events from invalid date = %d, want 0", len(events))
	}
}

func TestSyncFamilyBirthdays(t *testing.T) {
	s, db := newTestSyncer(t)

	members := []models.Member{
		{FamilyID: 1, MemberCode: "MEMA1", Name: "Ali", Gender: models.GenderMale, BirthDate: strPtr("1990-03-15")},
		{FamilyID: 1, MemberCode: "MEMB1", Name: "Siti", Gender: models.GenderFemale, BirthDate: strPtr("1992-11-02")},
		{FamilyID: 1, MemberCode: "MEMC1", Name: "Budi", Gender: models.GenderMale},
	}
	for i := range members {
		if err := db.Create(&members[i]).Error; err != nil {
			t.Fatalf("seed member: %v", err)
		}
	}

	s.SyncFamilyBirthdays(1, nil)

	if events := listEvents(t, db, 1); len(events) != 2*YearsAhead {
		t.Fatalf("events = %d, want %d", len(events), 2*YearsAhead)
	}
}

func TestBirthdayForYear(t *testing.T) {
	tests := []struct {
		birthDate string
		year      int
		want      string
		ok        bool
	}{
		{"1990-03-15", 2025, "2025-03-15", true},
		{"1990-03-15T00:00:00Z", 2025, "2025-03-15", true},
		{"1992-02-29", 2025, "2025-02-29", true}, // kept verbatim, no calendar math
		{"not-a-date", 2025, "", false},
	}
	for _, tt := range tests {
		got, ok := birthdayForYear(tt.birthDate, tt.year)
		if got != tt.want || ok != tt.ok {
			t.Errorf("birthdayForYear(%q, %d) = (%q, %v), want (%q, %v)",
				tt.birthDate, tt.year, got, ok, tt.want, tt.ok)
		}
	}
}

func TestBirthdayTitle(t *testing.T) {
	if got := BirthdayTitle("Ali"); got != "Birthday Ali" {
		t.Errorf("BirthdayTitle() = %q", got)
	}
}

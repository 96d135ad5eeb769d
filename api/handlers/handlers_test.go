package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hartono/familytree/internal/calendar"
	"github.com/hartono/familytree/internal/models"
)

func newTestHandler(t *testing.T) (*Handler, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

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
	return &Handler{DB: db, Calendar: calendar.NewSyncer(db)}, db
}

func requestContext(t *testing.T, target string, user *models.User) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	if user != nil {
		c.Set(userContextKey, user)
	}
	return c, w
}

func seedEvent(t *testing.T, db *gorm.DB, familyID uint, title, date string, eventTime *string) {
	t.Helper()
	ev := models.Event{FamilyID: familyID, Title: title, EventDate: date, EventTime: eventTime}
	if err := db.Create(&ev).Error; err != nil {
		t.Fatalf("seed event %s: %v", title, err)
	}
}

func strPtr(s string) *string { return &s }

func TestListEventsMonthFilterAndTimeOrder(t *testing.T) {
	h, db := newTestHandler(t)
	fam := models.Family{Name: "Rahman", FamilyCode: "RAHMAN"}
	if err := db.Create(&fam).Error; err != nil {
		t.Fatalf("seed family: %v", err)
	}

	seedEvent(t, db, fam.ID, "Dinner", "2025-04-10", strPtr("19:00"))
	seedEvent(t, db, fam.ID, "Picnic", "2025-04-10", strPtr("09:00"))
	seedEvent(t, db, fam.ID, "Reunion", "2025-05-01", nil)

	user := &models.User{FamilyID: &fam.ID}
	c, w := requestContext(t, "/api/events?month=4&year=2025", user)
	h.ListEvents(c)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var events []models.Event
	if err := json.Unmarshal(w.Body.Bytes(), &events); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("filtered events = %d, want 2", len(events))
	}
	if events[0].Title != "Picnic" || events[1].Title != "Dinner" {
		t.Errorf("order = %s, %s; want Picnic, Dinner", events[0].Title, events[1].Title)
	}
}

func TestListEventsRejectsInvalidMonth(t *testing.T) {
	h, db := newTestHandler(t)
	fam := models.Family{Name: "Rahman", FamilyCode: "RAHMAN"}
	if err := db.Create(&fam).Error; err != nil {
		t.Fatalf("seed family: %v", err)
	}

	user := &models.User{FamilyID: &fam.ID}
	c, w := requestContext(t, "/api/events?month=13&year=2025", user)
	h.ListEvents(c)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestMembersForRegister(t *testing.T) {
	h, db := newTestHandler(t)

	f1 := models.Family{Name: "Binti", FamilyCode: "BINTI"}
	f2 := models.Family{Name: "Alam", FamilyCode: "ALAM"}
	for _, f := range []*models.Family{&f1, &f2} {
		if err := db.Create(f).Error; err != nil {
			t.Fatalf("seed family: %v", err)
		}
	}
	members := []models.Member{
		{FamilyID: f1.ID, MemberCode: "MEMB1", Name: "Zul", Gender: models.GenderMale},
		{FamilyID: f2.ID, MemberCode: "MEMA1", Name: "Ani", Gender: models.GenderFemale},
	}
	for i := range members {
		if err := db.Create(&members[i]).Error; err != nil {
			t.Fatalf("seed member: %v", err)
		}
	}

	c, w := requestContext(t, "/api/auth/members-for-register", nil)
	h.MembersForRegister(c)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var rows []registerMemberOption
	if err := json.Unmarshal(w.Body.Bytes(), &rows); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	// Sorted by family name first.
	if rows[0].Name != "Ani" || rows[0].FamilyName != "Alam" {
		t.Errorf("first row = %+v, want Ani of Alam", rows[0])
	}
	if rows[1].Name != "Zul" || rows[1].FamilyName != "Binti" {
		t.Errorf("second row = %+v, want Zul of Binti", rows[1])
	}
}

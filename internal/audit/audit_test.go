package audit

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hartono/familytree/internal/models"
)

func newTestRecorder(t *testing.T) (*Recorder, *gorm.DB) {
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

	if err := db.AutoMigrate(&models.MemberAuditLog{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewRecorder(db), db
}

func ptrString(s string) *string { return &s }
func ptrUint(u uint) *uint       { return &u }

func TestMemberChangeWritesRow(t *testing.T) {
	r, db := newTestRecorder(t)

	r.MemberChange(Entry{
		MemberID:      7,
		Action:        models.AuditUpdate,
		ChangedBy:     ptrUint(3),
		ChangedFields: []string{"name"},
		OldValues:     map[string]any{"name": "Ali"},
		NewValues:     map[string]any{"name": "Ali Rahman"},
	})

	var row models.MemberAuditLog
	if err := db.First(&row).Error; err != nil {
		t.Fatalf("audit row missing: %v", err)
	}
	if row.MemberID != 7 || row.Action != models.AuditUpdate {
		t.Errorf("row = member %d action %s", row.MemberID, row.Action)
	}
	if row.ChangedBy == nil || *row.ChangedBy != 3 {
		t.Errorf("changed_by = %v, want 3", row.ChangedBy)
	}

	var fields []string
	if err := json.Unmarshal(row.ChangedFields, &fields); err != nil {
		t.Fatalf("changed_fields not JSON: %v", err)
	}
	if !reflect.DeepEqual(fields, []string{"name"}) {
		t.Errorf("changed_fields = %v", fields)
	}
}

func TestMemberChangeSwallowsFailure(t *testing.T) {
	r, db := newTestRecorder(t)

	if err := db.Migrator().DropTable(&models.MemberAuditLog{}); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	// Must not panic or surface the error.
	r.MemberChange(Entry{MemberID: 1, Action: models.AuditCreate})
}

func TestSnapshotDereferencesPointers(t *testing.T) {
	m := &models.Member{
		FamilyID:   2,
		MemberCode: "MEMX1",
		Name:       "Ali",
		Gender:     models.GenderMale,
		BirthDate:  ptrString("1990-03-15"),
		SpouseID:   ptrUint(9),
	}

	snap := Snapshot(m)

	if snap["birth_date"] != "1990-03-15" {
		t.Errorf("birth_date = %v", snap["birth_date"])
	}
	if snap["spouse_id"] != uint(9) {
		t.Errorf("spouse_id = %v", snap["spouse_id"])
	}
	if snap["death_date"] != nil {
		t.Errorf("death_date = %v, want nil", snap["death_date"])
	}
	if snap["gender"] != "male" {
		t.Errorf("gender = %v", snap["gender"])
	}
}

func TestChangedFields(t *testing.T) {
	tests := []struct {
		name string
		old  map[string]any
		new  map[string]any
		want []string
	}{
		{
			"no changes",
			map[string]any{"name": "Ali", "phone": nil},
			map[string]any{"name": "Ali", "phone": nil},
			nil,
		},
		{
			"value changed",
			map[string]any{"name": "Ali", "phone": nil},
			map[string]any{"name": "Budi", "phone": nil},
			[]string{"name"},
		},
		{
			"nil to value",
			map[string]any{"phone": nil},
			map[string]any{"phone": "0812"},
			[]string{"phone"},
		},
		{
			"sorted output",
			map[string]any{"name": "Ali", "address": nil, "email": nil},
			map[string]any{"name": "Budi", "address": "Jakarta", "email": "a@b.c"},
			[]string{"address", "email", "name"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ChangedFields(tt.old, tt.new); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ChangedFields() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Package daotest provides an in-memory SQLite database wired into dao.DB for tests.
package daotest

import (
	"bealive-agent-backend/dao"
	"bealive-agent-backend/model"
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open creates a fresh migrated database private to t and installs it as dao.DB.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := dao.Open(sqlite.Open(dsn), logger.Silent)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	prev := dao.DB
	dao.DB = db
	t.Cleanup(func() {
		dao.DB = prev
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// Now is the fixed clock used by fixtures.
var Now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func SeedUser(t *testing.T, db *gorm.DB, id int64, username string, opts ...func(*model.User)) model.User {
	t.Helper()
	u := model.User{
		UserID:   id,
		Username: username,
		Email:    username + "@bealive.test",
		City:     "Lisbon",
		Birthday: time.Date(1996, 5, 20, 0, 0, 0, 0, time.UTC),
	}
	for _, opt := range opts {
		opt(&u)
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return u
}

func SeedActivity(t *testing.T, db *gorm.DB, id, hostID int64, name string, opts ...func(*model.Activity)) model.Activity {
	t.Helper()
	a := model.Activity{
		ActivityID:          id,
		HostID:              hostID,
		ActivityName:        name,
		ActivityDescription: "A " + strings.ToLower(name) + " session.",
		Location:            "Main square",
		City:                "Lisbon",
		MaxParticipants:     2,
		DateBegin:           Now.Add(48 * time.Hour),
		DateFinish:          Now.Add(50 * time.Hour),
		ActivityState:       model.ActivityOpen,
	}
	for _, opt := range opts {
		opt(&a)
	}
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("seed activity %s: %v", name, err)
	}
	return a
}

func SeedReservation(t *testing.T, db *gorm.DB, activity model.Activity, userID int64, state model.ReservationState) model.Reservation {
	t.Helper()
	r := model.Reservation{
		ActivityID: activity.ActivityID,
		UserID:     userID,
		HostID:     activity.HostID,
		Message:    "see you there",
		State:      state,
	}
	if err := db.Create(&r).Error; err != nil {
		t.Fatalf("seed reservation: %v", err)
	}
	return r
}

// Finished marks a fixture activity as already finished.
func Finished(a *model.Activity) {
	a.ActivityState = model.ActivityFinished
	a.DateBegin = Now.Add(-72 * time.Hour)
	a.DateFinish = Now.Add(-70 * time.Hour)
}

// Capacity overrides a fixture activity's capacity.
func Capacity(n int) func(*model.Activity) {
	return func(a *model.Activity) { a.MaxParticipants = n }
}

package activity

import (
	"bealive-agent-backend/dao/daotest"
	"bealive-agent-backend/model"
	"bealive-agent-backend/service/extract"
	"bealive-agent-backend/service/llm/llmtest"
	"bealive-agent-backend/service/vector"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"
	"time"
)

// memoryIndex is a vector.Index keeping documents in a map.
type memoryIndex struct {
	docs map[int64]string
	err  error
}

func newMemoryIndex() *memoryIndex {
	return &memoryIndex{docs: make(map[int64]string)}
}

func (m *memoryIndex) Upsert(_ context.Context, docs ...vector.Document) error {
	if m.err != nil {
		return m.err
	}
	for _, d := range docs {
		m.docs[d.ID] = d.Text
	}
	return nil
}

func (m *memoryIndex) Delete(_ context.Context, ids ...int64) error {
	if m.err != nil {
		return m.err
	}
	for _, id := range ids {
		delete(m.docs, id)
	}
	return nil
}

func (m *memoryIndex) Search(context.Context, string, vector.SearchOptions) ([]vector.Hit, error) {
	return nil, errors.New("not supported")
}

func newService(m *llmtest.Model, index vector.Index) *Service {
	return NewService(extract.New(m), NewSyncIndexer(index), func() time.Time { return daotest.Now })
}

func form(name, description string, capacity int, begin, finish string) string {
	return fmt.Sprintf(`{"activity_name":%q,"activity_description":%q,"location":"Belem tower","city":"Lisbon","max_participants":%d,"date_begin":%q,"date_finish":%q}`,
		name, description, capacity, begin, finish)
}

func TestCreateActivity(t *testing.T) {
	db := daotest.Open(t)
	daotest.SeedUser(t, db, 1, "host")

	m := llmtest.New().On(form("River Kayak", "Paddle along the Tagus.", 6, "2026-03-07 10:00", "2026-03-07 13:00"), "extract its fields")
	index := newMemoryIndex()
	svc := newService(m, index)

	activity, err := svc.CreateActivity(context.Background(), 1, "Kayak on the Tagus next Saturday 10 to 13, 6 people, from Belem tower")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if activity.ActivityID == 0 || activity.ActivityState != model.ActivityOpen || activity.HostID != 1 {
		t.Errorf("activity = %+v", activity)
	}
	if want := time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC); !activity.DateBegin.Equal(want) {
		t.Errorf("DateBegin = %v, want %v", activity.DateBegin, want)
	}

	var stored model.Activity
	if err := db.First(&stored, "activity_id = ?", activity.ActivityID).Error; err != nil {
		t.Fatalf("load activity: %v", err)
	}
	if stored.VectorID == nil || *stored.VectorID != activity.VectorKey() {
		t.Errorf("VectorID = %v, want %q", stored.VectorID, activity.VectorKey())
	}
	if text := index.docs[activity.ActivityID]; !strings.Contains(text, "River Kayak") || !strings.Contains(text, "Lisbon") {
		t.Errorf("indexed text = %q", text)
	}
	if !strings.Contains(m.Calls()[0], "2026-03-01 12:00") {
		t.Errorf("prompt does not carry the current date")
	}
}

func TestCreateActivity_Validation(t *testing.T) {
	tests := []struct {
		name string
		form string
		want error
	}{
		{"no capacity", form("Yoga", "Stretch.", 0, "2026-03-07 10:00", "2026-03-07 11:00"), ErrInvalidCapacity},
		{"ends before it begins", form("Yoga", "Stretch.", 5, "2026-03-07 10:00", "2026-03-07 09:00"), ErrInvalidSchedule},
		{"in the past", form("Yoga", "Stretch.", 5, "2026-02-20 10:00", "2026-02-20 11:00"), ErrInPast},
		{"long description", form("Yoga", strings.Repeat("a", model.MaxDescriptionLength+1), 5, "2026-03-07 10:00", "2026-03-07 11:00"), ErrDescriptionTooLong},
		{"unparseable date", form("Yoga", "Stretch.", 5, "next week", "2026-03-07 11:00"), extract.ErrInvalidOutput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := daotest.Open(t)
			daotest.SeedUser(t, db, 1, "host")
			index := newMemoryIndex()
			svc := newService(llmtest.New().On(tt.form), index)

			_, err := svc.CreateActivity(context.Background(), 1, "form")
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			var n int64
			db.Model(&model.Activity{}).Count(&n)
			if n != 0 || len(index.docs) != 0 {
				t.Errorf("stored %d activities and %d documents, want none", n, len(index.docs))
			}
		})
	}
}

func TestCreateActivity_IndexFailureIsRepairedBySweep(t *testing.T) {
	db := daotest.Open(t)
	daotest.SeedUser(t, db, 1, "host")

	index := newMemoryIndex()
	index.err = errors.New("index unavailable")
	svc := newService(llmtest.New().On(form("River Kayak", "Paddle.", 6, "2026-03-07 10:00", "2026-03-07 13:00")), index)

	activity, err := svc.CreateActivity(context.Background(), 1, "form")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if activity.VectorID != nil {
		t.Errorf("VectorID = %q, want nil", *activity.VectorID)
	}

	index.err = nil
	result, err := svc.Sweep(context.Background(), daotest.Now)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if result.Reindexed != 1 {
		t.Errorf("Reindexed = %d, want 1", result.Reindexed)
	}
	if _, ok := index.docs[activity.ActivityID]; !ok {
		t.Errorf("activity %d missing from the index after the sweep", activity.ActivityID)
	}
}

func TestSweep(t *testing.T) {
	db := daotest.Open(t)
	daotest.SeedUser(t, db, 1, "host")

	indexed := func(a *model.Activity) {
		key := a.VectorKey()
		a.VectorID = &key
	}
	ended := func(a *model.Activity) {
		a.DateBegin = daotest.Now.Add(-3 * time.Hour)
		a.DateFinish = daotest.Now.Add(-time.Hour)
	}
	daotest.SeedActivity(t, db, 10, 1, "Sunset Yoga", indexed)
	daotest.SeedActivity(t, db, 11, 1, "Morning Run", indexed, ended)
	daotest.SeedActivity(t, db, 12, 1, "Full Kayak", indexed, ended, func(a *model.Activity) { a.ActivityState = model.ActivityFull })

	index := newMemoryIndex()
	for _, id := range []int64{10, 11, 12} {
		index.docs[id] = "doc"
	}
	svc := newService(llmtest.New(), index)

	result, err := svc.Sweep(context.Background(), daotest.Now)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if result.Finished != 2 || result.Reindexed != 0 {
		t.Errorf("result = %+v, want 2 finished", result)
	}

	var finished []int64
	db.Model(&model.Activity{}).Where("activity_state = ?", model.ActivityFinished).Order("activity_id").Pluck("activity_id", &finished)
	if !slices.Equal(finished, []int64{11, 12}) {
		t.Errorf("finished activities = %v, want [11 12]", finished)
	}
	if len(index.docs) != 1 || index.docs[10] == "" {
		t.Errorf("index = %v, want only activity 10", index.docs)
	}

	again, err := svc.Sweep(context.Background(), daotest.Now)
	if err != nil || again.Finished != 0 {
		t.Errorf("second sweep = (%+v, %v), want nothing to do", again, err)
	}
}

func TestStartSweeper_InvalidSchedule(t *testing.T) {
	svc := newService(llmtest.New(), newMemoryIndex())
	if _, err := svc.StartSweeper("every ten minutes"); err == nil {
		t.Fatal("expected an error for an invalid schedule")
	}

	c, err := svc.StartSweeper("*/10 * * * *")
	if err != nil {
		t.Fatalf("StartSweeper: %v", err)
	}
	c.Stop()
}

func TestPending(t *testing.T) {
	db := daotest.Open(t)
	daotest.SeedUser(t, db, 1, "host")
	daotest.SeedUser(t, db, 2, "alice")
	yoga := daotest.SeedActivity(t, db, 10, 1, "Sunset Yoga")
	pottery := daotest.SeedActivity(t, db, 20, 1, "Pottery", daotest.Finished)
	daotest.SeedReservation(t, db, yoga, 2, model.ReservationPending)
	daotest.SeedReservation(t, db, pottery, 2, model.ReservationConfirmed)

	m := llmtest.New().On("formatted", "Rows: ")
	svc := newService(m, newMemoryIndex())
	ctx := context.Background()

	got, err := svc.PendingReservations(ctx, 1)
	if err != nil || got != "formatted" {
		t.Errorf("PendingReservations(host) = (%q, %v)", got, err)
	}
	got, err = svc.PendingReservations(ctx, 2)
	if err != nil || got != MsgNoPendingReservations {
		t.Errorf("PendingReservations(alice) = (%q, %v), want %q", got, err, MsgNoPendingReservations)
	}

	if _, err := svc.PendingReviews(ctx, 2); err != nil {
		t.Fatalf("PendingReviews(alice): %v", err)
	}
	if m.CallsContaining(`"activities_to_review":[{"activity_id":20`) != 1 {
		t.Errorf("alice's pending activity review was not formatted")
	}
	if _, err := svc.PendingReviews(ctx, 1); err != nil {
		t.Fatalf("PendingReviews(host): %v", err)
	}
	if m.CallsContaining(`"participants_to_review":[{"activity_id":20,"activity_name":"Pottery","user_id":2`) != 1 {
		t.Errorf("host's pending participant review was not formatted")
	}
}

package chatbot

import (
	"bealive-agent-backend/dao"
	"bealive-agent-backend/dao/daotest"
	"bealive-agent-backend/model"
	"bealive-agent-backend/service/extract"
	"bealive-agent-backend/service/formatter"
	"bealive-agent-backend/service/intent"
	"bealive-agent-backend/service/llm/llmtest"
	"bealive-agent-backend/service/resolve"
	"bealive-agent-backend/service/slots"
	"bealive-agent-backend/service/vector"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"
)

const (
	activityList = "one entry of a activity list"
	userList     = "one entry of a user list"
)

type fixedScorer float64

func (s fixedScorer) Score(context.Context, string) (float64, error) {
	return float64(s), nil
}

// spyIndex records calls and answers searches with fixed hits.
type spyIndex struct {
	mu       sync.Mutex
	hits     []vector.Hit
	err      error
	queries  []string
	searches []vector.SearchOptions
	deleted  []int64
}

func (s *spyIndex) Upsert(context.Context, ...vector.Document) error {
	return s.err
}

func (s *spyIndex) Delete(_ context.Context, ids ...int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, ids...)
	return nil
}

func (s *spyIndex) Search(_ context.Context, query string, opts vector.SearchOptions) ([]vector.Hit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, query)
	s.searches = append(s.searches, opts)
	return s.hits, s.err
}

func newHandlers(m *llmtest.Model, idx *spyIndex) *Handlers {
	e := extract.New(m)
	return &Handlers{
		extractor:  e,
		resolver:   resolve.New(e),
		formatter:  formatter.New(m),
		activities: idx,
		company:    idx,
		sentiment:  fixedScorer(0.6),
		search:     SearchOptions{TopK: 3, ScoreThreshold: 0.5},
		now:        func() time.Time { return daotest.Now },
	}
}

func str(s string) *string {
	return &s
}

func entity(id int64) string {
	return fmt.Sprintf(`{"entity_id": %d}`, id)
}

func seedPeople(t *testing.T) *gorm.DB {
	t.Helper()
	db := daotest.Open(t)
	daotest.SeedUser(t, db, 1, "host")
	daotest.SeedUser(t, db, 2, "alice")
	daotest.SeedUser(t, db, 3, "bob")
	return db
}

func countActivities(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&model.Activity{}).Count(&n).Error; err != nil {
		t.Fatalf("count activities: %v", err)
	}
	return n
}

func wantTurnError(t *testing.T, err error, kind Kind, reply string) {
	t.Helper()
	var te *TurnError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want *TurnError", err)
	}
	if te.Kind != kind || te.Reply != reply {
		t.Errorf("TurnError = {%s, %q}, want {%s, %q}", te.Kind, te.Reply, kind, reply)
	}
}

func TestActivitySearch_NoCandidatesSkipsIndex(t *testing.T) {
	db := seedPeople(t)
	daotest.SeedActivity(t, db, 10, 1, "Port Wine Walk", func(a *model.Activity) { a.City = "Porto" })

	m := llmtest.New().
		On(`{"city":"Lisbon","date_range_start":null,"date_range_end":null}`, "You extract the city and the dates")
	idx := &spyIndex{}
	h := newHandlers(m, idx)

	got, err := h.activitySearch(context.Background(), &Request{UserID: 2, Utterance: "anything in Lisbon?"},
		&slots.ActivitySearch{City: str("Lisbon")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != MsgNoActivityFound {
		t.Errorf("reply = %q, want %q", got, MsgNoActivityFound)
	}
	if len(idx.searches) != 0 {
		t.Errorf("vector index searched %d times, want 0", len(idx.searches))
	}
}

func TestActivitySearch_RankedWithinCandidates(t *testing.T) {
	db := seedPeople(t)
	daotest.SeedActivity(t, db, 10, 1, "Sunset Yoga")
	daotest.SeedActivity(t, db, 11, 1, "Old Hike", daotest.Finished)
	daotest.SeedActivity(t, db, 12, 1, "Port Wine Walk", func(a *model.Activity) { a.City = "Porto" })

	m := llmtest.New().
		On(`{"city":null,"date_range_start":null,"date_range_end":null}`, "You extract the city and the dates").
		On("Sunset Yoga is a good fit for you.", "Rows: ")
	idx := &spyIndex{hits: []vector.Hit{{ID: 10, Score: 0.8}}}
	h := newHandlers(m, idx)

	got, err := h.activitySearch(context.Background(), &Request{UserID: 2, Utterance: "some yoga please"},
		&slots.ActivitySearch{Request: str("yoga")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Sunset Yoga is a good fit for you." {
		t.Errorf("reply = %q", got)
	}

	if len(idx.searches) != 1 {
		t.Fatalf("vector index searched %d times, want 1", len(idx.searches))
	}
	opts := idx.searches[0]
	if len(opts.IDs) != 1 || opts.IDs[0] != 10 {
		t.Errorf("search restricted to %v, want [10] (open activities in the user's city)", opts.IDs)
	}
	if opts.TopK != 3 || opts.ScoreThreshold != 0.5 {
		t.Errorf("search options = %+v, want top 3 above 0.5", opts)
	}
	for _, want := range []string{"User age: 29", "User message: yoga"} {
		if !strings.Contains(idx.queries[0], want) {
			t.Errorf("query %q missing %q", idx.queries[0], want)
		}
	}
	if m.CallsContaining(`"activity_name":"Sunset Yoga"`) != 1 {
		t.Errorf("formatter was not given the matched activity row")
	}
}

func TestActivitySearch_InvalidRange(t *testing.T) {
	seedPeople(t)
	m := llmtest.New().
		On(`{"city":null,"date_range_start":"2026-03-10","date_range_end":"2026-03-05"}`, "You extract the city and the dates")
	idx := &spyIndex{}
	h := newHandlers(m, idx)

	_, err := h.activitySearch(context.Background(), &Request{UserID: 2}, &slots.ActivitySearch{})
	wantTurnError(t, err, KindValidation, MsgInvalidDateRange)
	if len(idx.searches) != 0 {
		t.Errorf("vector index searched %d times, want 0", len(idx.searches))
	}
}

func TestDeleteActivities(t *testing.T) {
	t.Run("open activity", func(t *testing.T) {
		db := seedPeople(t)
		yoga := daotest.SeedActivity(t, db, 10, 1, "Sunset Yoga")
		daotest.SeedReservation(t, db, yoga, 2, model.ReservationPending)

		idx := &spyIndex{}
		h := newHandlers(llmtest.New().On(entity(10), activityList), idx)

		got, err := h.deleteActivities(context.Background(), &Request{UserID: 1}, &slots.DeleteActivities{ActivityName: str("sunset yoga")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != MsgActivityRemoved {
			t.Errorf("reply = %q, want %q", got, MsgActivityRemoved)
		}
		if n := countActivities(t, db); n != 0 {
			t.Errorf("%d activities left, want 0", n)
		}
		var reservations int64
		db.Model(&model.Reservation{}).Count(&reservations)
		if reservations != 0 {
			t.Errorf("%d reservations left, want 0", reservations)
		}
		if len(idx.deleted) != 1 || idx.deleted[0] != 10 {
			t.Errorf("index deletions = %v, want [10]", idx.deleted)
		}
	})

	t.Run("already finished", func(t *testing.T) {
		db := seedPeople(t)
		daotest.SeedActivity(t, db, 11, 1, "Old Hike", daotest.Finished)

		idx := &spyIndex{}
		h := newHandlers(llmtest.New().On(entity(11), activityList), idx)

		got, err := h.deleteActivities(context.Background(), &Request{UserID: 1}, &slots.DeleteActivities{ActivityName: str("old hike")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != MsgAlreadyFinished {
			t.Errorf("reply = %q, want %q", got, MsgAlreadyFinished)
		}
		if n := countActivities(t, db); n != 1 {
			t.Errorf("%d activities left, want 1", n)
		}
		if len(idx.deleted) != 0 {
			t.Errorf("index deletions = %v, want none", idx.deleted)
		}
	})

	t.Run("finished while resolving", func(t *testing.T) {
		db := seedPeople(t)
		daotest.SeedActivity(t, db, 10, 1, "Sunset Yoga")

		m := llmtest.New().OnFunc(func(string) (string, error) {
			if err := db.Model(&model.Activity{}).Where("activity_id = ?", 10).
				Update("activity_state", model.ActivityFinished).Error; err != nil {
				return "", err
			}
			return entity(10), nil
		}, activityList)
		idx := &spyIndex{}
		h := newHandlers(m, idx)

		got, err := h.deleteActivities(context.Background(), &Request{UserID: 1}, &slots.DeleteActivities{ActivityName: str("sunset yoga")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != MsgAlreadyFinished {
			t.Errorf("reply = %q, want %q", got, MsgAlreadyFinished)
		}
		if n := countActivities(t, db); n != 1 {
			t.Errorf("%d activities left, want 1", n)
		}
		if len(idx.deleted) != 0 {
			t.Errorf("index deletions = %v, want none", idx.deleted)
		}
	})

	t.Run("unknown name", func(t *testing.T) {
		db := seedPeople(t)
		daotest.SeedActivity(t, db, 10, 1, "Sunset Yoga")
		daotest.SeedActivity(t, db, 11, 1, "Old Hike", daotest.Finished)

		h := newHandlers(llmtest.New().On(entity(-1), activityList), &spyIndex{})

		got, err := h.deleteActivities(context.Background(), &Request{UserID: 1}, &slots.DeleteActivities{ActivityName: str("karaoke")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != MsgDeleteNoActivity {
			t.Errorf("reply = %q, want %q", got, MsgDeleteNoActivity)
		}
	})

	t.Run("index failure keeps the activity", func(t *testing.T) {
		db := seedPeople(t)
		daotest.SeedActivity(t, db, 10, 1, "Sunset Yoga")

		idx := &spyIndex{err: errors.New("milvus unavailable")}
		h := newHandlers(llmtest.New().On(entity(10), activityList), idx)

		_, err := h.deleteActivities(context.Background(), &Request{UserID: 1}, &slots.DeleteActivities{ActivityName: str("sunset yoga")})
		wantTurnError(t, err, KindVectorIndex, MsgDeleteIndexFailed)
		if n := countActivities(t, db); n != 1 {
			t.Errorf("%d activities left, want 1", n)
		}
	})

	t.Run("store failure after unindexing is repaired by the sweep", func(t *testing.T) {
		db := seedPeople(t)
		daotest.SeedActivity(t, db, 10, 1, "Sunset Yoga", func(a *model.Activity) {
			key := a.VectorKey()
			a.VectorID = &key
		})
		if err := db.Callback().Delete().Before("gorm:delete").Register("fail_activity_delete", func(tx *gorm.DB) {
			if tx.Statement.Table == "activities" {
				tx.AddError(errors.New("store down"))
			}
		}); err != nil {
			t.Fatalf("register callback: %v", err)
		}

		idx := &spyIndex{}
		h := newHandlers(llmtest.New().On(entity(10), activityList), idx)

		_, err := h.deleteActivities(context.Background(), &Request{UserID: 1}, &slots.DeleteActivities{ActivityName: str("sunset yoga")})
		wantTurnError(t, err, KindStore, MsgDeleteFailed)
		if len(idx.deleted) != 1 || idx.deleted[0] != 10 {
			t.Fatalf("index deletions = %v, want [10]", idx.deleted)
		}
		if n := countActivities(t, db); n != 1 {
			t.Errorf("%d activities left, want 1", n)
		}

		unindexed, err := dao.ListUnindexedActivities(context.Background())
		if err != nil {
			t.Fatalf("ListUnindexedActivities: %v", err)
		}
		if len(unindexed) != 1 || unindexed[0].ActivityID != 10 {
			t.Errorf("unindexed activities = %+v, want activity 10", unindexed)
		}
	})
}

func TestAcceptReservation_FillsCapacity(t *testing.T) {
	db := seedPeople(t)
	yoga := daotest.SeedActivity(t, db, 10, 1, "Sunset Yoga", daotest.Capacity(1))
	daotest.SeedReservation(t, db, yoga, 2, model.ReservationPending)

	m := llmtest.New().
		On(entity(10), activityList).
		On(entity(2), userList)
	h := newHandlers(m, &spyIndex{})

	payload := &slots.AcceptReservation{ReservationDecision: slots.ReservationDecision{
		Username:     str("alice"),
		ActivityName: str("yoga"),
	}}
	got, err := h.acceptReservation(context.Background(), &Request{UserID: 1}, payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := MsgAccepted + ". " + MsgNowFull; got != want {
		t.Errorf("reply = %q, want %q", got, want)
	}

	var activity model.Activity
	if err := db.First(&activity, "activity_id = ?", 10).Error; err != nil {
		t.Fatalf("load activity: %v", err)
	}
	if activity.ActivityState != model.ActivityFull || activity.NumberParticipants != 1 {
		t.Errorf("activity = {%s, %d participants}, want {full, 1}", activity.ActivityState, activity.NumberParticipants)
	}
}

func TestAcceptReservation_NoPendingSkipsUserResolution(t *testing.T) {
	db := seedPeople(t)
	yoga := daotest.SeedActivity(t, db, 10, 1, "Sunset Yoga")
	daotest.SeedReservation(t, db, yoga, 2, model.ReservationConfirmed)

	m := llmtest.New().On(entity(10), activityList)
	h := newHandlers(m, &spyIndex{})

	payload := &slots.AcceptReservation{ReservationDecision: slots.ReservationDecision{
		Username:     str("alice"),
		ActivityName: str("yoga"),
	}}
	got, err := h.acceptReservation(context.Background(), &Request{UserID: 1}, payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != MsgNoPending {
		t.Errorf("reply = %q, want %q", got, MsgNoPending)
	}
	if n := m.CallsContaining(userList); n != 0 {
		t.Errorf("user resolution ran %d times, want 0", n)
	}
}

func TestRejectReservation(t *testing.T) {
	db := seedPeople(t)
	yoga := daotest.SeedActivity(t, db, 10, 1, "Sunset Yoga")
	daotest.SeedReservation(t, db, yoga, 2, model.ReservationPending)
	daotest.SeedReservation(t, db, yoga, 3, model.ReservationPending)

	m := llmtest.New().
		On(entity(10), activityList).
		On(entity(3), userList)
	h := newHandlers(m, &spyIndex{})

	payload := &slots.RejectReservation{ReservationDecision: slots.ReservationDecision{
		Username:     str("bobby"),
		ActivityName: str("yoga"),
	}}
	got, err := h.rejectReservation(context.Background(), &Request{UserID: 1}, payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != MsgRejected {
		t.Errorf("reply = %q, want %q", got, MsgRejected)
	}

	var left []model.Reservation
	db.Find(&left)
	if len(left) != 1 || left[0].UserID != 2 {
		t.Errorf("reservations left = %+v, want only alice's", left)
	}
}

func TestMakeReservation(t *testing.T) {
	tests := []struct {
		name   string
		userID int64
		seed   func(t *testing.T, db *gorm.DB, a model.Activity)
		want   string
	}{
		{"new reservation", 2, func(*testing.T, *gorm.DB, model.Activity) {}, MsgReserved},
		{"duplicate", 2, func(t *testing.T, db *gorm.DB, a model.Activity) {
			daotest.SeedReservation(t, db, a, 2, model.ReservationPending)
		}, MsgDuplicate},
		{"own activity", 1, func(*testing.T, *gorm.DB, model.Activity) {}, MsgOwnActivity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := seedPeople(t)
			yoga := daotest.SeedActivity(t, db, 10, 1, "Sunset Yoga")
			tt.seed(t, db, yoga)

			m := llmtest.New().
				On(entity(10), activityList).
				On(`{"message":"Can I bring a mat?"}`, "You extract the message")
			h := newHandlers(m, &spyIndex{})

			got, err := h.makeReservation(context.Background(), &Request{UserID: tt.userID},
				&slots.MakeReservation{ActivityName: str("yoga"), Message: str("Can I bring a mat?")})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("reply = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReviewActivity_RatingFusion(t *testing.T) {
	db := daotest.Open(t)
	daotest.SeedUser(t, db, 1, "host", func(u *model.User) { u.CumulativeRating = 3.0 })
	daotest.SeedUser(t, db, 2, "alice")
	pottery := daotest.SeedActivity(t, db, 20, 1, "Pottery", daotest.Finished,
		func(a *model.Activity) { a.CumulativeRating = 2.0 })
	daotest.SeedReservation(t, db, pottery, 2, model.ReservationConfirmed)

	m := llmtest.New().
		On(entity(20), activityList).
		On(`{"rating": 4}`, "You extract the rating").
		On(`{"review": "Lovely instructor, a bit crowded"}`, "You extract the text of a review")
	h := newHandlers(m, &spyIndex{})

	got, err := h.reviewActivity(context.Background(), &Request{UserID: 2}, &slots.ReviewActivity{
		ActivityName: str("pottery"),
		Review:       str("Lovely instructor, a bit crowded"),
		Rating:       str("4"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != MsgReviewed {
		t.Errorf("reply = %q, want %q", got, MsgReviewed)
	}

	var activity model.Activity
	db.First(&activity, "activity_id = ?", 20)
	if !almostEqual(activity.CumulativeRating, 2.75) {
		t.Errorf("activity rating = %v, want 2.75", activity.CumulativeRating)
	}
	var host model.User
	db.First(&host, "user_id = ?", 1)
	if !almostEqual(host.CumulativeRating, 2.975) {
		t.Errorf("host rating = %v, want 2.975", host.CumulativeRating)
	}
	var review model.ActivityReview
	db.First(&review)
	if review.Rating != 4 {
		t.Errorf("stored rating = %d, want 4", review.Rating)
	}

	again, err := h.reviewActivity(context.Background(), &Request{UserID: 2}, &slots.ReviewActivity{ActivityName: str("pottery")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again != MsgAlreadyReviewed {
		t.Errorf("second review reply = %q, want %q", again, MsgAlreadyReviewed)
	}
}

func TestReviewUser(t *testing.T) {
	db := daotest.Open(t)
	daotest.SeedUser(t, db, 1, "host")
	daotest.SeedUser(t, db, 2, "alice", func(u *model.User) { u.CumulativeRating = 2.0 })
	pottery := daotest.SeedActivity(t, db, 20, 1, "Pottery", daotest.Finished)
	daotest.SeedReservation(t, db, pottery, 2, model.ReservationConfirmed)

	m := llmtest.New().
		On(entity(20), activityList).
		On(entity(2), userList).
		On(`{"rating": -1}`, "You extract the rating").
		On(`{"review": "Always on time"}`, "You extract the text of a review")
	h := newHandlers(m, &spyIndex{})

	got, err := h.reviewUser(context.Background(), &Request{UserID: 1}, &slots.ReviewUser{
		ActivityName: str("pottery"),
		Username:     str("alice"),
		Review:       str("Always on time"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != MsgReviewed {
		t.Errorf("reply = %q, want %q", got, MsgReviewed)
	}

	// positivity 0.6 infers 3: 0.8*2 + 0.2*(3+3)/2
	var alice model.User
	db.First(&alice, "user_id = ?", 2)
	if !almostEqual(alice.CumulativeRating, 2.2) {
		t.Errorf("user rating = %v, want 2.2", alice.CumulativeRating)
	}
}

func TestReviewActivity_NotAttended(t *testing.T) {
	db := seedPeople(t)
	daotest.SeedActivity(t, db, 20, 1, "Pottery", daotest.Finished)

	m := llmtest.New()
	h := newHandlers(m, &spyIndex{})

	got, err := h.reviewActivity(context.Background(), &Request{UserID: 2}, &slots.ReviewActivity{ActivityName: str("pottery")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != MsgNotAttended {
		t.Errorf("reply = %q, want %q", got, MsgNotAttended)
	}
	if n := len(m.Calls()); n != 0 {
		t.Errorf("model called %d times, want 0", n)
	}
}

func TestCheckHandlers(t *testing.T) {
	db := seedPeople(t)
	yoga := daotest.SeedActivity(t, db, 10, 1, "Sunset Yoga")
	daotest.SeedReservation(t, db, yoga, 2, model.ReservationPending)

	m := llmtest.New().
		On(entity(10), activityList).
		On("formatted", "Rows: ")
	h := newHandlers(m, &spyIndex{})
	ctx := context.Background()
	req := &Request{UserID: 1}

	got, err := h.checkReservations(ctx, req, &slots.CheckReservations{ActivityName: str("yoga")})
	if err != nil || got != "formatted" {
		t.Errorf("check_reservations = (%q, %v), want formatted rows", got, err)
	}

	got, err = h.checkReviews(ctx, req, &slots.CheckReviews{ActivityName: str("yoga")})
	if err != nil || got != MsgNoReviews {
		t.Errorf("check_reviews = (%q, %v), want %q", got, err, MsgNoReviews)
	}

	for range 2 {
		got, err = h.checkNumberReservations(ctx, req, &slots.CheckNumberReservations{ActivityName: str("yoga")})
		if err != nil || got != "formatted" {
			t.Errorf("check_number_reservations = (%q, %v), want formatted rows", got, err)
		}
	}
	var counts []string
	for _, c := range m.Calls() {
		if i := strings.Index(c, "Rows: "); i != -1 && strings.Contains(c, "capacity") {
			counts = append(counts, c[i:])
		}
	}
	if len(counts) != 2 || counts[0] != counts[1] {
		t.Errorf("count rows differ between identical queries: %q", counts)
	}

	other := &Request{UserID: 2}
	got, err = h.checkReservations(ctx, other, &slots.CheckReservations{ActivityName: str("yoga")})
	if err != nil || got != MsgNoHostActivity {
		t.Errorf("check by non-host = (%q, %v), want %q", got, err, MsgNoHostActivity)
	}
}

func TestCompanyInformation(t *testing.T) {
	t.Run("grounded on retrieved context", func(t *testing.T) {
		idx := &spyIndex{hits: []vector.Hit{
			{ID: 1, Score: 0.9, Text: "Refunds are issued up to 48 hours before an activity."},
			{ID: 2, Score: 0.7, Text: "Hosts are verified by phone."},
		}}
		m := llmtest.New().On("Up to 48 hours before.", "Company information:")
		h := newHandlers(m, idx)

		got, err := h.companyInformation(context.Background(), &Request{Utterance: "refunds?"},
			&slots.CompanyInformation{Question: str("What is the refund policy?")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "Up to 48 hours before." {
			t.Errorf("reply = %q", got)
		}
		prompt := m.Calls()[0]
		for _, want := range []string{"Refunds are issued", "Hosts are verified", "User Input: What is the refund policy?"} {
			if !strings.Contains(prompt, want) {
				t.Errorf("prompt missing %q", want)
			}
		}
		if idx.queries[0] != "What is the refund policy?" {
			t.Errorf("search query = %q", idx.queries[0])
		}
	})

	t.Run("nothing retrieved", func(t *testing.T) {
		m := llmtest.New().On("I don't know.", "Company information:")
		h := newHandlers(m, &spyIndex{})

		if _, err := h.companyInformation(context.Background(), &Request{Utterance: "who owns you?"}, &slots.CompanyInformation{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if m.CallsContaining(MsgNoCompanyInfo) != 1 {
			t.Errorf("prompt does not state that nothing was found")
		}
	})
}

type unknownPayload struct {
	slots.Chitchat
}

func TestDispatch_Total(t *testing.T) {
	daotest.Open(t)
	h := newHandlers(llmtest.New(), &spyIndex{})

	payloads := []slots.Payload{
		&slots.CompanyInformation{},
		&slots.DeleteActivities{},
		&slots.ActivitySearch{},
		&slots.ReviewUser{},
		&slots.ReviewActivity{},
		&slots.MakeReservation{},
		&slots.AcceptReservation{},
		&slots.RejectReservation{},
		&slots.CheckReservations{},
		&slots.CheckReviews{},
		&slots.CheckNumberReservations{},
		&slots.Chitchat{},
	}

	covered := make(map[intent.Intent]bool)
	for _, p := range payloads {
		covered[p.Intent()] = true

		got, err := h.Dispatch(context.Background(), &Request{UserID: 1}, p)
		var te *TurnError
		if err != nil && !errors.As(err, &te) {
			t.Errorf("%v: err = %v, want *TurnError", p.Intent(), err)
		}
		if te != nil && te.Kind == KindValidation {
			t.Errorf("%v: no handler ran: %v", p.Intent(), err)
		}
		if err == nil && got == "" {
			t.Errorf("%v: empty reply", p.Intent())
		}
	}
	for _, in := range intent.All() {
		if !covered[in] {
			t.Errorf("intent %v has no payload", in)
		}
	}

	_, err := h.Dispatch(context.Background(), &Request{UserID: 1}, &unknownPayload{})
	wantTurnError(t, err, KindValidation, MsgError)
}

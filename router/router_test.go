package router

import (
	"bealive-agent-backend/controller"
	"bealive-agent-backend/dao/daotest"
	"bealive-agent-backend/middleware"
	"bealive-agent-backend/model"
	"bealive-agent-backend/service/activity"
	"bealive-agent-backend/service/chatbot"
	"bealive-agent-backend/service/extract"
	"bealive-agent-backend/service/knowledge-base/etl"
	"bealive-agent-backend/service/llm/llmtest"
	"bealive-agent-backend/service/session"
	"bealive-agent-backend/service/vector"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

type memoryIndex struct {
	docs map[int64]string
}

func (m *memoryIndex) Upsert(_ context.Context, docs ...vector.Document) error {
	for _, d := range docs {
		m.docs[d.ID] = d.Text
	}
	return nil
}

func (m *memoryIndex) Delete(_ context.Context, ids ...int64) error {
	for _, id := range ids {
		delete(m.docs, id)
	}
	return nil
}

func (m *memoryIndex) Search(context.Context, string, vector.SearchOptions) ([]vector.Hit, error) {
	return nil, errors.New("not supported")
}

type fixedScorer float64

func (s fixedScorer) Score(context.Context, string) (float64, error) {
	return float64(s), nil
}

// newServer wires the API against a scripted model. Every request is authenticated as user 1.
func newServer(t *testing.T, m *llmtest.Model) (*gin.Engine, *memoryIndex) {
	t.Helper()
	db := daotest.Open(t)
	daotest.SeedUser(t, db, 1, "alice")

	index := &memoryIndex{docs: make(map[int64]string)}
	now := func() time.Time { return daotest.Now }
	sessions := session.NewManager(session.NewMemoryStore(), session.NewLLMSummarizer(m), 4)
	controller.Setup(controller.Services{
		Bot: chatbot.New(chatbot.Deps{
			Model:      m,
			Sessions:   sessions,
			Activities: index,
			Company:    index,
			Sentiment:  fixedScorer(0.5),
			Search:     chatbot.SearchOptions{TopK: 3, ScoreThreshold: 0.5},
			LogTurns:   true,
			Now:        now,
		}),
		Activities: activity.NewService(extract.New(m), activity.NewSyncIndexer(index), now),
		Pipeline:   etl.NewPipeline(etl.LocalSource{}, index),
	})

	gin.SetMode(gin.TestMode)
	r := gin.New()
	register(r, func(c *gin.Context) {
		c.Set(middleware.ContextUserID, int64(1))
		c.Next()
	})
	return r, index
}

func do(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var envelope struct {
		Msg  string `json:"msg"`
		Data T      `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return envelope.Data
}

func TestChatSession(t *testing.T) {
	m := llmtest.New().
		On(`{"intent":"chitchat"}`, "choose exactly one intent").
		On(`{"statement":"hello"}`, "The user's intent is chitchat").
		On("Hi! How can I help?", "AIventure").
		On("The user said hello.", "Current summary:")
	r, _ := newServer(t, m)

	w := do(t, r, http.MethodPost, "/api/session", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("create session status = %d", w.Code)
	}
	created := decode[struct {
		SessionID string `json:"session_id"`
	}](t, w)

	w = do(t, r, http.MethodPost, "/api/chat", `{"session_id":"`+created.SessionID+`","query":"hello"}`)
	stream := w.Body.String()
	for _, want := range []string{"event:intent", `"intent":"chitchat"`, "event:final_answer", "Hi! How can I help?", "event:done"} {
		if !strings.Contains(stream, want) {
			t.Errorf("stream missing %q:\n%s", want, stream)
		}
	}
	if strings.Contains(stream, "event:error") {
		t.Errorf("unexpected error event:\n%s", stream)
	}

	w = do(t, r, http.MethodGet, "/api/session/"+created.SessionID+"/messages", "")
	messages := decode[struct {
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
			Intent  string `json:"intent"`
		} `json:"messages"`
	}](t, w).Messages
	if len(messages) != 2 || messages[0].Intent != "chitchat" || messages[1].Content != "Hi! How can I help?" {
		t.Errorf("messages = %+v", messages)
	}

	if w := do(t, r, http.MethodDelete, "/api/session/"+created.SessionID+"/memory", ""); w.Code != http.StatusOK {
		t.Errorf("clear memory status = %d", w.Code)
	}
	if w := do(t, r, http.MethodDelete, "/api/session/unknown/memory", ""); w.Code != http.StatusNotFound {
		t.Errorf("clear unknown memory status = %d, want 404", w.Code)
	}

	if w := do(t, r, http.MethodPut, "/api/session/"+created.SessionID+"/title", `{"title":"Greetings"}`); w.Code != http.StatusOK {
		t.Errorf("update title status = %d", w.Code)
	}
	sessions := decode[struct {
		Sessions []struct {
			Title string `json:"title"`
		} `json:"sessions"`
	}](t, do(t, r, http.MethodGet, "/api/sessions", "")).Sessions
	if len(sessions) != 1 || sessions[0].Title != "Greetings" {
		t.Errorf("sessions = %+v", sessions)
	}

	if w := do(t, r, http.MethodDelete, "/api/session/"+created.SessionID, ""); w.Code != http.StatusOK {
		t.Errorf("delete status = %d", w.Code)
	}
	sessions = decode[struct {
		Sessions []struct {
			Title string `json:"title"`
		} `json:"sessions"`
	}](t, do(t, r, http.MethodGet, "/api/sessions", "")).Sessions
	if len(sessions) != 0 {
		t.Errorf("sessions after delete = %+v", sessions)
	}
}

func TestChat_UnknownSession(t *testing.T) {
	m := llmtest.New()
	r, _ := newServer(t, m)

	stream := do(t, r, http.MethodPost, "/api/chat", `{"session_id":"nope","query":"hello"}`).Body.String()
	if !strings.Contains(stream, "event:error") || !strings.Contains(stream, controller.ErrSessionNotFound.Error()) {
		t.Errorf("stream = %s", stream)
	}
	if len(m.Calls()) != 0 {
		t.Errorf("model called %d times for an unknown session", len(m.Calls()))
	}
}

func TestCreateActivity(t *testing.T) {
	form := `{"activity_name":"River Kayak","activity_description":"Paddle along the Tagus.","location":"Belem tower","city":"Lisbon","max_participants":%d,"date_begin":"2026-03-07 10:00","date_finish":"2026-03-07 13:00"}`

	tests := []struct {
		name     string
		capacity string
		want     int
	}{
		{"created", "6", http.StatusCreated},
		{"invalid capacity", "0", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := llmtest.New().On(strings.Replace(form, "%d", tt.capacity, 1), "extract its fields")
			r, index := newServer(t, m)

			w := do(t, r, http.MethodPost, "/api/activities", `{"form":"kayak next saturday"}`)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.want, w.Body.String())
			}
			if tt.want != http.StatusCreated {
				return
			}
			created := decode[struct {
				ActivityID int64  `json:"activity_id"`
				State      string `json:"activity_state"`
			}](t, w)
			if created.State != string(model.ActivityOpen) {
				t.Errorf("state = %q", created.State)
			}
			if _, ok := index.docs[created.ActivityID]; !ok {
				t.Errorf("activity %d not indexed", created.ActivityID)
			}
		})
	}
}

func TestPendingReservations_Empty(t *testing.T) {
	r, _ := newServer(t, llmtest.New())

	w := do(t, r, http.MethodGet, "/api/reservations/pending", "")
	if got := decode[struct {
		Text string `json:"text"`
	}](t, w).Text; got != activity.MsgNoPendingReservations {
		t.Errorf("text = %q", got)
	}
}

func TestIngestCompanyDocument(t *testing.T) {
	r, index := newServer(t, llmtest.New())

	path := filepath.Join(t.TempDir(), "faq.md")
	if err := os.WriteFile(path, []byte("# FAQ\n\n## Refunds\n\nRefunds are issued within 14 days.\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := do(t, r, http.MethodPost, "/api/kb/ingest", `{"object_name":"`+path+`"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if chunks := decode[struct {
		Chunks int `json:"chunks"`
	}](t, w).Chunks; chunks == 0 || len(index.docs) != chunks {
		t.Errorf("chunks = %d, indexed = %d", chunks, len(index.docs))
	}

	if w := do(t, r, http.MethodPost, "/api/kb/ingest", `{"object_name":"slides.pptx"}`); w.Code != http.StatusBadRequest {
		t.Errorf("unsupported type status = %d, want 400", w.Code)
	}

	docs := decode[struct {
		Documents []struct {
			Status string `json:"status"`
		} `json:"documents"`
	}](t, do(t, r, http.MethodGet, "/api/kb/documents", "")).Documents
	if len(docs) != 1 || docs[0].Status != string(model.StatusProcessed) {
		t.Errorf("documents = %+v", docs)
	}
}

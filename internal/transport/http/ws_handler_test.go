package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/crypto/bcrypt"

	"rights-arcade/internal/app"
	"rights-arcade/internal/auth"
	"rights-arcade/internal/domain"
	"rights-arcade/internal/infra/memory"
)

type testDeps struct {
	api      *API
	ws       *WSHandler
	progress *app.ProgressStore
}

func newTestDeps(t *testing.T) testDeps {
	t.Helper()
	modes := []domain.ModeSpec{
		{ID: "quiz", Title: "Quiz", Kind: domain.KindQuiz, SampleSize: 1},
		{ID: "board", Title: "Board", Kind: domain.KindMatching},
	}
	catalogs := memory.NewCatalogRepository(memory.NewStaticCatalogLoader(map[domain.ModeID]domain.Catalog{
		"quiz": {Mode: "quiz", Entities: []domain.Entity{{
			ID:           "q1",
			Kind:         domain.KindQuiz,
			Prompt:       "Up to what age is school free and compulsory?",
			Options:      []string{"14", "10", "18"},
			CorrectIndex: 0,
			Explanation:  "The Right to Education Act covers children from 6 to 14.",
		}}},
		"board": {Mode: "board", Pairs: []domain.Pair{
			{ID: "p1", Scenario: "You are kept out of school", Solution: "Right to education"},
		}},
	}), time.Minute)

	kv := memory.NewKVStore()
	progress := app.NewProgressStore(kv, []domain.ModeID{"quiz", "board"})
	games := app.NewGameService(memory.NewSessionStore(), catalogs, progress, modes, time.Second)
	shell := app.NewShell(games, progress)
	forum := app.NewForumService(kv, time.Hour)
	docs := memory.NewDocumentStore()
	identity := auth.NewService(memory.NewUserStore(), docs, auth.Config{Secret: "test", Cost: bcrypt.MinCost})

	return testDeps{
		api:      NewAPI(shell, progress, app.NewPreferences(kv), forum, app.NewFeedbackService(identity, docs)),
		ws:       NewWSHandler(shell, games),
		progress: progress,
	}
}

func dial(t *testing.T, server *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?" + query
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func TestWebSocketQuizFlow(t *testing.T) {
	deps := newTestDeps(t)
	server := httptest.NewServer(NewRouter(deps.api, deps.ws))
	defer server.Close()

	conn := dial(t, server, "profileId=p1&mode=quiz")
	defer conn.Close()

	msgType, payload := readNext(conn, t, "state")
	if payload["kind"] != "quiz" {
		t.Fatalf("expected quiz session, got %v", payload["kind"])
	}
	if _, ok := payload["question"]; !ok {
		t.Fatalf("expected question in %s payload", msgType)
	}

	send(t, conn, "answer", map[string]any{"option": 0})
	result := waitFor(t, conn, "answerResult")
	if result["correct"] != true || result["points"] != float64(10) {
		t.Fatalf("unexpected answer result %+v", result)
	}

	send(t, conn, "advance", nil)
	finished := waitFor(t, conn, "finished")
	if finished["finished"] != true {
		t.Fatalf("expected finished view, got %+v", finished)
	}

	rec := deps.progress.Load(t.Context(), "p1")
	if rec.TotalScore != 10 || rec.Currency != 3 || rec.GamesPlayed != 1 {
		t.Fatalf("unexpected progress %+v", rec)
	}
}

func TestWebSocketMatchFlow(t *testing.T) {
	deps := newTestDeps(t)
	server := httptest.NewServer(NewRouter(deps.api, deps.ws))
	defer server.Close()

	conn := dial(t, server, "profileId=p1&mode=board")
	defer conn.Close()
	readNext(conn, t, "state")

	send(t, conn, "answer", map[string]any{"option": 0})
	errPayload := waitFor(t, conn, "error")
	if errPayload["message"] != domain.ErrWrongModeKind.Error() {
		t.Fatalf("expected wrong mode kind error, got %+v", errPayload)
	}

	send(t, conn, "match", map[string]any{"solutionId": "p1", "scenarioId": "p1"})
	res := waitFor(t, conn, "matchResult")
	if res["correct"] != true || res["complete"] != true {
		t.Fatalf("unexpected match result %+v", res)
	}
	waitFor(t, conn, "finished")

	if got := deps.progress.Load(t.Context(), "p1").Currency; got != 3 {
		t.Fatalf("expected board reward of 3, got %d", got)
	}
}

func TestWebSocketRequiresParams(t *testing.T) {
	deps := newTestDeps(t)
	server := httptest.NewServer(NewRouter(deps.api, deps.ws))
	defer server.Close()

	resp, err := http.Get(server.URL + "/ws?profileId=p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	conn := dial(t, server, "profileId=p1&mode=missing")
	defer conn.Close()
	_, payload := readNext(conn, t, "error")
	if !strings.Contains(payload["message"].(string), "mode not found") {
		t.Fatalf("unexpected error %+v", payload)
	}
}

func TestEmitStopsWhenWriterQuits(t *testing.T) {
	send := make(chan outboundMessage[any], 1)
	writerDone := make(chan struct{})

	if !emit(send, writerDone, outboundMessage[any]{Type: "state"}) {
		t.Fatalf("expected queued message while writer runs")
	}

	close(writerDone)
	result := make(chan bool, 1)
	go func() { result <- emit(send, writerDone, outboundMessage[any]{Type: "state"}) }()
	select {
	case ok := <-result:
		if ok {
			t.Fatalf("expected emit to fail once the writer quit")
		}
	case <-time.After(time.Second):
		t.Fatalf("emit blocked on a full queue after the writer quit")
	}
}

func send(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	if err := conn.WriteJSON(map[string]any{"type": typ, "payload": payload}); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

// waitFor skips state pushes until a message of type typ arrives.
func waitFor(t *testing.T, conn *websocket.Conn, typ string) map[string]any {
	t.Helper()
	for i := 0; i < 10; i++ {
		got, payload := readNext(conn, t, "")
		if got == typ {
			return payload
		}
	}
	t.Fatalf("no %s message received", typ)
	return nil
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s", expect, msg.Type)
	}
	return msg.Type, msg.Payload
}

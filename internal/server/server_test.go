package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap/zaptest"

	"github.com/lgbarn/chessrules-go/internal/chess"
	"github.com/lgbarn/chessrules-go/internal/config"
	"github.com/lgbarn/chessrules-go/internal/engine"
	"github.com/lgbarn/chessrules-go/internal/game"
	"github.com/lgbarn/chessrules-go/internal/replay"
	"github.com/lgbarn/chessrules-go/internal/search"
	"github.com/lgbarn/chessrules-go/internal/store"
	"github.com/lgbarn/chessrules-go/internal/testutil"
)

type envelope struct {
	Status int
	Body   json.RawMessage
}

func newTestServer(t *testing.T, cfg config.ServerConfig, opts ...Option) *httptest.Server {
	t.Helper()
	srv := New(cfg, store.NewMemoryStore(), zaptest.NewLogger(t), opts...)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func testEngine(t *testing.T) *search.Engine {
	cfg := config.NewSearchConfig()
	cfg.Depth = 1
	cfg.Seed = 1
	return search.New(*cfg, zaptest.NewLogger(t))
}

// call sends a request and decodes the envelope body into out. It returns
// the HTTP status code.
func call(t *testing.T, ts *httptest.Server, method, path, body string, out any) int {
	t.Helper()
	req, err := http.NewRequest(method, ts.URL+path, strings.NewReader(body))
	testutil.AssertNoError(t, err)
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("%s %s: decode envelope: %v", method, path, err)
	}
	testutil.AssertEqual(t, env.Status, resp.StatusCode, "envelope status")
	if out != nil && len(env.Body) > 0 {
		if err := json.Unmarshal(env.Body, out); err != nil {
			t.Fatalf("%s %s: decode body: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func TestGameLifecycle(t *testing.T) {
	ts := newTestServer(t, *config.NewServerConfig())

	var created GameView
	testutil.AssertEqual(t, call(t, ts, http.MethodPost, "/games", "", &created), http.StatusCreated)
	testutil.AssertEqual(t, created.ToMove, "W")
	testutil.AssertEqual(t, created.Status, "active")
	testutil.AssertEqual(t, len(created.LegalMoves), 20)
	testutil.AssertEqual(t, created.FEN, engine.InitialFEN)

	var moved GameView
	code := call(t, ts, http.MethodPost, "/games/"+created.ID+"/moves", `{"move":"e4"}`, &moved)
	testutil.AssertEqual(t, code, http.StatusOK)
	testutil.AssertEqual(t, moved.Played, []string{"e4"})
	testutil.AssertEqual(t, moved.ToMove, "B")
	testutil.AssertEqual(t, moved.MoveNumber, 1)
	testutil.AssertEqual(t, moved.FEN, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1")

	var fetched GameView
	testutil.AssertEqual(t, call(t, ts, http.MethodGet, "/games/"+created.ID, "", &fetched), http.StatusOK)
	testutil.AssertEqual(t, fetched.State, moved.State)

	for _, tok := range []string{"e5", "Bc4", "Nc6", "Qh5", "Nf6", "Qxf7"} {
		testutil.AssertEqual(t, call(t, ts, http.MethodPost, "/games/"+created.ID+"/moves", `{"move":"`+tok+`"}`, &moved), http.StatusOK, tok)
	}
	testutil.AssertEqual(t, moved.Status, "checkmate")
	testutil.AssertTrue(t, moved.Check)
	testutil.AssertEqual(t, len(moved.LegalMoves), 0)
	testutil.AssertEqual(t, moved.Played, []string{"Qxf7#"})

	var deleted DeleteResponse
	testutil.AssertEqual(t, call(t, ts, http.MethodDelete, "/games/"+created.ID, "", &deleted), http.StatusOK)
	testutil.AssertEqual(t, deleted.ID, created.ID)
	testutil.AssertEqual(t, call(t, ts, http.MethodGet, "/games/"+created.ID, "", nil), http.StatusNotFound)
	testutil.AssertEqual(t, call(t, ts, http.MethodDelete, "/games/"+created.ID, "", nil), http.StatusNotFound)
}

func TestMoveErrors(t *testing.T) {
	ts := newTestServer(t, *config.NewServerConfig())
	var created GameView
	call(t, ts, http.MethodPost, "/games", "", &created)

	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"illegal", "/games/" + created.ID + "/moves", `{"move":"Ke2"}`, http.StatusUnprocessableEntity},
		{"bad notation", "/games/" + created.ID + "/moves", `{"move":"zz"}`, http.StatusUnprocessableEntity},
		{"bad json", "/games/" + created.ID + "/moves", `{"move":`, http.StatusBadRequest},
		{"unknown field", "/games/" + created.ID + "/moves", `{"token":"e4"}`, http.StatusBadRequest},
		{"unknown game", "/games/7f1e1c2e-8a44-4d0c-9bb4-3c1f0e9a6a11/moves", `{"move":"e4"}`, http.StatusNotFound},
		{"malformed id", "/games/nope/moves", `{"move":"e4"}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body ErrorResponse
			testutil.AssertEqual(t, call(t, ts, http.MethodPost, tt.path, tt.body, &body), tt.want)
			testutil.AssertTrue(t, body.Error != "", "error text")
		})
	}

	var fetched GameView
	call(t, ts, http.MethodGet, "/games/"+created.ID, "", &fetched)
	testutil.AssertEqual(t, fetched.State, created.State, "rejected moves must not change the game")
}

func TestNewGameTeamErrors(t *testing.T) {
	ts := newTestServer(t, *config.NewServerConfig())
	testutil.AssertEqual(t, call(t, ts, http.MethodPost, "/games", `{"team":"B"}`, nil), http.StatusBadRequest, "no engine")

	ts = newTestServer(t, *config.NewServerConfig(), WithEngine(testEngine(t)))
	testutil.AssertEqual(t, call(t, ts, http.MethodPost, "/games", `{"team":"X"}`, nil), http.StatusBadRequest)
	testutil.AssertEqual(t, call(t, ts, http.MethodPost, "/games", `{"team":"WB"}`, nil), http.StatusBadRequest)
}

func TestEngineReplies(t *testing.T) {
	ts := newTestServer(t, *config.NewServerConfig(), WithEngine(testEngine(t)))

	var g GameView
	testutil.AssertEqual(t, call(t, ts, http.MethodPost, "/games", `{"team":"B"}`, &g), http.StatusCreated)
	testutil.AssertEqual(t, g.Engine, "B")
	testutil.AssertEqual(t, call(t, ts, http.MethodPost, "/games/"+g.ID+"/moves", `{"move":"e4"}`, &g), http.StatusOK)
	testutil.AssertEqual(t, len(g.Played), 2)
	testutil.AssertEqual(t, g.ToMove, "W")
	testutil.AssertEqual(t, g.MoveNumber, 2)

	var w GameView
	testutil.AssertEqual(t, call(t, ts, http.MethodPost, "/games", `{"team":"W"}`, &w), http.StatusCreated)
	testutil.AssertEqual(t, len(w.Played), 1)
	testutil.AssertEqual(t, w.ToMove, "B")
}

func TestEngineSideWithoutReplies(t *testing.T) {
	cfg := config.NewServerConfig()
	cfg.EngineReplies = false
	ts := newTestServer(t, *cfg, WithEngine(testEngine(t)))

	testutil.AssertEqual(t, call(t, ts, http.MethodPost, "/games", `{"team":"W"}`, nil), http.StatusBadRequest)
	testutil.AssertEqual(t, call(t, ts, http.MethodPost, "/games", `{"team":"B"}`, nil), http.StatusBadRequest)

	var g GameView
	testutil.AssertEqual(t, call(t, ts, http.MethodPost, "/games", `{}`, &g), http.StatusCreated)
	testutil.AssertEqual(t, call(t, ts, http.MethodPost, "/games/"+g.ID+"/moves", `{"move":"e4"}`, &g), http.StatusOK)
	testutil.AssertEqual(t, g.Played, []string{"e4"})
}

func TestEngineToMoveConflict(t *testing.T) {
	// A stored game whose engine side is to move, served after replies
	// were switched off.
	cfg := config.NewServerConfig()
	cfg.EngineReplies = false
	srv := New(*cfg, store.NewMemoryStore(), zaptest.NewLogger(t), WithEngine(testEngine(t)))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	st := game.NewGameState()
	testutil.AssertNoError(t, srv.saveSession(context.Background(), session{Engine: "W"}, st))
	testutil.AssertEqual(t, call(t, ts, http.MethodPost, "/games/"+st.ID.String()+"/moves", `{"move":"e4"}`, nil), http.StatusConflict)
}

func TestValidate(t *testing.T) {
	ts := newTestServer(t, *config.NewServerConfig())

	initial := chess.NewInitialBoard()
	after := initial.Copy()
	err := engine.ApplyMove(after, chess.Move{Piece: chess.FreshPawn, From: chess.Sq(2, 5), To: chess.Sq(4, 5)}, chess.White)
	testutil.AssertNoError(t, err)
	before := engine.BoardToString(initial, chess.White)
	afterState := engine.BoardToString(after, chess.Black)

	tests := []struct {
		name  string
		body  string
		code  int
		valid bool
	}{
		{"legal", `{"before":"` + before + `","after":"` + afterState + `"}`, http.StatusOK, true},
		{"wrong team", `{"before":"` + before + `","after":"` + afterState + `","team":"B"}`, http.StatusOK, false},
		{"no change", `{"before":"` + before + `","after":"` + before + `"}`, http.StatusOK, false},
		{"bad state", `{"before":"Q","after":"` + before + `"}`, http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp ValidateResponse
			testutil.AssertEqual(t, call(t, ts, http.MethodPost, "/validate", tt.body, &resp), tt.code)
			if tt.code != http.StatusOK {
				return
			}
			testutil.AssertEqual(t, resp.Valid, tt.valid)
			testutil.AssertEqual(t, resp.Reason == "", tt.valid, "reason %q", resp.Reason)
		})
	}
}

func TestParse(t *testing.T) {
	ts := newTestServer(t, *config.NewServerConfig())
	state := engine.BoardToString(chess.NewInitialBoard(), chess.White)

	var resp ParseResponse
	code := call(t, ts, http.MethodPost, "/parse", `{"state":"`+state+`","move":"g1f3"}`, &resp)
	testutil.AssertEqual(t, code, http.StatusOK)
	testutil.AssertEqual(t, resp.Move, "g1f3")
	testutil.AssertEqual(t, resp.SAN, "Nf3")
	testutil.AssertEqual(t, resp.Piece, "Knight")
	testutil.AssertTrue(t, strings.HasPrefix(resp.State, "B"), "state %q", resp.State)

	testutil.AssertEqual(t, call(t, ts, http.MethodPost, "/parse", `{"state":"`+state+`","move":"Nd2"}`, nil), http.StatusUnprocessableEntity)
	testutil.AssertEqual(t, call(t, ts, http.MethodPost, "/parse", `{"state":"","move":"e4"}`, nil), http.StatusBadRequest)
}

func TestGetRecord(t *testing.T) {
	archive := store.NewMemoryArchive()
	rec := &replay.GameRecord{ID: "game-1", Result: "1-0", SAN: []string{"e4"}, Plies: 1}
	testutil.AssertNoError(t, archive.Put(context.Background(), rec))

	ts := newTestServer(t, *config.NewServerConfig(), WithArchive(archive))
	var got replay.GameRecord
	testutil.AssertEqual(t, call(t, ts, http.MethodGet, "/records/game-1", "", &got), http.StatusOK)
	testutil.AssertEqual(t, got.Result, "1-0")
	testutil.AssertEqual(t, got.SAN, []string{"e4"})
	testutil.AssertEqual(t, call(t, ts, http.MethodGet, "/records/missing", "", nil), http.StatusNotFound)

	bare := newTestServer(t, *config.NewServerConfig())
	testutil.AssertEqual(t, call(t, bare, http.MethodGet, "/records/game-1", "", nil), http.StatusNotFound)
}

func TestWebsocket(t *testing.T) {
	ts := newTestServer(t, *config.NewServerConfig())
	var g GameView
	call(t, ts, http.MethodPost, "/games", "", &g)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/games/" + g.ID + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	read := func(out any) int {
		t.Helper()
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		var env envelope
		if err := conn.ReadJSON(&env); err != nil {
			t.Fatalf("read: %v", err)
		}
		if out != nil {
			if err := json.Unmarshal(env.Body, out); err != nil {
				t.Fatalf("decode: %v", err)
			}
		}
		return env.Status
	}

	var view GameView
	testutil.AssertEqual(t, read(&view), http.StatusOK)
	testutil.AssertEqual(t, view.State, g.State)

	testutil.AssertNoError(t, conn.WriteMessage(websocket.TextMessage, []byte("e4")))
	testutil.AssertEqual(t, read(&view), http.StatusOK)
	testutil.AssertEqual(t, view.Played, []string{"e4"})
	testutil.AssertEqual(t, view.ToMove, "B")

	testutil.AssertNoError(t, conn.WriteMessage(websocket.TextMessage, []byte("zz")))
	var e ErrorResponse
	testutil.AssertEqual(t, read(&e), http.StatusUnprocessableEntity)
	testutil.AssertTrue(t, e.Error != "")

	// Moves made over HTTP reach the socket too.
	call(t, ts, http.MethodPost, "/games/"+g.ID+"/moves", `{"move":"e5"}`, nil)
	testutil.AssertEqual(t, read(&view), http.StatusOK)
	testutil.AssertEqual(t, view.Played, []string{"e5"})
}

func TestWebsocketUnknownGame(t *testing.T) {
	ts := newTestServer(t, *config.NewServerConfig())
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/games/7f1e1c2e-8a44-4d0c-9bb4-3c1f0e9a6a11/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	testutil.AssertError(t, err)
	if resp != nil {
		testutil.AssertEqual(t, resp.StatusCode, http.StatusNotFound)
	}
}

// Package server exposes the rules engine over HTTP and websockets.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lgbarn/chessrules-go/internal/chess"
	"github.com/lgbarn/chessrules-go/internal/config"
	"github.com/lgbarn/chessrules-go/internal/engine"
	"github.com/lgbarn/chessrules-go/internal/game"
	"github.com/lgbarn/chessrules-go/internal/parser"
	"github.com/lgbarn/chessrules-go/internal/search"
	"github.com/lgbarn/chessrules-go/internal/store"
)

// Server serves games kept in a StateStore.
type Server struct {
	cfg     config.ServerConfig
	states  store.StateStore
	archive store.RecordArchive
	engine  *search.Engine
	logger  *zap.Logger
	hub     *hub
	router  chi.Router

	// mu serializes moves so concurrent requests cannot fork a game.
	mu sync.Mutex
}

// Option configures a Server.
type Option func(*Server)

// WithEngine lets games be created with an engine side.
func WithEngine(e *search.Engine) Option {
	return func(s *Server) { s.engine = e }
}

// WithArchive serves replayed game records from a.
func WithArchive(a store.RecordArchive) Option {
	return func(s *Server) { s.archive = a }
}

// New creates a Server. A nil logger disables logging.
func New(cfg config.ServerConfig, states store.StateStore, logger *zap.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cfg:    cfg,
		states: states,
		logger: logger,
		hub:    newHub(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on the configured address until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	hs := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()
	s.logger.Info("listening", zap.String("addr", s.cfg.Addr))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return hs.Shutdown(shutdownCtx)
	}
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Post("/games", s.handleNewGame)
	r.Route("/games/{id}", func(r chi.Router) {
		r.Get("/", s.handleGetGame)
		r.Delete("/", s.handleDeleteGame)
		r.Post("/moves", s.handleMove)
		r.Get("/ws", s.handleWebsocket)
	})
	r.Post("/validate", s.handleValidate)
	r.Post("/parse", s.handleParse)
	r.Get("/records/{id}", s.handleGetRecord)
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

type newGameRequest struct {
	// Team is the side the engine plays: "W", "B" or empty.
	Team string `json:"team"`
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameRequest
	if err := decodeBody(r, &req, true); err != nil {
		writeError(w, err)
		return
	}

	sess := session{}
	if req.Team != "" {
		if len(req.Team) != 1 {
			writeError(w, fmt.Errorf("team %q: %w", req.Team, errBadRequest))
			return
		}
		if _, ok := chess.TeamFromLetter(req.Team[0]); !ok {
			writeError(w, fmt.Errorf("team %q: %w", req.Team, errBadRequest))
			return
		}
		if s.engine == nil {
			writeError(w, fmt.Errorf("no engine configured: %w", errBadRequest))
			return
		}
		if !s.cfg.EngineReplies {
			writeError(w, fmt.Errorf("engine replies are disabled: %w", errBadRequest))
			return
		}
		sess.Engine = req.Team
	}

	st := game.NewGameState()
	var played []string
	if team, ok := sess.engineTeam(); ok && team == st.ToMove {
		san, err := s.engineMove(r.Context(), st)
		if err != nil {
			s.logger.Error("engine move failed", zap.Error(err))
			writeError(w, err)
			return
		}
		played = append(played, san)
	}

	if err := s.saveSession(r.Context(), sess, st); err != nil {
		s.logger.Error("save game", zap.Error(err))
		writeError(w, err)
		return
	}
	s.logger.Info("game created", zap.Stringer("game", st.ID), zap.String("engine", sess.Engine))
	writeResponse(w, http.StatusCreated, newGameView(sess, st, played))
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	sess, st, err := s.loadSession(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeResponse(w, http.StatusOK, newGameView(sess, st, nil))
}

// DeleteResponse names a removed game.
type DeleteResponse struct {
	ID string `json:"id"`
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	s.mu.Lock()
	err = s.states.Delete(r.Context(), id.String())
	s.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}
	s.logger.Info("game deleted", zap.Stringer("game", id))
	writeResponse(w, http.StatusOK, DeleteResponse{ID: id.String()})
}

type moveRequest struct {
	Move string `json:"move"`
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req moveRequest
	if err := decodeBody(r, &req, false); err != nil {
		writeError(w, err)
		return
	}

	view, err := s.play(r.Context(), id, req.Move)
	if err != nil {
		s.logger.Info("move rejected", zap.Stringer("game", id), zap.String("move", req.Move), zap.Error(err))
		writeError(w, err)
		return
	}
	writeResponse(w, http.StatusOK, view)
}

// play applies a player's move to a stored game, answers with the engine
// when configured, saves the result and notifies websocket subscribers.
func (s *Server) play(ctx context.Context, id uuid.UUID, token string) (GameView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, st, err := s.loadSession(ctx, id)
	if err != nil {
		return GameView{}, err
	}
	engineTeam, hasEngine := sess.engineTeam()
	if hasEngine && engineTeam == st.ToMove {
		return GameView{}, errEngineToMove
	}

	player := game.NewScripted(token)
	before := st.Board
	team := st.ToMove
	m, err := game.New(st, player, player, s.logger).Step(ctx)
	if err != nil {
		return GameView{}, err
	}
	played := []string{parser.Format(before, m, team)}

	if hasEngine && s.cfg.EngineReplies && st.ToMove == engineTeam && engine.HasLegalMoves(st.Board, st.ToMove) {
		san, err := s.engineMove(ctx, st)
		if err != nil {
			return GameView{}, err
		}
		played = append(played, san)
	}

	if err := s.saveSession(ctx, sess, st); err != nil {
		return GameView{}, err
	}
	view := newGameView(sess, st, played)
	s.hub.broadcast(id.String(), Response{Status: http.StatusOK, Body: view})
	return view, nil
}

// engineMove plays one engine ply on st and returns its notation.
func (s *Server) engineMove(ctx context.Context, st *game.GameState) (string, error) {
	src := game.NewSearcher(s.engine)
	before := st.Board
	team := st.ToMove
	m, err := game.New(st, src, src, s.logger).Step(ctx)
	if err != nil {
		return "", err
	}
	return parser.Format(before, m, team), nil
}

type validateRequest struct {
	Before string `json:"before"`
	After  string `json:"after"`
	Team   string `json:"team"`
}

// ValidateResponse reports whether a board transition is one legal move.
type ValidateResponse struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := decodeBody(r, &req, false); err != nil {
		writeError(w, err)
		return
	}
	before, toMove, err := engine.StringToBoard(req.Before)
	if err != nil {
		writeError(w, err)
		return
	}
	after, _, err := engine.StringToBoard(req.After)
	if err != nil {
		writeError(w, err)
		return
	}
	team := toMove
	if req.Team != "" {
		t, ok := chess.TeamFromLetter(req.Team[0])
		if !ok || len(req.Team) != 1 {
			writeError(w, fmt.Errorf("team %q: %w", req.Team, errBadRequest))
			return
		}
		team = t
	}

	resp := ValidateResponse{Valid: true}
	if err := engine.CheckTransition(before, after, team); err != nil {
		resp = ValidateResponse{Reason: err.Error()}
	}
	writeResponse(w, http.StatusOK, resp)
}

type parseRequest struct {
	State string `json:"state"`
	Move  string `json:"move"`
}

// ParseResponse describes a resolved move.
type ParseResponse struct {
	Move      string `json:"move"`
	SAN       string `json:"san"`
	From      string `json:"from"`
	To        string `json:"to"`
	Piece     string `json:"piece"`
	EnPassant bool   `json:"en_passant,omitempty"`
	Castle    bool   `json:"castle,omitempty"`
	Promotion string `json:"promotion,omitempty"`
	State     string `json:"state"`
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := decodeBody(r, &req, false); err != nil {
		writeError(w, err)
		return
	}
	board, team, err := engine.StringToBoard(req.State)
	if err != nil {
		writeError(w, err)
		return
	}
	m, err := parser.ParseMove(board, req.Move, team)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := ParseResponse{
		Move:      m.String(),
		SAN:       parser.Format(board, m, team),
		From:      m.From.String(),
		To:        m.To.String(),
		Piece:     m.Piece.String(),
		EnPassant: m.EnPassant,
		Castle:    m.Castle,
	}
	if m.IsPromotion() {
		resp.Promotion = m.Promotion.String()
	}
	next := board.Copy()
	if err := engine.ApplyMove(next, m, team); err != nil {
		writeError(w, err)
		return
	}
	resp.State = engine.BoardToString(next, team.Opponent())
	writeResponse(w, http.StatusOK, resp)
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		writeError(w, store.ErrNotFound)
		return
	}
	rec, err := s.archive.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeResponse(w, http.StatusOK, rec)
}

func gameID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("game %q: %w", chi.URLParam(r, "id"), store.ErrNotFound)
	}
	return id, nil
}

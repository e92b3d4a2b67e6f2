package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"connect4/communication"
	"connect4/game"
	"connect4/meta"
	"connect4/searcher"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Server answers move requests over HTTP and hosts websocket games against the
// configured agent.
type Server struct {
	config   meta.ServerConfig
	rules    game.Rules
	router   chi.Router
	upgrader websocket.Upgrader
}

// NewServer validates the server agent. An agent without a timeout gets
// meta.SERVER_SEARCH_TIMEOUT so no request can search unbounded.
func NewServer(config meta.ServerConfig, rules game.Rules) (*Server, error) {
	if config.MaxDepth <= 0 {
		return nil, fmt.Errorf("server max depth must be positive, got %d", config.MaxDepth)
	}
	if depth := config.Agent.SearchDepth(); depth > config.MaxDepth {
		return nil, fmt.Errorf("server agent depth %d exceeds max depth %d", depth, config.MaxDepth)
	}
	if config.Agent.Timeout <= 0 {
		config.Agent.Timeout = meta.SERVER_SEARCH_TIMEOUT
	}
	if _, err := searcher.FromConfig(config.Agent); err != nil {
		return nil, fmt.Errorf("invalid server agent: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	s := &Server{
		config: config,
		rules:  rules,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/ping", s.handlePing)
	r.Post("/move", s.handleMove)
	r.Get("/ws", s.handleWebSocket)
	s.router = r
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("agent server listening on %s", s.config.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("agent server stopped: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down agent server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down agent server: %w", err)
	}
	return nil
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, meta.MAX_REQUEST_BYTES)
	var req communication.MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid payload: %w", err))
		return
	}
	if req.Board.Rows() == 0 {
		writeError(w, http.StatusBadRequest, errors.New("missing board"))
		return
	}
	player := req.Player
	if player == game.Empty {
		next, err := req.Board.NextPlayer()
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		player = next
	}

	agent := s.agentFor(req)
	if depth := agent.SearchDepth(); depth > s.config.MaxDepth {
		writeError(w, http.StatusBadRequest, fmt.Errorf("search depth %d exceeds the server limit of %d", depth, s.config.MaxDepth))
		return
	}
	search, err := searcher.FromConfig(agent, searcher.WithMetrics())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	result, err := search.FindMove(r.Context(), req.Board, player)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, communication.MoveResponse{
		Column:   result.Column,
		Mode:     search.Mode().String(),
		Depth:    search.Depth(),
		Score:    communication.Score(result.Score),
		TimedOut: result.Metrics.TimedOut,
		Nodes:    result.Metrics.Nodes,
	})
}

// agentFor overrides the server's agent with the fields set in req. The timeout always
// comes from the server.
func (s *Server) agentFor(req communication.MoveRequest) meta.AgentConfig {
	agent := s.config.Agent
	if req.Mode != "" {
		agent.Kind = req.Mode
	}
	if req.Depth != 0 {
		agent.Depth = req.Depth
	}
	if req.Evaluator != "" {
		agent.Evaluator = req.Evaluator
	}
	return agent
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrNoLegalMoves):
		return http.StatusConflict
	case errors.Is(err, game.ErrInvalidDepth), errors.Is(err, game.ErrInvalidPiece), errors.Is(err, game.ErrInvalidBoard):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, communication.ErrorResponse{Error: err.Error()})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

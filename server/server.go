// Package server is the thin HTTP/WebSocket layer over the engine. It
// relays engine output verbatim and owns no retrieval logic.
package server

import (
	"encoding/json"
	"log"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"insurebot/internal/types"
	"insurebot/pkg/bot"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Be careful with this in production
	},
}

type Config struct {
	Addr      string
	StaticDir string
}

type Server struct {
	config    Config
	bot       *bot.Bot
	retriever types.Retriever
}

type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

func New(config Config, b *bot.Bot, retriever types.Retriever) *Server {
	if config.Addr == "" {
		config.Addr = ":8000"
	}
	return &Server{
		config:    config,
		bot:       b,
		retriever: retriever,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("GET /history/{session_id}", s.handleHistory)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ws", s.handleWebSocket)

	if s.config.StaticDir != "" {
		if _, err := os.Stat(s.config.StaticDir); err == nil {
			mux.Handle("GET /static/", http.StripPrefix("/static/",
				http.FileServer(http.Dir(s.config.StaticDir))))
		}
	}
	return mux
}

func (s *Server) ListenAndServe() error {
	log.Printf("Starting server on %s", s.config.Addr)
	return http.ListenAndServe(s.config.Addr, s.Handler())
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid request, expected JSON: {\"message\":\"...\"}",
		})
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	result := s.bot.HandleTurn(r.Context(), req.Message, sessionID)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("session_id")

	history, err := s.bot.History(r.Context(), sessionID, 0)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to load history",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": sessionID,
		"history":    history,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ready := s.retriever != nil && s.retriever.Size() > 0
	status := "healthy"
	if !ready {
		status = "degraded"
	}

	chunks := 0
	if s.retriever != nil {
		chunks = s.retriever.Size()
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":        status,
		"chatbot_ready": ready,
		"chunks_loaded": chunks,
	})
}

// handleWebSocket runs a chat session over one connection: each
// incoming ChatRequest gets one TurnResult back.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	sessionID := uuid.NewString()

	for {
		var req ChatRequest
		if err := conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("Error reading message: %v", err)
			}
			return
		}
		if req.SessionID != "" {
			sessionID = req.SessionID
		}

		result := s.bot.HandleTurn(r.Context(), req.Message, sessionID)
		if err := conn.WriteJSON(result); err != nil {
			log.Printf("Error sending message: %v", err)
			return
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// Package server exposes observed input events to local and remote
// clients over an HTTP API with WebSocket streaming.
package server

import (
	"encoding/json"
	"net"
	"net/http"

	"go.uber.org/zap"

	"keytap"
	"keytap/internal/config"
	"keytap/layout"
)

// Injector synthesizes one input event on the local machine.
type Injector func(keytap.EventType) error

// Server provides the daemon HTTP API
type Server struct {
	configMgr *config.Manager
	log       *zap.SugaredLogger
	inject    Injector
	token     string
	wsMgr     *WSManager
}

// NewServer creates a new API server. inject is called for events that
// clients ask the daemon to synthesize locally.
func NewServer(configMgr *config.Manager, log *zap.SugaredLogger, inject Injector) *Server {
	s := &Server{
		configMgr: configMgr,
		log:       log,
		inject:    inject,
	}
	s.wsMgr = newWSManager(s)
	return s
}

// BroadcastEvent streams one observed event to every connected client
// whose subscription matches.
func (s *Server) BroadcastEvent(ev keytap.Event) {
	s.wsMgr.BroadcastEvent(ev)
}

// ClientCount returns the number of connected WebSocket clients.
func (s *Server) ClientCount() int {
	return s.wsMgr.clientCount()
}

// Start starts the API server on addr. It blocks until the listener
// fails or the server is shut down.
func (s *Server) Start(addr string) error {
	cfg := s.configMgr.Get()
	s.token = cfg.Server.Token

	go s.wsMgr.start()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/ws", s.wsMgr.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	s.log.Infof("api server: listening on %s", addr)

	// Explicit tcp4 avoids IPv6-only binding issues on Windows
	ln, err := net.Listen("tcp4", addr)
	if err != nil {
		s.log.Errorf("api server: failed to listen on %s: %v", addr, err)
		return err
	}

	server := &http.Server{
		Handler: s.authMiddleware(s.recoverMiddleware(mux)),
	}

	if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
		s.log.Errorf("api server: stopped: %v", err)
		return err
	}
	return nil
}

// recoverMiddleware prevents panics from crashing the whole server
func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				s.log.Errorf("api server: panic recovered: %v", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// authMiddleware checks the API token if one is configured
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.log.Debugf("api: %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)

		// Skip auth for the health check; WebSocket clients authenticate
		// with their first message instead.
		if r.URL.Path == "/health" || r.URL.Path == "/ws" {
			next.ServeHTTP(w, r)
			return
		}

		if s.token != "" {
			if r.Header.Get("Authorization") != "Bearer "+s.token {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// handleStatus handles GET /api/status
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	layoutName := ""
	if l, err := layout.Active(); err == nil {
		layoutName = l.Name()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"version": keytap.Version,
		"layout":  layoutName,
		"clients": s.wsMgr.clientCount(),
	})
}

// handleConfig handles GET (read) and POST (update) for configuration
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		cfg := s.configMgr.Get()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(cfg)

	case "POST":
		var newCfg config.Config
		if err := json.NewDecoder(r.Body).Decode(&newCfg); err != nil {
			http.Error(w, "Invalid configuration data", http.StatusBadRequest)
			return
		}

		s.log.Infof("api: receiving configuration update from %s", r.RemoteAddr)

		s.configMgr.Set(&newCfg)
		if err := s.configMgr.Save(); err != nil {
			s.log.Errorf("api: failed to save received config: %v", err)
			http.Error(w, "Failed to save configuration", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleHealth handles GET /health (for monitoring and LAN discovery)
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

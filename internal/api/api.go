// Package api exposes the thin CRUD surface around the alerting core:
// alerts, device tokens and the notification history. Authentication
// is handled upstream and is not part of this service.
package api

import (
	"net/http"
	"strconv"
	"strings"

	"tinychain-alerting/internal/database"
)

type Server struct {
	store *database.Store
}

func NewServer(store *database.Store) *Server {
	return &Server{store: store}
}

// Routes attaches all endpoints to the given mux.
func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/alerts", s.alertsHandler)
	mux.HandleFunc("/alerts/", s.alertsHandler)
	mux.HandleFunc("/devices", s.devicesHandler)
	mux.HandleFunc("/devices/", s.devicesHandler)
	mux.HandleFunc("/history", s.historyHandler)
}

func (s *Server) alertsHandler(w http.ResponseWriter, r *http.Request) {
	if id, ok := pathID(r.URL.Path, "/alerts/"); ok {
		switch r.Method {
		case http.MethodDelete:
			s.deleteAlert(w, r, id)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.listAlerts(w, r)
	case http.MethodPost:
		s.createAlert(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) devicesHandler(w http.ResponseWriter, r *http.Request) {
	if id, ok := pathID(r.URL.Path, "/devices/"); ok {
		switch r.Method {
		case http.MethodDelete:
			s.deleteDevice(w, r, id)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.listDevices(w, r)
	case http.MethodPost:
		s.registerDevice(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) historyHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.listHistory(w, r)
}

// pathID extracts a numeric trailing ID from paths like /alerts/42.
func pathID(path, prefix string) (int64, bool) {
	if !strings.HasPrefix(path, prefix) {
		return 0, false
	}
	rest := strings.TrimPrefix(path, prefix)
	if rest == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

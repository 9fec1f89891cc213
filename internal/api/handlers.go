package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"tinychain-alerting/internal/types"
)

type response struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type createAlertRequest struct {
	UserID    int64  `json:"user_id"`
	Exchange  string `json:"exchange"`
	Coinpair  string `json:"coinpair"`
	Indicator string `json:"indicator"`
	Limit     string `json:"limit"`
}

type registerDeviceRequest struct {
	UserID     int64  `json:"user_id"`
	Token      string `json:"token"`
	DeviceType string `json:"device_type"`
}

type historyEntry struct {
	types.NotificationHistory
	SentAgo string `json:"sent_ago"`
}

func (s *Server) listAlerts(w http.ResponseWriter, r *http.Request) {
	userID, err := queryUserID(r)
	if err != nil {
		http.Error(w, "Missing or invalid user_id", http.StatusBadRequest)
		return
	}

	alerts, err := s.store.GetAlertsByUserID(userID)
	if err != nil {
		log.Errorf("failed to fetch alerts for user %d: %v", userID, err)
		http.Error(w, "Failed to fetch alerts", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, response{Message: "Alerts retrieved successfully", Data: alerts})
}

func (s *Server) createAlert(w http.ResponseWriter, r *http.Request) {
	var req createAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.UserID == 0 || req.Exchange == "" || req.Coinpair == "" {
		http.Error(w, "Missing required fields: user_id, exchange, coinpair", http.StatusBadRequest)
		return
	}
	indicator := types.Indicator(req.Indicator)
	if !indicator.Valid() {
		http.Error(w, "Indicator must be '>' or '<'", http.StatusBadRequest)
		return
	}
	limit, err := decimal.NewFromString(req.Limit)
	if err != nil {
		http.Error(w, "Limit must be a decimal number", http.StatusBadRequest)
		return
	}
	if _, err := s.store.GetUser(req.UserID); err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	id, err := s.store.InsertAlert(req.UserID, req.Exchange, req.Coinpair, indicator, limit)
	if err != nil {
		log.Errorf("failed to create alert: %v", err)
		http.Error(w, "Failed to create alert", http.StatusInternalServerError)
		return
	}

	alert, err := s.store.GetAlert(id)
	if err != nil {
		log.Errorf("failed to load created alert %d: %v", id, err)
		http.Error(w, "Failed to create alert", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, response{Message: "Alert created successfully", Data: alert})
}

func (s *Server) deleteAlert(w http.ResponseWriter, r *http.Request, id int64) {
	if err := s.store.DeleteAlert(id); err != nil {
		log.Errorf("failed to delete alert %d: %v", id, err)
		http.Error(w, "Failed to delete alert", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, response{Message: "Alert deleted successfully"})
}

func (s *Server) listDevices(w http.ResponseWriter, r *http.Request) {
	userID, err := queryUserID(r)
	if err != nil {
		http.Error(w, "Missing or invalid user_id", http.StatusBadRequest)
		return
	}

	tokens, err := s.store.GetDeviceTokensByUserID(userID)
	if err != nil {
		log.Errorf("failed to fetch device tokens for user %d: %v", userID, err)
		http.Error(w, "Failed to fetch device tokens", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, response{Message: "Device tokens retrieved successfully", Data: tokens})
}

func (s *Server) registerDevice(w http.ResponseWriter, r *http.Request) {
	var req registerDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.UserID == 0 || req.Token == "" {
		http.Error(w, "Missing required fields: user_id, token", http.StatusBadRequest)
		return
	}
	if !types.ValidDeviceType(req.DeviceType) {
		http.Error(w, "Device type must be one of ios, android, windows, macos", http.StatusBadRequest)
		return
	}

	id, err := s.store.InsertDeviceToken(req.UserID, req.Token, req.DeviceType)
	if err != nil {
		log.Errorf("failed to register device token: %v", err)
		http.Error(w, "Failed to register device token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, response{Message: "Device token registered successfully", Data: map[string]int64{"id": id}})
}

func (s *Server) deleteDevice(w http.ResponseWriter, r *http.Request, id int64) {
	if err := s.store.DeleteDeviceToken(id); err != nil {
		log.Errorf("failed to delete device token %d: %v", id, err)
		http.Error(w, "Failed to delete device token", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, response{Message: "Device token deleted successfully"})
}

func (s *Server) listHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := queryUserID(r)
	if err != nil {
		http.Error(w, "Missing or invalid user_id", http.StatusBadRequest)
		return
	}

	records, err := s.store.GetNotificationHistoryByUserID(userID)
	if err != nil {
		log.Errorf("failed to fetch notification history for user %d: %v", userID, err)
		http.Error(w, "Failed to fetch notification history", http.StatusInternalServerError)
		return
	}

	entries := make([]historyEntry, 0, len(records))
	for _, h := range records {
		entries = append(entries, historyEntry{
			NotificationHistory: h,
			SentAgo:             humanize.Time(h.SentAt),
		})
	}

	writeJSON(w, http.StatusOK, response{Message: "Notification history retrieved successfully", Data: entries})
}

func queryUserID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Errorf("failed to encode JSON response: %v", err)
	}
}

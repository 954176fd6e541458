package handlers

import (
	"encoding/json"
	"net/http"

	"vendex/i18n"
	"vendex/logger"
)

type APIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// LoginResponse is the data of a successful API login.
type LoginResponse struct {
	Token    string `json:"token"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// SnackItem is one element of the /api/snacks listing.
type SnackItem struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Stock      int    `json:"stock"`
	ExpiryDate string `json:"expiry_date"`
}

func sendJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Log.Warnw("could not write json response", "error", err)
	}
}

func (s *Server) apiError(w http.ResponseWriter, r *http.Request, status int, key string) {
	sendJSON(w, status, APIResponse{Status: "error", Message: i18n.T(i18n.DetectLanguage(r), key)})
}

func (s *Server) apiLogin(w http.ResponseWriter, r *http.Request) {
	ip := getClientIP(r)
	if !s.loginLimiter.Allow(ip) {
		s.apiError(w, r, http.StatusTooManyRequests, "TooManyAttempts")
		return
	}

	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.apiError(w, r, http.StatusBadRequest, "InvalidRequestBody")
		return
	}

	p, err := s.auth.Authenticate(r.Context(), input.Username, input.Password)
	if err != nil {
		s.loginLimiter.RecordFailure(ip)
		s.apiError(w, r, http.StatusUnauthorized, "InvalidCredentials")
		return
	}
	s.loginLimiter.Reset(ip)

	token, err := s.tokens.Issue(p)
	if err != nil {
		logger.Log.Errorw("could not issue token", "user_id", p.UserID, "error", err)
		s.apiError(w, r, http.StatusInternalServerError, "InternalServerError")
		return
	}

	sendJSON(w, http.StatusOK, APIResponse{
		Status: "success",
		Data: LoginResponse{
			Token:    token,
			UserID:   p.UserID,
			Username: p.Username,
			Role:     string(p.Role),
		},
	})
}

// apiSnacks lists every snack as a bare JSON array, empty when there are none.
func (s *Server) apiSnacks(w http.ResponseWriter, r *http.Request) {
	snacks := s.inventory.ListSnacks(r.Context())
	items := make([]SnackItem, 0, len(snacks))
	for _, sn := range snacks {
		items = append(items, SnackItem{ID: sn.ID, Name: sn.Name, Stock: sn.Stock, ExpiryDate: sn.ExpiryDate})
	}
	sendJSON(w, http.StatusOK, items)
}

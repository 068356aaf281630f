package api

import (
	"encoding/json"
	"net/http"
)

type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Users    int    `json:"users" example:"3"`
	Sessions int    `json:"sessions" example:"1"`
}

// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Router       /health [get]
func (s *Server) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HealthResponse{
		Status:   "ok",
		Users:    s.users.Count(),
		Sessions: s.sessions.Len(),
	})
}

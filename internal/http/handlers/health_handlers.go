package handlers

import (
	"context"
	"net/http"
	"time"
)

// Health godoc
// @Summary Liveness and dependency status
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "OK", Message: "Target Lock API is running"}
	status := http.StatusOK

	if len(s.checks) > 0 {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp.Checks = make(map[string]string, len(s.checks))
		for _, c := range s.checks {
			if err := c.Ping(ctx); err != nil {
				resp.Checks[c.Name] = "down: " + err.Error()
				resp.Status = "DEGRADED"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[c.Name] = "up"
		}
	}
	s.respond(w, r, status, resp)
}

package handlers

import (
	"net/http"
	"time"

	"driftwood/internal/engine/actors"
)

// HandleHealth handles health check requests
func (s *Server) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		result, err := s.ask(&actors.GetCountsMsg{})
		if err != nil {
			http.Error(w, "Failed to get store counts", http.StatusInternalServerError)
			return
		}
		counts, ok := result.(*actors.Counts)
		if !ok {
			http.Error(w, "Failed to get store counts", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":        "healthy",
			"auth_mode":     s.Mode,
			"durable":       s.Durable,
			"post_count":    counts.Posts,
			"comment_count": counts.Comments,
			"user_count":    counts.Users,
			"metrics":       s.Metrics.Summary(),
			"server_time":   time.Now(),
		})
	}
}

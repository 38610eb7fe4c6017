package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type parseGoalRequest struct {
	Message string `json:"message"`
}

type parseGoalResponse struct {
	DistanceMeters float64 `json:"distance_meters"`
	Category       string  `json:"category,omitempty"`
	GoalMinutes    float64 `json:"goal_minutes"`
	Pace           string  `json:"pace_per_km"`
}

// ParseGoal handles POST /goals/parse
func (h *Handler) ParseGoal(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var req parseGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	goal, err := h.svc.ParseGoal(r.Context(), req.Message)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, parseGoalResponse{
		DistanceMeters: goal.DistanceMeters,
		Category:       goal.Category,
		GoalMinutes:    goal.GoalTime.Minutes(),
		Pace:           formatPace(goal.Pace()),
	})
}

// formatPace renders a per-km pace as m:ss.
func formatPace(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

package rest

import (
	"encoding/json"
	"net/http"

	"github.com/ewilliams-labs/stride/internal/core/domain"
	"github.com/ewilliams-labs/stride/internal/core/services"
)

// GeneratePlaylist handles POST /playlists/generate
func (h *Handler) GeneratePlaylist(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	sid := sessionID(r)
	if sid == "" {
		writeErrorWithCode(w, http.StatusUnauthorized, "login required", errCodeUnauthorized)
		return
	}

	var req services.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Distance == "" || (req.GoalMinutes <= 0 && req.GoalTime == "") {
		writeErrorWithCode(w, http.StatusBadRequest, "distance and goal_minutes or goal_time ("+domain.GoalTimeFormats+") are required", errCodeInvalidGoal)
		return
	}

	playlist, err := h.svc.GeneratePlaylist(r.Context(), sid, req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.Header().Set("Location", "/playlists/"+playlist.ID)
	writeJSON(w, http.StatusCreated, playlist)
}

// GetPlaylist handles GET /playlists/{id}
func (h *Handler) GetPlaylist(w http.ResponseWriter, r *http.Request) {
	playlistID := r.PathValue("id")
	if playlistID == "" {
		writeError(w, http.StatusBadRequest, "playlist id is required")
		return
	}

	playlist, err := h.svc.GetPlaylist(r.Context(), playlistID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, playlist)
}

type phaseResponse struct {
	Name      string  `json:"name"`
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
	EnergyMin float64 `json:"energy_min"`
	EnergyMax float64 `json:"energy_max"`
}

type profileResponse struct {
	Name   string          `json:"name"`
	Phases []phaseResponse `json:"phases"`
}

// ListProfiles handles GET /profiles
func (h *Handler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles := h.svc.Profiles()
	out := make([]profileResponse, len(profiles))
	for i, p := range profiles {
		phases := make([]phaseResponse, len(p.Phases))
		for j, ph := range p.Phases {
			phases[j] = phaseResponse{Name: ph.Name, Start: ph.Start, End: ph.End, EnergyMin: ph.EnergyMin, EnergyMax: ph.EnergyMax}
		}
		out[i] = profileResponse{Name: p.Name, Phases: phases}
	}
	writeJSON(w, http.StatusOK, out)
}

package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"hubpanel/backend/hubd/internal/config"
	"hubpanel/backend/hubd/pkg/httpx"
	"hubpanel/backend/hubd/pkg/shell"
)

// PowerRequest asks uhubctl to switch one port. Location takes precedence
// over bus when both are set; it is the dot-separated path reported in the
// aggregated topology.
type PowerRequest struct {
	Bus      int    `json:"bus"`
	Port     int    `json:"port"`
	Action   string `json:"action"` // "on", "off", "cycle"
	Location string `json:"location,omitempty"`
}

type PowerResponse struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// handlePower is a pass-through to uhubctl, bounded by the scan timeout so a
// stuck hub cannot wedge the request.
func handlePower(cfg config.Config, m *metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PowerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		switch req.Action {
		case "on", "off", "cycle":
		default:
			httpx.WriteError(w, http.StatusBadRequest, "invalid action")
			return
		}

		args := []string{"uhubctl"}
		if req.Location != "" {
			args = append(args, "-l", req.Location)
		}
		args = append(args, "-p", strconv.Itoa(req.Port), "-a", req.Action)

		res, err := shell.Run(r.Context(), cfg.ScanTimeout, "sudo", args...)
		m.powerActions.WithLabelValues(req.Action).Inc()

		writeJSON(w, PowerResponse{
			ID:      uuid.NewString(),
			Success: err == nil,
			Message: string(res.Combined()),
		})
	}
}

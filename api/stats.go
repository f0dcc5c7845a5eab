package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/tomasfarkasovsky/trailhead/internal/report"
	"github.com/tomasfarkasovsky/trailhead/pkg/models"
	"github.com/tomasfarkasovsky/trailhead/pkg/repository"
)

type StatsHandler struct {
	stats repository.StatsRepo
	held  repository.UserCertificationRepo
}

// NewStatsHandler creates a new StatsHandler with required dependencies.
func NewStatsHandler(stats repository.StatsRepo, held repository.UserCertificationRepo) *StatsHandler {
	return &StatsHandler{stats: stats, held: held}
}

type statsResponse struct {
	Users []models.UserStats `json:"users"`
	Count int                `json:"count"`
}

func (h *StatsHandler) ListStats(w http.ResponseWriter, r *http.Request) {
	rows, err := h.stats.ListUserStats(r.Context())
	if err != nil {
		logger.Error("list stats", zap.Error(err))
		http.Error(w, "Error loading statistics", http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []models.UserStats{}
	}

	writeJSON(w, http.StatusOK, statsResponse{Users: rows, Count: len(rows)})
}

func (h *StatsHandler) StatsCSV(w http.ResponseWriter, r *http.Request) {
	rows, err := h.stats.ListUserStats(r.Context())
	if err != nil {
		logger.Error("list stats", zap.Error(err))
		http.Error(w, "Error loading statistics", http.StatusInternalServerError)
		return
	}

	name := report.DefaultFileName(time.Now().Year(), report.FormatCSV)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	if err := report.WriteCSV(w, rows); err != nil {
		logger.Error("write csv", zap.Error(err))
	}
}

type userCertificationsResponse struct {
	Username       string                     `json:"username"`
	Certifications []models.HeldCertification `json:"certifications"`
}

func (h *StatsHandler) UserCertifications(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	if username == "" {
		http.Error(w, "Missing username", http.StatusBadRequest)
		return
	}

	held, err := h.held.ListHeldByUsername(r.Context(), username)
	if err != nil {
		logger.Error("list certifications", zap.String("username", username), zap.Error(err))
		http.Error(w, "Error loading certifications", http.StatusInternalServerError)
		return
	}
	if len(held) == 0 {
		http.Error(w, "No certifications found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, userCertificationsResponse{Username: username, Certifications: held})
}

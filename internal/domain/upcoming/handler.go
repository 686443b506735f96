package upcoming

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"breeding-scheduler/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/upcoming", listHandler(svc))
}

type upcomingResponse struct {
	Kind        Kind      `json:"kind"`
	Date        time.Time `json:"date"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	AnimalID    string    `json:"animal_id,omitempty"`
}

// listHandler godoc
// @Summary Próximos eventos del tenant
// @Description Proyección de solo lectura: entregas, celos proyectados, vacunas y desparasitaciones dentro del horizonte, ordenados por fecha ascendente.
// @Tags upcoming
// @Produce json
// @Param X-Debug-Tenant-ID header string false "Solo en modo dev, tenant para depuración"
// @Param horizon_days query int false "Horizonte en días (default 30)"
// @Success 200 {array} upcomingResponse
// @Failure 400 {string} string "horizon_days inválido"
// @Failure 401 {string} string "unauthorized"
// @Router /upcoming [get]
func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID := middleware.RequireTenant(r.Context())
		if tenantID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		horizon := DefaultHorizonDays
		if v := r.URL.Query().Get("horizon_days"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				http.Error(w, "horizon_days must be a positive integer", http.StatusBadRequest)
				return
			}
			horizon = n
		}

		evs, err := svc.List(r.Context(), tenantID, horizon)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]upcomingResponse, 0, len(evs))
		for _, e := range evs {
			out = append(out, upcomingResponse{
				Kind:        e.Kind,
				Date:        e.Date,
				Title:       e.Title,
				Description: e.Description,
				AnimalID:    e.AnimalID,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

package reminders

import (
	"encoding/json"
	"errors"
	"net/http"

	"breeding-scheduler/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/reminders", func(rr chi.Router) {
		rr.Get("/policy", getPolicyHandler(svc))
		rr.Patch("/policy", updatePolicyHandler(svc))
		rr.Post("/scan", scanHandler(svc))
	})
}

type policyResponse struct {
	Enabled                 bool `json:"enabled"`
	PickupWindowDays        int  `json:"pickup_window_days"`
	DepositRemindersEnabled bool `json:"deposit_reminders_enabled"`
	HeatForecastWindowDays  int  `json:"heat_forecast_window_days"`
	VaccinationWindowDays   int  `json:"vaccination_window_days"`
}

// updatePolicyRequest: punteros para PATCH real, nil = no tocar.
type updatePolicyRequest struct {
	Enabled                 *bool `json:"enabled"`
	PickupWindowDays        *int  `json:"pickup_window_days"`
	DepositRemindersEnabled *bool `json:"deposit_reminders_enabled"`
	HeatForecastWindowDays  *int  `json:"heat_forecast_window_days"`
	VaccinationWindowDays   *int  `json:"vaccination_window_days"`
}

type scanResponse struct {
	TenantID string   `json:"tenant_id"`
	Ran      bool     `json:"ran"`
	Reason   string   `json:"reason,omitempty"`
	Sent     int      `json:"sent"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// getPolicyHandler godoc
// @Summary Policy de recordatorios del tenant
// @Description Devuelve la policy resuelta: valores almacenados mergeados sobre los defaults.
// @Tags reminders
// @Produce json
// @Param X-Debug-Tenant-ID header string false "Solo en modo dev, tenant para depuración"
// @Success 200 {object} policyResponse
// @Failure 401 {string} string "unauthorized"
// @Router /reminders/policy [get]
func getPolicyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID := middleware.RequireTenant(r.Context())
		if tenantID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := svc.GetPolicy(r.Context(), tenantID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toPolicyResponse(p))
	}
}

// updatePolicyHandler godoc
// @Summary Editar policy de recordatorios
// @Description PATCH: solo los campos enviados modifican el override del tenant; el resto sigue cayendo al default.
// @Tags reminders
// @Accept json
// @Produce json
// @Param X-Debug-Tenant-ID header string false "Solo en modo dev, tenant para depuración"
// @Param payload body updatePolicyRequest true "Campos a modificar"
// @Success 200 {object} policyResponse
// @Failure 400 {string} string "invalid json / ventanas negativas"
// @Failure 401 {string} string "unauthorized"
// @Router /reminders/policy [patch]
func updatePolicyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID := middleware.RequireTenant(r.Context())
		if tenantID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updatePolicyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.UpdatePolicy(r.Context(), tenantID, PolicyOverride{
			Enabled:                 req.Enabled,
			PickupWindowDays:        req.PickupWindowDays,
			DepositRemindersEnabled: req.DepositRemindersEnabled,
			HeatForecastWindowDays:  req.HeatForecastWindowDays,
			VaccinationWindowDays:   req.VaccinationWindowDays,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toPolicyResponse(p))
	}
}

// scanHandler godoc
// @Summary Disparar un scan de recordatorios
// @Description Recorre los eventos activos del tenant y dispara los recordatorios en ventana (a lo sumo una vez por key). Los errores por destinatario vienen en el body; no son errores HTTP.
// @Tags reminders
// @Produce json
// @Param X-Debug-Tenant-ID header string false "Solo en modo dev, tenant para depuración"
// @Success 200 {object} scanResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "internal error"
// @Router /reminders/scan [post]
func scanHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID := middleware.RequireTenant(r.Context())
		if tenantID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		res, err := svc.Scan(r.Context(), tenantID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, scanResponse{
			TenantID: res.TenantID,
			Ran:      res.Ran,
			Reason:   res.Reason,
			Sent:     res.Sent,
			Skipped:  res.Skipped,
			Errors:   res.Errors,
		})
	}
}

func toPolicyResponse(p Policy) policyResponse {
	return policyResponse{
		Enabled:                 p.Enabled,
		PickupWindowDays:        p.PickupWindowDays,
		DepositRemindersEnabled: p.DepositRemindersEnabled,
		HeatForecastWindowDays:  p.HeatForecastWindowDays,
		VaccinationWindowDays:   p.VaccinationWindowDays,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

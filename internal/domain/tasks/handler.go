package tasks

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"breeding-scheduler/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/litters/{litterID}/tasks", func(lr chi.Router) {
		lr.Post("/generate", generateHandler(svc))
		lr.Get("/", listHandler(svc))
		lr.Delete("/", deleteHandler(svc))
		lr.Get("/stats", statsHandler(svc))
	})

	r.Patch("/tasks/{taskID}/status", updateStatusHandler(svc))
}

type generateRequest struct {
	BirthDate string `json:"birth_date"` // YYYY-MM-DD
}

type taskResponse struct {
	ID          string     `json:"id"`
	LitterID    string     `json:"litter_id"`
	TenantID    string     `json:"tenant_id"`
	TemplateID  string     `json:"template_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     string     `json:"due_date"` // YYYY-MM-DD
	Offset      int        `json:"offset"`
	Frequency   string     `json:"frequency"`
	Category    string     `json:"category"`
	Status      Status     `json:"status"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

type statsResponse struct {
	Total          int `json:"total"`
	Completed      int `json:"completed"`
	Pending        int `json:"pending"`
	Skipped        int `json:"skipped"`
	CompletionRate int `json:"completion_rate"`
}

// generateHandler godoc
// @Summary Generar tareas de una camada
// @Description Materializa una tarea pending por cada template activo del tenant, con due dates calculadas desde la fecha de nacimiento. El batch es todo-o-nada. No detecta duplicados: para regenerar, borrar primero las tareas de la camada.
// @Tags tasks
// @Accept json
// @Produce json
// @Param X-Debug-Tenant-ID header string false "Solo en modo dev, tenant para depuración"
// @Param litterID path string true "ID de la camada"
// @Param payload body generateRequest true "birth_date en formato YYYY-MM-DD"
// @Success 201 {array} taskResponse
// @Failure 400 {string} string "invalid json / birth_date inválida"
// @Failure 401 {string} string "unauthorized"
// @Router /litters/{litterID}/tasks/generate [post]
func generateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID := middleware.RequireTenant(r.Context())
		if tenantID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		birthDate, err := time.Parse("2006-01-02", req.BirthDate)
		if err != nil {
			http.Error(w, "birth_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		ts, err := svc.Generate(r.Context(), chi.URLParam(r, "litterID"), tenantID, birthDate)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		out := make([]taskResponse, 0, len(ts))
		for _, t := range ts {
			out = append(out, toTaskResponse(t))
		}
		writeJSON(w, http.StatusCreated, out)
	}
}

// listHandler godoc
// @Summary Listar tareas de una camada
// @Tags tasks
// @Produce json
// @Param X-Debug-Tenant-ID header string false "Solo en modo dev, tenant para depuración"
// @Param litterID path string true "ID de la camada"
// @Success 200 {array} taskResponse
// @Failure 401 {string} string "unauthorized"
// @Router /litters/{litterID}/tasks [get]
func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID := middleware.RequireTenant(r.Context())
		if tenantID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		ts, err := svc.ListByLitter(r.Context(), chi.URLParam(r, "litterID"))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]taskResponse, 0, len(ts))
		for _, t := range ts {
			out = append(out, toTaskResponse(t))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// deleteHandler godoc
// @Summary Borrar tareas de una camada
// @Description Borra todas las instancias de la camada. Es el paso previo obligatorio para regenerar sin duplicar.
// @Tags tasks
// @Produce json
// @Param X-Debug-Tenant-ID header string false "Solo en modo dev, tenant para depuración"
// @Param litterID path string true "ID de la camada"
// @Success 200 {object} map[string]int
// @Failure 401 {string} string "unauthorized"
// @Router /litters/{litterID}/tasks [delete]
func deleteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID := middleware.RequireTenant(r.Context())
		if tenantID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		n, err := svc.DeleteForLitter(r.Context(), chi.URLParam(r, "litterID"))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]int{"deleted": n})
	}
}

// statsHandler godoc
// @Summary Avance de tareas de una camada
// @Tags tasks
// @Produce json
// @Param X-Debug-Tenant-ID header string false "Solo en modo dev, tenant para depuración"
// @Param litterID path string true "ID de la camada"
// @Success 200 {object} statsResponse
// @Failure 401 {string} string "unauthorized"
// @Router /litters/{litterID}/tasks/stats [get]
func statsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID := middleware.RequireTenant(r.Context())
		if tenantID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		st, err := svc.StatsForLitter(r.Context(), chi.URLParam(r, "litterID"))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, statsResponse{
			Total:          st.Total,
			Completed:      st.Completed,
			Pending:        st.Pending,
			Skipped:        st.Skipped,
			CompletionRate: st.CompletionRate,
		})
	}
}

type updateStatusRequest struct {
	Status Status  `json:"status" enums:"pending,completed,skipped"`
	Notes  *string `json:"notes"`
}

// updateStatusHandler godoc
// @Summary Cambiar estado de una tarea
// @Description Transiciones explícitas: pending->completed (setea completed_at), pending->skipped, y reabrir (->pending, limpia completed_at).
// @Tags tasks
// @Accept json
// @Produce json
// @Param X-Debug-Tenant-ID header string false "Solo en modo dev, tenant para depuración"
// @Param taskID path string true "ID de la tarea"
// @Param payload body updateStatusRequest true "Nuevo estado"
// @Success 200 {object} taskResponse
// @Failure 400 {string} string "invalid json / status inválido"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "task not found"
// @Router /tasks/{taskID}/status [patch]
func updateStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID := middleware.RequireTenant(r.Context())
		if tenantID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		t, err := svc.UpdateStatus(r.Context(), chi.URLParam(r, "taskID"), req.Status, req.Notes)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "task not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toTaskResponse(t))
	}
}

func toTaskResponse(t Instance) taskResponse {
	return taskResponse{
		ID:          t.ID,
		LitterID:    t.LitterID,
		TenantID:    t.TenantID,
		TemplateID:  t.TemplateID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate.Format("2006-01-02"),
		Offset:      t.Offset,
		Frequency:   string(t.Frequency),
		Category:    string(t.Category),
		Status:      t.Status,
		CompletedAt: t.CompletedAt,
		Notes:       t.Notes,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

package templates

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"breeding-scheduler/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	// Catálogo global (operador del sistema)
	r.Route("/admin/templates", func(ar chi.Router) {
		ar.Post("/", createGlobalHandler(svc))
		ar.Get("/", listGlobalHandler(svc))
		ar.Post("/{templateID}/deactivate", deactivateGlobalHandler(svc))
	})

	// Set del tenant
	r.Route("/templates", func(tr chi.Router) {
		tr.Post("/seed", seedHandler(svc))
		tr.Get("/", listTenantHandler(svc))
		tr.Patch("/{templateID}", updateTenantHandler(svc))
	})
}

// createGlobalRequest es el cuerpo para crear un template del catálogo global.
type createGlobalRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Offset      int       `json:"offset"` // 0-21 días, >21 semanas
	Frequency   Frequency `json:"frequency" enums:"once,daily,weekly"`
	Category    Category  `json:"category" enums:"health,care,documentation,socialization,other"`
}

type globalTemplateResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Offset      int       `json:"offset"`
	Frequency   Frequency `json:"frequency"`
	Category    Category  `json:"category"`
	Active      bool      `json:"active"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type tenantTemplateResponse struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenant_id"`
	OriginID    string    `json:"origin_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Offset      int       `json:"offset"`
	Frequency   Frequency `json:"frequency"`
	Category    Category  `json:"category"`
	Active      bool      `json:"active"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type seedResponse struct {
	TenantID      string `json:"tenant_id"`
	Seeded        int    `json:"seeded"`
	AlreadySeeded bool   `json:"already_seeded"`
}

// createGlobalHandler godoc
// @Summary Crear template global
// @Description Agrega un template de tarea al catálogo global. Offset 0-21 se interpreta como días desde el nacimiento; >21 como semanas. La desactivación posterior es soft: nunca se borra en duro.
// @Tags templates
// @Accept json
// @Produce json
// @Param payload body createGlobalRequest true "Datos del template"
// @Success 201 {object} globalTemplateResponse
// @Failure 400 {string} string "invalid json / offset o enums inválidos"
// @Router /admin/templates [post]
func createGlobalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createGlobalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		t, err := svc.CreateGlobal(r.Context(), CreateGlobalInput{
			Title:       req.Title,
			Description: req.Description,
			Offset:      req.Offset,
			Frequency:   req.Frequency,
			Category:    req.Category,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toGlobalResponse(t))
	}
}

// listGlobalHandler godoc
// @Summary Listar catálogo global
// @Tags templates
// @Produce json
// @Param include_inactive query bool false "Incluir templates desactivados"
// @Success 200 {array} globalTemplateResponse
// @Router /admin/templates [get]
func listGlobalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		includeInactive := strings.EqualFold(r.URL.Query().Get("include_inactive"), "true")

		ts, err := svc.ListGlobal(r.Context(), includeInactive)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]globalTemplateResponse, 0, len(ts))
		for _, t := range ts {
			out = append(out, toGlobalResponse(t))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// deactivateGlobalHandler godoc
// @Summary Desactivar template global
// @Description Soft delete: el template queda inactivo pero las copias de tenants siguen referenciándolo.
// @Tags templates
// @Produce json
// @Param templateID path string true "ID del template global"
// @Success 200 {object} globalTemplateResponse
// @Failure 404 {string} string "template not found"
// @Router /admin/templates/{templateID}/deactivate [post]
func deactivateGlobalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := svc.DeactivateGlobal(r.Context(), chi.URLParam(r, "templateID"))
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "template not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toGlobalResponse(t))
	}
}

// seedHandler godoc
// @Summary Inicializar templates del tenant
// @Description Copia todos los templates globales activos al set del tenant autenticado. Idempotente: si el tenant ya tiene templates responde already_seeded=true y no copia nada. Tras el seed los sets divergen (editar el catálogo global no re-sincroniza).
// @Tags templates
// @Produce json
// @Param X-Debug-Tenant-ID header string false "Solo en modo dev, tenant para depuración"
// @Success 200 {object} seedResponse
// @Failure 401 {string} string "unauthorized"
// @Router /templates/seed [post]
func seedHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID := middleware.RequireTenant(r.Context())
		if tenantID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		res, err := svc.Seed(r.Context(), tenantID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, seedResponse{
			TenantID:      res.TenantID,
			Seeded:        res.Seeded,
			AlreadySeeded: res.AlreadySeeded,
		})
	}
}

// listTenantHandler godoc
// @Summary Listar templates del tenant
// @Tags templates
// @Produce json
// @Param X-Debug-Tenant-ID header string false "Solo en modo dev, tenant para depuración"
// @Success 200 {array} tenantTemplateResponse
// @Failure 401 {string} string "unauthorized"
// @Router /templates [get]
func listTenantHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID := middleware.RequireTenant(r.Context())
		if tenantID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		ts, err := svc.ListTenant(r.Context(), tenantID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]tenantTemplateResponse, 0, len(ts))
		for _, t := range ts {
			out = append(out, toTenantResponse(t))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// updateTenantRequest: punteros para PATCH real, nil = no tocar.
type updateTenantRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Offset      *int       `json:"offset"`
	Frequency   *Frequency `json:"frequency"`
	Category    *Category  `json:"category"`
	Active      *bool      `json:"active"`
	SortOrder   *int       `json:"sort_order"`
}

// updateTenantHandler godoc
// @Summary Editar template del tenant
// @Description Edita la copia del tenant (PATCH: solo los campos enviados). El template global de origen no se modifica.
// @Tags templates
// @Accept json
// @Produce json
// @Param X-Debug-Tenant-ID header string false "Solo en modo dev, tenant para depuración"
// @Param templateID path string true "ID del template del tenant"
// @Param payload body updateTenantRequest true "Campos a modificar"
// @Success 200 {object} tenantTemplateResponse
// @Failure 400 {string} string "invalid json / campos inválidos"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "template not found"
// @Router /templates/{templateID} [patch]
func updateTenantHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID := middleware.RequireTenant(r.Context())
		if tenantID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateTenantRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		t, err := svc.UpdateTenant(r.Context(), tenantID, chi.URLParam(r, "templateID"), UpdateTenantInput{
			Title:       req.Title,
			Description: req.Description,
			Offset:      req.Offset,
			Frequency:   req.Frequency,
			Category:    req.Category,
			Active:      req.Active,
			SortOrder:   req.SortOrder,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "template not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toTenantResponse(t))
	}
}

func toGlobalResponse(t GlobalTemplate) globalTemplateResponse {
	return globalTemplateResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Offset:      t.Offset,
		Frequency:   t.Frequency,
		Category:    t.Category,
		Active:      t.Active,
		SortOrder:   t.SortOrder,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toTenantResponse(t TenantTemplate) tenantTemplateResponse {
	return tenantTemplateResponse{
		ID:          t.ID,
		TenantID:    t.TenantID,
		OriginID:    t.OriginID,
		Title:       t.Title,
		Description: t.Description,
		Offset:      t.Offset,
		Frequency:   t.Frequency,
		Category:    t.Category,
		Active:      t.Active,
		SortOrder:   t.SortOrder,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	mem "breeding-scheduler/internal/adapters/storage/memory"
	"breeding-scheduler/internal/ports/events"
	"breeding-scheduler/internal/ports/notify"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notify.Message
}

func (n *recordingNotifier) Send(ctx context.Context, msg notify.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

func doJSON(t *testing.T, h http.Handler, method, path, tenantID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if tenantID != "" {
		req.Header.Set("X-Debug-User-ID", "operator-"+tenantID)
		req.Header.Set("X-Debug-Tenant-ID", tenantID)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
	return v
}

func TestRouter_HealthAndAuth(t *testing.T) {
	h := NewRouter(Options{})

	rec := doJSON(t, h, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", rec.Code)
	}

	// Sin identidad no hay acceso a los recursos del tenant.
	rec = doJSON(t, h, http.MethodPost, "/templates/seed", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("seed without identity: expected 401, got %d", rec.Code)
	}
}

func TestRouter_TemplateToTaskLifecycle(t *testing.T) {
	h := NewRouter(Options{})
	tenant := "criadero-1"

	// 1. Catálogo global con dos templates (uno en días, uno en semanas).
	rec := doJSON(t, h, http.MethodPost, "/admin/templates", tenant, map[string]any{
		"title":     "Primera vacuna",
		"offset":    1,
		"frequency": "once",
		"category":  "health",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create template #1: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, h, http.MethodPost, "/admin/templates", tenant, map[string]any{
		"title":     "Control de 6 meses",
		"offset":    26,
		"frequency": "once",
		"category":  "health",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create template #2: expected 201, got %d", rec.Code)
	}

	// 2. Seed del tenant: copia los dos y es idempotente.
	type seedResp struct {
		Seeded        int  `json:"seeded"`
		AlreadySeeded bool `json:"already_seeded"`
	}
	rec = doJSON(t, h, http.MethodPost, "/templates/seed", tenant, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("seed: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if s := decode[seedResp](t, rec); s.Seeded != 2 || s.AlreadySeeded {
		t.Fatalf("seed: unexpected result %+v", s)
	}
	rec = doJSON(t, h, http.MethodPost, "/templates/seed", tenant, nil)
	if s := decode[seedResp](t, rec); s.Seeded != 0 || !s.AlreadySeeded {
		t.Fatalf("second seed: expected already_seeded, got %+v", s)
	}

	// 3. Generar tareas para una camada nacida el 2026-01-01.
	type taskResp struct {
		ID          string     `json:"id"`
		DueDate     string     `json:"due_date"`
		Status      string     `json:"status"`
		CompletedAt *time.Time `json:"completed_at"`
	}
	rec = doJSON(t, h, http.MethodPost, "/litters/litter-1/tasks/generate", tenant, map[string]any{
		"birth_date": "2026-01-01",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("generate: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	generated := decode[[]taskResp](t, rec)
	if len(generated) != 2 {
		t.Fatalf("generate: expected 2 tasks, got %d", len(generated))
	}
	// offset 1 => +1 día; offset 26 => semanas (+182 días).
	wantDue := map[string]bool{"2026-01-02": false, "2026-07-02": false}
	for _, task := range generated {
		if task.Status != "pending" {
			t.Fatalf("generate: expected pending, got %s", task.Status)
		}
		if _, ok := wantDue[task.DueDate]; !ok {
			t.Fatalf("generate: unexpected due date %s", task.DueDate)
		}
		wantDue[task.DueDate] = true
	}
	for d, seen := range wantDue {
		if !seen {
			t.Fatalf("generate: missing due date %s", d)
		}
	}

	// 4. Completar una tarea y verificar el avance.
	rec = doJSON(t, h, http.MethodPatch, fmt.Sprintf("/tasks/%s/status", generated[0].ID), tenant, map[string]any{
		"status": "completed",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("complete task: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if done := decode[taskResp](t, rec); done.CompletedAt == nil {
		t.Fatalf("complete task: expected completed_at set")
	}

	type statsResp struct {
		Total          int `json:"total"`
		Completed      int `json:"completed"`
		Pending        int `json:"pending"`
		CompletionRate int `json:"completion_rate"`
	}
	rec = doJSON(t, h, http.MethodGet, "/litters/litter-1/tasks/stats", tenant, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("stats: expected 200, got %d", rec.Code)
	}
	if st := decode[statsResp](t, rec); st.Total != 2 || st.Completed != 1 || st.Pending != 1 || st.CompletionRate != 50 {
		t.Fatalf("stats: unexpected %+v", st)
	}

	// 5. Regenerar: primero borrar, después generar de nuevo.
	rec = doJSON(t, h, http.MethodDelete, "/litters/litter-1/tasks", tenant, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete tasks: expected 200, got %d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodPost, "/litters/litter-1/tasks/generate", tenant, map[string]any{
		"birth_date": "2026-01-01",
	})
	if regenerated := decode[[]taskResp](t, rec); len(regenerated) != 2 {
		t.Fatalf("regenerate: expected 2 tasks, got %d", len(regenerated))
	}
}

func TestRouter_ScanAndUpcoming(t *testing.T) {
	tenant := "criadero-2"
	now := time.Now().UTC()
	pickup := now.AddDate(0, 0, 7)

	source := mem.NewEventSource()
	source.PutLitter(events.Litter{
		ID:         "litter-9",
		TenantID:   tenant,
		BirthDate:  now.AddDate(0, 0, -49),
		PickupDate: &pickup,
		Buyers: []events.Buyer{
			{ID: "buyer-1", Name: "Ana", Email: "ana@example.com", RemindersOptIn: true, DepositPaid: true},
		},
	})

	notifier := &recordingNotifier{}
	h := NewRouter(Options{Notifier: notifier, Source: source})

	type scanResp struct {
		Ran     bool `json:"ran"`
		Sent    int  `json:"sent"`
		Skipped int  `json:"skipped"`
	}

	rec := doJSON(t, h, http.MethodPost, "/reminders/scan", tenant, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("scan: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if res := decode[scanResp](t, rec); !res.Ran || res.Sent != 1 {
		t.Fatalf("scan: expected 1 pickup reminder, got %+v", res)
	}

	// Re-scan dentro de la misma ventana: idempotente.
	rec = doJSON(t, h, http.MethodPost, "/reminders/scan", tenant, nil)
	if res := decode[scanResp](t, rec); res.Sent != 0 || res.Skipped != 1 {
		t.Fatalf("second scan: expected skip, got %+v", res)
	}
	if notifier.count() != 1 {
		t.Fatalf("expected exactly 1 notifier invocation, got %d", notifier.count())
	}

	// La entrega también aparece en la proyección de próximos eventos.
	type upcomingResp struct {
		Kind string `json:"kind"`
		Date string `json:"date"`
	}
	rec = doJSON(t, h, http.MethodGet, "/upcoming", tenant, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("upcoming: expected 200, got %d", rec.Code)
	}
	ups := decode[[]upcomingResp](t, rec)
	if len(ups) != 1 || ups[0].Kind != "pickup" {
		t.Fatalf("upcoming: expected 1 pickup event, got %+v", ups)
	}
}

func TestRouter_PolicyEndpoints(t *testing.T) {
	h := NewRouter(Options{})
	tenant := "criadero-3"

	type policyResp struct {
		Enabled                bool `json:"enabled"`
		PickupWindowDays       int  `json:"pickup_window_days"`
		HeatForecastWindowDays int  `json:"heat_forecast_window_days"`
	}

	rec := doJSON(t, h, http.MethodGet, "/reminders/policy", tenant, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get policy: expected 200, got %d", rec.Code)
	}
	if p := decode[policyResp](t, rec); !p.Enabled || p.PickupWindowDays != 7 {
		t.Fatalf("get policy: expected defaults, got %+v", p)
	}

	rec = doJSON(t, h, http.MethodPatch, "/reminders/policy", tenant, map[string]any{
		"pickup_window_days": 3,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch policy: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if p := decode[policyResp](t, rec); p.PickupWindowDays != 3 || p.HeatForecastWindowDays != 14 {
		t.Fatalf("patch policy: expected partial update, got %+v", p)
	}

	rec = doJSON(t, h, http.MethodPatch, "/reminders/policy", tenant, map[string]any{
		"vaccination_window_days": -2,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("patch policy: expected 400 for negative window, got %d", rec.Code)
	}
}

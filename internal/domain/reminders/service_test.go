package reminders

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"breeding-scheduler/internal/ports/events"
	"breeding-scheduler/internal/ports/notify"
)

// -------------------------
// Fakes
// -------------------------

type testPolicyRepo struct {
	byTenant map[string]PolicyOverride
}

func newTestPolicyRepo() *testPolicyRepo {
	return &testPolicyRepo{byTenant: map[string]PolicyOverride{}}
}

func (r *testPolicyRepo) Get(ctx context.Context, tenantID string) (PolicyOverride, error) {
	return r.byTenant[tenantID], nil
}

func (r *testPolicyRepo) Save(ctx context.Context, tenantID string, o PolicyOverride) error {
	r.byTenant[tenantID] = o
	return nil
}

type testLedger struct {
	keys  map[string]struct{}
	order []string
}

func newTestLedger() *testLedger {
	return &testLedger{keys: map[string]struct{}{}}
}

func (l *testLedger) Fired(ctx context.Context, key string) (bool, error) {
	_, ok := l.keys[key]
	return ok, nil
}

func (l *testLedger) Mark(ctx context.Context, key string) error {
	if _, ok := l.keys[key]; !ok {
		l.keys[key] = struct{}{}
		l.order = append(l.order, key)
	}
	return nil
}

type testSource struct {
	litters    []events.Litter
	littersErr error
	females    []events.Female
	dues       []events.HealthDue
}

func (s *testSource) ListActiveLitters(ctx context.Context, tenantID string) ([]events.Litter, error) {
	if s.littersErr != nil {
		return nil, s.littersErr
	}
	return s.litters, nil
}

func (s *testSource) ListFemales(ctx context.Context, tenantID string) ([]events.Female, error) {
	return s.females, nil
}

func (s *testSource) ListHealthDue(ctx context.Context, tenantID string) ([]events.HealthDue, error) {
	return s.dues, nil
}

func (s *testSource) ListTenantIDs(ctx context.Context) ([]string, error) {
	return []string{"tenant-1"}, nil
}

type testNotifier struct {
	sent     []notify.Message
	failNext int // cantidad de sends que fallan antes de volver a funcionar
}

func (n *testNotifier) Send(ctx context.Context, msg notify.Message) error {
	if n.failNext > 0 {
		n.failNext--
		return errors.New("delivery down")
	}
	n.sent = append(n.sent, msg)
	return nil
}

// -------------------------
// Helpers
// -------------------------

var testToday = time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC) // lunes

func newTestService(src *testSource, n notify.Notifier) (*Service, *testLedger) {
	ledger := newTestLedger()
	svc := NewService(newTestPolicyRepo(), ledger, src, n, nil)
	svc.now = func() time.Time { return testToday }
	return svc, ledger
}

func datePtr(t time.Time) *time.Time { return &t }

func litterWithPickup(pickup time.Time, buyers ...events.Buyer) events.Litter {
	return events.Litter{
		ID:         "litter-1",
		TenantID:   "tenant-1",
		BirthDate:  pickup.AddDate(0, 0, -56),
		PickupDate: datePtr(pickup),
		Buyers:     buyers,
	}
}

func optInBuyer(id string) events.Buyer {
	return events.Buyer{ID: id, Name: "Comprador " + id, Email: id + "@example.com", RemindersOptIn: true, DepositPaid: true}
}

// -------------------------
// Tests
// -------------------------

func TestService_GetPolicy_DefaultsWhenUnset(t *testing.T) {
	svc, _ := newTestService(&testSource{}, &testNotifier{})

	p, err := svc.GetPolicy(context.Background(), "tenant-1")
	if err != nil {
		t.Fatalf("GetPolicy error: %v", err)
	}
	want := Policy{
		Enabled:                 true,
		PickupWindowDays:        7,
		DepositRemindersEnabled: true,
		HeatForecastWindowDays:  14,
		VaccinationWindowDays:   7,
	}
	if p != want {
		t.Fatalf("expected defaults, got %#v", p)
	}
}

func TestService_UpdatePolicy_ShallowMerge(t *testing.T) {
	svc, _ := newTestService(&testSource{}, &testNotifier{})

	days := 3
	p, err := svc.UpdatePolicy(context.Background(), "tenant-1", PolicyOverride{PickupWindowDays: &days})
	if err != nil {
		t.Fatalf("UpdatePolicy error: %v", err)
	}
	if p.PickupWindowDays != 3 {
		t.Fatalf("expected pickup window 3, got %d", p.PickupWindowDays)
	}
	// Los campos no seteados siguen cayendo al default.
	if !p.Enabled || p.HeatForecastWindowDays != 14 {
		t.Fatalf("expected untouched defaults, got %#v", p)
	}

	neg := -1
	if _, err := svc.UpdatePolicy(context.Background(), "tenant-1", PolicyOverride{VaccinationWindowDays: &neg}); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for negative window, got %v", err)
	}
}

func TestService_Scan_NoNotifier_ZeroEffect(t *testing.T) {
	src := &testSource{litters: []events.Litter{
		litterWithPickup(testToday.AddDate(0, 0, 7), optInBuyer("b1")),
	}}
	ledger := newTestLedger()
	svc := NewService(newTestPolicyRepo(), ledger, src, nil, nil)
	svc.now = func() time.Time { return testToday }

	res, err := svc.Scan(context.Background(), "tenant-1")
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if res.Ran || res.Sent != 0 || len(ledger.keys) != 0 {
		t.Fatalf("expected zero-effect result, got %#v", res)
	}
	if res.Reason == "" {
		t.Fatalf("expected a reason")
	}
}

func TestService_Scan_Disabled_ZeroEffect(t *testing.T) {
	src := &testSource{litters: []events.Litter{
		litterWithPickup(testToday.AddDate(0, 0, 7), optInBuyer("b1")),
	}}
	notifier := &testNotifier{}
	svc, _ := newTestService(src, notifier)

	off := false
	if _, err := svc.UpdatePolicy(context.Background(), "tenant-1", PolicyOverride{Enabled: &off}); err != nil {
		t.Fatalf("UpdatePolicy error: %v", err)
	}

	res, err := svc.Scan(context.Background(), "tenant-1")
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if res.Ran || len(notifier.sent) != 0 {
		t.Fatalf("expected no sends while disabled, got %#v", res)
	}
}

func TestService_Scan_PickupWindowBoundaries(t *testing.T) {
	// pickupWindowDays=7, hoy=día 0: día 6/7/8 en ventana, día 5 y 9 afuera.
	for _, c := range []struct {
		daysAhead int
		inWindow  bool
	}{
		{5, false},
		{6, true},
		{7, true},
		{8, true},
		{9, false},
	} {
		src := &testSource{litters: []events.Litter{
			litterWithPickup(testToday.AddDate(0, 0, c.daysAhead), optInBuyer("b1")),
		}}
		notifier := &testNotifier{}
		svc, _ := newTestService(src, notifier)

		res, err := svc.Scan(context.Background(), "tenant-1")
		if err != nil {
			t.Fatalf("day %d: Scan error: %v", c.daysAhead, err)
		}
		gotSend := len(notifier.sent) == 1
		if gotSend != c.inWindow {
			t.Fatalf("day %d: expected inWindow=%v, result %#v", c.daysAhead, c.inWindow, res)
		}
	}
}

func TestService_Scan_IdempotentWithinWindow(t *testing.T) {
	src := &testSource{litters: []events.Litter{
		litterWithPickup(testToday.AddDate(0, 0, 7), optInBuyer("b1"), optInBuyer("b2")),
	}}
	notifier := &testNotifier{}
	svc, _ := newTestService(src, notifier)

	res1, err := svc.Scan(context.Background(), "tenant-1")
	if err != nil {
		t.Fatalf("Scan #1 error: %v", err)
	}
	if res1.Sent != 2 {
		t.Fatalf("expected 2 sends (one per buyer), got %d", res1.Sent)
	}

	// Segundo scan dentro de la misma ventana, sin cambios de estado:
	// cero envíos nuevos, todo skipped por ledger.
	res2, err := svc.Scan(context.Background(), "tenant-1")
	if err != nil {
		t.Fatalf("Scan #2 error: %v", err)
	}
	if res2.Sent != 0 || res2.Skipped != 2 {
		t.Fatalf("expected idempotent second scan, got %#v", res2)
	}
	if len(notifier.sent) != 2 {
		t.Fatalf("expected exactly 2 notifier invocations total, got %d", len(notifier.sent))
	}
}

func TestService_Scan_OptOutBuyerNeverNotified(t *testing.T) {
	buyer := events.Buyer{ID: "b1", Name: "Sin avisos", RemindersOptIn: false, DepositPaid: false}
	src := &testSource{litters: []events.Litter{
		litterWithPickup(testToday.AddDate(0, 0, 7), buyer),
	}}
	notifier := &testNotifier{}
	svc, _ := newTestService(src, notifier)

	if _, err := svc.Scan(context.Background(), "tenant-1"); err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if len(notifier.sent) != 0 {
		t.Fatalf("expected no sends for opted-out buyer")
	}
}

func TestService_Scan_FailedSendNotMarked_RetriesNextScan(t *testing.T) {
	src := &testSource{litters: []events.Litter{
		litterWithPickup(testToday.AddDate(0, 0, 7), optInBuyer("b1")),
	}}
	notifier := &testNotifier{failNext: 1}
	svc, ledger := newTestService(src, notifier)

	res1, err := svc.Scan(context.Background(), "tenant-1")
	if err != nil {
		t.Fatalf("Scan #1 error: %v", err)
	}
	if res1.Sent != 0 || len(res1.Errors) != 1 {
		t.Fatalf("expected collected failure, got %#v", res1)
	}
	if len(ledger.keys) != 0 {
		t.Fatalf("expected no ledger mark on failed send")
	}

	// El próximo scan reintenta y ahora sale.
	res2, err := svc.Scan(context.Background(), "tenant-1")
	if err != nil {
		t.Fatalf("Scan #2 error: %v", err)
	}
	if res2.Sent != 1 {
		t.Fatalf("expected retry to send, got %#v", res2)
	}
}

func TestService_Scan_FailureDoesNotAbortOtherRecipients(t *testing.T) {
	src := &testSource{litters: []events.Litter{
		litterWithPickup(testToday.AddDate(0, 0, 7), optInBuyer("b1"), optInBuyer("b2")),
	}}
	notifier := &testNotifier{failNext: 1}
	svc, _ := newTestService(src, notifier)

	res, err := svc.Scan(context.Background(), "tenant-1")
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if res.Sent != 1 || len(res.Errors) != 1 {
		t.Fatalf("expected 1 send + 1 collected error, got %#v", res)
	}
}

func TestService_Scan_DepositWeeklyReEligibility(t *testing.T) {
	buyer := events.Buyer{ID: "b1", Name: "Debe seña", Email: "b1@example.com", RemindersOptIn: true, DepositPaid: false}
	src := &testSource{litters: []events.Litter{
		{ID: "litter-1", TenantID: "tenant-1", BirthDate: testToday.AddDate(0, 0, -30), Buyers: []events.Buyer{buyer}},
	}}
	notifier := &testNotifier{}
	svc, _ := newTestService(src, notifier)

	// Semana W: dispara una vez, el segundo scan de la semana no.
	if res, _ := svc.Scan(context.Background(), "tenant-1"); res.Sent != 1 {
		t.Fatalf("expected 1 deposit reminder in week W, got %#v", res)
	}
	if res, _ := svc.Scan(context.Background(), "tenant-1"); res.Sent != 0 || res.Skipped != 1 {
		t.Fatalf("expected skip within same week, got %#v", res)
	}

	// Semana W+1: vuelve a ser elegible.
	svc.now = func() time.Time { return testToday.AddDate(0, 0, 7) }
	if res, _ := svc.Scan(context.Background(), "tenant-1"); res.Sent != 1 {
		t.Fatalf("expected deposit reminder re-eligible in week W+1, got %#v", res)
	}

	if len(notifier.sent) != 2 {
		t.Fatalf("expected 2 total deposit sends, got %d", len(notifier.sent))
	}
}

func TestService_Scan_HeatForecastToOperator(t *testing.T) {
	// último celo hace 166 días => proyección (+180) cae en hoy+14, justo
	// en la ventana default de 14 días.
	last := testToday.AddDate(0, 0, 14-HeatForecastDays)
	src := &testSource{females: []events.Female{
		{ID: "female-1", Name: "Luna", LastHeatStart: datePtr(last)},
	}}
	notifier := &testNotifier{}
	svc, _ := newTestService(src, notifier)

	res, err := svc.Scan(context.Background(), "tenant-1")
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if res.Sent != 1 {
		t.Fatalf("expected 1 heat reminder, got %#v", res)
	}
	msg := notifier.sent[0]
	if msg.RecipientID != "tenant-1" || msg.TemplateKey != "reminder.heat_forecast" {
		t.Fatalf("unexpected message %#v", msg)
	}
}

func TestService_Scan_VaccinationInWindow_DewormingIgnored(t *testing.T) {
	due := testToday.AddDate(0, 0, 7)
	src := &testSource{dues: []events.HealthDue{
		{ID: "hd-1", AnimalID: "a1", AnimalName: "Luna", Kind: events.HealthKindVaccination, Product: "Polivalente", DueDate: due},
		{ID: "hd-2", AnimalID: "a2", AnimalName: "Rocco", Kind: events.HealthKindDeworming, Product: "Pipeta", DueDate: due},
	}}
	notifier := &testNotifier{}
	svc, _ := newTestService(src, notifier)

	res, err := svc.Scan(context.Background(), "tenant-1")
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if res.Sent != 1 {
		t.Fatalf("expected only vaccination reminder, got %#v", res)
	}
	if notifier.sent[0].TemplateKey != "reminder.vaccination" {
		t.Fatalf("unexpected template %s", notifier.sent[0].TemplateKey)
	}
}

func TestService_Scan_SourceFailureDoesNotAbortScan(t *testing.T) {
	// La lectura de camadas falla, pero las otras fuentes siguen procesándose.
	src := &testSource{
		littersErr: errors.New("records unavailable"),
		dues: []events.HealthDue{
			{ID: "hd-1", AnimalID: "a1", AnimalName: "Luna", Kind: events.HealthKindVaccination, Product: "Polivalente", DueDate: testToday.AddDate(0, 0, 7)},
		},
	}
	notifier := &testNotifier{}
	svc, _ := newTestService(src, notifier)

	res, err := svc.Scan(context.Background(), "tenant-1")
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if !res.Ran {
		t.Fatalf("expected scan to run")
	}
	if len(res.Errors) != 1 {
		t.Fatalf("expected collected source error, got %#v", res.Errors)
	}
	if res.Sent != 1 || notifier.sent[0].TemplateKey != "reminder.vaccination" {
		t.Fatalf("expected vaccination reminder despite litter failure, got %#v", res)
	}
}

func TestService_Scan_CancelledBetweenRecipients(t *testing.T) {
	src := &testSource{litters: []events.Litter{
		litterWithPickup(testToday.AddDate(0, 0, 7), optInBuyer("b1"), optInBuyer("b2")),
	}}
	notifier := &testNotifier{}
	svc, _ := newTestService(src, notifier)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Scan(ctx, "tenant-1")
	if err == nil {
		t.Fatalf("expected context error")
	}
	if len(notifier.sent) != 0 {
		t.Fatalf("expected no sends after cancellation")
	}
}

func TestKey_Formats(t *testing.T) {
	d := time.Date(2026, 5, 11, 0, 0, 0, 0, time.UTC)
	got := Key(TypePickup, "litter-1", "b1", d)
	if got != "pickup:litter-1:b1:2026-05-11" {
		t.Fatalf("unexpected key %q", got)
	}

	week := EpochWeek(d)
	if DepositKey("litter-1", "b1", week) != fmt.Sprintf("deposit:litter-1:b1:week-%d", week) {
		t.Fatalf("unexpected deposit key")
	}

	// +7 días avanza exactamente una semana-época, sin importar a qué altura
	// de la semana cae la fecha.
	if EpochWeek(d.AddDate(0, 0, 7)) != week+1 {
		t.Fatalf("expected epoch week to advance by 1 after 7 days")
	}

	// Dentro de una misma semana-época la key no cambia.
	start := time.Unix(week*7*24*60*60, 0).UTC()
	if EpochWeek(start) != week || EpochWeek(start.AddDate(0, 0, 6)) != week {
		t.Fatalf("expected stable epoch week inside the same week")
	}
}

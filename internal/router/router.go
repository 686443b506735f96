package router

import (
	"database/sql"
	"net/http"
	"os"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "breeding-scheduler/docs"
	mem "breeding-scheduler/internal/adapters/storage/memory"
	pg "breeding-scheduler/internal/adapters/storage/postgres"
	"breeding-scheduler/internal/domain/reminders"
	"breeding-scheduler/internal/domain/tasks"
	"breeding-scheduler/internal/domain/templates"
	"breeding-scheduler/internal/domain/upcoming"
	"breeding-scheduler/internal/middleware"
	"breeding-scheduler/internal/platform/logger"
	"breeding-scheduler/internal/ports/auth"
	"breeding-scheduler/internal/ports/events"
	"breeding-scheduler/internal/ports/notify"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: colaborador de entrega. Nil = scans cortan sin efectos.
	Notifier notify.Notifier

	// Opcional: fuente de eventos de cría (tests/dev). Nil = según DB.
	Source events.Source

	Log logger.Logger
}

// App agrupa el handler HTTP y los servicios que el trigger periódico
// necesita invocar desde cmd.
type App struct {
	Handler   http.Handler
	Reminders *reminders.Service
}

func NewApp(opts Options) *App {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	log := opts.Log
	if log == nil {
		log = logger.NewFromEnv()
	}

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				log.Warn("postgres unavailable, falling back to memory", map[string]any{"err": err.Error()})
			}
		}
	}

	var (
		globalRepo templates.GlobalRepository
		tenantRepo templates.TenantRepository
		taskRepo   tasks.Repository
		policyRepo reminders.PolicyRepository
		ledger     reminders.Ledger
		source     events.Source
	)

	if db != nil {
		globalRepo = pg.NewGlobalTemplatesRepo(db)
		tenantRepo = pg.NewTenantTemplatesRepo(db)
		taskRepo = pg.NewTasksRepo(db)
		policyRepo = pg.NewPolicyRepo(db)
		ledger = pg.NewLedgerRepo(db)
		source = pg.NewEventSourceRepo(db)
	} else {
		globalRepo = mem.NewGlobalTemplateRepo()
		tenantRepo = mem.NewTenantTemplateRepo()
		taskRepo = mem.NewTaskRepo()
		policyRepo = mem.NewPolicyRepo()
		ledger = mem.NewLedger()
		source = mem.NewEventSource()
	}
	if opts.Source != nil {
		source = opts.Source
	}

	// Services por módulo
	templatesSvc := templates.NewService(globalRepo, tenantRepo)
	tasksSvc := tasks.NewService(taskRepo, templatesSvc)
	remindersSvc := reminders.NewService(policyRepo, ledger, source, opts.Notifier, log)
	upcomingSvc := upcoming.NewService(source)

	// Rutas por módulo
	templates.RegisterRoutes(r, templatesSvc)
	tasks.RegisterRoutes(r, tasksSvc)
	reminders.RegisterRoutes(r, remindersSvc)
	upcoming.RegisterRoutes(r, upcomingSvc)

	return &App{
		Handler:   r,
		Reminders: remindersSvc,
	}
}

// NewRouter conserva la firma chica para quien solo necesita el handler.
func NewRouter(opts Options) http.Handler {
	return NewApp(opts).Handler
}

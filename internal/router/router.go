package router

import (
	"database/sql"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	mem "pet-health-records/internal/adapters/storage/memory"
	pg "pet-health-records/internal/adapters/storage/postgres"
	"pet-health-records/internal/domain/logs"
	"pet-health-records/internal/domain/pets"
	"pet-health-records/internal/domain/records"
	"pet-health-records/internal/domain/reports"
	"pet-health-records/internal/export"
	"pet-health-records/internal/extract"
	"pet-health-records/internal/middleware"
	"pet-health-records/internal/platform/logger"
	"pet-health-records/internal/ports/auth"
	"pet-health-records/internal/ports/capabilities"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Capabilities: si viene nil, el gate premium de reportes no aplica.
	Capabilities capabilities.Resolver

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Upstream de síntesis de reportes; nil deja el endpoint en 502.
	Upstream reports.Upstream

	// Extracción de texto. Si faltan, se arman defaults razonables.
	PDFExtractor   extract.Extractor
	ImageExtractor extract.Extractor
	Gate           *extract.Gate

	MaxUploadBytes int64

	Log logger.Logger
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mountSwagger(r)

	log := opts.Log
	if log == nil {
		log = logger.New(logger.Options{App: "pet-health-records"})
	}

	var (
		petRepo      pets.Repository
		recordRepo   records.Repository
		logRepo      logs.Repository
		reminderRepo = mem.NewReminderRepo()
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn, 10)
			if err == nil {
				db = opened
			}
		}
	}

	if db != nil {
		petRepo = pg.NewPetsRepo(db)
		recordRepo = pg.NewRecordsRepo(db)
		logRepo = pg.NewLogsRepo(db)
		reminderRepo = pg.NewRemindersRepo(db)
	} else {
		petRepo = mem.NewPetRepo()
		recordRepo = mem.NewRecordRepo()
		logRepo = mem.NewLogRepo()
	}

	pdfx := opts.PDFExtractor
	if pdfx == nil {
		pdfx = extract.NewPDFExtractor()
	}
	imgx := opts.ImageExtractor
	if imgx == nil {
		imgx = extract.NewImageExtractor(extract.OCRConfig{})
	}
	gate := opts.Gate
	if gate == nil {
		gate = extract.NewGate(2, 30*time.Second)
	}

	maxUpload := opts.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = 10 << 20
	}

	// Services por módulo
	petsSvc := pets.NewService(petRepo)
	recordsSvc := records.NewService(recordRepo, pdfx, imgx, gate, log)
	logsSvc := logs.NewService(logRepo)
	reportsSvc := reports.NewService(petsSvc, recordRepo, logRepo, reminderRepo, opts.Upstream, log)

	// Rutas por módulo
	pets.RegisterRoutes(r, petsSvc)
	records.RegisterRoutes(r, recordsSvc, petsSvc, maxUpload)
	logs.RegisterRoutes(r, logsSvc, petsSvc)
	reports.RegisterRoutes(r, reportsSvc, opts.Capabilities)
	export.RegisterRoutes(r, petsSvc, recordsSvc, logsSvc, reminderRepo)

	return r
}
